package entity

import "time"

// LeadFieldNone is the sentinel mapping target meaning "ignore this field".
const LeadFieldNone = "none"

// FieldMapping maps one field of an external website form onto a lead field.
type FieldMapping struct {
	WebsiteField string `json:"websiteField"`
	LeadField    string `json:"leadField"`
}

// FormMapping is the user-configured contract for one embedded website form.
// The form id is externally supplied and acts as the webhook's only lookup key.
type FormMapping struct {
	FormID        string         `json:"form_id" db:"form_id"`
	UserID        string         `json:"user_id" db:"user_id"`
	WebsiteURL    string         `json:"website_url" db:"website_url"`
	FieldMappings []FieldMapping `json:"field_mappings" db:"field_mappings"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
}

// LeadSubmission is the untrusted webhook payload posted by an external website.
type LeadSubmission struct {
	FormID     string            `json:"formId"`
	FormData   map[string]string `json:"formData"`
	WebsiteURL string            `json:"websiteUrl"`
}
