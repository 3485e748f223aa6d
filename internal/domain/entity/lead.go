package entity

import "time"

// LeadSourceWebsiteForm marks leads produced by the form webhook.
const LeadSourceWebsiteForm = "website_form"

// Lead is a normalized contact record built from a raw form submission.
// RawData always carries the verbatim submission even when typed-field
// mapping is partial.
type Lead struct {
	ID        string            `json:"id" db:"id"`
	UserID    string            `json:"user_id" db:"user_id"`
	FormID    string            `json:"form_id" db:"form_id"`
	Source    string            `json:"source" db:"source"`
	RawData   map[string]string `json:"raw_data" db:"raw_data"`
	Email     string            `json:"email,omitempty" db:"email"`
	Name      string            `json:"name,omitempty" db:"name"`
	Phone     string            `json:"phone,omitempty" db:"phone"`
	Company   string            `json:"company,omitempty" db:"company"`
	Message   string            `json:"message,omitempty" db:"message"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
}

// SetField copies a submission value into the typed lead field named by a
// mapping entry. Unknown lead fields are ignored; the value stays available
// in RawData either way.
func (l *Lead) SetField(leadField, value string) {
	switch leadField {
	case "email":
		l.Email = value
	case "name":
		l.Name = value
	case "phone":
		l.Phone = value
	case "company":
		l.Company = value
	case "message":
		l.Message = value
	}
}

// LeadRemark is a note attached to a lead by a dashboard user.
type LeadRemark struct {
	ID        string    `json:"id" db:"id"`
	LeadID    string    `json:"lead_id" db:"lead_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Remark    string    `json:"remark" db:"remark"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
