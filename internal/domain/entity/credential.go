package entity

import "time"

// Credential represents one stored OAuth grant for a (user, provider) pair.
// At most one row exists per pair; re-exchange updates in place.
type Credential struct {
	ID           int64     `json:"id" db:"id"`
	UserID       string    `json:"user_id" db:"user_id"`
	Provider     Provider  `json:"provider" db:"provider"`
	AccessToken  string    `json:"-" db:"access_token"`
	RefreshToken string    `json:"-" db:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Expired reports whether the access token needs a refresh before use.
func (c *Credential) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// ConnectionStatus describes a credential for the dashboard without
// exposing token material.
type ConnectionStatus struct {
	Provider  Provider   `json:"provider"`
	Connected bool       `json:"connected"`
	Expired   bool       `json:"expired"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
