package entity

import "time"

// LinkedAccount is a remote account or property discovered under a credential,
// e.g. a Search Console site or a Meta ad account. Unique per
// (user, platform, account_id); repeated discovery upserts.
type LinkedAccount struct {
	ID          int64     `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Platform    string    `json:"platform" db:"platform"`
	AccountID   string    `json:"account_id" db:"account_id"`
	AccountName string    `json:"account_name" db:"account_name"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// AccountPreference is the server-persisted "currently selected account"
// for one user and platform.
type AccountPreference struct {
	UserID    string    `json:"user_id" db:"user_id"`
	Platform  string    `json:"platform" db:"platform"`
	AccountID string    `json:"account_id" db:"account_id"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
