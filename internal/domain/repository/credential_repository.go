package repository

import (
	"context"
	"time"

	"adinsights/internal/domain/entity"
)

type CredentialRepository interface {
	// FindByUserAndProvider returns the stored credential, or (nil, nil) when
	// none exists. An error means the store itself failed.
	FindByUserAndProvider(ctx context.Context, userID string, provider entity.Provider) (*entity.Credential, error)

	// Upsert creates or replaces the credential keyed on (user_id, provider).
	// An empty refresh token never overwrites a stored one.
	Upsert(ctx context.Context, cred *entity.Credential) error

	// UpdateAccessToken replaces only the access token and expiry, leaving the
	// refresh token untouched.
	UpdateAccessToken(ctx context.Context, userID string, provider entity.Provider, accessToken string, expiresAt time.Time) error
}
