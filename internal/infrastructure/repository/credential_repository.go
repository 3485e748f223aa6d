package repository

import (
	"context"
	"database/sql"
	"time"

	"adinsights/internal/domain/apperr"
	"adinsights/internal/domain/entity"
	"adinsights/internal/domain/repository"
	"adinsights/internal/infrastructure/database"
)

type credentialRepository struct {
	db *database.Database
}

func NewCredentialRepository(db *database.Database) repository.CredentialRepository {
	return &credentialRepository{
		db: db,
	}
}

func (r *credentialRepository) FindByUserAndProvider(ctx context.Context, userID string, provider entity.Provider) (*entity.Credential, error) {
	query := `
		SELECT id, user_id, provider, access_token, refresh_token, expires_at, created_at, updated_at
		FROM api_tokens
		WHERE user_id = $1 AND provider = $2
	`

	var cred entity.Credential
	err := r.db.DB.QueryRowContext(ctx, query, userID, string(provider)).Scan(
		&cred.ID,
		&cred.UserID,
		&cred.Provider,
		&cred.AccessToken,
		&cred.RefreshToken,
		&cred.ExpiresAt,
		&cred.CreatedAt,
		&cred.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil // Not found, return nil without error
	}
	if err != nil {
		return nil, &apperr.StorageError{Op: "find credential", Err: err}
	}

	return &cred, nil
}

func (r *credentialRepository) Upsert(ctx context.Context, cred *entity.Credential) error {
	// Keyed on (user_id, provider). A re-exchange that carries no refresh
	// token must not blank the stored one.
	query := `
		INSERT INTO api_tokens (user_id, provider, access_token, refresh_token, expires_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT(user_id, provider) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = CASE
				WHEN EXCLUDED.refresh_token <> '' THEN EXCLUDED.refresh_token
				ELSE api_tokens.refresh_token
			END,
			expires_at = EXCLUDED.expires_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.DB.ExecContext(ctx, query,
		cred.UserID,
		string(cred.Provider),
		cred.AccessToken,
		cred.RefreshToken,
		cred.ExpiresAt,
		time.Now(),
	)
	if err != nil {
		return &apperr.StorageError{Op: "upsert credential", Err: err}
	}

	return nil
}

func (r *credentialRepository) UpdateAccessToken(ctx context.Context, userID string, provider entity.Provider, accessToken string, expiresAt time.Time) error {
	query := `
		UPDATE api_tokens
		SET access_token = $1, expires_at = $2, updated_at = $3
		WHERE user_id = $4 AND provider = $5
	`

	_, err := r.db.DB.ExecContext(ctx, query, accessToken, expiresAt, time.Now(), userID, string(provider))
	if err != nil {
		return &apperr.StorageError{Op: "update access token", Err: err}
	}

	return nil
}
