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

type accountRepository struct {
	db *database.Database
}

func NewAccountRepository(db *database.Database) repository.AccountRepository {
	return &accountRepository{
		db: db,
	}
}

func (r *accountRepository) Upsert(ctx context.Context, account *entity.LinkedAccount) error {
	query := `
		INSERT INTO ad_accounts (user_id, platform, account_id, account_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT(user_id, platform, account_id) DO UPDATE SET
			account_name = EXCLUDED.account_name
	`

	_, err := r.db.DB.ExecContext(ctx, query,
		account.UserID,
		account.Platform,
		account.AccountID,
		account.AccountName,
	)
	if err != nil {
		return &apperr.StorageError{Op: "upsert account", Err: err}
	}

	return nil
}

func (r *accountRepository) ListByUser(ctx context.Context, userID, platform string) ([]entity.LinkedAccount, error) {
	query := `
		SELECT id, user_id, platform, account_id, account_name, created_at
		FROM ad_accounts
		WHERE user_id = $1 AND ($2 = '' OR platform = $2)
		ORDER BY platform, account_name
	`

	rows, err := r.db.DB.QueryContext(ctx, query, userID, platform)
	if err != nil {
		return nil, &apperr.StorageError{Op: "list accounts", Err: err}
	}
	defer rows.Close()

	var accounts []entity.LinkedAccount
	for rows.Next() {
		var a entity.LinkedAccount
		if err := rows.Scan(&a.ID, &a.UserID, &a.Platform, &a.AccountID, &a.AccountName, &a.CreatedAt); err != nil {
			return nil, &apperr.StorageError{Op: "scan account", Err: err}
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, &apperr.StorageError{Op: "list accounts", Err: err}
	}

	return accounts, nil
}

type preferenceRepository struct {
	db *database.Database
}

func NewPreferenceRepository(db *database.Database) repository.PreferenceRepository {
	return &preferenceRepository{
		db: db,
	}
}

func (r *preferenceRepository) GetSelectedAccount(ctx context.Context, userID, platform string) (*entity.AccountPreference, error) {
	query := `
		SELECT user_id, platform, account_id, updated_at
		FROM user_preferences
		WHERE user_id = $1 AND platform = $2
	`

	var pref entity.AccountPreference
	err := r.db.DB.QueryRowContext(ctx, query, userID, platform).Scan(
		&pref.UserID,
		&pref.Platform,
		&pref.AccountID,
		&pref.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &apperr.StorageError{Op: "get preference", Err: err}
	}

	return &pref, nil
}

func (r *preferenceRepository) SetSelectedAccount(ctx context.Context, pref *entity.AccountPreference) error {
	query := `
		INSERT INTO user_preferences (user_id, platform, account_id, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT(user_id, platform) DO UPDATE SET
			account_id = EXCLUDED.account_id,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.DB.ExecContext(ctx, query, pref.UserID, pref.Platform, pref.AccountID, time.Now())
	if err != nil {
		return &apperr.StorageError{Op: "set preference", Err: err}
	}

	return nil
}
