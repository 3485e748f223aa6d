package repository

import (
	"context"

	"adinsights/internal/domain/entity"
)

type AccountRepository interface {
	// Upsert creates or refreshes a discovered account keyed on
	// (user_id, platform, account_id).
	Upsert(ctx context.Context, account *entity.LinkedAccount) error

	// ListByUser returns the user's discovered accounts, optionally filtered
	// by platform ("" means all).
	ListByUser(ctx context.Context, userID, platform string) ([]entity.LinkedAccount, error)
}

type PreferenceRepository interface {
	// GetSelectedAccount returns the selected account for (user, platform),
	// or (nil, nil) when none has been chosen yet.
	GetSelectedAccount(ctx context.Context, userID, platform string) (*entity.AccountPreference, error)

	// SetSelectedAccount creates or replaces the selection.
	SetSelectedAccount(ctx context.Context, pref *entity.AccountPreference) error
}
