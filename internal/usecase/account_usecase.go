package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"adinsights/internal/domain/entity"
	"adinsights/internal/domain/repository"
)

type AccountUsecase interface {
	// ListAccounts returns the user's discovered accounts, optionally
	// filtered by platform.
	ListAccounts(ctx context.Context, userID, platform string) ([]entity.LinkedAccount, error)

	// SelectedAccount returns the server-persisted selection for a platform,
	// or nil when none has been chosen.
	SelectedAccount(ctx context.Context, userID, platform string) (*entity.AccountPreference, error)

	// SelectAccount persists the user's current account choice.
	SelectAccount(ctx context.Context, userID, platform, accountID string) error
}

type accountUsecase struct {
	accounts    repository.AccountRepository
	preferences repository.PreferenceRepository
	logger      *zap.Logger
}

func NewAccountUsecase(accounts repository.AccountRepository, preferences repository.PreferenceRepository, logger *zap.Logger) AccountUsecase {
	return &accountUsecase{
		accounts:    accounts,
		preferences: preferences,
		logger:      logger,
	}
}

func (u *accountUsecase) ListAccounts(ctx context.Context, userID, platform string) ([]entity.LinkedAccount, error) {
	return u.accounts.ListByUser(ctx, userID, platform)
}

func (u *accountUsecase) SelectedAccount(ctx context.Context, userID, platform string) (*entity.AccountPreference, error) {
	if platform == "" {
		return nil, fmt.Errorf("platform is required")
	}

	return u.preferences.GetSelectedAccount(ctx, userID, platform)
}

func (u *accountUsecase) SelectAccount(ctx context.Context, userID, platform, accountID string) error {
	if platform == "" || accountID == "" {
		return fmt.Errorf("platform and account id are required")
	}

	pref := &entity.AccountPreference{
		UserID:    userID,
		Platform:  platform,
		AccountID: accountID,
	}

	if err := u.preferences.SetSelectedAccount(ctx, pref); err != nil {
		return err
	}

	u.logger.Info("Selected account updated",
		zap.String("user_id", userID),
		zap.String("platform", platform),
		zap.String("account_id", accountID),
	)

	return nil
}
