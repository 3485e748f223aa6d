package token

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"adinsights/internal/domain/apperr"
	"adinsights/internal/domain/entity"
	"adinsights/internal/domain/repository"
	"adinsights/internal/infrastructure/provider"
)

// Refresh responses typically omit expires_in; assume one hour.
const defaultRefreshExpiry = time.Hour

// Service owns the credential lifecycle: exchanging authorization codes,
// refreshing expired tokens, and handing out valid access tokens.
type Service interface {
	// ExchangeCode exchanges an authorization code, persists the credential,
	// and best-effort discovers the provider's accounts. Tokens never leave
	// the server; callers only learn success or failure.
	ExchangeCode(ctx context.Context, userID string, p entity.Provider, code, redirectURI string) error

	// AccessToken returns a valid access token for (user, provider),
	// refreshing transparently when the stored one has expired.
	AccessToken(ctx context.Context, userID string, p entity.Provider) (string, error)

	// Refresh obtains a new access token from the stored refresh token and
	// updates only the access token and expiry. On failure the stored row is
	// left untouched.
	Refresh(ctx context.Context, cred *entity.Credential) (*entity.Credential, error)
}

type tokenService struct {
	registry    *provider.Registry
	credentials repository.CredentialRepository
	accounts    repository.AccountRepository
	logger      *zap.Logger
	now         func() time.Time
}

func NewService(
	registry *provider.Registry,
	credentials repository.CredentialRepository,
	accounts repository.AccountRepository,
	logger *zap.Logger,
) Service {
	return &tokenService{
		registry:    registry,
		credentials: credentials,
		accounts:    accounts,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *tokenService) ExchangeCode(ctx context.Context, userID string, p entity.Provider, code, redirectURI string) error {
	if code == "" {
		return fmt.Errorf("authorization code is required")
	}
	if redirectURI == "" {
		return fmt.Errorf("redirect URI is required")
	}

	strategy, err := s.registry.For(p)
	if err != nil {
		return err
	}

	s.logger.Info("Exchanging authorization code for tokens",
		zap.String("user_id", userID),
		zap.String("provider", string(p)),
	)

	tokenResp, err := strategy.Exchange(ctx, code, redirectURI)
	if err != nil {
		return fmt.Errorf("failed to exchange code: %w", err)
	}

	cred := &entity.Credential{
		UserID:       userID,
		Provider:     p,
		AccessToken:  tokenResp.AccessToken,
		RefreshToken: tokenResp.RefreshToken,
		ExpiresAt:    s.expiresAt(tokenResp.ExpiresIn, strategy.FallbackExpiry()),
	}

	if err := s.credentials.Upsert(ctx, cred); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}

	s.logger.Info("Successfully exchanged code for tokens",
		zap.String("user_id", userID),
		zap.String("provider", string(p)),
		zap.Int64("expires_in", tokenResp.ExpiresIn),
	)

	// Discovery is best-effort: the credential is already persisted, so a
	// failing accounts call must not fail the exchange.
	s.discoverAccounts(ctx, userID, strategy, tokenResp.AccessToken)

	return nil
}

func (s *tokenService) discoverAccounts(ctx context.Context, userID string, strategy provider.Strategy, accessToken string) {
	accounts, err := strategy.DiscoverAccounts(ctx, accessToken)
	if err != nil {
		s.logger.Warn("Account discovery failed after exchange",
			zap.String("user_id", userID),
			zap.String("provider", string(strategy.Provider())),
			zap.Error(err),
		)
		return
	}

	platform := strategy.Provider().Platform()
	for _, acct := range accounts {
		linked := &entity.LinkedAccount{
			UserID:      userID,
			Platform:    platform,
			AccountID:   acct.ID,
			AccountName: acct.Name,
		}
		if err := s.accounts.Upsert(ctx, linked); err != nil {
			s.logger.Warn("Failed to store discovered account",
				zap.String("user_id", userID),
				zap.String("account_id", acct.ID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("Discovered accounts after exchange",
		zap.String("user_id", userID),
		zap.String("platform", platform),
		zap.Int("count", len(accounts)),
	)
}

func (s *tokenService) AccessToken(ctx context.Context, userID string, p entity.Provider) (string, error) {
	cred, err := s.credentials.FindByUserAndProvider(ctx, userID, p)
	if err != nil {
		return "", fmt.Errorf("failed to load credential: %w", err)
	}
	if cred == nil {
		return "", fmt.Errorf("no credential for %s: %w", p, apperr.ErrReauthenticationRequired)
	}

	if !cred.Expired(s.now()) {
		return cred.AccessToken, nil
	}

	s.logger.Info("Access token expired, refreshing",
		zap.String("user_id", userID),
		zap.String("provider", string(p)),
	)

	refreshed, err := s.Refresh(ctx, cred)
	if err != nil {
		return "", err
	}

	return refreshed.AccessToken, nil
}

func (s *tokenService) Refresh(ctx context.Context, cred *entity.Credential) (*entity.Credential, error) {
	if cred.RefreshToken == "" {
		// No provider call is worth making; the user has to redo consent.
		return nil, fmt.Errorf("no refresh token for %s: %w", cred.Provider, apperr.ErrReauthenticationRequired)
	}

	strategy, err := s.registry.For(cred.Provider)
	if err != nil {
		return nil, err
	}

	tokenResp, err := strategy.Refresh(ctx, cred.RefreshToken)
	if err != nil {
		// Stored credential stays untouched on a failed refresh.
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}

	expiresAt := s.expiresAt(tokenResp.ExpiresIn, defaultRefreshExpiry)
	if err := s.credentials.UpdateAccessToken(ctx, cred.UserID, cred.Provider, tokenResp.AccessToken, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to store refreshed token: %w", err)
	}

	s.logger.Info("Successfully refreshed access token",
		zap.String("user_id", cred.UserID),
		zap.String("provider", string(cred.Provider)),
	)

	updated := *cred
	updated.AccessToken = tokenResp.AccessToken
	updated.ExpiresAt = expiresAt
	return &updated, nil
}

func (s *tokenService) expiresAt(expiresIn int64, fallback time.Duration) time.Time {
	if expiresIn > 0 {
		return s.now().Add(time.Duration(expiresIn) * time.Second)
	}
	return s.now().Add(fallback)
}
