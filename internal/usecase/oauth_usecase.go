package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"adinsights/internal/config"
	"adinsights/internal/domain/apperr"
	"adinsights/internal/domain/entity"
	"adinsights/internal/domain/repository"
	"adinsights/internal/infrastructure/provider"
	"adinsights/internal/infrastructure/redis"
	"adinsights/internal/infrastructure/token"
)

const stateKeyPrefix = "adinsights:oauth_state:"

// stateStore is the slice of the redis client the nonce lifecycle needs.
type stateStore interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetDel(ctx context.Context, key string) (string, error)
}

type OAuthUsecase interface {
	// AuthorizeURL issues a single-use state nonce and builds the provider
	// consent URL carrying it.
	AuthorizeURL(ctx context.Context, userID string, p entity.Provider, redirectURI string) (string, error)

	// Exchange consumes the state nonce and runs the code exchange. A state
	// that is unknown, expired, or already used fails before any provider call.
	Exchange(ctx context.Context, userID string, p entity.Provider, code, redirectURI, state string) error

	// Status reports whether a credential exists and whether it has expired.
	Status(ctx context.Context, userID string, p entity.Provider) (*entity.ConnectionStatus, error)
}

type oauthUsecase struct {
	registry    *provider.Registry
	tokens      token.Service
	credentials repository.CredentialRepository
	state       stateStore
	config      *config.Config
	logger      *zap.Logger
}

func NewOAuthUsecase(
	registry *provider.Registry,
	tokens token.Service,
	credentials repository.CredentialRepository,
	redisClient *redis.RedisClient,
	cfg *config.Config,
	logger *zap.Logger,
) OAuthUsecase {
	return &oauthUsecase{
		registry:    registry,
		tokens:      tokens,
		credentials: credentials,
		state:       redisClient,
		config:      cfg,
		logger:      logger,
	}
}

func (u *oauthUsecase) AuthorizeURL(ctx context.Context, userID string, p entity.Provider, redirectURI string) (string, error) {
	strategy, err := u.registry.For(p)
	if err != nil {
		return "", err
	}

	state := uuid.NewString()
	ttl := time.Duration(u.config.OAuth.StateTTLMinutes) * time.Minute

	if err := u.state.Set(ctx, stateKeyPrefix+state, userID+"|"+string(p), ttl); err != nil {
		return "", fmt.Errorf("failed to store oauth state: %w", err)
	}

	u.logger.Info("Issued OAuth state nonce",
		zap.String("user_id", userID),
		zap.String("provider", string(p)),
	)

	return strategy.AuthorizeURL(redirectURI, state), nil
}

func (u *oauthUsecase) Exchange(ctx context.Context, userID string, p entity.Provider, code, redirectURI, state string) error {
	if err := u.consumeState(ctx, userID, p, state); err != nil {
		return err
	}

	return u.tokens.ExchangeCode(ctx, userID, p, code, redirectURI)
}

// consumeState atomically reads and deletes the nonce, so a replayed exchange
// with the same state always fails.
func (u *oauthUsecase) consumeState(ctx context.Context, userID string, p entity.Provider, state string) error {
	if state == "" {
		return apperr.ErrInvalidState
	}

	value, err := u.state.GetDel(ctx, stateKeyPrefix+state)
	if err == goredis.Nil {
		return apperr.ErrInvalidState
	}
	if err != nil {
		return fmt.Errorf("failed to consume oauth state: %w", err)
	}

	parts := strings.SplitN(value, "|", 2)
	if len(parts) != 2 || parts[0] != userID || parts[1] != string(p) {
		u.logger.Warn("OAuth state issued for a different user or provider",
			zap.String("user_id", userID),
			zap.String("provider", string(p)),
		)
		return apperr.ErrInvalidState
	}

	return nil
}

func (u *oauthUsecase) Status(ctx context.Context, userID string, p entity.Provider) (*entity.ConnectionStatus, error) {
	cred, err := u.credentials.FindByUserAndProvider(ctx, userID, p)
	if err != nil {
		return nil, err
	}

	status := &entity.ConnectionStatus{Provider: p}
	if cred == nil {
		return status, nil
	}

	status.Connected = true
	status.Expired = cred.Expired(time.Now())
	status.ExpiresAt = &cred.ExpiresAt

	return status, nil
}
