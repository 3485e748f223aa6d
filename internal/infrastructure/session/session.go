package session

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"adinsights/internal/domain/apperr"
	"adinsights/internal/infrastructure/redis"
)

const sessionKeyPrefix = "adinsights:session:"

// Verifier resolves a dashboard bearer token to the user it belongs to. The
// session provider that issues these tokens is an external collaborator; this
// side only reads them.
type Verifier interface {
	UserID(ctx context.Context, token string) (string, error)
}

type redisVerifier struct {
	redis  *redis.RedisClient
	logger *zap.Logger
}

func NewVerifier(redisClient *redis.RedisClient, logger *zap.Logger) Verifier {
	return &redisVerifier{
		redis:  redisClient,
		logger: logger,
	}
}

func (v *redisVerifier) UserID(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", &apperr.AuthenticationError{Reason: "missing bearer token"}
	}

	userID, err := v.redis.Get(ctx, sessionKeyPrefix+token)
	if err == goredis.Nil {
		return "", &apperr.AuthenticationError{Reason: "unknown or expired session"}
	}
	if err != nil {
		return "", fmt.Errorf("session lookup failed: %w", err)
	}

	return userID, nil
}
