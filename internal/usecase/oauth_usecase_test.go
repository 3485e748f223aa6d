package usecase

import (
	"context"
	"net/url"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"adinsights/internal/config"
	"adinsights/internal/domain/apperr"
	"adinsights/internal/domain/entity"
	"adinsights/internal/infrastructure/provider"
)

type fakeStateStore struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newFakeStateStore() *fakeStateStore {
	return &fakeStateStore{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeStateStore) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	f.values[key] = value.(string)
	f.ttls[key] = expiration
	return nil
}

func (f *fakeStateStore) GetDel(_ context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", goredis.Nil
	}
	delete(f.values, key)
	return value, nil
}

type recordingTokenService struct {
	stubTokenService
	exchanges []string
}

func (r *recordingTokenService) ExchangeCode(_ context.Context, userID string, p entity.Provider, code, _ string) error {
	r.exchanges = append(r.exchanges, userID+"|"+string(p)+"|"+code)
	return nil
}

type fakeOAuthCredRepo struct {
	cred *entity.Credential
}

func (f *fakeOAuthCredRepo) FindByUserAndProvider(context.Context, string, entity.Provider) (*entity.Credential, error) {
	return f.cred, nil
}

func (f *fakeOAuthCredRepo) Upsert(context.Context, *entity.Credential) error { return nil }

func (f *fakeOAuthCredRepo) UpdateAccessToken(context.Context, string, entity.Provider, string, time.Time) error {
	return nil
}

func newOAuthFixture(cred *entity.Credential) (*oauthUsecase, *fakeStateStore, *recordingTokenService) {
	cfg := &config.Config{}
	cfg.Providers.Timeout = 5 * time.Second
	cfg.Providers.Google.ClientID = "client-id"
	cfg.Providers.Google.ClientSecret = "client-secret"
	config.ApplyDefaults(cfg)

	logger := zap.NewNop()
	state := newFakeStateStore()
	tokens := &recordingTokenService{}

	uc := &oauthUsecase{
		registry: provider.NewRegistry(
			provider.NewGoogleStrategy(cfg, logger),
			provider.NewGoogleAdsStrategy(cfg, logger),
			provider.NewMetaStrategy(cfg, logger),
		),
		tokens:      tokens,
		credentials: &fakeOAuthCredRepo{cred: cred},
		state:       state,
		config:      cfg,
		logger:      logger,
	}
	return uc, state, tokens
}

func TestAuthorizeURLIssuesSingleUseState(t *testing.T) {
	uc, store, _ := newOAuthFixture(nil)

	raw, err := uc.AuthorizeURL(context.Background(), "user-1", entity.ProviderSearchConsole, "https://app.example/cb")
	require.NoError(t, err)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	state := parsed.Query().Get("state")
	require.NotEmpty(t, state)

	key := stateKeyPrefix + state
	assert.Equal(t, "user-1|google_search_console", store.values[key])
	assert.Equal(t, 10*time.Minute, store.ttls[key])
}

func TestExchangeConsumesStateExactlyOnce(t *testing.T) {
	uc, _, tokens := newOAuthFixture(nil)
	ctx := context.Background()

	raw, err := uc.AuthorizeURL(ctx, "user-1", entity.ProviderSearchConsole, "https://app.example/cb")
	require.NoError(t, err)
	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	state := parsed.Query().Get("state")

	err = uc.Exchange(ctx, "user-1", entity.ProviderSearchConsole, "the-code", "https://app.example/cb", state)
	require.NoError(t, err)
	require.Len(t, tokens.exchanges, 1)
	assert.Equal(t, "user-1|google_search_console|the-code", tokens.exchanges[0])

	// Replaying the same state must fail before any provider call.
	err = uc.Exchange(ctx, "user-1", entity.ProviderSearchConsole, "the-code", "https://app.example/cb", state)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
	assert.Len(t, tokens.exchanges, 1)
}

func TestExchangeRejectsStateIssuedToAnotherUser(t *testing.T) {
	uc, store, tokens := newOAuthFixture(nil)
	store.values[stateKeyPrefix+"nonce-1"] = "someone-else|google_search_console"

	err := uc.Exchange(context.Background(), "user-1", entity.ProviderSearchConsole, "code", "https://app.example/cb", "nonce-1")
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
	assert.Empty(t, tokens.exchanges)
}

func TestExchangeRejectsStateIssuedForAnotherProvider(t *testing.T) {
	uc, store, tokens := newOAuthFixture(nil)
	store.values[stateKeyPrefix+"nonce-1"] = "user-1|meta"

	err := uc.Exchange(context.Background(), "user-1", entity.ProviderSearchConsole, "code", "https://app.example/cb", "nonce-1")
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
	assert.Empty(t, tokens.exchanges)
}

func TestExchangeRejectsMissingState(t *testing.T) {
	uc, _, tokens := newOAuthFixture(nil)

	err := uc.Exchange(context.Background(), "user-1", entity.ProviderSearchConsole, "code", "https://app.example/cb", "")
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	err = uc.Exchange(context.Background(), "user-1", entity.ProviderSearchConsole, "code", "https://app.example/cb", "unknown")
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
	assert.Empty(t, tokens.exchanges)
}

func TestStatusReportsConnectionAndExpiry(t *testing.T) {
	uc, _, _ := newOAuthFixture(nil)

	status, err := uc.Status(context.Background(), "user-1", entity.ProviderSearchConsole)
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.Nil(t, status.ExpiresAt)

	expired := &entity.Credential{
		UserID:    "user-1",
		Provider:  entity.ProviderSearchConsole,
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	uc.credentials = &fakeOAuthCredRepo{cred: expired}

	status, err = uc.Status(context.Background(), "user-1", entity.ProviderSearchConsole)
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.True(t, status.Expired)
	require.NotNil(t, status.ExpiresAt)
}
