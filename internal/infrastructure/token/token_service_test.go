package token

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"adinsights/internal/config"
	"adinsights/internal/domain/apperr"
	"adinsights/internal/domain/entity"
	"adinsights/internal/infrastructure/provider"
)

type fakeCredentialRepo struct {
	creds map[string]*entity.Credential
}

func newFakeCredentialRepo() *fakeCredentialRepo {
	return &fakeCredentialRepo{creds: map[string]*entity.Credential{}}
}

func credKey(userID string, p entity.Provider) string {
	return userID + "|" + string(p)
}

func (f *fakeCredentialRepo) FindByUserAndProvider(_ context.Context, userID string, p entity.Provider) (*entity.Credential, error) {
	cred, ok := f.creds[credKey(userID, p)]
	if !ok {
		return nil, nil
	}
	cp := *cred
	return &cp, nil
}

func (f *fakeCredentialRepo) Upsert(_ context.Context, cred *entity.Credential) error {
	key := credKey(cred.UserID, cred.Provider)
	if existing, ok := f.creds[key]; ok {
		updated := *existing
		updated.AccessToken = cred.AccessToken
		if cred.RefreshToken != "" {
			updated.RefreshToken = cred.RefreshToken
		}
		updated.ExpiresAt = cred.ExpiresAt
		f.creds[key] = &updated
		return nil
	}
	cp := *cred
	f.creds[key] = &cp
	return nil
}

func (f *fakeCredentialRepo) UpdateAccessToken(_ context.Context, userID string, p entity.Provider, accessToken string, expiresAt time.Time) error {
	cred, ok := f.creds[credKey(userID, p)]
	if !ok {
		return nil
	}
	cred.AccessToken = accessToken
	cred.ExpiresAt = expiresAt
	return nil
}

type fakeAccountRepo struct {
	accounts []entity.LinkedAccount
}

func (f *fakeAccountRepo) Upsert(_ context.Context, account *entity.LinkedAccount) error {
	f.accounts = append(f.accounts, *account)
	return nil
}

func (f *fakeAccountRepo) ListByUser(_ context.Context, userID, platform string) ([]entity.LinkedAccount, error) {
	return f.accounts, nil
}

func testConfig(serverURL string) *config.Config {
	cfg := &config.Config{}
	cfg.Providers.Timeout = 5 * time.Second
	cfg.Providers.Google = config.GoogleConfig{
		ClientID:         "google-client",
		ClientSecret:     "google-secret",
		AuthURL:          serverURL + "/auth",
		TokenURL:         serverURL + "/token",
		SearchConsoleURL: serverURL + "/webmasters",
		URLInspectionURL: serverURL + "/inspect",
	}
	cfg.Providers.Ads = config.GoogleAdsConfig{
		ClientID:     "ads-client",
		ClientSecret: "ads-secret",
		AuthURL:      serverURL + "/auth",
		TokenURL:     serverURL + "/token",
		AccountsURL:  serverURL + "/customers",
	}
	cfg.Providers.Meta = config.MetaConfig{
		ClientID:     "meta-client",
		ClientSecret: "meta-secret",
		AuthURL:      serverURL + "/dialog",
		GraphBaseURL: serverURL + "/graph",
	}
	return cfg
}

func newTestService(cfg *config.Config) (Service, *fakeCredentialRepo, *fakeAccountRepo) {
	logger := zap.NewNop()
	registry := provider.NewRegistry(
		provider.NewGoogleStrategy(cfg, logger),
		provider.NewGoogleAdsStrategy(cfg, logger),
		provider.NewMetaStrategy(cfg, logger),
	)
	creds := newFakeCredentialRepo()
	accounts := &fakeAccountRepo{}
	return NewService(registry, creds, accounts, logger), creds, accounts
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestExchangeCodeStoresSingleCredential(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.Form.Get("grant_type"))
		assert.Equal(t, "the-code", r.Form.Get("code"))
		assert.Equal(t, "https://app.example/callback", r.Form.Get("redirect_uri"))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"access_token":  "at-1",
			"refresh_token": "rt-1",
			"expires_in":    3600,
		})
	})
	mux.HandleFunc("/webmasters/sites", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"siteEntry": []map[string]string{
				{"siteUrl": "https://example.com/", "permissionLevel": "siteOwner"},
			},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	svc, creds, accounts := newTestService(testConfig(server.URL))

	err := svc.ExchangeCode(context.Background(), "user-1", entity.ProviderSearchConsole, "the-code", "https://app.example/callback")
	require.NoError(t, err)

	require.Len(t, creds.creds, 1)
	stored := creds.creds[credKey("user-1", entity.ProviderSearchConsole)]
	require.NotNil(t, stored)
	assert.Equal(t, "at-1", stored.AccessToken)
	assert.Equal(t, "rt-1", stored.RefreshToken)
	assert.WithinDuration(t, time.Now().Add(time.Hour), stored.ExpiresAt, 5*time.Second)

	require.Len(t, accounts.accounts, 1)
	assert.Equal(t, "https://example.com/", accounts.accounts[0].AccountID)
	assert.Equal(t, "search_console", accounts.accounts[0].Platform)
}

func TestReExchangeUpdatesInsteadOfDuplicating(t *testing.T) {
	exchanges := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		exchanges++
		resp := map[string]interface{}{
			"access_token": "at-2",
			"expires_in":   3600,
		}
		if exchanges == 1 {
			resp["access_token"] = "at-1"
			resp["refresh_token"] = "rt-1"
		}
		// Second exchange omits refresh_token entirely.
		writeJSON(w, http.StatusOK, resp)
	})
	mux.HandleFunc("/webmasters/sites", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	svc, creds, _ := newTestService(testConfig(server.URL))
	ctx := context.Background()

	require.NoError(t, svc.ExchangeCode(ctx, "user-1", entity.ProviderSearchConsole, "code-1", "https://app.example/cb"))
	require.NoError(t, svc.ExchangeCode(ctx, "user-1", entity.ProviderSearchConsole, "code-2", "https://app.example/cb"))

	require.Len(t, creds.creds, 1)
	stored := creds.creds[credKey("user-1", entity.ProviderSearchConsole)]
	assert.Equal(t, "at-2", stored.AccessToken)
	// The refresh token from the first exchange must survive the second.
	assert.Equal(t, "rt-1", stored.RefreshToken)
}

func TestRefreshWithoutRefreshTokenNeverCallsProvider(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeJSON(w, http.StatusOK, map[string]interface{}{"access_token": "never"})
	}))
	defer server.Close()

	svc, _, _ := newTestService(testConfig(server.URL))

	cred := &entity.Credential{
		UserID:      "user-1",
		Provider:    entity.ProviderSearchConsole,
		AccessToken: "at-stale",
	}

	_, err := svc.Refresh(context.Background(), cred)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrReauthenticationRequired)
	assert.Zero(t, calls)
}

func TestFailedRefreshLeavesStoredCredentialUntouched(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_grant"})
	}))
	defer server.Close()

	svc, creds, _ := newTestService(testConfig(server.URL))

	original := &entity.Credential{
		UserID:       "user-1",
		Provider:     entity.ProviderSearchConsole,
		AccessToken:  "at-old",
		RefreshToken: "rt-old",
		ExpiresAt:    time.Now().Add(-time.Hour),
	}
	creds.creds[credKey("user-1", entity.ProviderSearchConsole)] = original

	before := *original

	_, err := svc.Refresh(context.Background(), original)
	require.Error(t, err)

	var refreshErr *apperr.TokenRefreshError
	require.True(t, errors.As(err, &refreshErr))
	assert.Equal(t, http.StatusBadRequest, refreshErr.StatusCode)
	assert.Contains(t, refreshErr.Body, "invalid_grant")

	after := creds.creds[credKey("user-1", entity.ProviderSearchConsole)]
	assert.Equal(t, before.AccessToken, after.AccessToken)
	assert.Equal(t, before.RefreshToken, after.RefreshToken)
	assert.Equal(t, before.ExpiresAt, after.ExpiresAt)
}

func TestDiscoveryFailureDoesNotFailExchange(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"access_token":  "at-1",
			"refresh_token": "rt-1",
			"expires_in":    3600,
		})
	})
	mux.HandleFunc("/webmasters/sites", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "boom"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	svc, creds, accounts := newTestService(testConfig(server.URL))

	err := svc.ExchangeCode(context.Background(), "user-1", entity.ProviderSearchConsole, "code", "https://app.example/cb")
	require.NoError(t, err)

	assert.Len(t, creds.creds, 1)
	assert.Empty(t, accounts.accounts)
}

func TestMetaExchangeUsesFallbackExpiry(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/graph/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		// No expires_in in the response.
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"access_token": "meta-at",
			"token_type":   "bearer",
		})
	})
	mux.HandleFunc("/graph/me/adaccounts", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"data": []map[string]string{{"id": "act_1", "name": "Main"}},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	svc, creds, accounts := newTestService(testConfig(server.URL))

	err := svc.ExchangeCode(context.Background(), "user-1", entity.ProviderMeta, "code", "https://app.example/cb")
	require.NoError(t, err)

	stored := creds.creds[credKey("user-1", entity.ProviderMeta)]
	require.NotNil(t, stored)
	assert.WithinDuration(t, time.Now().Add(60*24*time.Hour), stored.ExpiresAt, 5*time.Second)

	require.Len(t, accounts.accounts, 1)
	assert.Equal(t, "act_1", accounts.accounts[0].AccountID)
	assert.Equal(t, "Main", accounts.accounts[0].AccountName)
}

func TestAccessTokenRefreshesExpiredCredential(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		assert.Equal(t, "rt-1", r.Form.Get("refresh_token"))
		// Refresh responses typically omit expires_in.
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"access_token": "at-new",
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	svc, creds, _ := newTestService(testConfig(server.URL))

	creds.creds[credKey("user-1", entity.ProviderSearchConsole)] = &entity.Credential{
		UserID:       "user-1",
		Provider:     entity.ProviderSearchConsole,
		AccessToken:  "at-old",
		RefreshToken: "rt-1",
		ExpiresAt:    time.Now().Add(-time.Minute),
	}

	accessToken, err := svc.AccessToken(context.Background(), "user-1", entity.ProviderSearchConsole)
	require.NoError(t, err)
	assert.Equal(t, "at-new", accessToken)

	stored := creds.creds[credKey("user-1", entity.ProviderSearchConsole)]
	assert.Equal(t, "at-new", stored.AccessToken)
	assert.Equal(t, "rt-1", stored.RefreshToken)
	assert.WithinDuration(t, time.Now().Add(time.Hour), stored.ExpiresAt, 5*time.Second)
}

func TestAccessTokenWithoutCredentialRequiresReauth(t *testing.T) {
	svc, _, _ := newTestService(testConfig("http://127.0.0.1:0"))

	_, err := svc.AccessToken(context.Background(), "user-1", entity.ProviderSearchConsole)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrReauthenticationRequired)
}
