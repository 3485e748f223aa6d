package provider

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"adinsights/internal/config"
	"adinsights/internal/domain/apperr"
	"adinsights/internal/domain/entity"
)

const metaScope = "ads_read,ads_management"

// Meta's long-lived user tokens run about 60 days; the exchange response
// does not always carry expires_in.
const metaFallbackExpiry = 60 * 24 * time.Hour

// MetaStrategy implements the Meta (Facebook) Graph API provider.
type MetaStrategy struct {
	cfg    config.MetaConfig
	client *http.Client
	logger *zap.Logger
}

func NewMetaStrategy(cfg *config.Config, logger *zap.Logger) *MetaStrategy {
	return &MetaStrategy{
		cfg: cfg.Providers.Meta,
		client: &http.Client{
			Timeout: cfg.Providers.Timeout,
		},
		logger: logger,
	}
}

func (s *MetaStrategy) Provider() entity.Provider {
	return entity.ProviderMeta
}

func (s *MetaStrategy) FallbackExpiry() time.Duration {
	return metaFallbackExpiry
}

func (s *MetaStrategy) AuthorizeURL(redirectURI, state string) string {
	params := url.Values{}
	params.Set("client_id", s.cfg.ClientID)
	params.Set("redirect_uri", redirectURI)
	params.Set("response_type", "code")
	params.Set("scope", metaScope)
	params.Set("state", state)

	return s.cfg.AuthURL + "?" + params.Encode()
}

func (s *MetaStrategy) Exchange(ctx context.Context, code, redirectURI string) (*TokenResponse, error) {
	if s.cfg.ClientID == "" || s.cfg.ClientSecret == "" {
		return nil, &apperr.ConfigurationError{Missing: "meta client credentials"}
	}

	form := url.Values{}
	form.Set("client_id", s.cfg.ClientID)
	form.Set("client_secret", s.cfg.ClientSecret)
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)

	return postTokenForm(ctx, s.client, string(entity.ProviderMeta), s.cfg.GraphBaseURL+"/oauth/access_token", form, "authorization_code")
}

func (s *MetaStrategy) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	if s.cfg.ClientID == "" || s.cfg.ClientSecret == "" {
		return nil, &apperr.ConfigurationError{Missing: "meta client credentials"}
	}

	form := url.Values{}
	form.Set("client_id", s.cfg.ClientID)
	form.Set("client_secret", s.cfg.ClientSecret)
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	return postTokenForm(ctx, s.client, string(entity.ProviderMeta), s.cfg.GraphBaseURL+"/oauth/access_token", form, "refresh_token")
}

func (s *MetaStrategy) DiscoverAccounts(ctx context.Context, accessToken string) ([]Account, error) {
	var result struct {
		Data []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"data"`
	}

	discoverURL := s.cfg.GraphBaseURL + "/me/adaccounts?fields=id,name"
	if err := getJSON(ctx, s.client, accessToken, discoverURL, &result); err != nil {
		return nil, err
	}

	accounts := make([]Account, 0, len(result.Data))
	for _, acct := range result.Data {
		name := acct.Name
		if name == "" {
			name = acct.ID
		}
		accounts = append(accounts, Account{
			ID:   acct.ID,
			Name: name,
		})
	}

	return accounts, nil
}
