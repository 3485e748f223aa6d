package provider

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"adinsights/internal/config"
	"adinsights/internal/domain/apperr"
	"adinsights/internal/domain/entity"
)

const adsScope = "https://www.googleapis.com/auth/adwords"

// GoogleAdsStrategy shares Google's token endpoints with the Search Console
// strategy but discovers ad customers instead of properties.
type GoogleAdsStrategy struct {
	cfg    config.GoogleAdsConfig
	client *http.Client
	logger *zap.Logger
}

func NewGoogleAdsStrategy(cfg *config.Config, logger *zap.Logger) *GoogleAdsStrategy {
	return &GoogleAdsStrategy{
		cfg: cfg.Providers.Ads,
		client: &http.Client{
			Timeout: cfg.Providers.Timeout,
		},
		logger: logger,
	}
}

func (s *GoogleAdsStrategy) Provider() entity.Provider {
	return entity.ProviderGoogleAds
}

func (s *GoogleAdsStrategy) FallbackExpiry() time.Duration {
	return googleFallbackExpiry
}

func (s *GoogleAdsStrategy) AuthorizeURL(redirectURI, state string) string {
	params := url.Values{}
	params.Set("client_id", s.cfg.ClientID)
	params.Set("redirect_uri", redirectURI)
	params.Set("response_type", "code")
	params.Set("scope", adsScope)
	params.Set("access_type", "offline")
	params.Set("prompt", "consent")
	params.Set("state", state)

	return s.cfg.AuthURL + "?" + params.Encode()
}

func (s *GoogleAdsStrategy) Exchange(ctx context.Context, code, redirectURI string) (*TokenResponse, error) {
	if s.cfg.ClientID == "" || s.cfg.ClientSecret == "" {
		return nil, &apperr.ConfigurationError{Missing: "google ads client credentials"}
	}

	form := url.Values{}
	form.Set("client_id", s.cfg.ClientID)
	form.Set("client_secret", s.cfg.ClientSecret)
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)

	return postTokenForm(ctx, s.client, string(entity.ProviderGoogleAds), s.cfg.TokenURL, form, "authorization_code")
}

func (s *GoogleAdsStrategy) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	if s.cfg.ClientID == "" || s.cfg.ClientSecret == "" {
		return nil, &apperr.ConfigurationError{Missing: "google ads client credentials"}
	}

	form := url.Values{}
	form.Set("client_id", s.cfg.ClientID)
	form.Set("client_secret", s.cfg.ClientSecret)
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	return postTokenForm(ctx, s.client, string(entity.ProviderGoogleAds), s.cfg.TokenURL, form, "refresh_token")
}

func (s *GoogleAdsStrategy) DiscoverAccounts(ctx context.Context, accessToken string) ([]Account, error) {
	var result struct {
		ResourceNames []string `json:"resourceNames"`
	}

	if err := getJSON(ctx, s.client, accessToken, s.cfg.AccountsURL, &result); err != nil {
		return nil, err
	}

	accounts := make([]Account, 0, len(result.ResourceNames))
	for _, name := range result.ResourceNames {
		// Resource names look like "customers/1234567890"
		id := strings.TrimPrefix(name, "customers/")
		accounts = append(accounts, Account{
			ID:   id,
			Name: "Google Ads " + id,
		})
	}

	return accounts, nil
}
