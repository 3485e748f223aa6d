// Package provider holds one strategy per external OAuth platform. Each
// strategy knows its token endpoint, consent URL, account-discovery call, and
// fallback token lifetime, so no caller ever branches on provider names.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"adinsights/internal/domain/apperr"
	"adinsights/internal/domain/entity"
)

// TokenResponse is the normalized OAuth2 token endpoint response.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"` // seconds
	RefreshToken string `json:"refresh_token"`
}

// Account is one remote account/property discovered under an access token.
type Account struct {
	ID   string
	Name string
}

// Strategy is the per-provider capability set used by the token services.
type Strategy interface {
	Provider() entity.Provider

	// AuthorizeURL builds the consent-page URL carrying the server-issued state.
	AuthorizeURL(redirectURI, state string) string

	// Exchange trades an authorization code for tokens.
	Exchange(ctx context.Context, code, redirectURI string) (*TokenResponse, error)

	// Refresh trades a refresh token for a new access token.
	Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error)

	// DiscoverAccounts lists the accounts/properties reachable with the token.
	DiscoverAccounts(ctx context.Context, accessToken string) ([]Account, error)

	// FallbackExpiry is the assumed token lifetime when the provider omits
	// expires_in from an exchange response.
	FallbackExpiry() time.Duration
}

// Registry resolves a strategy for a provider tag.
type Registry struct {
	strategies map[entity.Provider]Strategy
}

func NewRegistry(google *GoogleStrategy, ads *GoogleAdsStrategy, meta *MetaStrategy) *Registry {
	return &Registry{
		strategies: map[entity.Provider]Strategy{
			entity.ProviderSearchConsole: google,
			entity.ProviderGoogleAds:     ads,
			entity.ProviderMeta:          meta,
		},
	}
}

func (r *Registry) For(p entity.Provider) (Strategy, error) {
	s, ok := r.strategies[p]
	if !ok {
		return nil, fmt.Errorf("no strategy registered for provider %s", p)
	}
	return s, nil
}

// postTokenForm posts a form-encoded grant to a token endpoint and parses the
// response. A non-2xx status, a timeout, or a response without an access
// token all classify the same way: exchange or refresh failure carrying the
// raw provider body.
func postTokenForm(ctx context.Context, client *http.Client, providerName, tokenURL string, form url.Values, grant string) (*TokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return nil, tokenError(providerName, grant, 0, err.Error())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, tokenError(providerName, grant, resp.StatusCode, string(respBody))
	}

	var tokenResp TokenResponse
	if err := json.Unmarshal(respBody, &tokenResp); err != nil {
		return nil, tokenError(providerName, grant, resp.StatusCode, string(respBody))
	}

	if tokenResp.AccessToken == "" {
		return nil, tokenError(providerName, grant, resp.StatusCode, string(respBody))
	}

	return &tokenResp, nil
}

func tokenError(providerName, grant string, status int, body string) error {
	if grant == "refresh_token" {
		return &apperr.TokenRefreshError{Provider: providerName, StatusCode: status, Body: body}
	}
	return &apperr.TokenExchangeError{Provider: providerName, StatusCode: status, Body: body}
}

// getJSON issues an authenticated GET and decodes the JSON response body.
func getJSON(ctx context.Context, client *http.Client, accessToken, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request failed: status=%d, body=%s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

// postJSON issues an authenticated POST with a JSON body and decodes the response.
func postJSON(ctx context.Context, client *http.Client, accessToken, rawURL string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(string(payload)))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request failed: status=%d, body=%s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}
