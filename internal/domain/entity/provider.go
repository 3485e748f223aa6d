package entity

import "fmt"

// Provider identifies an external OAuth2 platform the dashboard can connect.
type Provider string

const (
	ProviderSearchConsole Provider = "google_search_console"
	ProviderGoogleAds     Provider = "google_ads"
	ProviderMeta          Provider = "meta"
)

// ParseProvider validates a provider identifier from an untrusted source (route params).
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderSearchConsole, ProviderGoogleAds, ProviderMeta:
		return Provider(s), nil
	default:
		return "", fmt.Errorf("unknown provider: %q", s)
	}
}

func (p Provider) String() string {
	return string(p)
}

// Platform returns the ad_accounts platform label for accounts discovered
// under this provider.
func (p Provider) Platform() string {
	switch p {
	case ProviderSearchConsole:
		return "search_console"
	case ProviderGoogleAds:
		return "google_ads"
	case ProviderMeta:
		return "meta"
	}
	return string(p)
}
