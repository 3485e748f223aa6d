package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Providers ProvidersConfig `mapstructure:"providers"`
	OAuth     OAuthConfig     `mapstructure:"oauth"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Port    int    `mapstructure:"port"`
	Env     string `mapstructure:"env"`
	BaseURL string `mapstructure:"base_url"`
}

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ProvidersConfig holds per-provider OAuth client credentials and endpoints.
// Endpoint URLs are configurable so tests can point strategies at local servers.
type ProvidersConfig struct {
	Timeout time.Duration   `mapstructure:"timeout"`
	Google  GoogleConfig    `mapstructure:"google"`
	Ads     GoogleAdsConfig `mapstructure:"google_ads"`
	Meta    MetaConfig      `mapstructure:"meta"`
}

type GoogleConfig struct {
	ClientID         string `mapstructure:"client_id"`
	ClientSecret     string `mapstructure:"client_secret"`
	AuthURL          string `mapstructure:"auth_url"`
	TokenURL         string `mapstructure:"token_url"`
	SearchConsoleURL string `mapstructure:"searchconsole_url"`
	URLInspectionURL string `mapstructure:"url_inspection_url"`
}

type GoogleAdsConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	AuthURL      string `mapstructure:"auth_url"`
	TokenURL     string `mapstructure:"token_url"`
	AccountsURL  string `mapstructure:"accounts_url"`
}

type MetaConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	AuthURL      string `mapstructure:"auth_url"`
	GraphBaseURL string `mapstructure:"graph_base_url"`
}

// OAuthConfig tunes the server-issued state nonce that correlates an
// authorize redirect with its exchange call.
type OAuthConfig struct {
	StateTTLMinutes int `mapstructure:"state_ttl_minutes"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func NewConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Enable environment variable override
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Convert timeout to duration
	cfg.Providers.Timeout = cfg.Providers.Timeout * time.Second

	ApplyDefaults(&cfg)

	return &cfg, nil
}

// ApplyDefaults fills in endpoint URLs and windows that are rarely overridden.
func ApplyDefaults(cfg *Config) {
	if cfg.Providers.Timeout == 0 {
		cfg.Providers.Timeout = 30 * time.Second
	}
	if cfg.OAuth.StateTTLMinutes == 0 {
		cfg.OAuth.StateTTLMinutes = 10
	}
	if cfg.Providers.Google.AuthURL == "" {
		cfg.Providers.Google.AuthURL = "https://accounts.google.com/o/oauth2/v2/auth"
	}
	if cfg.Providers.Google.TokenURL == "" {
		cfg.Providers.Google.TokenURL = "https://oauth2.googleapis.com/token"
	}
	if cfg.Providers.Google.SearchConsoleURL == "" {
		cfg.Providers.Google.SearchConsoleURL = "https://www.googleapis.com/webmasters/v3"
	}
	if cfg.Providers.Google.URLInspectionURL == "" {
		cfg.Providers.Google.URLInspectionURL = "https://searchconsole.googleapis.com/v1/urlInspection/index:inspect"
	}
	if cfg.Providers.Ads.AuthURL == "" {
		cfg.Providers.Ads.AuthURL = "https://accounts.google.com/o/oauth2/v2/auth"
	}
	if cfg.Providers.Ads.TokenURL == "" {
		cfg.Providers.Ads.TokenURL = "https://oauth2.googleapis.com/token"
	}
	if cfg.Providers.Ads.AccountsURL == "" {
		cfg.Providers.Ads.AccountsURL = "https://googleads.googleapis.com/v16/customers:listAccessibleCustomers"
	}
	if cfg.Providers.Meta.AuthURL == "" {
		cfg.Providers.Meta.AuthURL = "https://www.facebook.com/v18.0/dialog/oauth"
	}
	if cfg.Providers.Meta.GraphBaseURL == "" {
		cfg.Providers.Meta.GraphBaseURL = "https://graph.facebook.com/v18.0"
	}
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
