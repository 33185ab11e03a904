package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration for the gateway.
// It merges file defaults and environment overrides to support both local and deployed runs.
type Config struct {
	ServiceID string
	HTTPPort  int

	IDPEndpoint string
	IDPIssuer   string
	IDPJWKSURL  string
	IDPClientID string
	IDPTimeout  time.Duration

	CampaignAPIBaseURL string
	CampaignAPITimeout time.Duration

	JWTAccessSecret  string
	JWTRefreshSecret string
	LocalIssuer      string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration

	RedisURL string

	CookieSecure bool

	PollInterval    time.Duration
	PollMaxAttempts int
}

// configFile mirrors the YAML schema used by configs/default.yaml.
// It is intentionally separate from Config so runtime-only fields stay internal.
type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
	} `yaml:"service"`
	IdentityProvider struct {
		Endpoint string `yaml:"endpoint"`
		Issuer   string `yaml:"issuer"`
		JWKSURL  string `yaml:"jwks_url"`
		ClientID string `yaml:"client_id"`
	} `yaml:"identity_provider"`
	CampaignAPI struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"campaign_api"`
	Dependencies struct {
		RedisURL string `yaml:"redis_url"`
	} `yaml:"dependencies"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
// This order keeps local bootstrap simple while allowing environment-specific overrides.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:          "campaign-gateway",
		HTTPPort:           8080,
		IDPTimeout:         8 * time.Second,
		CampaignAPITimeout: 15 * time.Second,
		LocalIssuer:        "campaign-gateway",
		AccessTokenTTL:     time.Hour,
		RefreshTokenTTL:    7 * 24 * time.Hour,
		PollInterval:       3 * time.Second,
		PollMaxAttempts:    100,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.IdentityProvider.Endpoint != "" {
			cfg.IDPEndpoint = f.IdentityProvider.Endpoint
		}
		if f.IdentityProvider.Issuer != "" {
			cfg.IDPIssuer = f.IdentityProvider.Issuer
		}
		if f.IdentityProvider.JWKSURL != "" {
			cfg.IDPJWKSURL = f.IdentityProvider.JWKSURL
		}
		if f.IdentityProvider.ClientID != "" {
			cfg.IDPClientID = f.IdentityProvider.ClientID
		}
		if f.CampaignAPI.BaseURL != "" {
			cfg.CampaignAPIBaseURL = f.CampaignAPI.BaseURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
	}

	// The Cognito-style provider endpoint and issuer derive from region and
	// user pool when not set explicitly.
	region := os.Getenv("AWS_REGION")
	userPoolID := os.Getenv("COGNITO_USER_POOL_ID")
	if cfg.IDPEndpoint == "" && region != "" {
		cfg.IDPEndpoint = fmt.Sprintf("https://cognito-idp.%s.amazonaws.com", region)
	}
	if cfg.IDPIssuer == "" && cfg.IDPEndpoint != "" && userPoolID != "" {
		cfg.IDPIssuer = strings.TrimRight(cfg.IDPEndpoint, "/") + "/" + userPoolID
	}

	cfg.IDPEndpoint = envOrDefault("IDP_ENDPOINT", cfg.IDPEndpoint)
	cfg.IDPIssuer = envOrDefault("IDP_ISSUER", cfg.IDPIssuer)
	cfg.IDPJWKSURL = envOrDefault("IDP_JWKS_URL", cfg.IDPJWKSURL)
	cfg.IDPClientID = envOrDefault("COGNITO_CLIENT_ID", cfg.IDPClientID)
	cfg.CampaignAPIBaseURL = envOrDefault("CAMPAIGN_API_BASE_URL", cfg.CampaignAPIBaseURL)
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.JWTAccessSecret = envOrDefault("JWT_SECRET", cfg.JWTAccessSecret)
	cfg.JWTRefreshSecret = envOrDefault("JWT_SECRET_REFRESH", cfg.JWTRefreshSecret)
	cfg.LocalIssuer = envOrDefault("JWT_ISSUER", cfg.LocalIssuer)

	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.PollMaxAttempts = envInt("REPORT_POLL_MAX_ATTEMPTS", cfg.PollMaxAttempts)
	cfg.PollInterval = time.Duration(envInt("REPORT_POLL_SECONDS", int(cfg.PollInterval.Seconds()))) * time.Second
	cfg.IDPTimeout = time.Duration(envInt("IDP_TIMEOUT_SECONDS", int(cfg.IDPTimeout.Seconds()))) * time.Second
	cfg.CampaignAPITimeout = time.Duration(envInt("CAMPAIGN_API_TIMEOUT_SECONDS", int(cfg.CampaignAPITimeout.Seconds()))) * time.Second
	cfg.AccessTokenTTL = time.Duration(envInt("JWT_DURATION_SECONDS", int(cfg.AccessTokenTTL.Seconds()))) * time.Second
	cfg.RefreshTokenTTL = time.Duration(envInt("JWT_REFRESH_DURATION_DAYS", int(cfg.RefreshTokenTTL.Hours()/24))) * 24 * time.Hour

	cfg.CookieSecure = strings.EqualFold(os.Getenv("ENVIRONMENT"), "production")
	cfg.CookieSecure = envBool("COOKIE_SECURE", cfg.CookieSecure)

	if cfg.IDPEndpoint == "" {
		return Config{}, fmt.Errorf("missing IDP_ENDPOINT or AWS_REGION")
	}
	if cfg.IDPIssuer == "" {
		return Config{}, fmt.Errorf("missing IDP_ISSUER or COGNITO_USER_POOL_ID")
	}
	if cfg.IDPClientID == "" {
		return Config{}, fmt.Errorf("missing COGNITO_CLIENT_ID")
	}
	if cfg.CampaignAPIBaseURL == "" {
		return Config{}, fmt.Errorf("missing CAMPAIGN_API_BASE_URL")
	}
	if cfg.JWTAccessSecret == "" || cfg.JWTRefreshSecret == "" {
		return Config{}, fmt.Errorf("missing JWT_SECRET or JWT_SECRET_REFRESH")
	}
	if cfg.JWTAccessSecret == cfg.JWTRefreshSecret {
		return Config{}, fmt.Errorf("JWT_SECRET and JWT_SECRET_REFRESH must differ")
	}

	return cfg, nil
}

// envOrDefault returns an env var when present, otherwise the provided fallback.
func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envInt parses integer env vars with safe fallback on empty/invalid values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// envBool parses common boolean env forms while keeping a deterministic fallback.
func envBool(name string, fallback bool) bool {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
