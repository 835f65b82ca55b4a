package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type DemoMode string

const (
	DemoAuto DemoMode = "auto"
	DemoOn   DemoMode = "on"
	DemoOff  DemoMode = "off"
)

type Config struct {
	Port        string
	Env         string
	LogLevel    string
	DatabaseURL string
	DemoMode    DemoMode

	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	FrontendCallbackURL string
	FrontendURL         string
	BaseURL             string

	GitHub OAuthConfig
	Google OAuthConfig
	GitLab OAuthConfig
	// GitLabURL is gitlab.com or a self-hosted instance.
	GitLabURL string

	SMTP    SMTPConfig
	Storage StorageConfig
	Listing ListingConfig

	AnalyticsFlushInterval time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type StorageConfig struct {
	Bucket        string
	Region        string
	Endpoint      string
	PublicBaseURL string
	MaxBytes      int64
}

type ListingConfig struct {
	PageSize    int
	MaxPageSize int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		DemoMode:    parseDemoMode(getEnv("DEMO_MODE", string(DemoAuto))),

		JWTSecret:        getEnvOrPanic("JWT_SECRET"),
		JWTAccessExpiry:  getDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
		JWTRefreshExpiry: getDuration("JWT_REFRESH_EXPIRY", 168*time.Hour),

		FrontendCallbackURL: getEnv("FRONTEND_CALLBACK_URL", "http://localhost:5173/auth/callback"),
		FrontendURL:         getEnv("FRONTEND_URL", "http://localhost:5173"),
		BaseURL:             getEnv("BASE_URL", "http://localhost:8080"),

		GitHub: OAuthConfig{
			ClientID:     getEnv("GITHUB_CLIENT_ID", ""),
			ClientSecret: getEnv("GITHUB_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GITHUB_REDIRECT_URL", ""),
		},
		Google: OAuthConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
		},
		GitLab: OAuthConfig{
			ClientID:     getEnv("GITLAB_CLIENT_ID", ""),
			ClientSecret: getEnv("GITLAB_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GITLAB_REDIRECT_URL", ""),
		},
		GitLabURL: getEnv("GITLAB_URL", "https://gitlab.com"),

		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", ""),
		},

		Storage: StorageConfig{
			Bucket:        getEnv("S3_BUCKET", ""),
			Region:        getEnv("S3_REGION", "us-east-1"),
			Endpoint:      getEnv("S3_ENDPOINT", ""),
			PublicBaseURL: getEnv("S3_PUBLIC_BASE_URL", ""),
			MaxBytes:      int64(getInt("UPLOAD_MAX_BYTES", 5<<20)),
		},

		Listing: ListingConfig{
			PageSize:    getInt("LISTING_PAGE_SIZE", 12),
			MaxPageSize: getInt("LISTING_MAX_PAGE_SIZE", 50),
		},

		AnalyticsFlushInterval: getDuration("ANALYTICS_FLUSH_INTERVAL", time.Minute),
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// DemoFallbackAllowed reports whether an unreachable database may be replaced
// by the demonstration dataset at startup.
func (c *Config) DemoFallbackAllowed() bool {
	return c.DemoMode == DemoAuto
}

func (c *Config) StorageConfigured() bool {
	return c.Storage.Bucket != ""
}

func parseDemoMode(v string) DemoMode {
	switch DemoMode(strings.ToLower(strings.TrimSpace(v))) {
	case DemoOn:
		return DemoOn
	case DemoOff:
		return DemoOff
	default:
		return DemoAuto
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvOrPanic(key string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		panic("required environment variable not set: " + key)
	}
	return value
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, fallback.String()))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
