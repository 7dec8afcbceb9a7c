package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Remote club API
	API APIConfig

	// Local web console
	Console ConsoleConfig

	// Where the token and session record live
	Token   TokenConfig
	Session SessionConfig

	// Dashboard data source
	Dashboard DashboardConfig

	// Logging Configuration
	Logging LoggingConfig
}

// APIConfig locates the club API
type APIConfig struct {
	Origin  string
	BaseURL string
	Timeout time.Duration
}

// URL joins Origin and BaseURL. An absolute BaseURL is used as is.
func (c APIConfig) URL() string {
	if strings.HasPrefix(c.BaseURL, "http://") || strings.HasPrefix(c.BaseURL, "https://") {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return strings.TrimRight(c.Origin, "/") + "/" + strings.Trim(c.BaseURL, "/")
}

// ConsoleConfig holds the web console listener settings
type ConsoleConfig struct {
	Addr        string
	CORSOrigins []string
}

// TokenConfig selects the token store: keyring, file or memory
type TokenConfig struct {
	Backend string
	Path    string // file backend only, empty means the default location
}

// SessionConfig selects the session persister: file or sqlite
type SessionConfig struct {
	Backend string
	Path    string // empty means the default location
}

// DashboardConfig selects the dashboard provider: api or mock
type DashboardConfig struct {
	Provider string
	Refresh  string // cron expression
	Seed     uint64 // mock provider only
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	timeout := 15 * time.Second
	if v := os.Getenv("CLUB_API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid CLUB_API_TIMEOUT %q", v)
		}
		timeout = d
	}

	tokenBackend := getenv("TOKEN_BACKEND", "keyring")
	switch tokenBackend {
	case "keyring", "file", "memory":
	default:
		return nil, fmt.Errorf("invalid TOKEN_BACKEND %q (expected keyring, file or memory)", tokenBackend)
	}

	sessionBackend := getenv("SESSION_BACKEND", "file")
	switch sessionBackend {
	case "file", "sqlite":
	default:
		return nil, fmt.Errorf("invalid SESSION_BACKEND %q (expected file or sqlite)", sessionBackend)
	}

	provider := getenv("DASHBOARD_PROVIDER", "api")
	switch provider {
	case "api", "mock":
	default:
		return nil, fmt.Errorf("invalid DASHBOARD_PROVIDER %q (expected api or mock)", provider)
	}

	var seed uint64
	if v := os.Getenv("DASHBOARD_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid DASHBOARD_SEED %q", v)
		}
		seed = n
	} else {
		seed = uint64(time.Now().UnixNano())
	}

	var corsOrigins []string
	for _, origin := range strings.Split(getenv("CONSOLE_CORS_ORIGINS", "http://localhost:5173"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			corsOrigins = append(corsOrigins, origin)
		}
	}

	return &Config{
		API: APIConfig{
			Origin:  getenv("CLUB_API_ORIGIN", "http://localhost:8080"),
			BaseURL: getenv("CLUB_API_BASE_URL", "/api"),
			Timeout: timeout,
		},
		Console: ConsoleConfig{
			Addr:        getenv("CONSOLE_ADDR", ":5173"),
			CORSOrigins: corsOrigins,
		},
		Token: TokenConfig{
			Backend: tokenBackend,
			Path:    os.Getenv("TOKEN_PATH"),
		},
		Session: SessionConfig{
			Backend: sessionBackend,
			Path:    os.Getenv("SESSION_PATH"),
		},
		Dashboard: DashboardConfig{
			Provider: provider,
			Refresh:  getenv("DASHBOARD_REFRESH", "*/5 * * * *"),
			Seed:     seed,
		},
		Logging: LoggingConfig{
			Level:  getenv("LOG_LEVEL", "info"),
			Format: getenv("LOG_FORMAT", "console"),
		},
	}, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
