package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Sheets    SheetsConfig
	Auth      AuthConfig
	TLS       TLSConfig
	Cache     CacheConfig
	Log       LogConfig
	Telemetry TelemetryConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	AllowedHosts []string
}

// SheetsConfig points at the wallet spreadsheet. Worksheets are addressed by
// gid, the numeric id shown in the sheet URL. The first worksheet of a
// document has gid 0, so NotConfigured (-1) marks an absent id.
type SheetsConfig struct {
	CredentialsFile string
	SpreadsheetID   string
	Timeout         time.Duration
	Worksheets      WorksheetIDs
}

const NotConfigured int64 = -1

type WorksheetIDs struct {
	General       int64
	Transactions  int64
	PassiveIncome int64
	Stocks        int64
	RealEstate    int64
	SmallCaps     int64
	Results       int64
	Dividends     int64
}

type AuthConfig struct {
	Username     string
	PasswordHash string
	JWTSecret    string
	SessionTTL   time.Duration
}

// Enabled reports whether the dashboard sits behind the login page.
func (a AuthConfig) Enabled() bool {
	return a.PasswordHash != ""
}

type TLSConfig struct {
	Enabled      bool
	CertPath     string
	KeyPath      string
	RedirectHTTP bool
}

type CacheConfig struct {
	RedisURL string
	TTL      time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	Environment  string
	OTLPEndpoint string
}

// Load reads envFile (when it exists) into the process environment and builds
// the configuration from it. Variables already set in the environment win.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read env file %s: %w", envFile, err)
		}
	}

	timeout, err := time.ParseDuration(getEnv("SHEETS_TIMEOUT", "20s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHEETS_TIMEOUT: %w", err)
	}
	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}

	worksheets, err := loadWorksheetIDs()
	if err != nil {
		return nil, err
	}

	// Parse allowed hosts (comma-separated list)
	var allowedHosts []string
	for _, host := range strings.Split(getEnv("ALLOWED_HOSTS", ""), ",") {
		host = strings.TrimSpace(host)
		if host != "" {
			allowedHosts = append(allowedHosts, host)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8501"),
			Host:         getEnv("HOST", "0.0.0.0"),
			AllowedHosts: allowedHosts,
		},
		Sheets: SheetsConfig{
			CredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
			SpreadsheetID:   getEnv("WALLET_SHEET_ID", ""),
			Timeout:         timeout,
			Worksheets:      worksheets,
		},
		Auth: AuthConfig{
			Username:     getEnv("DASHBOARD_USERNAME", "admin"),
			PasswordHash: getEnv("DASHBOARD_PASSWORD_HASH", ""),
			JWTSecret:    getEnv("JWT_SECRET", ""),
			SessionTTL:   sessionTTL,
		},
		TLS: TLSConfig{
			Enabled:      getBoolEnv("TLS_ENABLED", false),
			CertPath:     getEnv("TLS_CERT_PATH", ""),
			KeyPath:      getEnv("TLS_KEY_PATH", ""),
			RedirectHTTP: getBoolEnv("TLS_REDIRECT_HTTP", false),
		},
		Cache: CacheConfig{
			RedisURL: getEnv("REDIS_URL", ""),
			TTL:      cacheTTL,
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBoolEnv("OTEL_ENABLED", false),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "wallet-dashboard"),
			Environment:  getEnv("OTEL_ENVIRONMENT", "local"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", "localhost:4317"),
		},
	}

	// Validate required fields
	if cfg.Sheets.SpreadsheetID == "" {
		return nil, fmt.Errorf("WALLET_SHEET_ID is required")
	}
	if cfg.Sheets.CredentialsFile == "" {
		return nil, fmt.Errorf("GOOGLE_CREDENTIALS_FILE is required")
	}
	if cfg.Auth.Enabled() && cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required when DASHBOARD_PASSWORD_HASH is set")
	}

	// Validate TLS configuration
	if cfg.TLS.Enabled {
		if cfg.TLS.CertPath == "" {
			return nil, fmt.Errorf("TLS_CERT_PATH is required when TLS_ENABLED=true")
		}
		if cfg.TLS.KeyPath == "" {
			return nil, fmt.Errorf("TLS_KEY_PATH is required when TLS_ENABLED=true")
		}
	}

	return cfg, nil
}

func loadWorksheetIDs() (WorksheetIDs, error) {
	var ids WorksheetIDs
	fields := []struct {
		key string
		dst *int64
	}{
		{"GENERAL_WORKSHEET_ID", &ids.General},
		{"LOG_TRANSACTIONS_WORKSHEET_ID", &ids.Transactions},
		{"LOG_PASSIVE_INCOME_WORKSHEET_ID", &ids.PassiveIncome},
		{"ASSET_STOCKS_WORKSHEET_ID", &ids.Stocks},
		{"ASSET_REAL_ESTATE_WORKSHEET_ID", &ids.RealEstate},
		{"ASSET_SMALL_CAPS_WORKSHEET_ID", &ids.SmallCaps},
		{"ASSET_RESULT_WORKSHEET_ID", &ids.Results},
		{"ASSET_DIVIDENDS_WORKSHEET_ID", &ids.Dividends},
	}
	for _, f := range fields {
		v, err := getIntEnv(f.key, NotConfigured)
		if err != nil {
			return ids, err
		}
		*f.dst = v
	}
	return ids, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept: true, false, 1, 0, yes, no (case-insensitive)
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}
