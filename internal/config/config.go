package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port            string
	AccountsBackend string
	AccountsFile    string
	DBPath          string
	SessionSecret   string
	SessionTTL      time.Duration
	SecureCookies   bool
	RxNavBaseURL    string
	RxNavTimeout    time.Duration
	AllowedOrigins  []string
	LogLevel        string
	Development     bool
	MCPPort         int
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:            getenv("PORT", "3000"),
		AccountsBackend: getenv("ACCOUNTS_BACKEND", BackendFile),
		AccountsFile:    getenv("ACCOUNTS_FILE", "users.json"),
		DBPath:          getenv("DB_PATH", "accounts.db"),
		SessionSecret:   os.Getenv("SESSION_SECRET"),
		SecureCookies:   getenv("SECURE_COOKIES", "false") == "true",
		RxNavBaseURL:    getenv("RXNAV_BASE_URL", "https://rxnav.nlm.nih.gov/REST"),
		AllowedOrigins:  splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		Development:     getenv("APP_ENV", "production") == "development",
	}

	var err error
	if cfg.SessionTTL, err = time.ParseDuration(getenv("SESSION_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	if cfg.RxNavTimeout, err = time.ParseDuration(getenv("RXNAV_TIMEOUT", "10s")); err != nil {
		return nil, fmt.Errorf("invalid RXNAV_TIMEOUT: %w", err)
	}
	if cfg.MCPPort, err = strconv.Atoi(getenv("MCP_PORT", "8081")); err != nil {
		return nil, fmt.Errorf("invalid MCP_PORT: %w", err)
	}

	switch cfg.AccountsBackend {
	case BackendFile, BackendSQLite:
	default:
		return nil, fmt.Errorf("ACCOUNTS_BACKEND must be %q or %q, got %q", BackendFile, BackendSQLite, cfg.AccountsBackend)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t'
	})
	var out []string
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
