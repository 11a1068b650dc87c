// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Warehouse backends.
const (
	WarehouseDuckDB   = "duckdb"
	WarehouseBigQuery = "bigquery"
)

// Config holds process-wide configuration for the query engine and the HTTP
// server. It is resolved once at startup.
type Config struct {
	QueryDir string // directory holding query definition files (default "queries")

	// Warehouse selection and backend settings.
	Warehouse        string // "duckdb" (default) or "bigquery"
	BigQueryProject  string // required when Warehouse is "bigquery"
	BigQueryLocation string // optional BigQuery job location
	CredentialsFile  string // optional service-account file; empty means ADC
	DuckDBPath       string // DuckDB database file; empty means in-memory

	HistoryDBPath string // path to the SQLite history metastore
	ListenAddr    string // HTTP listen address (default ":8080")
	LogLevel      string // log level: debug, info, warn, error (default "info")

	// Rate limiting
	RateLimitRPS   float64 // sustained requests per second (default 100)
	RateLimitBurst int     // burst capacity (default 200)

	// CORS
	CORSAllowedOrigins []string // allowed origins for CORS (default: ["*"])

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		QueryDir:         os.Getenv("QUERY_DIR"),
		Warehouse:        strings.ToLower(os.Getenv("WAREHOUSE")),
		BigQueryProject:  os.Getenv("BIGQUERY_PROJECT"),
		BigQueryLocation: os.Getenv("BIGQUERY_LOCATION"),
		CredentialsFile:  os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		DuckDBPath:       os.Getenv("DUCKDB_PATH"),
		HistoryDBPath:    os.Getenv("HISTORY_DB_PATH"),
		ListenAddr:       os.Getenv("LISTEN_ADDR"),
		LogLevel:         os.Getenv("LOG_LEVEL"),
	}

	// Rate limiting
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimitRPS = f
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitBurst = n
		}
	}

	// CORS
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.CORSAllowedOrigins = origins
	}

	// Defaults
	if cfg.QueryDir == "" {
		cfg.QueryDir = "queries"
	}
	if cfg.Warehouse == "" {
		cfg.Warehouse = WarehouseDuckDB
	}
	if cfg.HistoryDBPath == "" {
		cfg.HistoryDBPath = "dashengine_history.sqlite"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.RateLimitRPS == 0 {
		cfg.RateLimitRPS = 100
	}
	if cfg.RateLimitBurst == 0 {
		cfg.RateLimitBurst = 200
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	// Validation
	switch cfg.Warehouse {
	case WarehouseDuckDB, WarehouseBigQuery:
	default:
		return nil, fmt.Errorf("WAREHOUSE must be %q or %q, got %q",
			WarehouseDuckDB, WarehouseBigQuery, cfg.Warehouse)
	}
	if cfg.Warehouse == WarehouseBigQuery && cfg.BigQueryProject == "" {
		return nil, fmt.Errorf("BIGQUERY_PROJECT is required when WAREHOUSE=bigquery")
	}
	if cfg.Warehouse == WarehouseDuckDB && cfg.BigQueryProject != "" {
		cfg.Warnings = append(cfg.Warnings, "BIGQUERY_PROJECT is set but WAREHOUSE=duckdb — the project is ignored")
	}

	return cfg, nil
}

// LoadDotEnv reads a .env file and sets any variables not already in the
// environment. Lines must be in KEY=VALUE format. Comments (#) and blank
// lines are skipped.
func LoadDotEnv(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return nil // .env not found is not an error
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = stripQuotes(strings.TrimSpace(value))
		// Only set if not already in the environment (env vars take precedence)
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("setenv %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}

// stripQuotes removes surrounding double or single quotes from a value.
// Only strips if both the first and last characters are matching quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
