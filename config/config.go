package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from config.toml,
// a .env file and environment variables.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	POSTGRES_HOST=localhost
//	POSTGRES_DB=tickerrank
//	ALPHAVANTAGE_API_KEY=demo
//	SYMBOLS=IBM,AAPL,MSFT
//	WINDOW_DAYS=30
//	DATA_SOURCE=remote
type Config struct {
	Server       ServerConfig
	Postgres     PostgresConfig
	AlphaVantage AlphaVantageConfig
	Analysis     AnalysisConfig
	Fetch        FetchConfig
	Ingest       IngestConfig
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port string
}

// PostgresConfig defines connection details for the quote cache.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// AlphaVantageConfig configures the remote daily series provider.
type AlphaVantageConfig struct {
	APIKey   string
	BaseURL  string
	Function string
}

// AnalysisConfig holds the defaults of a ranking run.
type AnalysisConfig struct {
	Symbols       []string
	WindowDays    int
	Source        string // remote | local | postgres
	LocalDataDir  string
	SkipMalformed bool
}

// FetchConfig bounds how symbols are fetched.
type FetchConfig struct {
	Parallel   int
	RPS        float64
	Burst      int
	MaxRetries int
	Timeout    time.Duration
}

// IngestConfig holds the cache refresh schedule.
type IngestConfig struct {
	Cron string
}

// Data source names accepted by DATA_SOURCE.
const (
	SourceRemote   = "remote"
	SourceLocal    = "local"
	SourcePostgres = "postgres"
)

// AppConfig is the globally accessible configuration instance, populated by LoadConfig.
var AppConfig Config

// fileKeys maps the [configuration] section of config.toml onto env keys.
var fileKeys = map[string]string{
	"configuration.api_key":     "ALPHAVANTAGE_API_KEY",
	"configuration.symbols":     "SYMBOLS",
	"configuration.time_period": "WINDOW_DAYS",
}

// LoadConfig initializes the global AppConfig.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. The [configuration] section of config.toml (path from CONFIG_FILE).
//  3. Values from .env file (if present).
//  4. Environment variables.
//
// Missing required values terminate the process via validateConfig.
func LoadConfig() {
	viper.SetDefault("SERVER_PORT", "8080")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "tickerrank")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	viper.SetDefault("ALPHAVANTAGE_BASE_URL", "https://www.alphavantage.co/query")
	viper.SetDefault("ALPHAVANTAGE_FUNCTION", "TIME_SERIES_DAILY_ADJUSTED")

	viper.SetDefault("SYMBOLS", "IBM,AAPL,MSFT")
	viper.SetDefault("WINDOW_DAYS", 30)
	viper.SetDefault("DATA_SOURCE", SourceRemote)
	viper.SetDefault("LOCAL_DATA_DIR", "data")
	viper.SetDefault("SKIP_MALFORMED_DAYS", false)

	viper.SetDefault("FETCH_PARALLEL", 4)
	viper.SetDefault("FETCH_RPS", 1.0)
	viper.SetDefault("FETCH_BURST", 1)
	viper.SetDefault("FETCH_MAX_RETRIES", 3)
	viper.SetDefault("FETCH_TIMEOUT", "15s")

	viper.SetDefault("INGEST_CRON", "0 30 22 * * 1-5")

	viper.AutomaticEnv()

	viper.SetDefault("CONFIG_FILE", "config.toml")
	loadConfigFile(viper.GetString("CONFIG_FILE"))

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	AppConfig = Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		AlphaVantage: AlphaVantageConfig{
			APIKey:   viper.GetString("ALPHAVANTAGE_API_KEY"),
			BaseURL:  viper.GetString("ALPHAVANTAGE_BASE_URL"),
			Function: viper.GetString("ALPHAVANTAGE_FUNCTION"),
		},
		Analysis: AnalysisConfig{
			Symbols:       ParseSymbols(viper.GetString("SYMBOLS")),
			WindowDays:    viper.GetInt("WINDOW_DAYS"),
			Source:        strings.ToLower(strings.TrimSpace(viper.GetString("DATA_SOURCE"))),
			LocalDataDir:  viper.GetString("LOCAL_DATA_DIR"),
			SkipMalformed: viper.GetBool("SKIP_MALFORMED_DAYS"),
		},
		Fetch: FetchConfig{
			Parallel:   viper.GetInt("FETCH_PARALLEL"),
			RPS:        viper.GetFloat64("FETCH_RPS"),
			Burst:      viper.GetInt("FETCH_BURST"),
			MaxRetries: viper.GetInt("FETCH_MAX_RETRIES"),
			Timeout:    viper.GetDuration("FETCH_TIMEOUT"),
		},
		Ingest: IngestConfig{
			Cron: viper.GetString("INGEST_CRON"),
		},
	}

	AppConfig.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		AppConfig.Postgres.User,
		AppConfig.Postgres.Password,
		AppConfig.Postgres.Host,
		AppConfig.Postgres.Port,
		AppConfig.Postgres.DBName,
		AppConfig.Postgres.SSLMode,
	)

	validateConfig()
}

// loadConfigFile layers config.toml over the defaults. A missing file is not an error.
func loadConfigFile(path string) {
	file := viper.New()
	file.SetConfigFile(path)
	file.SetConfigType("toml")
	if err := file.ReadInConfig(); err != nil {
		return
	}
	for fileKey, envKey := range fileKeys {
		if !file.IsSet(fileKey) {
			continue
		}
		v := file.Get(fileKey)
		if list, ok := v.([]interface{}); ok {
			parts := make([]string, 0, len(list))
			for _, item := range list {
				parts = append(parts, fmt.Sprint(item))
			}
			v = strings.Join(parts, ",")
		}
		viper.SetDefault(envKey, v)
	}
}

// ParseSymbols splits a comma separated list, trimming and upper-casing each
// symbol and dropping empties and duplicates. Order is kept.
func ParseSymbols(s string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, part := range strings.Split(s, ",") {
		sym := strings.ToUpper(strings.TrimSpace(part))
		if sym == "" {
			continue
		}
		if _, dup := seen[sym]; dup {
			continue
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}
	return out
}

// validateConfig terminates the application when required values are missing
// or out of range.
func validateConfig() {
	var missing []string

	if AppConfig.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if AppConfig.Postgres.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if AppConfig.Postgres.Port == 0 {
		missing = append(missing, "POSTGRES_PORT")
	}
	if AppConfig.Postgres.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if AppConfig.Postgres.DBName == "" {
		missing = append(missing, "POSTGRES_DB")
	}
	if len(AppConfig.Analysis.Symbols) == 0 {
		missing = append(missing, "SYMBOLS")
	}
	if AppConfig.Analysis.WindowDays < 1 {
		missing = append(missing, "WINDOW_DAYS")
	}
	switch AppConfig.Analysis.Source {
	case SourceRemote, SourceLocal, SourcePostgres:
	default:
		missing = append(missing, "DATA_SOURCE")
	}
	if AppConfig.Fetch.Parallel < 1 {
		missing = append(missing, "FETCH_PARALLEL")
	}

	if len(missing) > 0 {
		log.Fatalf("❌ Missing or invalid configuration: %v\n", missing)
	}
}
