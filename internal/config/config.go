// internal/config/config.go

package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Environment string
	LogLevel    string
	Server      ServerConfig
	Dataset     DatasetConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	NATS        NATSConfig
	Twitter     TwitterConfig
	LLM         LLMConfig
	Analysis    AnalysisConfig
	Watch       WatchConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatasetConfig locates the viral-trends dataset
type DatasetConfig struct {
	Path string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Enabled     bool
	Host        string
	Port        int
	User        string
	Password    string
	Database    string
	MaxConns    int
	MaxLifetime time.Duration
	SSLMode     string
}

// URL returns the connection string for pgxpool
func (d DatabaseConfig) URL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Database,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	if d.MaxConns > 0 {
		q.Set("pool_max_conns", strconv.Itoa(d.MaxConns))
	}
	if d.MaxLifetime > 0 {
		q.Set("pool_max_conn_lifetime", d.MaxLifetime.String())
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// RedisConfig holds the lifecycle cache configuration
type RedisConfig struct {
	Enabled bool
	URL     string
	TTL     time.Duration
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	Enabled        bool
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
	EventsTopic    string
}

// TwitterConfig holds Twitter/X API configuration
type TwitterConfig struct {
	BearerToken string
	Host        string
}

// LLMConfig holds the chat-completions endpoint used for insights
type LLMConfig struct {
	APIKey  string
	URL     string
	Model   string
	Timeout time.Duration
}

// AnalysisConfig tunes the analyzer
type AnalysisConfig struct {
	// SyntheticSeed seeds the fallback generator; 0 seeds from the clock
	SyntheticSeed uint64
}

// WatchConfig lists trends to re-analyze in the background. Entries use
// the form keyword@platform.
type WatchConfig struct {
	Trends        []string
	Interval      time.Duration
	Lookback      time.Duration
	MaxConcurrent int
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 5000),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			RequestTimeout:  getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 25*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Dataset: DatasetConfig{
			Path: getEnv("DATASET_PATH", "data/viral_trends.csv"),
		},
		Database: DatabaseConfig{
			Enabled:     getEnvAsBool("DB_ENABLED", false),
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnvAsInt("DB_PORT", 5432),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			Database:    getEnv("DB_NAME", "trends"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 10),
			MaxLifetime: getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
			SSLMode:     getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled: getEnvAsBool("REDIS_ENABLED", false),
			URL:     getEnv("REDIS_URL", "localhost:6379"),
			TTL:     getEnvAsDuration("REDIS_TTL", 15*time.Minute),
		},
		NATS: NATSConfig{
			Enabled:        getEnvAsBool("NATS_ENABLED", false),
			URL:            getEnv("NATS_URL", "nats://localhost:4222"),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
			EventsTopic:    getEnv("TREND_EVENTS_TOPIC", "trend"),
		},
		Twitter: TwitterConfig{
			BearerToken: getEnv("TWITTER_BEARER_TOKEN", ""),
			Host:        getEnv("TWITTER_API_HOST", "https://api.twitter.com"),
		},
		LLM: LLMConfig{
			APIKey:  getEnv("FEATHERLESS_API_KEY", ""),
			URL:     getEnv("LLM_API_URL", "https://api.featherless.ai/v1/chat/completions"),
			Model:   getEnv("LLM_MODEL", "meta-llama/Meta-Llama-3.1-8B-Instruct"),
			Timeout: getEnvAsDuration("LLM_TIMEOUT", 15*time.Second),
		},
		Analysis: AnalysisConfig{
			SyntheticSeed: getEnvAsUint64("ANALYSIS_SYNTHETIC_SEED", 0),
		},
		Watch: WatchConfig{
			Trends:        getEnvAsSlice("WATCH_TRENDS", nil),
			Interval:      getEnvAsDuration("WATCH_INTERVAL", time.Hour),
			Lookback:      getEnvAsDuration("WATCH_LOOKBACK", 14*24*time.Hour),
			MaxConcurrent: getEnvAsInt("WATCH_MAX_CONCURRENT", 4),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", config.Server.Port)
	}
	if config.Dataset.Path == "" {
		return fmt.Errorf("dataset path must be set")
	}
	if config.NATS.Enabled && config.NATS.EventsTopic == "" {
		return fmt.Errorf("events topic must be set when NATS is enabled")
	}
	if config.LLM.APIKey != "" && config.LLM.URL == "" {
		return fmt.Errorf("LLM API URL must be set when an API key is configured")
	}
	if len(config.Watch.Trends) > 0 && config.Watch.Interval <= 0 {
		return fmt.Errorf("watch interval must be positive")
	}
	if config.Database.Password == "postgres" && config.Database.Enabled && config.Environment != "development" {
		return fmt.Errorf("database password must be set in non-development environments")
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsUint64(key string, defaultValue uint64) uint64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseUint(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
