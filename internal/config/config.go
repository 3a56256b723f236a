package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DataSourceHTTP     = "http"
	DataSourcePostgres = "postgres"
)

type Config struct {
	App         AppConfig
	JWT         JWTConfig
	DataSource  string
	DataService DataServiceConfig
	Database    DatabaseConfig
	Notice      NoticeConfig
	Session     SessionConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

// JWTConfig holds the key used to verify admin access tokens
type JWTConfig struct {
	Secret string
}

// DataServiceConfig describes the remote HR data service. Either Token or
// the client credentials triple is used for outbound auth; neither is fine
// for an open service.
type DataServiceConfig struct {
	URL          string
	Timeout      time.Duration
	Token        string
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scopes       []string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type NoticeConfig struct {
	TransitionTTL time.Duration
	CleanupTTL    time.Duration
	SweepInterval time.Duration
}

// SessionConfig bounds how long an idle admin's console state is kept.
type SessionConfig struct {
	IdleTTL       time.Duration
	EvictInterval time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	} else if err != nil {
		slog.Debug("No .env file found, using process environment")
	}

	config := &Config{}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	config.DataSource = strings.ToLower(getEnv("DATA_SOURCE", DataSourceHTTP))

	// Data service configuration
	timeout, err := getEnvDuration("DATA_SERVICE_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	config.DataService = DataServiceConfig{
		URL:          strings.TrimRight(getEnv("DATA_SERVICE_URL", ""), "/"),
		Timeout:      timeout,
		Token:        getEnv("DATA_SERVICE_TOKEN", ""),
		ClientID:     getEnv("DATA_SERVICE_CLIENT_ID", ""),
		ClientSecret: getEnv("DATA_SERVICE_CLIENT_SECRET", ""),
		TokenURL:     getEnv("DATA_SERVICE_TOKEN_URL", ""),
		Scopes:       getEnvSlice("DATA_SERVICE_SCOPES"),
	}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hris"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Notice configuration
	transitionTTL, err := getEnvDuration("NOTICE_TRANSITION_TTL", "3s")
	if err != nil {
		return nil, err
	}
	cleanupTTL, err := getEnvDuration("NOTICE_CLEANUP_TTL", "5s")
	if err != nil {
		return nil, err
	}
	sweepInterval, err := getEnvDuration("NOTICE_SWEEP_INTERVAL", "1s")
	if err != nil {
		return nil, err
	}

	config.Notice = NoticeConfig{
		TransitionTTL: transitionTTL,
		CleanupTTL:    cleanupTTL,
		SweepInterval: sweepInterval,
	}

	// Session configuration
	idleTTL, err := getEnvDuration("SESSION_IDLE_TTL", "30m")
	if err != nil {
		return nil, err
	}
	evictInterval, err := getEnvDuration("SESSION_EVICT_INTERVAL", "1m")
	if err != nil {
		return nil, err
	}

	config.Session = SessionConfig{
		IdleTTL:       idleTTL,
		EvictInterval: evictInterval,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}

	switch c.DataSource {
	case DataSourceHTTP:
		if c.DataService.URL == "" {
			return fmt.Errorf("DATA_SERVICE_URL is required")
		}
		if c.DataService.UsesClientCredentials() && c.DataService.TokenURL == "" {
			return fmt.Errorf("DATA_SERVICE_TOKEN_URL is required with DATA_SERVICE_CLIENT_ID")
		}
		if c.DataService.ClientID != "" && c.DataService.ClientSecret == "" {
			return fmt.Errorf("DATA_SERVICE_CLIENT_SECRET is required with DATA_SERVICE_CLIENT_ID")
		}
	case DataSourcePostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	default:
		return fmt.Errorf("DATA_SOURCE must be %q or %q, got %q", DataSourceHTTP, DataSourcePostgres, c.DataSource)
	}

	if c.Notice.TransitionTTL <= 0 || c.Notice.CleanupTTL <= 0 || c.Notice.SweepInterval <= 0 {
		return fmt.Errorf("notice durations must be positive")
	}
	if c.Session.IdleTTL <= 0 || c.Session.EvictInterval <= 0 {
		return fmt.Errorf("session durations must be positive")
	}
	return nil
}

// UsesClientCredentials reports whether outbound calls obtain tokens through
// the OAuth2 client credentials flow.
func (d DataServiceConfig) UsesClientCredentials() bool {
	return d.ClientID != ""
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, s := range strings.Split(value, ",") {
		if s = strings.TrimSpace(s); s != "" {
			result = append(result, s)
		}
	}
	return result
}

func getEnvDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
