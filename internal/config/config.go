package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	API   APIConfig
	State StateConfig
	App   AppConfig
	Stub  StubConfig
}

// APIConfig holds the backend connection settings
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// StateConfig holds the persisted session storage settings
type StateConfig struct {
	Dir  string
	File string
}

// AppConfig holds application configuration
type AppConfig struct {
	Env        string
	LogLevel   string
	LogsFolder string
}

// StubConfig holds the development stub backend configuration
type StubConfig struct {
	Port      int
	JWTSecret string
}

func Load() (*Config, error) {
	// Missing .env is fine; the environment may carry everything.
	_ = godotenv.Load()

	config := &Config{}

	// Backend aggregation can be slow on large workforce files, so the
	// client-side timeout is deliberately generous.
	timeout, err := time.ParseDuration(getEnv("HTTP_TIMEOUT", "150s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}

	config.API = APIConfig{
		BaseURL: getEnv("WORKLENS_API_URL", "http://localhost:5228/api"),
		Timeout: timeout,
	}

	stateDir := getEnv("WORKLENS_STATE_DIR", "")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			stateDir = ".worklens"
		} else {
			stateDir = filepath.Join(home, ".worklens")
		}
	}
	config.State = StateConfig{
		Dir:  stateDir,
		File: filepath.Join(stateDir, "session.json"),
	}

	config.App = AppConfig{
		Env:        getEnv("APP_ENV", "development"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogsFolder: getEnv("LOGS_FOLDER", ""),
	}

	stubPort, err := strconv.Atoi(getEnv("STUB_PORT", "5228"))
	if err != nil {
		return nil, fmt.Errorf("invalid STUB_PORT: %w", err)
	}
	config.Stub = StubConfig{
		Port:      stubPort,
		JWTSecret: getEnv("STUB_JWT_SECRET", "worklens-stub-secret"),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("WORKLENS_API_URL is required")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.State.Dir == "" {
		return fmt.Errorf("WORKLENS_STATE_DIR could not be resolved")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
