// Package config provides configuration management for coopsync.
// Credentials and file paths come from environment variables and .env
// files; the sync rules (where reconciled records are posted) come from a
// YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	MoneyForward  MoneyForwardConfig
	Seikyo        SeikyoConfig
	CookieJarPath string // persisted MoneyForward session state
	DatabasePath  string // submission-history SQLite database
	RulesPath     string // sync rules YAML file
	Debug         bool
}

// MoneyForwardConfig holds the ledger credentials.
type MoneyForwardConfig struct {
	Email    string
	Password string
}

// SeikyoConfig holds the co-op mypage credentials.
type SeikyoConfig struct {
	LoginID  string
	Password string
}

// Load loads configuration from environment variables. It automatically
// loads a .env file from the current directory if available; a custom .env
// path can be passed instead.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Ignore a missing default .env; plain environment variables
		// are enough.
		_ = godotenv.Load()
	}

	config := &Config{
		MoneyForward: MoneyForwardConfig{
			Email:    os.Getenv("MF_EMAIL"),
			Password: os.Getenv("MF_PASSWORD"),
		},
		Seikyo: SeikyoConfig{
			LoginID:  os.Getenv("SEIKYO_LOGIN_ID"),
			Password: os.Getenv("SEIKYO_PASSWORD"),
		},
		CookieJarPath: getEnvOrDefault("COOKIE_JAR_PATH", "cookies.json"),
		DatabasePath:  getEnvOrDefault("SYNC_DB_PATH", filepath.Join(".sync", "coopsync.db")),
		RulesPath:     getEnvOrDefault("SYNC_RULES_PATH", filepath.Join("config", "sync-rules.yaml")),
		Debug:         os.Getenv("DEBUG") == "true",
	}

	return config, nil
}

// Validate checks that every credential needed for a sync run is set,
// reporting all missing variables at once.
func (c *Config) Validate() error {
	var missing []string
	if c.MoneyForward.Email == "" {
		missing = append(missing, "MF_EMAIL")
	}
	if c.MoneyForward.Password == "" {
		missing = append(missing, "MF_PASSWORD")
	}
	if c.Seikyo.LoginID == "" {
		missing = append(missing, "SEIKYO_LOGIN_ID")
	}
	if c.Seikyo.Password == "" {
		missing = append(missing, "SEIKYO_PASSWORD")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v\nPlease check your .env file or environment variables", missing)
	}
	return nil
}

// getEnvOrDefault returns the value of the environment variable or a
// default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
