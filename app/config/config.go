// Package config loads application settings from the environment and optional config files.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultSessionSecret is only acceptable outside production.
const DefaultSessionSecret = "dev-session-secret-change-in-production"

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port             string        `mapstructure:"PORT"`
	Env              string        `mapstructure:"APP_ENV"`
	DBDriver         string        `mapstructure:"DB_DRIVER"`
	DBDSN            string        `mapstructure:"DB_DSN"`
	SessionSecret    string        `mapstructure:"SESSION_SECRET"`
	SessionTTL       time.Duration `mapstructure:"SESSION_TTL"`
	CookieSecure     bool          `mapstructure:"COOKIE_SECURE"`
	AdminUserID      uint          `mapstructure:"ADMIN_USER_ID"`
	PasswordScheme   string        `mapstructure:"PASSWORD_SCHEME"`
	PBKDF2Iterations int           `mapstructure:"PBKDF2_ITERATIONS"`
	RevocationStore  string        `mapstructure:"REVOCATION_STORE"`
	BadgerPath       string        `mapstructure:"BADGER_PATH"`
	RedisURL         string        `mapstructure:"REDIS_URL"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_DSN", "data/blog.db")
	v.SetDefault("SESSION_SECRET", DefaultSessionSecret)
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("ADMIN_USER_ID", 1)
	v.SetDefault("PASSWORD_SCHEME", "pbkdf2")
	v.SetDefault("PBKDF2_ITERATIONS", 600000)
	v.SetDefault("REVOCATION_STORE", "badger")
	v.SetDefault("BADGER_PATH", "data/badger")
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
}

// LoadConfig reads an optional .env file, then config.yml and config.<APP_ENV>.yml
// from the working directory, then the environment. Later sources win.
func LoadConfig() (*Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config.yml: %w", err)
		}
	}

	if env := v.GetString("APP_ENV"); env != "" && env != "development" {
		v.SetConfigName("config." + env)
		if err := v.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config.%s.yml: %w", env, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	cfg.DBDriver = strings.ToLower(cfg.DBDriver)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// IsProduction reports whether strict production checks apply.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.AdminUserID == 0 {
		return errors.New("ADMIN_USER_ID must be a positive user id")
	}
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER %q is not supported", c.DBDriver)
	}
	if c.DBDSN == "" {
		return errors.New("DB_DSN is required")
	}
	switch c.PasswordScheme {
	case "pbkdf2", "argon2id":
	default:
		return fmt.Errorf("PASSWORD_SCHEME %q is not supported", c.PasswordScheme)
	}
	switch c.RevocationStore {
	case "badger":
		if c.BadgerPath == "" {
			return errors.New("BADGER_PATH is required for the badger revocation store")
		}
	case "redis":
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is required for the redis revocation store")
		}
	default:
		return fmt.Errorf("REVOCATION_STORE %q is not supported", c.RevocationStore)
	}

	if c.IsProduction() {
		if c.SessionSecret == DefaultSessionSecret {
			return errors.New("SESSION_SECRET must be changed from the default value in production")
		}
		if len(c.SessionSecret) < 32 {
			return errors.New("SESSION_SECRET must be at least 32 characters in production")
		}
		if !c.CookieSecure {
			return errors.New("COOKIE_SECURE must be enabled in production")
		}
	}
	return nil
}
