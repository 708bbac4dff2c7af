// Package config loads all runtime configuration from environment
// variables. Required variables are validated together so that a
// misconfigured deployment reports every missing name in one error
// instead of failing one variable at a time.
package config

import (
	"fmt"
	"strings"
)

// Config holds the core settings the server cannot run without, plus
// tunables with sensible defaults.
type Config struct {
	Env  string // "dev" or "prod"; controls log verbosity only
	Port string // HTTP listen port

	DBUser string
	DBPass string
	DBHost string
	DBPort string
	DBName string

	JWTSecret      string
	AccessTTLMin   int // access token lifetime in minutes
	RefreshTTLDays int // refresh token lifetime in days

	BcryptCost int
}

// Load reads the configuration from the environment. It returns an error
// listing every required variable that is missing or empty.
func Load() (Config, error) {
	cfg := Config{
		Env:  envStr("APP_ENV", "dev"),
		Port: envStr("PORT", "8080"),

		DBUser: envStr("DB_USER", ""),
		DBPass: envStr("DB_PASS", ""),
		DBHost: envStr("DB_HOST", "localhost"),
		DBPort: envStr("DB_PORT", "3306"),
		DBName: envStr("DB_NAME", ""),

		JWTSecret:      envStr("JWT_SECRET", ""),
		AccessTTLMin:   envInt("ACCESS_TOKEN_TTL_MIN", 60),
		RefreshTTLDays: envInt("REFRESH_TOKEN_TTL_DAYS", 14),

		BcryptCost: envInt("BCRYPT_COST", 10),
	}

	var missing []string
	if cfg.DBUser == "" {
		missing = append(missing, "DB_USER")
	}
	if cfg.DBName == "" {
		missing = append(missing, "DB_NAME")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if cfg.AccessTTLMin < 1 {
		cfg.AccessTTLMin = 60
	}
	if cfg.RefreshTTLDays < 1 {
		cfg.RefreshTTLDays = 14
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		cfg.BcryptCost = 10
	}
	return cfg, nil
}
