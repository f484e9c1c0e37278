package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Port        int
	SecretKey   string
	DatabaseURL string
	SQLitePath  string
	TokenTTL    time.Duration
	BcryptCost  int
}

func Load() Config {
	cfg := Config{
		Port:        8080,
		SecretKey:   os.Getenv("SECRET_KEY"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  os.Getenv("BLOG_SQLITE_PATH"),
		TokenTTL:    envDuration("BLOG_TOKEN_TTL", 60*time.Minute),
		BcryptCost:  envInt("BLOG_BCRYPT_COST", bcrypt.DefaultCost),
	}

	if v := os.Getenv("BLOG_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 && p < 65536 {
			cfg.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 && p < 65536 {
			cfg.Port = p
		}
	}

	return cfg
}

// Validate enforces the startup invariants that must kill the process early.
// Signing tokens with an empty secret is never acceptable.
func (c Config) Validate() error {
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY is not set")
	}
	return nil
}

func (c Config) ListenAddr() string {
	return ":" + strconv.Itoa(c.Port)
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
