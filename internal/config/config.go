package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTTTL = 24 * time.Hour

// Config holds the process-level settings shared by the CLI and the HTTP
// server. LLM settings live in the llm package and keep their own env
// scheme.
type Config struct {
	DBPath      string
	HTTPAddr    string
	JWTSecret   string
	JWTTTL      time.Duration
	CORSOrigins []string
}

// Load reads configuration from a .env file (when present) and STUDIA_*
// environment variables. Environment variables win over .env entries.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:    ":8080",
		JWTTTL:      defaultJWTTTL,
		CORSOrigins: []string{"*"},
	}

	cfg.DBPath = os.Getenv("STUDIA_DB")
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".studia", "studia.db")
	}

	if addr := os.Getenv("STUDIA_HTTP_ADDR"); addr != "" {
		cfg.HTTPAddr = addr
	}

	cfg.JWTSecret = os.Getenv("STUDIA_JWT_SECRET")

	if raw := os.Getenv("STUDIA_JWT_TTL_MIN"); raw != "" {
		min, err := strconv.Atoi(raw)
		if err != nil || min <= 0 {
			return Config{}, fmt.Errorf("invalid STUDIA_JWT_TTL_MIN %q", raw)
		}
		cfg.JWTTTL = time.Duration(min) * time.Minute
	}

	if raw := os.Getenv("STUDIA_CORS_ORIGINS"); raw != "" {
		cfg.CORSOrigins = nil
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
			}
		}
	}

	return cfg, nil
}

// RequireJWTSecret is called by entrypoints that serve authenticated
// endpoints. The CLI works against the local database and does not need it.
func (c Config) RequireJWTSecret() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("STUDIA_JWT_SECRET is required to run the server")
	}
	return nil
}
