package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// envPrefix namespaces every configuration variable, e.g. SEMTRACE_ENDPOINT.
const envPrefix = "SEMTRACE_"

// Load reads the configuration from the process environment. A .env file in
// the working directory is loaded first when present (never overriding
// variables already set). Load returns [ErrEmpty] when not a single
// SEMTRACE_ variable is set, so callers can distinguish "no configuration at
// all" — which always fails setup — from an invalid one.
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom behaves like [Load] but reads the optional dotenv file at path.
func LoadFrom(path string) (*Config, error) {
	// Missing dotenv files are expected; only surface real read failures.
	if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("semtrace: loading %s: %w", path, err)
	}

	if !anyEnvSet() {
		return nil, ErrEmpty
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return nil, fmt.Errorf("semtrace: parsing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// anyEnvSet reports whether at least one SEMTRACE_ variable is present.
func anyEnvSet() bool {
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, envPrefix) {
			return true
		}
	}
	return false
}
