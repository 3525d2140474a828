// Package config loads server configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the server process needs from its environment.
type Config struct {
	Port   int    `env:"PORT" envDefault:"8080"`
	DBPath string `env:"DB_PATH" envDefault:"data/schoolyard.db"`

	// JWTSecret signs session tokens. Empty means the server generates an
	// ephemeral secret at startup; tokens then stop verifying across
	// restarts, which is acceptable for development only.
	JWTSecret string `env:"JWT_SECRET"`

	// BcryptCost is the credential hashing work factor. Lower it in
	// throwaway environments, never below the library minimum.
	BcryptCost int `env:"BCRYPT_COST" envDefault:"12"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing environment: %w", err)
	}
	return cfg, nil
}
