package main

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type config struct {
	Addr       string        `env:"ADDR" envDefault:":8080"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	SeedFile   string        `env:"SEED_FILE"`
	RateLimit  float64       `env:"RATE_LIMIT" envDefault:"50"`
	RateBurst  int           `env:"RATE_BURST" envDefault:"100"`
}

func loadConfig() (config, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

type seedFile struct {
	Users []seedUser `yaml:"users"`
}

type seedUser struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
}

// loadSeeds reads the seed user list from path, falling back to the
// embedded defaults when no path is configured.
func loadSeeds(path string) ([]seedUser, error) {
	data := defaultSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		data = b
	}

	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return f.Users, nil
}
