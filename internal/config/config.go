// Package config handles loading and parsing application configuration.
// It supports these sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//  3. Neither: every value comes from environment variables or defaults.
//
// Environment variables always override values read from the YAML file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/dimitrov9812/car-listing-api/internal/storage"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden by the
// corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity: "dev", "staging" or "prod".
	Env string `yaml:"env" env:"ENV" env-default:"dev" validate:"oneof=dev staging prod"`

	Storage    Storage    `yaml:"storage"`
	HTTPServer HTTPServer `yaml:"http_server"`
}

// Storage selects and configures the document backend.
type Storage struct {
	// Backend is one of "json", "sqlite" or "memory".
	Backend string `yaml:"backend" env:"STORAGE_BACKEND" env-default:"json" validate:"oneof=json sqlite memory"`

	// Path is the JSON document file (json) or the database file (sqlite).
	// Unused by the memory backend.
	Path string `yaml:"path" env:"STORAGE_PATH" env-default:"./cars.json" validate:"required_unless=Backend memory"`

	// Key names the document the collection is stored under.
	Key string `yaml:"key" env:"STORAGE_KEY" env-default:"cars" validate:"required"`

	// StrictLoad makes mutations fail instead of overwriting a document
	// that exists but cannot be read.
	StrictLoad bool `yaml:"strict_load" env:"STORAGE_STRICT_LOAD" env-default:"false"`
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:3000".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:"localhost:3000" validate:"required,hostname_port"`

	// AllowedOrigins is the CORS allow list; "*" allows every origin.
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-default:"*" env-separator:","`
}

// Load reads the config file at path (or only the environment when path is
// empty), applies defaults and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("cannot read config: %w", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("cannot read config from environment: %w", err)
	}

	cfg.HTTPServer.AllowedOrigins = trimOrigins(cfg.HTTPServer.AllowedOrigins)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// MustLoad resolves the config path from CONFIG_PATH or --config and loads
// it. It exits the process on any error: if it returns, the config is
// valid.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

// IsMemory reports whether the config selects the in-memory backend.
func (c *Config) IsMemory() bool {
	return c.Storage.Backend == storage.BackendMemory
}

func trimOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		out = append(out, "*")
	}
	return out
}
