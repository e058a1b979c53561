// Package config resolves the passvault CLI settings.
//
// Sources, later ones winning:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file given with --config.
//  3. Environment: PASSVAULT_SERVER and PASSVAULT_TOKEN.
//  4. Command-line flags, applied by the cli package.
//
// JSON schema (durations accept "10s" or integer nanoseconds):
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "token": "eyJ...",
//	  "request_timeout": "10s"
//	}
package config

import (
	"time"

	"github.com/dmitrijs2005/passvault/internal/common"
)

// ServerEnvName overrides the server URL when set.
const ServerEnvName = "PASSVAULT_SERVER"

type Config struct {
	ServerURL      string
	Token          string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.Token = ""
	c.RequestTimeout = 10 * time.Second
}

// Load builds a Config from defaults, the JSON file at path (skipped when
// empty) and the environment read through getenv.
func Load(path string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path != "" {
		if err := applyJSONFile(cfg, path); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg, getenv)
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) {
	if getenv == nil {
		return
	}
	if v := getenv(ServerEnvName); v != "" {
		cfg.ServerURL = v
	}
	if v := getenv(common.TokenEnvName); v != "" {
		cfg.Token = v
	}
}
