// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Config holds runtime settings for the passvault server. Values are fixed
// once the server starts.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the REST API.
//   - EndpointAddrGRPC: bind address for the gRPC health service.
//   - DatabaseDSN: empty for in-memory storage, postgres:// for PostgreSQL,
//     file: or sqlite: for embedded SQLite.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - TokenIssuer / TokenAudience: fixed iss and aud claims.
//   - ProtectionKey: master key from which the secret masking key is derived.
//   - HashIterations: PBKDF2 iterations for new password hashes.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	EndpointAddrHTTP            string
	EndpointAddrGRPC            string
	DatabaseDSN                 string
	SecretKey                   string
	TokenIssuer                 string
	TokenAudience               string
	AccessTokenValidityDuration time.Duration
	ProtectionKey               string
	HashIterations              int
	HealthCheckInterval         time.Duration
	LogLevel                    string
}

// LoadDefaults populates Config with development defaults.
// NOTE: The keys are insecure for production and must be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.TokenIssuer = "passvault"
	c.TokenAudience = "passvault-clients"
	c.AccessTokenValidityDuration = 60 * time.Minute
	c.ProtectionKey = "protectionKey"
	c.HashIterations = 100_000
	c.HealthCheckInterval = 10 * time.Second
	c.LogLevel = "info"
}

// SlogLevel parses LogLevel. Case is ignored.
func (c *Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return l, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.SecretKey == "" {
		errs = append(errs, errors.New("secret key is required"))
	}
	if c.ProtectionKey == "" {
		errs = append(errs, errors.New("protection key is required"))
	}
	if c.TokenIssuer == "" || c.TokenAudience == "" {
		errs = append(errs, errors.New("token issuer and audience are required"))
	}
	if c.AccessTokenValidityDuration <= 0 {
		errs = append(errs, errors.New("access token validity must be positive"))
	}
	if c.EndpointAddrHTTP == "" {
		errs = append(errs, errors.New("http endpoint address is required"))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
