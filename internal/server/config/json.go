package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/passvault/internal/flagx"
	"github.com/dmitrijs2005/passvault/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Duration fields accept
// strings such as "15m" or integer nanoseconds. Absent fields keep the value
// already in Config.
type JsonConfig struct {
	EndpointAddrHTTP            string          `json:"endpoint_addr_http"`
	EndpointAddrGRPC            string          `json:"endpoint_addr_grpc"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	SecretKey                   string          `json:"secret_key"`
	TokenIssuer                 string          `json:"token_issuer"`
	TokenAudience               string          `json:"token_audience"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	ProtectionKey               string          `json:"protection_key"`
	HashIterations              int             `json:"hash_iterations"`
	HealthCheckInterval         *timex.Duration `json:"health_check_interval"`
	LogLevel                    string          `json:"log_level"`
}

// parseJson loads configuration values from the file named by -c or -config.
// If neither flag is set, nothing is loaded. An unreadable file or invalid
// JSON panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.TokenIssuer, c.TokenIssuer)
	setString(&config.TokenAudience, c.TokenAudience)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	setString(&config.ProtectionKey, c.ProtectionKey)
	if c.HashIterations > 0 {
		config.HashIterations = c.HashIterations
	}
	if c.HealthCheckInterval != nil {
		config.HealthCheckInterval = c.HealthCheckInterval.Duration
	}
	setString(&config.LogLevel, c.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
