package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	full := writeTempJSON(t, dir, "full.json", map[string]any{
		"endpoint_addr_http":             "0.0.0.0:9000",
		"endpoint_addr_grpc":             "0.0.0.0:9001",
		"database_dsn":                   "file:vault.db",
		"secret_key":                     "my_secret_key",
		"token_issuer":                   "iss",
		"token_audience":                 "aud",
		"access_token_validity_duration": "15m",
		"protection_key":                 "pk",
		"hash_iterations":                200000,
		"health_check_interval":          float64(3 * time.Second),
		"log_level":                      "warn",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", full}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, &Config{
			EndpointAddrHTTP:            "0.0.0.0:9000",
			EndpointAddrGRPC:            "0.0.0.0:9001",
			DatabaseDSN:                 "file:vault.db",
			SecretKey:                   "my_secret_key",
			TokenIssuer:                 "iss",
			TokenAudience:               "aud",
			AccessTokenValidityDuration: 15 * time.Minute,
			ProtectionKey:               "pk",
			HashIterations:              200000,
			HealthCheckInterval:         3 * time.Second,
			LogLevel:                    "warn",
		}, cfg)
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{"secret_key": "only-this"})
		os.Args = []string{"testbin", "-c", partial}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		var want Config
		want.LoadDefaults()
		want.SecretKey = "only-this"
		assert.Equal(t, &want, cfg)
	})

	t.Run("explicit empty dsn selects memory", func(t *testing.T) {
		p := writeTempJSON(t, dir, "mem.json", map[string]any{"database_dsn": ""})
		os.Args = []string{"testbin", "-c", p}

		cfg := &Config{DatabaseDSN: "postgres://x"}
		parseJson(cfg)
		assert.Equal(t, "", cfg.DatabaseDSN)
	})

	t.Run("no config flag is a no-op", func(t *testing.T) {
		os.Args = []string{"testbin"}
		cfg := &Config{SecretKey: "keep"}
		parseJson(cfg)
		assert.Equal(t, &Config{SecretKey: "keep"}, cfg)
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(dir, "nope.json")}
		assert.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("invalid json panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
		os.Args = []string{"testbin", "-c", bad}
		assert.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("invalid duration panics", func(t *testing.T) {
		bad := writeTempJSON(t, dir, "dur.json", map[string]any{"access_token_validity_duration": "soon"})
		os.Args = []string{"testbin", "-c", bad}
		assert.Panics(t, func() { parseJson(&Config{}) })
	})
}
