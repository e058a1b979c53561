package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/passvault/internal/timex"
)

// JsonConfig is the on-disk form of Config. Absent keys keep the value
// already in Config.
type JsonConfig struct {
	ServerURL      *string         `json:"server_url"`
	Token          *string         `json:"token"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
}

func (jc *JsonConfig) apply(cfg *Config) {
	if jc.ServerURL != nil {
		cfg.ServerURL = *jc.ServerURL
	}
	if jc.Token != nil {
		cfg.Token = *jc.Token
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}

func applyJSONFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	jc.apply(cfg)
	return nil
}
