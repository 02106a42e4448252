package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultServerURL     = "http://localhost:3000"
	DefaultClientLogFile = "parfumctl.log"
)

type ClientConfig struct {
	Server  string `yaml:"server"`
	LogFile string `yaml:"log_file"`
}

// LoadClientConfig reads path on top of the defaults. A missing file is not an error.
func LoadClientConfig(path string) (ClientConfig, error) {
	cfg := ClientConfig{Server: DefaultServerURL, LogFile: DefaultClientLogFile}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read client config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse client config %s: %w", path, err)
	}
	if cfg.Server == "" {
		cfg.Server = DefaultServerURL
	}
	if cfg.LogFile == "" {
		cfg.LogFile = DefaultClientLogFile
	}
	return cfg, nil
}
