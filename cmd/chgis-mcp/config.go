package main

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// envBaseURL overrides the gazetteer base URL from the environment.
const envBaseURL = "CHGIS_BASE_URL"

// fileConfig is the optional YAML configuration file.
type fileConfig struct {
	BaseURL string `yaml:"base_url"`
	Debug   bool   `yaml:"debug"`
	Addr    string `yaml:"addr"`
	Mode    string `yaml:"mode"`
}

// loadFileConfig reads path. An empty path yields an empty config.
func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "failed to read config file %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "failed to parse config file %s", path)
	}

	cfg.Mode = strings.ToLower(strings.TrimSpace(cfg.Mode))
	switch cfg.Mode {
	case "", "stdio", "sse", "http":
	default:
		return cfg, errors.Newf("invalid mode %q in %s: expected stdio, sse or http", cfg.Mode, path)
	}
	return cfg, nil
}

// resolveBaseURL applies precedence: flag, environment, file, default (empty).
func resolveBaseURL(flagValue string, file fileConfig, getenv func(string) string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := strings.TrimSpace(getenv(envBaseURL)); v != "" {
		return v
	}
	return file.BaseURL
}
