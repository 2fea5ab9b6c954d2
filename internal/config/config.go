package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds optional defaults loaded from ~/.config/gcs-tui/config.yaml.
type Config struct {
	KeyFile     string `yaml:"key_file"`
	ClientEmail string `yaml:"client_email"`
	Bucket      string `yaml:"bucket"`
}

// Load reads the config file. Returns zero-value Config if the file doesn't exist.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return &Config{}, nil
	}

	path := filepath.Join(home, ".config", "gcs-tui", "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Merge applies CLI flag overrides. Flags take precedence over config defaults.
func (c *Config) Merge(keyFile, clientEmail, bucket string) (string, string, string) {
	k := c.KeyFile
	if keyFile != "" {
		k = keyFile
	}
	e := c.ClientEmail
	if clientEmail != "" {
		e = clientEmail
	}
	b := c.Bucket
	if bucket != "" {
		b = bucket
	}
	return k, e, b
}

// Validate reports the first missing required setting. The client email may
// come from a JSON key file, so only the key source and bucket are hard
// requirements here.
func (c *Config) Validate() error {
	if c.KeyFile == "" {
		return fmt.Errorf("key file is required (set key_file or pass --key)")
	}
	if c.Bucket == "" {
		return fmt.Errorf("bucket is required (set bucket or pass --bucket)")
	}
	return nil
}
