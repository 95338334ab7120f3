package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory by default.
const FileName = "flatbank.yaml"

// DefaultStorePath is the store file used when nothing else is configured.
const DefaultStorePath = "accounts.dat"

// StoreEnv names the environment variable that overrides the store path.
const StoreEnv = "FLATBANK_STORE"

// Config represents the top-level flatbank.yaml configuration.
type Config struct {
	Store StoreConfig `yaml:"store"`
}

// StoreConfig locates the account store file.
type StoreConfig struct {
	Path string `yaml:"path"`
	Sync bool   `yaml:"sync"` // fsync after every write
}

// Load reads a flatbank.yaml file from disk. Fields missing from the file
// keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = DefaultStorePath
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the default store location.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Path: DefaultStorePath,
			Sync: true,
		},
	}
}

// Resolve loads the config at path, falling back to defaults when the file
// does not exist, then applies the FLATBANK_STORE environment variable and
// finally storeFlag, each overriding the store path when non-empty.
func Resolve(path, storeFlag string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = Default(), nil
	}
	if err != nil {
		return nil, err
	}
	if env := os.Getenv(StoreEnv); env != "" {
		cfg.Store.Path = env
	}
	if storeFlag != "" {
		cfg.Store.Path = storeFlag
	}
	return cfg, nil
}
