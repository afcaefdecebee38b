package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from the specified path or defaults.
//
// If configPath is provided, it loads that specific config file and fails
// when the file does not exist. Otherwise it looks for covert.yml in the
// working directory and silently falls back to the built-in defaults when
// no file is found.
//
// Parameters:
//   - configPath: path to the config file, or empty to use discovery
//   - workDir: working directory used for config discovery
//
// Returns:
//   - *Config: the loaded and validated configuration
//   - error: any error encountered during loading or validation
func LoadConfig(configPath, workDir string) (*Config, error) {
	var cfg *Config

	if configPath != "" {
		log.Debug().Str("path", configPath).Msg("loading config")
		loaded, err := loadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		cfg = loaded
	} else {
		localConfig := filepath.Join(workDir, DefaultConfigFile)
		if _, err := os.Stat(localConfig); err == nil {
			log.Debug().Str("path", localConfig).Msg("found local config")
			loaded, err := loadConfigFile(localConfig)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			cfg = loaded
		} else {
			log.Debug().Msg("no config file found, using defaults")
			cfg = DefaultConfig()
		}
	}

	applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadConfigFile reads and decodes a single YAML config file.
//
// Unknown fields are rejected so typos in section or key names surface as
// errors instead of silently falling back to defaults.
func loadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		// An empty config file means "all defaults", not an error.
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}

	return &cfg, nil
}
