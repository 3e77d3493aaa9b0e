// Package config provides client configuration for runstream.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the runstream client configuration.
type Config struct {
	BaseURL         string `toml:"base_url"`         // Run backend base URL
	Model           string `toml:"model"`            // Default model ID (empty = backend default)
	RenderInterval  string `toml:"render_interval"`  // Snapshot coalescing interval (e.g. "16ms")
	ApprovalTimeout string `toml:"approval_timeout"` // How long the backend waits for a decision
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		BaseURL:         "http://127.0.0.1:8000",
		RenderInterval:  "16ms",
		ApprovalTimeout: "5m",
	}
}

// RenderIntervalDuration returns the parsed render interval (default: 16ms).
func (c Config) RenderIntervalDuration() time.Duration {
	if c.RenderInterval != "" {
		if d, err := time.ParseDuration(c.RenderInterval); err == nil {
			return d
		}
	}
	return 16 * time.Millisecond
}

// ApprovalTimeoutDuration returns the parsed approval timeout (default: 5m).
func (c Config) ApprovalTimeoutDuration() time.Duration {
	if c.ApprovalTimeout != "" {
		if d, err := time.ParseDuration(c.ApprovalTimeout); err == nil {
			return d
		}
	}
	return 5 * time.Minute
}

// Dir returns the path to the .runstream directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".runstream"), nil
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the configuration from ~/.runstream/config.toml. A missing
// file yields defaults, which are persisted so the user has a file to
// edit. Keys absent from an existing file keep their default values.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration from an explicit path.
func LoadFrom(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := Default()
		if saveErr := SaveTo(path, cfg); saveErr != nil {
			return cfg, nil // return defaults even if save fails
		}
		return cfg, nil
	} else if err != nil {
		return Config{}, err
	}

	// Start from defaults so missing keys get working values.
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes the configuration to ~/.runstream/config.toml.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo writes the configuration to an explicit path, creating parent
// directories as needed.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
