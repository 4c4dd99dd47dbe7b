// Package config handles the client's on-disk configuration: which network
// to talk to, where the payer keypair lives, and the confirmation commitment
// to wait for.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the client configuration.
type Config struct {
	Network     string `json:"network"`
	RPCURL      string `json:"rpc_url,omitempty"`
	KeypairPath string `json:"keypair_path"`
	Commitment  string `json:"commitment"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Network:     "localnet",
		KeypairPath: filepath.Join(defaultDataDir(), "id.json"),
		Commitment:  "confirmed",
	}
}

// ConfigPath returns the config file path inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config.json")
}

// DefaultDataDir returns the default data directory (~/.powfaucet).
func DefaultDataDir() string { return defaultDataDir() }

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".powfaucet"
	}
	return filepath.Join(home, ".powfaucet")
}

// LoadConfig reads and validates a config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	if err := ValidateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SaveConfig validates and writes a config file, creating parent
// directories as needed.
func SaveConfig(path string, cfg Config) error {
	if err := ValidateConfig(cfg); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("config: write: %w", err)
	}
	return nil
}
