package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the daemon.
// Zero values mean "unspecified" and are replaced by defaults in main.
type Config struct {
	Addr           string   `json:"addr" yaml:"addr" toml:"addr"`
	PhotoDir       string   `json:"photo_dir" yaml:"photo_dir" toml:"photo_dir"`
	StaticDir      string   `json:"static_dir" yaml:"static_dir" toml:"static_dir"`
	PasswordHash   string   `json:"password_hash" yaml:"password_hash" toml:"password_hash"`
	SessionTTLMin  int      `json:"session_ttl_min" yaml:"session_ttl_min" toml:"session_ttl_min"`
	LogLevel       string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	SDRBin         string   `json:"sdr_bin" yaml:"sdr_bin" toml:"sdr_bin"`
	CameraBin      string   `json:"camera_bin" yaml:"camera_bin" toml:"camera_bin"`
	ProbeTimeoutMs int      `json:"probe_timeout_ms" yaml:"probe_timeout_ms" toml:"probe_timeout_ms"`
	CORSEnabled    bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins    []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path) // #nosec G304 -- operator-supplied path
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
