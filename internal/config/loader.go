package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const starstrikeFile = "starstrike.yaml"

// LoadStarstrike loads starstrike configuration.
// Search order: customPath -> ~/.starstrike/configs/starstrike.yaml -> ./configs/starstrike.yaml -> embedded default.
// Files overlay the built-in defaults, so they only need the keys they change.
// A custom path ending in .toml is decoded as TOML.
func LoadStarstrike(customPath string) (StarstrikeConfig, error) {
	cfg := DefaultStarstrikeConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", customPath, err)
		}
		if err := decode(customPath, data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("config: %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory, then the local configs directory
	for _, path := range []string{userConfigPath(starstrikeFile), filepath.Join("configs", starstrikeFile)} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		candidate := DefaultStarstrikeConfig()
		if err := yaml.Unmarshal(data, &candidate); err == nil && candidate.Validate() == nil {
			return candidate, nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultStarstrikeYAML, &cfg); err != nil {
		return DefaultStarstrikeConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *StarstrikeConfig) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".starstrike", "configs", filename)
}
