package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds persistent TUI settings stored at <stateDir>/tui.json.
type Config struct {
	ServerURL   string `json:"server_url,omitempty"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Theme       string `json:"theme,omitempty"`
}

const filename = "tui.json"

// Load reads <stateDir>/tui.json and returns the parsed Config.
// If the file is absent or unreadable, a default Config is returned.
func Load(stateDir string) Config {
	cfg := defaults()
	data, err := os.ReadFile(filepath.Join(stateDir, filename))
	if err != nil {
		return cfg
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return defaults()
	}
	return cfg
}

// Save writes cfg to <stateDir>/tui.json, creating the directory if needed.
func Save(stateDir string, cfg Config) error {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(stateDir, filename), data, 0o644)
}

func defaults() Config {
	return Config{
		Theme: "dark",
	}
}
