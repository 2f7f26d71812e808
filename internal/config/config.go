package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/i3tags/internal/palette"
)

// OverlayConfig configures the on-screen tag panel.
type OverlayConfig struct {
	Enabled bool   `yaml:"enabled"`
	OffsetY int    `yaml:"offset_y"` // Pixels below the focused window's top edge
	Font    string `yaml:"font"`     // Core X font name, e.g. "fixed" or "9x15"
	Colors  Colors `yaml:"colors"`
}

// Colors holds the overlay palette.
type Colors struct {
	Text       Color `yaml:"text"`
	Background Color `yaml:"background"`
	Focused    Color `yaml:"focused"`
	Urgent     Color `yaml:"urgent"`
}

// Config holds the application configuration.
type Config struct {
	Marker          string        `yaml:"marker"`
	SocketPath      string        `yaml:"socket_path,omitempty"`
	SwitchCommand   []string      `yaml:"switch_command"`
	PromptBackend   string        `yaml:"prompt_backend"`
	RetagPrompt     string        `yaml:"retag_prompt"`
	TitlePrompt     string        `yaml:"title_prompt"`
	RefreshInterval int           `yaml:"refresh_interval"` // Seconds; 0 disables background reconciliation
	Display         string        `yaml:"display,omitempty"`
	LogLevel        string        `yaml:"log_level"`
	Overlay         OverlayConfig `yaml:"overlay"`
}

func DefaultConfig() *Config {
	return &Config{
		Marker:        "i3tags",
		SwitchCommand: []string{"i3-msg"},
		PromptBackend: "auto",
		RetagPrompt:   "tags",
		TitlePrompt:   "title",
		LogLevel:      "info",
		Overlay: OverlayConfig{
			Enabled: true,
			OffsetY: 75,
			Font:    "fixed",
			Colors: Colors{
				Text:       0xf5f7fa,
				Background: 0x1f2933,
				Focused:    0x90ee90, // light green
				Urgent:     0xffff00, // yellow
			},
		},
	}
}

// DefaultConfigPath returns ~/.config/i3tags/config.yaml, honoring
// XDG_CONFIG_HOME.
func DefaultConfigPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "i3tags", "config.yaml"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "i3tags", "config.yaml"), nil
}

// SlogLevel maps log_level to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warning", "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Save writes the configuration to path.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Marker) == "" {
		return &ValidationError{Path: "marker", Err: fmt.Errorf("marker is required")}
	}
	if strings.ContainsAny(c.Marker, " \t;") {
		return &ValidationError{Path: "marker", Err: fmt.Errorf("marker must not contain whitespace or ';'")}
	}
	if len(c.SwitchCommand) == 0 || strings.TrimSpace(c.SwitchCommand[0]) == "" {
		return &ValidationError{Path: "switch_command", Err: fmt.Errorf("switch_command must name a program")}
	}
	if !palette.ValidBackend(c.PromptBackend) {
		return &ValidationError{Path: "prompt_backend", Err: fmt.Errorf("prompt_backend must be one of: auto, rofi, fuzzel, wofi, dmenu")}
	}
	if c.RefreshInterval < 0 {
		return &ValidationError{Path: "refresh_interval", Err: fmt.Errorf("refresh_interval must be >= 0")}
	}
	if !validLogLevel(c.LogLevel) {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if c.Overlay.OffsetY < 0 {
		return &ValidationError{Path: "overlay.offset_y", Err: fmt.Errorf("offset_y must be >= 0")}
	}
	return nil
}

func validLogLevel(level string) bool {
	switch strings.ToLower(level) {
	case "debug", "info", "warning", "warn", "error":
		return true
	default:
		return false
	}
}
