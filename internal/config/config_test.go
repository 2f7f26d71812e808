package config

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.Marker != "i3tags" {
		t.Fatalf("expected marker i3tags, got %q", cfg.Marker)
	}
	if cfg.Overlay.OffsetY != 75 {
		t.Fatalf("expected offset_y 75, got %d", cfg.Overlay.OffsetY)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no loaded files, got %v", res.Files)
	}
	if res.Config.RetagPrompt != "tags" || res.Config.TitlePrompt != "title" {
		t.Fatalf("unexpected prompts %q %q", res.Config.RetagPrompt, res.Config.TitlePrompt)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.PromptBackend != "auto" {
		t.Fatalf("expected prompt_backend auto, got %q", res.Config.PromptBackend)
	}
}

func TestLoadFromPath_OverridesAndColors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"marker: tagger",
		"switch_command: [swaymsg, -t, command]",
		"refresh_interval: 5",
		"overlay:",
		"  offset_y: 40",
		"  colors:",
		"    focused: \"#00ff00\"",
		"    urgent: 0xff0000",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Marker != "tagger" {
		t.Fatalf("expected marker tagger, got %q", cfg.Marker)
	}
	if strings.Join(cfg.SwitchCommand, " ") != "swaymsg -t command" {
		t.Fatalf("unexpected switch_command %v", cfg.SwitchCommand)
	}
	if cfg.RefreshInterval != 5 {
		t.Fatalf("expected refresh_interval 5, got %d", cfg.RefreshInterval)
	}
	if cfg.Overlay.OffsetY != 40 {
		t.Fatalf("expected offset_y 40, got %d", cfg.Overlay.OffsetY)
	}
	if cfg.Overlay.Colors.Focused != 0x00ff00 || cfg.Overlay.Colors.Urgent != 0xff0000 {
		t.Fatalf("unexpected colors %v", cfg.Overlay.Colors)
	}
	// Unset keys keep their defaults.
	if cfg.Overlay.Colors.Background != 0x1f2933 || !cfg.Overlay.Enabled {
		t.Fatalf("expected overlay defaults to survive, got %+v", cfg.Overlay)
	}
}

func TestColor_UnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "short hex", data: "overlay:\n  colors:\n    text: \"#fff\"\n"},
		{name: "not a number", data: "overlay:\n  colors:\n    text: white\n"},
		{name: "out of range", data: "overlay:\n  colors:\n    text: 0x1000000\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			writeFile(t, path, tt.data)
			if _, err := LoadFromPath(path); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "unknown_key: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSourceContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "log_level: info\nprompt_backend: zenity\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.Path != "prompt_backend" {
		t.Fatalf("expected path prompt_backend, got %q", verr.Path)
	}
	if verr.Source.Kind != SourceFile || verr.Source.Line != 2 {
		t.Fatalf("expected file source on line 2, got %+v", verr.Source)
	}
	if !strings.Contains(err.Error(), ":2:") {
		t.Fatalf("expected file:line:col prefix, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{name: "empty marker", mutate: func(c *Config) { c.Marker = "" }, path: "marker"},
		{name: "marker with space", mutate: func(c *Config) { c.Marker = "i3 tags" }, path: "marker"},
		{name: "empty switch command", mutate: func(c *Config) { c.SwitchCommand = nil }, path: "switch_command"},
		{name: "negative refresh", mutate: func(c *Config) { c.RefreshInterval = -1 }, path: "refresh_interval"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "trace" }, path: "log_level"},
		{name: "negative offset", mutate: func(c *Config) { c.Overlay.OffsetY = -5 }, path: "overlay.offset_y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("expected path %q, got %q", tt.path, verr.Path)
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"ERROR":   slog.LevelError,
	}
	for level, want := range tests {
		cfg := DefaultConfig()
		cfg.LogLevel = level
		if got := cfg.SlogLevel(); got != want {
			t.Errorf("%s: expected %v, got %v", level, want, got)
		}
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()

	// config.d loaded first, in sorted order.
	configD := filepath.Join(dir, "config.d")
	if err := os.MkdirAll(configD, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(configD, "10-base.yaml"), "retag_prompt: base\ntitle_prompt: name\n")
	writeFile(t, filepath.Join(configD, "20-override.yaml"), "retag_prompt: override\n")

	// Main file overrides includes.
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"include:",
		"  - config.d",
		"marker: main",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.RetagPrompt != "override" {
		t.Fatalf("expected retag_prompt override, got %q", res.Config.RetagPrompt)
	}
	if res.Config.TitlePrompt != "name" {
		t.Fatalf("expected title_prompt name, got %q", res.Config.TitlePrompt)
	}
	if res.Config.Marker != "main" {
		t.Fatalf("expected marker main, got %q", res.Config.Marker)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 loaded files, got %v", res.Files)
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "include:\n  - missing.yaml\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "include") || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected include error, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	writeFile(t, a, "include: b.yaml\n")
	writeFile(t, b, "include: a.yaml\n")

	_, err := LoadFromPath(a)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	if !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestExplain_FileAndDefaultSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "overlay:\n  font: 9x15\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	val, src, err := Explain(res, "overlay.font")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != "9x15" {
		t.Fatalf("expected 9x15, got %v", val)
	}
	if src.Kind != SourceFile || src.Line != 2 {
		t.Fatalf("expected file source on line 2, got %+v", src)
	}

	val, src, err = Explain(res, "marker")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != "i3tags" || src.Kind != SourceDefault {
		t.Fatalf("expected default marker, got %v from %+v", val, src)
	}

	if _, _, err := Explain(res, "overlay.colors.pink"); err == nil {
		t.Fatalf("expected unknown path error")
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Marker = "saved"
	cfg.Overlay.Colors.Text = 0x123456

	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Marker != "saved" || res.Config.Overlay.Colors.Text != 0x123456 {
		t.Fatalf("unexpected reloaded config %+v", res.Config)
	}
}

func TestDefaultConfigPath_HonorsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if path != filepath.Join(dir, "i3tags", "config.yaml") {
		t.Fatalf("unexpected path %q", path)
	}
}

func TestWatch_NotifiesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "marker: one\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes, err := Watch(ctx, res, nil)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	writeFile(t, filepath.Join(dir, "unrelated.txt"), "x")
	writeFile(t, path, "marker: two\n")

	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatalf("expected a change notification")
	}

	cancel()
	select {
	case _, ok := <-changes:
		if ok {
			// A second coalesced notification is allowed; the channel must still close.
			<-changes
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("expected channel to close after cancel")
	}
}
