package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	marker
//	socket_path
//	switch_command
//	prompt_backend
//	retag_prompt
//	title_prompt
//	refresh_interval
//	display
//	log_level
//	overlay.enabled
//	overlay.offset_y
//	overlay.font
//	overlay.colors.<text|background|focused|urgent>
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	unknown := fmt.Errorf("unknown path: %s", path)

	if len(parts) == 1 {
		switch parts[0] {
		case "marker":
			return cfg.Marker, nil
		case "socket_path":
			return cfg.SocketPath, nil
		case "switch_command":
			return cfg.SwitchCommand, nil
		case "prompt_backend":
			return cfg.PromptBackend, nil
		case "retag_prompt":
			return cfg.RetagPrompt, nil
		case "title_prompt":
			return cfg.TitlePrompt, nil
		case "refresh_interval":
			return cfg.RefreshInterval, nil
		case "display":
			return cfg.Display, nil
		case "log_level":
			return cfg.LogLevel, nil
		case "overlay":
			return cfg.Overlay, nil
		}
		return nil, unknown
	}

	if parts[0] != "overlay" {
		return nil, unknown
	}
	switch {
	case len(parts) == 2 && parts[1] == "enabled":
		return cfg.Overlay.Enabled, nil
	case len(parts) == 2 && parts[1] == "offset_y":
		return cfg.Overlay.OffsetY, nil
	case len(parts) == 2 && parts[1] == "font":
		return cfg.Overlay.Font, nil
	case len(parts) == 2 && parts[1] == "colors":
		return cfg.Overlay.Colors, nil
	case len(parts) == 3 && parts[1] == "colors":
		switch parts[2] {
		case "text":
			return cfg.Overlay.Colors.Text, nil
		case "background":
			return cfg.Overlay.Colors.Background, nil
		case "focused":
			return cfg.Overlay.Colors.Focused, nil
		case "urgent":
			return cfg.Overlay.Colors.Urgent, nil
		}
	}
	return nil, unknown
}
