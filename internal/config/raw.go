package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawColors struct {
	Text       *Color `yaml:"text"`
	Background *Color `yaml:"background"`
	Focused    *Color `yaml:"focused"`
	Urgent     *Color `yaml:"urgent"`
}

type RawOverlayConfig struct {
	Enabled *bool      `yaml:"enabled"`
	OffsetY *int       `yaml:"offset_y"`
	Font    *string    `yaml:"font"`
	Colors  *RawColors `yaml:"colors"`
}

type RawConfig struct {
	Include         IncludeList       `yaml:"include"`
	Marker          *string           `yaml:"marker"`
	SocketPath      *string           `yaml:"socket_path"`
	SwitchCommand   []string          `yaml:"switch_command"`
	PromptBackend   *string           `yaml:"prompt_backend"`
	RetagPrompt     *string           `yaml:"retag_prompt"`
	TitlePrompt     *string           `yaml:"title_prompt"`
	RefreshInterval *int              `yaml:"refresh_interval"`
	Display         *string           `yaml:"display"`
	LogLevel        *string           `yaml:"log_level"`
	Overlay         *RawOverlayConfig `yaml:"overlay"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Marker != nil {
		out.Marker = overlay.Marker
	}
	if overlay.SocketPath != nil {
		out.SocketPath = overlay.SocketPath
	}
	// Lists replace rather than append.
	if overlay.SwitchCommand != nil {
		out.SwitchCommand = overlay.SwitchCommand
	}
	if overlay.PromptBackend != nil {
		out.PromptBackend = overlay.PromptBackend
	}
	if overlay.RetagPrompt != nil {
		out.RetagPrompt = overlay.RetagPrompt
	}
	if overlay.TitlePrompt != nil {
		out.TitlePrompt = overlay.TitlePrompt
	}
	if overlay.RefreshInterval != nil {
		out.RefreshInterval = overlay.RefreshInterval
	}
	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}

	if overlay.Overlay != nil {
		if out.Overlay == nil {
			out.Overlay = &RawOverlayConfig{}
		}
		merged := mergeRawOverlay(*out.Overlay, *overlay.Overlay)
		out.Overlay = &merged
	}

	return out
}

func mergeRawOverlay(base RawOverlayConfig, overlay RawOverlayConfig) RawOverlayConfig {
	out := base
	if overlay.Enabled != nil {
		out.Enabled = overlay.Enabled
	}
	if overlay.OffsetY != nil {
		out.OffsetY = overlay.OffsetY
	}
	if overlay.Font != nil {
		out.Font = overlay.Font
	}
	if overlay.Colors != nil {
		if out.Colors == nil {
			out.Colors = &RawColors{}
		}
		merged := mergeRawColors(*out.Colors, *overlay.Colors)
		out.Colors = &merged
	}
	return out
}

func mergeRawColors(base RawColors, overlay RawColors) RawColors {
	out := base
	if overlay.Text != nil {
		out.Text = overlay.Text
	}
	if overlay.Background != nil {
		out.Background = overlay.Background
	}
	if overlay.Focused != nil {
		out.Focused = overlay.Focused
	}
	if overlay.Urgent != nil {
		out.Urgent = overlay.Urgent
	}
	return out
}
