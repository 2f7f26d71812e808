package config

import (
	"fmt"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig layers raw over the defaults and validates the result.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Marker != nil {
		cfg.Marker = *raw.Marker
	}
	if raw.SocketPath != nil {
		cfg.SocketPath = *raw.SocketPath
	}
	if raw.SwitchCommand != nil {
		cfg.SwitchCommand = append([]string(nil), raw.SwitchCommand...)
	}
	if raw.PromptBackend != nil {
		cfg.PromptBackend = *raw.PromptBackend
	}
	if raw.RetagPrompt != nil {
		cfg.RetagPrompt = *raw.RetagPrompt
	}
	if raw.TitlePrompt != nil {
		cfg.TitlePrompt = *raw.TitlePrompt
	}
	if raw.RefreshInterval != nil {
		cfg.RefreshInterval = *raw.RefreshInterval
	}
	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}

	if o := raw.Overlay; o != nil {
		if o.Enabled != nil {
			cfg.Overlay.Enabled = *o.Enabled
		}
		if o.OffsetY != nil {
			cfg.Overlay.OffsetY = *o.OffsetY
		}
		if o.Font != nil {
			cfg.Overlay.Font = *o.Font
		}
		if c := o.Colors; c != nil {
			if c.Text != nil {
				cfg.Overlay.Colors.Text = *c.Text
			}
			if c.Background != nil {
				cfg.Overlay.Colors.Background = *c.Background
			}
			if c.Focused != nil {
				cfg.Overlay.Colors.Focused = *c.Focused
			}
			if c.Urgent != nil {
				cfg.Overlay.Colors.Urgent = *c.Urgent
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
