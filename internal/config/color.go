package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Color is a 0xRRGGBB value. In YAML it may be written as an integer or as
// a "#rrggbb" string.
type Color uint32

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a scalar")
	}
	s := strings.TrimSpace(value.Value)
	if strings.HasPrefix(s, "#") {
		if len(s) != 7 {
			return fmt.Errorf("color %q must be #rrggbb", s)
		}
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return fmt.Errorf("color %q: %w", s, err)
		}
		*c = Color(v)
		return nil
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return fmt.Errorf("color %q must be an integer or #rrggbb", s)
	}
	if v > 0xffffff {
		return fmt.Errorf("color %q out of range", s)
	}
	*c = Color(v)
	return nil
}

func (c Color) MarshalYAML() (any, error) {
	return c.String(), nil
}

func (c Color) String() string {
	return fmt.Sprintf("#%06x", uint32(c))
}
