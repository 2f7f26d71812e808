package overlay

import (
	"strings"

	"github.com/1broseidon/i3tags/internal/tree"
)

// Panel colors
const (
	ColorText       = 0xf5f7fa // Light text
	ColorBackground = 0x1f2933 // Dark panel background
	ColorFocused    = 0x90ee90 // Light green - focused tag or window
	ColorUrgent     = 0xffff00 // Yellow - urgent window
)

// Colors holds the panel palette as 0xRRGGBB values.
type Colors struct {
	Text       uint32
	Background uint32
	Focused    uint32
	Urgent     uint32
}

// DefaultColors returns the built-in palette.
func DefaultColors() Colors {
	return Colors{
		Text:       ColorText,
		Background: ColorBackground,
		Focused:    ColorFocused,
		Urgent:     ColorUrgent,
	}
}

// Line is one row of the panel.
type Line struct {
	Text  string
	Color uint32
}

const windowIndent = "  "

// TagLines lists every tag followed by its windows, indented. The focused
// tag and window are highlighted, as are urgent windows.
func TagLines(snapshot *tree.Node, colors Colors) []Line {
	if snapshot == nil {
		return nil
	}
	var lines []Line
	for _, tag := range snapshot.Tags() {
		color := colors.Text
		if tag.Focused {
			color = colors.Focused
		}
		lines = append(lines, Line{Text: tag.Name, Color: color})

		for w := range tag.Leaves() {
			color := colors.Text
			switch {
			case w.Focused:
				color = colors.Focused
			case w.Urgent:
				color = colors.Urgent
			}
			lines = append(lines, Line{Text: windowIndent + windowLabel(w), Color: color})
		}
	}
	return lines
}

// ModeLines renders a binding command as a short hint.
func ModeLines(command string, colors Colors) []Line {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil
	}
	return []Line{
		{Text: "mode", Color: colors.Focused},
		{Text: windowIndent + command, Color: colors.Text},
	}
}

func windowLabel(w *tree.Node) string {
	name := w.Name
	if name == "" {
		name = w.WindowClass
	}
	if name == "" {
		name = "(untitled)"
	}
	return name
}

// drawable converts text to the Latin-1 subset a core X font can show and
// caps it at the 255 bytes ImageText8 accepts.
func drawable(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0xff {
			return '?'
		}
		return r
	}, s)
	// Runes above 0x7f are written as single bytes.
	b := make([]byte, 0, len(s))
	for _, r := range s {
		b = append(b, byte(r))
		if len(b) == 255 {
			break
		}
	}
	return string(b)
}
