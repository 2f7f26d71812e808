package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/i3tags/internal/ipc"
)

var (
	tagStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	focusedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#90ee90"))
	urgentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffff00"))
	windowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// RenderTagTree renders every tag with its windows as an indented tree. With
// color the focused tag and window are green and urgent windows yellow.
func RenderTagTree(data *ipc.TagsData, color bool) string {
	if data == nil || len(data.Tags) == 0 {
		return "no tags\n"
	}
	var b strings.Builder
	for _, tag := range data.Tags {
		b.WriteString(renderTagLine(tag, color))
		b.WriteByte('\n')
		for i, w := range tag.Windows {
			branch := "├─ "
			if i == len(tag.Windows)-1 {
				branch = "└─ "
			}
			b.WriteString(paint(color, dimStyle, branch))
			b.WriteString(renderWindowLine(w, color))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func renderTagLine(tag ipc.TagInfo, color bool) string {
	name := tag.Name
	if name == "" {
		name = "(unnamed)"
	}
	count := fmt.Sprintf(" (%d)", len(tag.Windows))
	if tag.Focused {
		return paint(color, focusedStyle, "* "+name) + paint(color, dimStyle, count)
	}
	return paint(color, tagStyle, "  "+name) + paint(color, dimStyle, count)
}

func renderWindowLine(w ipc.WindowInfo, color bool) string {
	style := windowStyle
	label := windowLabel(w)
	switch {
	case w.Focused:
		style = focusedStyle
	case w.Urgent:
		style = urgentStyle
		label += " !"
	}
	line := paint(color, style, label)
	if w.Class != "" && w.Name != "" {
		line += paint(color, dimStyle, " ["+w.Class+"]")
	}
	return line
}

func windowLabel(w ipc.WindowInfo) string {
	switch {
	case w.Name != "":
		return w.Name
	case w.Class != "":
		return w.Class
	default:
		return "(untitled)"
	}
}

func paint(color bool, style lipgloss.Style, s string) string {
	if !color {
		return s
	}
	return style.Render(s)
}
