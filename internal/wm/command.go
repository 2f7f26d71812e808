package wm

import (
	"fmt"
	"strings"
)

// Quote returns s as a double-quoted i3 command argument.
func Quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// MoveToWorkspace builds the command moving container id to workspace ws.
func MoveToWorkspace(id int64, ws string) string {
	return fmt.Sprintf("[con_id=%d] move container to workspace %s", id, Quote(ws))
}

// Kill builds the command closing container id.
func Kill(id int64) string {
	return fmt.Sprintf("[con_id=%d] kill", id)
}

// Workspace builds the command switching to workspace ws.
func Workspace(ws string) string {
	return "workspace " + Quote(ws)
}
