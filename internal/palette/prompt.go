package palette

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrCancelled is returned when the user closes the launcher without submitting.
var ErrCancelled = errors.New("palette cancelled")

type backendKind int

const (
	kindRofi backendKind = iota
	kindFuzzel
	kindWofi
	kindDmenu
)

type dmenuLikeBackend struct {
	command string
	kind    backendKind
	caps    Capabilities
}

func NewRofiBackend() Backend {
	return &dmenuLikeBackend{
		command: "rofi",
		kind:    kindRofi,
		caps:    Capabilities{MessageBar: true},
	}
}

func NewFuzzelBackend() Backend {
	return &dmenuLikeBackend{
		command: "fuzzel",
		kind:    kindFuzzel,
		caps:    Capabilities{PromptOnly: true},
	}
}

func NewWofiBackend() Backend {
	return &dmenuLikeBackend{
		command: "wofi",
		kind:    kindWofi,
	}
}

func NewDmenuBackend() Backend {
	// dmenu has minimal features
	return &dmenuLikeBackend{
		command: "dmenu",
		kind:    kindDmenu,
	}
}

func (b *dmenuLikeBackend) Name() string {
	return b.command
}

func (b *dmenuLikeBackend) Capabilities() Capabilities {
	return b.caps
}

func (b *dmenuLikeBackend) Prompt(ctx context.Context, label, message string) (string, error) {
	cmd := exec.CommandContext(ctx, b.command, b.buildArgs(label, message)...)
	// No suggestions: Enter always submits the typed text.
	cmd.Stdin = strings.NewReader("")

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	entry := strings.TrimRight(string(out), "\r\n")

	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		// Check for cancel (exit code 1 or 130 for Ctrl+C)
		if entry == "" && isCancelExit(err) {
			return "", ErrCancelled
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s failed: %s", b.command, msg)
		}
		return "", fmt.Errorf("%s failed: %w", b.command, err)
	}

	return entry, nil
}

func (b *dmenuLikeBackend) buildArgs(label, message string) []string {
	var args []string

	switch b.kind {
	case kindRofi:
		args = []string{"-dmenu"}
		if label != "" {
			args = append(args, "-p", label)
		}
		// Message bar
		if message != "" && b.caps.MessageBar {
			args = append(args, "-mesg", message)
		}

	case kindFuzzel:
		args = []string{"--dmenu"}
		if label != "" && b.caps.PromptOnly {
			args = append(args, "--prompt-only", label+": ")
		} else if label != "" {
			args = append(args, "--prompt", label+": ")
		}

	case kindWofi:
		args = []string{"--dmenu"}
		if label != "" {
			args = append(args, "--prompt", label)
		}

	case kindDmenu:
		if label != "" {
			args = append(args, "-p", label)
		}
	}

	return args
}

func isCancelExit(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	// Rofi/dmenu/wofi typically use 1 for "no selection" and 130 for Ctrl+C.
	switch exitErr.ExitCode() {
	case 1, 130:
		return true
	default:
		return false
	}
}
