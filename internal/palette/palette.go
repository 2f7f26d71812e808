// Package palette asks the user for a line of free text through an external
// launcher (rofi, fuzzel, wofi or dmenu).
package palette

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Capabilities describes what features a backend supports.
type Capabilities struct {
	MessageBar bool // Can show a context message above the input
	PromptOnly bool // Can hide the (empty) list and show only the input line
}

// Backend prompts the user for free text.
type Backend interface {
	// Prompt shows label and returns what the user typed. An empty string
	// means the user submitted nothing; ErrCancelled means they dismissed the
	// launcher. message is optional context shown when supported.
	Prompt(ctx context.Context, label, message string) (string, error)

	// Name returns the launcher command.
	Name() string

	// Capabilities returns the features supported by this backend.
	Capabilities() Capabilities
}

// backendOrder is the auto-detection priority.
var backendOrder = []string{"rofi", "fuzzel", "wofi", "dmenu"}

var constructors = map[string]func() Backend{
	"rofi":   NewRofiBackend,
	"fuzzel": NewFuzzelBackend,
	"wofi":   NewWofiBackend,
	"dmenu":  NewDmenuBackend,
}

// DetectBackend returns the first available launcher found in PATH.
func DetectBackend() (string, error) {
	for _, name := range backendOrder {
		if _, err := exec.LookPath(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no palette backend found in PATH (looked for: %s)", strings.Join(backendOrder, ", "))
}

// AutoDetect selects the first available backend in priority order.
func AutoDetect() (Backend, error) {
	name, err := DetectBackend()
	if err != nil {
		return nil, err
	}
	return NewBackend(name)
}

// NewBackend creates a backend by name.
//
// Supported names: auto, rofi, fuzzel, wofi, dmenu.
func NewBackend(name string) (Backend, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || key == "auto" {
		return AutoDetect()
	}
	ctor, ok := constructors[key]
	if !ok {
		return nil, fmt.Errorf("unknown palette backend: %q (expected: auto, %s)", name, strings.Join(backendOrder, ", "))
	}
	if _, err := exec.LookPath(key); err != nil {
		return nil, fmt.Errorf("palette backend %q not found in PATH", key)
	}
	return ctor(), nil
}

// ValidBackend reports whether name is accepted by NewBackend.
func ValidBackend(name string) bool {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || key == "auto" {
		return true
	}
	_, ok := constructors[key]
	return ok
}
