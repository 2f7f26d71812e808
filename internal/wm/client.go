// Package wm talks to i3 over its IPC socket: tree snapshots, commands and
// the binding event subscription.
package wm

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"go.i3wm.org/i3/v4"

	"github.com/1broseidon/i3tags/internal/tree"
)

// DefaultSwitchCommand runs the raw workspace switch. It goes through a
// separate process because empty workspaces are not reliably reachable over
// the command socket.
var DefaultSwitchCommand = []string{"i3-msg"}

// ClientOptions configures a Client.
type ClientOptions struct {
	// SocketPath overrides i3's socket discovery when non-empty.
	SocketPath string
	// SwitchCommand is the argv prefix for workspace switches.
	SwitchCommand []string
	Logger        *slog.Logger
}

// Client is the engine's window-manager collaborator.
type Client struct {
	switchCommand []string
	logger        *slog.Logger

	runSwitch func(ctx context.Context, argv []string) error
}

// NewClient configures the i3 connection. i3 connections are opened per
// request, so a restarted window manager is picked up on the next call.
func NewClient(opts ClientOptions) *Client {
	if opts.SocketPath != "" {
		path := opts.SocketPath
		i3.SocketPathHook = func() (string, error) { return path, nil }
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	switchCommand := opts.SwitchCommand
	if len(switchCommand) == 0 {
		switchCommand = DefaultSwitchCommand
	}
	return &Client{
		switchCommand: switchCommand,
		logger:        logger,
		runSwitch:     execSwitch,
	}
}

// GetTree returns a converted snapshot of i3's layout tree.
func (c *Client) GetTree(ctx context.Context) (*tree.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := i3.GetTree()
	if err != nil {
		return nil, fmt.Errorf("i3 get_tree: %w", err)
	}
	if t.Root == nil {
		return nil, fmt.Errorf("i3 get_tree: %w", tree.ErrUnexpectedShape)
	}
	return tree.FromI3(t.Root), nil
}

// RunCommand sends command over the command socket.
func (c *Client) RunCommand(ctx context.Context, command string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	results, err := i3.RunCommand(command)
	if err != nil {
		return fmt.Errorf("i3 command: %w", err)
	}
	for _, r := range results {
		if !r.Success {
			return fmt.Errorf("i3 command %q: %s", command, r.Error)
		}
	}
	return nil
}

// SwitchWorkspace focuses workspace name by running the switch command.
func (c *Client) SwitchWorkspace(ctx context.Context, name string) error {
	argv := append(append([]string(nil), c.switchCommand...), Workspace(name))
	c.logger.Debug("switch workspace", "argv", argv)
	return c.runSwitch(ctx, argv)
}

func execSwitch(ctx context.Context, argv []string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("%s: %w: %s", argv[0], err, msg)
		}
		return fmt.Errorf("%s: %w", argv[0], err)
	}
	return nil
}
