package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/1broseidon/i3tags/internal/tree"
	"github.com/1broseidon/i3tags/internal/wm"
)

var (
	// ErrNoFocusedWindow is returned by commands that act on the focused
	// window when the snapshot has none.
	ErrNoFocusedWindow = errors.New("no focused window")
	// ErrQuit asks the caller to terminate the process.
	ErrQuit = errors.New("quit requested")
	// ErrPromptCancelled is returned by a Presenter when the user dismisses a prompt.
	ErrPromptCancelled = errors.New("prompt cancelled")
)

// WindowManager is the subset of the window-manager client the engine drives.
type WindowManager interface {
	GetTree(ctx context.Context) (*tree.Node, error)
	RunCommand(ctx context.Context, command string) error
	SwitchWorkspace(ctx context.Context, name string) error
}

// Presenter receives tag tree snapshots and simple display signals. Every
// call except Prompt is fire-and-forget.
type Presenter interface {
	ShowTags(snapshot *tree.Node)
	Reset()
	ShowModeHint(command string)
	Prompt(ctx context.Context, label string) (string, error)
}

// Renamer writes a window title outside the window manager.
type Renamer interface {
	SetWindowTitle(window uint32, title string) error
}

// Suspender pauses delivery of binding events while a prompt is open.
type Suspender interface {
	Suspend()
	Resume()
}

// Options configures an Engine.
type Options struct {
	// Marker locates the engine's tokens inside a binding command.
	Marker      string
	RetagPrompt string
	TitlePrompt string
	Renamer     Renamer
	Listener    Suspender
	Logger      *slog.Logger
}

// Engine owns the tag tree and executes commands against it. It is not safe
// for concurrent use; the daemon runs every call from a single goroutine.
type Engine struct {
	wm        WindowManager
	presenter Presenter
	renamer   Renamer
	listener  Suspender
	logger    *slog.Logger

	marker      string
	retagPrompt string
	titlePrompt string

	session Session
}

// New creates an engine. Init must be called before any command.
func New(manager WindowManager, presenter Presenter, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	marker := opts.Marker
	if marker == "" {
		marker = DefaultMarker
	}
	retagPrompt := opts.RetagPrompt
	if retagPrompt == "" {
		retagPrompt = "tags"
	}
	titlePrompt := opts.TitlePrompt
	if titlePrompt == "" {
		titlePrompt = "title"
	}

	return &Engine{
		wm:          manager,
		presenter:   presenter,
		renamer:     opts.Renamer,
		listener:    opts.Listener,
		logger:      logger,
		marker:      marker,
		retagPrompt: retagPrompt,
		titlePrompt: titlePrompt,
	}
}

// Init builds the tag tree from an initial snapshot. It fails when the
// snapshot lacks the root -> output -> content shape.
func (e *Engine) Init(ctx context.Context) error {
	live, err := e.wm.GetTree(ctx)
	if err != nil {
		return fmt.Errorf("fetch initial tree: %w", err)
	}
	tags, err := tree.NewTagTree(live)
	if err != nil {
		return fmt.Errorf("build tag tree: %w", err)
	}
	e.session.TagTree = tags
	e.session.WorkspaceTree = live
	e.logger.Info("tag tree initialized", "tags", len(tags.Tags()))
	return nil
}

// SetMarker changes the binding marker, used on config reload.
func (e *Engine) SetMarker(marker string) {
	if marker != "" {
		e.marker = marker
	}
}

// SetPrompts changes the prompt labels, used on config reload.
func (e *Engine) SetPrompts(retag, title string) {
	if retag != "" {
		e.retagPrompt = retag
	}
	if title != "" {
		e.titlePrompt = title
	}
}

// focused returns the focused window of the last live snapshot and the
// workspace holding it.
func (e *Engine) focused() (*tree.Node, *tree.Node, error) {
	live := e.session.WorkspaceTree
	window, ok := live.FindFocused()
	if !ok {
		return nil, nil, ErrNoFocusedWindow
	}
	ws, ok := live.WorkspaceOf(window.ID)
	if !ok {
		return nil, nil, fmt.Errorf("window %d: %w", window.ID, tree.ErrUnexpectedShape)
	}
	return window, ws, nil
}

// refreshWorkspaceTree replaces the retained snapshot with a fresh one,
// keeping the old snapshot when the fetch fails.
func (e *Engine) refreshWorkspaceTree(ctx context.Context) {
	live, err := e.wm.GetTree(ctx)
	if err != nil {
		e.logger.Warn("tree refresh failed, using last snapshot", "error", err)
		return
	}
	if err := tree.ValidateShape(live); err != nil {
		e.logger.Warn("tree refresh returned unexpected shape", "error", err)
		return
	}
	e.session.WorkspaceTree = live
}

func (e *Engine) suspend() func() {
	if e.listener == nil {
		return func() {}
	}
	e.listener.Suspend()
	return e.listener.Resume
}

func (e *Engine) run(ctx context.Context, command string) error {
	e.logger.Debug("window manager command", "command", command)
	if err := e.wm.RunCommand(ctx, command); err != nil {
		return fmt.Errorf("run %q: %w", command, err)
	}
	return nil
}

func (e *Engine) moveToWorkspace(ctx context.Context, id int64, workspace string) error {
	return e.run(ctx, wm.MoveToWorkspace(id, workspace))
}
