// Package overlay shows the tag tree on screen and runs prompts on behalf of
// the engine. All drawing happens on the presenter's own goroutine.
package overlay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/1broseidon/i3tags/internal/engine"
	"github.com/1broseidon/i3tags/internal/palette"
	"github.com/1broseidon/i3tags/internal/tree"
)

// Kind identifies a presenter message.
type Kind int

const (
	KindReset Kind = iota
	KindTags
	KindMode
	KindPrompt
)

// String returns the string representation of the message kind
func (k Kind) String() string {
	switch k {
	case KindReset:
		return "reset"
	case KindTags:
		return "tags"
	case KindMode:
		return "mode"
	case KindPrompt:
		return "prompt"
	default:
		return "unknown"
	}
}

// Message is sent from the engine goroutine to the presenter.
type Message struct {
	Kind     Kind
	Snapshot *tree.Node
	Command  string
	Label    string
	Reply    chan<- PromptReply
}

// PromptReply carries the outcome of a prompt back to the engine.
type PromptReply struct {
	Entry string
	Err   error
}

// Renderer draws lines on screen.
type Renderer interface {
	Show(lines []Line, anchor tree.Rect) error
	Hide()
	Close()
}

// Nop is a Renderer that draws nothing.
type Nop struct{}

func (Nop) Show([]Line, tree.Rect) error { return nil }
func (Nop) Hide()                        {}
func (Nop) Close()                       {}

// Options configures a Presenter.
type Options struct {
	Colors Colors
	Logger *slog.Logger
}

// Presenter implements engine.Presenter by forwarding every call to its Run
// goroutine.
type Presenter struct {
	msgs     chan Message
	done     chan struct{}
	renderer Renderer
	prompter palette.Backend
	colors   Colors
	logger   *slog.Logger

	// Owned by the Run goroutine.
	anchor tree.Rect
	last   *tree.Node
}

var _ engine.Presenter = (*Presenter)(nil)

// New creates a presenter. A nil renderer draws nothing; a nil prompter makes
// every prompt fail.
func New(renderer Renderer, prompter palette.Backend, opts Options) *Presenter {
	if renderer == nil {
		renderer = Nop{}
	}
	colors := opts.Colors
	if colors == (Colors{}) {
		colors = DefaultColors()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Presenter{
		msgs:     make(chan Message, 32),
		done:     make(chan struct{}),
		renderer: renderer,
		prompter: prompter,
		colors:   colors,
		logger:   logger,
	}
}

// Run processes messages until ctx is cancelled, then releases the renderer.
func (p *Presenter) Run(ctx context.Context) {
	defer close(p.done)
	defer p.renderer.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-p.msgs:
			p.handle(ctx, msg)
		}
	}
}

func (p *Presenter) handle(ctx context.Context, msg Message) {
	switch msg.Kind {
	case KindReset:
		p.renderer.Hide()
	case KindTags:
		p.last = msg.Snapshot
		if w, ok := msg.Snapshot.FindFocused(); ok {
			p.anchor = w.Rect
		}
		// Clear first so a failed draw never leaves the previous tree up.
		p.renderer.Hide()
		if err := p.renderer.Show(TagLines(msg.Snapshot, p.colors), p.anchor); err != nil {
			p.logger.Warn("overlay draw failed", "error", err)
		}
	case KindMode:
		p.renderer.Hide()
		if err := p.renderer.Show(ModeLines(msg.Command, p.colors), p.anchor); err != nil {
			p.logger.Warn("overlay draw failed", "error", err)
		}
	case KindPrompt:
		entry, err := p.prompt(ctx, msg.Label)
		msg.Reply <- PromptReply{Entry: entry, Err: err}
	default:
		p.logger.Debug("ignoring presenter message", "kind", msg.Kind)
	}
}

func (p *Presenter) prompt(ctx context.Context, label string) (string, error) {
	if p.prompter == nil {
		return "", errors.New("no prompt backend configured")
	}
	p.renderer.Hide()
	entry, err := p.prompter.Prompt(ctx, label, p.tagSummary())
	if errors.Is(err, palette.ErrCancelled) {
		return "", engine.ErrPromptCancelled
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", p.prompter.Name(), err)
	}
	return entry, nil
}

// tagSummary lists the known tag names for the launcher's message bar.
func (p *Presenter) tagSummary() string {
	if p.last == nil {
		return ""
	}
	var names []string
	for _, tag := range p.last.Tags() {
		names = append(names, tag.Name)
	}
	return strings.Join(names, " ")
}

func (p *Presenter) send(msg Message) {
	select {
	case p.msgs <- msg:
	case <-p.done:
	}
}

// ShowTags draws a tag tree snapshot. The presenter takes ownership of it.
func (p *Presenter) ShowTags(snapshot *tree.Node) {
	p.send(Message{Kind: KindTags, Snapshot: snapshot})
}

// Reset hides the panel.
func (p *Presenter) Reset() {
	p.send(Message{Kind: KindReset})
}

// ShowModeHint draws the binding command as a hint.
func (p *Presenter) ShowModeHint(command string) {
	p.send(Message{Kind: KindMode, Command: command})
}

// Prompt asks the user for a line of text and waits for the answer.
func (p *Presenter) Prompt(ctx context.Context, label string) (string, error) {
	reply := make(chan PromptReply, 1)
	select {
	case p.msgs <- Message{Kind: KindPrompt, Label: label, Reply: reply}:
	case <-p.done:
		return "", errors.New("presenter stopped")
	case <-ctx.Done():
		return "", ctx.Err()
	}

	select {
	case r := <-reply:
		return r.Entry, r.Err
	case <-p.done:
		return "", errors.New("presenter stopped")
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
