package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/1broseidon/i3tags/internal/config"
	"github.com/1broseidon/i3tags/internal/engine"
	"github.com/1broseidon/i3tags/internal/ipc"
	"github.com/1broseidon/i3tags/internal/tree"
	"github.com/1broseidon/i3tags/internal/wm"
)

var (
	// ErrSubscriptionClosed is returned by Run when the binding event stream ends.
	ErrSubscriptionClosed = errors.New("binding subscription closed")
	errActorStopped       = errors.New("daemon is shutting down")
)

// tagEngine is the part of *engine.Engine the actor drives.
type tagEngine interface {
	HandleBinding(ctx context.Context, ev wm.BindingEvent) error
	SwitchTagByName(ctx context.Context, name string) error
	UpdateTagTree(ctx context.Context) error
	Snapshot() *tree.Node
	FocusedTagName() string
	PreviousTagName() string
	SetMarker(marker string)
	SetPrompts(retag, title string)
}

// ConfigLoader returns a freshly loaded configuration.
type ConfigLoader func() (*config.Config, error)

type request struct {
	name  string
	fn    func(ctx context.Context) error
	reply chan error
}

// ActorOptions configures an Actor.
type ActorOptions struct {
	Config        *config.Config
	Load          ConfigLoader
	Dropped       func() int64
	PromptBackend string
	Level         *slog.LevelVar
	Logger        *slog.Logger
}

// Actor runs every engine operation on one goroutine. Binding events, IPC
// requests, periodic refreshes and config reloads are all serialized through
// Run, so the engine needs no locking.
type Actor struct {
	engine   tagEngine
	events   <-chan wm.BindingEvent
	requests chan request
	reloads  chan struct{}
	done     chan struct{}

	load          ConfigLoader
	dropped       func() int64
	promptBackend string
	level         *slog.LevelVar
	logger        *slog.Logger
	started       time.Time

	// Owned by the Run goroutine.
	cfg       *config.Config
	refreshed chan time.Duration
}

var _ ipc.Handler = (*Actor)(nil)

// NewActor creates an actor driving eng with the events it receives.
func NewActor(eng tagEngine, events <-chan wm.BindingEvent, opts ActorOptions) *Actor {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	dropped := opts.Dropped
	if dropped == nil {
		dropped = func() int64 { return 0 }
	}
	return &Actor{
		engine:        eng,
		events:        events,
		requests:      make(chan request),
		reloads:       make(chan struct{}, 1),
		done:          make(chan struct{}),
		load:          opts.Load,
		dropped:       dropped,
		promptBackend: opts.PromptBackend,
		level:         opts.Level,
		logger:        logger,
		started:       time.Now(),
		cfg:           cfg,
		refreshed:     make(chan time.Duration, 1),
	}
}

// Run processes work until ctx is cancelled, the user quits, or the binding
// stream closes. Quitting returns nil.
func (a *Actor) Run(ctx context.Context) error {
	defer close(a.done)

	interval := refreshInterval(a.cfg)
	var ticker *time.Ticker
	var tick <-chan time.Time
	if interval > 0 {
		ticker = time.NewTicker(interval)
		tick = ticker.C
	}
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	a.logger.Info("event loop started", "refresh_interval", interval)

	for {
		var err error
		select {
		case <-ctx.Done():
			a.logger.Info("event loop stopped")
			return nil
		case ev, ok := <-a.events:
			if !ok {
				return ErrSubscriptionClosed
			}
			err = a.step(ctx, "binding", func(ctx context.Context) error {
				return a.engine.HandleBinding(ctx, ev)
			})
		case req := <-a.requests:
			err = a.step(ctx, req.name, req.fn)
			req.reply <- err
		case <-tick:
			err = a.step(ctx, "refresh", a.engine.UpdateTagTree)
		case <-a.reloads:
			err = a.step(ctx, "reload", a.reload)
		case next := <-a.refreshed:
			if ticker != nil {
				ticker.Stop()
				ticker, tick = nil, nil
			}
			if next > 0 {
				ticker = time.NewTicker(next)
				tick = ticker.C
			}
			a.logger.Info("refresh interval changed", "refresh_interval", next)
		}

		if errors.Is(err, engine.ErrQuit) {
			a.logger.Info("quit requested")
			return nil
		}
	}
}

// step runs fn and recovers from panics so one bad command never takes the
// daemon down.
func (a *Actor) step(ctx context.Context, name string, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("panic recovered", "step", name, "error", r)
			err = fmt.Errorf("%s: panic: %v", name, r)
		}
	}()

	err = fn(ctx)
	if err != nil && !errors.Is(err, engine.ErrQuit) {
		a.logger.Warn("command failed", "step", name, "error", err)
	}
	return err
}

// do runs fn on the actor goroutine and waits for it.
func (a *Actor) do(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	reply := make(chan error, 1)
	select {
	case a.requests <- request{name: name, fn: fn, reply: reply}:
	case <-a.done:
		return errActorStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-reply:
		return err
	case <-a.done:
		return errActorStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TriggerReload schedules a config reload. It never blocks; a reload that is
// already pending absorbs the request.
func (a *Actor) TriggerReload() {
	select {
	case a.reloads <- struct{}{}:
	default:
	}
}

func (a *Actor) reload(ctx context.Context) error {
	if a.load == nil {
		return errors.New("config reload not supported")
	}
	cfg, err := a.load()
	if err != nil {
		return fmt.Errorf("reload config: %w", err)
	}
	a.apply(cfg)
	a.logger.Info("config reloaded", "marker", cfg.Marker, "log_level", cfg.LogLevel)
	return nil
}

// apply updates everything that can change without a restart. Overlay and
// prompt backend settings take effect on the next daemon start.
func (a *Actor) apply(cfg *config.Config) {
	prev := a.cfg
	a.cfg = cfg
	a.engine.SetMarker(cfg.Marker)
	a.engine.SetPrompts(cfg.RetagPrompt, cfg.TitlePrompt)
	if a.level != nil {
		a.level.Set(cfg.SlogLevel())
	}
	if refreshInterval(prev) != refreshInterval(cfg) {
		select {
		case a.refreshed <- refreshInterval(cfg):
		default:
		}
	}
	if prev.Overlay != cfg.Overlay || prev.PromptBackend != cfg.PromptBackend || prev.SocketPath != cfg.SocketPath {
		a.logger.Warn("overlay, prompt backend and socket changes apply after a restart")
	}
}

func refreshInterval(cfg *config.Config) time.Duration {
	if cfg == nil || cfg.RefreshInterval <= 0 {
		return 0
	}
	return time.Duration(cfg.RefreshInterval) * time.Second
}

// Status implements ipc.Handler.
func (a *Actor) Status(ctx context.Context) (ipc.StatusData, error) {
	var status ipc.StatusData
	err := a.do(ctx, "status", func(context.Context) error {
		status = ipc.StatusData{
			Marker:         a.cfg.Marker,
			TagCount:       len(a.engine.Snapshot().Tags()),
			FocusedTag:     a.engine.FocusedTagName(),
			PreviousTag:    a.engine.PreviousTagName(),
			DroppedEvents:  a.dropped(),
			OverlayEnabled: a.cfg.Overlay.Enabled,
			PromptBackend:  a.promptBackend,
			UptimeSeconds:  int64(time.Since(a.started).Seconds()),
		}
		return nil
	})
	return status, err
}

// Tags implements ipc.Handler.
func (a *Actor) Tags(ctx context.Context) (*tree.Node, error) {
	var snapshot *tree.Node
	err := a.do(ctx, "tags", func(context.Context) error {
		snapshot = a.engine.Snapshot()
		return nil
	})
	return snapshot, err
}

// RunTokens implements ipc.Handler by injecting tokens as a binding command.
func (a *Actor) RunTokens(ctx context.Context, tokens, symbol string) error {
	return a.do(ctx, "run", func(ctx context.Context) error {
		ev := wm.BindingEvent{Command: a.cfg.Marker + " " + tokens, Symbol: symbol}
		return a.engine.HandleBinding(ctx, ev)
	})
}

// Switch implements ipc.Handler.
func (a *Actor) Switch(ctx context.Context, tag string) error {
	return a.do(ctx, "switch", func(ctx context.Context) error {
		return a.engine.SwitchTagByName(ctx, tag)
	})
}

// Reconcile implements ipc.Handler.
func (a *Actor) Reconcile(ctx context.Context) error {
	return a.do(ctx, "reconcile", a.engine.UpdateTagTree)
}

// Reload implements ipc.Handler.
func (a *Actor) Reload(ctx context.Context) error {
	return a.do(ctx, "reload", a.reload)
}
