package wm

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"go.i3wm.org/i3/v4"
)

// BindingEvent is a key binding that i3 ran.
type BindingEvent struct {
	// Command is the binding's full command string.
	Command string
	// Symbol is the key symbol that triggered the binding.
	Symbol string
}

// eventSource is the part of *i3.EventReceiver the listener reads from.
type eventSource interface {
	Next() bool
	Event() i3.Event
	Close() error
}

// Listener forwards i3 binding events on a channel. While suspended, events
// are read and dropped.
type Listener struct {
	src    eventSource
	events chan BindingEvent
	logger *slog.Logger

	suspended atomic.Bool
	dropped   atomic.Int64

	closeOnce sync.Once
	stop      chan struct{}
	done      chan struct{}
}

// Listen subscribes to i3 binding events. The subscription ends when ctx is
// cancelled or Close is called.
func Listen(ctx context.Context, logger *slog.Logger) *Listener {
	return newListener(ctx, i3.Subscribe(i3.BindingEventType), logger)
}

func newListener(ctx context.Context, src eventSource, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	l := &Listener{
		src:    src,
		events: make(chan BindingEvent, 16),
		logger: logger,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go l.run(ctx)
	go func() {
		select {
		case <-ctx.Done():
			l.Close()
		case <-l.done:
		}
	}()
	return l
}

// Events returns the channel of binding events. It is closed when the
// subscription ends.
func (l *Listener) Events() <-chan BindingEvent {
	return l.events
}

// Suspend drops events until Resume is called.
func (l *Listener) Suspend() {
	l.suspended.Store(true)
}

// Resume restarts event delivery. Bindings still queued from before the
// suspension are discarded so none of them runs after the prompt closes.
func (l *Listener) Resume() {
	for {
		select {
		case _, ok := <-l.events:
			if !ok {
				l.suspended.Store(false)
				return
			}
			l.dropped.Add(1)
		default:
			l.suspended.Store(false)
			return
		}
	}
}

// Dropped returns how many events were discarded while suspended.
func (l *Listener) Dropped() int64 {
	return l.dropped.Load()
}

// Close ends the subscription and waits for the reader to exit.
func (l *Listener) Close() {
	l.closeOnce.Do(func() {
		close(l.stop)
		if err := l.src.Close(); err != nil {
			l.logger.Debug("closing i3 subscription", "error", err)
		}
	})
	<-l.done
}

func (l *Listener) run(ctx context.Context) {
	defer close(l.done)
	defer close(l.events)

	for l.src.Next() {
		ev, ok := l.src.Event().(*i3.BindingEvent)
		if !ok || ev.Change != "run" {
			continue
		}
		if l.suspended.Load() {
			l.dropped.Add(1)
			l.logger.Debug("dropping binding while suspended", "command", ev.Binding.Command)
			continue
		}
		select {
		case l.events <- BindingEvent{Command: ev.Binding.Command, Symbol: ev.Binding.Symbol}:
		case <-ctx.Done():
			return
		case <-l.stop:
			return
		}
	}
}
