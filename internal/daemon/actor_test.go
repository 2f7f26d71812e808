package daemon

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/1broseidon/i3tags/internal/config"
	"github.com/1broseidon/i3tags/internal/engine"
	"github.com/1broseidon/i3tags/internal/tree"
	"github.com/1broseidon/i3tags/internal/wm"
)

type fakeEngine struct {
	mu       sync.Mutex
	bindings []wm.BindingEvent
	switched []string
	updates  int
	marker   string
	retag    string
	title    string

	bindErr  error
	panicOn  string
	snapshot *tree.Node
}

func (f *fakeEngine) HandleBinding(_ context.Context, ev wm.BindingEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panicOn != "" && ev.Command == f.panicOn {
		panic("boom")
	}
	f.bindings = append(f.bindings, ev)
	return f.bindErr
}

func (f *fakeEngine) SwitchTagByName(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.switched = append(f.switched, name)
	return nil
}

func (f *fakeEngine) UpdateTagTree(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	return nil
}

func (f *fakeEngine) Snapshot() *tree.Node {
	if f.snapshot == nil {
		return tree.NewRoot()
	}
	return f.snapshot.Clone()
}

func (f *fakeEngine) FocusedTagName() string  { return "1" }
func (f *fakeEngine) PreviousTagName() string { return "2" }
func (f *fakeEngine) SetMarker(m string)      { f.marker = m }
func (f *fakeEngine) SetPrompts(r, t string)  { f.retag, f.title = r, t }

func (f *fakeEngine) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updates
}

func startActor(t *testing.T, eng *fakeEngine, events chan wm.BindingEvent, opts ActorOptions) (*Actor, <-chan error, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	actor := NewActor(eng, events, opts)
	done := make(chan error, 1)
	go func() { done <- actor.Run(ctx) }()
	t.Cleanup(cancel)
	return actor, done, cancel
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatalf("actor did not stop")
		return nil
	}
}

func TestActor_DispatchesBindingsAndRequestsInOrder(t *testing.T) {
	eng := &fakeEngine{}
	events := make(chan wm.BindingEvent)
	actor, _, _ := startActor(t, eng, events, ActorOptions{})

	events <- wm.BindingEvent{Command: "i3tags activate"}
	if err := actor.RunTokens(context.Background(), "branch", "w"); err != nil {
		t.Fatalf("RunTokens: %v", err)
	}
	if err := actor.Switch(context.Background(), "web"); err != nil {
		t.Fatalf("Switch: %v", err)
	}
	if err := actor.Reconcile(context.Background()); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	eng.mu.Lock()
	defer eng.mu.Unlock()
	if len(eng.bindings) != 2 {
		t.Fatalf("expected 2 bindings, got %v", eng.bindings)
	}
	if got := eng.bindings[1]; got.Command != "i3tags branch" || got.Symbol != "w" {
		t.Fatalf("unexpected injected binding %+v", got)
	}
	if len(eng.switched) != 1 || eng.switched[0] != "web" {
		t.Fatalf("unexpected switches %v", eng.switched)
	}
	if eng.updates != 1 {
		t.Fatalf("expected 1 update, got %d", eng.updates)
	}
}

func TestActor_QuitStopsLoop(t *testing.T) {
	eng := &fakeEngine{bindErr: engine.ErrQuit}
	events := make(chan wm.BindingEvent, 1)
	_, done, _ := startActor(t, eng, events, ActorOptions{})

	events <- wm.BindingEvent{Command: "i3tags quit"}
	if err := waitDone(t, done); err != nil {
		t.Fatalf("expected clean stop on quit, got %v", err)
	}
}

func TestActor_QuitThroughIPC(t *testing.T) {
	eng := &fakeEngine{bindErr: engine.ErrQuit}
	actor, done, _ := startActor(t, eng, make(chan wm.BindingEvent), ActorOptions{})

	err := actor.RunTokens(context.Background(), "quit", "")
	if !errors.Is(err, engine.ErrQuit) {
		t.Fatalf("expected ErrQuit, got %v", err)
	}
	if err := waitDone(t, done); err != nil {
		t.Fatalf("expected clean stop, got %v", err)
	}

	if err := actor.Reconcile(context.Background()); !errors.Is(err, errActorStopped) {
		t.Fatalf("expected stopped error after quit, got %v", err)
	}
}

func TestActor_FailuresDoNotStopLoop(t *testing.T) {
	eng := &fakeEngine{bindErr: errors.New("no focused window"), panicOn: "i3tags explode"}
	events := make(chan wm.BindingEvent)
	actor, _, _ := startActor(t, eng, events, ActorOptions{})

	events <- wm.BindingEvent{Command: "i3tags explode"}
	events <- wm.BindingEvent{Command: "i3tags retag"}

	if err := actor.RunTokens(context.Background(), "explode", ""); err == nil {
		t.Fatalf("expected panic to surface as an error")
	}
	if err := actor.Reconcile(context.Background()); err != nil {
		t.Fatalf("loop should still serve requests: %v", err)
	}
}

func TestActor_SubscriptionClosed(t *testing.T) {
	events := make(chan wm.BindingEvent)
	_, done, _ := startActor(t, &fakeEngine{}, events, ActorOptions{})

	close(events)
	if err := waitDone(t, done); !errors.Is(err, ErrSubscriptionClosed) {
		t.Fatalf("expected ErrSubscriptionClosed, got %v", err)
	}
}

func TestActor_Status(t *testing.T) {
	one := tree.NewTag("1")
	two := tree.NewTag("2")
	eng := &fakeEngine{snapshot: tree.NewRoot(one, two)}
	actor, _, _ := startActor(t, eng, make(chan wm.BindingEvent), ActorOptions{
		Dropped:       func() int64 { return 3 },
		PromptBackend: "rofi",
	})

	status, err := actor.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.TagCount != 2 || status.FocusedTag != "1" || status.PreviousTag != "2" {
		t.Fatalf("unexpected status %+v", status)
	}
	if status.DroppedEvents != 3 || status.PromptBackend != "rofi" || status.Marker != "i3tags" {
		t.Fatalf("unexpected status %+v", status)
	}

	snapshot, err := actor.Tags(context.Background())
	if err != nil {
		t.Fatalf("Tags: %v", err)
	}
	if len(snapshot.Tags()) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(snapshot.Tags()))
	}
}

func TestActor_ReloadAppliesConfig(t *testing.T) {
	eng := &fakeEngine{}
	level := new(slog.LevelVar)
	loaded := config.DefaultConfig()
	loaded.Marker = "tagger"
	loaded.RetagPrompt = "retag"
	loaded.TitlePrompt = "rename"
	loaded.LogLevel = "debug"

	actor, _, _ := startActor(t, eng, make(chan wm.BindingEvent), ActorOptions{
		Load:  func() (*config.Config, error) { return loaded, nil },
		Level: level,
	})

	if err := actor.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if eng.marker != "tagger" || eng.retag != "retag" || eng.title != "rename" {
		t.Fatalf("engine not updated: %q %q %q", eng.marker, eng.retag, eng.title)
	}
	if level.Level() != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v", level.Level())
	}

	// Injected tokens use the new marker.
	if err := actor.RunTokens(context.Background(), "activate", ""); err != nil {
		t.Fatalf("RunTokens: %v", err)
	}
	eng.mu.Lock()
	got := eng.bindings[0].Command
	eng.mu.Unlock()
	if got != "tagger activate" {
		t.Fatalf("expected new marker in command, got %q", got)
	}
}

func TestActor_ReloadFailureKeepsConfig(t *testing.T) {
	eng := &fakeEngine{}
	actor, _, _ := startActor(t, eng, make(chan wm.BindingEvent), ActorOptions{
		Load: func() (*config.Config, error) { return nil, errors.New("bad yaml") },
	})

	if err := actor.Reload(context.Background()); err == nil {
		t.Fatalf("expected reload error")
	}
	status, err := actor.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.Marker != "i3tags" {
		t.Fatalf("expected original marker, got %q", status.Marker)
	}
}

func TestActor_TriggerReloadNeverBlocks(t *testing.T) {
	actor := NewActor(&fakeEngine{}, nil, ActorOptions{})
	for i := 0; i < 5; i++ {
		actor.TriggerReload()
	}
	if len(actor.reloads) != 1 {
		t.Fatalf("expected a single pending reload, got %d", len(actor.reloads))
	}
}

func TestActor_PeriodicRefresh(t *testing.T) {
	eng := &fakeEngine{}
	cfg := config.DefaultConfig()
	cfg.RefreshInterval = 1
	startActor(t, eng, make(chan wm.BindingEvent), ActorOptions{Config: cfg})

	deadline := time.Now().Add(5 * time.Second)
	for eng.updateCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("expected a periodic refresh")
		}
		time.Sleep(50 * time.Millisecond)
	}
}
