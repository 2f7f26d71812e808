package overlay

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/1broseidon/i3tags/internal/engine"
	"github.com/1broseidon/i3tags/internal/palette"
	"github.com/1broseidon/i3tags/internal/tree"
	"github.com/1broseidon/i3tags/internal/x11"
)

func snapshot() *tree.Node {
	focused := &tree.Node{ID: 11, Name: "vim", Role: tree.RoleWindow, Focused: true, Rect: tree.Rect{X: 100, Y: 200, Width: 640, Height: 480}}
	urgent := &tree.Node{ID: 12, Name: "irc", Role: tree.RoleWindow, Urgent: true}
	plain := &tree.Node{ID: 13, WindowClass: "Firefox", Role: tree.RoleWindow}
	one := &tree.Node{ID: 1, Name: "1", Role: tree.RoleTag, Focused: true, Nodes: []*tree.Node{
		{ID: 30, Role: tree.RoleContainer, Nodes: []*tree.Node{focused}},
		urgent,
	}}
	two := &tree.Node{ID: 2, Name: "2", Role: tree.RoleTag, Nodes: []*tree.Node{plain}}
	return tree.NewRoot(one, two)
}

func TestTagLines(t *testing.T) {
	colors := DefaultColors()
	got := TagLines(snapshot(), colors)
	want := []Line{
		{Text: "1", Color: ColorFocused},
		{Text: "  vim", Color: ColorFocused},
		{Text: "  irc", Color: ColorUrgent},
		{Text: "2", Color: ColorText},
		{Text: "  Firefox", Color: ColorText},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if TagLines(nil, colors) != nil {
		t.Fatal("nil snapshot should produce no lines")
	}
}

func TestModeLines(t *testing.T) {
	lines := ModeLines("  nop i3tags mode  ", DefaultColors())
	if len(lines) != 2 || lines[1].Text != "  nop i3tags mode" {
		t.Fatalf("unexpected mode lines %+v", lines)
	}
	if ModeLines(" ", DefaultColors()) != nil {
		t.Fatal("blank command should produce no lines")
	}
}

func TestDrawable(t *testing.T) {
	if got := drawable("café ☃\ttab"); got != "caf\xe9 ??tab" {
		t.Fatalf("drawable = %q", got)
	}
	if got := drawable(strings.Repeat("x", 300)); len(got) != 255 {
		t.Fatalf("drawable length = %d, want 255", len(got))
	}
}

func TestPlacePanel(t *testing.T) {
	bounds := x11.Monitor{X: 0, Y: 0, Width: 1920, Height: 1080}
	tests := []struct {
		name   string
		anchor tree.Rect
		wantX  int
		wantY  int
	}{
		{"below title bar", tree.Rect{X: 100, Y: 200}, 100, 275},
		{"clamped right", tree.Rect{X: 1900, Y: 0}, 1920 - panelMargin - 300, 75},
		{"clamped bottom", tree.Rect{X: 100, Y: 1050}, 100, 1080 - panelMargin - 200},
		{"clamped to margin", tree.Rect{X: 0, Y: -100}, panelMargin, panelMargin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := placePanel(tt.anchor, DefaultOffsetY, bounds, 300, 200)
			if x != tt.wantX || y != tt.wantY {
				t.Fatalf("placePanel = (%d,%d), want (%d,%d)", x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestFitToBoundsShrinksOversizedPanel(t *testing.T) {
	bounds := x11.Monitor{X: 100, Y: 200, Width: 140, Height: 90}
	w, h := fitToBounds(bounds, 260, 160)
	if w != 140-2*panelMargin || h != 90-2*panelMargin {
		t.Fatalf("fitToBounds = (%d,%d)", w, h)
	}
	x, y := clampOrigin(0, 0, bounds, w, h)
	if x != bounds.X+panelMargin || y != bounds.Y+panelMargin {
		t.Fatalf("clampOrigin = (%d,%d)", x, y)
	}
}

func TestPanelGeometry(t *testing.T) {
	long := make([]Line, 10)
	for i := range long {
		long[i] = Line{Text: strings.Repeat("x", 40)}
	}
	tests := []struct {
		name                  string
		lines                 []Line
		bounds                x11.Monitor
		anchor                tree.Rect
		wantX, wantY          int
		wantWidth, wantHeight int
	}{
		{
			name:       "fits",
			lines:      []Line{{Text: "abc"}},
			bounds:     x11.Monitor{Width: 1920, Height: 1080},
			anchor:     tree.Rect{X: 100, Y: 200},
			wantX:      100,
			wantY:      275,
			wantWidth:  panelMinWidth,
			wantHeight: panelLineHeight + 2*panelPaddingY,
		},
		{
			name:       "shrunk to small monitor",
			lines:      long,
			bounds:     x11.Monitor{Width: 200, Height: 100},
			anchor:     tree.Rect{X: 50, Y: 10},
			wantX:      panelMargin,
			wantY:      panelMargin,
			wantWidth:  200 - 2*panelMargin,
			wantHeight: 100 - 2*panelMargin,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, w, h := panelGeometry(tt.lines, tt.anchor, DefaultOffsetY, tt.bounds)
			if x != tt.wantX || y != tt.wantY || w != tt.wantWidth || h != tt.wantHeight {
				t.Fatalf("panelGeometry = (%d,%d %dx%d), want (%d,%d %dx%d)",
					x, y, w, h, tt.wantX, tt.wantY, tt.wantWidth, tt.wantHeight)
			}
		})
	}
}

func TestPanelDimensions(t *testing.T) {
	w, h := panelDimensions([]Line{{Text: "a"}, {Text: strings.Repeat("b", 40)}})
	if w != 40*panelCharWidth+2*panelPaddingX {
		t.Fatalf("width = %d", w)
	}
	if h != 2*panelLineHeight+2*panelPaddingY {
		t.Fatalf("height = %d", h)
	}
	if w, _ := panelDimensions([]Line{{Text: "a"}}); w != panelMinWidth {
		t.Fatalf("short panel width = %d, want %d", w, panelMinWidth)
	}
}

type call struct {
	op     string
	lines  int
	anchor tree.Rect
}

type fakeRenderer struct {
	mu     sync.Mutex
	calls  []call
	closed bool
}

func (r *fakeRenderer) Show(lines []Line, anchor tree.Rect) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call{op: "show", lines: len(lines), anchor: anchor})
	return nil
}

func (r *fakeRenderer) Hide() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call{op: "hide"})
}

func (r *fakeRenderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}

func (r *fakeRenderer) snapshot() []call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]call(nil), r.calls...)
}

type fakePrompter struct {
	entry   string
	err     error
	message string
}

func (f *fakePrompter) Prompt(_ context.Context, _ string, message string) (string, error) {
	f.message = message
	return f.entry, f.err
}
func (f *fakePrompter) Name() string                       { return "fake" }
func (f *fakePrompter) Capabilities() palette.Capabilities { return palette.Capabilities{} }

func startPresenter(t *testing.T, r Renderer, prompter palette.Backend) *Presenter {
	t.Helper()
	p := New(r, prompter, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	go p.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-p.done
	})
	return p
}

func TestPresenterResetsBeforeDrawing(t *testing.T) {
	r := &fakeRenderer{}
	prompter := &fakePrompter{entry: "ab"}
	p := startPresenter(t, r, prompter)

	p.ShowTags(snapshot())
	// Prompt round-trips through the goroutine, so earlier messages are done.
	if _, err := p.Prompt(context.Background(), "tags"); err != nil {
		t.Fatalf("Prompt: %v", err)
	}

	calls := r.snapshot()
	if len(calls) < 2 || calls[0].op != "hide" || calls[1].op != "show" {
		t.Fatalf("calls = %+v, want hide then show", calls)
	}
	if calls[1].lines != 5 || calls[1].anchor.X != 100 || calls[1].anchor.Y != 200 {
		t.Fatalf("show call = %+v", calls[1])
	}
	if prompter.message != "1 2" {
		t.Fatalf("prompt message = %q, want tag names", prompter.message)
	}
}

func TestPresenterPromptCancelled(t *testing.T) {
	p := startPresenter(t, &fakeRenderer{}, &fakePrompter{err: palette.ErrCancelled})
	if _, err := p.Prompt(context.Background(), "tags"); !errors.Is(err, engine.ErrPromptCancelled) {
		t.Fatalf("err = %v, want ErrPromptCancelled", err)
	}
}

func TestPresenterPromptEmptyEntry(t *testing.T) {
	p := startPresenter(t, &fakeRenderer{}, &fakePrompter{entry: ""})
	entry, err := p.Prompt(context.Background(), "tags")
	if err != nil || entry != "" {
		t.Fatalf("Prompt = %q, %v; want empty entry", entry, err)
	}
}

func TestPresenterWithoutPrompter(t *testing.T) {
	p := startPresenter(t, nil, nil)
	if _, err := p.Prompt(context.Background(), "tags"); err == nil {
		t.Fatal("expected error without prompt backend")
	}
}

func TestPresenterClosesRenderer(t *testing.T) {
	r := &fakeRenderer{}
	p := New(r, nil, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	go p.Run(ctx)
	cancel()

	select {
	case <-p.done:
	case <-time.After(2 * time.Second):
		t.Fatal("presenter did not stop")
	}
	if !r.closed {
		t.Fatal("renderer not closed")
	}

	// Calls after shutdown return instead of blocking.
	p.Reset()
	if _, err := p.Prompt(context.Background(), "x"); err == nil {
		t.Fatal("expected error from stopped presenter")
	}
}
