package overlay

import (
	"errors"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/i3tags/internal/tree"
	"github.com/1broseidon/i3tags/internal/x11"
)

var errPanelUnavailable = errors.New("overlay panel unavailable")

var fallbackFonts = []string{"fixed", "9x15", "8x13", "6x13"}

// PanelOptions configures the X11 panel.
type PanelOptions struct {
	Font    string
	OffsetY int
	Colors  Colors
}

// Panel is a single override-redirect window that draws text rows with a
// core X font.
type Panel struct {
	conn *x11.Connection
	opts PanelOptions

	window   xproto.Window
	gc       xproto.Gcontext
	font     xproto.Font
	created  bool
	mapped   bool
	disabled bool
}

// NewPanel creates a panel on conn. X resources are allocated on first Show.
func NewPanel(conn *x11.Connection, opts PanelOptions) *Panel {
	if opts.Colors == (Colors{}) {
		opts.Colors = DefaultColors()
	}
	return &Panel{conn: conn, opts: opts}
}

// Show draws lines near anchor, replacing whatever the panel showed before.
func (p *Panel) Show(lines []Line, anchor tree.Rect) error {
	if len(lines) == 0 {
		p.Hide()
		return nil
	}
	if !p.ensureResources() {
		return errPanelUnavailable
	}

	conn := p.conn.XUtil.Conn()
	bounds := p.conn.MonitorAt(anchor.X, anchor.Y)
	x, y, width, height := panelGeometry(lines, anchor, p.opts.OffsetY, bounds)

	xproto.ConfigureWindow(
		conn,
		p.window,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|xproto.ConfigWindowStackMode,
		[]uint32{
			uint32(x),
			uint32(y),
			uint32(width),
			uint32(height),
			xproto.StackModeAbove,
		},
	)
	xproto.ChangeWindowAttributes(conn, p.window, xproto.CwBackPixel, []uint32{p.opts.Colors.Background})
	xproto.ClearArea(conn, false, p.window, 0, 0, 0, 0)

	baseline := panelPaddingY + panelLineHeight - 4
	for i, line := range lines {
		text := drawable(line.Text)
		if text == "" {
			continue
		}
		xproto.ChangeGC(
			conn,
			p.gc,
			xproto.GcForeground|xproto.GcBackground,
			[]uint32{line.Color, p.opts.Colors.Background},
		)
		xproto.ImageText8(
			conn,
			byte(len(text)),
			xproto.Drawable(p.window),
			p.gc,
			int16(panelPaddingX),
			int16(baseline+i*panelLineHeight),
			text,
		)
	}

	xproto.MapWindow(conn, p.window)
	p.mapped = true
	return nil
}

// Hide unmaps the panel without destroying it.
func (p *Panel) Hide() {
	if !p.mapped {
		return
	}
	xproto.UnmapWindow(p.conn.XUtil.Conn(), p.window)
	p.mapped = false
}

// Close destroys the panel's X resources.
func (p *Panel) Close() {
	conn := p.conn.XUtil.Conn()
	if p.gc != 0 {
		xproto.FreeGC(conn, p.gc)
	}
	if p.font != 0 {
		xproto.CloseFont(conn, p.font)
	}
	if p.window != 0 {
		xproto.DestroyWindow(conn, p.window)
	}
	p.window = 0
	p.gc = 0
	p.font = 0
	p.created = false
	p.mapped = false
}

func (p *Panel) ensureResources() bool {
	if p.disabled {
		return false
	}
	if p.created {
		return true
	}
	if p.conn == nil {
		p.disabled = true
		return false
	}

	conn := p.conn.XUtil.Conn()
	screen := p.conn.XUtil.Screen()

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		p.disable()
		return false
	}
	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		wid,
		p.conn.Root,
		0, 0,
		1, 1,
		0,
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwBackPixel|xproto.CwOverrideRedirect,
		// Values follow mask bit order: back_pixel, override_redirect.
		[]uint32{p.opts.Colors.Background, 1},
	).Check()
	if err != nil {
		p.disable()
		return false
	}
	p.window = wid

	font, err := xproto.NewFontId(conn)
	if err != nil {
		p.disable()
		return false
	}
	fonts := fallbackFonts
	if p.opts.Font != "" {
		fonts = append([]string{p.opts.Font}, fallbackFonts...)
	}
	opened := false
	for _, name := range fonts {
		if xproto.OpenFontChecked(conn, font, uint16(len(name)), name).Check() == nil {
			opened = true
			break
		}
	}
	if !opened {
		p.disable()
		return false
	}
	p.font = font

	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		p.disable()
		return false
	}
	err = xproto.CreateGCChecked(
		conn,
		gc,
		xproto.Drawable(p.window),
		xproto.GcForeground|xproto.GcBackground|xproto.GcFont|xproto.GcGraphicsExposures,
		[]uint32{
			p.opts.Colors.Text,
			p.opts.Colors.Background,
			uint32(p.font),
			0, // graphics_exposures=false
		},
	).Check()
	if err != nil {
		p.disable()
		return false
	}
	p.gc = gc

	p.created = true
	return true
}

func (p *Panel) disable() {
	p.Close()
	p.disabled = true
}
