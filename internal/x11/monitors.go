package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
)

// Monitor is the geometry of one output in root window coordinates.
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether the point lies on the monitor.
func (m Monitor) Contains(x, y int) bool {
	return x >= m.X && x < m.X+m.Width && y >= m.Y && y < m.Y+m.Height
}

// GetMonitors lists the enabled RandR outputs. Disabled CRTCs are skipped;
// an output whose info cannot be read is named after its CRTC index.
func (c *Connection) GetMonitors() ([]Monitor, error) {
	xc := c.XUtil.Conn()
	if err := randr.Init(xc); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}
	res, err := randr.GetScreenResources(xc, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	monitors := make([]Monitor, 0, len(res.Crtcs))
	for i, crtc := range res.Crtcs {
		info, err := randr.GetCrtcInfo(xc, crtc, res.ConfigTimestamp).Reply()
		if err != nil || info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}
		m := Monitor{
			ID:     i,
			Name:   fmt.Sprintf("crtc%d", i),
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		}
		if out, err := randr.GetOutputInfo(xc, info.Outputs[0], res.ConfigTimestamp).Reply(); err == nil {
			m.Name = string(out.Name)
		}
		monitors = append(monitors, m)
	}
	return monitors, nil
}

// ScreenBounds returns the whole root window as a single monitor.
func (c *Connection) ScreenBounds() Monitor {
	screen := c.XUtil.Screen()
	if screen == nil {
		return Monitor{Name: "screen", Width: 800, Height: 600}
	}
	return Monitor{
		Name:   "screen",
		Width:  int(screen.WidthInPixels),
		Height: int(screen.HeightInPixels),
	}
}

// MonitorAt returns the monitor under the point, or the bounds of the whole
// screen when RandR reports none containing it.
func (c *Connection) MonitorAt(x, y int) Monitor {
	monitors, err := c.GetMonitors()
	if err == nil {
		if m, ok := FindMonitor(monitors, x, y); ok {
			return m
		}
	}
	return c.ScreenBounds()
}

// FindMonitor returns the first monitor containing the point.
func FindMonitor(monitors []Monitor, x, y int) (Monitor, bool) {
	for _, m := range monitors {
		if m.Contains(x, y) {
			return m, true
		}
	}
	return Monitor{}, false
}
