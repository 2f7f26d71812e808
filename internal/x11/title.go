package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// SetWindowTitle writes both _NET_WM_NAME and WM_NAME so the window manager
// and legacy clients agree on the new title.
func (c *Connection) SetWindowTitle(window uint32, title string) error {
	win := xproto.Window(window)
	if err := ewmh.WmNameSet(c.XUtil, win, title); err != nil {
		return fmt.Errorf("set _NET_WM_NAME: %w", err)
	}
	if err := icccm.WmNameSet(c.XUtil, win, title); err != nil {
		return fmt.Errorf("set WM_NAME: %w", err)
	}
	return nil
}

// WindowTitle returns the EWMH title of window, falling back to WM_NAME.
func (c *Connection) WindowTitle(window uint32) (string, error) {
	win := xproto.Window(window)
	if name, err := ewmh.WmNameGet(c.XUtil, win); err == nil && name != "" {
		return name, nil
	}
	return icccm.WmNameGet(c.XUtil, win)
}
