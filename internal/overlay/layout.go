package overlay

import (
	"github.com/1broseidon/i3tags/internal/tree"
	"github.com/1broseidon/i3tags/internal/x11"
)

const (
	panelMargin     = 12
	panelPaddingX   = 10
	panelPaddingY   = 8
	panelLineHeight = 16
	panelCharWidth  = 7
	panelMinWidth   = 160

	// DefaultOffsetY places the panel below the focused window's title bar.
	DefaultOffsetY = 75
)

func panelDimensions(lines []Line) (width, height int) {
	maxChars := 0
	for _, line := range lines {
		if n := len(drawable(line.Text)); n > maxChars {
			maxChars = n
		}
	}
	width = maxChars*panelCharWidth + 2*panelPaddingX
	if width < panelMinWidth {
		width = panelMinWidth
	}
	height = len(lines)*panelLineHeight + 2*panelPaddingY
	return width, height
}

// panelGeometry sizes the panel for lines and places it near anchor inside
// bounds.
func panelGeometry(lines []Line, anchor tree.Rect, offsetY int, bounds x11.Monitor) (x, y, width, height int) {
	width, height = panelDimensions(lines)
	width, height = fitToBounds(bounds, width, height)
	x, y = placePanel(anchor, offsetY, bounds, width, height)
	return x, y, width, height
}

// placePanel anchors the panel at the focused window's left edge, offsetY
// below its top, and keeps it inside bounds.
func placePanel(anchor tree.Rect, offsetY int, bounds x11.Monitor, width, height int) (x, y int) {
	return clampOrigin(anchor.X, anchor.Y+offsetY, bounds, width, height)
}

// fitToBounds shrinks the panel so it fits inside bounds minus the margin.
func fitToBounds(bounds x11.Monitor, width, height int) (int, int) {
	maxWidth := bounds.Width - 2*panelMargin
	if maxWidth < 1 {
		maxWidth = bounds.Width
	}
	maxHeight := bounds.Height - 2*panelMargin
	if maxHeight < 1 {
		maxHeight = bounds.Height
	}
	width = max(min(width, maxWidth), 1)
	height = max(min(height, maxHeight), 1)
	return width, height
}

func clampOrigin(x, y int, bounds x11.Monitor, width, height int) (int, int) {
	left := bounds.X + panelMargin
	right := bounds.X + bounds.Width - panelMargin - width
	if right < left {
		left = bounds.X
		right = bounds.X + bounds.Width - width
	}
	if right < left {
		right = left
	}

	top := bounds.Y + panelMargin
	bottom := bounds.Y + bounds.Height - panelMargin - height
	if bottom < top {
		top = bounds.Y
		bottom = bounds.Y + bounds.Height - height
	}
	if bottom < top {
		bottom = top
	}

	return min(max(x, left), right), min(max(y, top), bottom)
}
