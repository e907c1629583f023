package scrollview

import (
	"strings"

	"github.com/zjrosen/scrollmem/internal/ui/styles"
)

// Scrollbar characters
const (
	scrollbarThumbChar = "█" // Full block
	scrollbarTrackChar = "░" // Light shade
)

// ScrollbarConfig configures scrollbar rendering.
type ScrollbarConfig struct {
	TotalLines     int // Total lines in content
	ViewportHeight int // Visible lines in viewport
	ScrollOffset   int // Current scroll position (top line)
}

// calculateThumbBounds returns the start row and height of the scroll thumb.
// Formula: thumbHeight = max(1, viewportHeight * viewportHeight / totalLines)
// Position: start = scrollableTrack * scrollOffset / maxOffset
func calculateThumbBounds(cfg ScrollbarConfig) (start, height int) {
	if cfg.TotalLines <= 0 || cfg.ViewportHeight <= 0 {
		return 0, 0
	}
	if cfg.TotalLines <= cfg.ViewportHeight {
		return 0, cfg.ViewportHeight
	}

	height = max(1, cfg.ViewportHeight*cfg.ViewportHeight/cfg.TotalLines)

	maxOffset := cfg.TotalLines - cfg.ViewportHeight
	scrollableTrack := cfg.ViewportHeight - height
	if scrollableTrack <= 0 {
		return 0, height
	}

	start = scrollableTrack * max(cfg.ScrollOffset, 0) / maxOffset
	start = max(0, min(start, cfg.ViewportHeight-height))
	return start, height
}

// RenderScrollbar renders a one-column scrollbar, ViewportHeight rows tall.
// When the content fits, the column is blank.
func RenderScrollbar(cfg ScrollbarConfig, s styles.Styles) string {
	if cfg.ViewportHeight <= 0 || cfg.TotalLines <= 0 {
		return ""
	}

	lines := make([]string, cfg.ViewportHeight)
	if cfg.TotalLines <= cfg.ViewportHeight {
		for i := range lines {
			lines[i] = " "
		}
		return strings.Join(lines, "\n")
	}

	thumbStart, thumbHeight := calculateThumbBounds(cfg)
	for row := range lines {
		if row >= thumbStart && row < thumbStart+thumbHeight {
			lines[row] = s.ScrollbarThumb.Render(scrollbarThumbChar)
		} else {
			lines[row] = s.ScrollbarTrack.Render(scrollbarTrackChar)
		}
	}
	return strings.Join(lines, "\n")
}

// Scrollbar renders the scrollbar for v's current position.
func (v *View) Scrollbar(s styles.Styles) string {
	return RenderScrollbar(ScrollbarConfig{
		TotalLines:     v.TotalLines(),
		ViewportHeight: v.Height(),
		ScrollOffset:   v.YOffset(),
	}, s)
}
