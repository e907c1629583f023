// Package scrollview wraps a bubbles viewport as a measurable scroll
// container that a reveal.Controller can attach to.
package scrollview

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/zjrosen/scrollmem/internal/reveal"
)

// View is a scroll container. In element mode it is the preview pane; in
// page mode it windows the whole screen. Scroll and resize changes notify
// subscribers.
type View struct {
	vp        viewport.Model
	mode      reveal.Mode
	listeners map[int]func()
	nextID    int
}

var _ reveal.Source = (*View)(nil)

// New creates a view of the given size measuring as mode.
func New(mode reveal.Mode, width, height int) *View {
	vp := viewport.New(max(width, 0), max(height, 0))
	vp.MouseWheelEnabled = true
	return &View{
		vp:        vp,
		mode:      mode,
		listeners: make(map[int]func()),
	}
}

// Mode returns how Measure reports this view.
func (v *View) Mode() reveal.Mode { return v.mode }

// Width returns the visible width in cells.
func (v *View) Width() int { return v.vp.Width }

// Height returns the visible height in rows.
func (v *View) Height() int { return v.vp.Height }

// YOffset returns the index of the top visible row.
func (v *View) YOffset() int { return v.vp.YOffset }

// TotalLines returns the content height in rows.
func (v *View) TotalLines() int { return v.vp.TotalLineCount() }

// SetSize resizes the view. A resize changes the measurement, so
// subscribers are notified.
func (v *View) SetSize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if width == v.vp.Width && height == v.vp.Height {
		return
	}
	v.vp.Width = width
	v.vp.Height = height
	v.clampOffset()
	v.notify()
}

// SetContent replaces the content, keeping the scroll position where it
// still fits. Subscribers are notified when the row count changes.
func (v *View) SetContent(content string) {
	before := v.vp.TotalLineCount()
	v.vp.SetContent(content)
	v.clampOffset()
	if v.vp.TotalLineCount() != before {
		v.notify()
	}
}

// SetYOffset scrolls to row n, clamped to the scrollable range.
func (v *View) SetYOffset(n int) {
	v.scrolled(func() { v.vp.SetYOffset(n) })
}

// ScrollDown moves n rows toward the end.
func (v *View) ScrollDown(n int) {
	v.scrolled(func() { v.vp.ScrollDown(n) })
}

// ScrollUp moves n rows toward the start.
func (v *View) ScrollUp(n int) {
	v.scrolled(func() { v.vp.ScrollUp(n) })
}

// ScrollToOrigin jumps to the top.
func (v *View) ScrollToOrigin() {
	v.scrolled(func() { v.vp.GotoTop() })
}

// Update forwards keys and mouse wheel events to the viewport.
func (v *View) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	v.scrolled(func() { v.vp, cmd = v.vp.Update(msg) })
	return cmd
}

// View renders the visible window.
func (v *View) View() string {
	return v.vp.View()
}

// Measure reports the scroll position in rows.
func (v *View) Measure() reveal.Measurement {
	offset := float64(v.vp.YOffset)
	total := float64(v.vp.TotalLineCount())
	view := float64(v.vp.Height)
	if v.mode == reveal.ModePage {
		return reveal.PageScroll(offset, total, view)
	}
	return reveal.ElementScroll(offset, total, view)
}

// Subscribe registers fn to run after every scroll or resize. The returned
// release func removes it and may be called more than once.
func (v *View) Subscribe(fn func()) func() {
	id := v.nextID
	v.nextID++
	v.listeners[id] = fn
	return func() { delete(v.listeners, id) }
}

// Subscribers returns the number of live subscriptions.
func (v *View) Subscribers() int { return len(v.listeners) }

func (v *View) scrolled(fn func()) {
	before := v.vp.YOffset
	fn()
	if v.vp.YOffset != before {
		v.notify()
	}
}

func (v *View) clampOffset() {
	maxOffset := max(v.vp.TotalLineCount()-v.vp.Height, 0)
	if v.vp.YOffset > maxOffset {
		v.vp.SetYOffset(maxOffset)
	}
}

func (v *View) notify() {
	for _, fn := range v.listeners {
		fn()
	}
}
