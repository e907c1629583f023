// Package reveal maps scroll progress onto a count of revealed words and owns
// the per-session reveal state.
package reveal

import "math"

// Mode selects which scroll container drives the reveal.
type Mode string

const (
	// ModeElement measures an inner scrollable pane.
	ModeElement Mode = "element"
	// ModePage measures the whole screen as one scrolled document.
	ModePage Mode = "page"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeElement || m == ModePage
}

// Measurement is a scroll snapshot: how far the container is scrolled, how
// tall its content is, and how much of it the viewport shows.
type Measurement struct {
	Offset float64
	Total  float64
	View   float64
}

// ElementScroll builds a Measurement from a scroll container's
// scrollTop, scrollHeight and clientHeight.
func ElementScroll(scrollTop, scrollHeight, clientHeight float64) Measurement {
	return Measurement{Offset: scrollTop, Total: scrollHeight, View: clientHeight}
}

// PageScroll builds a Measurement from the page's scroll offset, document
// height and viewport height.
func PageScroll(scrollY, documentHeight, viewportHeight float64) Measurement {
	return Measurement{Offset: scrollY, Total: documentHeight, View: viewportHeight}
}

// ceilEpsilon absorbs float error so that e.g. 11/20*100 rounds to 55, not 56.
const ceilEpsilon = 1e-9

// ComputeVisibleWords returns how many words are revealed for m.
//
// Content that fits without scrolling is fully revealed. Otherwise the
// fraction scrolled is floored at the fraction of content the viewport
// already shows, so the preview never starts blank.
func ComputeVisibleWords(m Measurement, totalWords int) int {
	if totalWords <= 0 {
		return 0
	}
	if !finite(m.Total) || !finite(m.View) || m.Total <= 0 || m.View >= m.Total {
		return totalWords
	}

	scrollable := m.Total - m.View
	if scrollable <= 0 {
		return totalWords
	}

	raw := clamp01(m.Offset / scrollable)
	baseline := clamp01(m.View / m.Total)
	progress := math.Max(raw, baseline)

	visible := int(math.Ceil(progress*float64(totalWords) - ceilEpsilon))
	return clampInt(visible, 0, totalWords)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// clamp01 maps NaN to 0 and saturates everything else into [0, 1].
func clamp01(f float64) float64 {
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
