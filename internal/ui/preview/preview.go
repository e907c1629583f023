// Package preview renders reveal spans: revealed words as text, hidden words
// as mask glyphs of the same display width.
package preview

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/zjrosen/scrollmem/internal/reveal"
	"github.com/zjrosen/scrollmem/internal/ui/styles"
)

const (
	defaultMaskChar = "█"
	tabWidth        = 4
)

// Renderer turns spans into wrapped, styled preview text.
type Renderer struct {
	Styles      styles.Styles
	MaskChar    string
	UnitsPerRow int
}

// New returns a renderer with the given mask glyph and spacer scale. Empty
// or zero values fall back to defaults.
func New(s styles.Styles, maskChar string, unitsPerRow int) Renderer {
	if maskChar == "" {
		maskChar = defaultMaskChar
	}
	if unitsPerRow <= 0 {
		unitsPerRow = reveal.DefaultUnitsPerRow
	}
	return Renderer{Styles: s, MaskChar: maskChar, UnitsPerRow: unitsPerRow}
}

// Mask covers word with maskChar repeated to the word's display width, so
// masking never changes line wrapping.
func Mask(word, maskChar string) string {
	w := runewidth.StringWidth(word)
	if w <= 0 {
		return ""
	}
	return strings.Repeat(maskChar, w)
}

// Text renders spans wrapped to width. Whitespace is kept as typed except
// tabs, which expand to spaces, and carriage returns, which are dropped.
func (r Renderer) Text(spans []reveal.Span, width int) string {
	var b strings.Builder
	for _, s := range spans {
		switch {
		case !s.IsWord:
			b.WriteString(normalizeSpace(s.Text))
		case s.Visible:
			b.WriteString(r.Styles.Revealed.Render(s.Text))
		default:
			b.WriteString(r.Styles.Masked.Render(Mask(s.Text, r.MaskChar)))
		}
	}
	if width <= 0 {
		return b.String()
	}
	// Word wrap first, then hard wrap words longer than the line.
	return wrap.String(wordwrap.String(b.String(), width), width)
}

// SpacerRows is the number of blank rows that stand for length.
func (r Renderer) SpacerRows(length int) int {
	return reveal.Rows(length, r.UnitsPerRow)
}

// Document renders the text followed by the spacer rows that give the
// scroll container its length.
func (r Renderer) Document(spans []reveal.Span, width, length int) string {
	text := r.Text(spans, width)
	n := r.SpacerRows(length)
	if n == 0 {
		return text
	}
	return text + strings.Repeat("\n", n)
}

func normalizeSpace(s string) string {
	if !strings.ContainsAny(s, "\t\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
