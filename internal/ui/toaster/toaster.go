// Package toaster shows short notifications over the bottom of the screen.
package toaster

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/scrollmem/internal/ui/styles"
)

// Kind determines the border color and glyph of the toast.
type Kind int

const (
	KindInfo Kind = iota
	KindSuccess
	KindError
)

// DefaultDuration is how long a toast stays up.
const DefaultDuration = 3 * time.Second

// DismissMsg hides the toast it was scheduled for. A newer toast ignores
// the dismissal of an older one.
type DismissMsg struct {
	ID int
}

// Model holds the toaster state.
type Model struct {
	renderer *lipgloss.Renderer
	message  string
	kind     Kind
	id       int
}

// New creates a hidden toaster drawing with s's renderer.
func New(s styles.Styles) Model {
	return Model{renderer: s.Renderer()}
}

// Show displays message and returns the command that dismisses it after d.
func (m Model) Show(message string, kind Kind, d time.Duration) (Model, tea.Cmd) {
	m.id++
	m.message = message
	m.kind = kind
	id := m.id
	return m, tea.Tick(d, func(time.Time) tea.Msg { return DismissMsg{ID: id} })
}

// Update hides the toast when its dismissal arrives.
func (m Model) Update(msg DismissMsg) Model {
	if msg.ID == m.id {
		m.message = ""
	}
	return m
}

// Visible reports whether a toast is showing.
func (m Model) Visible() bool {
	return m.message != ""
}

// Message returns the text being shown.
func (m Model) Message() string {
	return m.message
}

// View renders the toast box, or "" when hidden.
func (m Model) View() string {
	if !m.Visible() {
		return ""
	}
	r := m.renderer
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	style := r.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder())

	switch m.kind {
	case KindSuccess:
		return style.BorderForeground(styles.StatusSuccessColor).Render("✓ " + m.message)
	case KindError:
		return style.BorderForeground(styles.StatusErrorColor).Render("✗ " + m.message)
	default:
		return style.BorderForeground(styles.BorderFocusColor).Render(m.message)
	}
}

// Overlay draws the toast centered near the bottom of bg, padY rows above
// the last line.
func (m Model) Overlay(bg string, width, height, padY int) string {
	fg := m.View()
	if fg == "" {
		return bg
	}

	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")
	for len(bgLines) < height {
		bgLines = append(bgLines, strings.Repeat(" ", width))
	}

	x := max((width-lipgloss.Width(fg))/2, 0)
	y := max(height-len(fgLines)-padY, 0)

	for i, line := range fgLines {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		bgLine := bgLines[row]

		left := ansi.Truncate(bgLine, x, "")
		if w := ansi.StringWidth(left); w < x {
			left += strings.Repeat(" ", x-w)
		}
		var right string
		if end := x + ansi.StringWidth(line); end < ansi.StringWidth(bgLine) {
			right = ansi.TruncateLeft(bgLine, end, "")
		}
		bgLines[row] = left + line + right
	}
	return strings.Join(bgLines, "\n")
}
