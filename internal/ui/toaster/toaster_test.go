package toaster

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/scrollmem/internal/ui/styles"
)

func newTestToaster() Model {
	r := lipgloss.NewRenderer(nil, termenv.WithProfile(termenv.Ascii))
	return New(styles.New(r))
}

func TestNew_Hidden(t *testing.T) {
	m := newTestToaster()
	require.False(t, m.Visible())
	require.Empty(t, m.View())
	require.Equal(t, "bg", m.Overlay("bg", 2, 1, 0))
}

func TestShow(t *testing.T) {
	m, cmd := newTestToaster().Show("Reloaded poem.txt", KindInfo, time.Millisecond)
	require.NotNil(t, cmd)
	require.True(t, m.Visible())
	require.Contains(t, m.View(), "Reloaded poem.txt")
	require.Equal(t, DismissMsg{ID: 1}, cmd())
}

func TestView_Kinds(t *testing.T) {
	m, _ := newTestToaster().Show("Length reset", KindSuccess, time.Second)
	require.Contains(t, m.View(), "✓ Length reset")

	m, _ = m.Show("watch failed", KindError, time.Second)
	require.Contains(t, m.View(), "✗ watch failed")
	require.NotContains(t, m.View(), "Length reset")
}

func TestUpdate_IgnoresStaleDismiss(t *testing.T) {
	m, _ := newTestToaster().Show("first", KindInfo, time.Second)
	m, _ = m.Show("second", KindInfo, time.Second)

	m = m.Update(DismissMsg{ID: 1})
	require.Equal(t, "second", m.Message())

	m = m.Update(DismissMsg{ID: 2})
	require.False(t, m.Visible())
}

func TestOverlay_Bottom(t *testing.T) {
	bg := strings.Repeat(strings.Repeat("A", 20)+"\n", 5) + strings.Repeat("A", 20)
	m, _ := newTestToaster().Show("hi", KindInfo, time.Second)

	lines := strings.Split(m.Overlay(bg, 20, 6, 1), "\n")
	require.Len(t, lines, 6)
	require.Equal(t, strings.Repeat("A", 20), lines[0])
	require.Equal(t, strings.Repeat("A", 20), lines[5], "padY keeps the last row clear")
	require.Contains(t, lines[3], "hi")
	for _, line := range lines {
		require.Equal(t, 20, lipgloss.Width(line))
	}
}

func TestOverlay_PadsShortBackground(t *testing.T) {
	m, _ := newTestToaster().Show("hi", KindInfo, time.Second)

	lines := strings.Split(m.Overlay("", 10, 4, 0), "\n")
	require.Len(t, lines, 4)
	require.Contains(t, lines[2], "hi")
}
