package scrollview

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/scrollmem/internal/reveal"
)

func rows(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = "row"
	}
	return strings.Join(lines, "\n")
}

func TestView_MeasureElement(t *testing.T) {
	v := New(reveal.ModeElement, 20, 10)
	v.SetContent(rows(50))
	v.SetYOffset(20)

	require.Equal(t, reveal.ElementScroll(20, 50, 10), v.Measure())
	require.Equal(t, 50, reveal.ComputeVisibleWords(v.Measure(), 100))
}

func TestView_MeasurePage(t *testing.T) {
	v := New(reveal.ModePage, 20, 10)
	v.SetContent(rows(30))
	v.ScrollDown(5)

	require.Equal(t, reveal.PageScroll(5, 30, 10), v.Measure())
}

func TestView_OffsetClamped(t *testing.T) {
	v := New(reveal.ModeElement, 20, 10)
	v.SetContent(rows(30))
	v.SetYOffset(100)
	require.Equal(t, 20, v.YOffset())

	v.SetContent(rows(15))
	require.Equal(t, 5, v.YOffset(), "shrinking content pulls the offset back")
}

func TestView_NotifiesOnScrollAndResize(t *testing.T) {
	v := New(reveal.ModeElement, 20, 10)
	v.SetContent(rows(40))

	calls := 0
	release := v.Subscribe(func() { calls++ })

	v.ScrollDown(3)
	require.Equal(t, 1, calls)

	v.ScrollUp(0)
	require.Equal(t, 1, calls, "no movement, no notification")

	v.SetSize(20, 12)
	require.Equal(t, 2, calls)

	v.SetSize(20, 12)
	require.Equal(t, 2, calls)

	v.SetContent(rows(41))
	require.Equal(t, 3, calls, "row count change")

	v.SetContent(strings.ReplaceAll(rows(41), "row", "wor"))
	require.Equal(t, 3, calls, "same row count")

	release()
	release()
	v.ScrollDown(1)
	require.Equal(t, 3, calls)
	require.Zero(t, v.Subscribers())
}

func TestView_ScrollToOrigin(t *testing.T) {
	v := New(reveal.ModeElement, 20, 5)
	v.SetContent(rows(20))
	v.SetYOffset(8)

	notified := false
	v.Subscribe(func() { notified = true })
	v.ScrollToOrigin()

	require.Zero(t, v.YOffset())
	require.True(t, notified)
}

func TestView_UpdateForwardsKeys(t *testing.T) {
	v := New(reveal.ModeElement, 20, 5)
	v.SetContent(rows(20))

	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, 1, v.YOffset())

	v.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	require.Greater(t, v.YOffset(), 1)
}

func TestView_ViewShowsWindow(t *testing.T) {
	v := New(reveal.ModeElement, 5, 2)
	v.SetContent("a\nb\nc\nd")
	v.SetYOffset(1)
	require.Equal(t, []string{"b", "c"}, strings.Fields(v.View()))
}
