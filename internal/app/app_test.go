package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/scrollmem/internal/config"
	"github.com/zjrosen/scrollmem/internal/pubsub"
	"github.com/zjrosen/scrollmem/internal/reveal"
	"github.com/zjrosen/scrollmem/internal/ui/lengthcontrol"
	"github.com/zjrosen/scrollmem/internal/watcher"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// createTestModel builds a sized model with no watcher or log listener.
func createTestModel(t *testing.T, text string) Model {
	t.Helper()
	cfg := config.Defaults()
	cfg.Watch = false
	m := New(Options{Config: cfg, Text: text, SessionID: "test"})
	t.Cleanup(func() { _ = m.Close() })
	return send(m, tea.WindowSizeMsg{Width: 100, Height: 40})
}

func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func frame(m Model) Model {
	return send(m, frameMsg{})
}

func typeText(m Model, s string) Model {
	return send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func words(n int) string {
	w := make([]string, n)
	for i := range w {
		w[i] = "word"
	}
	return strings.Join(w, " ")
}

func TestApp_DefaultText(t *testing.T) {
	m := createTestModel(t, "")
	require.Equal(t, DefaultText, m.Controller().Text())
	require.Equal(t, DefaultText, m.editor.Value())
}

func TestApp_WindowSizeMsg(t *testing.T) {
	m := createTestModel(t, "Hello world")
	m = send(m, tea.WindowSizeMsg{Width: 120, Height: 50})

	require.Equal(t, 120, m.width)
	require.Equal(t, 50, m.height)
	require.Equal(t, 117, m.element.Width(), "pane borders and scrollbar take three columns")
}

func TestApp_ShortTextFullyVisible(t *testing.T) {
	m := frame(createTestModel(t, "Hello world"))

	visible, total := m.Controller().Counts()
	require.Equal(t, 2, total)
	require.Equal(t, 2, visible)
	require.Contains(t, m.View(), "Visible words: 2 / 2")
}

func TestApp_ScrollingRevealsWords(t *testing.T) {
	m := frame(createTestModel(t, words(100)))

	visible, total := m.Controller().Counts()
	require.Equal(t, 100, total)
	require.Greater(t, visible, 0)
	require.Less(t, visible, total, "baseline reveals only the first screen")

	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, focusPreview, m.focus)

	m = frame(send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")}))
	visible, _ = m.Controller().Counts()
	require.Equal(t, 100, visible)

	m = frame(send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")}))
	back, _ := m.Controller().Counts()
	require.Less(t, back, 100)
}

func TestApp_EditingFeedsController(t *testing.T) {
	m := createTestModel(t, "Hello world")
	require.Equal(t, focusEditor, m.focus)

	m = frame(typeText(m, " again"))

	require.Equal(t, "Hello world again", m.Controller().Text())
	visible, total := m.Controller().Counts()
	require.Equal(t, 3, total)
	require.Equal(t, 3, visible)
}

func TestApp_EditingScrollsBackToOrigin(t *testing.T) {
	m := frame(createTestModel(t, words(100)))
	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	m = frame(send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")}))
	require.Positive(t, m.element.YOffset())

	m = send(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m = typeText(m, " more")
	require.Zero(t, m.element.YOffset())
}

func TestApp_SetLengthMarksCustom(t *testing.T) {
	m := createTestModel(t, "Hello world")
	require.False(t, m.Controller().Length().Custom)

	m = send(m, lengthcontrol.SetLengthMsg{Value: 5000})
	require.Equal(t, reveal.ScrollLength{Length: 5000, Custom: true}, m.Controller().Length())
	require.True(t, m.controls.ResetEnabled(), "controls are synced after the update")

	m = send(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	require.Equal(t, reveal.ScrollLength{Length: 400}, m.Controller().Length())
	require.False(t, m.controls.ResetEnabled())
}

func TestApp_ResetLengthMsg(t *testing.T) {
	m := createTestModel(t, words(50))
	m = send(m, lengthcontrol.SetLengthMsg{Value: 123.6})
	require.Equal(t, 400, m.Controller().Length().Length, "clamped to the minimum")

	m = send(m, lengthcontrol.ResetLengthMsg{})
	require.Equal(t, reveal.ScrollLength{Length: 600}, m.Controller().Length())
}

func TestApp_FocusCycleSkipsDisabledReset(t *testing.T) {
	m := createTestModel(t, "Hello world")

	var seen []focus
	for range 5 {
		m = send(m, tea.KeyMsg{Type: tea.KeyTab})
		seen = append(seen, m.focus)
	}
	require.Equal(t, []focus{focusPreview, focusSlider, focusInput, focusEditor, focusPreview}, seen)

	m = send(m, lengthcontrol.SetLengthMsg{Value: 1000})
	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, focusReset, m.focus)
	require.Equal(t, lengthcontrol.FocusReset, m.controls.Focused())
}

func TestApp_SliderKeysChangeLength(t *testing.T) {
	m := createTestModel(t, "Hello world")
	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, focusSlider, m.focus)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(Model)
	require.NotNil(t, cmd)

	m = send(m, lengthcontrol.SetLengthMsg{Value: 450})
	require.Equal(t, reveal.ScrollLength{Length: 450, Custom: true}, m.Controller().Length())
}

func TestApp_ToggleModeReattaches(t *testing.T) {
	m := createTestModel(t, words(100))
	require.Equal(t, reveal.ModeElement, m.Mode())
	require.Equal(t, 1, m.element.Subscribers())
	require.Zero(t, m.page.Subscribers())

	m = send(m, tea.KeyMsg{Type: tea.KeyCtrlT})
	require.Equal(t, reveal.ModePage, m.Mode())
	require.Zero(t, m.element.Subscribers())
	require.Equal(t, 1, m.page.Subscribers())
	require.Greater(t, m.page.TotalLines(), m.page.Height())

	m = frame(m)
	visible, total := m.Controller().Counts()
	require.Less(t, visible, total)
	require.Contains(t, m.View(), "page mode")

	m = send(m, tea.KeyMsg{Type: tea.KeyCtrlT})
	require.Equal(t, reveal.ModeElement, m.Mode())
	require.Equal(t, 1, m.element.Subscribers())
	require.Zero(t, m.page.Subscribers())
}

func TestApp_WatcherEventReloadsText(t *testing.T) {
	m := createTestModel(t, "Hello world")

	m = frame(send(m, pubsub.Event[watcher.Event]{
		Type:    pubsub.UpdatedEvent,
		Payload: watcher.Event{Kind: watcher.FileChanged, Path: "poem.txt", Content: "one two three"},
	}))

	require.Equal(t, "one two three", m.editor.Value())
	visible, total := m.Controller().Counts()
	require.Equal(t, 3, total)
	require.Equal(t, 3, visible)
}

func TestApp_WatcherErrorShownInStatus(t *testing.T) {
	m := createTestModel(t, "Hello world")

	m = send(m, pubsub.Event[watcher.Event]{
		Type:    pubsub.UpdatedEvent,
		Payload: watcher.Event{Kind: watcher.WatcherError, Err: os.ErrNotExist},
	})
	require.Contains(t, m.View(), "file does not exist")
	require.Equal(t, "Hello world", m.Controller().Text())
}

func TestApp_WatchesTextFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "poem.txt")
	require.NoError(t, os.WriteFile(path, []byte("first"), 0o600))

	cfg := config.Defaults()
	m := New(Options{Config: cfg, Text: "first", TextFile: path})
	t.Cleanup(func() { _ = m.Close() })
	require.NotNil(t, m.watcherListener)

	msgs := make(chan tea.Msg, 1)
	go func() { msgs <- m.watcherListener.Listen()() }()

	require.NoError(t, os.WriteFile(path, []byte("second version"), 0o600))

	select {
	case msg := <-msgs:
		m = send(m, msg)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watcher event")
	}
	require.Equal(t, "second version", m.Controller().Text())
}

func TestApp_QuitFromPreview(t *testing.T) {
	m := createTestModel(t, "Hello world")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd != nil {
		require.NotEqual(t, tea.QuitMsg{}, cmd(), "q types into the editor")
	}

	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	require.Equal(t, tea.QuitMsg{}, cmd())
}

func TestApp_CloseReleasesSource(t *testing.T) {
	cfg := config.Defaults()
	cfg.Watch = false
	m := New(Options{Config: cfg, Text: "Hello"})
	require.Equal(t, 1, m.element.Subscribers())

	require.NoError(t, m.Close())
	require.Zero(t, m.element.Subscribers())
}

func TestApp_Program(t *testing.T) {
	cfg := config.Defaults()
	cfg.Watch = false
	m := New(Options{Config: cfg, Text: "Hello world"})
	t.Cleanup(func() { _ = m.Close() })

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 40))

	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return strings.Contains(string(b), "Visible words: 2 / 2")
	}, teatest.WithDuration(3*time.Second))

	tm.Type(" again")
	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return strings.Contains(string(b), "Visible words: 3 / 3")
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))

	final := tm.FinalModel(t).(Model)
	require.Equal(t, "Hello world again", final.Controller().Text())
}

func TestApp_ResetShowsToast(t *testing.T) {
	m := createTestModel(t, words(50))

	m = send(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	require.False(t, m.toast.Visible(), "reset of an automatic length is silent")

	m = send(m, lengthcontrol.SetLengthMsg{Value: 3000})
	m = send(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	require.Equal(t, "Scroll length reset to 600", m.toast.Message())
	require.Contains(t, m.View(), "Scroll length reset to 600")
}

func TestApp_WatcherReloadShowsToast(t *testing.T) {
	m := createTestModel(t, "Hello world")

	m = send(m, pubsub.Event[watcher.Event]{
		Type:    pubsub.UpdatedEvent,
		Payload: watcher.Event{Kind: watcher.FileChanged, Path: "/tmp/notes/poem.txt", Content: "new"},
	})
	require.Equal(t, "Reloaded poem.txt", m.toast.Message())
}

func TestApp_MouseWheelScrollsPreview(t *testing.T) {
	m := frame(createTestModel(t, words(100)))
	require.Zero(t, m.element.YOffset())
	baseline, _ := m.Controller().Counts()

	m = send(m, tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	require.Positive(t, m.element.YOffset())

	m = frame(m)
	scrolled, _ := m.Controller().Counts()
	require.Greater(t, scrolled, baseline)
	m = frame(send(m, tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress}))
	back, _ := m.Controller().Counts()
	require.Zero(t, m.element.YOffset())
	require.LessOrEqual(t, back, scrolled)
}

func TestApp_ControllerSeesSanitizedText(t *testing.T) {
	raw := "alpha\tbeta\r\ngamma\x07delta hello \x1b[2Jworld"
	m := createTestModel(t, raw)

	require.Equal(t, m.editor.Value(), m.Controller().Text())
	require.NotContains(t, m.Controller().Text(), "\x1b")
	require.NotContains(t, m.Controller().Text(), "\x07")
	require.NotContains(t, m.View(), "\x1b[2J")
}

func TestApp_ReloadedTextIsSanitized(t *testing.T) {
	m := createTestModel(t, "Hello world")

	m = send(m, pubsub.Event[watcher.Event]{
		Type:    pubsub.UpdatedEvent,
		Payload: watcher.Event{Kind: watcher.FileChanged, Path: "poem.txt", Content: "one\ttwo \x1b[2Jthree"},
	})
	require.Equal(t, m.editor.Value(), m.Controller().Text())
	require.NotContains(t, m.Controller().Text(), "\x1b")
	require.NotContains(t, m.View(), "\x1b[2J")
}
