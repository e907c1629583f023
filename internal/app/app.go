// Package app contains the root application model.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/scrollmem/internal/config"
	"github.com/zjrosen/scrollmem/internal/keys"
	"github.com/zjrosen/scrollmem/internal/log"
	"github.com/zjrosen/scrollmem/internal/pubsub"
	"github.com/zjrosen/scrollmem/internal/reveal"
	"github.com/zjrosen/scrollmem/internal/ui/lengthcontrol"
	"github.com/zjrosen/scrollmem/internal/ui/preview"
	"github.com/zjrosen/scrollmem/internal/ui/scrollview"
	"github.com/zjrosen/scrollmem/internal/ui/styles"
	"github.com/zjrosen/scrollmem/internal/ui/toaster"
	"github.com/zjrosen/scrollmem/internal/watcher"
)

// DefaultText is shown when no text or file is supplied.
const DefaultText = "Memorize your favourite passages by revealing them as you scroll. " +
	"Paste or type any text below and use the scrollable panel to control how much of the text is visible. " +
	"This simple tool keeps the rest hidden so you can test your memory."

const (
	titleHeight    = 1
	controlsHeight = 1
	statusHeight   = 1
	minEditorRows  = 3
	maxEditorRows  = 12
	minPreviewRows = 3
	minWidth       = 20

	zoneEditor  = "editor"
	zonePreview = "preview"
)

// focus identifies which part of the screen receives keys.
type focus int

const (
	focusEditor focus = iota
	focusPreview
	focusSlider
	focusInput
	focusReset
	focusCount
)

// frameMsg fires the coalesced reveal recomputation.
type frameMsg struct{}

// Options configures a Model.
type Options struct {
	Config config.Config

	// Text is the initial text. Empty means DefaultText.
	Text string

	// TextFile is reloaded on change when Config.Watch is set.
	TextFile string

	// Debug shows the latest log line in the footer.
	Debug bool

	// Styles bound to the session's renderer. Zero value uses the default
	// renderer.
	Styles *styles.Styles

	// Zones handles mouse hit testing. When nil the model owns one.
	Zones *zone.Manager

	Tokenizer reveal.Tokenizer
	Tracer    trace.Tracer
	SessionID string

	// Context parents session spans and bounds background listeners.
	Context context.Context
}

// Model is the root application state.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	cfg    config.Config

	ctrl    *reveal.Controller
	mode    reveal.Mode
	element *scrollview.View
	page    *scrollview.View

	editor   textarea.Model
	controls lengthcontrol.Model
	render   preview.Renderer
	styles   styles.Styles
	zones    *zone.Manager
	ownZones bool
	keys     keys.KeyMap
	help     help.Model
	toast    toaster.Model

	focus         focus
	frameInterval time.Duration

	width  int
	height int

	// Rendered preview, reused until the inputs change.
	cache     previewCache
	textRev   int
	statusErr string

	debugMode   bool
	lastLog     string
	logListener *log.LogListener

	watcherHandle   *watcher.Watcher
	watcherListener *pubsub.ContinuousListener[watcher.Event]
}

type previewCache struct {
	rev, visible, width, length int
	valid                       bool
	doc                         string
}

// New creates the root model and loads the initial text.
func New(opts Options) Model {
	cfg := opts.Config
	parent := opts.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	var st styles.Styles
	if opts.Styles != nil {
		st = *opts.Styles
	} else {
		st = styles.New(nil)
	}
	zones := opts.Zones
	ownZones := zones == nil
	if ownZones {
		zones = zone.New()
	}

	mode := reveal.Mode(cfg.Mode)
	if !mode.Valid() {
		mode = reveal.ModeElement
	}
	frameRate := cfg.UI.FrameRate
	if frameRate <= 0 {
		frameRate = 60
	}

	ctrl := reveal.NewController(reveal.Options{
		Policy:    cfg.Scroll.LengthPolicy(),
		Tokenizer: opts.Tokenizer,
		Tracer:    opts.Tracer,
		SessionID: opts.SessionID,
	})

	text := opts.Text
	if text == "" {
		text = DefaultText
	}

	m := Model{
		ctx:           ctx,
		cancel:        cancel,
		cfg:           cfg,
		ctrl:          ctrl,
		mode:          mode,
		element:       scrollview.New(reveal.ModeElement, minWidth, minPreviewRows),
		page:          scrollview.New(reveal.ModePage, minWidth, minPreviewRows),
		editor:        newEditor(st, text),
		controls:      lengthcontrol.New(ctrl.Policy(), cfg.Scroll.Step, st, zones),
		render:        preview.New(st, cfg.UI.MaskChar, cfg.Scroll.UnitsPerRow),
		styles:        st,
		zones:         zones,
		ownZones:      ownZones,
		keys:          keys.DefaultKeyMap(),
		help:          help.New(),
		toast:         toaster.New(st),
		frameInterval: time.Second / time.Duration(frameRate),
		debugMode:     opts.Debug,
	}

	if opts.Debug {
		m.logListener = log.NewListener(ctx)
	}
	if cfg.Watch && opts.TextFile != "" {
		m.startWatcher(opts.TextFile)
	}

	ctrl.Attach(m.active())
	// The editor sanitizes its input; the preview shows exactly what it holds.
	m.setText(m.editor.Value())
	m.layout()
	m.refresh()
	return m
}

func newEditor(st styles.Styles, text string) textarea.Model {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Placeholder = "Type or paste the text to memorize"
	ta.FocusedStyle.Placeholder = st.Muted
	ta.BlurredStyle.Placeholder = st.Muted
	ta.SetValue(text)
	ta.Focus()
	return ta
}

func (m *Model) startWatcher(path string) {
	w, err := watcher.New(watcher.DefaultConfig(path))
	if err != nil {
		log.ErrorErr(log.CatWatcher, "Failed to create watcher", err, "path", path)
		return
	}
	if err := w.Start(); err != nil {
		// The app works fine without reloads.
		log.ErrorErr(log.CatWatcher, "Failed to start watcher", err, "path", path)
		_ = w.Stop()
		return
	}
	m.watcherHandle = w
	m.watcherListener = pubsub.NewContinuousListener(m.ctx, w.Broker())
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink}
	if m.watcherListener != nil {
		cmds = append(cmds, m.watcherListener.Listen())
	}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	if m.ctrl.TakeFrameRequest() {
		cmds = append(cmds, m.frameTick())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	cmd = tea.Batch(cmd, m.sync())
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return nil

	case frameMsg:
		m.ctrl.OnFrame()
		return nil

	case toaster.DismissMsg:
		m.toast = m.toast.Update(msg)
		return nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case lengthcontrol.SetLengthMsg:
		m.ctrl.SetLength(m.ctx, msg.Value)
		return nil

	case lengthcontrol.ResetLengthMsg:
		cmd := m.resetLength()
		if m.focus == focusReset {
			return tea.Batch(cmd, m.setFocus(focusSlider))
		}
		return cmd

	case pubsub.Event[watcher.Event]:
		var cmd tea.Cmd
		switch msg.Payload.Kind {
		case watcher.FileChanged:
			log.Info(log.CatWatcher, "Text file changed, reloading", "path", msg.Payload.Path)
			m.statusErr = ""
			m.editor.SetValue(msg.Payload.Content)
			m.setText(m.editor.Value())
			m.toast, cmd = m.toast.Show("Reloaded "+filepath.Base(msg.Payload.Path), toaster.KindInfo, toaster.DefaultDuration)
		case watcher.WatcherError:
			log.Warn(log.CatWatcher, "Watcher error received", "error", msg.Payload.Err)
			m.statusErr = msg.Payload.Err.Error()
			m.toast, cmd = m.toast.Show("Reload failed", toaster.KindError, toaster.DefaultDuration)
		}
		if m.watcherListener == nil {
			return cmd
		}
		return tea.Batch(cmd, m.watcherListener.Listen())

	case log.LogEvent:
		m.lastLog = msg.Payload
		if m.logListener == nil {
			return nil
		}
		return m.logListener.Listen()
	}

	// Cursor blink and other editor messages.
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	k := m.keys
	switch {
	case key.Matches(msg, k.Force):
		return tea.Quit
	case key.Matches(msg, k.NextFocus):
		return m.cycleFocus(1)
	case key.Matches(msg, k.PrevFocus):
		return m.cycleFocus(-1)
	case key.Matches(msg, k.ResetLength):
		return m.resetLength()
	case key.Matches(msg, k.ToggleMode):
		return m.toggleMode()
	case key.Matches(msg, k.PageDown):
		m.active().ScrollDown(max(m.active().Height()-1, 1))
		return nil
	case key.Matches(msg, k.PageUp):
		m.active().ScrollUp(max(m.active().Height()-1, 1))
		return nil
	case msg.String() == "f1":
		m.toggleHelp()
		return nil
	}

	switch m.focus {
	case focusEditor:
		return m.updateEditor(msg)

	case focusPreview:
		switch {
		case key.Matches(msg, k.Quit):
			return tea.Quit
		case key.Matches(msg, k.Help):
			m.toggleHelp()
		case key.Matches(msg, k.ScrollDown):
			m.active().ScrollDown(1)
		case key.Matches(msg, k.ScrollUp):
			m.active().ScrollUp(1)
		case key.Matches(msg, k.Top):
			m.active().SetYOffset(0)
		case key.Matches(msg, k.Bottom):
			m.active().SetYOffset(m.active().TotalLines())
		}
		return nil

	case focusSlider, focusReset:
		if key.Matches(msg, k.Quit) {
			return tea.Quit
		}
		if key.Matches(msg, k.Help) {
			m.toggleHelp()
			return nil
		}
	}

	var cmd tea.Cmd
	m.controls, cmd = m.controls.Update(msg)
	return cmd
}

func (m *Model) updateEditor(msg tea.Msg) tea.Cmd {
	before := m.editor.Value()
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if after := m.editor.Value(); after != before {
		m.setText(after)
	}
	return cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if tea.MouseEvent(msg).IsWheel() {
		return m.active().Update(msg)
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}

	if m.mode == reveal.ModeElement {
		if z := m.zones.Get(zoneEditor); z != nil && z.InBounds(msg) {
			return m.setFocus(focusEditor)
		}
		if z := m.zones.Get(zonePreview); z != nil && z.InBounds(msg) {
			return m.setFocus(focusPreview)
		}
	}

	var cmd tea.Cmd
	m.controls, cmd = m.controls.Update(msg)
	switch m.controls.Focused() {
	case lengthcontrol.FocusSlider:
		m.focus = focusSlider
		m.editor.Blur()
	case lengthcontrol.FocusInput:
		m.focus = focusInput
		m.editor.Blur()
	}
	return cmd
}

// setText feeds a new text to the controller.
func (m *Model) setText(text string) {
	m.textRev++
	m.ctrl.OnTextChanged(m.ctx, text)
}

func (m *Model) cycleFocus(dir int) tea.Cmd {
	next := m.focus
	for range focusCount {
		next = (next + focus(dir) + focusCount) % focusCount
		if next != focusReset || m.ctrl.ResetEnabled() {
			break
		}
	}
	return m.setFocus(next)
}

func (m *Model) setFocus(f focus) tea.Cmd {
	m.focus = f
	var cmds []tea.Cmd

	if f == focusEditor {
		cmds = append(cmds, m.editor.Focus())
	} else {
		m.editor.Blur()
	}

	switch f {
	case focusSlider:
		cmds = append(cmds, m.controls.Focus(lengthcontrol.FocusSlider))
	case focusInput:
		cmds = append(cmds, m.controls.Focus(lengthcontrol.FocusInput))
	case focusReset:
		cmds = append(cmds, m.controls.Focus(lengthcontrol.FocusReset))
	default:
		m.controls.Blur()
	}
	return tea.Batch(cmds...)
}

// resetLength returns to the automatic length. Nothing is announced when
// the length was already automatic.
func (m *Model) resetLength() tea.Cmd {
	wasCustom := m.ctrl.ResetEnabled()
	m.ctrl.ResetLength(m.ctx)
	if !wasCustom {
		return nil
	}
	var cmd tea.Cmd
	msg := fmt.Sprintf("Scroll length reset to %d", m.ctrl.Length().Length)
	m.toast, cmd = m.toast.Show(msg, toaster.KindSuccess, toaster.DefaultDuration)
	return cmd
}

func (m *Model) toggleMode() tea.Cmd {
	if m.mode == reveal.ModeElement {
		m.mode = reveal.ModePage
	} else {
		m.mode = reveal.ModeElement
	}
	log.Info(log.CatUI, "Switching mode", "to", m.mode, "session", m.ctrl.SessionID())
	m.cache.valid = false
	m.layout()
	m.refresh()
	m.ctrl.Attach(m.active())

	var cmd tea.Cmd
	m.toast, cmd = m.toast.Show(m.titleMode()+" mode", toaster.KindInfo, toaster.DefaultDuration)
	return cmd
}

func (m *Model) toggleHelp() {
	m.help.ShowAll = !m.help.ShowAll
	m.layout()
}

// active is the scroll container the controller measures.
func (m *Model) active() *scrollview.View {
	if m.mode == reveal.ModePage {
		return m.page
	}
	return m.element
}

func (m *Model) footerHeight() int {
	h := lipgloss.Height(m.help.View(m.keys))
	if m.debugMode {
		h++
	}
	return h
}

func (m *Model) layout() {
	width := max(m.width, minWidth)
	height := max(m.height, titleHeight+controlsHeight+statusHeight+minEditorRows+minPreviewRows+4)

	m.help.Width = width
	footer := m.footerHeight()
	avail := height - titleHeight - controlsHeight - statusHeight - footer

	editorRows := min(max(avail/3-2, minEditorRows), maxEditorRows)
	previewRows := max(avail-(editorRows+2)-2, minPreviewRows)
	inner := width - 2

	m.editor.SetWidth(inner)
	m.editor.SetHeight(editorRows)
	m.controls.SetWidth(width)

	previewWidth := inner
	if m.cfg.UI.ShowScrollbar {
		previewWidth--
	}
	m.element.SetSize(previewWidth, previewRows)
	m.page.SetSize(width-1, max(height-footer, 1))
}

// sync refreshes the views and schedules a frame when the controller asked
// for one.
func (m *Model) sync() tea.Cmd {
	m.refresh()
	if m.ctrl.TakeFrameRequest() {
		return m.frameTick()
	}
	return nil
}

// refresh pushes controller state into the active view.
func (m *Model) refresh() {
	m.controls.Sync(m.ctrl.Length())
	if m.mode == reveal.ModePage {
		m.page.SetContent(m.pageDocument())
	} else {
		m.element.SetContent(m.previewDocument(m.element.Width()))
	}
}

func (m Model) frameTick() tea.Cmd {
	return tea.Tick(m.frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

func (m *Model) previewDocument(width int) string {
	visible, _ := m.ctrl.Counts()
	length := m.ctrl.Length().Length
	c := m.cache
	if c.valid && c.rev == m.textRev && c.visible == visible && c.width == width && c.length == length {
		return c.doc
	}
	doc := m.render.Document(m.ctrl.Spans(), width, length)
	m.cache = previewCache{rev: m.textRev, visible: visible, width: width, length: length, valid: true, doc: doc}
	return doc
}

func (m *Model) pageDocument() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.titleView(),
		m.editorView(),
		m.controls.View(),
		m.statusView(),
		"",
		m.previewDocument(m.page.Width()),
	)
}

func (m Model) titleMode() string {
	if m.mode == reveal.ModePage {
		return "Page"
	}
	return "Element"
}

func (m Model) titleView() string {
	return m.styles.Label.Render("scrollmem") + m.styles.Muted.Render(" · "+string(m.mode)+" mode")
}

func (m Model) editorView() string {
	return m.styles.Pane(m.editor.View(), "Text", max(m.width, minWidth), m.editor.Height()+2, m.focus == focusEditor)
}

func (m Model) statusView() string {
	visible, total := m.ctrl.Counts()
	status := fmt.Sprintf("Visible words: %d / %d", visible, total)
	if m.statusErr != "" {
		status += "  " + m.styles.Error.Render(m.statusErr)
	}
	if !m.cfg.UI.ShowStatusBar {
		return status
	}
	return m.styles.StatusBar.Render(status)
}

func (m Model) previewView() string {
	content := m.element.View()
	if m.cfg.UI.ShowScrollbar {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, m.element.Scrollbar(m.styles))
	}
	return m.styles.Pane(content, "Preview", max(m.width, minWidth), m.element.Height()+2, m.focus == focusPreview)
}

func (m Model) footerView() string {
	footer := m.help.View(m.keys)
	if m.debugMode {
		footer = lipgloss.JoinVertical(lipgloss.Left, footer, m.styles.Muted.Render(styles.TruncateString(m.lastLog, max(m.width, minWidth))))
	}
	return footer
}

// View implements tea.Model.
func (m Model) View() string {
	var view string
	if m.mode == reveal.ModePage {
		body := m.page.View()
		if m.cfg.UI.ShowScrollbar {
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.page.Scrollbar(m.styles))
		}
		view = lipgloss.JoinVertical(lipgloss.Left, body, m.footerView())
	} else {
		view = lipgloss.JoinVertical(lipgloss.Left,
			m.titleView(),
			m.zones.Mark(zoneEditor, m.editorView()),
			m.controls.View(),
			m.statusView(),
			m.zones.Mark(zonePreview, m.previewView()),
			m.footerView(),
		)
	}
	view = m.zones.Scan(view)
	return m.toast.Overlay(view, max(m.width, minWidth), lipgloss.Height(view), m.footerHeight())
}

// Controller exposes the session's reveal controller.
func (m Model) Controller() *reveal.Controller { return m.ctrl }

// Mode returns the active deployment mode.
func (m Model) Mode() reveal.Mode { return m.mode }

// Close releases resources held by the application.
func (m *Model) Close() error {
	m.cancel()
	m.ctrl.Close()
	if m.ownZones {
		m.zones.Close()
	}
	if m.watcherHandle != nil {
		if err := m.watcherHandle.Stop(); err != nil {
			return fmt.Errorf("stopping watcher: %w", err)
		}
	}
	return nil
}
