// Package lengthcontrol provides the scroll length controls: a slider, a
// numeric field and a reset button. The controls never change the length
// themselves; they emit SetLengthMsg and ResetLengthMsg for the owner to
// apply, then receive the effective length back through Sync.
package lengthcontrol

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/scrollmem/internal/log"
	"github.com/zjrosen/scrollmem/internal/reveal"
	"github.com/zjrosen/scrollmem/internal/ui/styles"
)

// SetLengthMsg asks the owner to apply a user-chosen length.
type SetLengthMsg struct {
	Value float64
}

// ResetLengthMsg asks the owner to return to the automatic length.
type ResetLengthMsg struct{}

// Focus identifies which control receives keys.
type Focus int

const (
	FocusNone Focus = iota
	FocusSlider
	FocusInput
	FocusReset
)

const (
	defaultStep    = 50
	bigStepFactor  = 10
	minSliderWidth = 10
	inputWidth     = 7
	label          = "Length "
	resetLabel     = "Reset"
)

// Model is the length control row.
type Model struct {
	policy reveal.LengthPolicy
	step   int
	length reveal.ScrollLength

	slider progress.Model
	input  textinput.Model
	focus  Focus
	width  int

	styles  styles.Styles
	zones   *zone.Manager
	sliderZ string
	resetZ  string
}

// New creates the controls for policy. step is the slider increment for
// left/right; shift moves ten steps. zones may be shared with the rest of
// the program; a nil manager disables mouse handling.
func New(policy reveal.LengthPolicy, step int, s styles.Styles, zones *zone.Manager) Model {
	if step <= 0 {
		step = defaultStep
	}

	r := s.Renderer()
	pick := func(c lipgloss.AdaptiveColor) string {
		if r.HasDarkBackground() {
			return c.Dark
		}
		return c.Light
	}
	slider := progress.New(
		progress.WithSolidFill(pick(styles.SliderFullColor)),
		progress.WithoutPercentage(),
		progress.WithColorProfile(r.ColorProfile()),
	)
	slider.EmptyColor = pick(styles.SliderEmptyColor)

	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 12
	input.Width = inputWidth
	input.Placeholder = strconv.Itoa(policy.Min)

	m := Model{
		policy: policy,
		step:   step,
		slider: slider,
		input:  input,
		styles: s,
		zones:  zones,
	}
	if zones != nil {
		prefix := zones.NewPrefix()
		m.sliderZ = prefix + "slider"
		m.resetZ = prefix + "reset"
	}
	m.Sync(reveal.ScrollLength{Length: policy.Min})
	m.SetWidth(60)
	return m
}

// Sync shows the effective length. The numeric field is left alone while
// the user is typing in it.
func (m *Model) Sync(length reveal.ScrollLength) {
	m.length = length
	if m.focus != FocusInput {
		m.input.SetValue(strconv.Itoa(length.Length))
	}
}

// Length returns the last synced length.
func (m Model) Length() reveal.ScrollLength { return m.length }

// ResetEnabled reports whether the reset button is active.
func (m Model) ResetEnabled() bool { return m.length.Custom }

// Focused returns the control receiving keys.
func (m Model) Focused() Focus { return m.focus }

// InputValue returns the raw text of the numeric field.
func (m Model) InputValue() string { return m.input.Value() }

// Focus moves key focus to f. Leaving the numeric field restores it to the
// effective length when it was left empty or unparsable.
func (m *Model) Focus(f Focus) tea.Cmd {
	if f == FocusReset && !m.ResetEnabled() {
		f = FocusNone
	}
	if m.focus == f {
		return nil
	}
	if m.focus == FocusInput {
		m.input.Blur()
		m.input.SetValue(strconv.Itoa(m.length.Length))
	}
	m.focus = f
	if f == FocusInput {
		return m.input.Focus()
	}
	return nil
}

// Blur removes focus from all controls.
func (m *Model) Blur() {
	m.Focus(FocusNone)
}

// SetWidth sets the total row width.
func (m *Model) SetWidth(width int) {
	m.width = width
	fixed := len(label) + 2 + inputWidth + 4 + len(resetLabel) + 4 + len("custom") + 2
	m.slider.Width = max(width-fixed, minSliderWidth)
}

// Update handles keys for the focused control and mouse clicks on the
// slider and reset button.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	case tea.KeyMsg:
		switch m.focus {
		case FocusSlider:
			return m, m.handleSliderKey(msg)
		case FocusInput:
			return m.handleInputKey(msg)
		case FocusReset:
			if msg.String() == "enter" || msg.String() == " " {
				return m, m.reset()
			}
		}
	}
	return m, nil
}

func (m *Model) handleSliderKey(msg tea.KeyMsg) tea.Cmd {
	big := m.step * bigStepFactor
	switch msg.String() {
	case "left", "h":
		return setLength(float64(m.length.Length - m.step))
	case "right", "l":
		return setLength(float64(m.length.Length + m.step))
	case "shift+left", "H":
		return setLength(float64(m.length.Length - big))
	case "shift+right", "L":
		return setLength(float64(m.length.Length + big))
	case "home":
		return setLength(float64(m.policy.Min))
	case "end":
		return setLength(float64(m.policy.Max))
	}
	return nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}
	v, ok := ParseLength(m.input.Value())
	if !ok {
		return m, cmd
	}
	return m, tea.Batch(cmd, setLength(v))
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.zones == nil || msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	if z := m.zones.Get(m.sliderZ); z != nil && z.InBounds(msg) {
		m.focus = FocusSlider
		x, _ := z.Pos(msg)
		frac := float64(x) / float64(max(m.slider.Width-1, 1))
		log.Debug(log.CatUI, "slider click", "x", x, "fraction", frac)
		return setLength(float64(m.policy.AtFraction(frac)))
	}
	if z := m.zones.Get(m.resetZ); z != nil && z.InBounds(msg) {
		return m.reset()
	}
	return nil
}

func (m *Model) reset() tea.Cmd {
	if !m.ResetEnabled() {
		return nil
	}
	return func() tea.Msg { return ResetLengthMsg{} }
}

func setLength(v float64) tea.Cmd {
	return func() tea.Msg { return SetLengthMsg{Value: v} }
}

// ParseLength reads a typed length. Empty, unparsable and non-finite input
// is rejected.
func ParseLength(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// View renders: Length ████░░░░ [ 1200 ] Reset custom
func (m Model) View() string {
	s := m.styles

	labelStyle := s.Muted
	if m.focus == FocusSlider {
		labelStyle = s.Label
	}
	bar := m.slider.ViewAs(m.policy.Fraction(m.length.Length))
	if m.zones != nil {
		bar = m.zones.Mark(m.sliderZ, bar)
	}

	open, closeB := s.Muted.Render("["), s.Muted.Render("]")
	if m.focus == FocusInput {
		open, closeB = s.Label.Render("["), s.Label.Render("]")
	}
	field := open + " " + m.input.View() + " " + closeB

	var button string
	switch {
	case !m.ResetEnabled():
		button = s.ButtonDisabled.Render(resetLabel)
	case m.focus == FocusReset:
		button = s.ButtonFocused.Render(resetLabel)
	default:
		button = s.Button.Render(resetLabel)
	}
	if m.zones != nil {
		button = m.zones.Mark(m.resetZ, button)
	}

	mode := s.Muted.Render("auto")
	if m.length.Custom {
		mode = s.Success.Render("custom")
	}

	return lipgloss.JoinHorizontal(lipgloss.Center,
		labelStyle.Render(label), bar, " ", field, " ", button, " ", mode)
}
