// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor  = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#CCCCCC"} // Editor and labels
	TextMutedColor    = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"} // Hints, help text, footers
	TextRevealedColor = lipgloss.AdaptiveColor{Light: "#111111", Dark: "#EEEEEE"} // Words the user has scrolled to
	TextMaskedColor   = lipgloss.AdaptiveColor{Light: "#CCCCCC", Dark: "#3A3A3A"} // Mask glyphs over hidden words

	// Semantic color names - Border
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"} // Unfocused borders
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"} // Focused pane

	// Semantic color names - Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	// Button colors
	ButtonTextColor           = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}
	ButtonPrimaryBgColor      = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#1A5276"}
	ButtonPrimaryFocusBgColor = lipgloss.AdaptiveColor{Light: "#3498DB", Dark: "#3498DB"}
	ButtonDisabledBgColor     = lipgloss.AdaptiveColor{Light: "#DDDDDD", Dark: "#2D2D2D"}

	// Length slider
	SliderFullColor  = lipgloss.AdaptiveColor{Light: "#3498DB", Dark: "#54A0FF"}
	SliderEmptyColor = lipgloss.AdaptiveColor{Light: "#DDDDDD", Dark: "#3A3A3A"}

	// Scrollbar
	ScrollbarTrackColor = lipgloss.AdaptiveColor{Light: "#DDDDDD", Dark: "#3A3A3A"}
	ScrollbarThumbColor = lipgloss.AdaptiveColor{Light: "#888888", Dark: "#8C8C8C"}
)

// Styles is a set of styles bound to one renderer. Every SSH session has
// its own renderer (color profile, background), so styles are built per
// program rather than held in package variables.
type Styles struct {
	renderer *lipgloss.Renderer

	Revealed lipgloss.Style
	Masked   lipgloss.Style
	Muted    lipgloss.Style
	Label    lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style

	StatusBar lipgloss.Style

	Button         lipgloss.Style
	ButtonFocused  lipgloss.Style
	ButtonDisabled lipgloss.Style

	ScrollbarTrack lipgloss.Style
	ScrollbarThumb lipgloss.Style
}

// New builds styles from the current theme colors for renderer r. A nil
// renderer means the process default.
func New(r *lipgloss.Renderer) Styles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}

	baseButton := r.NewStyle().Padding(0, 2).Bold(true).Foreground(ButtonTextColor)

	return Styles{
		renderer: r,

		Revealed: r.NewStyle().Foreground(TextRevealedColor),
		Masked:   r.NewStyle().Foreground(TextMaskedColor),
		Muted:    r.NewStyle().Foreground(TextMutedColor),
		Label:    r.NewStyle().Foreground(TextPrimaryColor).Bold(true),
		Error:    r.NewStyle().Foreground(StatusErrorColor).Bold(true),
		Success:  r.NewStyle().Foreground(StatusSuccessColor),

		StatusBar: r.NewStyle().Foreground(TextMutedColor).Padding(0, 1),

		Button: baseButton.Background(ButtonPrimaryBgColor),
		ButtonFocused: baseButton.
			Background(ButtonPrimaryFocusBgColor).
			Underline(true).
			UnderlineSpaces(true),
		ButtonDisabled: baseButton.
			Bold(false).
			Foreground(TextMutedColor).
			Background(ButtonDisabledBgColor),

		ScrollbarTrack: r.NewStyle().Foreground(ScrollbarTrackColor),
		ScrollbarThumb: r.NewStyle().Foreground(ScrollbarThumbColor),
	}
}

// Renderer returns the renderer the styles were built for.
func (s Styles) Renderer() *lipgloss.Renderer {
	return s.renderer
}
