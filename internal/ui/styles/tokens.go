// Package styles contains Lip Gloss style definitions.
package styles

// ColorToken represents a named, themeable color.
type ColorToken string

// Color tokens organized by category.
// These are the keys users can override in their config.
const (
	// Text hierarchy
	TokenTextPrimary  ColorToken = "text.primary"
	TokenTextMuted    ColorToken = "text.muted"
	TokenTextRevealed ColorToken = "text.revealed"
	TokenTextMasked   ColorToken = "text.masked"

	// Borders
	TokenBorderDefault ColorToken = "border.default"
	TokenBorderFocus   ColorToken = "border.focus"

	// Status indicators
	TokenStatusSuccess ColorToken = "status.success"
	TokenStatusError   ColorToken = "status.error"

	// Buttons
	TokenButtonText           ColorToken = "button.text"
	TokenButtonPrimaryBg      ColorToken = "button.primary.bg"
	TokenButtonPrimaryFocusBg ColorToken = "button.primary.focus"
	TokenButtonDisabledBg     ColorToken = "button.disabled.bg"

	// Length slider
	TokenSliderFull  ColorToken = "slider.full"
	TokenSliderEmpty ColorToken = "slider.empty"

	// Scrollbar
	TokenScrollbarTrack ColorToken = "scrollbar.track"
	TokenScrollbarThumb ColorToken = "scrollbar.thumb"
)

// AllTokens returns every themeable token.
func AllTokens() []ColorToken {
	return []ColorToken{
		TokenTextPrimary,
		TokenTextMuted,
		TokenTextRevealed,
		TokenTextMasked,
		TokenBorderDefault,
		TokenBorderFocus,
		TokenStatusSuccess,
		TokenStatusError,
		TokenButtonText,
		TokenButtonPrimaryBg,
		TokenButtonPrimaryFocusBg,
		TokenButtonDisabledBg,
		TokenSliderFull,
		TokenSliderEmpty,
		TokenScrollbarTrack,
		TokenScrollbarThumb,
	}
}
