// Package styles contains Lip Gloss style definitions.
package styles

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ThemeConfig mirrors config.ThemeConfig to avoid circular imports.
type ThemeConfig struct {
	Preset string
	Colors map[string]string
}

// ApplyTheme applies a complete theme configuration.
// Order of application:
// 1. Start with default colors
// 2. Apply preset (if specified)
// 3. Apply individual color overrides
// Styles built with New afterwards pick up the result.
func ApplyTheme(cfg ThemeConfig) error {
	colors := maps.Clone(DefaultPreset.Colors)

	if cfg.Preset != "" && cfg.Preset != "default" {
		preset, ok := Presets[cfg.Preset]
		if !ok {
			return fmt.Errorf("unknown theme preset: %s", cfg.Preset)
		}
		maps.Copy(colors, preset.Colors)
	}

	for key, value := range cfg.Colors {
		token := ColorToken(key)
		if !isValidToken(token) {
			return fmt.Errorf("unknown color token: %s", key)
		}
		if !isValidHexColor(value) {
			return fmt.Errorf("invalid hex color for %s: %s", key, value)
		}
		colors[token] = value
	}

	applyColors(colors)
	return nil
}

// colorTargets maps each token to the variable it themes.
func colorTargets() map[ColorToken]*lipgloss.AdaptiveColor {
	return map[ColorToken]*lipgloss.AdaptiveColor{
		TokenTextPrimary:          &TextPrimaryColor,
		TokenTextMuted:            &TextMutedColor,
		TokenTextRevealed:         &TextRevealedColor,
		TokenTextMasked:           &TextMaskedColor,
		TokenBorderDefault:        &BorderDefaultColor,
		TokenBorderFocus:          &BorderFocusColor,
		TokenStatusSuccess:        &StatusSuccessColor,
		TokenStatusError:          &StatusErrorColor,
		TokenButtonText:           &ButtonTextColor,
		TokenButtonPrimaryBg:      &ButtonPrimaryBgColor,
		TokenButtonPrimaryFocusBg: &ButtonPrimaryFocusBgColor,
		TokenButtonDisabledBg:     &ButtonDisabledBgColor,
		TokenSliderFull:           &SliderFullColor,
		TokenSliderEmpty:          &SliderEmptyColor,
		TokenScrollbarTrack:       &ScrollbarTrackColor,
		TokenScrollbarThumb:       &ScrollbarThumbColor,
	}
}

func applyColors(colors map[ColorToken]string) {
	targets := colorTargets()
	for token, hex := range colors {
		if target, ok := targets[token]; ok {
			// Presets are single-mode, so both sides get the same color.
			*target = lipgloss.AdaptiveColor{Light: hex, Dark: hex}
		}
	}
}

func isValidToken(token ColorToken) bool {
	return slices.Contains(AllTokens(), token)
}

func isValidHexColor(s string) bool {
	if !strings.HasPrefix(s, "#") {
		return false
	}
	hex := s[1:]
	if len(hex) != 3 && len(hex) != 6 {
		return false
	}
	_, err := strconv.ParseUint(hex, 16, 64)
	return err == nil
}
