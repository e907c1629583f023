// Package styles contains Lip Gloss style definitions.
package styles

// Preset represents a complete color theme.
type Preset struct {
	Name        string
	Description string
	Colors      map[ColorToken]string
}

// Presets contains all built-in theme presets.
var Presets = map[string]Preset{
	"default":       DefaultPreset,
	"dracula":       DraculaPreset,
	"nord":          NordPreset,
	"high-contrast": HighContrastPreset,
}

// DefaultPreset is the scrollmem color scheme.
// Values match the Dark side of the AdaptiveColor definitions in styles.go.
var DefaultPreset = Preset{
	Name:        "default",
	Description: "Default scrollmem theme",
	Colors: map[ColorToken]string{
		TokenTextPrimary:  "#CCCCCC",
		TokenTextMuted:    "#696969",
		TokenTextRevealed: "#EEEEEE",
		TokenTextMasked:   "#3A3A3A",

		TokenBorderDefault: "#696969",
		TokenBorderFocus:   "#54A0FF",

		TokenStatusSuccess: "#73F59F",
		TokenStatusError:   "#FF8787",

		TokenButtonText:           "#FFFFFF",
		TokenButtonPrimaryBg:      "#1A5276",
		TokenButtonPrimaryFocusBg: "#3498DB",
		TokenButtonDisabledBg:     "#2D2D2D",

		TokenSliderFull:  "#54A0FF",
		TokenSliderEmpty: "#3A3A3A",

		TokenScrollbarTrack: "#3A3A3A",
		TokenScrollbarThumb: "#8C8C8C",
	},
}

// DraculaPreset is the Dracula theme.
// Colors from: https://draculatheme.com/contribute
var DraculaPreset = Preset{
	Name:        "dracula",
	Description: "Dark theme with vibrant colors",
	Colors: map[ColorToken]string{
		TokenTextPrimary:  "#F8F8F2",
		TokenTextMuted:    "#6272A4",
		TokenTextRevealed: "#F8F8F2",
		TokenTextMasked:   "#44475A",

		TokenBorderDefault: "#6272A4",
		TokenBorderFocus:   "#BD93F9",

		TokenStatusSuccess: "#50FA7B",
		TokenStatusError:   "#FF5555",

		TokenButtonText:           "#282A36",
		TokenButtonPrimaryBg:      "#BD93F9",
		TokenButtonPrimaryFocusBg: "#FF79C6",
		TokenButtonDisabledBg:     "#44475A",

		TokenSliderFull:  "#BD93F9",
		TokenSliderEmpty: "#44475A",

		TokenScrollbarTrack: "#44475A",
		TokenScrollbarThumb: "#6272A4",
	},
}

// NordPreset is the Nord theme.
// Colors from: https://www.nordtheme.com/docs/colors-and-palettes
var NordPreset = Preset{
	Name:        "nord",
	Description: "Arctic, north-bluish palette",
	Colors: map[ColorToken]string{
		TokenTextPrimary:  "#D8DEE9",
		TokenTextMuted:    "#4C566A",
		TokenTextRevealed: "#ECEFF4",
		TokenTextMasked:   "#3B4252",

		TokenBorderDefault: "#4C566A",
		TokenBorderFocus:   "#88C0D0",

		TokenStatusSuccess: "#A3BE8C",
		TokenStatusError:   "#BF616A",

		TokenButtonText:           "#2E3440",
		TokenButtonPrimaryBg:      "#81A1C1",
		TokenButtonPrimaryFocusBg: "#88C0D0",
		TokenButtonDisabledBg:     "#3B4252",

		TokenSliderFull:  "#88C0D0",
		TokenSliderEmpty: "#3B4252",

		TokenScrollbarTrack: "#3B4252",
		TokenScrollbarThumb: "#81A1C1",
	},
}

// HighContrastPreset maximizes contrast for accessibility.
var HighContrastPreset = Preset{
	Name:        "high-contrast",
	Description: "High contrast for accessibility",
	Colors: map[ColorToken]string{
		TokenTextPrimary:  "#FFFFFF",
		TokenTextMuted:    "#C0C0C0",
		TokenTextRevealed: "#FFFFFF",
		TokenTextMasked:   "#808080",

		TokenBorderDefault: "#FFFFFF",
		TokenBorderFocus:   "#FFFF00",

		TokenStatusSuccess: "#00FF00",
		TokenStatusError:   "#FF0000",

		TokenButtonText:           "#000000",
		TokenButtonPrimaryBg:      "#FFFFFF",
		TokenButtonPrimaryFocusBg: "#FFFF00",
		TokenButtonDisabledBg:     "#808080",

		TokenSliderFull:  "#FFFF00",
		TokenSliderEmpty: "#808080",

		TokenScrollbarTrack: "#808080",
		TokenScrollbarThumb: "#FFFFFF",
	},
}
