// Package config provides configuration types and defaults for scrollmem.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/scrollmem/internal/log"
	"github.com/zjrosen/scrollmem/internal/reveal"
	"github.com/zjrosen/scrollmem/internal/tracing"
)

// Config holds all configuration options for scrollmem.
type Config struct {
	Mode     string        `mapstructure:"mode" yaml:"mode"`
	TextFile string        `mapstructure:"text_file" yaml:"text_file"`
	Watch    bool          `mapstructure:"watch" yaml:"watch"`
	Scroll   ScrollConfig  `mapstructure:"scroll" yaml:"scroll"`
	UI       UIConfig      `mapstructure:"ui" yaml:"ui"`
	Theme    ThemeConfig   `mapstructure:"theme" yaml:"theme"`
	Tracing  TracingConfig `mapstructure:"tracing" yaml:"tracing"`
	SSH      SSHConfig     `mapstructure:"ssh" yaml:"ssh"`
}

// ScrollConfig holds the scroll length policy and the slider step.
type ScrollConfig struct {
	Ratio       int `mapstructure:"ratio" yaml:"ratio"`                 // length units per word
	Min         int `mapstructure:"min" yaml:"min"`                     // smallest scroll length
	Max         int `mapstructure:"max" yaml:"max"`                     // largest scroll length
	UnitsPerRow int `mapstructure:"units_per_row" yaml:"units_per_row"` // length units per spacer row
	Step        int `mapstructure:"step" yaml:"step"`                   // slider step for ←/→
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowStatusBar bool   `mapstructure:"show_status_bar" yaml:"show_status_bar"`
	ShowScrollbar bool   `mapstructure:"show_scrollbar" yaml:"show_scrollbar"`
	MaskChar      string `mapstructure:"mask_char" yaml:"mask_char"`   // glyph drawn over hidden words
	FrameRate     int    `mapstructure:"frame_rate" yaml:"frame_rate"` // recomputations per second
}

// ThemeConfig holds all theme customization options.
type ThemeConfig struct {
	// Preset loads a built-in theme as the base (optional).
	// Valid values: "default", "dracula", "nord", "high-contrast"
	Preset string `mapstructure:"preset" yaml:"preset,omitempty"`

	// Colors allows overriding individual color tokens.
	// Supports both nested YAML structure and dot notation.
	// Example YAML:
	//   colors:
	//     text:
	//       revealed: "#FFFFFF"
	// Or quoted dot notation:
	//   colors:
	//     "text.revealed": "#FFFFFF"
	Colors map[string]any `mapstructure:"colors" yaml:"colors,omitempty"`
}

// FlattenedColors returns the Colors map flattened to dot-notation keys.
// This handles both nested YAML structures and already-flat keys.
func (t ThemeConfig) FlattenedColors() map[string]string {
	result := make(map[string]string)
	flattenColors("", t.Colors, result)
	return result
}

// flattenColors recursively flattens a nested map into dot-notation keys.
func flattenColors(prefix string, m map[string]any, result map[string]string) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case string:
			result[key] = val
		case map[string]any:
			flattenColors(key, val, result)
		case map[any]any:
			// YAML sometimes produces map[any]any instead of map[string]any
			converted := make(map[string]any)
			for mk, mv := range val {
				if strKey, ok := mk.(string); ok {
					converted[strKey] = mv
				}
			}
			flattenColors(key, converted, result)
		}
	}
}

// TracingConfig holds distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter" yaml:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/scrollmem/traces/traces.jsonl
	FilePath string `mapstructure:"file_path" yaml:"file_path,omitempty"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint" yaml:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate" yaml:"sample_rate"`
}

// SSHConfig holds settings for `scrollmem serve`.
type SSHConfig struct {
	ListenAddr         string `mapstructure:"listen_addr" yaml:"listen_addr"`
	HostKeyPath        string `mapstructure:"host_key_path" yaml:"host_key_path,omitempty"`
	AuthorizedKeysPath string `mapstructure:"authorized_keys_path" yaml:"authorized_keys_path,omitempty"`
}

// LengthPolicy converts the scroll section to the reveal policy.
func (s ScrollConfig) LengthPolicy() reveal.LengthPolicy {
	return reveal.LengthPolicy{Ratio: s.Ratio, Min: s.Min, Max: s.Max}
}

// Options converts the tracing section to a tracing.Config, filling the
// file path default when it is empty.
func (t TracingConfig) Options() tracing.Config {
	cfg := tracing.DefaultConfig()
	cfg.Enabled = t.Enabled
	if t.Exporter != "" {
		cfg.Exporter = t.Exporter
	}
	cfg.FilePath = t.FilePath
	if cfg.FilePath == "" {
		cfg.FilePath = DefaultTracesFilePath()
	}
	if t.OTLPEndpoint != "" {
		cfg.OTLPEndpoint = t.OTLPEndpoint
	}
	if t.SampleRate > 0 {
		cfg.SampleRate = t.SampleRate
	}
	return cfg
}

// ConfigDir returns ~/.config/scrollmem or empty string if home dir unavailable.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "scrollmem")
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/scrollmem/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "traces", "traces.jsonl")
}

// DefaultHostKeyPath returns where `serve` keeps its generated host key.
func DefaultHostKeyPath() string {
	dir := ConfigDir()
	if dir == "" {
		return filepath.Join(".scrollmem", "ssh_host_ed25519")
	}
	return filepath.Join(dir, "ssh_host_ed25519")
}

// Validate checks the whole configuration and returns the first problem,
// naming the offending key.
func Validate(cfg Config) error {
	if !reveal.Mode(cfg.Mode).Valid() {
		return fmt.Errorf("mode must be %q or %q, got %q", reveal.ModeElement, reveal.ModePage, cfg.Mode)
	}
	if err := ValidateScroll(cfg.Scroll); err != nil {
		return err
	}
	if err := ValidateUI(cfg.UI); err != nil {
		return err
	}
	if err := ValidateTracing(cfg.Tracing); err != nil {
		return err
	}
	return nil
}

// ValidateScroll checks the scroll length policy.
func ValidateScroll(s ScrollConfig) error {
	if err := s.LengthPolicy().Validate(); err != nil {
		return fmt.Errorf("scroll: %w", err)
	}
	if s.UnitsPerRow <= 0 {
		return fmt.Errorf("scroll.units_per_row must be positive, got %d", s.UnitsPerRow)
	}
	if s.Step <= 0 {
		return fmt.Errorf("scroll.step must be positive, got %d", s.Step)
	}
	return nil
}

// narrow measures ambiguous-width glyphs such as the default block as one cell
// regardless of locale.
var narrow = &runewidth.Condition{EastAsianWidth: false}

// ValidateUI checks the mask glyph and frame rate.
func ValidateUI(ui UIConfig) error {
	if utf8.RuneCountInString(ui.MaskChar) != 1 {
		return fmt.Errorf("ui.mask_char must be a single character, got %q", ui.MaskChar)
	}
	if narrow.StringWidth(ui.MaskChar) != 1 {
		return fmt.Errorf("ui.mask_char must be one cell wide, got %q", ui.MaskChar)
	}
	if ui.FrameRate < 1 || ui.FrameRate > 240 {
		return fmt.Errorf("ui.frame_rate must be between 1 and 240, got %d", ui.FrameRate)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Only validate endpoint requirements when tracing is enabled
	if tracing.Enabled && tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}

	return nil
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Mode:  string(reveal.ModeElement),
		Watch: true,
		Scroll: ScrollConfig{
			Ratio:       reveal.DefaultLengthRatio,
			Min:         reveal.DefaultMinLength,
			Max:         reveal.DefaultMaxLength,
			UnitsPerRow: reveal.DefaultUnitsPerRow,
			Step:        50,
		},
		UI: UIConfig{
			ShowStatusBar: true,
			ShowScrollbar: true,
			MaskChar:      "█",
			FrameRate:     60,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
		SSH: SSHConfig{
			ListenAddr: ":2323",
		},
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Scrollmem Configuration

# Where scrolling is measured:
#   element - only the preview pane scrolls (default)
#   page    - the whole screen scrolls as one document
# Toggle at runtime with ctrl+t.
mode: element

# Optional text file to memorize. When empty, type or paste into the editor.
# text_file: ~/notes/poem.txt

# Reload text_file when it changes on disk
watch: true

# Scroll length: how far you scroll to reveal the whole text.
# The automatic length is words * ratio, kept between min and max.
scroll:
  ratio: 12
  min: 400
  max: 6000
  units_per_row: 20   # length units per blank row below the text
  step: 50            # slider step for left/right (shift moves 10x)

# UI settings
ui:
  show_status_bar: true
  show_scrollbar: true
  mask_char: "█"      # glyph drawn over hidden words
  frame_rate: 60      # reveal recomputations per second at most

# Theme configuration
theme:
  # preset: dracula
  #
  # Available presets:
  #   default        - Default scrollmem theme
  #   dracula        - Dark theme with vibrant colors
  #   nord           - Arctic, north-bluish palette
  #   high-contrast  - High contrast for accessibility
  #
  # Override specific colors (works with or without preset):
  # colors:
  #   text.revealed: "#FFFFFF"
  #   text.masked: "#444444"

# Distributed tracing of reveal sessions
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/scrollmem/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)

# SSH server settings for 'scrollmem serve'
ssh:
  listen_addr: ":2323"
  # host_key_path: ~/.config/scrollmem/ssh_host_ed25519
  # authorized_keys_path: ~/.ssh/authorized_keys
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
