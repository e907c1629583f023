package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/scrollmem/internal/app"
	"github.com/zjrosen/scrollmem/internal/config"
	"github.com/zjrosen/scrollmem/internal/log"
	"github.com/zjrosen/scrollmem/internal/tokenizer"
	"github.com/zjrosen/scrollmem/internal/tracing"
	"github.com/zjrosen/scrollmem/internal/ui/styles"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in the editor.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

const (
	localConfigPath = ".scrollmem/config.yaml"
	tokenCacheTTL   = 10 * time.Minute
)

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:   "scrollmem",
	Short: "Memorize text by revealing it as you scroll",
	Long: `scrollmem shows a text with every word masked and reveals it word by
word as you scroll the preview. Type or paste the passage into the editor,
or load it from a file that is reloaded whenever it changes on disk.`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/scrollmem/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write debug logs to debug.log and show the latest entry in the footer")
	rootCmd.Flags().StringP("file", "f", "",
		"text file to memorize")
	rootCmd.Flags().StringP("mode", "m", "",
		"scroll mode: element (preview pane scrolls) or page (whole screen scrolls)")
	rootCmd.Flags().Bool("no-watch", false,
		"do not reload the text file when it changes")

	_ = viper.BindPFlag("text_file", rootCmd.Flags().Lookup("file"))
	_ = viper.BindPFlag("mode", rootCmd.Flags().Lookup("mode"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("mode", defaults.Mode)
	viper.SetDefault("watch", defaults.Watch)
	viper.SetDefault("scroll.ratio", defaults.Scroll.Ratio)
	viper.SetDefault("scroll.min", defaults.Scroll.Min)
	viper.SetDefault("scroll.max", defaults.Scroll.Max)
	viper.SetDefault("scroll.units_per_row", defaults.Scroll.UnitsPerRow)
	viper.SetDefault("scroll.step", defaults.Scroll.Step)
	viper.SetDefault("ui.show_status_bar", defaults.UI.ShowStatusBar)
	viper.SetDefault("ui.show_scrollbar", defaults.UI.ShowScrollbar)
	viper.SetDefault("ui.mask_char", defaults.UI.MaskChar)
	viper.SetDefault("ui.frame_rate", defaults.UI.FrameRate)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("ssh.listen_addr", defaults.SSH.ListenAddr)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .scrollmem/config.yaml (current directory)
		// 2. ~/.config/scrollmem/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else {
			viper.AddConfigPath(config.ConfigDir())
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default in the user config dir
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if dir := config.ConfigDir(); dir != "" {
				defaultPath := filepath.Join(dir, "config.yaml")
				if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
					viper.SetConfigFile(defaultPath)
					_ = viper.ReadInConfig()
				}
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	cfg = config.Config{}
	_ = viper.Unmarshal(&cfg)
}

// appEnv holds the process-wide pieces shared by every session.
type appEnv struct {
	debug     bool
	tokenizer *tokenizer.Cache
	tracer    trace.Tracer
	cleanups  []func()
}

func (r *appEnv) close() {
	for i := len(r.cleanups) - 1; i >= 0; i-- {
		r.cleanups[i]()
	}
}

// setup validates the config and starts logging, theming and tracing.
func setup(prefix string) (*appEnv, error) {
	rt := &appEnv{debug: os.Getenv("SCROLLMEM_DEBUG") != "" || debugFlag}

	if rt.debug {
		logPath := os.Getenv("SCROLLMEM_LOG")
		if logPath == "" {
			logPath = "debug.log"
		}
		cleanup, err := log.InitWithTeaLog(logPath, prefix)
		if err != nil {
			return nil, fmt.Errorf("initializing logging: %w", err)
		}
		rt.cleanups = append(rt.cleanups, cleanup)
		log.Info(log.CatConfig, "scrollmem starting", "debug", true, "logPath", logPath, "config", viper.ConfigFileUsed())
	}

	if err := config.Validate(cfg); err != nil {
		rt.close()
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := styles.ApplyTheme(styles.ThemeConfig{
		Preset: cfg.Theme.Preset,
		Colors: cfg.Theme.FlattenedColors(),
	}); err != nil {
		rt.close()
		return nil, fmt.Errorf("invalid theme: %w", err)
	}

	provider, err := tracing.NewProvider(cfg.Tracing.Options())
	if err != nil {
		// Tracing is optional; carry on without it.
		log.ErrorErr(log.CatTrace, "Failed to start tracing", err)
		provider, _ = tracing.NewProvider(tracing.Config{})
	}
	rt.tracer = provider.Tracer()
	rt.cleanups = append(rt.cleanups, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatTrace, "Failed to flush traces", err)
		}
	})

	rt.tokenizer = tokenizer.NewInMemoryCache(tokenCacheTTL)
	return rt, nil
}

// loadText reads the text file, or returns "" when none is configured.
func loadText(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: user-chosen text file
	if err != nil {
		return "", fmt.Errorf("reading text file: %w", err)
	}
	return string(data), nil
}

func runApp(cmd *cobra.Command, _ []string) error {
	if noWatch, _ := cmd.Flags().GetBool("no-watch"); noWatch {
		cfg.Watch = false
	}

	rt, err := setup("scrollmem")
	if err != nil {
		return err
	}
	defer rt.close()

	text, err := loadText(cfg.TextFile)
	if err != nil {
		return err
	}

	model := app.New(app.Options{
		Config:    cfg,
		Text:      text,
		TextFile:  cfg.TextFile,
		Debug:     rt.debug,
		Tokenizer: rt.tokenizer,
		Tracer:    rt.tracer,
		Context:   cmd.Context(),
	})
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err = p.Run()

	// Clean up watcher resources
	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
