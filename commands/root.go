package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/penwyp/go-timeline-clock/internal/application/clock"
	"github.com/penwyp/go-timeline-clock/internal/config"
	"github.com/penwyp/go-timeline-clock/internal/presentation/display"
	"github.com/penwyp/go-timeline-clock/internal/presentation/interaction"
	"github.com/penwyp/go-timeline-clock/internal/presentation/layout"
	"github.com/penwyp/go-timeline-clock/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

var (
	// Logging related
	debug bool

	// Config file
	configPath string

	rootCmd = &cobra.Command{
		Use:   "timeline-clock [flags]",
		Short: "Scrolling vertical timeline clock for the terminal",
		Long: `timeline-clock draws a vertical strip of time markers that scrolls upward with
the wall clock. A horizontal reference line marks "now"; the visible strip
always covers three hours.

Keys: q/Esc/Ctrl+C quit, r rebuild markers, i toggle right inset, h help.

Examples:
  timeline-clock                              # Run with ~/.timeline-clock/config.toml
  timeline-clock --reference-offset 200       # Put "now" 200px below the top
  timeline-clock --right-inset fixed          # Hide dates, flat right inset
  timeline-clock --fps 30 --no-readouts       # Slower frames, no time/date readouts
  timeline-clock snapshot --output json       # Headless layout dump`,
		SilenceUsage: true,
		RunE:         runClock,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file path (default ~/.timeline-clock/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
	registerClockFlags(rootCmd.PersistentFlags())
}

// registerClockFlags adds the flags that override config file values.
func registerClockFlags(fs *pflag.FlagSet) {
	fs.Int("fps", 0, "Frames per second (1-120)")
	fs.Float64("reference-offset", 0, "Reference line offset from the top, in pixels")
	fs.String("right-inset", "", "Right inset of the reference line (date, fixed)")
	fs.Bool("no-readouts", false, "Hide the time and date readouts")
}

// applyFlagOverrides copies explicitly set flags over cfg and revalidates.
func applyFlagOverrides(cfg *config.Config, fs *pflag.FlagSet) error {
	if fs.Changed("fps") {
		v, err := fs.GetInt("fps")
		if err != nil {
			return err
		}
		cfg.FPS = v
	}
	if fs.Changed("reference-offset") {
		v, err := fs.GetFloat64("reference-offset")
		if err != nil {
			return err
		}
		cfg.ReferenceOffset = v
	}
	if fs.Changed("right-inset") {
		v, err := fs.GetString("right-inset")
		if err != nil {
			return err
		}
		cfg.RightInset = v
	}
	if fs.Changed("no-readouts") {
		v, err := fs.GetBool("no-readouts")
		if err != nil {
			return err
		}
		cfg.Readouts = !v
	}
	return cfg.Validate()
}

func loadConfig(fs *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load(resolvedConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyFlagOverrides(cfg, fs); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func resolvedConfigPath() string {
	if configPath != "" {
		return config.ExpandHome(configPath)
	}
	return config.DefaultPath()
}

func initLogging(cfg *config.Config) error {
	// Determine log level based on debug flag
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	logFile := config.DefaultLogFile()
	if err := ensureDir(filepath.Dir(logFile)); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return util.InitLogger(util.LoggerOptions{
		Level:          logLevel,
		File:           logFile,
		Format:         util.ParseLogFormat(cfg.LogFormat),
		DebugToConsole: debug,
	})
}

func runClock(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	if err := initLogging(cfg); err != nil {
		return err
	}
	defer util.CloseLogger()

	stdout := int(os.Stdout.Fd())
	if !term.IsTerminal(stdout) {
		return errors.New("stdout is not a terminal; use 'timeline-clock snapshot' for headless output")
	}

	sizer := layout.NewSizer(stdout, cfg.CellWidth, cfg.CellHeight, cfg.ReportedPixels)
	td := display.NewTerminalDisplay(os.Stdout, sizer, display.DisplayConfig{
		Padding: cfg.MarkerPadding,
		Plain:   os.Getenv("NO_COLOR") != "",
	})

	var opts []clock.Option

	keyboard, err := interaction.NewKeyboardReader(os.Stdin)
	if err != nil {
		util.LogWarnf("Keyboard input disabled: %v", err)
	} else {
		defer keyboard.Close()
		opts = append(opts, clock.WithInput(keyboard))
	}

	resize := make(chan os.Signal, 1)
	notifyResize(resize)
	defer signal.Stop(resize)
	opts = append(opts, clock.WithResizeSignals(resize))

	watcher, err := config.NewWatcher(resolvedConfigPath(), config.DefaultDebounce)
	if err != nil {
		util.LogWarnf("Config hot reload disabled: %v", err)
	} else {
		defer watcher.Close()
		flags := cmd.Flags()
		opts = append(opts, clock.WithConfigReload(watcher, func() (*config.Config, error) {
			reloaded, err := loadConfig(flags)
			if err != nil {
				return nil, err
			}
			// A new cell size shows up as a resize on the next frame
			sizer.SetCellSize(reloaded.CellWidth, reloaded.CellHeight)
			return reloaded, nil
		}))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	td.EnterAlternateScreen()
	defer td.ExitAlternateScreen()

	c := clock.New(td, clock.SettingsFromConfig(cfg), opts...)
	return c.Run(ctx)
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
