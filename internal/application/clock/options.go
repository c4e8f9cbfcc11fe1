package clock

import (
	"os"
	"time"

	"github.com/penwyp/go-timeline-clock/internal/config"
	"github.com/penwyp/go-timeline-clock/internal/core/calibration"
	"github.com/penwyp/go-timeline-clock/internal/core/constants"
	"github.com/penwyp/go-timeline-clock/internal/util"
)

// Settings are the clock's tunables.
type Settings struct {
	ReferenceOffset float64
	MarkerPadding   float64
	InsetMode       calibration.RightInsetMode
	Readouts        bool
	FrameInterval   time.Duration
}

// DefaultSettings matches config.Default.
func DefaultSettings() Settings {
	return Settings{
		ReferenceOffset: constants.DefaultReferenceOffset,
		MarkerPadding:   constants.DefaultMarkerPadding,
		InsetMode:       calibration.RightInsetDate,
		Readouts:        true,
		FrameInterval:   time.Second / constants.DefaultFPS,
	}
}

// SettingsFromConfig converts a validated config.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		ReferenceOffset: cfg.ReferenceOffset,
		MarkerPadding:   cfg.MarkerPadding,
		InsetMode:       cfg.InsetMode(),
		Readouts:        cfg.Readouts,
		FrameInterval:   cfg.FrameInterval(),
	}
}

func (s Settings) calibration() calibration.Settings {
	return calibration.Settings{
		Offset:  s.ReferenceOffset,
		Padding: s.MarkerPadding,
		Gap:     constants.ReferenceGap,
		Mode:    s.InsetMode,
	}
}

// Option configures a Clock.
type Option func(*Clock)

// WithTimeSource replaces the host clock.
func WithTimeSource(source util.Clock) Option {
	return func(c *Clock) {
		c.now = source
	}
}

// WithInput delivers key presses to the control loop.
func WithInput(input InputHandler) Option {
	return func(c *Clock) {
		c.input = input
	}
}

// WithResizeSignals delivers terminal resize notifications (SIGWINCH).
func WithResizeSignals(ch <-chan os.Signal) Option {
	return func(c *Clock) {
		c.resize = ch
	}
}

// WithConfigReload re-reads the config with load whenever source fires.
func WithConfigReload(source ConfigSource, load func() (*config.Config, error)) Option {
	return func(c *Clock) {
		c.reloads = source
		c.loadConfig = load
	}
}
