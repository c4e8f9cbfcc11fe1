// Package config loads the clock settings: defaults, then the TOML file,
// then TIMELINE_CLOCK_* environment variables. Command-line flags are applied
// last by the caller.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/penwyp/go-timeline-clock/internal/core/calibration"
	"github.com/penwyp/go-timeline-clock/internal/core/constants"
	"github.com/penwyp/go-timeline-clock/internal/util"
)

const (
	envPrefix      = "TIMELINE_CLOCK_"
	defaultBaseDir = "~/.timeline-clock"
)

// Config holds every tunable of the clock.
type Config struct {
	FPS             int     `toml:"fps"`
	ReferenceOffset float64 `toml:"reference_offset"`
	RightInset      string  `toml:"right_inset"`
	Readouts        bool    `toml:"readouts"`
	CellWidth       float64 `toml:"cell_width"`
	CellHeight      float64 `toml:"cell_height"`
	ReportedPixels  bool    `toml:"use_reported_pixels"`
	MarkerPadding   float64 `toml:"marker_padding"`
	LogFormat       string  `toml:"log_format"`
}

// Default returns the stock settings.
func Default() *Config {
	return &Config{
		FPS:             constants.DefaultFPS,
		ReferenceOffset: constants.DefaultReferenceOffset,
		RightInset:      calibration.RightInsetDate.String(),
		Readouts:        true,
		CellWidth:       constants.DefaultCellWidth,
		CellHeight:      constants.DefaultCellHeight,
		ReportedPixels:  true,
		MarkerPadding:   constants.DefaultMarkerPadding,
		LogFormat:       string(util.FormatText),
	}
}

// BaseDir is where the config file and logs live.
func BaseDir() string {
	return ExpandHome(defaultBaseDir)
}

// DefaultPath returns the config file path, honoring TIMELINE_CLOCK_CONFIG.
func DefaultPath() string {
	if env := os.Getenv(envPrefix + "CONFIG"); env != "" {
		return ExpandHome(env)
	}
	return filepath.Join(BaseDir(), "config.toml")
}

// DefaultLogFile returns the log file path.
func DefaultLogFile() string {
	return filepath.Join(BaseDir(), "logs", "app.log")
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		// No home in some containers
		home = os.TempDir()
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()

	if data, err := os.ReadFile(path); err == nil {
		meta, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
		for _, key := range meta.Undecoded() {
			util.LogWarnf("Unknown config key '%s' in %s", key.String(), path)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides fields from TIMELINE_CLOCK_* variables (Env > TOML > Default).
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(envPrefix + name)
		if !ok || strings.TrimSpace(v) == "" {
			return "", false
		}
		return strings.TrimSpace(v), true
	}

	if v, ok := get("FPS"); ok {
		fps, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sFPS '%s': %w", envPrefix, v, err)
		}
		c.FPS = fps
	}

	floats := []struct {
		name  string
		field *float64
	}{
		{"REFERENCE_OFFSET", &c.ReferenceOffset},
		{"CELL_WIDTH", &c.CellWidth},
		{"CELL_HEIGHT", &c.CellHeight},
		{"MARKER_PADDING", &c.MarkerPadding},
	}
	for _, f := range floats {
		v, ok := get(f.name)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s%s '%s': %w", envPrefix, f.name, v, err)
		}
		*f.field = parsed
	}

	bools := []struct {
		name  string
		field *bool
	}{
		{"READOUTS", &c.Readouts},
		{"USE_REPORTED_PIXELS", &c.ReportedPixels},
	}
	for _, b := range bools {
		if v, ok := get(b.name); ok {
			*b.field = v == "1" || strings.EqualFold(v, "true")
		}
	}

	if v, ok := get("RIGHT_INSET"); ok {
		c.RightInset = v
	}
	if v, ok := get("LOG_FORMAT"); ok {
		c.LogFormat = v
	}
	return nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if c.FPS < constants.MinFPS || c.FPS > constants.MaxFPS {
		return fmt.Errorf("invalid fps %d: must be between %d and %d", c.FPS, constants.MinFPS, constants.MaxFPS)
	}
	if c.ReferenceOffset < 0 {
		return fmt.Errorf("invalid reference_offset %.1f: must not be negative", c.ReferenceOffset)
	}
	if c.CellWidth <= 0 || c.CellHeight <= 0 {
		return fmt.Errorf("invalid cell size %.1fx%.1f: both sides must be positive", c.CellWidth, c.CellHeight)
	}
	if c.MarkerPadding < 0 {
		return fmt.Errorf("invalid marker_padding %.1f: must not be negative", c.MarkerPadding)
	}
	if _, err := calibration.ParseRightInsetMode(c.RightInset); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case string(util.FormatText), string(util.FormatJSON):
	default:
		return fmt.Errorf("invalid log_format '%s': must be either 'text' or 'json'", c.LogFormat)
	}
	return nil
}

// InsetMode returns the parsed right inset mode. Call after Validate.
func (c *Config) InsetMode() calibration.RightInsetMode {
	mode, _ := calibration.ParseRightInsetMode(c.RightInset)
	return mode
}

// FrameInterval is the time between two frames.
func (c *Config) FrameInterval() time.Duration {
	fps := c.FPS
	if fps < constants.MinFPS {
		fps = constants.MinFPS
	}
	return time.Second / time.Duration(fps)
}

// CalibrationSettings returns the reference line geometry for these settings.
func (c *Config) CalibrationSettings() calibration.Settings {
	return calibration.Settings{
		Offset:  c.ReferenceOffset,
		Padding: c.MarkerPadding,
		Gap:     constants.ReferenceGap,
		Mode:    c.InsetMode(),
	}
}
