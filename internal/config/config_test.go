package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/penwyp/go-timeline-clock/internal/core/calibration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 60, cfg.FPS)
	assert.Equal(t, 100.0, cfg.ReferenceOffset)
	assert.Equal(t, "date", cfg.RightInset)
	assert.True(t, cfg.Readouts)
	assert.Equal(t, calibration.RightInsetDate, cfg.InsetMode())
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
fps = 30
reference_offset = 150
right_inset = "fixed"
readouts = false
cell_width = 9
cell_height = 18
use_reported_pixels = false
marker_padding = 12
log_format = "json"
unknown_key = 1
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, &Config{
		FPS:             30,
		ReferenceOffset: 150,
		RightInset:      "fixed",
		Readouts:        false,
		CellWidth:       9,
		CellHeight:      18,
		ReportedPixels:  false,
		MarkerPadding:   12,
		LogFormat:       "json",
	}, cfg)
	assert.Equal(t, calibration.RightInsetFixed, cfg.InsetMode())
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "fps = 24\n"))
	require.NoError(t, err)

	expected := Default()
	expected.FPS = 24
	assert.Equal(t, expected, cfg)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bad syntax", content: "fps = = 3"},
		{name: "wrong type", content: `fps = "fast"`},
		{name: "out of range", content: "fps = 500"},
		{name: "bad inset", content: `right_inset = "middle"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "fps = 30\nright_inset = \"date\"\n")

	t.Setenv("TIMELINE_CLOCK_FPS", "12")
	t.Setenv("TIMELINE_CLOCK_REFERENCE_OFFSET", "64.5")
	t.Setenv("TIMELINE_CLOCK_RIGHT_INSET", "fixed")
	t.Setenv("TIMELINE_CLOCK_READOUTS", "false")
	t.Setenv("TIMELINE_CLOCK_CELL_HEIGHT", "20")
	t.Setenv("TIMELINE_CLOCK_MARKER_PADDING", " ")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.FPS)
	assert.Equal(t, 64.5, cfg.ReferenceOffset)
	assert.Equal(t, "fixed", cfg.RightInset)
	assert.False(t, cfg.Readouts)
	assert.Equal(t, 20.0, cfg.CellHeight)
	assert.Equal(t, Default().MarkerPadding, cfg.MarkerPadding)
}

func TestLoadEnvInvalid(t *testing.T) {
	t.Setenv("TIMELINE_CLOCK_CELL_WIDTH", "wide")
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorContains(t, err, "TIMELINE_CLOCK_CELL_WIDTH")
}

func TestDefaultPathFromEnv(t *testing.T) {
	t.Setenv("TIMELINE_CLOCK_CONFIG", "/etc/timeline/config.toml")
	assert.Equal(t, "/etc/timeline/config.toml", DefaultPath())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "min fps", mutate: func(c *Config) { c.FPS = 1 }},
		{name: "max fps", mutate: func(c *Config) { c.FPS = 120 }},
		{name: "zero fps", mutate: func(c *Config) { c.FPS = 0 }, wantErr: true},
		{name: "too fast", mutate: func(c *Config) { c.FPS = 121 }, wantErr: true},
		{name: "zero offset", mutate: func(c *Config) { c.ReferenceOffset = 0 }},
		{name: "negative offset", mutate: func(c *Config) { c.ReferenceOffset = -1 }, wantErr: true},
		{name: "zero cell width", mutate: func(c *Config) { c.CellWidth = 0 }, wantErr: true},
		{name: "negative cell height", mutate: func(c *Config) { c.CellHeight = -16 }, wantErr: true},
		{name: "negative padding", mutate: func(c *Config) { c.MarkerPadding = -2 }, wantErr: true},
		{name: "upper case inset", mutate: func(c *Config) { c.RightInset = "FIXED" }},
		{name: "unknown inset", mutate: func(c *Config) { c.RightInset = "wide" }, wantErr: true},
		{name: "json logs", mutate: func(c *Config) { c.LogFormat = "JSON" }},
		{name: "unknown log format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFrameInterval(t *testing.T) {
	cfg := Default()
	assert.Equal(t, time.Second/60, cfg.FrameInterval())

	cfg.FPS = 0
	assert.Equal(t, time.Second, cfg.FrameInterval())
}

func TestCalibrationSettings(t *testing.T) {
	cfg := Default()
	cfg.ReferenceOffset = 80
	cfg.MarkerPadding = 16
	cfg.RightInset = "fixed"

	assert.Equal(t, calibration.Settings{
		Offset:  80,
		Padding: 16,
		Gap:     10,
		Mode:    calibration.RightInsetFixed,
	}, cfg.CalibrationSettings())
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".timeline-clock"), ExpandHome("~/.timeline-clock"))
	assert.Equal(t, home, ExpandHome("~"))
	assert.Equal(t, "/var/tmp/x", ExpandHome("/var/tmp/x"))
	assert.Equal(t, "~user/x", ExpandHome("~user/x"))
	assert.Equal(t, filepath.Join(home, ".timeline-clock", "logs", "app.log"), DefaultLogFile())
}
