package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/penwyp/go-timeline-clock/internal/config"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClockFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	registerClockFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestApplyFlagOverrides(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		check   func(t *testing.T, cfg *config.Config)
		wantErr bool
	}{
		{
			name: "no flags keeps config",
			args: nil,
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, config.Default(), cfg)
			},
		},
		{
			name: "all overrides",
			args: []string{"--fps", "30", "--reference-offset", "250", "--right-inset", "fixed", "--no-readouts"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, 30, cfg.FPS)
				assert.Equal(t, 250.0, cfg.ReferenceOffset)
				assert.Equal(t, "fixed", cfg.RightInset)
				assert.False(t, cfg.Readouts)
			},
		},
		{
			name:    "fps out of range",
			args:    []string{"--fps", "500"},
			wantErr: true,
		},
		{
			name:    "unknown inset mode",
			args:    []string{"--right-inset", "wide"},
			wantErr: true,
		},
		{
			name:    "negative offset",
			args:    []string{"--reference-offset", "-5"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			err := applyFlagOverrides(cfg, newClockFlags(t, tt.args...))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadConfigAppliesFlagsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("fps = 24\nreference_offset = 300\n"), 0644))

	previous := configPath
	configPath = path
	t.Cleanup(func() { configPath = previous })

	cfg, err := loadConfig(newClockFlags(t, "--reference-offset", "150"))
	require.NoError(t, err)
	assert.Equal(t, 24, cfg.FPS)
	assert.Equal(t, 150.0, cfg.ReferenceOffset)
}

func TestResolvedConfigPath(t *testing.T) {
	previous := configPath
	t.Cleanup(func() { configPath = previous })

	t.Setenv("TIMELINE_CLOCK_CONFIG", "/etc/timeline-clock.toml")
	configPath = ""
	assert.Equal(t, "/etc/timeline-clock.toml", resolvedConfigPath())

	configPath = "/tmp/custom.toml"
	assert.Equal(t, "/tmp/custom.toml", resolvedConfigPath())
}

func TestEnsureDir(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test", "nested", "dir")

	err := ensureDir(testDir)
	assert.NoError(t, err)

	// Verify directory was created
	info, err := os.Stat(testDir)
	assert.NoError(t, err)
	assert.True(t, info.IsDir())

	// Test idempotency
	err = ensureDir(testDir)
	assert.NoError(t, err)
}
