package commands

import (
	"fmt"
	"math"
	"time"

	"github.com/penwyp/go-timeline-clock/internal/application/clock"
	"github.com/penwyp/go-timeline-clock/internal/core/model"
	"github.com/penwyp/go-timeline-clock/internal/presentation/display"
	"github.com/penwyp/go-timeline-clock/internal/presentation/formatter"
	"github.com/penwyp/go-timeline-clock/internal/util"
	"github.com/spf13/cobra"
)

var (
	snapshotWidth  float64
	snapshotHeight float64
	snapshotAt     string
	snapshotOutput string
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print one headless frame of the timeline",
	Long: `Lays the timeline out for a viewport of the given pixel size at one instant
and prints the markers, the scroll translation, the reference line extent and
the readouts. Nothing is drawn on the terminal.

Examples:
  timeline-clock snapshot                                  # 800x900px, now
  timeline-clock snapshot --at 13:07 --output summary      # Today at 13:07
  timeline-clock snapshot --at 2025-03-05T13:07:30Z -o json
  timeline-clock snapshot --width 1200 --height 600 -o csv`,
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().Float64Var(&snapshotWidth, "width", 800,
		"Viewport width in pixels")
	snapshotCmd.Flags().Float64Var(&snapshotHeight, "height", 900,
		"Viewport height in pixels")
	snapshotCmd.Flags().StringVar(&snapshotAt, "at", "",
		"Instant to lay out (RFC3339 or 15:04, default now)")
	snapshotCmd.Flags().StringVarP(&snapshotOutput, "output", "o", "table",
		"Output format (table, json, csv, summary)")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	if err := initLogging(cfg); err != nil {
		return err
	}
	defer util.CloseLogger()

	at, err := parseAt(snapshotAt, time.Now())
	if err != nil {
		return err
	}
	v, err := viewportForPixels(snapshotWidth, snapshotHeight, cfg.CellWidth, cfg.CellHeight)
	if err != nil {
		return err
	}
	f, err := formatter.New(snapshotOutput, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	snap, err := takeSnapshot(v, clock.SettingsFromConfig(cfg), at)
	if err != nil {
		return err
	}
	return f.Format(snap)
}

// parseAt accepts RFC3339 or a wall-clock time on now's day.
func parseAt(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("15:04", value); err == nil {
		return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location()), nil
	}
	return time.Time{}, fmt.Errorf("invalid --at '%s': use RFC3339 or 15:04", value)
}

// viewportForPixels splits a pixel size into whole cells close to the
// configured cell size, keeping the pixel size exact.
func viewportForPixels(width, height, cellWidth, cellHeight float64) (model.Viewport, error) {
	if width <= 0 || height <= 0 {
		return model.Viewport{}, fmt.Errorf("invalid viewport %sx%s: both sides must be positive",
			util.FormatPixels(width), util.FormatPixels(height))
	}
	cols := int(math.Max(1, math.Round(width/cellWidth)))
	rows := int(math.Max(1, math.Round(height/cellHeight)))
	return model.Viewport{
		Cols:       cols,
		Rows:       rows,
		CellWidth:  width / float64(cols),
		CellHeight: height / float64(rows),
	}, nil
}

// takeSnapshot runs the clock on a headless surface for a single frame at.
func takeSnapshot(v model.Viewport, settings clock.Settings, at time.Time) (*formatter.Snapshot, error) {
	h := display.NewHeadless(v, settings.MarkerPadding)
	c := clock.New(h, settings, clock.WithTimeSource(util.NewFixedClock(at)))

	if err := c.Start(at); err != nil {
		return nil, fmt.Errorf("failed to lay out timeline: %w", err)
	}
	if err := c.Settle(at); err != nil {
		util.LogWarnf("Snapshot keeps the full-width reference line: %v", err)
	}
	if err := c.Frame(at); err != nil {
		return nil, err
	}

	state := c.DisplayState()
	l := c.Layout()
	return &formatter.Snapshot{
		At:          at,
		Viewport:    c.Viewport(),
		Scale:       l.Scale,
		Reference:   l.Reference,
		WindowStart: l.WindowStart,
		WindowEnd:   l.WindowEnd,
		Translation: state.Translation,
		Line:        state.Line,
		InsetMode:   settings.InsetMode.String(),
		TimeText:    state.TimeText,
		DateText:    state.DateText,
		Markers:     l.Markers,
		Screen:      h.Lines(),
	}, nil
}
