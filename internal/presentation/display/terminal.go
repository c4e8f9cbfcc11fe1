package display

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-timeline-clock/internal/core/calibration"
	"github.com/penwyp/go-timeline-clock/internal/core/model"
	"github.com/penwyp/go-timeline-clock/internal/presentation/layout"
	"github.com/penwyp/go-timeline-clock/internal/util"
)

// ErrDetached is returned by a surface that is no longer attached to its output.
var ErrDetached = errors.New("surface detached")

// ViewportSource reports the current terminal geometry.
type ViewportSource interface {
	Viewport() (model.Viewport, error)
}

type DisplayConfig struct {
	// Padding is the horizontal marker padding in pixels
	Padding float64
	// Plain disables colors
	Plain bool
}

// TerminalDisplay draws the timeline on an ANSI terminal.
// It is owned by a single goroutine.
type TerminalDisplay struct {
	config            DisplayConfig
	out               io.Writer
	sizer             ViewportSource
	styles            Styles
	scene             layout.Scene
	inAlternateScreen bool
	smartRender       bool     // Rewrite only changed lines
	previousScreen    []string // Styled lines of the last flush
	isFirstRender     bool
	lastViewport      model.Viewport
}

func NewTerminalDisplay(out io.Writer, sizer ViewportSource, config DisplayConfig) *TerminalDisplay {
	styles := NewStyles(out)
	if config.Plain {
		styles = PlainStyles(out)
	}
	return &TerminalDisplay{
		config:        config,
		out:           out,
		sizer:         sizer,
		styles:        styles,
		smartRender:   true,
		isFirstRender: true,
		scene:         layout.Scene{Padding: config.Padding},
	}
}

// EnterAlternateScreen switches to the alternate screen buffer and hides the cursor
func (td *TerminalDisplay) EnterAlternateScreen() {
	if td.inAlternateScreen {
		return
	}
	td.write(util.EnterAltScreen + util.ClearScreen + util.MoveCursorHome +
		util.ClearScrollback + util.ResetScrollRegion + util.HideCursor)
	td.inAlternateScreen = true
	td.isFirstRender = true
}

// ExitAlternateScreen restores the normal screen buffer
func (td *TerminalDisplay) ExitAlternateScreen() {
	if !td.inAlternateScreen {
		return
	}
	td.write(util.ClearScreen + util.MoveCursorHome + util.ShowCursor + util.ExitAltScreen)
	td.inAlternateScreen = false
}

// Viewport measures the terminal and remembers the result for the next flush.
func (td *TerminalDisplay) Viewport() (model.Viewport, error) {
	v, err := td.sizer.Viewport()
	if err != nil {
		return model.Viewport{}, err
	}
	td.scene.Viewport = v
	return v, nil
}

// Probe measures the marker's labels without drawing them.
func (td *TerminalDisplay) Probe(marker model.TimeMarker) (calibration.ProbeResult, error) {
	return probe(td.scene.Viewport, marker)
}

func (td *TerminalDisplay) ReplaceMarkers(markers []model.TimeMarker) {
	td.scene.Markers = markers
}

func (td *TerminalDisplay) SetTranslation(y float64) {
	td.scene.Translation = y
}

func (td *TerminalDisplay) SetReferenceLine(line model.ReferenceLine) {
	td.scene.Line = line
	td.scene.HasLine = true
}

func (td *TerminalDisplay) SetReadouts(timeText, dateText string) {
	td.scene.TimeText = timeText
	td.scene.DateText = dateText
}

// SetOverlay shows or hides the help box and sets the status line.
func (td *TerminalDisplay) SetOverlay(showHelp bool, status string) {
	td.scene.ShowHelp = showHelp
	td.scene.Status = status
}

// SetPadding changes the marker padding used for drawing and probing.
func (td *TerminalDisplay) SetPadding(padding float64) {
	td.scene.Padding = padding
}

// Flush draws the current scene. After the first frame only changed lines are rewritten.
func (td *TerminalDisplay) Flush() error {
	grid := layout.Compose(td.scene)
	lines := make([]string, grid.Rows)
	for r := range lines {
		lines[r] = td.styles.RenderRow(grid, r)
	}

	var sb strings.Builder
	full := td.isFirstRender || !td.smartRender || td.scene.Viewport != td.lastViewport ||
		len(lines) != len(td.previousScreen)
	if full {
		sb.WriteString(util.ClearScreen)
		sb.WriteString(util.MoveCursorHome)
	}
	changed := 0
	for r, line := range lines {
		if !full && line == td.previousScreen[r] {
			continue
		}
		sb.WriteString(util.MoveCursor(r+1, 1))
		sb.WriteString(line)
		changed++
	}

	if sb.Len() > 0 {
		if _, err := io.WriteString(td.out, sb.String()); err != nil {
			return fmt.Errorf("failed to write frame: %w", err)
		}
	}
	if full {
		util.LogDebugf("Full redraw of %d lines", len(lines))
	}

	td.previousScreen = lines
	td.lastViewport = td.scene.Viewport
	td.isFirstRender = false
	return nil
}

// Invalidate forces the next flush to redraw the whole screen.
func (td *TerminalDisplay) Invalidate() {
	td.isFirstRender = true
}

func (td *TerminalDisplay) write(s string) {
	if _, err := io.WriteString(td.out, s); err != nil {
		util.LogWarnf("Failed to write terminal control sequence: %v", err)
	}
}

// probe measures marker's labels at their natural width, independent of
// how many columns the viewport leaves for them.
func probe(v model.Viewport, marker model.TimeMarker) (calibration.ProbeResult, error) {
	if v.Cols <= 0 || v.CellWidth <= 0 {
		return calibration.ProbeResult{}, fmt.Errorf("%w: viewport not measured", calibration.ErrProbeFailed)
	}
	return calibration.ProbeResult{
		TimeWidth: layout.MeasureText(marker.TimeText, v.CellWidth),
		DateWidth: layout.MeasureText(marker.DateText, v.CellWidth),
		HasTime:   marker.TimeText != "",
		HasDate:   marker.DateText != "",
	}, nil
}
