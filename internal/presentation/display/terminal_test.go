package display

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/penwyp/go-timeline-clock/internal/core/calibration"
	"github.com/penwyp/go-timeline-clock/internal/core/model"
	"github.com/penwyp/go-timeline-clock/internal/testing/e2e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var smallViewport = model.Viewport{Cols: 40, Rows: 12, CellWidth: 8, CellHeight: 16}

type stubSizer struct {
	viewport model.Viewport
	err      error
}

func (s *stubSizer) Viewport() (model.Viewport, error) {
	return s.viewport, s.err
}

func labeled(position float64, dateText string) model.TimeMarker {
	return model.TimeMarker{
		Timestamp:      time.Date(2025, time.March, 5, 13, 0, 0, 0, time.Local),
		Position:       position,
		Granularity:    model.GranularityFifteenMinute,
		IsHourBoundary: true,
		TimeText:       "01:00 PM",
		DateText:       dateText,
	}
}

func newTestDisplay(t *testing.T, plain bool) (*TerminalDisplay, *e2e.TerminalScreen) {
	t.Helper()
	screen := e2e.NewTerminalScreen(smallViewport.Rows, smallViewport.Cols)
	td := NewTerminalDisplay(screen, &stubSizer{viewport: smallViewport}, DisplayConfig{Padding: 20, Plain: plain})
	v, err := td.Viewport()
	require.NoError(t, err)
	require.Equal(t, smallViewport, v)
	return td, screen
}

func TestTerminalDisplayAlternateScreen(t *testing.T) {
	td, screen := newTestDisplay(t, true)

	td.EnterAlternateScreen()
	assert.True(t, screen.InAltScreen())
	assert.False(t, screen.CursorVisible())

	td.ExitAlternateScreen()
	assert.False(t, screen.InAltScreen())
	assert.True(t, screen.CursorVisible())
}

func TestTerminalDisplayFlush(t *testing.T) {
	for _, plain := range []bool{true, false} {
		t.Run(map[bool]string{true: "plain", false: "styled"}[plain], func(t *testing.T) {
			td, screen := newTestDisplay(t, plain)

			td.ReplaceMarkers([]model.TimeMarker{labeled(160, "Wed Mar 5")})
			td.SetTranslation(-64)
			td.SetReferenceLine(model.FullWidthLine(48))
			td.SetReadouts("12:55 PM", "Wed Mar 5")
			require.NoError(t, td.Flush())

			assert.Equal(t, "   01:00 PM "+strings.Repeat("─", 15)+" Wed Mar 5   ", screen.GetLine(6))
			assert.Equal(t, strings.Repeat("━", 40), screen.GetLine(3))
			assert.True(t, strings.HasSuffix(screen.GetLine(11), "12:55 PM  Wed Mar 5 "))
		})
	}
}

func TestTerminalDisplaySmartRender(t *testing.T) {
	td, screen := newTestDisplay(t, true)
	td.SetReadouts("12:55 PM", "")
	require.NoError(t, td.Flush())
	writes := screen.Writes()

	// Nothing changed, nothing written
	require.NoError(t, td.Flush())
	assert.Equal(t, writes, screen.Writes())

	td.SetReadouts("12:56 PM", "")
	require.NoError(t, td.Flush())
	assert.Equal(t, writes+1, screen.Writes())
	assert.Contains(t, screen.GetLine(11), "12:56 PM")
	assert.NotContains(t, screen.Render(), "12:55 PM")
}

func TestTerminalDisplayResizeRedraws(t *testing.T) {
	sizer := &stubSizer{viewport: smallViewport}
	screen := e2e.NewTerminalScreen(12, 40)
	td := NewTerminalDisplay(screen, sizer, DisplayConfig{Padding: 20, Plain: true})

	_, err := td.Viewport()
	require.NoError(t, err)
	td.SetReadouts("12:55 PM", "")
	require.NoError(t, td.Flush())

	sizer.viewport.Cols = 30
	_, err = td.Viewport()
	require.NoError(t, err)
	require.NoError(t, td.Flush())

	// Full redraw clears the old right-aligned readout
	assert.Equal(t, strings.Repeat(" ", 21)+"12:55 PM"+strings.Repeat(" ", 11), screen.GetLine(11))
}

func TestTerminalDisplayViewportError(t *testing.T) {
	td := NewTerminalDisplay(e2e.NewTerminalScreen(1, 1), &stubSizer{err: errors.New("not a terminal")}, DisplayConfig{})
	_, err := td.Viewport()
	assert.Error(t, err)
}

func TestTerminalDisplayProbe(t *testing.T) {
	td, _ := newTestDisplay(t, true)

	result, err := td.Probe(labeled(0, "Wed Mar 5"))
	require.NoError(t, err)
	assert.Equal(t, calibration.ProbeResult{TimeWidth: 64, DateWidth: 72, HasTime: true, HasDate: true}, result)

	result, err = td.Probe(labeled(0, ""))
	require.NoError(t, err)
	assert.True(t, result.HasTime)
	assert.False(t, result.HasDate)
	assert.Zero(t, result.DateWidth)
}

func TestTerminalDisplayProbeBeforeMeasure(t *testing.T) {
	td := NewTerminalDisplay(e2e.NewTerminalScreen(1, 1), &stubSizer{}, DisplayConfig{Padding: 20})
	_, err := td.Probe(labeled(0, "Wed Mar 5"))
	assert.ErrorIs(t, err, calibration.ErrProbeFailed)
}

func TestTerminalDisplayCalibration(t *testing.T) {
	td, _ := newTestDisplay(t, true)

	line, err := calibration.New(calibration.DefaultSettings()).Calibrate(td, labeled(0, "Wed Mar 5"), smallViewport)
	require.NoError(t, err)
	assert.Equal(t, model.ReferenceLine{Offset: 100, Left: 94, Right: 102}, line)
}
