//go:build darwin || linux

package layout

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/creack/pty"
	"github.com/penwyp/go-timeline-clock/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizerViewport(t *testing.T) {
	tests := []struct {
		name           string
		winsize        pty.Winsize
		reportedPixels bool
		wantCols       int
		wantRows       int
		wantCellWidth  float64
		wantCellHeight float64
	}{
		{
			name:           "standard terminal without pixel report",
			winsize:        pty.Winsize{Cols: 80, Rows: 24},
			reportedPixels: true,
			wantCols:       80,
			wantRows:       24,
			wantCellWidth:  8,
			wantCellHeight: 16,
		},
		{
			name:           "terminal reporting pixels",
			winsize:        pty.Winsize{Cols: 100, Rows: 30, X: 1000, Y: 600},
			reportedPixels: true,
			wantCols:       100,
			wantRows:       30,
			wantCellWidth:  10,
			wantCellHeight: 20,
		},
		{
			name:           "reported pixels ignored",
			winsize:        pty.Winsize{Cols: 100, Rows: 30, X: 1000, Y: 600},
			reportedPixels: false,
			wantCols:       100,
			wantRows:       30,
			wantCellWidth:  8,
			wantCellHeight: 16,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ptmx, tty, err := pty.Open()
			if err != nil {
				t.Skipf("pty not available: %v", err)
			}
			defer ptmx.Close()
			defer tty.Close()

			winsize := tt.winsize
			require.NoError(t, pty.Setsize(ptmx, &winsize))

			sizer := NewSizer(int(tty.Fd()), 8, 16, tt.reportedPixels)
			v, err := sizer.Viewport()
			require.NoError(t, err)

			assert.Equal(t, tt.wantCols, v.Cols)
			assert.Equal(t, tt.wantRows, v.Rows)
			assert.Equal(t, tt.wantCellWidth, v.CellWidth)
			assert.Equal(t, tt.wantCellHeight, v.CellHeight)
		})
	}
}

func TestSizerViewportNotATerminal(t *testing.T) {
	sizer := NewSizer(-1, 8, 16, true)
	_, err := sizer.Viewport()
	assert.Error(t, err)
}

func TestMeasureText(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		cellWidth float64
		want      float64
	}{
		{name: "time label", text: "12:00 AM", cellWidth: 8, want: 64},
		{name: "date label", text: "Wed Mar 5", cellWidth: 8, want: 72},
		{name: "wider cells", text: "01:05 PM", cellWidth: 10, want: 80},
		{name: "wider than a narrow terminal", text: "Wednesday Mar 5", cellWidth: 8, want: 120},
		{name: "wide runes", text: "三月", cellWidth: 8, want: 32},
		{name: "empty", text: "", cellWidth: 8, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MeasureText(tt.text, tt.cellWidth))
		})
	}
}

func TestSizerLogsOnlyChanges(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pty not available: %v", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	path := filepath.Join(t.TempDir(), "sizer.log")
	require.NoError(t, util.InitLogger(util.LoggerOptions{Level: "debug", File: path}))
	defer util.CloseLogger()

	require.NoError(t, pty.Setsize(ptmx, &pty.Winsize{Cols: 80, Rows: 24}))
	sizer := NewSizer(int(tty.Fd()), 8, 16, false)
	for i := 0; i < 5; i++ {
		_, err := sizer.Viewport()
		require.NoError(t, err)
	}

	require.NoError(t, pty.Setsize(ptmx, &pty.Winsize{Cols: 100, Rows: 30}))
	for i := 0; i < 5; i++ {
		_, err := sizer.Viewport()
		require.NoError(t, err)
	}
	require.NoError(t, util.CloseLogger())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Equal(t, 2, strings.Count(content, "Viewport "))
	assert.Contains(t, content, "Viewport 80x24 cells")
	assert.Contains(t, content, "Viewport 100x30 cells")
}
