package layout

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/penwyp/go-timeline-clock/internal/core/model"
	"github.com/penwyp/go-timeline-clock/internal/util"
	"golang.org/x/term"
)

// Sizer reads the terminal geometry and converts cells to pixels.
type Sizer struct {
	fd             int
	cellWidth      float64
	cellHeight     float64
	reportedPixels bool
	last           model.Viewport
}

// NewSizer returns a sizer for the terminal on fd. The cell size is used
// unless reportedPixels is set and the terminal reports its pixel size.
func NewSizer(fd int, cellWidth, cellHeight float64, reportedPixels bool) *Sizer {
	return &Sizer{
		fd:             fd,
		cellWidth:      cellWidth,
		cellHeight:     cellHeight,
		reportedPixels: reportedPixels,
	}
}

// SetCellSize updates the fallback cell size.
func (s *Sizer) SetCellSize(width, height float64) {
	s.cellWidth = width
	s.cellHeight = height
}

// Viewport returns the current terminal size.
func (s *Sizer) Viewport() (model.Viewport, error) {
	cols, rows, err := term.GetSize(s.fd)
	if err != nil {
		return model.Viewport{}, fmt.Errorf("failed to read terminal size: %w", err)
	}

	v := model.Viewport{
		Cols:       cols,
		Rows:       rows,
		CellWidth:  s.cellWidth,
		CellHeight: s.cellHeight,
	}

	if s.reportedPixels && cols > 0 && rows > 0 {
		if xpix, ypix, ok := pixelSize(s.fd); ok {
			v.CellWidth = float64(xpix) / float64(cols)
			v.CellHeight = float64(ypix) / float64(rows)
		}
	}

	if v != s.last {
		util.LogDebugf("Viewport %dx%d cells, cell %.2fx%.2fpx", v.Cols, v.Rows, v.CellWidth, v.CellHeight)
		s.last = v
	}
	return v, nil
}

// MeasureText returns the natural rendered width of text in pixels, as if
// drawn on an unbounded row of cells cellWidth pixels wide.
func MeasureText(text string, cellWidth float64) float64 {
	return float64(runewidth.StringWidth(text)) * cellWidth
}
