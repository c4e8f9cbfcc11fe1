package formatter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/penwyp/go-timeline-clock/internal/util"
)

// SummaryFormatter prints the geometry of a snapshot as a short report.
type SummaryFormatter struct {
	w io.Writer
}

func NewSummaryFormatter(w io.Writer) *SummaryFormatter {
	return &SummaryFormatter{w: w}
}

func (f *SummaryFormatter) Format(s *Snapshot) error {
	var labeled, hours int
	for _, m := range s.Markers {
		if m.Labeled() {
			labeled++
		}
		if m.IsHourBoundary {
			hours++
		}
	}

	var sb strings.Builder
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	sb.WriteString("Timeline Snapshot\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n\n")

	fmt.Fprintf(&sb, "At: %s\n", s.At.Format(time.RFC3339))
	fmt.Fprintf(&sb, "Reference: %s\n", s.Reference.Format(time.RFC3339))
	fmt.Fprintf(&sb, "Window: %s to %s (%s)\n\n",
		s.WindowStart.Format("15:04"), s.WindowEnd.Format("15:04"),
		util.FormatDuration(s.WindowEnd.Sub(s.WindowStart)))

	sb.WriteString("Viewport:\n")
	fmt.Fprintf(&sb, "  Cells: %dx%d\n", s.Viewport.Cols, s.Viewport.Rows)
	fmt.Fprintf(&sb, "  Pixels: %s x %s\n", util.FormatPixels(s.Viewport.Width()), util.FormatPixels(s.Viewport.Height()))
	fmt.Fprintf(&sb, "  Per hour: %s\n", util.FormatPixels(s.Scale.PixelsPerHour))
	fmt.Fprintf(&sb, "  Per 15 min: %s\n\n", util.FormatPixels(s.Scale.PixelsPer15Min))

	sb.WriteString("Markers:\n")
	fmt.Fprintf(&sb, "  Labeled: %d (%d on the hour)\n", labeled, hours)
	fmt.Fprintf(&sb, "  Ticks: %d\n", len(s.Markers)-labeled)
	fmt.Fprintf(&sb, "  Translation: %s\n\n", util.FormatPixels(s.Translation))

	sb.WriteString("Reference Line:\n")
	fmt.Fprintf(&sb, "  Offset: %s\n", util.FormatPixels(s.Line.Offset))
	if s.Line.FullWidth {
		sb.WriteString("  Extent: full width\n")
	} else {
		fmt.Fprintf(&sb, "  Extent: left %s, right %s\n", util.FormatPixels(s.Line.Left), util.FormatPixels(s.Line.Right))
	}
	fmt.Fprintf(&sb, "  Inset mode: %s\n", s.InsetMode)

	if s.TimeText != "" || s.DateText != "" {
		sb.WriteString("\nReadouts:\n")
		fmt.Fprintf(&sb, "  %s  %s\n", s.TimeText, s.DateText)
	}
	sb.WriteString("\n" + strings.Repeat("=", 60) + "\n")

	_, err := io.WriteString(f.w, sb.String())
	return err
}
