package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-timeline-clock/internal/core/model"
	"github.com/penwyp/go-timeline-clock/internal/util"
)

// TableFormatter prints the visible markers as a bordered table, followed by
// the rendered screen when the snapshot carries one.
type TableFormatter struct {
	w       io.Writer
	headers []string
}

func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{
		w: w,
		headers: []string{
			"Time", "Step", "Label", "Date", "Position", "Screen Y",
		},
	}
}

func (f *TableFormatter) Format(s *Snapshot) error {
	var rows [][]string
	for _, m := range byPosition(s.Markers) {
		if !visible(s, m) {
			continue
		}
		rows = append(rows, f.markerRow(s, m))
	}

	widths := f.calculateColumnWidths(rows)

	var sb strings.Builder
	f.printBorder(&sb, widths, "top")
	f.printRow(&sb, f.headers, widths)
	f.printBorder(&sb, widths, "middle")
	for _, row := range rows {
		f.printRow(&sb, row, widths)
	}
	f.printBorder(&sb, widths, "bottom")

	fmt.Fprintf(&sb, "%d of %d markers visible, translation %s\n",
		len(rows), len(s.Markers), util.FormatPixels(s.Translation))

	if len(s.Screen) > 0 {
		sb.WriteString("\n")
		for _, line := range s.Screen {
			sb.WriteString(strings.TrimRight(line, " "))
			sb.WriteString("\n")
		}
	}

	_, err := io.WriteString(f.w, sb.String())
	return err
}

func (f *TableFormatter) markerRow(s *Snapshot, m model.TimeMarker) []string {
	step := m.Granularity.String()
	if m.IsHourBoundary {
		step += " ●"
	}
	return []string{
		m.Timestamp.Format("15:04"),
		step,
		m.TimeText,
		m.DateText,
		util.FormatPixels(m.Position),
		util.FormatPixels(screenY(s, m)),
	}
}

// calculateColumnWidths sizes each column to its widest cell
func (f *TableFormatter) calculateColumnWidths(rows [][]string) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = util.GetDisplayWidth(header)
	}
	for _, row := range rows {
		for i, value := range row {
			if w := util.GetDisplayWidth(value); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// printBorder prints table borders (top, middle, bottom)
func (f *TableFormatter) printBorder(sb *strings.Builder, widths []int, borderType string) {
	var left, middle, right string
	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	sb.WriteString(left)
	for i, width := range widths {
		sb.WriteString(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			sb.WriteString(middle)
		}
	}
	sb.WriteString(right + "\n")
}

// printRow prints a row; text columns are left-aligned, pixel columns right-aligned
func (f *TableFormatter) printRow(sb *strings.Builder, values []string, widths []int) {
	sb.WriteString("│")
	for i, value := range values {
		pad := strings.Repeat(" ", widths[i]-util.GetDisplayWidth(value))
		if i >= 4 {
			sb.WriteString(" " + pad + value + " │")
		} else {
			sb.WriteString(" " + value + pad + " │")
		}
	}
	sb.WriteString("\n")
}
