package formatter

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

type CSVFormatter struct {
	w io.Writer
}

func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{w: w}
}

// Format writes one record per marker, top to bottom.
func (f *CSVFormatter) Format(s *Snapshot) error {
	w := csv.NewWriter(f.w)

	headers := []string{
		"Timestamp", "Step", "Hour", "Position", "Screen Y", "Visible", "Time", "Date",
	}
	if err := w.Write(headers); err != nil {
		return err
	}

	for _, m := range byPosition(s.Markers) {
		record := []string{
			m.Timestamp.Format(time.RFC3339),
			m.Granularity.String(),
			strconv.FormatBool(m.IsHourBoundary),
			strconv.FormatFloat(m.Position, 'f', 2, 64),
			strconv.FormatFloat(screenY(s, m), 'f', 2, 64),
			strconv.FormatBool(visible(s, m)),
			m.TimeText,
			m.DateText,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
