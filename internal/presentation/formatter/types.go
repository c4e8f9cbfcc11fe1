package formatter

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/penwyp/go-timeline-clock/internal/core/model"
)

// Snapshot is one headless frame of the timeline.
type Snapshot struct {
	At          time.Time           `json:"at"`
	Viewport    model.Viewport      `json:"viewport"`
	Scale       model.Scale         `json:"scale"`
	Reference   time.Time           `json:"reference"`
	WindowStart time.Time           `json:"window_start"`
	WindowEnd   time.Time           `json:"window_end"`
	Translation float64             `json:"translation"`
	Line        model.ReferenceLine `json:"reference_line"`
	InsetMode   string              `json:"inset_mode"`
	TimeText    string              `json:"time_text,omitempty"`
	DateText    string              `json:"date_text,omitempty"`
	Markers     []model.TimeMarker  `json:"markers"`
	Screen      []string            `json:"screen,omitempty"`
}

// Formatter writes a snapshot in one output format.
type Formatter interface {
	Format(s *Snapshot) error
}

// New returns the formatter for format ("table", "json", "csv" or "summary") writing to w.
func New(format string, w io.Writer) (Formatter, error) {
	switch format {
	case "table", "":
		return NewTableFormatter(w), nil
	case "json":
		return NewJSONFormatter(w), nil
	case "csv":
		return NewCSVFormatter(w), nil
	case "summary":
		return NewSummaryFormatter(w), nil
	default:
		return nil, fmt.Errorf("invalid output format '%s': must be one of table, json, csv, summary", format)
	}
}

// byPosition returns the markers top to bottom. Labeled markers sort before
// ticks at the same position.
func byPosition(markers []model.TimeMarker) []model.TimeMarker {
	sorted := make([]model.TimeMarker, len(markers))
	copy(sorted, markers)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Position != sorted[j].Position {
			return sorted[i].Position < sorted[j].Position
		}
		return sorted[i].Labeled() && !sorted[j].Labeled()
	})
	return sorted
}

// screenY is where a marker sits on screen after the strip translation.
func screenY(s *Snapshot, m model.TimeMarker) float64 {
	return m.Position + s.Translation
}

func visible(s *Snapshot, m model.TimeMarker) bool {
	y := screenY(s, m)
	return y >= 0 && y < s.Viewport.Height()
}
