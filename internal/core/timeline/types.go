package timeline

import (
	"time"

	"github.com/penwyp/go-timeline-clock/internal/core/model"
)

// Layout is the full marker set produced by one rebuild.
// Markers hold the unlabeled ticks first, then the labeled markers.
type Layout struct {
	Reference   time.Time
	WindowStart time.Time
	WindowEnd   time.Time
	Scale       model.Scale
	Markers     []model.TimeMarker
}

// Labeled returns the fifteen-minute markers in time order.
func (l Layout) Labeled() []model.TimeMarker {
	return l.filter(model.GranularityFifteenMinute)
}

// Ticks returns the five-minute markers in time order.
func (l Layout) Ticks() []model.TimeMarker {
	return l.filter(model.GranularityFiveMinute)
}

func (l Layout) filter(g model.Granularity) []model.TimeMarker {
	out := make([]model.TimeMarker, 0, len(l.Markers))
	for _, m := range l.Markers {
		if m.Granularity == g {
			out = append(out, m)
		}
	}
	return out
}
