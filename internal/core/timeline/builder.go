package timeline

import (
	"math"
	"time"

	"github.com/penwyp/go-timeline-clock/internal/core/constants"
	"github.com/penwyp/go-timeline-clock/internal/core/model"
	"github.com/penwyp/go-timeline-clock/internal/util"
)

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithDateLabels makes labeled markers carry the short date next to the time.
func WithDateLabels(enabled bool) BuilderOption {
	return func(b *Builder) {
		b.dateLabels = enabled
	}
}

// Builder lays out markers for one viewport geometry.
// A new Builder is created whenever the viewport height or reference offset changes.
type Builder struct {
	scale      model.Scale
	offset     float64
	ratio      float64
	dateLabels bool
}

// NewBuilder returns a builder for the given viewport height and reference line offset.
func NewBuilder(viewportHeight, referenceOffset float64, opts ...BuilderOption) (*Builder, error) {
	scale, err := NewScale(viewportHeight)
	if err != nil {
		return nil, err
	}
	ratio, err := ReferenceRatio(referenceOffset, viewportHeight)
	if err != nil {
		return nil, err
	}

	b := &Builder{
		scale:  scale,
		offset: referenceOffset,
		ratio:  ratio,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

func (b *Builder) Scale() model.Scale {
	return b.scale
}

// Ratio is the reference line offset divided by the viewport height.
func (b *Builder) Ratio() float64 {
	return b.ratio
}

func (b *Builder) DateLabels() bool {
	return b.dateLabels
}

// ReferenceInstant is the instant shown at the top of the viewport when now sits on the reference line.
func (b *Builder) ReferenceInstant(now time.Time) time.Time {
	lead := time.Duration(math.Round(b.ratio * float64(constants.VisibleWindow)))
	return now.Add(-lead)
}

// WindowStart is the first labeled instant of the padded marker window for now.
func (b *Builder) WindowStart(now time.Time) time.Time {
	return RoundToQuarterHour(b.ReferenceInstant(now).Add(-constants.WindowLeadIn))
}

// RoundToQuarterHour truncates t to the previous 00/15/30/45 minute boundary of its local clock.
func RoundToQuarterHour(t time.Time) time.Time {
	excess := time.Duration(t.Minute()%15)*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
	return t.Add(-excess)
}

// Build produces the full marker set for now.
func (b *Builder) Build(now time.Time) Layout {
	reference := b.ReferenceInstant(now)
	start := RoundToQuarterHour(reference.Add(-constants.WindowLeadIn))
	end := reference.Add(constants.WindowSpan)

	labeled := make([]model.TimeMarker, 0, int(end.Sub(start)/constants.LabeledStep)+1)
	for k := 0; ; k++ {
		at := start.Add(time.Duration(k) * constants.LabeledStep)
		if at.After(end) {
			break
		}
		labeled = append(labeled, b.labeledMarker(at, float64(k)*b.scale.PixelsPer15Min))
	}

	ticks := make([]model.TimeMarker, 0, 2*len(labeled))
	for k := 0; ; k++ {
		at := start.Add(time.Duration(k) * constants.TickStep)
		if at.After(end) {
			break
		}
		if k%constants.TicksPerLabel == 0 {
			continue
		}
		ticks = append(ticks, model.TimeMarker{
			Timestamp:   at,
			Position:    float64(k) * b.scale.PixelsPer5Min,
			Granularity: model.GranularityFiveMinute,
		})
	}

	markers := make([]model.TimeMarker, 0, len(ticks)+len(labeled))
	markers = append(markers, ticks...)
	markers = append(markers, labeled...)

	return Layout{
		Reference:   reference,
		WindowStart: start,
		WindowEnd:   end,
		Scale:       b.scale,
		Markers:     markers,
	}
}

// Translation is the vertical offset applied to the strip so that the top-of-viewport
// instant for now lands at y=0. windowStart must be the start of the displayed layout;
// a zero windowStart falls back to the live window start.
func (b *Builder) Translation(now, windowStart time.Time) float64 {
	if windowStart.IsZero() {
		windowStart = b.WindowStart(now)
	}
	elapsed := b.ReferenceInstant(now).Sub(windowStart)
	topTimePosition := float64(elapsed) / float64(constants.LabeledStep) * b.scale.PixelsPer15Min
	return -topTimePosition
}

// ProbeMarker is a labeled marker used only to measure label widths.
func (b *Builder) ProbeMarker(now time.Time) model.TimeMarker {
	return b.labeledMarker(now, 0)
}

func (b *Builder) labeledMarker(at time.Time, position float64) model.TimeMarker {
	marker := model.TimeMarker{
		Timestamp:      at,
		Position:       position,
		Granularity:    model.GranularityFifteenMinute,
		IsHourBoundary: at.Minute() == 0,
		TimeText:       util.FormatClockTime(at),
	}
	if b.dateLabels {
		marker.DateText = util.FormatShortDate(at)
	}
	return marker
}
