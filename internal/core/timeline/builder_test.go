package timeline

import (
	"math"
	"testing"
	"time"

	"github.com/penwyp/go-timeline-clock/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var knownInstant = time.Date(2025, time.March, 5, 13, 7, 30, 0, time.UTC)

func newTestBuilder(t *testing.T, height float64, opts ...BuilderOption) *Builder {
	t.Helper()
	b, err := NewBuilder(height, 100, opts...)
	require.NoError(t, err)
	return b
}

func TestRoundToQuarterHour(t *testing.T) {
	base := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)

	// Walk a full day in irregular steps so every minute offset is exercised
	for offset := time.Duration(0); offset < 24*time.Hour; offset += 7*time.Minute + 13*time.Second + 250*time.Millisecond {
		at := base.Add(offset)
		rounded := RoundToQuarterHour(at)

		assert.Contains(t, []int{0, 15, 30, 45}, rounded.Minute(), "instant %s", at)
		assert.Zero(t, rounded.Second())
		assert.Zero(t, rounded.Nanosecond())
		assert.False(t, rounded.After(at))
		assert.Less(t, at.Sub(rounded), 15*time.Minute)
	}
}

func TestRoundToQuarterHourKeepsLocalClock(t *testing.T) {
	// Kathmandu is UTC+05:45; rounding must follow the local minute
	kathmandu := time.FixedZone("NPT", 5*3600+45*60)
	at := time.Date(2025, time.March, 5, 10, 22, 10, 5, kathmandu)

	rounded := RoundToQuarterHour(at)
	assert.Equal(t, 10, rounded.Hour())
	assert.Equal(t, 15, rounded.Minute())
	assert.Equal(t, kathmandu, rounded.Location())
}

func TestBuildEndToEnd(t *testing.T) {
	b := newTestBuilder(t, 900)
	layout := b.Build(knownInstant)

	// ratio 100/900 of 3h is 20 minutes
	assert.Equal(t, knownInstant.Add(-20*time.Minute), layout.Reference)
	assert.Equal(t, time.Date(2025, time.March, 5, 11, 45, 0, 0, time.UTC), layout.WindowStart)
	assert.Equal(t, knownInstant.Add(-20*time.Minute+5*time.Hour), layout.WindowEnd)

	labeled := layout.Labeled()
	require.Len(t, labeled, 25)
	assert.True(t, labeled[0].Timestamp.Equal(layout.WindowStart))
	assert.Equal(t, 0.0, labeled[0].Position)
	assert.Equal(t, "11:45 AM", labeled[0].TimeText)
	assert.Equal(t, time.Date(2025, time.March, 5, 17, 45, 0, 0, time.UTC), labeled[24].Timestamp)
	assert.Equal(t, 24*75.0, labeled[24].Position)

	ticks := layout.Ticks()
	require.Len(t, ticks, 48)

	tickAt := make(map[time.Duration]float64, len(ticks))
	for _, tick := range ticks {
		assert.Empty(t, tick.TimeText)
		assert.Empty(t, tick.DateText)
		assert.False(t, tick.IsHourBoundary)
		tickAt[tick.Timestamp.Sub(layout.WindowStart)] = tick.Position
	}

	// Every 5-minute offset not divisible by 15 inside the span carries a tick
	for offset := 5 * time.Minute; !layout.WindowStart.Add(offset).After(layout.WindowEnd); offset += 5 * time.Minute {
		if offset%(15*time.Minute) == 0 {
			assert.NotContains(t, tickAt, offset)
			continue
		}
		position, ok := tickAt[offset]
		if assert.True(t, ok, "missing tick at +%s", offset) {
			assert.Equal(t, float64(offset/(5*time.Minute))*25, position)
		}
	}
}

func TestBuildOrdersTicksBeforeLabels(t *testing.T) {
	layout := newTestBuilder(t, 900).Build(knownInstant)

	seenLabel := false
	for _, m := range layout.Markers {
		if m.Labeled() {
			seenLabel = true
			continue
		}
		assert.False(t, seenLabel, "tick %s placed after a labeled marker", m.Timestamp)
	}
	assert.True(t, seenLabel)
}

func TestBuildHourBoundary(t *testing.T) {
	layout := newTestBuilder(t, 900).Build(knownInstant)

	hours := 0
	for _, m := range layout.Labeled() {
		assert.Equal(t, m.Timestamp.Minute() == 0, m.IsHourBoundary, "marker %s", m.TimeText)
		if m.IsHourBoundary {
			hours++
		}
	}
	assert.Equal(t, 6, hours)
}

func TestBuildDateLabels(t *testing.T) {
	withDates := newTestBuilder(t, 900, WithDateLabels(true)).Build(knownInstant)
	for _, m := range withDates.Labeled() {
		assert.Equal(t, "Wed Mar 5", m.DateText)
	}
	for _, m := range withDates.Ticks() {
		assert.Empty(t, m.DateText)
	}

	withoutDates := newTestBuilder(t, 900).Build(knownInstant)
	for _, m := range withoutDates.Labeled() {
		assert.Empty(t, m.DateText)
	}
}

func TestBuildIdempotent(t *testing.T) {
	b := newTestBuilder(t, 768)

	first := b.Build(knownInstant)
	second := b.Build(knownInstant)

	require.Equal(t, len(first.Markers), len(second.Markers))
	for i := range first.Markers {
		assert.Equal(t, first.Markers[i].Position, second.Markers[i].Position)
		assert.True(t, first.Markers[i].Timestamp.Equal(second.Markers[i].Timestamp))
	}
}

func TestBuildStableAcrossRebuildsInsideQuarter(t *testing.T) {
	b := newTestBuilder(t, 900)

	// 11:45 stays the rounded start until the reference instant passes 12:00+1h
	early := b.Build(knownInstant)
	later := b.Build(knownInstant.Add(7 * time.Minute))

	assert.True(t, early.WindowStart.Equal(later.WindowStart))
	assert.Equal(t, early.Labeled()[3].Position, later.Labeled()[3].Position)
}

func TestLayoutAndScrollAgreeOnWindowStart(t *testing.T) {
	for _, height := range []float64{384, 600, 900, 1440} {
		b := newTestBuilder(t, height)
		ratio := 100 / height

		for _, now := range []time.Time{
			knownInstant,
			knownInstant.Add(8 * time.Minute),
			time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC),
			time.Date(2025, time.March, 5, 23, 59, 59, 999, time.UTC),
		} {
			layout := b.Build(now)

			reference := now.Add(-time.Duration(math.Round(ratio * float64(3*time.Hour))))
			assert.True(t, reference.Equal(layout.Reference))
			assert.True(t, RoundToQuarterHour(reference.Add(-time.Hour)).Equal(layout.WindowStart))
			assert.True(t, b.WindowStart(now).Equal(layout.WindowStart))
			assert.Equal(t, b.Translation(now, time.Time{}), b.Translation(now, layout.WindowStart))
		}
	}
}

func TestTranslation(t *testing.T) {
	b := newTestBuilder(t, 900)
	layout := b.Build(knownInstant)

	// reference 12:47:30 minus start 11:45 is 62.5 minutes = 312.5px
	assert.InDelta(t, -312.5, b.Translation(knownInstant, layout.WindowStart), 1e-9)

	// The strip keeps moving against the anchored start between rebuilds
	assert.InDelta(t, -362.5, b.Translation(knownInstant.Add(10*time.Minute), layout.WindowStart), 1e-9)
	assert.InDelta(t, -312.5-25.0/300, b.Translation(knownInstant.Add(time.Second), layout.WindowStart), 1e-9)
}

func TestNowSitsOnReferenceLine(t *testing.T) {
	b := newTestBuilder(t, 900)
	layout := b.Build(knownInstant)
	translation := b.Translation(knownInstant, layout.WindowStart)

	// The position of now on the strip plus the translation lands on the 100px line
	nowPosition := float64(knownInstant.Sub(layout.WindowStart)) / float64(15*time.Minute) * b.Scale().PixelsPer15Min
	assert.InDelta(t, 100.0, nowPosition+translation, 1e-9)
}

func TestNewBuilderDegenerate(t *testing.T) {
	_, err := NewBuilder(0, 100)
	assert.ErrorIs(t, err, ErrDegenerateViewport)

	_, err = NewBuilder(-1, 100)
	assert.ErrorIs(t, err, ErrDegenerateViewport)
}

func TestProbeMarker(t *testing.T) {
	b := newTestBuilder(t, 900, WithDateLabels(true))
	probe := b.ProbeMarker(knownInstant)

	assert.Equal(t, model.GranularityFifteenMinute, probe.Granularity)
	assert.Equal(t, "01:07 PM", probe.TimeText)
	assert.Equal(t, "Wed Mar 5", probe.DateText)
	assert.Equal(t, 0.0, probe.Position)
}
