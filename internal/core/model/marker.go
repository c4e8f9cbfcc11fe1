package model

import "time"

// Granularity identifies which walk produced a marker.
type Granularity int

const (
	GranularityFiveMinute Granularity = iota
	GranularityFifteenMinute
)

func (g Granularity) String() string {
	switch g {
	case GranularityFiveMinute:
		return "5m"
	case GranularityFifteenMinute:
		return "15m"
	default:
		return "unknown"
	}
}

// MarshalText encodes the granularity by its step name.
func (g Granularity) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// TimeMarker is one point on the scrolling strip.
// Fifteen-minute markers carry label text; five-minute markers are bare ticks.
type TimeMarker struct {
	Timestamp      time.Time   `json:"timestamp"`
	Position       float64     `json:"position"`
	Granularity    Granularity `json:"granularity"`
	IsHourBoundary bool        `json:"is_hour_boundary"`
	TimeText       string      `json:"time_text,omitempty"`
	DateText       string      `json:"date_text,omitempty"`
}

// Labeled reports whether the marker renders text.
func (m TimeMarker) Labeled() bool {
	return m.Granularity == GranularityFifteenMinute
}

// Scale holds the pixel-per-time factors derived from the viewport height.
type Scale struct {
	ViewportHeight       float64
	VisibleWindow        time.Duration
	PixelsPerHour        float64
	PixelsPerMinute      float64
	PixelsPerSecond      float64
	PixelsPerMillisecond float64
	PixelsPer5Min        float64
	PixelsPer15Min       float64
}

// ReferenceLine is the fixed "now" indicator.
// Left and Right are insets from the viewport edges.
type ReferenceLine struct {
	Offset    float64 `json:"offset"`
	Left      float64 `json:"left"`
	Right     float64 `json:"right"`
	FullWidth bool    `json:"full_width"`
}

// FullWidthLine returns the fallback extent spanning the whole viewport.
func FullWidthLine(offset float64) ReferenceLine {
	return ReferenceLine{Offset: offset, FullWidth: true}
}

// Viewport describes the host surface in cells and pixels.
type Viewport struct {
	Cols       int     `json:"cols"`
	Rows       int     `json:"rows"`
	CellWidth  float64 `json:"cell_width"`
	CellHeight float64 `json:"cell_height"`
}

// Width returns the viewport width in pixels.
func (v Viewport) Width() float64 {
	return float64(v.Cols) * v.CellWidth
}

// Height returns the viewport height in pixels.
func (v Viewport) Height() float64 {
	return float64(v.Rows) * v.CellHeight
}

// DisplayState is the process-local render state of the clock.
type DisplayState struct {
	TimeText       string
	DateText       string
	LastRebuild    time.Time
	LastDateUpdate time.Time
	WindowStart    time.Time
	Translation    float64
	Markers        []TimeMarker
	Line           ReferenceLine
}

// InteractionState represents the current UI interaction state
type InteractionState struct {
	ShowHelp      bool
	ForceRebuild  bool
	StatusMessage string
}
