package constants

import "time"

const (
	// Visible strip
	VisibleHours  = 3
	VisibleWindow = VisibleHours * time.Hour

	// Padded marker window around the top-of-viewport instant
	WindowLeadIn = 1 * time.Hour
	WindowSpan   = 5 * time.Hour

	// Marker spacing
	LabeledStep   = 15 * time.Minute
	TickStep      = 5 * time.Minute
	TicksPerLabel = int(LabeledStep / TickStep)

	// Refresh cadences
	RebuildInterval     = 60 * time.Minute
	DateRefreshInterval = 60 * time.Second
	SettleDelay         = 10 * time.Millisecond
)

const (
	// Reference line geometry in pixels
	DefaultReferenceOffset = 100.0
	DefaultMarkerPadding   = 20.0
	ReferenceGap           = 10.0

	// Terminal cell size used when the terminal does not report pixels
	DefaultCellWidth  = 8.0
	DefaultCellHeight = 16.0

	DefaultFPS = 60
	MinFPS     = 1
	MaxFPS     = 120
)
