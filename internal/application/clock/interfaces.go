package clock

import (
	"github.com/penwyp/go-timeline-clock/internal/config"
	"github.com/penwyp/go-timeline-clock/internal/core/calibration"
	"github.com/penwyp/go-timeline-clock/internal/core/model"
	"github.com/penwyp/go-timeline-clock/internal/presentation/interaction"
)

// Surface is the display the clock draws on
type Surface interface {
	// Viewport measures the current surface size
	Viewport() (model.Viewport, error)
	// Probe renders an invisible marker, measures its labels and removes it
	Probe(marker model.TimeMarker) (calibration.ProbeResult, error)
	// ReplaceMarkers swaps the whole marker set at once
	ReplaceMarkers(markers []model.TimeMarker)
	// SetTranslation moves the strip vertically, in pixels
	SetTranslation(y float64)
	// SetReferenceLine places the "now" line
	SetReferenceLine(line model.ReferenceLine)
	// SetReadouts updates the time and date texts
	SetReadouts(timeText, dateText string)
	// Flush presents the frame
	Flush() error
}

// Overlay is implemented by surfaces that can show help and a status line
type Overlay interface {
	SetOverlay(showHelp bool, status string)
}

// PaddingSetter is implemented by surfaces whose marker padding is configurable
type PaddingSetter interface {
	SetPadding(padding float64)
}

// InputHandler processes keyboard input events
type InputHandler interface {
	// Events returns a channel of keyboard events
	Events() <-chan interaction.KeyEvent
	// Close cleans up input handler resources
	Close() error
}

// ConfigSource reports config file changes
type ConfigSource interface {
	Events() <-chan config.ReloadEvent
	Close() error
}
