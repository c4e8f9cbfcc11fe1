package timeline

import (
	"errors"
	"fmt"
	"math"

	"github.com/penwyp/go-timeline-clock/internal/core/constants"
	"github.com/penwyp/go-timeline-clock/internal/core/model"
)

// ErrDegenerateViewport is returned when the viewport cannot produce a finite scale.
var ErrDegenerateViewport = errors.New("degenerate viewport")

// NewScale derives the pixel-per-time factors for a viewport of the given height.
func NewScale(viewportHeight float64) (model.Scale, error) {
	if !isFinite(viewportHeight) || viewportHeight <= 0 {
		return model.Scale{}, fmt.Errorf("%w: height %v", ErrDegenerateViewport, viewportHeight)
	}

	perHour := viewportHeight / constants.VisibleHours
	perMinute := perHour / 60
	perSecond := perMinute / 60

	return model.Scale{
		ViewportHeight:       viewportHeight,
		VisibleWindow:        constants.VisibleWindow,
		PixelsPerHour:        perHour,
		PixelsPerMinute:      perMinute,
		PixelsPerSecond:      perSecond,
		PixelsPerMillisecond: perSecond / 1000,
		PixelsPer5Min:        perHour / 12,
		PixelsPer15Min:       perHour / 4,
	}, nil
}

// ReferenceRatio is the fraction of the viewport above the reference line.
func ReferenceRatio(offset, viewportHeight float64) (float64, error) {
	if !isFinite(viewportHeight) || viewportHeight <= 0 {
		return 0, fmt.Errorf("%w: height %v", ErrDegenerateViewport, viewportHeight)
	}
	ratio := offset / viewportHeight
	if !isFinite(ratio) {
		return 0, fmt.Errorf("%w: offset %v", ErrDegenerateViewport, offset)
	}
	return ratio, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
