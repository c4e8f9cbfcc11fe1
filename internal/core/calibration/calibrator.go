// Package calibration sizes the reference line from measured label widths.
package calibration

import (
	"errors"
	"fmt"
	"strings"

	"github.com/penwyp/go-timeline-clock/internal/core/constants"
	"github.com/penwyp/go-timeline-clock/internal/core/model"
)

var (
	// ErrLineMissing means the reference line is not on the surface.
	ErrLineMissing = errors.New("reference line not found")
	// ErrLabelMissing means the probe marker lacks a label the inset mode needs.
	ErrLabelMissing = errors.New("time or date text not found")
	// ErrProbeFailed wraps any failure raised while the probe was attached.
	ErrProbeFailed = errors.New("probe measurement failed")
)

// RightInsetMode selects how the right end of the line is placed.
type RightInsetMode int

const (
	// RightInsetDate leaves room for the date label co-rendered on markers.
	RightInsetDate RightInsetMode = iota
	// RightInsetFixed uses a flat gap; markers carry no date label.
	RightInsetFixed
)

func (m RightInsetMode) String() string {
	switch m {
	case RightInsetDate:
		return "date"
	case RightInsetFixed:
		return "fixed"
	default:
		return "unknown"
	}
}

// ParseRightInsetMode accepts "date" or "fixed".
func ParseRightInsetMode(s string) (RightInsetMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "date", "":
		return RightInsetDate, nil
	case "fixed":
		return RightInsetFixed, nil
	default:
		return RightInsetDate, fmt.Errorf("invalid right inset mode '%s': must be either 'date' or 'fixed'", s)
	}
}

// ProbeResult holds the measured label widths of one probe marker, in pixels.
type ProbeResult struct {
	TimeWidth float64
	DateWidth float64
	HasTime   bool
	HasDate   bool
}

// Prober attaches an invisible marker to the surface, measures its labels and detaches it.
type Prober interface {
	Probe(marker model.TimeMarker) (ProbeResult, error)
}

// Settings are the fixed geometry inputs of a calibration.
type Settings struct {
	Offset  float64
	Padding float64
	Gap     float64
	Mode    RightInsetMode
}

// DefaultSettings matches the stock marker styling.
func DefaultSettings() Settings {
	return Settings{
		Offset:  constants.DefaultReferenceOffset,
		Padding: constants.DefaultMarkerPadding,
		Gap:     constants.ReferenceGap,
		Mode:    RightInsetDate,
	}
}

type Calibrator struct {
	settings Settings
}

func New(settings Settings) *Calibrator {
	return &Calibrator{settings: settings}
}

func (c *Calibrator) Settings() Settings {
	return c.settings
}

// Calibrate probes the surface with marker and returns the line extent for the viewport.
// On error the caller keeps its previous extent.
func (c *Calibrator) Calibrate(prober Prober, marker model.TimeMarker, viewport model.Viewport) (line model.ReferenceLine, err error) {
	if c.settings.Offset < 0 || c.settings.Offset >= viewport.Height() {
		return model.ReferenceLine{}, fmt.Errorf("%w: offset %.1f outside viewport height %.1f",
			ErrLineMissing, c.settings.Offset, viewport.Height())
	}

	result, err := c.probe(prober, marker)
	if err != nil {
		return model.ReferenceLine{}, err
	}

	left, right, err := c.Insets(result)
	if err != nil {
		return model.ReferenceLine{}, err
	}
	return c.Resolve(left, right, viewport.Width()), nil
}

func (c *Calibrator) probe(prober Prober, marker model.TimeMarker) (result ProbeResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrProbeFailed, r)
		}
	}()

	result, err = prober.Probe(marker)
	if err != nil && !errors.Is(err, ErrLabelMissing) && !errors.Is(err, ErrProbeFailed) {
		err = fmt.Errorf("%w: %v", ErrProbeFailed, err)
	}
	return result, err
}

// Insets computes the left and right insets from measured widths.
func (c *Calibrator) Insets(result ProbeResult) (left, right float64, err error) {
	if !result.HasTime {
		return 0, 0, fmt.Errorf("%w: missing time text", ErrLabelMissing)
	}
	left = c.settings.Padding + result.TimeWidth + c.settings.Gap

	switch c.settings.Mode {
	case RightInsetFixed:
		right = c.settings.Gap
	default:
		if !result.HasDate {
			return 0, 0, fmt.Errorf("%w: missing date text", ErrLabelMissing)
		}
		right = c.settings.Padding + result.DateWidth + c.settings.Gap
	}
	return left, right, nil
}

// Resolve applies the insets, falling back to a full-width line when they leave no visible span.
func (c *Calibrator) Resolve(left, right, viewportWidth float64) model.ReferenceLine {
	if left >= 0 && right >= 0 && left < viewportWidth-right {
		return model.ReferenceLine{
			Offset: c.settings.Offset,
			Left:   left,
			Right:  right,
		}
	}
	return model.FullWidthLine(c.settings.Offset)
}
