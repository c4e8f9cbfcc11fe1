package display

import (
	"github.com/penwyp/go-timeline-clock/internal/core/calibration"
	"github.com/penwyp/go-timeline-clock/internal/core/model"
	"github.com/penwyp/go-timeline-clock/internal/presentation/layout"
)

// Headless is an in-memory surface. It backs the snapshot command and tests.
type Headless struct {
	scene    layout.Scene
	lines    []string
	detached bool
	flushes  int
	probes   int
}

func NewHeadless(v model.Viewport, padding float64) *Headless {
	return &Headless{scene: layout.Scene{Viewport: v, Padding: padding}}
}

// Resize changes the viewport reported from now on.
func (h *Headless) Resize(v model.Viewport) {
	h.scene.Viewport = v
}

// Detach makes every measurement fail until Attach is called.
func (h *Headless) Detach() { h.detached = true }

func (h *Headless) Attach() { h.detached = false }

func (h *Headless) Viewport() (model.Viewport, error) {
	if h.detached {
		return model.Viewport{}, ErrDetached
	}
	return h.scene.Viewport, nil
}

func (h *Headless) Probe(marker model.TimeMarker) (calibration.ProbeResult, error) {
	h.probes++
	if h.detached {
		return calibration.ProbeResult{}, ErrDetached
	}
	return probe(h.scene.Viewport, marker)
}

func (h *Headless) ReplaceMarkers(markers []model.TimeMarker) {
	h.scene.Markers = markers
}

func (h *Headless) SetTranslation(y float64) {
	h.scene.Translation = y
}

func (h *Headless) SetReferenceLine(line model.ReferenceLine) {
	h.scene.Line = line
	h.scene.HasLine = true
}

func (h *Headless) SetReadouts(timeText, dateText string) {
	h.scene.TimeText = timeText
	h.scene.DateText = dateText
}

func (h *Headless) SetOverlay(showHelp bool, status string) {
	h.scene.ShowHelp = showHelp
	h.scene.Status = status
}

func (h *Headless) SetPadding(padding float64) {
	h.scene.Padding = padding
}

// Flush composes the scene into plain text lines.
func (h *Headless) Flush() error {
	if h.detached {
		return ErrDetached
	}
	h.lines = layout.Compose(h.scene).PlainLines()
	h.flushes++
	return nil
}

// Lines returns the text of the last flush.
func (h *Headless) Lines() []string { return h.lines }

func (h *Headless) Markers() []model.TimeMarker { return h.scene.Markers }

func (h *Headless) Translation() float64 { return h.scene.Translation }

// ReferenceLine returns the line extent and whether one was ever set.
func (h *Headless) ReferenceLine() (model.ReferenceLine, bool) {
	return h.scene.Line, h.scene.HasLine
}

func (h *Headless) Readouts() (timeText, dateText string) {
	return h.scene.TimeText, h.scene.DateText
}

func (h *Headless) Overlay() (showHelp bool, status string) {
	return h.scene.ShowHelp, h.scene.Status
}

func (h *Headless) Flushes() int { return h.flushes }

func (h *Headless) Probes() int { return h.probes }
