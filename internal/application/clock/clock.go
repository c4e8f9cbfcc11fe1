// Package clock drives the scrolling timeline: it lays markers out, keeps the
// strip aligned with wall-clock time and sizes the reference line.
package clock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/penwyp/go-timeline-clock/internal/config"
	"github.com/penwyp/go-timeline-clock/internal/core/calibration"
	"github.com/penwyp/go-timeline-clock/internal/core/constants"
	"github.com/penwyp/go-timeline-clock/internal/core/model"
	"github.com/penwyp/go-timeline-clock/internal/core/timeline"
	"github.com/penwyp/go-timeline-clock/internal/util"
)

// statusTTL is how long a status message stays on screen.
const statusTTL = 3 * time.Second

// Clock is the timeline component. All methods except Stop and the state
// getters must be called from one goroutine; Run is that goroutine.
type Clock struct {
	surface    Surface
	settings   Settings
	now        util.Clock
	state      *StateManager
	builder    *timeline.Builder
	calibrator *calibration.Calibrator
	layout     timeline.Layout
	viewport   model.Viewport

	hasLine       bool
	settlePending bool
	statusUntil   time.Time

	input      InputHandler
	resize     <-chan os.Signal
	reloads    ConfigSource
	loadConfig func() (*config.Config, error)

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped bool
}

func New(surface Surface, settings Settings, opts ...Option) *Clock {
	c := &Clock{
		surface:    surface,
		settings:   settings,
		now:        util.TimeProvider{},
		state:      NewStateManager(),
		calibrator: calibration.New(settings.calibration()),
	}
	for _, opt := range opts {
		opt(c)
	}
	if p, ok := surface.(PaddingSetter); ok {
		p.SetPadding(settings.MarkerPadding)
	}
	return c
}

// Start measures the surface and builds the first layout. A degenerate
// viewport is reported but leaves the clock usable; it retries every frame.
func (c *Clock) Start(now time.Time) error {
	v, err := c.surface.Viewport()
	if err != nil {
		return fmt.Errorf("failed to measure surface: %w", err)
	}
	return c.applyViewport(v, now)
}

// Resize re-measures the surface and rebuilds when its size changed.
func (c *Clock) Resize(now time.Time) error {
	v, err := c.surface.Viewport()
	if err != nil {
		return err
	}
	if v == c.viewport {
		return nil
	}
	util.LogInfo("Viewport resized",
		util.F("cols", v.Cols), util.F("rows", v.Rows),
		util.F("width", util.FormatPixels(v.Width())), util.F("height", util.FormatPixels(v.Height())))
	return c.applyViewport(v, now)
}

// applyViewport recomputes the scale for v, rebuilds and calibrates.
func (c *Clock) applyViewport(v model.Viewport, now time.Time) error {
	c.viewport = v

	builder, err := timeline.NewBuilder(v.Height(), c.settings.ReferenceOffset,
		timeline.WithDateLabels(c.settings.InsetMode == calibration.RightInsetDate))
	if err != nil {
		c.builder = nil
		util.LogWarnf("Skipping layout: %v", err)
		return err
	}
	c.builder = builder

	if !c.hasLine {
		c.setLine(model.FullWidthLine(c.settings.ReferenceOffset))
	}
	if err := c.Rebuild(now); err != nil {
		return err
	}
	// Calibrate right away; the settle pass repeats it once the new markers are drawn
	_ = c.Calibrate(now)
	return nil
}

// Rebuild lays out a fresh marker set around now and swaps it in.
func (c *Clock) Rebuild(now time.Time) error {
	if c.builder == nil {
		return fmt.Errorf("rebuild skipped: %w", timeline.ErrDegenerateViewport)
	}

	c.layout = c.builder.Build(now)
	c.surface.ReplaceMarkers(c.layout.Markers)

	c.state.UpdateDisplayState(func(s *model.DisplayState) {
		s.Markers = c.layout.Markers
		s.WindowStart = c.layout.WindowStart
		s.LastRebuild = now
	})
	c.state.UpdateInteractionState(func(s *model.InteractionState) {
		s.ForceRebuild = false
	})
	c.settlePending = true

	util.LogDebug("Timeline rebuilt",
		util.F("markers", len(c.layout.Markers)),
		util.F("window_start", c.layout.WindowStart.Format(time.RFC3339)),
		util.F("window_end", c.layout.WindowEnd.Format(time.RFC3339)))
	return nil
}

// Frame advances the clock to now: periodic rebuild, scroll, readouts, flush.
func (c *Clock) Frame(now time.Time) error {
	// Resize notifications can be missed; compare sizes every frame
	_ = c.Resize(now)

	if c.builder != nil {
		display := c.state.GetDisplayState()
		interaction := c.state.GetInteractionState()
		if interaction.ForceRebuild || util.WallElapsed(display.LastRebuild, now) > constants.RebuildInterval {
			if err := c.Rebuild(now); err != nil {
				util.LogWarnf("Rebuild failed: %v", err)
			}
		}

		translation := c.builder.Translation(now, c.layout.WindowStart)
		c.surface.SetTranslation(translation)
		c.state.UpdateDisplayState(func(s *model.DisplayState) {
			s.Translation = translation
		})
	}

	c.updateReadouts(now)
	c.updateOverlay(now)

	if err := c.surface.Flush(); err != nil {
		return fmt.Errorf("failed to flush frame: %w", err)
	}
	return nil
}

func (c *Clock) updateReadouts(now time.Time) {
	if !c.settings.Readouts {
		c.surface.SetReadouts("", "")
		return
	}

	var timeText, dateText string
	c.state.UpdateDisplayState(func(s *model.DisplayState) {
		s.TimeText = util.FormatClockTime(now)
		if s.LastDateUpdate.IsZero() || util.WallElapsed(s.LastDateUpdate, now) > constants.DateRefreshInterval {
			s.DateText = util.FormatShortDate(now)
			s.LastDateUpdate = now
		}
		timeText, dateText = s.TimeText, s.DateText
	})
	c.surface.SetReadouts(timeText, dateText)
}

func (c *Clock) updateOverlay(now time.Time) {
	overlay, ok := c.surface.(Overlay)
	if !ok {
		return
	}
	if !c.statusUntil.IsZero() && now.After(c.statusUntil) {
		c.statusUntil = time.Time{}
		c.state.UpdateInteractionState(func(s *model.InteractionState) {
			s.StatusMessage = ""
		})
	}
	interaction := c.state.GetInteractionState()
	overlay.SetOverlay(interaction.ShowHelp, interaction.StatusMessage)
}

// Calibrate sizes the reference line from a probe marker for now.
// On failure the previous extent stays in place.
func (c *Clock) Calibrate(now time.Time) error {
	if c.builder == nil {
		return fmt.Errorf("calibration skipped: %w", timeline.ErrDegenerateViewport)
	}

	line, err := c.calibrator.Calibrate(c.surface, c.builder.ProbeMarker(now), c.viewport)
	if err != nil {
		switch {
		case errors.Is(err, calibration.ErrProbeFailed):
			util.LogErrorf("Reference line calibration failed: %v", err)
		default:
			util.LogWarnf("Reference line calibration skipped: %v", err)
		}
		return err
	}

	c.setLine(line)
	util.LogDebug("Reference line calibrated",
		util.F("left", util.FormatPixels(line.Left)),
		util.F("right", util.FormatPixels(line.Right)),
		util.F("full_width", line.FullWidth))
	return nil
}

// Settle runs the deferred calibration armed by the last rebuild, if any.
func (c *Clock) Settle(now time.Time) error {
	if !c.settlePending {
		return nil
	}
	c.settlePending = false
	return c.Calibrate(now)
}

// SettlePending reports whether a rebuild is waiting for its calibration.
func (c *Clock) SettlePending() bool {
	return c.settlePending
}

func (c *Clock) setLine(line model.ReferenceLine) {
	c.hasLine = true
	c.surface.SetReferenceLine(line)
	c.state.UpdateDisplayState(func(s *model.DisplayState) {
		s.Line = line
	})
}

// ToggleInsetMode switches between date and fixed right insets. Date labels
// follow the mode, so the strip is rebuilt.
func (c *Clock) ToggleInsetMode(now time.Time) {
	settings := c.settings
	if settings.InsetMode == calibration.RightInsetDate {
		settings.InsetMode = calibration.RightInsetFixed
	} else {
		settings.InsetMode = calibration.RightInsetDate
	}
	c.applySettings(settings, now)
	c.setStatus(now, "right inset: "+settings.InsetMode.String())
}

// ApplyConfig switches to cfg's settings and rebuilds.
func (c *Clock) ApplyConfig(cfg *config.Config, now time.Time) {
	c.applySettings(SettingsFromConfig(cfg), now)
}

func (c *Clock) applySettings(settings Settings, now time.Time) {
	if settings.ReferenceOffset != c.settings.ReferenceOffset {
		c.hasLine = false
	}
	c.settings = settings
	c.calibrator = calibration.New(settings.calibration())
	if p, ok := c.surface.(PaddingSetter); ok {
		p.SetPadding(settings.MarkerPadding)
	}
	if err := c.applyViewport(c.viewport, now); err != nil {
		util.LogWarnf("Settings applied without layout: %v", err)
	}
}

func (c *Clock) setStatus(now time.Time, message string) {
	c.statusUntil = now.Add(statusTTL)
	c.state.UpdateInteractionState(func(s *model.InteractionState) {
		s.StatusMessage = message
	})
}

// Settings returns the active settings.
func (c *Clock) Settings() Settings {
	return c.settings
}

// Layout returns the last built layout.
func (c *Clock) Layout() timeline.Layout {
	return c.layout
}

// Viewport returns the last measured viewport.
func (c *Clock) Viewport() model.Viewport {
	return c.viewport
}

// DisplayState returns a snapshot of the render state. Safe from any goroutine.
func (c *Clock) DisplayState() model.DisplayState {
	return c.state.GetDisplayState()
}

// InteractionState returns the help/status state. Safe from any goroutine.
func (c *Clock) InteractionState() model.InteractionState {
	return c.state.GetInteractionState()
}
