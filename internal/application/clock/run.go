package clock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/penwyp/go-timeline-clock/internal/config"
	"github.com/penwyp/go-timeline-clock/internal/core/constants"
	"github.com/penwyp/go-timeline-clock/internal/core/model"
	"github.com/penwyp/go-timeline-clock/internal/core/timeline"
	"github.com/penwyp/go-timeline-clock/internal/presentation/interaction"
	"github.com/penwyp/go-timeline-clock/internal/util"
)

// Run is the control loop. It owns all clock state until ctx is cancelled,
// Stop is called or a quit key arrives, and returns nil in those cases.
// A clock stopped before Run returns without drawing.
func (c *Clock) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		util.LogInfo("Timeline clock stopped before start")
		return nil
	}
	c.cancel = cancel
	c.mu.Unlock()

	util.LogInfo("Starting timeline clock",
		util.F("fps_interval", c.settings.FrameInterval.String()),
		util.F("inset_mode", c.settings.InsetMode.String()))

	if err := c.Start(c.now.Now()); err != nil && !errors.Is(err, timeline.ErrDegenerateViewport) {
		return err
	}

	frameTicker := time.NewTicker(c.settings.FrameInterval)
	defer frameTicker.Stop()

	settle := time.NewTimer(constants.SettleDelay)
	settle.Stop()
	defer settle.Stop()
	settleArmed := false

	var keys <-chan interaction.KeyEvent
	if c.input != nil {
		keys = c.input.Events()
	}
	var reloads <-chan config.ReloadEvent
	if c.reloads != nil {
		reloads = c.reloads.Events()
	}

	for {
		if c.settlePending && !settleArmed {
			settle.Reset(constants.SettleDelay)
			settleArmed = true
		}

		select {
		case <-ctx.Done():
			util.LogInfo("Shutting down timeline clock...")
			return nil

		case <-frameTicker.C:
			if err := c.Frame(c.now.Now()); err != nil {
				return err
			}

		case <-settle.C:
			settleArmed = false
			_ = c.Settle(c.now.Now())

		case <-c.resize:
			if err := c.Resize(c.now.Now()); err != nil {
				util.LogDebugf("Resize ignored: %v", err)
			}

		case event, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			if c.HandleKey(event, c.now.Now()) {
				return nil
			}

		case event, ok := <-reloads:
			if !ok {
				reloads = nil
				continue
			}
			previous := c.settings.FrameInterval
			c.reloadConfig(event, c.now.Now())
			if c.settings.FrameInterval != previous {
				frameTicker.Reset(c.settings.FrameInterval)
			}
		}
	}
}

// Stop ends the control loop, or keeps a later Run from starting one.
// Safe from any goroutine.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	if c.cancel != nil {
		c.cancel()
	}
}

// HandleKey applies a key press and reports whether the clock should exit.
func (c *Clock) HandleKey(event interaction.KeyEvent, now time.Time) bool {
	if event.IsQuit() {
		// Esc closes the help box before it quits
		if event.Type == interaction.KeyEscape && c.state.GetInteractionState().ShowHelp {
			c.state.UpdateInteractionState(func(s *model.InteractionState) {
				s.ShowHelp = false
			})
			return false
		}
		return true
	}

	switch event.Key {
	case 'r', 'R':
		c.state.UpdateInteractionState(func(s *model.InteractionState) {
			s.ForceRebuild = true
		})
		c.setStatus(now, "markers rebuilt")
	case 'i', 'I':
		c.ToggleInsetMode(now)
	case 'h', 'H', '?':
		c.state.UpdateInteractionState(func(s *model.InteractionState) {
			s.ShowHelp = !s.ShowHelp
		})
	}
	return false
}

func (c *Clock) reloadConfig(event config.ReloadEvent, now time.Time) {
	if c.loadConfig == nil {
		return
	}
	cfg, err := c.loadConfig()
	if err != nil {
		util.LogWarnf("Config reload from %s failed: %v", event.Path, err)
		c.setStatus(now, fmt.Sprintf("config error: %v", err))
		return
	}
	c.ApplyConfig(cfg, now)
	util.LogInfo("Config reloaded", util.F("path", event.Path))
	c.setStatus(now, "config reloaded")
}
