package clock

import (
	"sync"

	"github.com/penwyp/go-timeline-clock/internal/core/model"
)

// StateManager guards the clock state so it can be read while the control
// loop runs. Only the control loop writes.
type StateManager struct {
	mu sync.RWMutex

	display     model.DisplayState
	interaction model.InteractionState
}

func NewStateManager() *StateManager {
	return &StateManager{}
}

// GetDisplayState returns a copy of the display state
func (sm *StateManager) GetDisplayState() model.DisplayState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	state := sm.display
	state.Markers = make([]model.TimeMarker, len(sm.display.Markers))
	copy(state.Markers, sm.display.Markers)
	return state
}

// UpdateDisplayState updates specific fields of the display state
func (sm *StateManager) UpdateDisplayState(updateFunc func(*model.DisplayState)) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	updateFunc(&sm.display)
}

// GetInteractionState returns current interaction state
func (sm *StateManager) GetInteractionState() model.InteractionState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.interaction
}

// UpdateInteractionState updates specific fields of interaction state
func (sm *StateManager) UpdateInteractionState(updateFunc func(*model.InteractionState)) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	updateFunc(&sm.interaction)
}
