package forecast

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/ecoscope/siagatani/pkg/errors"
)

const viewIdleTTL = time.Hour

// viewTracker owns the per-view selection state. Every selection bumps the
// view's generation; results carrying an older generation are dropped.
type viewTracker struct {
	mu    sync.Mutex
	views map[string]*viewSlot
	now   func() time.Time
}

type viewSlot struct {
	state  ViewState
	cancel context.CancelFunc
}

func newViewTracker(now func() time.Time) *viewTracker {
	return &viewTracker{views: make(map[string]*viewSlot), now: now}
}

// begin moves the view to Loading for code and cancels the superseded request.
func (t *viewTracker) begin(viewID, code string, cancel context.CancelFunc) ViewState {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	t.cleanupLocked(now)

	slot, ok := t.views[viewID]
	if !ok {
		slot = &viewSlot{}
		t.views[viewID] = slot
	}
	if slot.cancel != nil {
		slot.cancel()
	}
	slot.cancel = cancel
	slot.state = ViewState{
		ViewID:       viewID,
		LocationCode: code,
		Generation:   slot.state.Generation + 1,
		Status:       StatusLoading,
		UpdatedAt:    now,
	}
	return slot.state
}

// resolve stores the outcome when generation is still current and reports whether it did.
func (t *viewTracker) resolve(viewID string, generation uint64, res Result, err error) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	slot, ok := t.views[viewID]
	if !ok || slot.state.Generation != generation {
		return false
	}
	slot.cancel = nil
	slot.state.UpdatedAt = t.now()
	if err != nil {
		slot.state.Status = StatusFailed
		slot.state.Result = nil
		slot.state.Message = apperrors.MessageOf(err)
		return true
	}
	slot.state.Status = StatusReady
	slot.state.Result = &res
	slot.state.Message = ""
	return true
}

func (t *viewTracker) get(viewID string) (ViewState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	slot, ok := t.views[viewID]
	if !ok {
		return ViewState{}, false
	}
	return slot.state, true
}

func (t *viewTracker) cleanupLocked(now time.Time) {
	for id, slot := range t.views {
		if slot.cancel == nil && now.Sub(slot.state.UpdatedAt) > viewIdleTTL {
			delete(t.views, id)
		}
	}
}
