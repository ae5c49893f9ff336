package service

import (
	"context"
	"sync"
)

// RenderTracker keeps the cancel funcs of in-flight renders per client
// so that navigation can abandon them.
type RenderTracker struct {
	mu       sync.Mutex
	inflight map[string]map[int]context.CancelFunc
	next     int
}

func NewRenderTracker() *RenderTracker {
	return &RenderTracker{inflight: make(map[string]map[int]context.CancelFunc)}
}

// Begin derives the context of a new render for clientID. done must be
// called when the render finishes.
func (t *RenderTracker) Begin(ctx context.Context, clientID string) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)

	t.mu.Lock()
	id := t.next
	t.next++
	if t.inflight[clientID] == nil {
		t.inflight[clientID] = make(map[int]context.CancelFunc)
	}
	t.inflight[clientID][id] = cancel
	t.mu.Unlock()

	return ctx, func() {
		t.mu.Lock()
		delete(t.inflight[clientID], id)
		if len(t.inflight[clientID]) == 0 {
			delete(t.inflight, clientID)
		}
		t.mu.Unlock()
		cancel()
	}
}

// Cancel abandons every in-flight render of clientID and returns how
// many there were.
func (t *RenderTracker) Cancel(clientID string) int {
	t.mu.Lock()
	renders := t.inflight[clientID]
	delete(t.inflight, clientID)
	t.mu.Unlock()

	for _, cancel := range renders {
		cancel()
	}
	return len(renders)
}

// InFlight reports the number of running renders of clientID.
func (t *RenderTracker) InFlight(clientID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.inflight[clientID])
}
