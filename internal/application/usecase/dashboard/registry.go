// Package dashboard holds the per-user dashboard state: the active filters,
// the transactions they select, the derived summary and the category directory.
package dashboard

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// Registry keeps one View per signed-in user so that concurrent requests of
// the same user share filters and fetch sequencing. Views not requested for
// longer than the idle timeout are dropped on the next lookup.
type Registry struct {
	deps        Dependencies
	clock       adapter.Clock
	idleTimeout time.Duration

	mu    sync.Mutex
	views map[uuid.UUID]*registryEntry
}

type registryEntry struct {
	view     *View
	lastSeen time.Time
}

// NewRegistry creates an empty Registry. An idleTimeout of zero keeps views
// until Forget is called.
func NewRegistry(deps Dependencies, idleTimeout time.Duration) *Registry {
	clock := deps.Clock
	if clock == nil {
		clock = adapter.SystemClock{}
	}
	return &Registry{
		deps:        deps,
		clock:       clock,
		idleTimeout: idleTimeout,
		views:       make(map[uuid.UUID]*registryEntry),
	}
}

// ViewFor returns the View of identity, creating it on first use.
// A nil identity gets a fresh signed-out View that is not retained.
func (r *Registry) ViewFor(identity *entity.Identity) *View {
	if identity == nil {
		return NewView(nil, r.deps)
	}

	now := r.clock.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictIdleLocked(now)

	if entry, ok := r.views[identity.UserID]; ok {
		entry.lastSeen = now
		return entry.view
	}
	view := NewView(identity, r.deps)
	r.views[identity.UserID] = &registryEntry{view: view, lastSeen: now}
	return view
}

func (r *Registry) evictIdleLocked(now time.Time) {
	if r.idleTimeout <= 0 {
		return
	}
	for userID, entry := range r.views {
		if now.Sub(entry.lastSeen) >= r.idleTimeout {
			delete(r.views, userID)
			slog.Debug("Evicted idle dashboard view", "user_id", userID)
		}
	}
}

// Forget drops the View of a user, e.g. on sign-out.
func (r *Registry) Forget(userID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.views, userID)
}

// Len returns the number of retained views.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}
