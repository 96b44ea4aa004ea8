package main

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/marrowgate/langforge/langerr"
	"github.com/marrowgate/langforge/session"
)

// registry holds every compiled session this process has built, keyed by
// its ID. Requests are stateless across calls -- each owns its own Run --
// but the compiled Session itself is expensive enough to keep around rather
// than rebuild on every request.
type registry struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]entry
}

type entry struct {
	sess     *session.Session
	warnings []langerr.Warning
}

func newRegistry() *registry {
	return &registry{byID: map[uuid.UUID]entry{}}
}

func (r *registry) put(sess *session.Session, warnings []langerr.Warning) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[sess.ID] = entry{sess: sess, warnings: warnings}
}

func (r *registry) get(id uuid.UUID) (entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[id]
	return e, ok
}

var errNotFound = fmt.Errorf("session not found")
