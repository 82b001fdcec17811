// Package guard deduplicates mutating calls against external resources. A
// caller acquires a lease keyed by the targeted resource before issuing the
// call and releases it when the call returns; a second caller hitting the
// same key while the lease is held backs off instead of double-executing.
package guard

import (
	"sync"
	"time"

	"github.com/glutchdiscord-alt/v4-partyup/internal/common/clock"
)

// OperationKind names the class of external mutation being guarded
type OperationKind string

const (
	// OperationCreateChannel guards voice channel creation per creator
	OperationCreateChannel OperationKind = "create_channel"

	// OperationDeleteChannel guards voice channel teardown
	OperationDeleteChannel OperationKind = "delete_channel"

	// OperationMemberAccess guards a user's permission entry on a channel
	OperationMemberAccess OperationKind = "member_access"

	// OperationAnnouncement guards announcement publish/update per channel
	OperationAnnouncement OperationKind = "announcement"
)

// Key identifies one guarded operation: what is being done, to which
// resource, and for whom when the operation targets a single user.
type Key struct {
	Kind       OperationKind
	ResourceID string
	SubjectID  string
}

// Config holds configuration for the guard
type Config struct {
	// Clock is the time source; defaults to the system clock
	Clock clock.Clock

	// StaleAfter is how long a lease survives without release before a new
	// acquire may take it over. Recovers from callers that died mid-call.
	StaleAfter time.Duration
}

// Guard is an in-process lease table for external-effect deduplication
type Guard struct {
	mu         sync.Mutex
	leases     map[Key]time.Time
	clock      clock.Clock
	staleAfter time.Duration
}

// New creates a guard
func New(cfg *Config) *Guard {
	c := clock.Clock(&clock.DefaultClock{})
	stale := 30 * time.Second

	if cfg != nil {
		if cfg.Clock != nil {
			c = cfg.Clock
		}
		if cfg.StaleAfter > 0 {
			stale = cfg.StaleAfter
		}
	}

	return &Guard{
		leases:     make(map[Key]time.Time),
		clock:      c,
		staleAfter: stale,
	}
}

// Acquire attempts to take the lease for a key. It returns false while
// another caller holds a fresh lease; a stale lease is taken over.
func (g *Guard) Acquire(key Key) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()
	if acquiredAt, held := g.leases[key]; held {
		if now.Sub(acquiredAt) < g.staleAfter {
			return false
		}
		// Holder most likely crashed mid-operation; take the lease over.
	}

	g.leases[key] = now
	return true
}

// Release frees the lease for a key. Safe to call for a key that was never
// acquired.
func (g *Guard) Release(key Key) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.leases, key)
}

// Held reports whether a fresh lease exists for the key
func (g *Guard) Held(key Key) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	acquiredAt, held := g.leases[key]
	if !held {
		return false
	}
	return g.clock.Now().Sub(acquiredAt) < g.staleAfter
}
