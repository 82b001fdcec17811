// Package registry holds the authoritative in-memory view of live
// matchmaking sessions plus the lookups derived from it. Everything the
// engine serves mid-process comes from here; the durable store is the
// restart backstop.
package registry

import (
	"sync"

	"github.com/glutchdiscord-alt/v4-partyup/internal/models"
)

// Registry is an id-keyed index of active sessions with derived lookups by
// creator, member and voice channel. All transitions against one session ID
// must run under that session's lock (Lock/Unlock); the registry's own maps
// are guarded separately so lookups never block on a slow transition.
type Registry struct {
	mu             sync.RWMutex
	sessions       map[string]*models.Session
	byCreator      map[string]string
	byMember       map[string]string
	byVoiceChannel map[string]string
	locks          map[string]*sync.Mutex
}

// New creates an empty registry
func New() *Registry {
	r := &Registry{}
	r.reset()
	return r
}

func (r *Registry) reset() {
	r.sessions = make(map[string]*models.Session)
	r.byCreator = make(map[string]string)
	r.byMember = make(map[string]string)
	r.byVoiceChannel = make(map[string]string)
	r.locks = make(map[string]*sync.Mutex)
}

// Clear drops every session, index and lock. Only safe while no session
// lock is held; the restoration procedure runs it before any traffic.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reset()
}

// Lock acquires the per-session mutex for the given ID, creating it on
// first use. Callers must pair it with Unlock.
func (r *Registry) Lock(sessionID string) {
	r.mu.Lock()
	m, ok := r.locks[sessionID]
	if !ok {
		m = &sync.Mutex{}
		r.locks[sessionID] = m
	}
	r.mu.Unlock()

	m.Lock()
}

// Unlock releases the per-session mutex for the given ID
func (r *Registry) Unlock(sessionID string) {
	r.mu.RLock()
	m, ok := r.locks[sessionID]
	r.mu.RUnlock()

	if ok {
		m.Unlock()
	}
}

// Add registers a session and indexes it. An existing entry for the same ID
// is replaced.
func (r *Registry) Add(sess *models.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.unindexLocked(sess.ID)
	r.sessions[sess.ID] = sess
	r.indexLocked(sess)
}

// Reindex rebuilds the derived lookups for one session after its membership
// or voice channel changed. The caller must hold the session lock.
func (r *Registry) Reindex(sess *models.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[sess.ID]; !ok {
		return
	}
	r.unindexLocked(sess.ID)
	r.indexLocked(sess)
}

// Remove drops a session and all of its index entries. The per-session
// mutex is kept: the caller still holds it, and a goroutine already waiting
// on it must wake up to find the session gone rather than block forever.
func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.unindexLocked(sessionID)
	delete(r.sessions, sessionID)
}

func (r *Registry) indexLocked(sess *models.Session) {
	r.byCreator[sess.CreatorID] = sess.ID
	for _, userID := range sess.Players {
		r.byMember[userID] = sess.ID
	}
	if sess.VoiceChannelID != "" {
		r.byVoiceChannel[sess.VoiceChannelID] = sess.ID
	}
}

func (r *Registry) unindexLocked(sessionID string) {
	for userID, id := range r.byMember {
		if id == sessionID {
			delete(r.byMember, userID)
		}
	}
	for userID, id := range r.byCreator {
		if id == sessionID {
			delete(r.byCreator, userID)
		}
	}
	for channelID, id := range r.byVoiceChannel {
		if id == sessionID {
			delete(r.byVoiceChannel, channelID)
		}
	}
}

// Get retrieves a session by ID
func (r *Registry) Get(sessionID string) (*models.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sess, ok := r.sessions[sessionID]
	return sess, ok
}

// IDByCreator returns the session a user created, if any
func (r *Registry) IDByCreator(userID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byCreator[userID]
	return id, ok
}

// IDByMember returns the session a user is a member of, if any
func (r *Registry) IDByMember(userID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byMember[userID]
	return id, ok
}

// ClaimMember atomically reserves the user's single membership slot for one
// session. It fails when the user already belongs to, or holds a claim on, a
// different session; claiming the same session again succeeds. This closes
// the window between a cross-session membership check and the join itself,
// which only the target session's lock would otherwise cover.
func (r *Registry) ClaimMember(userID, sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byMember[userID]; ok && id != sessionID {
		return false
	}
	r.byMember[userID] = sessionID
	return true
}

// ReleaseMember drops a claim placed by ClaimMember, but only while it still
// points at the given session
func (r *Registry) ReleaseMember(userID, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.byMember[userID] == sessionID {
		delete(r.byMember, userID)
	}
}

// IDByVoiceChannel returns the session bound to a voice channel, if any
func (r *Registry) IDByVoiceChannel(channelID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byVoiceChannel[channelID]
	return id, ok
}

// IDs returns the IDs of every tracked session. The sweep iterates this and
// re-locks each session individually.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Len returns the number of tracked sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}
