// Package scheduler runs the per-session lifecycle timers. A timer holds
// nothing but a session ID, a kind and a due time; when it fires, the
// registered callback re-fetches the session and re-checks preconditions,
// so a timer that was cancelled too late is a harmless no-op.
package scheduler

import (
	"errors"
	"sync"
	"time"
)

// TimerKind names which lifecycle deadline a timer tracks
type TimerKind string

const (
	// TimerRecruitment expires a waiting session nobody joined
	TimerRecruitment TimerKind = "recruitment"

	// TimerConfirmation expires a confirming session's confirmation window
	TimerConfirmation TimerKind = "confirmation"
)

// FireFunc is invoked when a timer comes due. It runs on the timer's own
// goroutine and must do its own locking.
type FireFunc func(sessionID string, kind TimerKind)

// Config holds configuration for the scheduler
type Config struct {
	// Fire is the callback invoked for due timers
	Fire FireFunc
}

type entry struct {
	kind  TimerKind
	due   time.Time
	timer *time.Timer
}

// Scheduler owns at most one pending timer per session
type Scheduler struct {
	mu      sync.Mutex
	entries map[string]*entry
	fire    FireFunc
	stopped bool
}

// New creates a scheduler
func New(cfg *Config) (*Scheduler, error) {
	if cfg == nil || cfg.Fire == nil {
		return nil, errors.New("config and fire callback cannot be nil")
	}

	return &Scheduler{
		entries: make(map[string]*entry),
		fire:    cfg.Fire,
	}, nil
}

// Schedule arms a timer for a session, replacing any pending one. A session
// never owns more than one timer. A non-positive delay fires immediately.
func (s *Scheduler) Schedule(sessionID string, kind TimerKind, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	if existing, ok := s.entries[sessionID]; ok {
		existing.timer.Stop()
		delete(s.entries, sessionID)
	}

	if delay < 0 {
		delay = 0
	}

	e := &entry{
		kind: kind,
		due:  time.Now().Add(delay),
	}
	e.timer = time.AfterFunc(delay, func() {
		s.expire(sessionID, e)
	})
	s.entries[sessionID] = e
}

// expire removes the entry if it is still the armed one, then fires
func (s *Scheduler) expire(sessionID string, e *entry) {
	s.mu.Lock()
	current, ok := s.entries[sessionID]
	if ok && current == e {
		delete(s.entries, sessionID)
	}
	stopped := s.stopped
	s.mu.Unlock()

	// A replaced entry may still reach here before Stop won the race; the
	// callback's precondition checks keep that safe.
	if !stopped {
		s.fire(sessionID, e.kind)
	}
}

// Cancel stops the pending timer for a session, if any. Cancellation is
// best-effort: a timer that already started firing runs to completion.
func (s *Scheduler) Cancel(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[sessionID]; ok {
		e.timer.Stop()
		delete(s.entries, sessionID)
	}
}

// Pending reports the kind of the armed timer for a session, if any
func (s *Scheduler) Pending(sessionID string) (TimerKind, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sessionID]
	if !ok {
		return "", false
	}
	return e.kind, true
}

// Stop cancels every pending timer and rejects new schedules
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	for sessionID, e := range s.entries {
		e.timer.Stop()
		delete(s.entries, sessionID)
	}
}
