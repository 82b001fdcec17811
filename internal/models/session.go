package models

import (
	"time"
)

// SessionStatus represents the current state of a matchmaking session
type SessionStatus string

const (
	// SessionStatusWaiting indicates a session is recruiting players
	SessionStatusWaiting SessionStatus = "waiting"

	// SessionStatusConfirming indicates a full session is waiting for every
	// member to confirm attendance
	SessionStatusConfirming SessionStatus = "confirming"

	// SessionStatusActive indicates every member confirmed and the squad is live
	SessionStatusActive SessionStatus = "active"

	// SessionStatusTerminated indicates the session was ended or expired
	SessionStatusTerminated SessionStatus = "terminated"
)

// IsTerminal returns true once a session leaves active tracking
func (s SessionStatus) IsTerminal() bool {
	return s == SessionStatusActive || s == SessionStatusTerminated
}

// Session represents one matchmaking party under formation
type Session struct {
	// ID is the unique identifier for the session
	ID string

	// CreatorID is the user who opened the session; always the first member
	CreatorID string

	// GuildID is the Discord server the session is bound to
	GuildID string

	// ChannelID is the announcement channel the session is bound to
	ChannelID string

	// AnnouncementID is the ID of the status message in the announcement
	// channel; empty when no message has been published or the original was
	// deleted externally
	AnnouncementID string

	// Activity is the game being played
	Activity string

	// Mode is the game mode within the activity
	Mode string

	// Capacity is the target squad size including the creator
	Capacity int

	// Info is optional free text shown on the announcement
	Info string

	// Status is the current lifecycle state
	Status SessionStatus

	// Players holds member user IDs in join order, creator first
	Players []string

	// Confirmed holds the user IDs that confirmed attendance; always a
	// subset of Players
	Confirmed []string

	// VoiceChannelID is the private voice channel tied to this session;
	// empty if the channel was deleted while the session survived
	VoiceChannelID string

	// CreatedAt is when the session was created
	CreatedAt time.Time

	// ConfirmStartedAt is when the session entered confirming; nil otherwise
	ConfirmStartedAt *time.Time

	// Active mirrors the store's soft-delete flag
	Active bool
}

// HasPlayer reports whether the user is currently a member
func (s *Session) HasPlayer(userID string) bool {
	for _, id := range s.Players {
		if id == userID {
			return true
		}
	}
	return false
}

// HasConfirmed reports whether the user already confirmed attendance
func (s *Session) HasConfirmed(userID string) bool {
	for _, id := range s.Confirmed {
		if id == userID {
			return true
		}
	}
	return false
}

// IsFull reports whether the session reached capacity
func (s *Session) IsFull() bool {
	return len(s.Players) >= s.Capacity
}

// AllConfirmed reports whether every current member confirmed
func (s *Session) AllConfirmed() bool {
	if len(s.Players) == 0 {
		return false
	}
	return len(s.Confirmed) == len(s.Players)
}

// Clone returns a deep copy of the session
func (s *Session) Clone() *Session {
	dup := *s
	dup.Players = append([]string(nil), s.Players...)
	dup.Confirmed = append([]string(nil), s.Confirmed...)
	if s.ConfirmStartedAt != nil {
		t := *s.ConfirmStartedAt
		dup.ConfirmStartedAt = &t
	}
	return &dup
}
