package party

import (
	"time"

	"github.com/glutchdiscord-alt/v4-partyup/internal/common/clock"
	"github.com/glutchdiscord-alt/v4-partyup/internal/common/uuid"
	"github.com/glutchdiscord-alt/v4-partyup/internal/guard"
	"github.com/glutchdiscord-alt/v4-partyup/internal/models"
	"github.com/glutchdiscord-alt/v4-partyup/internal/platform"
	"github.com/glutchdiscord-alt/v4-partyup/internal/registry"
	membershipRepo "github.com/glutchdiscord-alt/v4-partyup/internal/repositories/membership"
	sessionRepo "github.com/glutchdiscord-alt/v4-partyup/internal/repositories/session"
	settingsRepo "github.com/glutchdiscord-alt/v4-partyup/internal/repositories/settings"
	"go.uber.org/zap"
)

// Config holds the service's dependencies and tuning knobs
type Config struct {
	SessionRepo    sessionRepo.Repository
	MembershipRepo membershipRepo.Repository
	SettingsRepo   settingsRepo.Repository
	Platform       platform.Platform

	// Registry defaults to a fresh one when nil
	Registry *registry.Registry

	// Guard defaults to a fresh one with default staleness when nil
	Guard *guard.Guard

	// Clock defaults to the system clock when nil
	Clock clock.Clock

	// UUIDGenerator defaults to the standard generator when nil
	UUIDGenerator uuid.UUID

	// Logger defaults to a no-op logger when nil
	Logger *zap.Logger

	// RecruitWindow is how long a squad with no joiners stays open
	RecruitWindow time.Duration

	// ConfirmWindow is how long a full squad has to confirm
	ConfirmWindow time.Duration

	// SweepInterval is how often the backstop pass runs
	SweepInterval time.Duration

	// MaxCapacity caps the capacity a creator may ask for
	MaxCapacity int

	// Activities maps allowed activity names to their allowed modes.
	// A nil map accepts any non-empty activity/mode pair.
	Activities map[string][]string

	// MaxInfoLength bounds the free-form info text, in runes
	MaxInfoLength int
}

type CreateSessionInput struct {
	UserID    string
	GuildID   string
	ChannelID string
	Activity  string
	Mode      string
	Capacity  int
	Info      string
}

type CreateSessionOutput struct {
	Session        *models.Session
	VoiceChannelID string
}

type JoinSessionInput struct {
	UserID    string
	SessionID string
}

type JoinSessionOutput struct {
	Session *models.Session

	// AlreadyMember is set when the user joined their own current session;
	// the caller shows status instead of an error
	AlreadyMember bool

	// Filled is set when this join completed the squad
	Filled bool
}

type LeaveSessionInput struct {
	UserID    string
	SessionID string
}

type LeaveSessionOutput struct {
	// Destroyed is set when the leave emptied and destroyed the session
	Destroyed bool
}

type ConfirmAttendanceInput struct {
	UserID    string
	SessionID string
}

type ConfirmAttendanceOutput struct {
	// AlreadyConfirmed is set when this was a repeat confirmation
	AlreadyConfirmed bool

	// AllConfirmed is set when this confirmation completed the squad
	AllConfirmed bool
}

type DeclineAttendanceInput struct {
	UserID    string
	SessionID string
}

type DeclineAttendanceOutput struct {
	// Terminated is set when the decline came from the creator
	Terminated bool
}

type TerminateSessionInput struct {
	SessionID string

	// InitiatorID must be the creator when set; internal callers leave it
	// empty
	InitiatorID string
}

type TerminateSessionOutput struct {
}

type RemoveMemberInput struct {
	SessionID string
	UserID    string
}

type RemoveMemberOutput struct {
	// Terminated is set when the removed member was the creator
	Terminated bool
}

type GetSessionByUserInput struct {
	UserID string
}

type GetSessionByUserOutput struct {
	Session *models.Session
}

type SetRestrictedChannelInput struct {
	GuildID   string
	ChannelID string
}

type SetRestrictedChannelOutput struct {
}
