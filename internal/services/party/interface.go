package party

import "context"

// Service is the session lifecycle engine: every externally triggered
// transition enters through one of these methods.
type Service interface {
	// CreateSession opens a new squad with the creator as its first member
	CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error)

	// JoinSession adds a user to a recruiting squad
	JoinSession(ctx context.Context, input *JoinSessionInput) (*JoinSessionOutput, error)

	// LeaveSession removes a non-creator member who walks away voluntarily
	LeaveSession(ctx context.Context, input *LeaveSessionInput) (*LeaveSessionOutput, error)

	// ConfirmAttendance records a member's confirmation during the window
	ConfirmAttendance(ctx context.Context, input *ConfirmAttendanceInput) (*ConfirmAttendanceOutput, error)

	// DeclineAttendance drops a member out of confirmation; the creator
	// declining terminates the squad
	DeclineAttendance(ctx context.Context, input *DeclineAttendanceInput) (*DeclineAttendanceOutput, error)

	// TerminateSession tears the squad down on the creator's request
	TerminateSession(ctx context.Context, input *TerminateSessionInput) (*TerminateSessionOutput, error)

	// RemoveMember removes any member, creator included; removing the
	// creator terminates the squad. Used by moderation surfaces.
	RemoveMember(ctx context.Context, input *RemoveMemberInput) (*RemoveMemberOutput, error)

	// GetSessionByUser returns the session a user currently belongs to
	GetSessionByUser(ctx context.Context, input *GetSessionByUserInput) (*GetSessionByUserOutput, error)

	// SetRestrictedChannel configures which channel a guild allows session
	// creation in; empty clears the restriction
	SetRestrictedChannel(ctx context.Context, input *SetRestrictedChannelInput) (*SetRestrictedChannelOutput, error)

	// Restore rebuilds in-memory state from the durable store after a restart
	Restore(ctx context.Context) error

	// StartSweep runs the periodic backstop pass until ctx is cancelled
	StartSweep(ctx context.Context)

	// Stop cancels all pending timers
	Stop()
}
