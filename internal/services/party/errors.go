package party

// PartyError is a custom error type for session-related errors
type PartyError string

// Error implements the error interface
func (e PartyError) Error() string {
	return string(e)
}

// Define errors
const (
	// Conflict errors: valid input, wrong state
	ErrSessionNotFound       PartyError = "session not found"
	ErrAlreadyInSession      PartyError = "user is already in a session"
	ErrAlreadyCreatedSession PartyError = "user already has an open session"
	ErrSessionFull           PartyError = "session is at capacity"
	ErrInvalidSessionState   PartyError = "invalid session state for this action"
	ErrNotAMember            PartyError = "user is not a member of this session"
	ErrCreatorCannotLeave    PartyError = "creator cannot leave, only terminate"
	ErrNotSessionCreator     PartyError = "only the creator can do this"

	// Validation errors: bad input
	ErrUnknownActivity    PartyError = "unknown activity or mode"
	ErrCapacityOutOfRange PartyError = "capacity out of range"
	ErrInfoTooLong        PartyError = "info text too long"
	ErrWrongChannel       PartyError = "sessions cannot be created in this channel"

	// A duplicate external operation is still running
	ErrOperationInFlight PartyError = "operation already in flight"

	// Construction errors
	ErrNilConfig         PartyError = "config cannot be nil"
	ErrNilSessionRepo    PartyError = "session repository cannot be nil"
	ErrNilMembershipRepo PartyError = "membership repository cannot be nil"
	ErrNilSettingsRepo   PartyError = "settings repository cannot be nil"
	ErrNilPlatform       PartyError = "platform cannot be nil"
)
