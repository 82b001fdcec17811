package membership

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/glutchdiscord-alt/v4-partyup/internal/repositories/membership Repository

import (
	"context"
)

// Repository tracks which session a user belongs to.
// A user holds at most one membership at a time by construction:
// creating a membership replaces any prior one for the same user.
type Repository interface {
	// CreateMembership records that a user belongs to a session
	CreateMembership(ctx context.Context, input *CreateMembershipInput) error

	// GetMembership retrieves the session ID a user belongs to
	GetMembership(ctx context.Context, input *GetMembershipInput) (*GetMembershipOutput, error)

	// DeleteMembership removes a user's membership record
	DeleteMembership(ctx context.Context, input *DeleteMembershipInput) error
}
