package session

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/glutchdiscord-alt/v4-partyup/internal/repositories/session Repository

import (
	"context"

	"github.com/glutchdiscord-alt/v4-partyup/internal/models"
)

// Repository defines the interface for session persistence
type Repository interface {
	// CreateSession persists a new session
	CreateSession(ctx context.Context, input *CreateSessionInput) error

	// GetSession retrieves a session by ID
	GetSession(ctx context.Context, input *GetSessionInput) (*models.Session, error)

	// UpdateSession persists the current state of a session
	UpdateSession(ctx context.Context, input *UpdateSessionInput) error

	// SoftDeleteSession marks a session inactive, keeping the record
	SoftDeleteSession(ctx context.Context, input *SoftDeleteSessionInput) error

	// ListActiveSessions retrieves all sessions not yet soft-deleted
	ListActiveSessions(ctx context.Context, input *ListActiveSessionsInput) (*ListActiveSessionsOutput, error)
}
