package session

import "github.com/glutchdiscord-alt/v4-partyup/internal/models"

type CreateSessionInput struct {
	Session *models.Session
}

type GetSessionInput struct {
	SessionID string
}

type UpdateSessionInput struct {
	Session *models.Session
}

type SoftDeleteSessionInput struct {
	SessionID string
}

type ListActiveSessionsInput struct {
}

type ListActiveSessionsOutput struct {
	Sessions []*models.Session
}
