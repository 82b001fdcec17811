package settings

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/glutchdiscord-alt/v4-partyup/internal/repositories/settings Repository

import (
	"context"

	"github.com/glutchdiscord-alt/v4-partyup/internal/models"
)

// Repository defines the interface for guild settings persistence
type Repository interface {
	// UpsertGuildSettings creates or updates settings for a guild
	UpsertGuildSettings(ctx context.Context, input *UpsertGuildSettingsInput) error

	// GetGuildSettings retrieves settings for a guild
	GetGuildSettings(ctx context.Context, input *GetGuildSettingsInput) (*models.GuildSettings, error)
}
