package models

import (
	"time"
)

// GuildSettings holds per-guild configuration for the bot
type GuildSettings struct {
	// GuildID is the Discord server these settings belong to
	GuildID string

	// RestrictedChannelID limits session creation to one channel when set;
	// empty means any channel is allowed
	RestrictedChannelID string

	// UpdatedAt is when the settings were last changed
	UpdatedAt time.Time
}
