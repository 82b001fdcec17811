package platform

//go:generate mockgen -package=mocks -destination=mocks/mock_platform.go github.com/glutchdiscord-alt/v4-partyup/internal/platform Platform

import (
	"context"
	"errors"
)

// ErrMessageNotFound is returned when a referenced message no longer exists
// on the platform, e.g. the announcement was deleted by a moderator.
var ErrMessageNotFound = errors.New("message not found")

// Platform is the communication backend the session engine drives. The
// engine only ever sees this contract; the Discord adapter lives behind it.
type Platform interface {
	// CreatePrivateVoiceChannel creates a voice channel only the creator can
	// join and returns its ID
	CreatePrivateVoiceChannel(ctx context.Context, input *CreatePrivateVoiceChannelInput) (*CreatePrivateVoiceChannelOutput, error)

	// DeleteVoiceChannel removes a voice channel
	DeleteVoiceChannel(ctx context.Context, input *DeleteVoiceChannelInput) error

	// SetMemberAccess grants or revokes a user's access to a voice channel
	SetMemberAccess(ctx context.Context, input *SetMemberAccessInput) error

	// DisconnectMember kicks a user out of a voice channel if connected
	DisconnectMember(ctx context.Context, input *DisconnectMemberInput) error

	// PublishOrUpdateAnnouncement edits the referenced announcement in place,
	// or publishes a new one when no reference is given. Returns
	// ErrMessageNotFound when the referenced message is gone.
	PublishOrUpdateAnnouncement(ctx context.Context, input *PublishOrUpdateAnnouncementInput) (*PublishOrUpdateAnnouncementOutput, error)

	// FindAnnouncement searches recent messages in a channel for the
	// announcement tagged with a session's short ID
	FindAnnouncement(ctx context.Context, input *FindAnnouncementInput) (*FindAnnouncementOutput, error)

	// ResolveDisplayName resolves a user's display name, falling back to a
	// truncated-id placeholder when the lookup fails
	ResolveDisplayName(ctx context.Context, input *ResolveDisplayNameInput) string

	// BindingExists reports whether a guild and channel still exist
	BindingExists(ctx context.Context, input *BindingExistsInput) bool
}
