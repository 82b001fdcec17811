package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/glutchdiscord-alt/v4-partyup/internal/platform"
	"github.com/glutchdiscord-alt/v4-partyup/internal/services/messaging"
	"go.uber.org/zap"
)

// Adapter implements platform.Platform on top of a discordgo session
type Adapter struct {
	session   *discordgo.Session
	messaging messaging.Service
	logger    *zap.Logger
}

// Config holds the configuration for the adapter
type Config struct {
	// Session is an opened discordgo session
	Session *discordgo.Session

	// Messaging supplies the announcement copy
	Messaging messaging.Service

	// Logger defaults to a no-op logger when nil
	Logger *zap.Logger
}

// New creates a new Discord platform adapter
func New(cfg *Config) (*Adapter, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Session == nil {
		return nil, errors.New("discord session cannot be nil")
	}
	if cfg.Messaging == nil {
		return nil, errors.New("messaging service cannot be nil")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Adapter{
		session:   cfg.Session,
		messaging: cfg.Messaging,
		logger:    logger,
	}, nil
}

// voicePermissions are what squad members get on their private channel
const voicePermissions = discordgo.PermissionViewChannel |
	discordgo.PermissionVoiceConnect |
	discordgo.PermissionVoiceSpeak

// CreatePrivateVoiceChannel creates a voice channel hidden from @everyone,
// with only the creator allowed in. Members are granted access one by one as
// they join.
func (a *Adapter) CreatePrivateVoiceChannel(ctx context.Context, input *platform.CreatePrivateVoiceChannelInput) (*platform.CreatePrivateVoiceChannelOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	overwrites := []*discordgo.PermissionOverwrite{
		{
			// The @everyone role shares the guild's ID
			ID:   input.GuildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: voicePermissions,
		},
		{
			ID:    input.CreatorID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: voicePermissions,
		},
	}

	channel, err := a.session.GuildChannelCreateComplex(input.GuildID, discordgo.GuildChannelCreateData{
		Name:                 input.ChannelName,
		Type:                 discordgo.ChannelTypeGuildVoice,
		UserLimit:            input.CapacityHint,
		PermissionOverwrites: overwrites,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to create voice channel: %w", err)
	}

	return &platform.CreatePrivateVoiceChannelOutput{ChannelID: channel.ID}, nil
}

// DeleteVoiceChannel removes a voice channel. A channel that is already gone
// counts as deleted.
func (a *Adapter) DeleteVoiceChannel(ctx context.Context, input *platform.DeleteVoiceChannelInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}

	_, err := a.session.ChannelDelete(input.ChannelID, discordgo.WithContext(ctx))
	if err != nil && !isDiscordCode(err, discordgo.ErrCodeUnknownChannel) {
		return fmt.Errorf("failed to delete voice channel: %w", err)
	}
	return nil
}

// SetMemberAccess grants or revokes a member's permission overwrite on a
// voice channel
func (a *Adapter) SetMemberAccess(ctx context.Context, input *platform.SetMemberAccessInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}

	if input.Allow {
		err := a.session.ChannelPermissionSet(
			input.ChannelID,
			input.UserID,
			discordgo.PermissionOverwriteTypeMember,
			voicePermissions,
			0,
			discordgo.WithContext(ctx),
		)
		if err != nil {
			return fmt.Errorf("failed to grant channel access: %w", err)
		}
		return nil
	}

	err := a.session.ChannelPermissionDelete(input.ChannelID, input.UserID, discordgo.WithContext(ctx))
	if err != nil && !isDiscordCode(err, discordgo.ErrCodeUnknownChannel) {
		return fmt.Errorf("failed to revoke channel access: %w", err)
	}
	return nil
}

// DisconnectMember kicks a user out of whatever voice channel they are in.
// A user who is not connected is left alone.
func (a *Adapter) DisconnectMember(ctx context.Context, input *platform.DisconnectMemberInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}

	state, err := a.session.State.VoiceState(input.GuildID, input.UserID)
	if err != nil || state == nil || state.ChannelID == "" {
		return nil
	}

	if err := a.session.GuildMemberMove(input.GuildID, input.UserID, nil, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to disconnect member: %w", err)
	}
	return nil
}

// ResolveDisplayName prefers the guild nickname, then the account name. A
// failed lookup falls back to a truncated-id placeholder so rendering never
// blocks on the API.
func (a *Adapter) ResolveDisplayName(ctx context.Context, input *platform.ResolveDisplayNameInput) string {
	if input == nil || input.UserID == "" {
		return "someone"
	}

	member, err := a.session.GuildMember(input.GuildID, input.UserID, discordgo.WithContext(ctx))
	if err != nil {
		a.logger.Debug("display name lookup failed",
			zap.String("user_id", input.UserID),
			zap.Error(err))
		if len(input.UserID) > 6 {
			return "user-" + input.UserID[len(input.UserID)-6:]
		}
		return "user-" + input.UserID
	}

	if member.Nick != "" {
		return member.Nick
	}
	if member.User != nil {
		if member.User.GlobalName != "" {
			return member.User.GlobalName
		}
		return member.User.Username
	}
	return "someone"
}

// BindingExists reports whether the guild and announcement channel are still
// reachable
func (a *Adapter) BindingExists(ctx context.Context, input *platform.BindingExistsInput) bool {
	if input == nil {
		return false
	}

	if _, err := a.session.Guild(input.GuildID, discordgo.WithContext(ctx)); err != nil {
		return false
	}
	if _, err := a.session.Channel(input.ChannelID, discordgo.WithContext(ctx)); err != nil {
		return false
	}
	return true
}

// isDiscordCode reports whether err is a Discord REST error with the given
// error code
func isDiscordCode(err error, code int) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	return restErr.Message != nil && restErr.Message.Code == code
}
