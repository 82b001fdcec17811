package platform

import "github.com/glutchdiscord-alt/v4-partyup/internal/models"

// Notice names the lifecycle moment an announcement reflects
type Notice string

const (
	// NoticeRecruiting is the standing "looking for members" state
	NoticeRecruiting Notice = "recruiting"

	// NoticeProgress is a membership change while still recruiting
	NoticeProgress Notice = "progress"

	// NoticeAssembled asks a full squad to confirm within the window
	NoticeAssembled Notice = "assembled"

	// NoticeReady is the final all-confirmed announcement
	NoticeReady Notice = "ready"

	// NoticeReopened follows a dropout or confirmation timeout
	NoticeReopened Notice = "reopened"

	// NoticeCancelled is the terminal cancellation announcement
	NoticeCancelled Notice = "cancelled"
)

type CreatePrivateVoiceChannelInput struct {
	GuildID   string
	CreatorID string
	// ChannelName is the label shown in the guild's channel list
	ChannelName string
	// CapacityHint caps how many users the channel admits
	CapacityHint int
}

type CreatePrivateVoiceChannelOutput struct {
	ChannelID string
}

type DeleteVoiceChannelInput struct {
	ChannelID string
}

type SetMemberAccessInput struct {
	ChannelID string
	UserID    string
	Allow     bool
}

type DisconnectMemberInput struct {
	GuildID string
	UserID  string
}

type PublishOrUpdateAnnouncementInput struct {
	ChannelID string
	// MessageID targets an in-place edit; empty publishes a new message
	MessageID string
	Session   *models.Session
	Notice    Notice
	// MentionUserIDs are pinged alongside the announcement
	MentionUserIDs []string
}

type PublishOrUpdateAnnouncementOutput struct {
	MessageID string
}

type FindAnnouncementInput struct {
	ChannelID string
	// SessionIDSuffix is the short tag rendered into every announcement
	SessionIDSuffix string
}

type FindAnnouncementOutput struct {
	MessageID string
}

type ResolveDisplayNameInput struct {
	GuildID string
	UserID  string
}

type BindingExistsInput struct {
	GuildID   string
	ChannelID string
}
