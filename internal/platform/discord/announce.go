package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/glutchdiscord-alt/v4-partyup/internal/models"
	"github.com/glutchdiscord-alt/v4-partyup/internal/platform"
	"github.com/glutchdiscord-alt/v4-partyup/internal/services/messaging"
	"go.uber.org/zap"
)

const (
	colorRecruiting = 0x5865f2
	colorAssembled  = 0xfee75c
	colorReady      = 0x57f287
	colorCancelled  = 0xed4245

	// announcementSearchLimit bounds the tag search over recent messages
	announcementSearchLimit = 50

	footerTagPrefix = "squad "
)

// Button custom ID prefixes, each followed by the session ID
const (
	ButtonJoinSquad    = "party_join"
	ButtonLeaveSquad   = "party_leave"
	ButtonConfirmReady = "party_confirm"
	ButtonDeclineReady = "party_decline"
)

var noticeKinds = map[platform.Notice]messaging.AnnouncementKind{
	platform.NoticeRecruiting: messaging.KindRecruiting,
	platform.NoticeProgress:   messaging.KindProgress,
	platform.NoticeAssembled:  messaging.KindAssembled,
	platform.NoticeReady:      messaging.KindReady,
	platform.NoticeReopened:   messaging.KindReopened,
	platform.NoticeCancelled:  messaging.KindCancelled,
}

// PublishOrUpdateAnnouncement edits the referenced announcement in place, or
// publishes a new one when no reference is given
func (a *Adapter) PublishOrUpdateAnnouncement(ctx context.Context, input *platform.PublishOrUpdateAnnouncementInput) (*platform.PublishOrUpdateAnnouncementOutput, error) {
	if input == nil || input.Session == nil {
		return nil, errors.New("input and session cannot be nil")
	}

	embed := a.renderEmbed(ctx, input)
	content := renderMentions(input.MentionUserIDs)
	components := renderButtons(input.Session)

	if input.MessageID == "" {
		msg, err := a.session.ChannelMessageSendComplex(input.ChannelID, &discordgo.MessageSend{
			Content:    content,
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		}, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to publish announcement: %w", err)
		}
		return &platform.PublishOrUpdateAnnouncementOutput{MessageID: msg.ID}, nil
	}

	msg, err := a.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    input.ChannelID,
		ID:         input.MessageID,
		Content:    &content,
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &components,
	}, discordgo.WithContext(ctx))
	if err != nil {
		if isDiscordCode(err, discordgo.ErrCodeUnknownMessage) {
			return nil, platform.ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to update announcement: %w", err)
	}

	return &platform.PublishOrUpdateAnnouncementOutput{MessageID: msg.ID}, nil
}

// FindAnnouncement scans recent messages for the embed carrying a session's
// short tag. Used to re-adopt an announcement whose reference was lost.
func (a *Adapter) FindAnnouncement(ctx context.Context, input *platform.FindAnnouncementInput) (*platform.FindAnnouncementOutput, error) {
	if input == nil || input.SessionIDSuffix == "" {
		return nil, errors.New("input and session tag cannot be empty")
	}

	messages, err := a.session.ChannelMessages(input.ChannelID, announcementSearchLimit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to list channel messages: %w", err)
	}

	selfID := ""
	if a.session.State != nil && a.session.State.User != nil {
		selfID = a.session.State.User.ID
	}

	tag := footerTagPrefix + input.SessionIDSuffix
	for _, msg := range messages {
		if selfID != "" && (msg.Author == nil || msg.Author.ID != selfID) {
			continue
		}
		for _, embed := range msg.Embeds {
			if embed.Footer != nil && embed.Footer.Text == tag {
				return &platform.FindAnnouncementOutput{MessageID: msg.ID}, nil
			}
		}
	}

	return nil, platform.ErrMessageNotFound
}

func (a *Adapter) renderEmbed(ctx context.Context, input *platform.PublishOrUpdateAnnouncementInput) *discordgo.MessageEmbed {
	sess := input.Session

	headline := a.headline(ctx, input.Notice, sess)

	embed := &discordgo.MessageEmbed{
		Title:       renderTitle(sess),
		Description: headline,
		Color:       noticeColor(input.Notice),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Members",
				Value:  a.renderRoster(ctx, sess),
				Inline: true,
			},
			{
				Name:   "Slots",
				Value:  fmt.Sprintf("%d / %d", len(sess.Players), sess.Capacity),
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: footerTagPrefix + shortTag(sess.ID),
		},
	}

	if sess.Info != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Notes",
			Value: sess.Info,
		})
	}

	return embed
}

func (a *Adapter) headline(ctx context.Context, notice platform.Notice, sess *models.Session) string {
	kind, ok := noticeKinds[notice]
	if !ok {
		kind = messaging.KindProgress
	}

	out, err := a.messaging.GetAnnouncementLine(ctx, &messaging.GetAnnouncementLineInput{
		Kind:      kind,
		Activity:  sess.Activity,
		OpenSlots: sess.Capacity - len(sess.Players),
	})
	if err != nil {
		a.logger.Warn("announcement copy lookup failed", zap.Error(err))
		return sess.Activity
	}
	return out.Line
}

// renderRoster lists members by display name, marking confirmations while
// the squad is assembling
func (a *Adapter) renderRoster(ctx context.Context, sess *models.Session) string {
	if len(sess.Players) == 0 {
		return "nobody yet"
	}

	lines := make([]string, 0, len(sess.Players))
	for _, userID := range sess.Players {
		name := a.ResolveDisplayName(ctx, &platform.ResolveDisplayNameInput{
			GuildID: sess.GuildID,
			UserID:  userID,
		})

		switch {
		case sess.Status == models.SessionStatusConfirming && sess.HasConfirmed(userID):
			lines = append(lines, "✅ "+name)
		case sess.Status == models.SessionStatusConfirming:
			lines = append(lines, "⌛ "+name)
		case userID == sess.CreatorID:
			lines = append(lines, name+" (leader)")
		default:
			lines = append(lines, name)
		}
	}

	return strings.Join(lines, "\n")
}

// renderButtons picks the actions a reader can take on the announcement.
// Terminal states carry none, which also strips stale buttons on edit.
func renderButtons(sess *models.Session) []discordgo.MessageComponent {
	var row discordgo.ActionsRow

	switch sess.Status {
	case models.SessionStatusWaiting:
		row.Components = []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "Join",
				Style:    discordgo.PrimaryButton,
				CustomID: ButtonJoinSquad + ":" + sess.ID,
			},
			discordgo.Button{
				Label:    "Leave",
				Style:    discordgo.SecondaryButton,
				CustomID: ButtonLeaveSquad + ":" + sess.ID,
			},
		}
	case models.SessionStatusConfirming:
		row.Components = []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "I'm in",
				Style:    discordgo.SuccessButton,
				CustomID: ButtonConfirmReady + ":" + sess.ID,
			},
			discordgo.Button{
				Label:    "Can't make it",
				Style:    discordgo.DangerButton,
				CustomID: ButtonDeclineReady + ":" + sess.ID,
			},
		}
	default:
		return []discordgo.MessageComponent{}
	}

	return []discordgo.MessageComponent{row}
}

func renderTitle(sess *models.Session) string {
	if sess.Mode != "" {
		return fmt.Sprintf("%s · %s", sess.Activity, sess.Mode)
	}
	return sess.Activity
}

func renderMentions(userIDs []string) string {
	if len(userIDs) == 0 {
		return ""
	}

	mentions := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		mentions = append(mentions, "<@"+id+">")
	}
	return strings.Join(mentions, " ")
}

func noticeColor(notice platform.Notice) int {
	switch notice {
	case platform.NoticeAssembled:
		return colorAssembled
	case platform.NoticeReady:
		return colorReady
	case platform.NoticeCancelled:
		return colorCancelled
	default:
		return colorRecruiting
	}
}

// shortTag mirrors the tag the session engine renders into announcements
func shortTag(sessionID string) string {
	if len(sessionID) <= 8 {
		return sessionID
	}
	return sessionID[len(sessionID)-8:]
}
