package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/glutchdiscord-alt/v4-partyup/internal/models"
	"github.com/glutchdiscord-alt/v4-partyup/internal/services/messaging"
	"github.com/glutchdiscord-alt/v4-partyup/internal/services/party"
	"go.uber.org/zap"
)

// PartyupCommand handles the /partyup command
type PartyupCommand struct {
	BaseCommand
	partyService party.Service
	messaging    messaging.Service
	logger       *zap.Logger
}

// NewPartyupCommand creates a new partyup command handler
func NewPartyupCommand(partyService party.Service, messagingService messaging.Service, logger *zap.Logger) *PartyupCommand {
	minCapacity := float64(2)

	return &PartyupCommand{
		BaseCommand: BaseCommand{
			Name:        "partyup",
			Description: "Squad matchmaking commands",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create",
					Description: "Open a new squad and start recruiting",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "activity",
							Description: "What you want to play",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "mode",
							Description: "Which mode or playlist",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "size",
							Description: "How many players including you",
							Required:    true,
							MinValue:    &minCapacity,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "info",
							Description: "Anything the squad should know",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "join",
					Description: "Join a leader's squad",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "leader",
							Description: "Whose squad to join",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "leave",
					Description: "Leave your current squad",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "confirm",
					Description: "Confirm you're ready to play",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "decline",
					Description: "Drop out of the confirmation round",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "end",
					Description: "Disband the squad you created",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "status",
					Description: "Show the squad you're in",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "kick",
					Description: "Remove a member from the squad you lead",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "member",
							Description: "Who to remove",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "setchannel",
					Description: "Restrict squad creation to one channel (admin)",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionChannel,
							Name:        "channel",
							Description: "Leave empty to allow every channel",
							ChannelTypes: []discordgo.ChannelType{
								discordgo.ChannelTypeGuildText,
							},
						},
					},
				},
			},
		},
		partyService: partyService,
		messaging:    messagingService,
		logger:       logger,
	}
}

// Handle processes a Discord interaction for the partyup command
func (c *PartyupCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	data := i.ApplicationCommandData()
	if data.Name != c.Name || len(data.Options) == 0 {
		return nil
	}

	if i.Member == nil || i.Member.User == nil {
		return RespondWithEphemeralMessage(s, i, "Squad commands only work inside a server.")
	}
	userID := i.Member.User.ID

	ctx := context.Background()
	sub := data.Options[0]

	switch sub.Name {
	case "create":
		return c.handleCreate(ctx, s, i, userID, sub.Options)
	case "join":
		return c.handleJoin(ctx, s, i, userID, sub.Options)
	case "leave":
		return c.handleLeave(ctx, s, i, userID)
	case "confirm":
		return c.handleConfirm(ctx, s, i, userID)
	case "decline":
		return c.handleDecline(ctx, s, i, userID)
	case "end":
		return c.handleEnd(ctx, s, i, userID)
	case "status":
		return c.handleStatus(ctx, s, i, userID)
	case "kick":
		return c.handleKick(ctx, s, i, userID, sub.Options)
	case "setchannel":
		return c.handleSetChannel(ctx, s, i, sub.Options)
	default:
		return errors.New("unknown subcommand")
	}
}

func (c *PartyupCommand) handleCreate(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, userID string, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	var activity, mode, info string
	var capacity int
	for _, opt := range opts {
		switch opt.Name {
		case "activity":
			activity = opt.StringValue()
		case "mode":
			mode = opt.StringValue()
		case "size":
			capacity = int(opt.IntValue())
		case "info":
			info = opt.StringValue()
		}
	}

	out, err := c.partyService.CreateSession(ctx, &party.CreateSessionInput{
		UserID:    userID,
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		Activity:  activity,
		Mode:      mode,
		Capacity:  capacity,
		Info:      info,
	})
	if err != nil {
		return c.respondServiceError(ctx, s, i, err)
	}

	return RespondWithEphemeralMessage(s, i, fmt.Sprintf(
		"Squad is up! Recruiting %d players for **%s**. Your voice channel: <#%s>",
		capacity-1, activity, out.VoiceChannelID))
}

func (c *PartyupCommand) handleJoin(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, userID string, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	var leaderID string
	for _, opt := range opts {
		if opt.Name == "leader" {
			leaderID = opt.UserValue(nil).ID
		}
	}
	if leaderID == "" {
		return RespondWithEphemeralMessage(s, i, "Pick whose squad you want to join.")
	}

	leaderSession, err := c.partyService.GetSessionByUser(ctx, &party.GetSessionByUserInput{
		UserID: leaderID,
	})
	if err != nil {
		return c.respondServiceError(ctx, s, i, err)
	}

	out, err := c.partyService.JoinSession(ctx, &party.JoinSessionInput{
		UserID:    userID,
		SessionID: leaderSession.Session.ID,
	})
	if err != nil {
		return c.respondServiceError(ctx, s, i, err)
	}

	if out.AlreadyMember {
		return RespondWithEphemeralMessage(s, i, "You're already in that squad.")
	}
	if out.Filled {
		return RespondWithEphemeralMessage(s, i, "You're in, and the squad is full! Confirm when you're ready.")
	}
	return RespondWithEphemeralMessage(s, i, fmt.Sprintf(
		"You're in! Voice channel: <#%s>", out.Session.VoiceChannelID))
}

func (c *PartyupCommand) handleLeave(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, userID string) error {
	own, err := c.partyService.GetSessionByUser(ctx, &party.GetSessionByUserInput{UserID: userID})
	if err != nil {
		return c.respondServiceError(ctx, s, i, err)
	}

	_, err = c.partyService.LeaveSession(ctx, &party.LeaveSessionInput{
		UserID:    userID,
		SessionID: own.Session.ID,
	})
	if err != nil {
		return c.respondServiceError(ctx, s, i, err)
	}

	return RespondWithEphemeralMessage(s, i, "You've left the squad.")
}

func (c *PartyupCommand) handleConfirm(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, userID string) error {
	own, err := c.partyService.GetSessionByUser(ctx, &party.GetSessionByUserInput{UserID: userID})
	if err != nil {
		return c.respondServiceError(ctx, s, i, err)
	}

	out, err := c.partyService.ConfirmAttendance(ctx, &party.ConfirmAttendanceInput{
		UserID:    userID,
		SessionID: own.Session.ID,
	})
	if err != nil {
		return c.respondServiceError(ctx, s, i, err)
	}

	if out.AllConfirmed {
		return RespondWithEphemeralMessage(s, i, "Everyone's in. Head to your voice channel!")
	}
	return RespondWithEphemeralMessage(s, i, "Confirmed. Waiting on the rest of the squad.")
}

func (c *PartyupCommand) handleDecline(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, userID string) error {
	own, err := c.partyService.GetSessionByUser(ctx, &party.GetSessionByUserInput{UserID: userID})
	if err != nil {
		return c.respondServiceError(ctx, s, i, err)
	}

	out, err := c.partyService.DeclineAttendance(ctx, &party.DeclineAttendanceInput{
		UserID:    userID,
		SessionID: own.Session.ID,
	})
	if err != nil {
		return c.respondServiceError(ctx, s, i, err)
	}

	if out.Terminated {
		return RespondWithEphemeralMessage(s, i, "Squad disbanded.")
	}
	return RespondWithEphemeralMessage(s, i, "No worries, you're out. The squad is recruiting again.")
}

func (c *PartyupCommand) handleEnd(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, userID string) error {
	own, err := c.partyService.GetSessionByUser(ctx, &party.GetSessionByUserInput{UserID: userID})
	if err != nil {
		return c.respondServiceError(ctx, s, i, err)
	}

	_, err = c.partyService.TerminateSession(ctx, &party.TerminateSessionInput{
		SessionID:   own.Session.ID,
		InitiatorID: userID,
	})
	if err != nil {
		return c.respondServiceError(ctx, s, i, err)
	}

	return RespondWithEphemeralMessage(s, i, "Squad disbanded.")
}

func (c *PartyupCommand) handleStatus(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, userID string) error {
	own, err := c.partyService.GetSessionByUser(ctx, &party.GetSessionByUserInput{UserID: userID})
	if err != nil {
		return c.respondServiceError(ctx, s, i, err)
	}
	sess := own.Session

	fields := []*discordgo.MessageEmbedField{
		{
			Name:   "Status",
			Value:  statusLabel(sess.Status),
			Inline: true,
		},
		{
			Name:   "Slots",
			Value:  fmt.Sprintf("%d / %d", len(sess.Players), sess.Capacity),
			Inline: true,
		},
		{
			Name:  "Voice channel",
			Value: fmt.Sprintf("<#%s>", sess.VoiceChannelID),
		},
	}
	if sess.Status == models.SessionStatusConfirming {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Confirmed",
			Value:  fmt.Sprintf("%d / %d", len(sess.Confirmed), len(sess.Players)),
			Inline: true,
		})
	}

	title := sess.Activity
	if sess.Mode != "" {
		title = fmt.Sprintf("%s · %s", sess.Activity, sess.Mode)
	}

	return RespondWithEphemeralEmbed(s, i, title, sess.Info, fields)
}

func (c *PartyupCommand) handleKick(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, userID string, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	var targetID string
	for _, opt := range opts {
		if opt.Name == "member" {
			targetID = opt.UserValue(nil).ID
		}
	}
	if targetID == "" {
		return RespondWithEphemeralMessage(s, i, "Pick who to remove.")
	}

	own, err := c.partyService.GetSessionByUser(ctx, &party.GetSessionByUserInput{UserID: userID})
	if err != nil {
		return c.respondServiceError(ctx, s, i, err)
	}
	if own.Session.CreatorID != userID {
		return c.respondServiceError(ctx, s, i, party.ErrNotSessionCreator)
	}

	out, err := c.partyService.RemoveMember(ctx, &party.RemoveMemberInput{
		SessionID: own.Session.ID,
		UserID:    targetID,
	})
	if err != nil {
		return c.respondServiceError(ctx, s, i, err)
	}

	if out.Terminated {
		return RespondWithEphemeralMessage(s, i, "Squad disbanded.")
	}
	return RespondWithEphemeralMessage(s, i, "Removed. The squad is recruiting again.")
}

func (c *PartyupCommand) handleSetChannel(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	if i.Member.Permissions&discordgo.PermissionManageServer == 0 {
		return RespondWithError(s, i, "You need the Manage Server permission to do that.")
	}

	channelID := ""
	for _, opt := range opts {
		if opt.Name == "channel" {
			channelID = opt.ChannelValue(nil).ID
		}
	}

	_, err := c.partyService.SetRestrictedChannel(ctx, &party.SetRestrictedChannelInput{
		GuildID:   i.GuildID,
		ChannelID: channelID,
	})
	if err != nil {
		c.logger.Error("failed to update guild settings",
			zap.String("guild_id", i.GuildID),
			zap.Error(err))
		return RespondWithError(s, i, "Couldn't save the setting. Try again in a moment.")
	}

	if channelID == "" {
		return RespondWithEphemeralMessage(s, i, "Squads can now be created in any channel.")
	}
	return RespondWithEphemeralMessage(s, i, fmt.Sprintf("Squads can now only be created in <#%s>.", channelID))
}

func (c *PartyupCommand) respondServiceError(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, svcErr error) error {
	out, err := c.messaging.GetErrorMessage(ctx, &messaging.GetErrorMessageInput{Err: svcErr})
	if err != nil || out == nil {
		return RespondWithEphemeralMessage(s, i, "Something went wrong. Try again in a moment.")
	}
	return RespondWithEphemeralMessage(s, i, out.Message)
}

func statusLabel(status models.SessionStatus) string {
	switch status {
	case models.SessionStatusWaiting:
		return "Recruiting"
	case models.SessionStatusConfirming:
		return "Waiting for confirmations"
	case models.SessionStatusActive:
		return "Playing"
	default:
		return "Closed"
	}
}
