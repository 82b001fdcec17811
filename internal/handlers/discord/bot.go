package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	discordPlatform "github.com/glutchdiscord-alt/v4-partyup/internal/platform/discord"
	"github.com/glutchdiscord-alt/v4-partyup/internal/services/messaging"
	"github.com/glutchdiscord-alt/v4-partyup/internal/services/party"
	"go.uber.org/zap"
)

// Bot represents the Discord bot instance
type Bot struct {
	session      *discordgo.Session
	commands     map[string]CommandHandler
	commandIDs   map[string]string // Maps command name to command ID
	partyService party.Service
	messaging    messaging.Service
	logger       *zap.Logger
	config       *Config
}

// Config holds the configuration for the bot
type Config struct {
	// Session is the shared discordgo session; the bot does not open or
	// close it
	Session *discordgo.Session

	// Application ID for the bot
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	// PartyService drives the session lifecycle
	PartyService party.Service

	// Messaging supplies user-facing copy for errors and replies
	Messaging messaging.Service

	// Logger defaults to a no-op logger when nil
	Logger *zap.Logger
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Session == nil {
		return nil, errors.New("discord session cannot be nil")
	}
	if cfg.PartyService == nil {
		return nil, errors.New("party service cannot be nil")
	}
	if cfg.Messaging == nil {
		return nil, errors.New("messaging service cannot be nil")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bot := &Bot{
		session:      cfg.Session,
		commands:     make(map[string]CommandHandler),
		commandIDs:   make(map[string]string),
		partyService: cfg.PartyService,
		messaging:    cfg.Messaging,
		logger:       logger,
		config:       cfg,
	}

	// Register the interaction handler
	cfg.Session.AddHandler(bot.handleInteraction)

	return bot, nil
}

// Start registers the bot's commands. The underlying session must already
// be open.
func (b *Bot) Start() error {
	partyupCmd := NewPartyupCommand(b.partyService, b.messaging, b.logger)
	if err := b.RegisterCommand(partyupCmd); err != nil {
		return fmt.Errorf("failed to register partyup command: %w", err)
	}

	b.logger.Info("bot is now running")
	return nil
}

// Stop removes the bot's registered commands
func (b *Bot) Stop() error {
	appID := b.config.ApplicationID
	if appID == "" {
		appID = b.session.State.User.ID
	}

	for cmdName, cmdID := range b.commandIDs {
		if err := b.session.ApplicationCommandDelete(appID, b.config.GuildID, cmdID); err != nil {
			b.logger.Warn("failed to delete command",
				zap.String("command", cmdName),
				zap.Error(err))
		}
	}

	return nil
}

// RegisterCommand registers a command with Discord
func (b *Bot) RegisterCommand(cmd CommandHandler) error {
	appID := b.config.ApplicationID
	if appID == "" {
		// Fall back to session user ID if application ID is not provided
		appID = b.session.State.User.ID
	}

	// If guild ID is provided, register command for that specific guild.
	// Otherwise, register it globally.
	guildID := b.config.GuildID
	if guildID != "" {
		b.logger.Info("registering guild command",
			zap.String("command", cmd.GetName()),
			zap.String("guild_id", guildID))
	} else {
		b.logger.Info("registering global command",
			zap.String("command", cmd.GetName()))
	}

	createdCmd, err := b.session.ApplicationCommandCreate(appID, guildID, cmd.GetCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.GetName(), err)
	}

	b.commands[cmd.GetName()] = cmd
	b.commandIDs[cmd.GetName()] = createdCmd.ID

	return nil
}

// handleInteraction handles Discord interactions. A panic in one
// interaction is logged and contained rather than taking the process down.
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("recovered panic in interaction handler",
				zap.Any("panic", r))
		}
	}()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if h, ok := b.commands[i.ApplicationCommandData().Name]; ok {
			if err := h.Handle(s, i); err != nil {
				b.logger.Error("command handling failed",
					zap.String("command", i.ApplicationCommandData().Name),
					zap.Error(err))
			}
		}
	case discordgo.InteractionMessageComponent:
		if err := b.handleComponentInteraction(s, i); err != nil {
			b.logger.Error("component handling failed",
				zap.String("custom_id", i.MessageComponentData().CustomID),
				zap.Error(err))
		}
	}
}

// handleComponentInteraction handles the buttons rendered onto squad
// announcements. The custom ID carries the action and the session ID.
func (b *Bot) handleComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	action, sessionID, ok := strings.Cut(i.MessageComponentData().CustomID, ":")
	if !ok {
		return RespondWithEphemeralMessage(s, i, "That button has expired.")
	}

	if i.Member == nil || i.Member.User == nil {
		return RespondWithEphemeralMessage(s, i, "Squad buttons only work inside a server.")
	}
	userID := i.Member.User.ID

	ctx := context.Background()

	switch action {
	case discordPlatform.ButtonJoinSquad:
		return b.handleJoinButton(ctx, s, i, sessionID, userID)

	case discordPlatform.ButtonLeaveSquad:
		_, err := b.partyService.LeaveSession(ctx, &party.LeaveSessionInput{
			UserID:    userID,
			SessionID: sessionID,
		})
		if err != nil {
			return b.respondServiceError(ctx, s, i, err)
		}
		return RespondWithEphemeralMessage(s, i, "You've left the squad.")

	case discordPlatform.ButtonConfirmReady:
		out, err := b.partyService.ConfirmAttendance(ctx, &party.ConfirmAttendanceInput{
			UserID:    userID,
			SessionID: sessionID,
		})
		if err != nil {
			return b.respondServiceError(ctx, s, i, err)
		}
		if out.AllConfirmed {
			return RespondWithEphemeralMessage(s, i, "Everyone's in. Head to your voice channel!")
		}
		return RespondWithEphemeralMessage(s, i, "Confirmed. Waiting on the rest of the squad.")

	case discordPlatform.ButtonDeclineReady:
		out, err := b.partyService.DeclineAttendance(ctx, &party.DeclineAttendanceInput{
			UserID:    userID,
			SessionID: sessionID,
		})
		if err != nil {
			return b.respondServiceError(ctx, s, i, err)
		}
		if out.Terminated {
			return RespondWithEphemeralMessage(s, i, "Squad disbanded.")
		}
		return RespondWithEphemeralMessage(s, i, "No worries, you're out. The squad is recruiting again.")

	default:
		return RespondWithEphemeralMessage(s, i, "That button has expired.")
	}
}

func (b *Bot) handleJoinButton(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, sessionID, userID string) error {
	out, err := b.partyService.JoinSession(ctx, &party.JoinSessionInput{
		UserID:    userID,
		SessionID: sessionID,
	})
	if err != nil {
		return b.respondServiceError(ctx, s, i, err)
	}

	if out.AlreadyMember {
		return RespondWithEphemeralMessage(s, i, "You're already in this squad.")
	}
	if out.Filled {
		return RespondWithEphemeralMessage(s, i, "You're in, and the squad is full! Confirm when you're ready.")
	}
	return RespondWithEphemeralMessage(s, i, "You're in! You have access to the squad's voice channel.")
}

// respondServiceError turns a service error into friendly ephemeral copy
func (b *Bot) respondServiceError(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, svcErr error) error {
	out, err := b.messaging.GetErrorMessage(ctx, &messaging.GetErrorMessageInput{Err: svcErr})
	if err != nil || out == nil {
		return RespondWithEphemeralMessage(s, i, "Something went wrong. Try again in a moment.")
	}
	return RespondWithEphemeralMessage(s, i, out.Message)
}
