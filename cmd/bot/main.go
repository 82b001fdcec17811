package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/glutchdiscord-alt/v4-partyup/internal/config"
	"github.com/glutchdiscord-alt/v4-partyup/internal/guard"
	discordHandlers "github.com/glutchdiscord-alt/v4-partyup/internal/handlers/discord"
	discordPlatform "github.com/glutchdiscord-alt/v4-partyup/internal/platform/discord"
	"github.com/glutchdiscord-alt/v4-partyup/internal/registry"
	membershipRepo "github.com/glutchdiscord-alt/v4-partyup/internal/repositories/membership"
	sessionRepo "github.com/glutchdiscord-alt/v4-partyup/internal/repositories/session"
	settingsRepo "github.com/glutchdiscord-alt/v4-partyup/internal/repositories/settings"
	"github.com/glutchdiscord-alt/v4-partyup/internal/services/messaging"
	"github.com/glutchdiscord-alt/v4-partyup/internal/services/party"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := newLogger(cfg.AppEnv)
	defer func() { _ = logger.Sync() }()

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}

	// Repositories
	sessions, err := sessionRepo.NewRedis(&sessionRepo.Config{RedisClient: redisClient})
	if err != nil {
		logger.Fatal("failed to create session repository", zap.Error(err))
	}
	memberships, err := membershipRepo.NewRedis(&membershipRepo.Config{RedisClient: redisClient})
	if err != nil {
		logger.Fatal("failed to create membership repository", zap.Error(err))
	}
	settings, err := settingsRepo.NewRedis(&settingsRepo.Config{RedisClient: redisClient})
	if err != nil {
		logger.Fatal("failed to create settings repository", zap.Error(err))
	}

	messagingSvc, err := messaging.NewService(&messaging.ServiceConfig{})
	if err != nil {
		logger.Fatal("failed to create messaging service", zap.Error(err))
	}

	// Discord session, shared by the platform adapter and the bot
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		logger.Fatal("failed to create discord session", zap.Error(err))
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates

	if err := dg.Open(); err != nil {
		logger.Fatal("failed to open discord connection", zap.Error(err))
	}
	defer func() { _ = dg.Close() }()

	platformAdapter, err := discordPlatform.New(&discordPlatform.Config{
		Session:   dg,
		Messaging: messagingSvc,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal("failed to create platform adapter", zap.Error(err))
	}

	// Party service
	partySvc, err := party.New(&party.Config{
		SessionRepo:    sessions,
		MembershipRepo: memberships,
		SettingsRepo:   settings,
		Platform:       platformAdapter,
		Registry:       registry.New(),
		Guard:          guard.New(&guard.Config{StaleAfter: cfg.GuardTTL}),
		Logger:         logger,
		RecruitWindow:  cfg.RecruitWindow,
		ConfirmWindow:  cfg.ConfirmWindow,
		SweepInterval:  cfg.SweepInterval,
		MaxCapacity:    cfg.MaxCapacity,
	})
	if err != nil {
		logger.Fatal("failed to create party service", zap.Error(err))
	}

	// Pick up where the previous process left off before taking commands
	if err := partySvc.Restore(context.Background()); err != nil {
		logger.Fatal("failed to restore sessions", zap.Error(err))
	}

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	partySvc.StartSweep(sweepCtx)

	bot, err := discordHandlers.New(&discordHandlers.Config{
		Session:       dg,
		ApplicationID: cfg.ApplicationID,
		GuildID:       cfg.GuildID,
		PartyService:  partySvc,
		Messaging:     messagingSvc,
		Logger:        logger,
	})
	if err != nil {
		logger.Fatal("failed to create discord bot", zap.Error(err))
	}

	if err := bot.Start(); err != nil {
		logger.Fatal("failed to start discord bot", zap.Error(err))
	}

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.Info("shutting down")
	if err := bot.Stop(); err != nil {
		logger.Warn("error stopping bot", zap.Error(err))
	}
	stopSweep()
	partySvc.Stop()
}

// newLogger builds a production logger, or a human-readable one in
// development
func newLogger(appEnv string) *zap.Logger {
	var logger *zap.Logger
	var err error
	if appEnv == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	return logger
}
