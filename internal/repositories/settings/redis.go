package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glutchdiscord-alt/v4-partyup/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefix for Redis
	settingsKeyPrefix = "party:guild_settings:"
)

// ErrSettingsNotFound is returned when a guild has no settings record
var ErrSettingsNotFound = errors.New("guild settings not found")

// Config holds configuration for the Redis settings repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed settings repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// UpsertGuildSettings creates or updates settings for a guild
func (r *redisRepository) UpsertGuildSettings(ctx context.Context, input *UpsertGuildSettingsInput) error {
	if input == nil || input.GuildID == "" {
		return errors.New("input and guild ID cannot be empty")
	}

	guildSettings := &models.GuildSettings{
		GuildID:             input.GuildID,
		RestrictedChannelID: input.RestrictedChannelID,
		UpdatedAt:           time.Now(),
	}

	settingsJSON, err := json.Marshal(guildSettings)
	if err != nil {
		return fmt.Errorf("failed to marshal guild settings: %w", err)
	}

	settingsKey := fmt.Sprintf("%s%s", settingsKeyPrefix, input.GuildID)
	if err := r.client.Set(ctx, settingsKey, settingsJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to save guild settings: %w", err)
	}

	return nil
}

// GetGuildSettings retrieves settings for a guild
func (r *redisRepository) GetGuildSettings(ctx context.Context, input *GetGuildSettingsInput) (*models.GuildSettings, error) {
	if input == nil || input.GuildID == "" {
		return nil, errors.New("input and guild ID cannot be empty")
	}

	settingsKey := fmt.Sprintf("%s%s", settingsKeyPrefix, input.GuildID)
	settingsJSON, err := r.client.Get(ctx, settingsKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("failed to get guild settings: %w", err)
	}

	var guildSettings models.GuildSettings
	if err := json.Unmarshal([]byte(settingsJSON), &guildSettings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal guild settings: %w", err)
	}

	return &guildSettings, nil
}
