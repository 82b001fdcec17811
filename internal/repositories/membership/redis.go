package membership

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	// Key prefix for Redis
	membershipKeyPrefix = "party:member:"
)

// ErrMembershipNotFound is returned when a user has no membership record
var ErrMembershipNotFound = errors.New("membership not found")

// Config holds configuration for the Redis membership repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed membership repository
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

// CreateMembership records the user's session, replacing any prior record
func (r *redisRepository) CreateMembership(ctx context.Context, input *CreateMembershipInput) error {
	if input == nil || input.UserID == "" || input.SessionID == "" {
		return errors.New("input, user ID and session ID cannot be empty")
	}

	// A plain SET replaces whatever membership the user had before, which is
	// what keeps the at-most-one-session-per-user rule true in the store.
	membershipKey := fmt.Sprintf("%s%s", membershipKeyPrefix, input.UserID)
	if err := r.client.Set(ctx, membershipKey, input.SessionID, 0).Err(); err != nil {
		return fmt.Errorf("failed to save membership: %w", err)
	}

	return nil
}

// GetMembership retrieves the session ID for a user
func (r *redisRepository) GetMembership(ctx context.Context, input *GetMembershipInput) (*GetMembershipOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.New("input and user ID cannot be empty")
	}

	membershipKey := fmt.Sprintf("%s%s", membershipKeyPrefix, input.UserID)
	sessionID, err := r.client.Get(ctx, membershipKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	return &GetMembershipOutput{
		SessionID: sessionID,
	}, nil
}

// DeleteMembership removes the user's membership record
func (r *redisRepository) DeleteMembership(ctx context.Context, input *DeleteMembershipInput) error {
	if input == nil || input.UserID == "" {
		return errors.New("input and user ID cannot be empty")
	}

	membershipKey := fmt.Sprintf("%s%s", membershipKeyPrefix, input.UserID)
	if err := r.client.Del(ctx, membershipKey).Err(); err != nil {
		return fmt.Errorf("failed to delete membership: %w", err)
	}

	return nil
}
