package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all bot configuration sourced from the environment.
type Config struct {
	AppEnv   string // APP_ENV
	LogLevel string // LOG_LEVEL

	// Discord
	DiscordToken  string // DISCORD_TOKEN
	ApplicationID string // APPLICATION_ID
	GuildID       string // GUILD_ID, optional, for dev-server commands

	// Redis
	RedisAddr     string // REDIS_ADDR
	RedisPassword string // REDIS_PASSWORD

	// Session lifecycle
	RecruitWindow time.Duration // RECRUIT_WINDOW
	ConfirmWindow time.Duration // CONFIRM_WINDOW
	SweepInterval time.Duration // SWEEP_INTERVAL
	GuardTTL      time.Duration // GUARD_TTL
	MaxCapacity   int           // MAX_CAPACITY
}

// Load loads config from environment (.env if present).
func Load() (*Config, error) {
	_ = godotenv.Load()

	maxCap, _ := strconv.Atoi(getEnv("MAX_CAPACITY", "10"))

	cfg := &Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DiscordToken:  getEnv("DISCORD_TOKEN", ""),
		ApplicationID: getEnv("APPLICATION_ID", ""),
		GuildID:       getEnv("GUILD_ID", ""),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RecruitWindow: getDuration("RECRUIT_WINDOW", 20*time.Minute),
		ConfirmWindow: getDuration("CONFIRM_WINDOW", 5*time.Minute),
		SweepInterval: getDuration("SWEEP_INTERVAL", time.Minute),
		GuardTTL:      getDuration("GUARD_TTL", 30*time.Second),
		MaxCapacity:   maxCap,
	}

	return cfg, nil
}

// Validate checks the fields main cannot run without.
func (c *Config) Validate() error {
	if c.DiscordToken == "" {
		return errors.New("DISCORD_TOKEN is required")
	}
	if c.RedisAddr == "" {
		return errors.New("REDIS_ADDR is required")
	}
	if c.MaxCapacity < 2 {
		return errors.New("MAX_CAPACITY must be at least 2")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
