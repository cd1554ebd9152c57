/**
 * @description
 * This package handles the configuration management for the member-portal. It
 * uses the Viper library to read configuration from environment variables,
 * providing a centralized and straightforward way to manage application
 * settings.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 */

package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all the configuration variables for the member-portal.
// These values are loaded from environment variables.
type Config struct {
	ServerPort            string `mapstructure:"SERVER_PORT"`
	DatabaseURL           string `mapstructure:"DATABASE_URL"`
	RedisURL              string `mapstructure:"REDIS_URL"`
	RedisCachePrefix      string `mapstructure:"REDIS_CACHE_PREFIX"`
	RabbitMQURL           string `mapstructure:"RABBITMQ_URL"`
	JWTSecret             string `mapstructure:"JWT_SECRET"`
	TokenTTLMinutes       int    `mapstructure:"TOKEN_TTL_MINUTES"`
	DeadlineSweepSchedule string `mapstructure:"DEADLINE_SWEEP_SCHEDULE"`
	EventCacheTTLSeconds  int    `mapstructure:"EVENT_CACHE_TTL_SECONDS"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("REDIS_CACHE_PREFIX", "portal:cache")
	viper.SetDefault("TOKEN_TTL_MINUTES", 12*60)
	viper.SetDefault("DEADLINE_SWEEP_SCHEDULE", "0 * * * *") // hourly, on the hour
	viper.SetDefault("EVENT_CACHE_TTL_SECONDS", 300)
	viper.AutomaticEnv()

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("REDIS_URL")
	_ = viper.BindEnv("REDIS_CACHE_PREFIX")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("JWT_SECRET")
	_ = viper.BindEnv("TOKEN_TTL_MINUTES")
	_ = viper.BindEnv("DEADLINE_SWEEP_SCHEDULE")
	_ = viper.BindEnv("EVENT_CACHE_TTL_SECONDS")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if strings.TrimSpace(config.DatabaseURL) == "" {
		return nil, errors.New("DATABASE_URL must be configured")
	}
	if strings.TrimSpace(config.JWTSecret) == "" {
		return nil, errors.New("JWT_SECRET must be configured")
	}

	return &config, nil
}
