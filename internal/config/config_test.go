package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	setEnvWithCleanup(t, "DATABASE_URL", "postgres://localhost/portal")
	setEnvWithCleanup(t, "JWT_SECRET", "test-secret")
	unsetEnvWithCleanup(t, "SERVER_PORT")
	unsetEnvWithCleanup(t, "REDIS_CACHE_PREFIX")
	unsetEnvWithCleanup(t, "TOKEN_TTL_MINUTES")
	unsetEnvWithCleanup(t, "DEADLINE_SWEEP_SCHEDULE")
	unsetEnvWithCleanup(t, "EVENT_CACHE_TTL_SECONDS")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.ServerPort != "8080" {
		t.Fatalf("expected default server port 8080, got %q", cfg.ServerPort)
	}
	if cfg.RedisCachePrefix != "portal:cache" {
		t.Fatalf("expected default cache prefix, got %q", cfg.RedisCachePrefix)
	}
	if cfg.TokenTTLMinutes != 720 {
		t.Fatalf("expected default token TTL 720 minutes, got %d", cfg.TokenTTLMinutes)
	}
	if cfg.DeadlineSweepSchedule != "0 * * * *" {
		t.Fatalf("expected hourly sweep schedule, got %q", cfg.DeadlineSweepSchedule)
	}
	if cfg.EventCacheTTLSeconds != 300 {
		t.Fatalf("expected default cache TTL 300 seconds, got %d", cfg.EventCacheTTLSeconds)
	}
}

func TestLoadConfig_ReadsEnvironmentOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	setEnvWithCleanup(t, "DATABASE_URL", "postgres://localhost/portal")
	setEnvWithCleanup(t, "JWT_SECRET", "test-secret")
	setEnvWithCleanup(t, "SERVER_PORT", "9090")
	setEnvWithCleanup(t, "TOKEN_TTL_MINUTES", "60")
	setEnvWithCleanup(t, "DEADLINE_SWEEP_SCHEDULE", "30 9 * * *")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.ServerPort != "9090" {
		t.Fatalf("expected server port 9090, got %q", cfg.ServerPort)
	}
	if cfg.TokenTTLMinutes != 60 {
		t.Fatalf("expected token TTL 60 minutes, got %d", cfg.TokenTTLMinutes)
	}
	if cfg.DeadlineSweepSchedule != "30 9 * * *" {
		t.Fatalf("expected overridden sweep schedule, got %q", cfg.DeadlineSweepSchedule)
	}
}

func TestLoadConfig_RequiresDatabaseURL(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	unsetEnvWithCleanup(t, "DATABASE_URL")
	setEnvWithCleanup(t, "JWT_SECRET", "test-secret")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}
}

func TestLoadConfig_RequiresJWTSecret(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	setEnvWithCleanup(t, "DATABASE_URL", "postgres://localhost/portal")
	unsetEnvWithCleanup(t, "JWT_SECRET")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when JWT_SECRET is missing")
	}
}

func setEnvWithCleanup(t *testing.T, key string, value string) {
	t.Helper()
	prev, hadPrev := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if hadPrev {
			_ = os.Setenv(key, prev)
			return
		}
		_ = os.Unsetenv(key)
	})
}

func unsetEnvWithCleanup(t *testing.T, key string) {
	t.Helper()
	prev, hadPrev := os.LookupEnv(key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("failed to unset env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if hadPrev {
			_ = os.Setenv(key, prev)
			return
		}
		_ = os.Unsetenv(key)
	})
}
