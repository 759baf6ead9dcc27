package config

import (
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

var allKeys = []string{
	"VIATOUR_ADDR", "VIATOUR_LOG_LEVEL", "VIATOUR_DEV", "VIATOUR_TITLE",
	"VIATOUR_SESSION_DB", "VIATOUR_NATS_DIR", "VIATOUR_PUBSUB", "VIATOUR_LATENCY",
	"VIATOUR_ACTION_RATE", "VIATOUR_ACTION_BURST", "VIATOUR_CONTEXT_TTL",
}

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	original, existed := os.LookupEnv(key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("failed to unset %s: %v", key, err)
	}
	t.Cleanup(func() {
		if !existed {
			_ = os.Unsetenv(key)
			return
		}
		_ = os.Setenv(key, original)
	})
}

func TestDefaults(t *testing.T) {
	for _, k := range allKeys {
		unsetEnv(t, k)
	}

	cfg := New()

	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.False(t, cfg.Dev)
	assert.Equal(t, "viatour.db", cfg.SessionDB)
	assert.Equal(t, PubSubNATS, cfg.PubSub)
	assert.Equal(t, time.Second, cfg.Latency)
	assert.Zero(t, cfg.ActionRate)
	assert.Zero(t, cfg.ContextTTL)
	assert.NoError(t, cfg.Validate())
}

func TestOverrides(t *testing.T) {
	t.Setenv("VIATOUR_ADDR", ":8080")
	t.Setenv("VIATOUR_LOG_LEVEL", "debug")
	t.Setenv("VIATOUR_DEV", "true")
	t.Setenv("VIATOUR_SESSION_DB", "")
	t.Setenv("VIATOUR_PUBSUB", "off")
	t.Setenv("VIATOUR_LATENCY", "50ms")
	t.Setenv("VIATOUR_ACTION_RATE", "2.5")
	t.Setenv("VIATOUR_ACTION_BURST", "7")
	t.Setenv("VIATOUR_CONTEXT_TTL", "-1s")

	cfg := New()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
	assert.True(t, cfg.Dev)
	assert.Empty(t, cfg.SessionDB, "explicit empty value selects in-memory sessions")
	assert.Equal(t, PubSubOff, cfg.PubSub)
	assert.Equal(t, 50*time.Millisecond, cfg.Latency)
	assert.InDelta(t, 2.5, cfg.ActionRate, 0.0001)
	assert.Equal(t, 7, cfg.ActionBurst)
	assert.Equal(t, -time.Second, cfg.ContextTTL)
	assert.NoError(t, cfg.Validate())
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("VIATOUR_LOG_LEVEL", "loud")
	t.Setenv("VIATOUR_LATENCY", "soon")
	t.Setenv("VIATOUR_ACTION_BURST", "many")

	cfg := New()

	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.Equal(t, time.Second, cfg.Latency)
	assert.Zero(t, cfg.ActionBurst)
}

func TestValidate(t *testing.T) {
	t.Setenv("VIATOUR_PUBSUB", "kafka")
	assert.ErrorContains(t, New().Validate(), "unknown backend")

	t.Setenv("VIATOUR_PUBSUB", "nats")
	t.Setenv("VIATOUR_NATS_DIR", "")
	assert.ErrorContains(t, New().Validate(), "VIATOUR_NATS_DIR")

	t.Setenv("VIATOUR_NATS_DIR", "/tmp/nats")
	t.Setenv("VIATOUR_LATENCY", "-5s")
	assert.ErrorContains(t, New().Validate(), "VIATOUR_LATENCY")
}
