package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// PubSub backends selectable with VIATOUR_PUBSUB.
const (
	PubSubNATS = "nats"
	PubSubOff  = "off"
)

type Config struct {
	// Server
	Addr  string
	Title string
	Dev   bool

	// Logging
	LogLevel zerolog.Level

	// Sessions. An empty path keeps sessions in memory.
	SessionDB string

	// Pub/sub
	PubSub  string
	NATSDir string

	// Demos
	Latency time.Duration

	// Engine limits
	ActionRate  float64
	ActionBurst int
	ContextTTL  time.Duration
}

func New() *Config {
	return &Config{
		Addr:  getEnv("VIATOUR_ADDR", ":3000"),
		Title: getEnv("VIATOUR_TITLE", "Via Tour"),
		Dev:   getEnvAsBool("VIATOUR_DEV", false),

		LogLevel: getEnvAsLevel("VIATOUR_LOG_LEVEL", zerolog.InfoLevel),

		SessionDB: getEnv("VIATOUR_SESSION_DB", "viatour.db"),

		PubSub:  getEnv("VIATOUR_PUBSUB", PubSubNATS),
		NATSDir: getEnv("VIATOUR_NATS_DIR", "./data/nats"),

		Latency: getEnvAsDuration("VIATOUR_LATENCY", time.Second),

		ActionRate:  getEnvAsFloat("VIATOUR_ACTION_RATE", 0),
		ActionBurst: getEnvAsInt("VIATOUR_ACTION_BURST", 0),
		ContextTTL:  getEnvAsDuration("VIATOUR_CONTEXT_TTL", 0),
	}
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.PubSub {
	case PubSubNATS, PubSubOff:
	default:
		return fmt.Errorf("VIATOUR_PUBSUB: unknown backend %q (want %q or %q)", c.PubSub, PubSubNATS, PubSubOff)
	}
	if c.PubSub == PubSubNATS && c.NATSDir == "" {
		return fmt.Errorf("VIATOUR_NATS_DIR: required when VIATOUR_PUBSUB=%s", PubSubNATS)
	}
	if c.Latency < 0 {
		return fmt.Errorf("VIATOUR_LATENCY: must not be negative, got %s", c.Latency)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return valueStr == "true" || valueStr == "1"
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsLevel(key string, defaultValue zerolog.Level) zerolog.Level {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	level, err := zerolog.ParseLevel(valueStr)
	if err != nil {
		return defaultValue
	}
	return level
}
