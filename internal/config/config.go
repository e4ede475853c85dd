package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP API settings
	APIAddr string
	APIKey  string // shared secret for X-API-Key; empty disables auth
	DevMode bool

	// Redis settings (optional snapshot cache)
	RedisAddr string

	// ClickHouse settings (optional analytics sink)
	ClickHouseAddr     string
	ClickHouseDatabase string
	ClickHouseUsername string
	ClickHousePassword string

	// OpenRouter / LLM settings (optional intent model tier)
	OpenRouterAPIKey string
	IntentModel      string

	// DefiLlama settings
	DefiLlamaBaseURL string

	// Request handling
	RequestTimeout  time.Duration
	PoolSnapshotTTL time.Duration
	GasSnapshotTTL  time.Duration
}

func Load() *Config {
	return &Config{
		// API
		APIAddr: getEnv("API_ADDR", ":8080"),
		APIKey:  getEnv("AGENT_API_KEY", ""),
		DevMode: getBoolEnv("DEV_MODE", false),

		// Redis
		RedisAddr: getEnv("REDIS_ADDR", ""),

		// ClickHouse
		ClickHouseAddr:     getEnv("CLICKHOUSE_ADDR", ""),
		ClickHouseDatabase: getEnv("CLICKHOUSE_DATABASE", "agent"),
		ClickHouseUsername: getEnv("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),

		// LLM
		OpenRouterAPIKey: getEnv("OPENROUTER_API_KEY", ""),
		IntentModel:      getEnv("INTENT_MODEL", "openai/gpt-4.1-mini"),

		// DefiLlama
		DefiLlamaBaseURL: getEnv("DEFILLAMA_BASE_URL", ""),

		// Timeouts
		RequestTimeout:  getDurationEnv("REQUEST_TIMEOUT", 45*time.Second),
		PoolSnapshotTTL: getDurationEnv("POOL_SNAPSHOT_TTL", 5*time.Minute),
		GasSnapshotTTL:  getDurationEnv("GAS_SNAPSHOT_TTL", 2*time.Minute),
	}
}

func (c *Config) Validate() error {
	if !strings.Contains(c.APIAddr, ":") {
		return fmt.Errorf("API_ADDR must include a port, got %q", c.APIAddr)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
