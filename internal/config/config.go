// Package config reads server settings from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries everything main needs to wire the server together.
type Config struct {
	Port        string
	DatabaseURL string

	GeminiAPIKey string
	AIModel      string

	// Per-client websocket budgets.
	MessageRate   int
	MessageWindow time.Duration
	TypingRate    int
	TypingWindow  time.Duration

	// Per-IP budget for the /api endpoints.
	APIRate   int
	APIWindow time.Duration
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Load reads all env vars and builds the config.
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DB_URL", ""),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		AIModel:      getEnv("AI_MODEL", "gemini-2.5-flash"),

		MessageRate:   getIntEnv("MESSAGE_RATE_LIMIT", 30),
		MessageWindow: time.Minute,
		TypingRate:    getIntEnv("TYPING_RATE_LIMIT", 60),
		TypingWindow:  time.Minute,

		APIRate:   getIntEnv("API_RATE_LIMIT", 60),
		APIWindow: time.Minute,
	}
}
