// Package config supplies defaults for the command-line flags from the
// environment and an optional .env file.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Backend     string // sqlite, postgres, redis or memory
	DBPath      string // sqlite file; empty means the system default
	WAL         bool
	SyncMode    string
	PostgresDSN string
	RedisURL    string
	KeyPrefix   string
	LogLevel    string
	LogFormat   string
	TimeZone    string // IANA name used for day bucketing; empty means local
}

// Load reads .env from the working directory (if present) and then the
// MIMAL_* variables. Variables already set in the environment win over .env.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() Config {
	return Config{
		Backend:     getEnv("MIMAL_BACKEND", "sqlite"),
		DBPath:      getEnv("MIMAL_DB", ""),
		WAL:         getBool("MIMAL_WAL", false),
		SyncMode:    strings.ToUpper(getEnv("MIMAL_SYNC", "FULL")),
		PostgresDSN: getEnv("MIMAL_POSTGRES_DSN", ""),
		RedisURL:    getEnv("MIMAL_REDIS_URL", ""),
		KeyPrefix:   getEnvAllowEmpty("MIMAL_KEY_PREFIX", "mimal-note-speech-"),
		LogLevel:    getEnv("MIMAL_LOG_LEVEL", "warn"),
		LogFormat:   getEnv("MIMAL_LOG_FORMAT", "console"),
		TimeZone:    getEnv("MIMAL_TZ", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAllowEmpty distinguishes an unset variable from one set to "".
func getEnvAllowEmpty(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return b
}
