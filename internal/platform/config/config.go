package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/legacykeep/legacykeep-client/internal/platform/logger"
)

type DBConfig struct {
	DSN string // Data Source Name
}

type ClientConfig struct {
	GatewayURL       string
	GatewayTimeout   time.Duration
	UsernameDebounce time.Duration
	ResendCooldown   time.Duration
	PreferencesPath  string
	Preferences      DBConfig
	LogLevel         string
	LogFormat        string
}

// LoadDotEnv reads .env from the working directory when one exists.
// Variables already present in the environment win.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, relying on environment variables")
	}
}

func LoadClientConfig() ClientConfig {
	return ClientConfig{
		GatewayURL:       GetEnv("GATEWAY_URL", "http://localhost:8080"),
		GatewayTimeout:   GetEnvAsDuration("GATEWAY_TIMEOUT", 15*time.Second),
		UsernameDebounce: GetEnvAsDuration("USERNAME_DEBOUNCE", 500*time.Millisecond),
		ResendCooldown:   GetEnvAsDuration("OTP_RESEND_COOLDOWN", 60*time.Second),
		PreferencesPath:  GetEnv("PREFERENCES_PATH", defaultPreferencesPath()),
		Preferences:      LoadPreferencesDBConfig(),
		LogLevel:         GetEnv("LOG_LEVEL", "info"),
		LogFormat:        GetEnv("LOG_FORMAT", "json"),
	}
}

// LoadPreferencesDBConfig returns an empty DSN unless PREFERENCES_DSN is set,
// in which case preferences live in Postgres instead of the local file.
func LoadPreferencesDBConfig() DBConfig {
	return DBConfig{DSN: GetEnv("PREFERENCES_DSN", "")}
}

func defaultPreferencesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".legacykeep", "preferences.json")
	}
	return filepath.Join(home, ".legacykeep", "preferences.json")
}

func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func GetEnvAsInt(key string, fallback int) int {
	strValue := GetEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func GetEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := GetEnv(key, "")
	if strValue == "" {
		return fallback
	}
	value, err := time.ParseDuration(strValue)
	if err != nil || value < 0 {
		logger.Warn("Invalid duration %q for %s, using %v", strValue, key, fallback)
		return fallback
	}
	return value
}
