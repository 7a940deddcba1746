package config

import (
	"os"
	"strconv"
	"time"

	"github.com/bygglet/crew-scheduling-api/internal/constants"
)

type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	GinMode       string
	LogLevel      string
	OpenAIAPIKey  string

	// AttendanceDedupWindow is the half-width of the retransmission window
	// for attendance events. The 60s default matches observed mobile client
	// retry behaviour; it is not a business rule, so it stays configurable.
	AttendanceDedupWindow time.Duration
}

func Load() *Config {
	return &Config{
		DBDriver:              getEnv("DB_DRIVER", "mysql"),
		DBHost:                getEnv("DB_HOST", "localhost"),
		DBPort:                getEnv("DB_PORT", "3306"),
		DBUser:                getEnv("DB_USER", "crewuser"),
		DBPassword:            getEnv("DB_PASSWORD", "crewpassword"),
		DBName:                getEnv("DB_NAME", "crew_scheduling"),
		RedisHost:             getEnv("REDIS_HOST", "localhost"),
		RedisPort:             getEnv("REDIS_PORT", "6379"),
		SessionSecret:         getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:               getEnv("GIN_MODE", "debug"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		OpenAIAPIKey:          getEnv("OPENAI_API_KEY", ""),
		AttendanceDedupWindow: time.Duration(getEnvInt("ATTENDANCE_DEDUP_SECONDS", constants.DefaultAttendanceDedupSeconds)) * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
