package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	TelegramToken string

	GeminiAPIKey      string
	GeminiModel       string
	GeminiBaseURL     string
	GeminiAPIVersion  string
	GeminiTemperature float32

	LogLevel string
	Debug    bool

	PreferIPv4 bool

	MaxConcurrent  int
	RequestTimeout time.Duration
	HTTPTimeout    time.Duration
	SessionTTL     time.Duration

	WebAddr              string
	WebGeneratePerMinute int
}

// Load reads settings from the environment. Nothing is required here;
// each binary checks the keys it cannot run without.
func Load() (Config, error) {
	cfg := Config{
		TelegramToken:        strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		GeminiAPIKey:         strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:          getEnv("GEMINI_MODEL", "gemini-3-flash-preview"),
		GeminiBaseURL:        getEnv("GEMINI_BASE_URL", ""),
		GeminiAPIVersion:     getEnv("GEMINI_API_VERSION", ""),
		GeminiTemperature:    getEnvFloat32("GEMINI_TEMPERATURE", 0.7),
		LogLevel:             strings.ToLower(getEnv("LOG_LEVEL", "info")),
		Debug:                getEnvBool("DEBUG", false),
		PreferIPv4:           getEnvBool("PREFER_IPV4", true),
		MaxConcurrent:        getEnvInt("MAX_CONCURRENT", 4),
		RequestTimeout:       time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 120)) * time.Second,
		HTTPTimeout:          time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 180)) * time.Second,
		SessionTTL:           time.Duration(getEnvInt("SESSION_TTL_MINUTES", 120)) * time.Minute,
		WebAddr:              getEnv("WEB_ADDR", ":8080"),
		WebGeneratePerMinute: getEnvInt("WEB_GENERATE_PER_MINUTE", 10),
	}

	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 120 * time.Second
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 180 * time.Second
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 2 * time.Hour
	}
	if cfg.WebGeneratePerMinute < 1 {
		cfg.WebGeneratePerMinute = 1
	}
	if cfg.GeminiTemperature < 0 || cfg.GeminiTemperature > 2 {
		cfg.GeminiTemperature = 0.7
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat32(key string, fallback float32) float32 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 32)
	if err != nil {
		return fallback
	}
	return float32(parsed)
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
