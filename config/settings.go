package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Settings carries every process-wide knob read at startup. It is loaded once in
// main() and passed explicitly into the components that need it, so nothing below
// the boundary layer reaches for environment variables on its own.
type Settings struct {
	Port string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	RedisAddress string

	ApiSecret         string
	TokenHourLifespan int

	GoEnv              string
	CorsAllowedOrigins string

	RateLimitEnabled       bool
	RateLimitMaxRequests   int64
	RateLimitWindowSeconds int64
}

func LoadSettings() Settings {
	// Load env from .env (no-op when the file is absent).
	godotenv.Load()

	port := os.Getenv("API_PORT")
	if port == "" {
		// Cloud Run standard env var.
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = "8080"
	}

	return Settings{
		Port: port,

		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBName:     os.Getenv("DB_NAME"),

		RedisAddress: os.Getenv("REDIS_ADDRESS"),

		ApiSecret:         stringFromEnv("API_SECRET", "Calc-Secret"),
		TokenHourLifespan: intFromEnv("TOKEN_HOUR_LIFESPAN", 24),

		GoEnv:              os.Getenv("GO_ENV"),
		CorsAllowedOrigins: strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")),

		RateLimitEnabled:       strings.EqualFold(strings.TrimSpace(os.Getenv("RATE_LIMIT_ENABLED")), "true"),
		RateLimitMaxRequests:   int64FromEnv("RATE_LIMIT_MAX_REQUESTS", 600),
		RateLimitWindowSeconds: int64FromEnv("RATE_LIMIT_WINDOW_SECONDS", 60),
	}
}

func (s Settings) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(s.GoEnv), "production")
}

func stringFromEnv(key string, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func intFromEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func int64FromEnv(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
