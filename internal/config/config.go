package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs at startup.
type Config struct {
	HTTPAddr     string
	DBConnStr    string
	AuthBaseURL  string
	AuthAPIKey   string
	LogLevel     string
	WindowMonths int
	CORSOrigins  []string
}

// Load reads configuration from the environment, after loading the nearest
// .env file if one exists (local development convenience; in containers the
// environment is set directly).
func Load() Config {
	loadDotenv()

	cfg := Config{
		HTTPAddr:     envOr("HTTP_ADDR", ":8080"),
		AuthBaseURL:  envOr("AUTH_BASE_URL", "http://localhost:9999/auth/v1"),
		AuthAPIKey:   os.Getenv("AUTH_API_KEY"),
		LogLevel:     envOr("LOG_LEVEL", "info"),
		WindowMonths: envIntOr("WINDOW_MONTHS", 12),
		CORSOrigins:  strings.Split(envOr("CORS_ORIGINS", "*"), ","),
	}

	cfg.DBConnStr = os.Getenv("DB_CONN_STR")
	if cfg.DBConnStr == "" {
		// Build it from individual vars (Docker friendly)
		cfg.DBConnStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			envOr("DB_HOST", "localhost"),
			envOr("DB_PORT", "5432"),
			envOr("DB_USER", "postgres"),
			envOr("DB_PASSWORD", "postgres"),
			envOr("DB_NAME", "returntrack"),
		)
	}

	return cfg
}

func loadDotenv() {
	for _, p := range []string{".env", filepath.Join("..", ".env"), filepath.Join("..", "..", ".env")} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Overload(p)
			return
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
