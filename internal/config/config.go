package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings for the API server.
type Config struct {
	Port         string
	Env          string
	Debug        bool
	JWTSecret    string
	DatabasePath string
}

// Load reads configuration with priority ENV > .env file > defaults.
func Load() Config {
	// .env is optional
	_ = godotenv.Load()

	return Config{
		Port:         getEnv("PORT", "8080"),
		Env:          getEnv("ENV", "development"),
		Debug:        os.Getenv("DEBUG") == "true",
		JWTSecret:    getEnv("JWT_SECRET", "order-api-secret-key"),
		DatabasePath: getEnv("DATABASE_PATH", "order-api.db"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
