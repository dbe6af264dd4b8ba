package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration, loaded from the environment with an
// optional .env file for local development.
type Config struct {
	Port      string
	DBPath    string
	JWTSecret string

	// InferenceEnabled gates the model path of the dual-path analyzers;
	// ModelDir is where exported model bundles live.
	InferenceEnabled bool
	ModelDir         string

	// RateLimit is requests per minute per client on the REST surface.
	RateLimit int
}

// Load reads the configuration from the environment.
func Load() *Config {
	// Missing .env is fine; production sets real environment variables.
	_ = godotenv.Load()

	return &Config{
		Port:             getEnv("PORT", ":8080"),
		DBPath:           getEnv("DB_PATH", "./data/sessions.db"),
		JWTSecret:        getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		InferenceEnabled: getEnvBool("INFERENCE_ENABLED", false),
		ModelDir:         getEnv("MODEL_DIR", "./models"),
		RateLimit:        getEnvInt("RATE_LIMIT", 300),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
