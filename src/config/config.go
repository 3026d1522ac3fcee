package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DatabaseURL    string // empty means local-only operation
	LocalDBPath    string
	AssetsDir      string // empty disables the static app shell
	AssetsVersion  string
	PolicyCron     string
	AllowedOrigins []string
}

func Load() Config {
	// Load .env file if present
	_ = godotenv.Load()

	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		LocalDBPath:    getEnv("LOCAL_DB_PATH", "kidswallet.db"),
		AssetsDir:      getEnv("ASSETS_DIR", ""),
		AssetsVersion:  getEnv("ASSETS_VERSION", "kidswallet-v3"),
		PolicyCron:     getEnv("POLICY_CRON", "0 7 * * *"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "")),
	}

	if getEnv("JWT_SECRET", "") == "" {
		log.Fatal("JWT_SECRET is required")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
