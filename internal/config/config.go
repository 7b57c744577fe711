package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	Port           string
	Env            string
	BackendBaseURL string
	RedisAddr      string
	KafkaBroker    string
	SessionSecret  string
	SessionTTL     time.Duration
}

// Load membaca konfigurasi dari environment. godotenv sudah dipanggil di main,
// jadi di sini cukup os.Getenv saja.
func Load() (Config, error) {
	cfg := Config{
		Port:           getEnv("PORT", "3000"),
		Env:            getEnv("APP_ENV", "development"),
		BackendBaseURL: getEnv("BACKEND_BASE_URL", "http://localhost:5000"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBroker:    os.Getenv("KAFKA_BROKER"),
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		SessionTTL:     24 * time.Hour,
	}

	if cfg.SessionSecret == "" {
		if cfg.Env == "production" {
			return Config{}, fmt.Errorf("SESSION_SECRET is not configured")
		}
		// dev fallback, jangan dipakai di production
		cfg.SessionSecret = "dev-session-secret"
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
