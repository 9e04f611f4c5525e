package confs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port string

	JWTSecret string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	ForecastURL string

	// AQI above this value triggers alert mail to subscribed users.
	AlertThreshold   float64
	AlertInterval    time.Duration
	ForecastInterval time.Duration
}

// LoadConfig loads environment variables from a .env file if present
// and returns the typed configuration.
func LoadConfig() (*Config, error) {
	// Load .env if it exists; ignore error if file not found
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("warning: could not load .env: %v", err)
		}
	}

	cfg := &Config{
		Port:             getEnv("PORT", "3536"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPPort:         getEnvInt("SMTP_PORT", 465),
		SMTPUser:         os.Getenv("SMTP_USER"),
		SMTPPass:         os.Getenv("SMTP_PASS"),
		MailFrom:         getEnv("MAIL_FROM", os.Getenv("SMTP_USER")),
		ForecastURL:      os.Getenv("FORECAST_URL"),
		AlertThreshold:   getEnvFloat("ALERT_AQI_THRESHOLD", 100),
		AlertInterval:    getEnvDuration("ALERT_INTERVAL", time.Hour),
		ForecastInterval: getEnvDuration("FORECAST_INTERVAL", 24*time.Hour),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing required configuration: JWT_SECRET")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
