package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds everything the process reads from its environment. Core
// services receive these values as explicit parameters and never touch the
// environment themselves.
type Config struct {
	HTTPPort string
	LogLevel string

	DatabaseURL string

	PaystackSecret string
	FrontendURL    string
	PaymentMode    string // "stub" or "live"

	SessionSecret string

	// AMQPURL is optional; when set, bus events are mirrored through
	// RabbitMQ so fan-out works across multiple instances.
	AMQPURL string
}

const (
	PaymentModeStub = "stub"
	PaymentModeLive = "live"
)

func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:       getEnv("HTTP_PORT", "4000"),
		LogLevel:       getEnv("LOG_LEVEL", "INFO"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		PaystackSecret: os.Getenv("PAYSTACK_SECRET_KEY"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),
		PaymentMode:    paymentMode(os.Getenv("PAYMENT_MODE")),
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		AMQPURL:        os.Getenv("AMQP_URL"),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = postgresURL()
	}
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}

	return cfg, nil
}

// paymentMode normalizes the env value; anything other than "stub" is live.
func paymentMode(v string) string {
	if strings.ToLower(v) == PaymentModeStub {
		return PaymentModeStub
	}
	return PaymentModeLive
}

func postgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		getEnv("POSTGRES_USER", "postgres"),
		getEnv("POSTGRES_PASSWORD", "postgres"),
		getEnv("POSTGRES_HOST", "localhost"),
		getEnv("POSTGRES_PORT", "5432"),
		getEnv("POSTGRES_DBNAME", "foodmenu"),
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
