package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                  string
	APIBaseURL            string
	GatewayAPIURL         string
	GatewayPublishableKey string
	BaseCurrency          string
	DefaultLocale         string
	GeoServiceURL         string
	ExchangeServiceURL    string
	RedisURL              string
	KafkaBrokers          string
	NatsURL               string
}

func Load() *Config {
	// .env is optional; real deployments use the environment
	_ = godotenv.Load()

	return &Config{
		Port:                  envOr("PORT", "8082"),
		APIBaseURL:            envOr("API_BASE_URL", "http://localhost:3001"),
		GatewayAPIURL:         envOr("GATEWAY_API_URL", "https://api.stripe.com"),
		GatewayPublishableKey: envOr("GATEWAY_PUBLISHABLE_KEY", "pk_test_placeholder"),
		BaseCurrency:          envOr("BASE_CURRENCY", "USD"),
		DefaultLocale:         os.Getenv("DEFAULT_LOCALE"),
		GeoServiceURL:         envOr("GEO_SERVICE_URL", "https://ipapi.co/json/"),
		ExchangeServiceURL:    envOr("EXCHANGE_SERVICE_URL", "https://api.exchangerate-api.com"),
		RedisURL:              os.Getenv("REDIS_URL"),
		KafkaBrokers:          os.Getenv("KAFKA_BROKERS"),
		NatsURL:               os.Getenv("NATS_URL"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
