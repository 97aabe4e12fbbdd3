package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	aws_pkg "github.com/caesariomj/jogjaelectrik-sub000/pkg/aws"
)

type Config struct {
	Port             string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string
	PostgresTimeZone string

	RedisURL string

	JWTSecret string
	PIIKey    string

	RajaOngkirBaseURL string
	RajaOngkirAPIKey  string
	OriginCityID      string

	StripeSecretKey     string
	StripeWebhookSecret string
	StripeSuccessURL    string
	StripeCancelURL     string
	StripeCurrency      string

	KafkaBrokers     string
	OrderEventTopic  string
	OrderSNSTopicARN string

	CORSAllowedOrigins string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTimeZone: getEnv("POSTGRES_TIMEZONE", "Asia/Jakarta"),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		PIIKey:    os.Getenv("PII_ENCRYPTION_KEY"),

		RajaOngkirBaseURL: getEnv("RAJAONGKIR_BASE_URL", "https://api.rajaongkir.com/starter"),
		RajaOngkirAPIKey:  os.Getenv("RAJAONGKIR_API_KEY"),
		OriginCityID:      os.Getenv("ORIGIN_CITY_ID"),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		StripeSuccessURL:    getEnv("STRIPE_SUCCESS_URL", "http://localhost:3000/payment/success"),
		StripeCancelURL:     getEnv("STRIPE_CANCEL_URL", "http://localhost:3000/payment/cancel"),
		StripeCurrency:      getEnv("STRIPE_CURRENCY", "idr"),

		KafkaBrokers:     os.Getenv("KAFKA_BROKERS"),
		OrderEventTopic:  getEnv("ORDER_EVENT_TOPIC", "order.events"),
		OrderSNSTopicARN: os.Getenv("ORDER_SNS_TOPIC_ARN"),

		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if awsCfg, err := aws_pkg.LoadAWSConfig(context.Background()); err == nil {
			sm := aws_pkg.NewSecretsClient(awsCfg)

			if dbjson, err := sm.GetSecret(context.Background(), "storefront/DB_CREDENTIALS"); err == nil && dbjson != "" {
				var m map[string]string
				if err := json.Unmarshal([]byte(dbjson), &m); err == nil {
					if v, ok := m["POSTGRES_USER"]; ok && v != "" {
						cfg.PostgresUser = v
					}
					if v, ok := m["POSTGRES_PASSWORD"]; ok && v != "" {
						cfg.PostgresPassword = v
					}
					if v, ok := m["POSTGRES_DB"]; ok && v != "" {
						cfg.PostgresDB = v
					}
					if v, ok := m["POSTGRES_HOST"]; ok && v != "" {
						cfg.PostgresHost = v
					}
					if v, ok := m["POSTGRES_PORT"]; ok && v != "" {
						cfg.PostgresPort = v
					}
				}
			}
			if v, err := sm.GetSecret(context.Background(), "storefront/JWT_SECRET"); err == nil && v != "" {
				cfg.JWTSecret = v
			}
			if v, err := sm.GetSecret(context.Background(), "storefront/PII_ENCRYPTION_KEY"); err == nil && v != "" {
				cfg.PIIKey = v
			}
			if v, err := sm.GetSecret(context.Background(), "storefront/STRIPE_SECRET_KEY"); err == nil && v != "" {
				cfg.StripeSecretKey = v
			}
			if v, err := sm.GetSecret(context.Background(), "storefront/STRIPE_WEBHOOK_SECRET"); err == nil && v != "" {
				cfg.StripeWebhookSecret = v
			}
		}
	}

	if cfg.PostgresUser == "" || cfg.PostgresPassword == "" || cfg.PostgresDB == "" || cfg.PostgresHost == "" {
		return nil, fmt.Errorf("database config incomplete")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.PIIKey == "" {
		return nil, fmt.Errorf("PII_ENCRYPTION_KEY is required")
	}
	if cfg.RajaOngkirAPIKey == "" || cfg.OriginCityID == "" {
		return nil, fmt.Errorf("courier API config incomplete")
	}
	if cfg.StripeSecretKey == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
