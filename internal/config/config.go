// config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	AuthModeRemote = "remote"
	AuthModeJWT    = "jwt"
)

type Config struct {
	MongoURI            string
	MongoDBName         string
	MongoConnectTimeout time.Duration
	RabbitURL           string
	RabbitEnabled       bool
	RabbitDialTimeout   time.Duration
	AuthMode            string
	AuthURL             string
	JWTSecret           string
	Port                string
	LogLevel            string
	RequestTimeout      time.Duration
	StrictTransitions   bool
}

// Load lee el .env si existe y después las variables de entorno.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("loading .env: %w", err)
		}
	}

	connectTimeout, err := getDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	rabbitDialTimeout, err := getDuration("RABBIT_DIAL_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	requestTimeout, err := getDuration("REQUEST_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	rabbitEnabled, err := getBool("RABBIT_ENABLED", true)
	if err != nil {
		return nil, err
	}
	strict, err := getBool("STRICT_TRANSITIONS", true)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		MongoURI:            getEnv("MONGO_URI", "mongodb://host.docker.internal:27017"),
		MongoDBName:         getEnv("MONGO_DB_NAME", "order_loom"),
		MongoConnectTimeout: connectTimeout,
		RabbitURL:           getEnv("RABBIT_URL", "amqp://host.docker.internal"),
		RabbitEnabled:       rabbitEnabled,
		RabbitDialTimeout:   rabbitDialTimeout,
		AuthMode:            getEnv("AUTH_MODE", AuthModeRemote),
		AuthURL:             getEnv("AUTH_URL", "http://host.docker.internal:3000"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		Port:                getEnv("PORT", "8080"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		RequestTimeout:      requestTimeout,
		StrictTransitions:   strict,
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.AuthMode {
	case AuthModeRemote:
		if cfg.AuthURL == "" {
			return errors.New("AUTH_URL is required when AUTH_MODE=remote")
		}
	case AuthModeJWT:
		if cfg.JWTSecret == "" {
			return errors.New("JWT_SECRET is required when AUTH_MODE=jwt")
		}
	default:
		return fmt.Errorf("unsupported AUTH_MODE %q", cfg.AuthMode)
	}
	if cfg.MongoDBName == "" {
		return errors.New("MONGO_DB_NAME is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid bool for %s=%q: %w", key, value, err)
	}
	return b, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s=%q: %w", key, value, err)
	}
	return d, nil
}
