// config.go - Handles configuration for the project

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values. Values come from the environment,
// optionally seeded from a .env file in the working directory.
type Config struct {
	ListenAddr string // HTTP bind address
	DBPath     string // Path to the SQLite database file

	JWTSecret string        // HMAC secret for identity tokens
	TokenTTL  time.Duration // 0 means tokens never expire

	LogLevel string
	LogJSON  bool

	LoginRateLimit string // ulule/limiter format, e.g. "20-M"

	MQTTBroker      string // empty disables MQTT event publishing
	MQTTClientID    string
	MQTTTopicPrefix string

	// First owner bootstrap
	CreateOwner    bool
	OwnerEmail     string
	OwnerPassword  string
	OwnerFirstName string
	OwnerLastName  string
}

// Load reads configuration from the environment. A missing .env file is not
// an error; malformed durations and booleans are.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ListenAddr:      getEnv("LISTEN_ADDR", ":8080"),
		DBPath:          getEnv("DB_PATH", "data.db"),
		JWTSecret:       getEnv("JWT_SECRET", "supersecret"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LoginRateLimit:  getEnv("LOGIN_RATE_LIMIT", "20-M"),
		MQTTBroker:      getEnv("MQTT_BROKER", ""),
		MQTTClientID:    getEnv("MQTT_CLIENT_ID", "store-manager"),
		MQTTTopicPrefix: getEnv("MQTT_TOPIC_PREFIX", "store"),
		OwnerEmail:      getEnv("OWNER_EMAIL", ""),
		OwnerPassword:   getEnv("OWNER_PASSWORD", ""),
		OwnerFirstName:  getEnv("OWNER_FIRST_NAME", "Store"),
		OwnerLastName:   getEnv("OWNER_LAST_NAME", "Owner"),
	}

	var err error
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", 0); err != nil {
		return nil, err
	}
	if cfg.LogJSON, err = getBool("LOG_JSON", false); err != nil {
		return nil, err
	}
	if cfg.CreateOwner, err = getBool("CREATE_OWNER", false); err != nil {
		return nil, err
	}
	if cfg.CreateOwner && (cfg.OwnerEmail == "" || cfg.OwnerPassword == "") {
		return nil, fmt.Errorf("CREATE_OWNER requires OWNER_EMAIL and OWNER_PASSWORD")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: must not be negative", key)
	}
	return d, nil
}

func getBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
