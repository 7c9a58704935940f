package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/md-rashed-zaman/salonbook/libs/config"
	"github.com/md-rashed-zaman/salonbook/libs/kafkax"
)

type cliConfig struct {
	APIURL      string
	Lang        string
	HTTPTimeout time.Duration
	HTTPRetries int
	LogLevel    string

	SessionBackend string
	SessionFile    string
	SessionKey     string
	SessionPrefix  string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	DatabaseURL    string

	KafkaBrokers []string
	EventsTopic  string
}

func loadConfig() cliConfig {
	return cliConfig{
		APIURL:         config.String("SALON_API_URL", "http://localhost:5000/api"),
		Lang:           config.String("SALON_LANG", "en"),
		HTTPTimeout:    config.Seconds("SALON_HTTP_TIMEOUT_SECONDS", 15*time.Second),
		HTTPRetries:    config.Int("SALON_HTTP_RETRIES", 2, 0),
		LogLevel:       config.String("LOG_LEVEL", "info"),
		SessionBackend: strings.ToLower(config.String("SALON_SESSION_BACKEND", "file")),
		SessionFile:    config.String("SALON_SESSION_FILE", defaultSessionFile()),
		SessionKey:     config.String("SALON_SESSION_KEY", ""),
		SessionPrefix:  config.String("SALON_SESSION_PREFIX", ""),
		RedisAddr:      config.String("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  config.String("REDIS_PASSWORD", ""),
		RedisDB:        config.Int("REDIS_DB", 0, 0),
		DatabaseURL:    config.String("DATABASE_URL", ""),
		KafkaBrokers:   kafkax.SplitBrokers(config.String("KAFKA_BROKERS", "")),
		EventsTopic:    config.String("SALON_EVENTS_TOPIC", ""),
	}
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".salonbook", "session.json")
}
