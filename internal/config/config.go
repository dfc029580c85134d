package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	BotToken    string `env:"BOT_TOKEN,required"`
	DataPath    string `env:"DATA_PATH" envDefault:"data.json"`
	MetricsAddr string `env:"METRICS_ADDR" envDefault:":9090"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	EnableTelemetry bool `env:"ENABLE_TELEMETRY" envDefault:"true"`

	// Deployment-wide audit fallback: incidents from chats without their
	// own log channel go here.
	LogChatID  int64 `env:"LOG_CHAT_ID"`
	LogTopicID int   `env:"LOG_TOPIC_ID"`

	// The recruiting (test) group and the main group its invites open.
	TestChatID int64 `env:"TEST_CHAT_ID"`
	MainChatID int64 `env:"MAIN_CHAT_ID"`

	PollTimeoutSeconds int `env:"POLL_TIMEOUT_SECONDS" envDefault:"10"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	log.Printf("Config loaded. MetricsAddr: %s, LogLevel: %s", cfg.MetricsAddr, cfg.LogLevel)
	return cfg, nil
}
