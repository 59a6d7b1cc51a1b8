package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port             string        `mapstructure:"PORT"`
	DBPath           string        `mapstructure:"DB_PATH"`
	TelegramToken    string        `mapstructure:"TELEGRAM_BOT_TOKEN"`
	WebhookPublicURL string        `mapstructure:"WEBHOOK_PUBLIC_URL"`
	OpenAIKey        string        `mapstructure:"OPENAI_API_KEY"`
	OpenAIModel      string        `mapstructure:"OPENAI_MODEL"`
	HistoryCacheTTL  time.Duration `mapstructure:"HISTORY_CACHE_TTL"`
	SimWorkers       int           `mapstructure:"SIM_WORKERS"`
	RequestTimeout   time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	YahooBaseURL     string        `mapstructure:"YAHOO_BASE_URL"`
}

var keys = []string{
	"PORT", "DB_PATH", "TELEGRAM_BOT_TOKEN", "WEBHOOK_PUBLIC_URL", "OPENAI_API_KEY",
	"OPENAI_MODEL", "HISTORY_CACHE_TTL", "SIM_WORKERS", "REQUEST_TIMEOUT", "YAHOO_BASE_URL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "9095")
	v.SetDefault("DB_PATH", "/app/data/dashboard.db")
	v.SetDefault("OPENAI_MODEL", "gpt-4")
	v.SetDefault("HISTORY_CACHE_TTL", "10m")
	v.SetDefault("SIM_WORKERS", 0)
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("YAHOO_BASE_URL", "")
}

// Load reads configuration from the environment, with an optional .env file
// in the working directory.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	setDefaults(v)
	// Unmarshal only sees keys viper knows about, env-only ones included.
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read .env: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if (c.TelegramToken == "") != (c.WebhookPublicURL == "") {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN and WEBHOOK_PUBLIC_URL must be set together")
	}
	if c.HistoryCacheTTL < 0 {
		return fmt.Errorf("HISTORY_CACHE_TTL must not be negative")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	return nil
}

// TelegramEnabled reports whether the chat front-end should start.
func (c Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.WebhookPublicURL != ""
}

// CommentaryEnabled reports whether OpenAI commentary is available.
func (c Config) CommentaryEnabled() bool {
	return c.OpenAIKey != ""
}
