package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv          string        `mapstructure:"app_env"`
	LogLevel        string        `mapstructure:"log_level"`
	HTTPAddr        string        `mapstructure:"http_addr"`
	DatabaseURL     string        `mapstructure:"database_url"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AuthTokenSecret string        `mapstructure:"auth_token_secret"`

	Payment Payment `mapstructure:",squash"`
}

type Payment struct {
	Provider      string `mapstructure:"payment_provider"`
	SecretKey     string `mapstructure:"stripe_secret_key"`
	WebhookSecret string `mapstructure:"payment_webhook_secret"`
	BaseURL       string `mapstructure:"base_public_url"`
}

var defaults = map[string]any{
	"app_env":                "development",
	"log_level":              "info",
	"http_addr":              ":8080",
	"database_url":           "",
	"shutdown_timeout":       "10s",
	"auth_token_secret":      "",
	"payment_provider":       "stripe",
	"stripe_secret_key":      "",
	"payment_webhook_secret": "",
	"base_public_url":        "http://localhost:3000",
}

// Load reads configuration from the environment (a .env file in the working
// directory is honoured) and, when path is not empty, from a YAML file.
// Environment variables win over the file.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	// Legacy deployments export the Stripe specific name.
	if err := v.BindEnv("payment_webhook_secret", "PAYMENT_WEBHOOK_SECRET", "STRIPE_WEBHOOK_SECRET"); err != nil {
		return nil, errors.Wrap(err, "bind webhook secret")
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}

	cfg.Payment.Provider = strings.ToLower(strings.TrimSpace(cfg.Payment.Provider))
	cfg.Payment.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Payment.BaseURL), "/")

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, errors.New("DATABASE_URL is empty")
	}

	return cfg, nil
}
