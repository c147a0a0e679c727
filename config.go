package main

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port           string        `envconfig:"PORT" default:"8050"`
	CatalogDir     string        `envconfig:"CATALOG_DIR" default:"catalog"`
	AdminToken     string        `envconfig:"ADMIN_TOKEN"`
	WebhookWorkers int           `envconfig:"WEBHOOK_WORKERS" default:"1"`
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"0s"`

	WhatsApp WhatsAppConfig `envconfig:"WHATSAPP"`
	Redis    RedisConfig    `envconfig:"REDIS"`
	Firebase FirebaseConfig `envconfig:"FIREBASE"`
	Log      LogConfig      `envconfig:"LOG"`
}

type WhatsAppConfig struct {
	VerifyToken   string        `envconfig:"VERIFY_TOKEN" required:"true"`
	AccessToken   string        `envconfig:"ACCESS_TOKEN"`
	PhoneNumberID string        `envconfig:"PHONE_NUMBER_ID"`
	AppSecret     string        `envconfig:"APP_SECRET"`
	APIVersion    string        `envconfig:"API_VERSION" default:"v18.0"`
	BaseURL       string        `envconfig:"BASE_URL" default:"https://graph.facebook.com"`
	SendTimeout   time.Duration `envconfig:"SEND_TIMEOUT" default:"10s"`
}

// Enabled reports whether outbound delivery has credentials.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != "" && c.PhoneNumberID != ""
}

type RedisConfig struct {
	URL string `envconfig:"URL"`
}

type FirebaseConfig struct {
	ServiceAccountKeyPath string `envconfig:"SERVICE_ACCOUNT_KEY_PATH"`
	DatabaseURL           string `envconfig:"DATABASE_URL"`
}

func (c FirebaseConfig) Enabled() bool {
	return c.ServiceAccountKeyPath != "" && c.DatabaseURL != ""
}

type LogConfig struct {
	Level    string `envconfig:"LEVEL" default:"info"`
	Format   string `envconfig:"FORMAT" default:"json"`
	Output   string `envconfig:"OUTPUT" default:"stdout"`
	FilePath string `envconfig:"FILE_PATH" default:"logs/uniqbot.log"`
}

// LoadConfig reads .env when present, then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %w", err)
	}

	if config.WebhookWorkers < 1 {
		config.WebhookWorkers = 1
	}

	return &config, nil
}
