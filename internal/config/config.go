package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the environment of one canvasaem process.
type Config struct {
	Port    string `env:"PORT" env-default:"8080"`
	BaseURL string `env:"BASE_URL" env-default:"http://localhost:8080"`

	DatabaseURL string `env:"DATABASE_URL" env-required:"true"`

	SessionSecret   string `env:"SESSION_SECRET" env-required:"true"`
	AdminAPIKeyHash string `env:"ADMIN_API_KEY_HASH"`

	Gate    Gate
	Storage Storage
	Email   Email

	SlackWebhookURL   string   `env:"SLACK_WEBHOOK_URL"`
	LeadWebhookURL    string   `env:"LEAD_WEBHOOK_URL"`
	LeadWebhookSecret string   `env:"LEAD_WEBHOOK_SECRET"`
	KafkaBrokers      []string `env:"KAFKA_BROKERS" env-separator:","`
	KafkaLeadTopic    string   `env:"KAFKA_LEAD_TOPIC" env-default:"canvasaem.leads"`
	GeoIPDBPath       string   `env:"GEOIP_DB_PATH"`

	AllowedFrameAncestors string `env:"ALLOWED_FRAME_ANCESTORS"`
	APIDocsEnabled        bool   `env:"API_DOCS_ENABLED" env-default:"false"`
}

type Gate struct {
	ThresholdSeconds float64       `env:"GATE_THRESHOLD_SECONDS" env-default:"10"`
	UnlockDelay      time.Duration `env:"GATE_UNLOCK_DELAY" env-default:"1s"`
	FlashDuration    time.Duration `env:"GATE_FLASH_DURATION" env-default:"350ms"`
	SnapQuiet        time.Duration `env:"SCROLL_SNAP_QUIET" env-default:"100ms"`
	SessionTTL       time.Duration `env:"GATE_SESSION_TTL" env-default:"30m"`
}

// Threshold is the preview length before the gate shows.
func (g Gate) Threshold() time.Duration {
	return time.Duration(g.ThresholdSeconds * float64(time.Second))
}

type Storage struct {
	Endpoint       string `env:"S3_ENDPOINT"`
	PublicEndpoint string `env:"S3_PUBLIC_ENDPOINT"`
	Bucket         string `env:"S3_BUCKET" env-default:"canvasaem"`
	AccessKey      string `env:"S3_ACCESS_KEY"`
	SecretKey      string `env:"S3_SECRET_KEY"`
	Region         string `env:"S3_REGION" env-default:"eu-central-1"`
	DemoVideoKey   string `env:"DEMO_VIDEO_KEY" env-default:"demo/canvas.mp4"`
	DemoVideoURL   string `env:"DEMO_VIDEO_URL"`
}

// Enabled reports whether an S3 endpoint is configured.
func (s Storage) Enabled() bool {
	return s.Endpoint != ""
}

type Email struct {
	ListmonkURL      string `env:"LISTMONK_URL"`
	ListmonkUser     string `env:"LISTMONK_USER" env-default:"admin"`
	ListmonkPassword string `env:"LISTMONK_PASSWORD"`
	LeadTemplateID   int    `env:"LISTMONK_LEAD_TEMPLATE_ID"`
	AlertTemplateID  int    `env:"LISTMONK_ALERT_TEMPLATE_ID"`
	SalesEmail       string `env:"SALES_EMAIL"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if len(c.SessionSecret) < 32 {
		errs = append(errs, errors.New("SESSION_SECRET must be at least 32 characters"))
	}
	if c.Gate.ThresholdSeconds < 0 {
		errs = append(errs, errors.New("GATE_THRESHOLD_SECONDS must not be negative"))
	}
	if c.Gate.UnlockDelay <= 0 || c.Gate.FlashDuration <= 0 || c.Gate.SnapQuiet <= 0 {
		errs = append(errs, errors.New("gate durations must be positive"))
	}
	if c.Gate.SessionTTL < time.Minute {
		errs = append(errs, errors.New("GATE_SESSION_TTL must be at least 1m"))
	}
	if c.Storage.Enabled() && c.Storage.AccessKey == "" {
		errs = append(errs, errors.New("S3_ACCESS_KEY is required when S3_ENDPOINT is set"))
	}
	if !c.Storage.Enabled() && c.Storage.DemoVideoURL == "" {
		errs = append(errs, errors.New("either S3_ENDPOINT or DEMO_VIDEO_URL must be set"))
	}
	if c.Email.ListmonkURL != "" && c.Email.LeadTemplateID == 0 {
		errs = append(errs, errors.New("LISTMONK_LEAD_TEMPLATE_ID is required when LISTMONK_URL is set"))
	}
	if c.LeadWebhookURL != "" && c.LeadWebhookSecret == "" {
		errs = append(errs, errors.New("LEAD_WEBHOOK_SECRET is required when LEAD_WEBHOOK_URL is set"))
	}
	return errors.Join(errs...)
}

// Description lists the supported variables for --help output.
func Description() (string, error) {
	return cleanenv.GetDescription(&Config{}, nil)
}
