package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration. Secrets (DSN,
// JWT secret, gateway keys, SMTP password, VAPID keys) come from the
// environment and override anything in the file.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Auth     AuthConfig     `yaml:"auth"`
	Database DatabaseConfig `yaml:"database"`
	Gateway  GatewayConfig  `yaml:"gateway"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Push     PushConfig     `yaml:"push"`
}

type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

type AuthConfig struct {
	JWTSecret          string        `yaml:"-"`
	TokenTTLHours      int           `yaml:"token_ttl_hours"`
	TokenTTL           time.Duration `yaml:"-"`
	StudentEmailDomain string        `yaml:"student_email_domain"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// GatewayConfig holds the payment-gateway credentials for wallet top-ups.
type GatewayConfig struct {
	KeyID     string `yaml:"key_id"`
	KeySecret string `yaml:"-"`
	BaseURL   string `yaml:"base_url"`
	Currency  string `yaml:"currency"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	From     string `yaml:"from"`
	Username string `yaml:"username"`
	Password string `yaml:"-"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey      string `yaml:"vapid_public_key"`
	PrivateKey     string `yaml:"-"`
	Subject        string `yaml:"subject"`
	TTL            int    `yaml:"ttl"`
	WorkerPoolSize int    `yaml:"worker_pool_size"`
}

// Load reads the configuration from the given path and applies environment
// overrides and defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, err
		}
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	cfg.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.Gateway.KeySecret = os.Getenv("GATEWAY_KEY_SECRET")
	if v := os.Getenv("GATEWAY_KEY_ID"); v != "" {
		cfg.Gateway.KeyID = v
	}
	cfg.SMTP.Password = os.Getenv("SMTP_PASSWORD")
	cfg.Push.PrivateKey = os.Getenv("VAPID_PRIVATE_KEY")
	if v := os.Getenv("VAPID_PUBLIC_KEY"); v != "" {
		cfg.Push.PublicKey = v
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 20
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 40
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 15
	}
	if cfg.Auth.TokenTTLHours <= 0 {
		cfg.Auth.TokenTTLHours = 24
	}
	cfg.Auth.TokenTTL = time.Duration(cfg.Auth.TokenTTLHours) * time.Hour
	if cfg.Auth.StudentEmailDomain == "" {
		cfg.Auth.StudentEmailDomain = "hostel.edu"
	}
	if cfg.Gateway.Currency == "" {
		cfg.Gateway.Currency = "INR"
	}
	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}
	if cfg.Push.WorkerPoolSize <= 0 {
		log.Printf("push.worker_pool_size is not set or invalid; defaulting to 1")
		cfg.Push.WorkerPoolSize = 1
	}

	return &cfg, nil
}
