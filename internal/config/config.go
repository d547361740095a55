package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPPort        string        `envconfig:"HTTP_PORT" default:"8080"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	MaxBodySize     int64         `envconfig:"MAX_BODY_SIZE" default:"1048576"`

	APIURL     string        `envconfig:"API_URL" default:"http://localhost:8000/api"`
	StorageURL string        `envconfig:"STORAGE_URL"`
	APITimeout time.Duration `envconfig:"API_TIMEOUT" default:"15s"`

	// Empty RedisAddr keeps carts and catalog cache in process memory.
	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	CartTTL       time.Duration `envconfig:"CART_TTL" default:"2160h"`
	CatalogTTL    time.Duration `envconfig:"CATALOG_TTL" default:"5m"`

	KafkaBrokers []string `envconfig:"KAFKA_BROKERS"`
	OrdersTopic  string   `envconfig:"ORDERS_TOPIC" default:"storefront-orders"`

	SessionSecret string        `envconfig:"SESSION_SECRET" default:"dev-secret-please-change"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"720h"`
	SecureCookies bool          `envconfig:"SECURE_COOKIES" default:"false"`

	Timezone string `envconfig:"TIMEZONE" default:"Asia/Jakarta"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.SessionSecret) == "" {
		return fmt.Errorf("SESSION_SECRET must not be empty")
	}
	if c.CartTTL < 0 || c.CatalogTTL < 0 {
		return fmt.Errorf("cache TTLs must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location is the timezone pickup dates are judged in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}
