package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Upstream UpstreamConfig
	Sync     SyncConfig
	Push     PushConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// UpstreamConfig holds the ERP API connection settings
type UpstreamConfig struct {
	BaseURL        string
	APIKey         string
	WebhookSecret  string
	RequestTimeout time.Duration
	ConnectTimeout time.Duration
	PageSize       int
}

// SyncConfig holds sync orchestration settings
type SyncConfig struct {
	FullSyncSchedule    string // cron expression
	MetadataInterval    time.Duration
	MaxFetchAttempts    int
	RetryBaseDelay      time.Duration
	RateLimitLowWater   int
	DefaultCooldown     time.Duration
	MinDescriptionChars int
}

// PushConfig holds push-back settings
type PushConfig struct {
	MaxAttempts    int
	RetryBaseDelay time.Duration
	BulkItemDelay  time.Duration
	PriceEpsilon   float64
}

// Load loads configuration from TOML file and environment variables.
// Priority (highest to lowest):
//  1. Environment variables with HM_ prefix (e.g. HM_DATABASE_PASSWORD)
//  2. config.toml
//  3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("HM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("database.host"),
			Port:     v.GetInt("database.port"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			DBName:   v.GetString("database.dbname"),
			SSLMode:  v.GetString("database.sslmode"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Upstream: UpstreamConfig{
			BaseURL:        v.GetString("upstream.base_url"),
			APIKey:         v.GetString("upstream.api_key"),
			WebhookSecret:  v.GetString("upstream.webhook_secret"),
			RequestTimeout: v.GetDuration("upstream.request_timeout"),
			ConnectTimeout: v.GetDuration("upstream.connect_timeout"),
			PageSize:       v.GetInt("upstream.page_size"),
		},
		Sync: SyncConfig{
			FullSyncSchedule:    v.GetString("sync.full_sync_schedule"),
			MetadataInterval:    v.GetDuration("sync.metadata_interval"),
			MaxFetchAttempts:    v.GetInt("sync.max_fetch_attempts"),
			RetryBaseDelay:      v.GetDuration("sync.retry_base_delay"),
			RateLimitLowWater:   v.GetInt("sync.rate_limit_low_water"),
			DefaultCooldown:     v.GetDuration("sync.default_cooldown"),
			MinDescriptionChars: v.GetInt("sync.min_description_chars"),
		},
		Push: PushConfig{
			MaxAttempts:    v.GetInt("push.max_attempts"),
			RetryBaseDelay: v.GetDuration("push.retry_base_delay"),
			BulkItemDelay:  v.GetDuration("push.bulk_item_delay"),
			PriceEpsilon:   v.GetFloat64("push.price_epsilon"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "harbormaster"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "harbormaster"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Upstream.RequestTimeout == 0 {
		cfg.Upstream.RequestTimeout = 30 * time.Second
	}
	if cfg.Upstream.ConnectTimeout == 0 {
		cfg.Upstream.ConnectTimeout = 10 * time.Second
	}
	if cfg.Upstream.PageSize == 0 {
		cfg.Upstream.PageSize = 100
	}
	if cfg.Sync.FullSyncSchedule == "" {
		cfg.Sync.FullSyncSchedule = "0 3 * * *"
	}
	if cfg.Sync.MetadataInterval == 0 {
		cfg.Sync.MetadataInterval = time.Hour
	}
	if cfg.Sync.MaxFetchAttempts == 0 {
		cfg.Sync.MaxFetchAttempts = 4
	}
	if cfg.Sync.RetryBaseDelay == 0 {
		cfg.Sync.RetryBaseDelay = 2 * time.Second
	}
	if cfg.Sync.RateLimitLowWater == 0 {
		cfg.Sync.RateLimitLowWater = 5
	}
	if cfg.Sync.DefaultCooldown == 0 {
		cfg.Sync.DefaultCooldown = 30 * time.Second
	}
	if cfg.Sync.MinDescriptionChars == 0 {
		cfg.Sync.MinDescriptionChars = 10
	}
	if cfg.Push.MaxAttempts == 0 {
		cfg.Push.MaxAttempts = 3
	}
	if cfg.Push.RetryBaseDelay == 0 {
		cfg.Push.RetryBaseDelay = time.Second
	}
	if cfg.Push.BulkItemDelay == 0 {
		cfg.Push.BulkItemDelay = 500 * time.Millisecond
	}
	if cfg.Push.PriceEpsilon == 0 {
		cfg.Push.PriceEpsilon = 0.01
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.App.Env == "production" {
		if c.Upstream.APIKey == "" {
			return fmt.Errorf("upstream.api_key is required in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
	}
	if c.Sync.MaxFetchAttempts < 1 {
		return fmt.Errorf("sync.max_fetch_attempts must be at least 1")
	}
	if c.Push.MaxAttempts < 1 {
		return fmt.Errorf("push.max_attempts must be at least 1")
	}
	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
