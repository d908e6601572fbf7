// Package config loads process configuration from the environment and an
// optional splitter.toml file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jcmexdev/order-splitter/internal/core/split"
)

type Config struct {
	Split     SplitConfig
	Shopify   ShopifyConfig
	Admin     AdminConfig
	HTTP      HTTPConfig
	Redis     RedisConfig
	Journal   JournalConfig
	Log       LogConfig
	Telemetry TelemetryConfig
}

type SplitConfig struct {
	Tag                 string // product tag that marks domestic items
	MarkerTag           string // stamped on replacement orders
	ProcessedTag        string // stamped on the original before it is cancelled
	BackReferencePrefix string
}

// Policy converts the tag settings into the pipeline's split.Policy.
func (c SplitConfig) Policy() split.Policy {
	return split.Policy{
		ClassificationTag:   c.Tag,
		MarkerTag:           c.MarkerTag,
		ProcessedTag:        c.ProcessedTag,
		BackReferencePrefix: c.BackReferencePrefix,
	}
}

type ShopifyConfig struct {
	StoreDomain      string
	APIVersion       string
	AdminAccessToken string // empty means the token is read from the token store
	WebhookSecret    string
	Timeout          time.Duration
}

type AdminConfig struct {
	Password string // bearer secret for the manual endpoints; empty disables them
}

type HTTPConfig struct {
	Port            int
	ShutdownTimeout time.Duration
}

type RedisConfig struct {
	Addr string // empty disables the token store
}

type JournalConfig struct {
	Path string // SQLite file; empty disables the run journal
}

type LogConfig struct {
	Level string // debug, info, warn, error
}

type TelemetryConfig struct {
	Enabled     bool
	ServiceName string
	Endpoint    string // OTLP gRPC collector, e.g. "localhost:4317"
	Environment string
}

// Load reads splitter.toml from the working directory or /etc/order-splitter
// when present, then lets environment variables override it. Keys map to
// environment names by upper-casing and replacing "." with "_"
// (shopify.store_domain -> SHOPIFY_STORE_DOMAIN).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("splitter")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/order-splitter")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Split: SplitConfig{
			Tag:                 v.GetString("split.tag"),
			MarkerTag:           v.GetString("split.marker_tag"),
			ProcessedTag:        v.GetString("split.processed_tag"),
			BackReferencePrefix: v.GetString("split.back_reference_prefix"),
		},
		Shopify: ShopifyConfig{
			StoreDomain:      v.GetString("shopify.store_domain"),
			APIVersion:       v.GetString("shopify.api_version"),
			AdminAccessToken: v.GetString("shopify.admin_access_token"),
			WebhookSecret:    v.GetString("shopify.webhook_secret"),
			Timeout:          v.GetDuration("shopify.timeout"),
		},
		Admin: AdminConfig{
			Password: v.GetString("admin.password"),
		},
		HTTP: HTTPConfig{
			Port:            v.GetInt("http.port"),
			ShutdownTimeout: v.GetDuration("http.shutdown_timeout"),
		},
		Redis: RedisConfig{
			Addr: v.GetString("redis.addr"),
		},
		Journal: JournalConfig{
			Path: v.GetString("journal.path"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
		},
		Telemetry: TelemetryConfig{
			Enabled:     v.GetBool("otel.enabled"),
			ServiceName: v.GetString("otel.service_name"),
			Endpoint:    v.GetString("otel.exporter_otlp_endpoint"),
			Environment: v.GetString("otel.environment"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Split.Tag == "" {
		cfg.Split.Tag = "US"
	}
	if cfg.Split.MarkerTag == "" {
		cfg.Split.MarkerTag = "split-order"
	}
	if cfg.Split.ProcessedTag == "" {
		cfg.Split.ProcessedTag = "split-processed"
	}
	if cfg.Split.BackReferencePrefix == "" {
		cfg.Split.BackReferencePrefix = "split-from-"
	}
	if cfg.Shopify.APIVersion == "" {
		cfg.Shopify.APIVersion = "2025-07"
	}
	if cfg.Shopify.Timeout == 0 {
		cfg.Shopify.Timeout = 15 * time.Second
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "order-splitter"
	}
	if cfg.Telemetry.Endpoint == "" {
		cfg.Telemetry.Endpoint = "localhost:4317"
	}
	if cfg.Telemetry.Environment == "" {
		cfg.Telemetry.Environment = "local"
	}
}

func (c *Config) validate() error {
	var errs []error

	if c.Shopify.StoreDomain == "" {
		errs = append(errs, errors.New("shopify.store_domain (SHOPIFY_STORE_DOMAIN) is required"))
	}
	if strings.Contains(c.Shopify.StoreDomain, "://") {
		errs = append(errs, fmt.Errorf("shopify.store_domain must be a bare host, got %q", c.Shopify.StoreDomain))
	}
	if c.Shopify.Timeout < 0 {
		errs = append(errs, fmt.Errorf("shopify.timeout must not be negative, got %s", c.Shopify.Timeout))
	}
	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port))
	}
	if c.Split.MarkerTag == c.Split.ProcessedTag {
		errs = append(errs, fmt.Errorf("split.marker_tag and split.processed_tag must differ, both are %q", c.Split.MarkerTag))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
