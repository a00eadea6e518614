package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Stripe      StripeConfig      `mapstructure:"stripe"`
	MercadoPago MercadoPagoConfig `mapstructure:"mercadopago"`
	Billing     BillingConfig     `mapstructure:"billing"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Monitoring  MonitoringConfig  `mapstructure:"monitoring"`
}

// AppConfig represents application configuration
type AppConfig struct {
	Env  string `mapstructure:"env"`
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"db_name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"`
	Timezone        string `mapstructure:"timezone"`
	MigrationsPath  string `mapstructure:"migrations_path"`
}

// RedisConfig represents Redis configuration
type RedisConfig struct {
	Host               string        `mapstructure:"host"`
	Port               int           `mapstructure:"port"`
	Password           string        `mapstructure:"password"`
	DB                 int           `mapstructure:"db"`
	PoolSize           int           `mapstructure:"pool_size"`
	MinIdleConns       int           `mapstructure:"min_idle_conns"`
	MaxRetries         int           `mapstructure:"max_retries"`
	DialTimeout        time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout"`
	PoolTimeout        time.Duration `mapstructure:"pool_timeout"`
	IdleTimeout        time.Duration `mapstructure:"idle_timeout"`
	IdleCheckFrequency time.Duration `mapstructure:"idle_check_frequency"`
	ClusterEnabled     bool          `mapstructure:"cluster_enabled"`
	ClusterAddresses   []string      `mapstructure:"cluster_addresses"`
	MaxRedirects       int           `mapstructure:"max_redirects"`
	RouteByLatency     bool          `mapstructure:"route_by_latency"`
	RouteRandomly      bool          `mapstructure:"route_randomly"`
}

// StripeConfig represents Stripe provider configuration
type StripeConfig struct {
	SecretKey       string        `mapstructure:"secret_key"`
	PublishableKey  string        `mapstructure:"publishable_key"`
	WebhookSecret   string        `mapstructure:"webhook_secret"`
	DefaultCurrency string        `mapstructure:"default_currency"`
	SuccessURL      string        `mapstructure:"success_url"`
	CancelURL       string        `mapstructure:"cancel_url"`
	WebhookEndpoint string        `mapstructure:"webhook_endpoint"`
	Livemode        bool          `mapstructure:"livemode"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
}

// MercadoPagoConfig represents MercadoPago provider configuration
type MercadoPagoConfig struct {
	AccessToken           string        `mapstructure:"access_token"`
	PublicKey             string        `mapstructure:"public_key"`
	WebhookSecret         string        `mapstructure:"webhook_secret"`
	BaseURL               string        `mapstructure:"base_url"`
	DefaultCurrency       string        `mapstructure:"default_currency"`
	NotificationURL       string        `mapstructure:"notification_url"`
	Livemode              bool          `mapstructure:"livemode"`
	RequestTimeout        time.Duration `mapstructure:"request_timeout"`
	TimestampToleranceSec int64         `mapstructure:"timestamp_tolerance_seconds"`
}

// BillingConfig represents the billing engine's domain configuration.
type BillingConfig struct {
	DefaultCurrency           string  `mapstructure:"default_currency"`
	GracePeriodDays           int     `mapstructure:"grace_period_days"`
	RetryIntervalsHours       []int   `mapstructure:"retry_intervals_hours"`
	MaxRetryAttempts          int     `mapstructure:"max_retry_attempts"`
	TrialConversionDays       int     `mapstructure:"trial_conversion_days"`
	TimestampToleranceSeconds int64   `mapstructure:"timestamp_tolerance_seconds"`
	MaxConcurrency            int     `mapstructure:"max_concurrency"`
	Livemode                  bool    `mapstructure:"livemode"`
	DefaultDiscountStacking   string  `mapstructure:"default_discount_stacking"`
	VendorPayoutSchedule      string  `mapstructure:"vendor_payout_schedule"`
	VendorPayoutCommission    float64 `mapstructure:"vendor_payout_commission"`
}

// CacheConfig represents cache TTLs for billing read-through caches.
type CacheConfig struct {
	SubscriptionTTL   time.Duration `mapstructure:"subscription_ttl"`
	PlanTTL           time.Duration `mapstructure:"plan_ttl"`
	EntitlementTTL    time.Duration `mapstructure:"entitlement_ttl"`
	LimitTTL          time.Duration `mapstructure:"limit_ttl"`
	IdempotencyKeyTTL time.Duration `mapstructure:"idempotency_key_ttl"`
	MRRSnapshotTTL    time.Duration `mapstructure:"mrr_snapshot_ttl"`
}

// MonitoringConfig represents health-check and job-scheduling configuration.
type MonitoringConfig struct {
	HealthCheck    HealthCheckConfig    `mapstructure:"health_check"`
	BackgroundJobs BackgroundJobsConfig `mapstructure:"background_jobs"`
}

// HealthCheckConfig represents health probe configuration
type HealthCheckConfig struct {
	Timeout         time.Duration `mapstructure:"timeout"`
	DatabaseEnabled bool          `mapstructure:"database_enabled"`
	RedisEnabled    bool          `mapstructure:"redis_enabled"`
	ProviderEnabled bool          `mapstructure:"provider_enabled"`
}

// BackgroundJobsConfig represents recurring job schedule configuration
type BackgroundJobsConfig struct {
	LifecycleTickSchedule string        `mapstructure:"lifecycle_tick_schedule"`
	PayoutSchedule        string        `mapstructure:"payout_schedule"`
	JobPollInterval       time.Duration `mapstructure:"job_poll_interval"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")

	setDefaults()

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// App defaults
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.port", 8080)
	viper.SetDefault("app.host", "localhost")

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "qzpay_user")
	viper.SetDefault("database.password", "qzpay_pass")
	viper.SetDefault("database.db_name", "qzpay_db")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.max_open_conns", 50)
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.conn_max_lifetime", 3600)
	viper.SetDefault("database.conn_max_idle_time", 300)
	viper.SetDefault("database.timezone", "UTC")
	viper.SetDefault("database.migrations_path", "./migrations")

	// Redis defaults
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.min_idle_conns", 5)
	viper.SetDefault("redis.max_retries", 3)
	viper.SetDefault("redis.dial_timeout", "5s")
	viper.SetDefault("redis.read_timeout", "3s")
	viper.SetDefault("redis.write_timeout", "3s")
	viper.SetDefault("redis.pool_timeout", "4s")
	viper.SetDefault("redis.idle_timeout", "5m")
	viper.SetDefault("redis.idle_check_frequency", "1m")
	viper.SetDefault("redis.cluster_enabled", false)
	viper.SetDefault("redis.cluster_addresses", []string{})
	viper.SetDefault("redis.max_redirects", 3)
	viper.SetDefault("redis.route_by_latency", false)
	viper.SetDefault("redis.route_randomly", false)

	// Stripe defaults
	viper.SetDefault("stripe.secret_key", "")
	viper.SetDefault("stripe.publishable_key", "")
	viper.SetDefault("stripe.webhook_secret", "")
	viper.SetDefault("stripe.default_currency", "usd")
	viper.SetDefault("stripe.success_url", "/billing/success")
	viper.SetDefault("stripe.cancel_url", "/billing/cancel")
	viper.SetDefault("stripe.webhook_endpoint", "/webhooks/stripe")
	viper.SetDefault("stripe.livemode", false)
	viper.SetDefault("stripe.cache_ttl", "15m")

	// MercadoPago defaults
	viper.SetDefault("mercadopago.access_token", "")
	viper.SetDefault("mercadopago.public_key", "")
	viper.SetDefault("mercadopago.webhook_secret", "")
	viper.SetDefault("mercadopago.base_url", "https://api.mercadopago.com")
	viper.SetDefault("mercadopago.default_currency", "ARS")
	viper.SetDefault("mercadopago.notification_url", "/webhooks/mercadopago")
	viper.SetDefault("mercadopago.livemode", false)
	viper.SetDefault("mercadopago.request_timeout", "10s")
	viper.SetDefault("mercadopago.timestamp_tolerance_seconds", 300)

	// Billing defaults
	viper.SetDefault("billing.default_currency", "usd")
	viper.SetDefault("billing.grace_period_days", 3)
	viper.SetDefault("billing.retry_intervals_hours", []int{24, 72, 168})
	viper.SetDefault("billing.max_retry_attempts", 3)
	viper.SetDefault("billing.trial_conversion_days", 0)
	viper.SetDefault("billing.timestamp_tolerance_seconds", 300)
	viper.SetDefault("billing.max_concurrency", 10)
	viper.SetDefault("billing.livemode", false)
	viper.SetDefault("billing.default_discount_stacking", "best")
	viper.SetDefault("billing.vendor_payout_schedule", "WEEKLY_MONDAY")
	viper.SetDefault("billing.vendor_payout_commission", 0.20)

	// Cache defaults
	viper.SetDefault("cache.subscription_ttl", "15m")
	viper.SetDefault("cache.plan_ttl", "60m")
	viper.SetDefault("cache.entitlement_ttl", "10m")
	viper.SetDefault("cache.limit_ttl", "5m")
	viper.SetDefault("cache.idempotency_key_ttl", "24h")
	viper.SetDefault("cache.mrr_snapshot_ttl", "1h")

	// Monitoring defaults
	viper.SetDefault("monitoring.health_check.timeout", "5s")
	viper.SetDefault("monitoring.health_check.database_enabled", true)
	viper.SetDefault("monitoring.health_check.redis_enabled", true)
	viper.SetDefault("monitoring.health_check.provider_enabled", true)
	viper.SetDefault("monitoring.background_jobs.lifecycle_tick_schedule", "EVERY_HOUR")
	viper.SetDefault("monitoring.background_jobs.payout_schedule", "WEEKLY_MONDAY")
	viper.SetDefault("monitoring.background_jobs.job_poll_interval", "30s")
}
