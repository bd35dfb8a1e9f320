package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	Backend   BackendConfig
	Storage   StorageConfig
	Redis     RedisConfig
	DB        DBConfig
	Checkout  CheckoutConfig
	Events    EventsConfig
	Telemetry TelemetryConfig
	CORS      CORSConfig
	Security  SecurityConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BackendConfig points at the store's REST API.
type BackendConfig struct {
	URL     string        `envconfig:"STOREFRONT_BACKEND_URL" default:"http://localhost:8000"`
	Timeout time.Duration `envconfig:"STOREFRONT_BACKEND_TIMEOUT" default:"15s"`
}

// StorageConfig selects where per-session keys live.
type StorageConfig struct {
	Driver string        `envconfig:"STOREFRONT_STORAGE_DRIVER" default:"memory"`
	TTL    time.Duration `envconfig:"STOREFRONT_STORAGE_TTL" default:"720h"`
	// PurgeInterval is how often expired items are swept from stores without native expiry.
	PurgeInterval time.Duration `envconfig:"STOREFRONT_STORAGE_PURGE_INTERVAL" default:"1h"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type DBConfig struct {
	DSN    string `envconfig:"STOREFRONT_DB_DSN"`
	Driver string `envconfig:"STOREFRONT_DB_DRIVER" default:"sqlite"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	AutoMigrate     bool          `envconfig:"STOREFRONT_DB_AUTO_MIGRATE" default:"true"`
}

// CheckoutConfig holds the pricing constants applied to staged items.
type CheckoutConfig struct {
	TaxRate               string `envconfig:"STOREFRONT_CHECKOUT_TAX_RATE" default:"0.12"`
	ShippingFee           string `envconfig:"STOREFRONT_CHECKOUT_SHIPPING_FEE" default:"9.99"`
	FreeShippingThreshold string `envconfig:"STOREFRONT_CHECKOUT_FREE_SHIPPING_THRESHOLD" default:"100"`
}

type EventsConfig struct {
	NATSURL string `envconfig:"STOREFRONT_NATS_URL"`
	Stream  string `envconfig:"STOREFRONT_NATS_STREAM" default:"STOREFRONT"`
	Subject string `envconfig:"STOREFRONT_NATS_ORDER_SUBJECT" default:"storefront.order.placed"`
}

// Enabled reports whether order events should be published.
func (e EventsConfig) Enabled() bool {
	return strings.TrimSpace(e.NATSURL) != ""
}

type TelemetryConfig struct {
	TracingEnabled bool   `envconfig:"STOREFRONT_TRACING_ENABLED" default:"false"`
	ServiceName    string `envconfig:"STOREFRONT_SERVICE_NAME" default:"storefront"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"STOREFRONT_CORS_ORIGINS" default:"http://localhost:3000"`
}

// SecurityConfig throttles auth entry points and bounds idempotency replay.
// Both need Redis; without it they are skipped.
type SecurityConfig struct {
	AuthWindow        time.Duration `envconfig:"STOREFRONT_AUTH_RATE_WINDOW" default:"15m"`
	AuthIPLimit       int           `envconfig:"STOREFRONT_AUTH_RATE_IP_LIMIT" default:"30"`
	AuthUsernameLimit int           `envconfig:"STOREFRONT_AUTH_RATE_USERNAME_LIMIT" default:"5"`
	IdempotencyTTL    time.Duration `envconfig:"STOREFRONT_IDEMPOTENCY_TTL" default:"24h"`
}

func (c *Config) validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Storage.Driver)) {
	case StorageDriverMemory:
	case StorageDriverRedis:
		if c.Redis.URL == "" && c.Redis.Address == "" {
			return fmt.Errorf("either %s or %s is required for the redis storage driver", EnvRedisURL, EnvRedisAddr)
		}
	case StorageDriverSQL:
		if err := c.DB.ensureDSN(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvStorageDriver, c.Storage.Driver)
	}
	if strings.TrimSpace(c.Backend.URL) == "" {
		return fmt.Errorf("%s must not be empty", EnvBackendURL)
	}
	return nil
}

func (db *DBConfig) ensureDSN() error {
	switch strings.ToLower(db.Driver) {
	case DBDriverSQLite:
		if db.DSN == "" {
			db.DSN = "file:storefront.db?cache=shared"
		}
		return nil
	case DBDriverPostgres:
		if db.DSN == "" {
			return fmt.Errorf("%s is required for the postgres driver", EnvDBDSN)
		}
		return nil
	default:
		return fmt.Errorf("unsupported %s %q", EnvDBDriver, db.Driver)
	}
}
