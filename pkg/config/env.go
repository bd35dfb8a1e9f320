package config

const (
	EnvPrefix = "STOREFRONT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "STOREFRONT_APP_ENV"
	EnvPort     = "STOREFRONT_APP_PORT"
	EnvLogLevel = "STOREFRONT_LOG_LEVEL"

	EnvBackendURL     = "STOREFRONT_BACKEND_URL"
	EnvBackendTimeout = "STOREFRONT_BACKEND_TIMEOUT"

	EnvStorageDriver = "STOREFRONT_STORAGE_DRIVER"
	EnvStorageTTL    = "STOREFRONT_STORAGE_TTL"

	EnvRedisURL  = "STOREFRONT_REDIS_URL"
	EnvRedisAddr = "STOREFRONT_REDIS_ADDR"

	EnvDBDSN    = "STOREFRONT_DB_DSN"
	EnvDBDriver = "STOREFRONT_DB_DRIVER"

	EnvTaxRate               = "STOREFRONT_CHECKOUT_TAX_RATE"
	EnvShippingFee           = "STOREFRONT_CHECKOUT_SHIPPING_FEE"
	EnvFreeShippingThreshold = "STOREFRONT_CHECKOUT_FREE_SHIPPING_THRESHOLD"

	EnvNATSURL = "STOREFRONT_NATS_URL"

	EnvTracingEnabled = "STOREFRONT_TRACING_ENABLED"
)

const (
	StorageDriverMemory = "memory"
	StorageDriverRedis  = "redis"
	StorageDriverSQL    = "sql"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)
