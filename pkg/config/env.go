package config

// EnvPrefix is passed to envconfig; every field carries an explicit name so it only matters for error messages.
const EnvPrefix = "RESELLER"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv        = "RESELLER_APP_ENV"
	EnvPort          = "RESELLER_APP_PORT"
	EnvLogLevel      = "RESELLER_LOG_LEVEL"
	EnvDBDSN         = "RESELLER_DB_DSN"
	EnvDBDriver      = "RESELLER_DB_DRIVER"
	EnvDBHost        = "RESELLER_DB_HOST"
	EnvDBUser        = "RESELLER_DB_USER"
	EnvDBName        = "RESELLER_DB_NAME"
	EnvDBPassword    = "RESELLER_DB_PASSWORD"
	EnvRedisURL      = "RESELLER_REDIS_URL"
	EnvJWTSecret     = "RESELLER_SUPABASE_JWT_SECRET"
	EnvJWTIssuer     = "RESELLER_SUPABASE_JWT_ISSUER"
	EnvSyncBatchSize = "RESELLER_HISTORY_SYNC_BATCH_SIZE"
	EnvCacheTTL      = "RESELLER_ANALYTICS_CACHE_TTL"
	EnvRetentionDays = "RESELLER_CRON_UPLOAD_RETENTION_DAYS"
	EnvAnalyticsTZ   = "RESELLER_ANALYTICS_TIMEZONE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
