package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Auth         AuthConfig
	FeatureFlags FeatureFlagsConfig
	History      HistoryConfig
	Analytics    AnalyticsConfig
	Cron         CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"RESELLER_APP_ENV" required:"true"`
	Port         string `envconfig:"RESELLER_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"RESELLER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RESELLER_LOG_WARN_STACK" default:"false"`
	MaxUploadMB  int    `envconfig:"RESELLER_MAX_UPLOAD_MB" default:"20"`
	// CORSOrigins overrides the built-in browser origin allow list.
	CORSOrigins []string `envconfig:"RESELLER_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// MaxUploadBytes caps CSV request bodies.
func (a AppConfig) MaxUploadBytes() int64 {
	if a.MaxUploadMB <= 0 {
		return 20 << 20
	}
	return int64(a.MaxUploadMB) << 20
}

type ServiceConfig struct {
	Kind string `envconfig:"RESELLER_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"RESELLER_DB_DSN"`
	Driver string `envconfig:"RESELLER_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"RESELLER_DB_HOST"`
	LegacyPort     int    `envconfig:"RESELLER_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"RESELLER_DB_USER"`
	LegacyPassword string `envconfig:"RESELLER_DB_PASSWORD"`
	LegacyName     string `envconfig:"RESELLER_DB_NAME"`
	LegacySSLMode  string `envconfig:"RESELLER_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RESELLER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RESELLER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RESELLER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RESELLER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RESELLER_REDIS_URL"`
	Address      string        `envconfig:"RESELLER_REDIS_ADDR"`
	Password     string        `envconfig:"RESELLER_REDIS_PASSWORD"`
	DB           int           `envconfig:"RESELLER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RESELLER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RESELLER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RESELLER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RESELLER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RESELLER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// AuthConfig holds the Supabase project JWT settings used to verify access tokens.
type AuthConfig struct {
	JWTSecret string `envconfig:"RESELLER_SUPABASE_JWT_SECRET" required:"true"`
	Issuer    string `envconfig:"RESELLER_SUPABASE_JWT_ISSUER"`
	Audience  string `envconfig:"RESELLER_SUPABASE_JWT_AUDIENCE" default:"authenticated"`
	TrialDays int    `envconfig:"RESELLER_TRIAL_DAYS" default:"14"`
}

// TrialPeriod returns the trial length granted to new profiles.
func (a AuthConfig) TrialPeriod() time.Duration {
	if a.TrialDays <= 0 {
		return 0
	}
	return time.Duration(a.TrialDays) * 24 * time.Hour
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"RESELLER_AUTO_MIGRATE" default:"false"`
	// RateLimitUploads caps CSV uploads per user per minute; 0 disables it.
	RateLimitUploads int `envconfig:"RESELLER_RATE_LIMIT_UPLOADS" default:"30"`
}

type HistoryConfig struct {
	SyncBatchSize  int           `envconfig:"RESELLER_HISTORY_SYNC_BATCH_SIZE" default:"100"`
	SyncBatchPause time.Duration `envconfig:"RESELLER_HISTORY_SYNC_BATCH_PAUSE" default:"100ms"`
	SyncLockTTL    time.Duration `envconfig:"RESELLER_HISTORY_SYNC_LOCK_TTL" default:"5m"`
	QueryLimit     int           `envconfig:"RESELLER_HISTORY_QUERY_LIMIT" default:"1000"`
}

type AnalyticsConfig struct {
	CacheTTL               time.Duration `envconfig:"RESELLER_ANALYTICS_CACHE_TTL" default:"15m"`
	QualifiedCollectionMin int           `envconfig:"RESELLER_ANALYTICS_QUALIFIED_COLLECTION_MIN" default:"5"`
	PoolUnidentifiedBuyers bool          `envconfig:"RESELLER_ANALYTICS_POOL_UNIDENTIFIED_BUYERS" default:"false"`
	Timezone               string        `envconfig:"RESELLER_ANALYTICS_TIMEZONE" default:"UTC"`
}

// Location resolves the configured timezone, falling back to UTC.
func (a AnalyticsConfig) Location() *time.Location {
	if a.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type CronConfig struct {
	Interval            time.Duration `envconfig:"RESELLER_CRON_INTERVAL" default:"24h"`
	UploadRetentionDays int           `envconfig:"RESELLER_CRON_UPLOAD_RETENTION_DAYS" default:"90"`
}

// IsSQLite reports whether the configured driver is the local SQLite one (dev only).
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DBDriverSQLite)
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = "reseller.db"
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
