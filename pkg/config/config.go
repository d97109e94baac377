package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	Auth          AuthConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	RateLimit     RateLimitConfig
	CORS          CORSConfig
	FeatureFlags  FeatureFlagsConfig
	Cron          CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.useSQLite()
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VTPS_APP_ENV" required:"true"`
	Port         string `envconfig:"VTPS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VTPS_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"VTPS_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"VTPS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"VTPS_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"VTPS_DB_DSN"`
	Driver string `envconfig:"VTPS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VTPS_DB_HOST"`
	LegacyPort     int    `envconfig:"VTPS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VTPS_DB_USER"`
	LegacyPassword string `envconfig:"VTPS_DB_PASSWORD"`
	LegacyName     string `envconfig:"VTPS_DB_NAME"`
	LegacySSLMode  string `envconfig:"VTPS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VTPS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VTPS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VTPS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VTPS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	// SlowQuery is the duration above which a statement is logged as slow.
	SlowQuery time.Duration `envconfig:"VTPS_DB_SLOW_QUERY" default:"500ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VTPS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VTPS_REDIS_ADDR"`
	Password     string        `envconfig:"VTPS_REDIS_PASSWORD"`
	DB           int           `envconfig:"VTPS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VTPS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VTPS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VTPS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VTPS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VTPS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// AuthConfig controls opaque bearer token generation.
type AuthConfig struct {
	TokenBytes        int `envconfig:"VTPS_AUTH_TOKEN_BYTES" default:"20"`
	MinPasswordLength int `envconfig:"VTPS_AUTH_MIN_PASSWORD_LENGTH" default:"8"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"VTPS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"VTPS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"VTPS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"VTPS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"VTPS_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow           time.Duration `envconfig:"VTPS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit    int           `envconfig:"VTPS_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit          int           `envconfig:"VTPS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow        time.Duration `envconfig:"VTPS_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterUsernameLimit int           `envconfig:"VTPS_AUTH_RATE_LIMIT_REGISTER_USERNAME_LIMIT" default:"3"`
	RegisterIPLimit       int           `envconfig:"VTPS_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// RateLimitConfig bounds authenticated API traffic per client IP.
type RateLimitConfig struct {
	Requests int           `envconfig:"VTPS_RATE_LIMIT_REQUESTS" default:"300"`
	Window   time.Duration `envconfig:"VTPS_RATE_LIMIT_WINDOW" default:"1m"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"VTPS_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://127.0.0.1:3000"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"VTPS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"VTPS_AUTO_MIGRATE" default:"false"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"VTPS_CRON_INTERVAL" default:"1h"`
	LockTTL  time.Duration `envconfig:"VTPS_CRON_LOCK_TTL" default:"10m"`
	// DefaultRetentionDays applies when no system settings row exists.
	DefaultRetentionDays int `envconfig:"VTPS_CRON_DEFAULT_RETENTION_DAYS" default:"365"`
	// MetricsAddr serves /metrics from the worker when set, e.g. ":9102".
	MetricsAddr string `envconfig:"VTPS_CRON_METRICS_ADDR"`
}

// DefaultSQLiteDSN is the local database used when the sqlite flag is on and
// no DSN is given.
const DefaultSQLiteDSN = "file:vtps.db?_foreign_keys=true"

func (db *DBConfig) useSQLite() {
	db.Driver = "sqlite"
	if db.DSN == "" || strings.HasPrefix(db.DSN, "postgres") {
		db.DSN = DefaultSQLiteDSN
	}
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
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
