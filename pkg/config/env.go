package config

const (
	EnvPrefix = "VTPS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "VTPS_APP_ENV"
	EnvPort     = "VTPS_APP_PORT"
	EnvLogLevel = "VTPS_LOG_LEVEL"

	EnvDBDSN      = "VTPS_DB_DSN"
	EnvDBHost     = "VTPS_DB_HOST"
	EnvDBPort     = "VTPS_DB_PORT"
	EnvDBUser     = "VTPS_DB_USER"
	EnvDBPassword = "VTPS_DB_PASSWORD"
	EnvDBName     = "VTPS_DB_NAME"

	EnvRedisURL = "VTPS_REDIS_URL"

	EnvUseSQLite   = "VTPS_USE_SQLITE"
	EnvAutoMigrate = "VTPS_AUTO_MIGRATE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
