package config

const EnvPrefix = "BRAZZAEATS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv   = "BRAZZAEATS_APP_ENV"
	EnvPort     = "BRAZZAEATS_APP_PORT"
	EnvLogLevel = "BRAZZAEATS_LOG_LEVEL"

	EnvDBDSN  = "BRAZZAEATS_DB_DSN"
	EnvDBHost = "BRAZZAEATS_DB_HOST"
	EnvDBUser = "BRAZZAEATS_DB_USER"
	EnvDBName = "BRAZZAEATS_DB_NAME"

	EnvRedisURL = "BRAZZAEATS_REDIS_URL"

	EnvSessionSecret = "BRAZZAEATS_SESSION_SECRET"
	EnvSessionIssuer = "BRAZZAEATS_SESSION_ISSUER"
	EnvSessionTTL    = "BRAZZAEATS_SESSION_TTL_MINUTES"

	EnvFeePerRestaurant = "BRAZZAEATS_FEE_PER_RESTAURANT"
	EnvLoyaltyAward     = "BRAZZAEATS_LOYALTY_AWARD_PER_ORDER"
	EnvStartingPoints   = "BRAZZAEATS_STARTING_LOYALTY_POINTS"
	EnvDeliveryAddress  = "BRAZZAEATS_DELIVERY_ADDRESS"

	EnvUseSQLite = "BRAZZAEATS_USE_SQLITE"
)

var hostDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
