package config

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv              = "POLLY_APP_ENV"
	EnvPort                = "POLLY_APP_PORT"
	EnvLogLevel            = "POLLY_LOG_LEVEL"
	EnvLogFormat           = "POLLY_LOG_FORMAT"
	EnvAdminSignupEnabled  = "POLLY_ADMIN_SIGNUP_ENABLED"
	EnvDBDSN               = "POLLY_DB_DSN"
	EnvDBHost              = "POLLY_DB_HOST"
	EnvDBPort              = "POLLY_DB_PORT"
	EnvDBUser              = "POLLY_DB_USER"
	EnvDBPassword          = "POLLY_DB_PASSWORD"
	EnvDBName              = "POLLY_DB_NAME"
	EnvRedisURL            = "POLLY_REDIS_URL"
	EnvJWTSecret           = "POLLY_JWT_SECRET"
	EnvJWTIssuer           = "POLLY_JWT_ISSUER"
	EnvJWTExpMins          = "POLLY_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMins = "POLLY_REFRESH_TOKEN_TTL_MINUTES"
	EnvCartBackend         = "POLLY_CART_BACKEND"
	EnvCartNamespace       = "POLLY_CART_NAMESPACE"
	EnvUseSQLite           = "POLLY_USE_SQLITE"
	EnvAutoMigrate         = "POLLY_AUTO_MIGRATE"
	EnvCORSAllowedOrigins  = "POLLY_CORS_ALLOWED_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
