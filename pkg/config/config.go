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
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Cart          CartConfig
	FeatureFlags  FeatureFlagsConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Cart.validate(); err != nil {
		return nil, err
	}
	if cfg.FeatureFlags.UseSQLite {
		return &cfg, nil
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env                string        `envconfig:"POLLY_APP_ENV" required:"true"`
	Port               string        `envconfig:"POLLY_APP_PORT" default:"8080"`
	LogLevel           string        `envconfig:"POLLY_LOG_LEVEL" default:"info"`
	LogFormat          string        `envconfig:"POLLY_LOG_FORMAT" default:"json"`
	LogWarnStack       bool          `envconfig:"POLLY_LOG_WARN_STACK" default:"false"`
	AdminSignupEnabled bool          `envconfig:"POLLY_ADMIN_SIGNUP_ENABLED" default:"false"`
	ShutdownTimeout    time.Duration `envconfig:"POLLY_SHUTDOWN_TIMEOUT" default:"10s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev) || strings.EqualFold(a.Env, "development")
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

// SignupAllowed reports whether admin self-registration is exposed.
func (a AppConfig) SignupAllowed() bool {
	return !a.IsProd() || a.AdminSignupEnabled
}

type DBConfig struct {
	DSN    string `envconfig:"POLLY_DB_DSN"`
	Driver string `envconfig:"POLLY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"POLLY_DB_HOST"`
	LegacyPort     int    `envconfig:"POLLY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"POLLY_DB_USER"`
	LegacyPassword string `envconfig:"POLLY_DB_PASSWORD"`
	LegacyName     string `envconfig:"POLLY_DB_NAME"`
	LegacySSLMode  string `envconfig:"POLLY_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"POLLY_SQLITE_PATH" default:"file:polly.db?cache=shared"`

	MaxOpenConns    int           `envconfig:"POLLY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"POLLY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"POLLY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"POLLY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	SlowQuery       time.Duration `envconfig:"POLLY_DB_SLOW_QUERY" default:"250ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"POLLY_REDIS_URL"`
	Address      string        `envconfig:"POLLY_REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"POLLY_REDIS_PASSWORD"`
	DB           int           `envconfig:"POLLY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"POLLY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"POLLY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"POLLY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"POLLY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"POLLY_REDIS_WRITE_TIMEOUT" default:"5s"`
	Namespace    string        `envconfig:"POLLY_REDIS_NAMESPACE" default:"polly"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"POLLY_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"POLLY_JWT_ISSUER" default:"polly-storefront"`
	ExpirationMinutes      int    `envconfig:"POLLY_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"POLLY_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"POLLY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"POLLY_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"POLLY_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"POLLY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"POLLY_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"POLLY_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"POLLY_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"POLLY_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"POLLY_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"POLLY_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"POLLY_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

const (
	CartBackendRedis  = "redis"
	CartBackendDB     = "db"
	CartBackendMemory = "memory"
)

type CartConfig struct {
	Backend              string        `envconfig:"POLLY_CART_BACKEND" default:"redis"`
	Namespace            string        `envconfig:"POLLY_CART_NAMESPACE" default:"polly"`
	NotificationDuration time.Duration `envconfig:"POLLY_CART_NOTIFICATION_DURATION" default:"3s"`
}

func (c *CartConfig) validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case CartBackendRedis, CartBackendDB, CartBackendMemory:
	default:
		return fmt.Errorf("%s must be one of redis, db, memory (got %q)", EnvCartBackend, c.Backend)
	}
	if strings.TrimSpace(c.Namespace) == "" {
		return fmt.Errorf("%s must not be empty", EnvCartNamespace)
	}
	return nil
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"POLLY_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"POLLY_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"POLLY_CORS_ALLOWED_ORIGINS" default:"*"`
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
