package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix scopes every configuration variable read by envconfig.
const EnvPrefix = "STRIDEMART"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Env variable names referenced from code and tests.
const (
	EnvAppEnv    = "STRIDEMART_APP_ENV"
	EnvPort      = "STRIDEMART_APP_PORT"
	EnvDBDSN     = "STRIDEMART_DB_DSN"
	EnvDBHost    = "STRIDEMART_DB_HOST"
	EnvDBUser    = "STRIDEMART_DB_USER"
	EnvDBName    = "STRIDEMART_DB_NAME"
	EnvRedisURL  = "STRIDEMART_REDIS_URL"
	EnvJWTSecret = "STRIDEMART_JWT_SECRET"
	EnvJWTIssuer = "STRIDEMART_JWT_ISSUER"
	EnvJWTExp    = "STRIDEMART_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Guest         GuestConfig
	Catalog       CatalogConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"STRIDEMART_APP_ENV" required:"true"`
	Port         string `envconfig:"STRIDEMART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STRIDEMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STRIDEMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"STRIDEMART_DB_DSN"`
	Driver string `envconfig:"STRIDEMART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"STRIDEMART_DB_HOST"`
	LegacyPort     int    `envconfig:"STRIDEMART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STRIDEMART_DB_USER"`
	LegacyPassword string `envconfig:"STRIDEMART_DB_PASSWORD"`
	LegacyName     string `envconfig:"STRIDEMART_DB_NAME"`
	LegacySSLMode  string `envconfig:"STRIDEMART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STRIDEMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STRIDEMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STRIDEMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STRIDEMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STRIDEMART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"STRIDEMART_REDIS_ADDR"`
	Password     string        `envconfig:"STRIDEMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"STRIDEMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STRIDEMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STRIDEMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STRIDEMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STRIDEMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STRIDEMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"STRIDEMART_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"STRIDEMART_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"STRIDEMART_JWT_EXPIRATION_MINUTES" required:"true"`
	SessionTTLMinutes int    `envconfig:"STRIDEMART_SESSION_TTL_MINUTES" default:"10080"`
}

// SessionTTL returns the server-side session lifetime.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"STRIDEMART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"STRIDEMART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"STRIDEMART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"STRIDEMART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"STRIDEMART_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"STRIDEMART_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"STRIDEMART_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"STRIDEMART_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"STRIDEMART_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"STRIDEMART_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"STRIDEMART_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type GuestConfig struct {
	CookieName   string        `envconfig:"STRIDEMART_GUEST_COOKIE_NAME" default:"guest_session"`
	SessionTTL   time.Duration `envconfig:"STRIDEMART_GUEST_SESSION_TTL" default:"168h"`
	CookieSecure bool          `envconfig:"STRIDEMART_GUEST_COOKIE_SECURE" default:"true"`
}

type CatalogConfig struct {
	PageSize int `envconfig:"STRIDEMART_CATALOG_PAGE_SIZE" default:"12"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STRIDEMART_AUTO_MIGRATE" default:"false"`
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
