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
	Supply       SupplyConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"SUPPLYLINE_APP_ENV" required:"true"`
	Port         string `envconfig:"SUPPLYLINE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SUPPLYLINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SUPPLYLINE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"SUPPLYLINE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"SUPPLYLINE_DB_DSN"`
	Driver string `envconfig:"SUPPLYLINE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SUPPLYLINE_DB_HOST"`
	LegacyPort     int    `envconfig:"SUPPLYLINE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SUPPLYLINE_DB_USER"`
	LegacyPassword string `envconfig:"SUPPLYLINE_DB_PASSWORD"`
	LegacyName     string `envconfig:"SUPPLYLINE_DB_NAME"`
	LegacySSLMode  string `envconfig:"SUPPLYLINE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SUPPLYLINE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SUPPLYLINE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SUPPLYLINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SUPPLYLINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SUPPLYLINE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SUPPLYLINE_REDIS_ADDR"`
	Password     string        `envconfig:"SUPPLYLINE_REDIS_PASSWORD"`
	DB           int           `envconfig:"SUPPLYLINE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SUPPLYLINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SUPPLYLINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SUPPLYLINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SUPPLYLINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SUPPLYLINE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SupplyConfig points the reconciler at the retail ledger peer.
type SupplyConfig struct {
	ImportBaseURL string        `envconfig:"SUPPLYLINE_SUPPLY_IMPORT_BASE_URL" required:"true"`
	ImportTimeout time.Duration `envconfig:"SUPPLYLINE_SUPPLY_IMPORT_TIMEOUT" default:"10s"`
	LockTTL       time.Duration `envconfig:"SUPPLYLINE_SUPPLY_LOCK_TTL" default:"2m"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"SUPPLYLINE_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"SUPPLYLINE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"SUPPLYLINE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	SupplyTopic        string `envconfig:"SUPPLYLINE_PUBSUB_SUPPLY_TOPIC" default:"sl-supply-triggers"`
	SupplySubscription string `envconfig:"SUPPLYLINE_PUBSUB_SUPPLY_SUBSCRIPTION"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SUPPLYLINE_AUTO_MIGRATE" default:"false"`
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
