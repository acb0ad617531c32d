package config

import (
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/nimasrn/transaction-dashboard/pkg/logger"
	"github.com/nimasrn/transaction-dashboard/pkg/pg"
	"github.com/pkg/errors"
)

const DefaultFeedURL = "https://s3.amazonaws.com/roxiler.com/product_transaction.json"

// Config holds every configuration value of the service. It is built once
// by Load at process start and handed to the constructors that need it; no
// other code reads the environment directly.
type Config struct {
	AppEnv              string `env:"APP_ENV,default=dev"`
	AppName             string `env:"APP_NAME,default=transaction_dashboard"`
	AppDebugMetricsAddr string `env:"APP_DEBUG_METRIC_ADDR"`
	AppDebugMetricsURI  string `env:"APP_DEBUG_METRIC_URI,default=/metrics"`

	HttpListenAddr      string        `env:"HTTP_LISTEN_ADDR,default=:5000"`
	HttpRequestTimeout  time.Duration `env:"HTTP_REQUEST_TIMEOUT,default=5s"`
	HttpCorsAllowOrigin string        `env:"HTTP_CORS_ALLOW_ORIGIN,default=*"`

	DBDriver          string        `env:"DB_DRIVER,default=postgres"`
	DBDsn             string        `env:"DB_DSN"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=10"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=5"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=30m"`
	DBConnectTimeout  time.Duration `env:"DB_CONNECT_TIMEOUT,default=10s"`
	DBAutoMigrate     bool          `env:"DB_AUTO_MIGRATE,default=false"`

	PostgresReadHost     string `env:"POSTGRES_READ_HOST"`
	PostgresReadPort     string `env:"POSTGRES_READ_PORT"`
	PostgresReadUser     string `env:"POSTGRES_READ_USER"`
	PostgresReadPassword string `env:"POSTGRES_READ_PASSWORD"`
	PostgresReadDatabase string `env:"POSTGRES_READ_DBNAME"`

	PostgresWriteHost     string `env:"POSTGRES_WRITE_HOST"`
	PostgresWritePort     string `env:"POSTGRES_WRITE_PORT"`
	PostgresWriteUser     string `env:"POSTGRES_WRITE_USER"`
	PostgresWritePassword string `env:"POSTGRES_WRITE_PASSWORD"`
	PostgresWriteDatabase string `env:"POSTGRES_WRITE_DBNAME"`

	FeedURL     string        `env:"FEED_URL"`
	FeedTimeout time.Duration `env:"FEED_TIMEOUT,default=30s"`

	RedisAddr               string        `env:"REDIS_ADDR"`
	RedisUsername           string        `env:"REDIS_USER"`
	RedisPassword           string        `env:"REDIS_PASS"`
	RedisDatabase           int           `env:"REDIS_DATABASE,default=0"`
	RedisUniversalKeyPrefix string        `env:"REDIS_UNIVERSAL_KEY_PREFIX,default=txdash:"`
	CacheTTL                time.Duration `env:"CACHE_TTL,default=5m"`

	PromNamespace string `env:"PROM_NAMESPACE,default=transaction_dashboard"`

	LogLevel string `env:"LOG_LEVEL"`
}

// Load reads the optional dotenv file at path into the environment and maps
// the environment onto a Config.
func Load(path string) (*Config, error) {
	logger.Info("loading configs..", "path", path)
	c := &Config{}
	if path != "" {
		logger.Info("trying to publish env from file", "path", path)
		if err := godotenv.Load(path); err != nil {
			return nil, errors.Wrapf(err, "failed to load configuration file %s", path)
		}
	}

	if _, err := env.UnmarshalFromEnviron(c); err != nil {
		return nil, errors.Wrap(err, "failed to map env variables to Configuration object")
	}

	if c.FeedURL == "" {
		c.FeedURL = DefaultFeedURL
	}
	if c.DBDriver != pg.DriverPostgres && c.DBDriver != pg.DriverSQLite {
		return nil, errors.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.LogLevel != "" {
		logger.SetLevel(c.LogLevel)
	}
	return c, nil
}

func (c *Config) Debug() bool {
	return c.AppEnv == "dev"
}

func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// PostgresRead returns the connection settings of the read side. With
// DB_DSN set both sides share it.
func (c *Config) PostgresRead() pg.Config {
	return c.pgConfig(c.PostgresReadHost, c.PostgresReadPort, c.PostgresReadUser, c.PostgresReadPassword, c.PostgresReadDatabase)
}

func (c *Config) PostgresWrite() pg.Config {
	return c.pgConfig(c.PostgresWriteHost, c.PostgresWritePort, c.PostgresWriteUser, c.PostgresWritePassword, c.PostgresWriteDatabase)
}

// SingleNode reports whether reads and writes go to the same database, in
// which case one pool serves both.
func (c *Config) SingleNode() bool {
	return c.DBDsn != "" || c.DBDriver == pg.DriverSQLite || c.PostgresRead() == c.PostgresWrite()
}

func (c *Config) pgConfig(host, port, user, password, database string) pg.Config {
	return pg.Config{
		Driver:          c.DBDriver,
		DSN:             c.DBDsn,
		Host:            host,
		Port:            port,
		User:            user,
		Password:        password,
		Database:        database,
		MaxOpenConns:    c.DBMaxOpenConns,
		MaxIdleConns:    c.DBMaxIdleConns,
		ConnMaxLifetime: c.DBConnMaxLifetime,
		ConnectTimeout:  c.DBConnectTimeout,
	}
}
