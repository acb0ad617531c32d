package pg

import (
	"database/sql"
	"fmt"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver   string `env:"DRIVER"`
	DSN      string `env:"DSN"`
	User     string `env:"USER"`
	Host     string `env:"HOST"`
	Port     string `env:"PORT"`
	Password string `env:"PASSWORD"`
	Database string `env:"DBNAME"`

	MaxOpenConns    int           `env:"MAX_OPEN_CONNS"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME"`
	ConnectTimeout  time.Duration `env:"CONNECT_TIMEOUT"`
}

// ConnString returns DSN when set, otherwise a libpq key/value string built
// from the individual fields.
func (c Config) ConnString() string {
	if c.DSN != "" {
		return c.DSN
	}
	s := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable", c.Host, c.User, c.Password, c.Database, c.Port)
	if c.ConnectTimeout > 0 {
		s += fmt.Sprintf(" connect_timeout=%d", int(c.ConnectTimeout.Seconds()))
	}
	return s
}

func (c Config) driver() string {
	if c.Driver == "" {
		return DriverPostgres
	}
	return c.Driver
}

func newSqlConnection(config Config) (*sql.DB, error) {
	return sql.Open("postgres", config.ConnString())
}

func applyPool(db *sql.DB, config Config) {
	if config.MaxOpenConns > 0 {
		db.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		db.SetMaxIdleConns(config.MaxIdleConns)
	}
	if config.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(config.ConnMaxLifetime)
	}
}
