package pg

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

type txContextKey string

const txKey txContextKey = "trx"

type DB struct {
	read  *gorm.DB
	write *gorm.DB
}

func dialector(config Config) (gorm.Dialector, error) {
	switch config.driver() {
	case DriverPostgres:
		return postgres.Open(config.ConnString()), nil
	case DriverSQLite:
		return SQLiteDialector(config.ConnString()), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", config.Driver)
}

func Create(config Config, withDebug bool) (*gorm.DB, error) {
	d, err := dialector(config)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(d,
		&gorm.Config{
			NamingStrategy: schema.NamingStrategy{
				SingularTable: true,
			},
		})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	applyPool(sqlDB, config)

	if withDebug {
		db = db.Debug()
	}
	return db, nil
}

func CreateReadWrite(readConfig Config, writeConfig Config, withDebug bool) (*DB, error) {
	read, err := Create(readConfig, withDebug)
	if err != nil {
		return nil, err
	}
	write, err := Create(writeConfig, withDebug)
	if err != nil {
		return nil, err
	}
	return &DB{read, write}, nil
}

// NewDB wraps already opened handles. Passing the same handle twice gives a
// single-node setup.
func NewDB(read, write *gorm.DB) *DB {
	return &DB{read: read, write: write}
}

func (r *DB) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.write.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ctx = context.WithValue(ctx, txKey, tx)
		return fn(ctx)
	})
}

func (r *DB) Write(ctx context.Context) *gorm.DB {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if ok {
		return tx
	}

	tx = r.write.WithContext(ctx)

	return tx
}

func (r *DB) Read(ctx context.Context) *gorm.DB {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if ok {
		return tx
	}

	tx = r.read.WithContext(ctx)

	return tx
}

func (r *DB) AutoMigrate(dst ...interface{}) error {
	return r.write.AutoMigrate(dst...)
}

func (r *DB) Close() error {
	for _, g := range []*gorm.DB{r.read, r.write} {
		sqlDB, err := g.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.Close(); err != nil {
			return err
		}
		if r.read == r.write {
			break
		}
	}
	return nil
}

func (r *DB) Ping(ctx context.Context) error {
	sqlDB, err := r.read.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
