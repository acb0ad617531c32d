package repository

import (
	"github.com/nimasrn/transaction-dashboard/internal/config"
	"github.com/nimasrn/transaction-dashboard/pkg/pg"
	"github.com/pkg/errors"
)

// Open connects to the configured database. A single pool serves both sides
// unless separate read and write nodes are configured.
func Open(cfg *config.Config) (*pg.DB, error) {
	var db *pg.DB
	if cfg.SingleNode() {
		conn, err := pg.Create(cfg.PostgresWrite(), cfg.Debug())
		if err != nil {
			return nil, errors.Wrap(err, "open database")
		}
		db = pg.NewDB(conn, conn)
	} else {
		var err error
		db, err = pg.CreateReadWrite(cfg.PostgresRead(), cfg.PostgresWrite(), cfg.Debug())
		if err != nil {
			return nil, errors.Wrap(err, "open database")
		}
	}

	if cfg.DBAutoMigrate || cfg.DBDriver == pg.DriverSQLite {
		if err := AutoMigrate(db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}

func AutoMigrate(db *pg.DB) error {
	return errors.Wrap(db.AutoMigrate(&TransactionEntity{}), "auto migrate")
}
