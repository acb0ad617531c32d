package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nimasrn/transaction-dashboard/internal/model"
	"github.com/nimasrn/transaction-dashboard/internal/repository"
	"github.com/nimasrn/transaction-dashboard/pkg/pg"
	"github.com/nimasrn/transaction-dashboard/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// SetupTestDB opens a migrated in-memory sqlite database. The pool is pinned
// to one connection because every sqlite :memory: connection is a separate
// database.
func SetupTestDB(t *testing.T) *pg.DB {
	t.Helper()
	db, err := gorm.Open(pg.SQLiteDialector(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	pgDB := pg.NewDB(db, db)
	require.NoError(t, repository.AutoMigrate(pgDB))
	t.Cleanup(func() { _ = pgDB.Close() })

	return pgDB
}

// SetupTestRedis starts a miniredis and returns an adapter registered under
// the test name.
func SetupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.RedisAdapter) {
	t.Helper()
	mr := miniredis.RunT(t)

	adapter, err := redis.NewRedisAdapter(t.Name(), "", &goredis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)

	return mr, adapter
}

// SeedTransactions stores txns through the repository, replacing whatever
// was there.
func SeedTransactions(t *testing.T, db *pg.DB, txns []*model.Transaction) *repository.TransactionRepository {
	t.Helper()
	repo := repository.NewTransactionRepository(db)
	require.NoError(t, repo.ReplaceAll(context.Background(), txns))
	return repo
}

func NewTestTransaction(id int64, title string, price float64, sold bool, dateOfSale time.Time) *model.Transaction {
	return &model.Transaction{
		ID:          id,
		Title:       title,
		Description: title + " description",
		Price:       price,
		Category:    "misc",
		Sold:        sold,
		DateOfSale:  dateOfSale,
		Month:       model.MonthOf(dateOfSale),
		Image:       "https://img.example/test.jpg",
	}
}

func ContextWithTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func Ptr[T any](v T) *T {
	return &v
}
