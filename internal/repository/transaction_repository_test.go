package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/nimasrn/transaction-dashboard/internal/model"
	"github.com/nimasrn/transaction-dashboard/pkg/pg"
	"github.com/nimasrn/transaction-dashboard/test/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *pg.DB {
	t.Helper()
	db, err := gorm.Open(pg.SQLiteDialector(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection, one in-memory database
	sqlDB.SetMaxOpenConns(1)

	pgDB := pg.NewDB(db, db)
	require.NoError(t, AutoMigrate(pgDB))
	t.Cleanup(func() { _ = pgDB.Close() })
	return pgDB
}

func seededRepo(t *testing.T) *TransactionRepository {
	t.Helper()
	repo := NewTransactionRepository(setupTestDB(t))
	require.NoError(t, repo.ReplaceAll(context.Background(), fixtures.Transactions()))
	return repo
}

func ptr[T any](v T) *T {
	return &v
}

func ids(txns []*model.Transaction) []int64 {
	out := make([]int64, 0, len(txns))
	for _, t := range txns {
		out = append(out, t.ID)
	}
	return out
}

func TestTransactionRepository_ReplaceAll(t *testing.T) {
	repo := NewTransactionRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.ReplaceAll(ctx, fixtures.Transactions()))
	_, total, err := repo.List(ctx, model.TransactionFilter{Limit: -1})
	require.NoError(t, err)
	assert.Equal(t, int64(len(fixtures.Feed)), total)

	t.Run("second seed replaces the first", func(t *testing.T) {
		replacement := []*model.Transaction{fixtures.Feed[0].ToTransaction(), fixtures.Feed[1].ToTransaction()}
		require.NoError(t, repo.ReplaceAll(ctx, replacement))

		items, total, err := repo.List(ctx, model.TransactionFilter{Limit: -1})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Equal(t, []int64{1, 2}, ids(items))
	})

	t.Run("empty feed clears the store", func(t *testing.T) {
		require.NoError(t, repo.ReplaceAll(ctx, nil))

		_, total, err := repo.List(ctx, model.TransactionFilter{Limit: -1})
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("identical feeds give identical stores", func(t *testing.T) {
		require.NoError(t, repo.ReplaceAll(ctx, fixtures.Transactions()))
		first, _, err := repo.List(ctx, model.TransactionFilter{Limit: -1})
		require.NoError(t, err)

		require.NoError(t, repo.ReplaceAll(ctx, fixtures.Transactions()))
		second, _, err := repo.List(ctx, model.TransactionFilter{Limit: -1})
		require.NoError(t, err)

		assert.Equal(t, ids(first), ids(second))
	})
}

func TestTransactionRepository_List(t *testing.T) {
	repo := seededRepo(t)
	ctx := context.Background()

	t.Run("paginates and counts before paging", func(t *testing.T) {
		items, total, err := repo.List(ctx, model.TransactionFilter{Limit: 4, Offset: 4})
		require.NoError(t, err)
		assert.Equal(t, int64(10), total)
		assert.Equal(t, []int64{5, 6, 7, 8}, ids(items))
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		items, total, err := repo.List(ctx, model.TransactionFilter{Limit: 10, Offset: 20})
		require.NoError(t, err)
		assert.Equal(t, int64(10), total)
		assert.Empty(t, items)
	})

	t.Run("substring search is case-insensitive across fields", func(t *testing.T) {
		items, total, err := repo.List(ctx, model.TransactionFilter{Search: ptr("JACKET"), Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, []int64{3}, ids(items))

		// category match
		items, _, err = repo.List(ctx, model.TransactionFilter{Search: ptr("electron"), Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, []int64{9, 10}, ids(items))

		// description match
		items, _, err = repo.List(ctx, model.TransactionFilter{Search: ptr("water dragon"), Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, []int64{5}, ids(items))
	})

	t.Run("wildcards match literally", func(t *testing.T) {
		items, _, err := repo.List(ctx, model.TransactionFilter{Search: ptr("100%"), Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, []int64{8}, ids(items))

		items, _, err = repo.List(ctx, model.TransactionFilter{Search: ptr("off_white"), Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, []int64{8}, ids(items))

		items, _, err = repo.List(ctx, model.TransactionFilter{Search: ptr("_"), Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, []int64{8}, ids(items))
	})

	t.Run("dot is not a wildcard", func(t *testing.T) {
		items, total, err := repo.List(ctx, model.TransactionFilter{Search: ptr("a.b"), Limit: 10})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, items)
	})

	t.Run("price equality", func(t *testing.T) {
		items, total, err := repo.List(ctx, model.TransactionFilter{Price: ptr(100.0), Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, []int64{8}, ids(items))
	})

	t.Run("month filter combines with search", func(t *testing.T) {
		items, total, err := repo.List(ctx, model.TransactionFilter{Month: ptr(7), Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Equal(t, []int64{3, 7, 8}, ids(items))

		items, _, err = repo.List(ctx, model.TransactionFilter{Month: ptr(7), Search: ptr("gold"), Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, []int64{7, 8}, ids(items))
	})

	t.Run("no match", func(t *testing.T) {
		items, total, err := repo.List(ctx, model.TransactionFilter{Search: ptr("zzz"), Limit: 10})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, items)
	})

	t.Run("zero limit yields an empty page", func(t *testing.T) {
		items, total, err := repo.List(ctx, model.TransactionFilter{Limit: 0})
		require.NoError(t, err)
		assert.Equal(t, int64(10), total)
		assert.Empty(t, items)
	})
}

func TestTransactionRepository_SearchUnicodeAndLiterals(t *testing.T) {
	repo := NewTransactionRepository(setupTestDB(t))
	ctx := context.Background()
	sale := time.Date(2021, time.July, 27, 20, 29, 54, 0, time.UTC)

	txns := []*model.Transaction{
		{ID: 1, Title: "Ébène Chair", Description: "dark wood", Category: "furniture", DateOfSale: sale, Month: 7},
		{ID: 2, Title: "Model a.b kit", Description: "plastic", Category: "toys", DateOfSale: sale, Month: 7},
		{ID: 3, Title: "Model axb kit", Description: "plastic", Category: "toys", DateOfSale: sale, Month: 7},
		{ID: 4, Title: "Straße Sign", Description: "ÖL GEMÄLDE", Category: "décor", DateOfSale: sale, Month: 7},
	}
	require.NoError(t, repo.ReplaceAll(ctx, txns))

	cases := []struct {
		search string
		want   []int64
	}{
		{"ébène", []int64{1}},
		{"ÉBÈNE", []int64{1}},
		{"a.b", []int64{2}},
		{"öl gemälde", []int64{4}},
		{"DÉCOR", []int64{4}},
	}
	for _, tc := range cases {
		t.Run(tc.search, func(t *testing.T) {
			items, total, err := repo.List(ctx, model.TransactionFilter{Search: ptr(tc.search), Limit: 10})
			require.NoError(t, err)
			assert.Equal(t, int64(len(tc.want)), total)
			assert.Equal(t, tc.want, ids(items))
		})
	}
}

func TestSearchClause(t *testing.T) {
	assert.Contains(t, searchClause(pg.DriverPostgres), "title ILIKE ?")
	assert.Contains(t, searchClause(pg.DriverSQLite), "unicode_lower(category) LIKE ?")
	assert.Equal(t, 3, strings.Count(searchClause("mysql"), "LOWER("))
}

func TestTransactionRepository_GetByExternalID(t *testing.T) {
	repo := seededRepo(t)
	ctx := context.Background()

	txn, err := repo.GetByExternalID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Mens Cotton Jacket", txn.Title)
	assert.Equal(t, 615.89, txn.Price)
	assert.Equal(t, 7, txn.Month)
	assert.True(t, txn.Sold)
	assert.True(t, txn.DateOfSale.Equal(time.Date(2022, time.July, 27, 20, 29, 54, 0, time.UTC)))

	_, err = repo.GetByExternalID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTransactionRepository_Statistics(t *testing.T) {
	repo := seededRepo(t)
	ctx := context.Background()

	stats, err := repo.Statistics(ctx, 7)
	require.NoError(t, err)
	assert.InDelta(t, 815.88, stats.TotalSale, 0.001)
	assert.Equal(t, int64(2), stats.TotalSoldItems)
	assert.Equal(t, int64(1), stats.TotalNotSoldItems)

	stats, err = repo.Statistics(ctx, 10)
	require.NoError(t, err)
	assert.InDelta(t, 185.58, stats.TotalSale, 0.001)
	assert.Zero(t, stats.TotalSoldItems)
	assert.Equal(t, int64(3), stats.TotalNotSoldItems)

	stats, err = repo.Statistics(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, stats.Count())
	assert.Zero(t, stats.TotalSale)
}

func TestTransactionRepository_CountByPriceRange(t *testing.T) {
	repo := seededRepo(t)
	ctx := context.Background()

	counts := map[string]int64{}
	var sum int64
	for _, pr := range model.PriceRanges {
		n, err := repo.CountByPriceRange(ctx, 7, pr)
		require.NoError(t, err)
		counts[pr.Label] = n
		sum += n
	}
	assert.Equal(t, int64(2), counts["0-100"])
	assert.Equal(t, int64(1), counts["601-700"])
	assert.Equal(t, int64(3), sum)

	n, err := repo.CountByPriceRange(ctx, 3, model.PriceRanges[9])
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestTransactionRepository_CountBySold(t *testing.T) {
	repo := seededRepo(t)
	ctx := context.Background()

	sold, err := repo.CountBySold(ctx, 7, true)
	require.NoError(t, err)
	notSold, err := repo.CountBySold(ctx, 7, false)
	require.NoError(t, err)

	assert.Equal(t, int64(2), sold)
	assert.Equal(t, int64(1), notSold)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\x`, escapeLike(`c:\x`))
}
