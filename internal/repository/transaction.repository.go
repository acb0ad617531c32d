package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nimasrn/transaction-dashboard/internal/model"
	"github.com/nimasrn/transaction-dashboard/pkg/pg"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no transaction carries the requested id.
	ErrNotFound = errors.New("transaction not found")
)

const insertBatchSize = 500

type TransactionRepository struct {
	*pg.DB
}

func NewTransactionRepository(db *pg.DB) *TransactionRepository {
	return &TransactionRepository{
		db,
	}
}

// ReplaceAll deletes every stored transaction and inserts txns in a single
// store transaction.
func (r *TransactionRepository) ReplaceAll(ctx context.Context, txns []*model.Transaction) error {
	entities := make([]*TransactionEntity, 0, len(txns))
	for _, t := range txns {
		entities = append(entities, toTransactionEntity(t))
	}

	return r.WithinTransaction(ctx, func(ctx context.Context) error {
		err := r.Write(ctx).
			Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&TransactionEntity{}).
			Error
		if err != nil {
			return fmt.Errorf("clear transactions: %w", err)
		}

		if len(entities) == 0 {
			return nil
		}
		if err := r.Write(ctx).CreateInBatches(entities, insertBatchSize).Error; err != nil {
			return fmt.Errorf("insert transactions: %w", err)
		}
		return nil
	})
}

func (r *TransactionRepository) List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, int64, error) {
	// Count before pagination
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// limit/offset go to the store untouched: gorm drops a negative offset
	// and treats a negative limit as unlimited.
	var entities []*TransactionEntity
	err := r.filtered(ctx, f).
		Order("external_id ASC").
		Order("uid ASC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&entities).
		Error
	if err != nil {
		return nil, 0, err
	}

	return toTransactionModels(entities), total, nil
}

func (r *TransactionRepository) GetByExternalID(ctx context.Context, id int64) (*model.Transaction, error) {
	var entity TransactionEntity
	err := r.Read(ctx).
		Where("external_id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toTransactionModel(&entity), nil
}

type statisticsRow struct {
	TotalSale         float64 `gorm:"column:total_sale"`
	TotalSoldItems    int64   `gorm:"column:total_sold_items"`
	TotalNotSoldItems int64   `gorm:"column:total_not_sold_items"`
}

// Statistics sums price and splits the sold flag over one month in a single
// grouped query. A month without records yields all zeros.
func (r *TransactionRepository) Statistics(ctx context.Context, month int) (model.Statistics, error) {
	var row statisticsRow
	err := r.Read(ctx).
		Model(&TransactionEntity{}).
		Select(`
            COALESCE(SUM(price), 0)                          AS total_sale,
            COALESCE(SUM(CASE WHEN sold THEN 1 ELSE 0 END), 0) AS total_sold_items,
            COALESCE(SUM(CASE WHEN sold THEN 0 ELSE 1 END), 0) AS total_not_sold_items
        `).
		Where("month = ?", month).
		Scan(&row).
		Error
	if err != nil {
		return model.Statistics{}, err
	}
	return model.Statistics{
		TotalSale:         row.TotalSale,
		TotalSoldItems:    row.TotalSoldItems,
		TotalNotSoldItems: row.TotalNotSoldItems,
	}, nil
}

func (r *TransactionRepository) CountByPriceRange(ctx context.Context, month int, pr model.PriceRange) (int64, error) {
	q := r.Read(ctx).Model(&TransactionEntity{}).Where("month = ?", month)
	if pr.First {
		q = q.Where("price >= ?", pr.Min)
	} else {
		q = q.Where("price > ?", pr.Min)
	}
	if !pr.Unbounded() {
		q = q.Where("price <= ?", pr.Max)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *TransactionRepository) CountBySold(ctx context.Context, month int, sold bool) (int64, error) {
	var count int64
	err := r.Read(ctx).
		Model(&TransactionEntity{}).
		Where("month = ? AND sold = ?", month, sold).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *TransactionRepository) filtered(ctx context.Context, f model.TransactionFilter) *gorm.DB {
	q := r.Read(ctx).Model(&TransactionEntity{})

	if f.Price != nil {
		q = q.Where("price = ?", *f.Price)
	}
	if f.Search != nil && *f.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(*f.Search)) + "%"
		q = q.Where(searchClause(q.Dialector.Name()), pattern, pattern, pattern)
	}
	if f.Month != nil {
		q = q.Where("month = ?", *f.Month)
	}
	return q
}

var searchColumns = []string{"title", "description", "category"}

// searchClause matches a lower-cased LIKE pattern against every searchable
// column, case-insensitively over the full Unicode range.
func searchClause(dialect string) string {
	match := `LOWER(%s) LIKE ? ESCAPE '\'`
	switch dialect {
	case pg.DriverPostgres:
		match = `%s ILIKE ? ESCAPE '\'`
	case pg.DriverSQLite:
		match = pg.SQLiteLowerFunc + `(%s) LIKE ? ESCAPE '\'`
	}
	parts := make([]string, 0, len(searchColumns))
	for _, col := range searchColumns {
		parts = append(parts, fmt.Sprintf(match, col))
	}
	return strings.Join(parts, " OR ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
