package repository

import (
	"time"

	"github.com/nimasrn/transaction-dashboard/internal/model"
	"github.com/nimasrn/transaction-dashboard/pkg/pg"
)

type TransactionEntity struct {
	pg.Model
	ExternalID  int64     `db:"external_id"  gorm:"column:external_id;not null;index"`
	Title       string    `db:"title"        gorm:"column:title;not null"`
	Description string    `db:"description"  gorm:"column:description;not null"`
	Price       float64   `db:"price"        gorm:"column:price;not null;index:idx_transactions_month_price,priority:2"`
	Category    string    `db:"category"     gorm:"column:category;not null"`
	Sold        bool      `db:"sold"         gorm:"column:sold;not null;index:idx_transactions_month_sold,priority:2"`
	DateOfSale  time.Time `db:"date_of_sale" gorm:"column:date_of_sale;not null"`
	Month       int       `db:"month"        gorm:"column:month;not null;index:idx_transactions_month_sold,priority:1;index:idx_transactions_month_price,priority:1"`
	Image       string    `db:"image"        gorm:"column:image;not null"`
}

func (TransactionEntity) TableName() string {
	return "transactions"
}

func toTransactionEntity(m *model.Transaction) *TransactionEntity {
	if m == nil {
		return nil
	}
	return &TransactionEntity{
		ExternalID:  m.ID,
		Title:       m.Title,
		Description: m.Description,
		Price:       m.Price,
		Category:    m.Category,
		Sold:        m.Sold,
		DateOfSale:  m.DateOfSale,
		Month:       m.Month,
		Image:       m.Image,
	}
}

func toTransactionModel(e *TransactionEntity) *model.Transaction {
	if e == nil {
		return nil
	}
	return &model.Transaction{
		ID:          e.ExternalID,
		Title:       e.Title,
		Description: e.Description,
		Price:       e.Price,
		Category:    e.Category,
		Sold:        e.Sold,
		DateOfSale:  e.DateOfSale,
		Month:       e.Month,
		Image:       e.Image,
	}
}

func toTransactionModels(entities []*TransactionEntity) []*model.Transaction {
	models := make([]*model.Transaction, len(entities))
	for i, e := range entities {
		models[i] = toTransactionModel(e)
	}
	return models
}
