package model

import "time"

// Transaction is one product sale record. ID is the identifier assigned by
// the upstream feed, not the store key.
type Transaction struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Sold        bool      `json:"sold"`
	DateOfSale  time.Time `json:"dateOfSale"`
	Month       int       `json:"month"`
	Image       string    `json:"image"`
}

// FeedTransaction is the shape of one element of the upstream seed feed.
type FeedTransaction struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Sold        bool      `json:"sold"`
	DateOfSale  time.Time `json:"dateOfSale"`
	Image       string    `json:"image"`
}

// MonthOf is the month stored alongside a sale. It is computed in UTC so the
// same feed always yields the same months regardless of server zone.
func MonthOf(t time.Time) int {
	return int(t.UTC().Month())
}

// ToTransaction derives the month once; it is never recomputed afterwards.
func (f FeedTransaction) ToTransaction() *Transaction {
	return &Transaction{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		Price:       f.Price,
		Category:    f.Category,
		Sold:        f.Sold,
		DateOfSale:  f.DateOfSale,
		Month:       MonthOf(f.DateOfSale),
		Image:       f.Image,
	}
}

// TransactionFilter controls List queries.
type TransactionFilter struct {
	Search *string  // case-insensitive literal substring of title/description/category
	Price  *float64 // equals
	Month  *int     // equals
	Limit  int
	Offset int
}

type TransactionPage struct {
	Transactions []*Transaction `json:"transactions"`
	Total        int64          `json:"total"`
}
