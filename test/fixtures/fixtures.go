package fixtures

import (
	"encoding/json"
	"time"

	"github.com/nimasrn/transaction-dashboard/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 20, 29, 54, 0, time.UTC)
}

// Feed is a small upstream feed with known aggregates:
//
//	July:    3 records, 2 sold, sale 815.88, bands 0-100:2 601-700:1
//	October: 3 records, none sold
//	March:   2 records, both sold, one above 900
var Feed = []model.FeedTransaction{
	{ID: 1, Title: "Fjallraven Foldsack No 1 Backpack", Description: "Your perfect pack for everyday use and walks in the forest.", Price: 329.85, Category: "men's clothing", Sold: false, DateOfSale: date(2021, time.November, 27), Image: "https://img.example/1.jpg"},
	{ID: 2, Title: "Mens Casual Premium Slim Fit T-Shirts", Description: "Slim-fitting style, contrast raglan long sleeve.", Price: 44.6, Category: "men's clothing", Sold: false, DateOfSale: date(2021, time.October, 27), Image: "https://img.example/2.jpg"},
	{ID: 3, Title: "Mens Cotton Jacket", Description: "Great outerwear jackets for Spring, Autumn and Winter.", Price: 615.89, Category: "men's clothing", Sold: true, DateOfSale: date(2022, time.July, 27), Image: "https://img.example/3.jpg"},
	{ID: 4, Title: "Mens Casual Slim Fit", Description: "The color could be slightly different between on the screen and in practice.", Price: 31.98, Category: "men's clothing", Sold: false, DateOfSale: date(2021, time.October, 27), Image: "https://img.example/4.jpg"},
	{ID: 5, Title: "John Hardy Women's Legends Naga Bracelet", Description: "From our Legends Collection, the Naga was inspired by the mythical water dragon.", Price: 6950, Category: "jewelery", Sold: true, DateOfSale: date(2022, time.March, 27), Image: "https://img.example/5.jpg"},
	{ID: 6, Title: "Solid Gold Petite Micropave", Description: "Satisfaction Guaranteed. Return or exchange any order within 30 days.", Price: 168, Category: "jewelery", Sold: false, DateOfSale: date(2022, time.January, 27), Image: "https://img.example/6.jpg"},
	{ID: 7, Title: "White Gold Plated Princess", Description: "Classic Created Wedding Engagement Solitaire Diamond Promise Ring.", Price: 99.99, Category: "jewelery", Sold: true, DateOfSale: date(2022, time.July, 27), Image: "https://img.example/7.jpg"},
	{ID: 8, Title: "Pierced Owl Rose Gold Plated Earrings", Description: "Rose Gold Plated Double Flared Tunnel Plug Earrings. 100% off_white steel.", Price: 100, Category: "jewelery", Sold: false, DateOfSale: date(2022, time.July, 27), Image: "https://img.example/8.jpg"},
	{ID: 9, Title: "WD 2TB Elements Portable External Hard Drive", Description: "USB 3.0 and USB 2.0 compatibility, fast data transfers.", Price: 64, Category: "electronics", Sold: true, DateOfSale: date(2022, time.March, 27), Image: "https://img.example/9.jpg"},
	{ID: 10, Title: "SanDisk SSD PLUS 1TB Internal SSD", Description: "Easy upgrade for faster boot up, shutdown, application load and response.", Price: 109, Category: "electronics", Sold: false, DateOfSale: date(2021, time.October, 27), Image: "https://img.example/10.jpg"},
}

// FeedJSON is Feed encoded the way the upstream serves it.
func FeedJSON() []byte {
	b, err := json.Marshal(Feed)
	if err != nil {
		panic(err)
	}
	return b
}

// Transactions returns Feed converted to stored records.
func Transactions() []*model.Transaction {
	out := make([]*model.Transaction, 0, len(Feed))
	for _, f := range Feed {
		out = append(out, f.ToTransaction())
	}
	return out
}
