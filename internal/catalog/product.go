package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Category    string
	ImageURL    string
	CreatedAt   time.Time
}

// Available reports whether the product can currently be bought.
func (p Product) Available() bool {
	return p.Stock > 0
}

// categories is the fixed set the storefront sorts products into.
var categories = []string{
	"Electronics",
	"Audio",
	"Wearables",
	"Computing",
	"Photo & Video",
	"Smart Home",
	"Gaming",
	"Sports & Leisure",
	"Office",
	"Printing",
	"Networking",
	"Accessories",
	"Wellness",
	"Smart Kitchen",
	"Gardening",
	"Automotive",
}

// Categories returns the storefront category list.
func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}
