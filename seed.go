package bookshop

import (
	"github.com/shopspring/decimal"

	"github.com/jortega/bookshop/internal/catalog"
)

// DefaultSeed returns the catalog a fresh Store starts with. A new slice is
// returned on every call so callers cannot alias the seed.
func DefaultSeed() []catalog.Book {
	return []catalog.Book{
		{ID: "bk-001", Title: "The Go Programming Language", Author: "Alan A. A. Donovan", Price: decimal.NewFromInt(35), Stock: 4},
		{ID: "bk-002", Title: "Designing Data-Intensive Applications", Author: "Martin Kleppmann", Price: decimal.NewFromInt(40), Stock: 3},
		{ID: "bk-003", Title: "Clean Architecture", Author: "Robert C. Martin", Price: decimal.NewFromInt(30), Stock: 5},
		{ID: "bk-004", Title: "Database Internals", Author: "Alex Petrov", Price: decimal.NewFromFloat(44.50), Stock: 2},
		{ID: "bk-005", Title: "Site Reliability Engineering", Author: "Betsy Beyer", Price: decimal.NewFromFloat(28.99), Stock: 1},
	}
}
