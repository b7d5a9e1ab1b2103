// Package catalog holds the in-memory book catalog: the seeded list of
// books, case-insensitive search over title and author, and the stock
// counters that the inventory updater decrements after a successful
// purchase.
//
// The catalog is the single owner of the Book records. Every read returns
// value copies so callers can never mutate internal state through a
// returned slice.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a book ID does not exist in the catalog.
	ErrNotFound = errors.New("book not found")

	// ErrOutOfStock is returned when a requested quantity exceeds the
	// current stock of a book. Raised both at cart-add time and by the
	// inventory updater's validation pass.
	ErrOutOfStock = errors.New("out of stock")
)

// Book is a single catalog record. Price is a fixed-point decimal with two
// fractional digits; Stock never goes negative.
type Book struct {
	ID     string
	Title  string
	Author string
	Price  decimal.Decimal
	Stock  int
}

// Catalog is an ordered, in-memory collection of books. It is not safe for
// concurrent use; the module assumes a single logical session.
type Catalog struct {
	books []Book
}

// New builds a catalog from the given seed. The seed slice is copied so the
// caller keeps no alias into catalog state.
func New(seed []Book) *Catalog {
	c := &Catalog{}
	c.Reset(seed)
	return c
}

// Reset discards all catalog state and reseeds it. Used for test isolation
// and the store's reset lifecycle.
func (c *Catalog) Reset(seed []Book) {
	c.books = make([]Book, len(seed))
	copy(c.books, seed)
}

// Search returns a snapshot of every book whose title or author contains
// the query, case-insensitively. An empty or whitespace-only query returns
// the full catalog.
func (c *Catalog) Search(query string) []Book {
	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]Book, 0, len(c.books))
	for _, b := range c.books {
		if q == "" ||
			strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.Author), q) {
			out = append(out, b)
		}
	}
	return out
}

// All returns a snapshot of the full catalog.
func (c *Catalog) All() []Book {
	return c.Search("")
}

// Get returns a copy of the book with the given ID, or ErrNotFound.
func (c *Catalog) Get(id string) (Book, error) {
	for _, b := range c.books {
		if b.ID == id {
			return b, nil
		}
	}
	return Book{}, fmt.Errorf("book %q: %w", id, ErrNotFound)
}

// Decrement reduces the stock of a book by qty. It fails without mutating
// anything if the book is unknown or qty exceeds the current stock.
func (c *Catalog) Decrement(id string, qty int) error {
	for i := range c.books {
		if c.books[i].ID != id {
			continue
		}
		if qty > c.books[i].Stock {
			return fmt.Errorf("book %q: requested %d, have %d: %w",
				id, qty, c.books[i].Stock, ErrOutOfStock)
		}
		c.books[i].Stock -= qty
		return nil
	}
	return fmt.Errorf("book %q: %w", id, ErrNotFound)
}
