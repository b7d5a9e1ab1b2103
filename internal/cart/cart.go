// Package cart implements the mutable shopping cart: an ordered sequence of
// line items with merge-on-repeat-add semantics and unit prices captured at
// add time. The cart never mutates inventory; stock is only validated
// against the book record passed in by the caller.
package cart

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jortega/bookshop/internal/catalog"
)

// ErrInvalidQuantity is returned when a quantity is not a positive integer.
var ErrInvalidQuantity = errors.New("quantity must be a positive integer")

// Line is a single cart line. UnitPrice is an immutable snapshot of the
// book's price at the time the line was first added; later catalog price
// changes do not affect it.
type Line struct {
	BookID    string
	Title     string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal returns UnitPrice multiplied by Quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered list of lines with at most one line per book.
// Not safe for concurrent use.
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Add puts qty units of the given book into the cart, merging with an
// existing line for the same book. It fails with ErrInvalidQuantity for a
// non-positive qty and with catalog.ErrOutOfStock when the merged line
// quantity would exceed the book's current stock. On success it returns a
// snapshot of the cart.
func (c *Cart) Add(b catalog.Book, qty int) ([]Line, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("quantity %d: %w", qty, ErrInvalidQuantity)
	}

	idx := c.indexOf(b.ID)
	merged := qty
	if idx >= 0 {
		merged += c.lines[idx].Quantity
	}
	if merged > b.Stock {
		return nil, fmt.Errorf("book %q: requested %d, have %d: %w",
			b.ID, merged, b.Stock, catalog.ErrOutOfStock)
	}

	if idx >= 0 {
		c.lines[idx].Quantity = merged
	} else {
		c.lines = append(c.lines, Line{
			BookID:    b.ID,
			Title:     b.Title,
			Quantity:  qty,
			UnitPrice: b.Price,
		})
	}
	return c.Lines(), nil
}

// Remove decrements a line by qty, dropping the line when its quantity
// reaches zero. A qty <= 0 removes the whole line. Removing an absent book
// is a no-op. Returns a snapshot of the cart.
func (c *Cart) Remove(bookID string, qty int) []Line {
	idx := c.indexOf(bookID)
	if idx < 0 {
		return c.Lines()
	}
	if qty > 0 && c.lines[idx].Quantity > qty {
		c.lines[idx].Quantity -= qty
	} else {
		c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
	}
	return c.Lines()
}

// Lines returns a snapshot of the cart's lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Clear removes every line.
func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) indexOf(bookID string) int {
	for i := range c.lines {
		if c.lines[i].BookID == bookID {
			return i
		}
	}
	return -1
}
