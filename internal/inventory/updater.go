// Package inventory commits purchased quantities against the catalog with
// an all-or-nothing guarantee.
package inventory

import (
	"fmt"

	"github.com/jortega/bookshop/internal/cart"
	"github.com/jortega/bookshop/internal/catalog"
)

// Updater applies cart snapshots to catalog stock in two phases: a
// validation pass over every line before any mutation, then a commit pass.
// If validation fails no book record is touched.
type Updater struct {
	cat *catalog.Catalog
}

func NewUpdater(cat *catalog.Catalog) *Updater {
	return &Updater{cat: cat}
}

// Apply decrements stock for every line, or for none. It returns
// catalog.ErrNotFound for an unknown book and catalog.ErrOutOfStock when a
// line's quantity exceeds current stock.
func (u *Updater) Apply(lines []cart.Line) error {
	for _, l := range lines {
		b, err := u.cat.Get(l.BookID)
		if err != nil {
			return err
		}
		if l.Quantity > b.Stock {
			return fmt.Errorf("book %q: requested %d, have %d: %w",
				l.BookID, l.Quantity, b.Stock, catalog.ErrOutOfStock)
		}
	}

	for _, l := range lines {
		// Validated above; single-threaded execution means stock cannot
		// have changed between the two passes.
		if err := u.cat.Decrement(l.BookID, l.Quantity); err != nil {
			return fmt.Errorf("commit after validation: %w", err)
		}
	}
	return nil
}
