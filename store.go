// Package bookshop is an embeddable, in-memory order-processing module for
// a bookstore: catalog search, cart, pricing, simulated payment, inventory
// decrement, and a purchase orchestrator tying them together.
//
// All state lives in an explicit Store object; there are no package-level
// globals, so tests and sessions construct isolated instances. The Store is
// single-session and not safe for concurrent use.
package bookshop

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jortega/bookshop/internal/cart"
	"github.com/jortega/bookshop/internal/catalog"
	"github.com/jortega/bookshop/internal/checkout"
	"github.com/jortega/bookshop/internal/checkout/checkoutlog"
	"github.com/jortega/bookshop/internal/inventory"
	"github.com/jortega/bookshop/internal/payment"
	"github.com/jortega/bookshop/internal/pricing"
)

// Config customises a Store. The zero value is usable: default seed,
// probabilistic payment simulator, no checkout log.
type Config struct {
	// Seed is the initial catalog. Nil uses DefaultSeed.
	Seed []catalog.Book

	// Processor handles payment attempts. Nil uses a Simulator with the
	// default success rate. Tests inject payment.Fixed here.
	Processor payment.Processor

	// CheckoutLog receives an audit entry per checkout state transition.
	// May be nil.
	CheckoutLog checkoutlog.Repository
}

// Store holds one session's catalog and cart and exposes the module's
// operation surface.
type Store struct {
	seed []catalog.Book

	catalog   *catalog.Catalog
	cart      *cart.Cart
	engine    *pricing.Engine
	processor payment.Processor
	updater   *inventory.Updater
	orch      *checkout.Orchestrator
}

// New builds a Store from cfg.
func New(cfg Config) *Store {
	seed := cfg.Seed
	if seed == nil {
		seed = DefaultSeed()
	}
	processor := cfg.Processor
	if processor == nil {
		processor = payment.NewSimulator(payment.DefaultSuccessRate)
	}

	s := &Store{
		seed:      seed,
		catalog:   catalog.New(seed),
		cart:      cart.New(),
		engine:    pricing.NewEngine(),
		processor: processor,
	}
	s.updater = inventory.NewUpdater(s.catalog)
	s.orch = checkout.NewOrchestrator(s.catalog, s.cart, s.engine, s.processor, cfg.CheckoutLog)
	return s
}

// Search returns a snapshot of books whose title or author contains the
// query, case-insensitively. An empty query returns the full catalog.
func (s *Store) Search(query string) []catalog.Book {
	return s.catalog.Search(query)
}

// Books returns a snapshot of the full catalog.
func (s *Store) Books() []catalog.Book {
	return s.catalog.All()
}

// AddToCart adds qty units of a book to the cart, merging with an existing
// line. It fails with catalog.ErrNotFound for an unknown book,
// cart.ErrInvalidQuantity for a non-positive quantity, and
// catalog.ErrOutOfStock when the merged quantity exceeds current stock.
// Returns a snapshot of the cart.
func (s *Store) AddToCart(bookID string, qty int) ([]cart.Line, error) {
	// Quantity validation comes before the catalog lookup so a bad
	// quantity is reported as such even for an unknown book.
	if qty <= 0 {
		return nil, fmt.Errorf("quantity %d: %w", qty, cart.ErrInvalidQuantity)
	}
	b, err := s.catalog.Get(bookID)
	if err != nil {
		return nil, err
	}
	return s.cart.Add(b, qty)
}

// RemoveFromCart decrements a line by qty; qty <= 0 removes the whole line.
func (s *Store) RemoveFromCart(bookID string, qty int) []cart.Line {
	return s.cart.Remove(bookID, qty)
}

// ClearCart removes every cart line.
func (s *Store) ClearCart() {
	s.cart.Clear()
}

// Cart returns a snapshot of the current cart.
func (s *Store) Cart() []cart.Line {
	return s.cart.Lines()
}

// CalculateTotal prices the given lines, or the current cart when lines is
// nil. It is pure: nothing in the store is mutated.
func (s *Store) CalculateTotal(lines []cart.Line, opts pricing.Options) pricing.Breakdown {
	if lines == nil {
		lines = s.cart.Lines()
	}
	return s.engine.Quote(lines, opts)
}

// ProcessPayment runs one payment attempt for the given amount.
func (s *Store) ProcessPayment(ctx context.Context, amount decimal.Decimal, opts payment.Options) (payment.Result, error) {
	return s.processor.Process(ctx, amount, opts)
}

// UpdateInventory decrements stock for the given lines, or the current cart
// when lines is nil. All-or-nothing: if any line is invalid no stock is
// touched.
func (s *Store) UpdateInventory(lines []cart.Line) error {
	if lines == nil {
		lines = s.cart.Lines()
	}
	return s.updater.Apply(lines)
}

// CompletePurchase runs the whole flow — search validation, cart add,
// pricing, payment, inventory commit — and returns a confirmation or a
// structured failure. It never returns an error and never panics.
func (s *Store) CompletePurchase(ctx context.Context, req checkout.Request) *checkout.Result {
	return s.orch.CompletePurchase(ctx, req)
}

// Reset restores the catalog to its seed and empties the cart.
func (s *Store) Reset() {
	s.catalog.Reset(s.seed)
	s.cart.Clear()
}

// TaxRate returns the fixed tax rate applied by the pricing engine.
func (s *Store) TaxRate() decimal.Decimal {
	return s.engine.TaxRate()
}

// Coupons returns a copy of the static coupon table.
func (s *Store) Coupons() map[string]pricing.Coupon {
	return s.engine.Coupons()
}

// ShippingOptions returns a copy of the static shipping fee table.
func (s *Store) ShippingOptions() map[string]decimal.Decimal {
	return s.engine.ShippingOptions()
}
