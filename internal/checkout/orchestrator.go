// Package checkout composes catalog search, cart, pricing, payment, and
// inventory into a single transaction-like purchase flow.
//
// The flow is a fixed stage sequence:
//
//	search_validation → cart_add → price_calc → payment → inventory_commit
//
// A failure at any stage short-circuits to a Failed result carrying a
// human-readable reason and whatever partial context (the breakdown) was
// already computed. Inventory is only touched after the payment succeeds,
// and the cart is cleared only after inventory committed. The orchestrator
// never returns an error or lets a panic escape: every failure mode becomes
// a Result.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jortega/bookshop/internal/cart"
	"github.com/jortega/bookshop/internal/catalog"
	"github.com/jortega/bookshop/internal/checkout/checkoutlog"
	"github.com/jortega/bookshop/internal/inventory"
	"github.com/jortega/bookshop/internal/payment"
	"github.com/jortega/bookshop/internal/pricing"
)

// ErrSearchMismatch is reported when the selected book ID is absent from
// the re-run search results, guarding against stale selections.
var ErrSearchMismatch = errors.New("selected book not in search results")

// Stage names one step of the purchase flow.
type Stage string

const (
	StageSearchValidation Stage = "search_validation"
	StageCartAdd          Stage = "cart_add"
	StagePriceCalc        Stage = "price_calc"
	StagePayment          Stage = "payment"
	StageInventoryCommit  Stage = "inventory_commit"
)

// Status is the terminal outcome of a purchase attempt.
type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusFailed    Status = "FAILED"
)

// Request is the input to CompletePurchase.
type Request struct {
	// Query is re-run against the catalog before anything else; BookID
	// must appear in its results.
	Query    string
	BookID   string
	Quantity int

	CouponCode     string
	ShippingOption string

	// Payment is passed through to the payment processor, including any
	// deterministic outcome override.
	Payment payment.Options
}

// LowStockAlert flags a purchased book left with at most one unit after the
// inventory commit.
type LowStockAlert struct {
	BookID    string
	Title     string
	Remaining int
}

// Result is the outcome of a purchase attempt. On failure, Stage and Reason
// say where and why the flow stopped, and Breakdown is attached when the
// flow got far enough to compute it.
type Result struct {
	CheckoutID     string
	Status         Status
	Stage          Stage
	Reason         string
	TransactionID  string
	Breakdown      *pricing.Breakdown
	Items          []cart.Line
	LowStockAlerts []LowStockAlert
}

// Confirmed reports whether the purchase completed.
func (r *Result) Confirmed() bool {
	return r.Status == StatusConfirmed
}

// Orchestrator runs purchase attempts over one store's collaborators.
// Not safe for concurrent use; one logical session per store.
type Orchestrator struct {
	cat       *catalog.Catalog
	crt       *cart.Cart
	engine    *pricing.Engine
	processor payment.Processor
	updater   *inventory.Updater

	// log may be nil — state transitions are then not persisted.
	log checkoutlog.Repository
}

// NewOrchestrator wires the purchase flow. repo may be nil.
func NewOrchestrator(
	cat *catalog.Catalog,
	crt *cart.Cart,
	engine *pricing.Engine,
	processor payment.Processor,
	repo checkoutlog.Repository,
) *Orchestrator {
	return &Orchestrator{
		cat:       cat,
		crt:       crt,
		engine:    engine,
		processor: processor,
		updater:   inventory.NewUpdater(cat),
		log:       repo,
	}
}

// CompletePurchase runs the full flow for one book selection. It always
// returns a Result and never panics: any panic inside a stage is recovered
// and converted into a Failed result carrying its message.
func (o *Orchestrator) CompletePurchase(ctx context.Context, req Request) (res *Result) {
	res = &Result{
		CheckoutID: uuid.NewString(),
		Status:     StatusFailed,
	}

	defer func() {
		if r := recover(); r != nil {
			res.Status = StatusFailed
			res.Reason = fmt.Sprintf("checkout aborted: %v", r)
			slog.ErrorContext(ctx, "checkout panic recovered",
				"checkout_id", res.CheckoutID, "panic", r)
			o.record(ctx, res.CheckoutID, checkoutlog.StatusFailed, res.Stage, res.Reason)
		}
	}()

	o.record(ctx, res.CheckoutID, checkoutlog.StatusStarted, "", "")

	// ── search_validation ───────────────────────────────────────────────
	res.Stage = StageSearchValidation
	book, err := o.validateSelection(req.Query, req.BookID)
	if err != nil {
		return o.fail(ctx, res, err)
	}
	o.stageDone(ctx, res)

	// ── cart_add ────────────────────────────────────────────────────────
	res.Stage = StageCartAdd
	if _, err := o.crt.Add(book, req.Quantity); err != nil {
		return o.fail(ctx, res, err)
	}
	o.stageDone(ctx, res)

	// ── price_calc ──────────────────────────────────────────────────────
	res.Stage = StagePriceCalc
	bd := o.engine.Quote(o.crt.Lines(), pricing.Options{
		CouponCode:     req.CouponCode,
		ShippingOption: req.ShippingOption,
	})
	res.Breakdown = &bd
	o.stageDone(ctx, res)

	// ── payment ─────────────────────────────────────────────────────────
	res.Stage = StagePayment
	pay, err := o.processor.Process(ctx, bd.Total, req.Payment)
	if err != nil {
		return o.fail(ctx, res, fmt.Errorf("payment processor: %w", err))
	}
	if !pay.Success {
		// Business decline: no inventory change, cart keeps its contents.
		reason := payment.ErrDeclined
		if pay.Reason != "" && pay.Reason != reason.Error() {
			return o.fail(ctx, res, fmt.Errorf("%s: %w", pay.Reason, reason))
		}
		return o.fail(ctx, res, reason)
	}
	res.TransactionID = pay.TransactionID
	o.stageDone(ctx, res)

	// ── inventory_commit ────────────────────────────────────────────────
	res.Stage = StageInventoryCommit
	purchased := o.crt.Lines()
	if err := o.updater.Apply(purchased); err != nil {
		return o.fail(ctx, res, err)
	}

	res.Items = purchased
	res.LowStockAlerts = o.lowStockAlerts(purchased)
	o.crt.Clear()
	res.Status = StatusConfirmed
	o.stageDone(ctx, res)

	slog.InfoContext(ctx, "checkout confirmed",
		"checkout_id", res.CheckoutID,
		"transaction_id", res.TransactionID,
		"total", bd.Total.String(),
	)
	o.record(ctx, res.CheckoutID, checkoutlog.StatusCompleted, res.Stage, "")
	return res
}

// validateSelection re-runs the search and checks the selected book is
// still among the results.
func (o *Orchestrator) validateSelection(query, bookID string) (catalog.Book, error) {
	results := o.cat.Search(query)
	if len(results) == 0 {
		return catalog.Book{}, fmt.Errorf("no results for %q: %w", query, ErrSearchMismatch)
	}
	for _, b := range results {
		if b.ID == bookID {
			return b, nil
		}
	}
	return catalog.Book{}, fmt.Errorf("book %q not in results for %q: %w", bookID, query, ErrSearchMismatch)
}

// lowStockAlerts flags purchased books left with at most one unit,
// evaluated after the inventory commit.
func (o *Orchestrator) lowStockAlerts(purchased []cart.Line) []LowStockAlert {
	var alerts []LowStockAlert
	for _, l := range purchased {
		b, err := o.cat.Get(l.BookID)
		if err != nil {
			continue
		}
		if b.Stock <= 1 {
			alerts = append(alerts, LowStockAlert{
				BookID:    b.ID,
				Title:     b.Title,
				Remaining: b.Stock,
			})
		}
	}
	return alerts
}

func (o *Orchestrator) fail(ctx context.Context, res *Result, err error) *Result {
	res.Status = StatusFailed
	res.Reason = err.Error()
	slog.WarnContext(ctx, "checkout failed",
		"checkout_id", res.CheckoutID, "stage", string(res.Stage), "reason", res.Reason)
	o.record(ctx, res.CheckoutID, checkoutlog.StatusFailed, res.Stage, res.Reason)
	return res
}

func (o *Orchestrator) stageDone(ctx context.Context, res *Result) {
	slog.InfoContext(ctx, "checkout stage done",
		"checkout_id", res.CheckoutID, "stage", string(res.Stage))
	o.record(ctx, res.CheckoutID, checkoutlog.StatusStageDone, res.Stage, "")
}

func (o *Orchestrator) record(ctx context.Context, checkoutID string, status checkoutlog.Status, stage Stage, reason string) {
	if o.log == nil {
		return
	}
	entry := checkoutlog.NewEntry(ctx, checkoutID, status, string(stage), reason)
	if err := o.log.Save(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "failed to save checkout log entry",
			"checkout_id", checkoutID, "error", err)
	}
}
