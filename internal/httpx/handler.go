// Package httpx exposes the bookshop store over a JSON API. It is a thin
// dev-facing surface; the module's primary interface is the bookshop
// package itself.
package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jortega/bookshop"
	"github.com/jortega/bookshop/internal/cart"
	"github.com/jortega/bookshop/internal/catalog"
	"github.com/jortega/bookshop/internal/checkout"
	"github.com/jortega/bookshop/internal/checkout/checkoutlog"
	"github.com/jortega/bookshop/internal/payment"
	"github.com/jortega/bookshop/internal/pricing"
)

// Handler handles incoming HTTP requests against a single store session.
type Handler struct {
	store *bookshop.Store

	// logs serves the checkout state endpoint. nil-safe: the endpoint
	// returns 404 if no log reader is configured.
	logs checkoutlog.Reader
}

// NewHandler initializes the handler. logs may be nil.
func NewHandler(store *bookshop.Store, logs checkoutlog.Reader) *Handler {
	return &Handler{store: store, logs: logs}
}

// ListBooks returns the catalog filtered by the optional ?q= query.
func (h *Handler) ListBooks(w http.ResponseWriter, r *http.Request) {
	books := h.store.Search(r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, mapBooks(books))
}

// GetCart returns the current cart snapshot.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, mapLines(h.store.Cart()))
}

// AddCartItem adds a quantity of one book to the cart.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.BookID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "book_id is required")
		return
	}

	lines, err := h.store.AddToCart(req.BookID, req.Quantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	slog.InfoContext(r.Context(), "cart item added",
		"book_id", req.BookID, "quantity", req.Quantity)
	writeJSON(w, http.StatusOK, mapLines(lines))
}

// RemoveCartItem removes a line, or part of it via the optional ?qty= param.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "bookID")
	qty := 0
	if q := r.URL.Query().Get("qty"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "qty must be an integer")
			return
		}
		qty = n
	}
	writeJSON(w, http.StatusOK, mapLines(h.store.RemoveFromCart(bookID, qty)))
}

// Quote prices the current cart with the supplied coupon/shipping options.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	bd := h.store.CalculateTotal(nil, pricing.Options{
		CouponCode:     req.CouponCode,
		ShippingOption: req.ShippingOption,
	})
	writeJSON(w, http.StatusOK, mapBreakdown(bd))
}

// Checkout runs the full purchase flow for one book selection.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.BookID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "book_id is required")
		return
	}

	res := h.store.CompletePurchase(r.Context(), checkout.Request{
		Query:          req.Query,
		BookID:         req.BookID,
		Quantity:       req.Quantity,
		CouponCode:     req.CouponCode,
		ShippingOption: req.ShippingOption,
		Payment:        payment.Options{Outcome: req.ForceOutcome},
	})

	status := http.StatusOK
	if !res.Confirmed() {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, mapResult(res))
}

// GetCheckout returns the latest recorded state of a checkout attempt.
func (h *Handler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	if h.logs == nil {
		writeError(w, http.StatusNotFound, "checkout_log_disabled", "")
		return
	}

	id := chi.URLParam(r, "id")
	entry, err := h.logs.Latest(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "checkout_not_found", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, CheckoutStateResponse{
		CheckoutID: entry.CheckoutID,
		Status:     string(entry.Status),
		Stage:      entry.Stage,
		Reason:     entry.Reason,
		UpdatedAt:  entry.UpdatedAt.Format(time.RFC3339Nano),
	})
}

// Reset reseeds the catalog and empties the cart.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.store.Reset()
	slog.InfoContext(r.Context(), "store reset")
	w.WriteHeader(http.StatusNoContent)
}

// writeDomainError maps the module's sentinel errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "book_not_found", err.Error())
	case errors.Is(err, cart.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
	case errors.Is(err, catalog.ErrOutOfStock):
		writeError(w, http.StatusConflict, "out_of_stock", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
