package httpx

import (
	"github.com/jortega/bookshop/internal/cart"
	"github.com/jortega/bookshop/internal/catalog"
	"github.com/jortega/bookshop/internal/checkout"
	"github.com/jortega/bookshop/internal/pricing"
)

type BookResponse struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Price  string `json:"price"`
	Stock  int    `json:"stock"`
}

type CartLineResponse struct {
	BookID    string `json:"book_id"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

type AddCartItemRequest struct {
	BookID   string `json:"book_id"`
	Quantity int    `json:"quantity"`
}

type QuoteRequest struct {
	CouponCode     string `json:"coupon_code,omitempty"`
	ShippingOption string `json:"shipping_option,omitempty"`
}

type BreakdownResponse struct {
	Subtotal       string `json:"subtotal"`
	Discount       string `json:"discount"`
	Shipping       string `json:"shipping"`
	Taxable        string `json:"taxable"`
	Tax            string `json:"tax"`
	Total          string `json:"total"`
	CouponApplied  bool   `json:"coupon_applied"`
	ShippingOption string `json:"shipping_option"`
}

type CheckoutRequest struct {
	Query          string `json:"query"`
	BookID         string `json:"book_id"`
	Quantity       int    `json:"quantity"`
	CouponCode     string `json:"coupon_code,omitempty"`
	ShippingOption string `json:"shipping_option,omitempty"`

	// ForceOutcome pins the simulated payment to success or failure.
	// Useful for manual testing against the dev server.
	ForceOutcome *bool `json:"force_outcome,omitempty"`
}

type LowStockAlertResponse struct {
	BookID    string `json:"book_id"`
	Title     string `json:"title"`
	Remaining int    `json:"remaining"`
}

type CheckoutResponse struct {
	CheckoutID     string                  `json:"checkout_id"`
	Status         string                  `json:"status"`
	Stage          string                  `json:"stage,omitempty"`
	Reason         string                  `json:"reason,omitempty"`
	TransactionID  string                  `json:"transaction_id,omitempty"`
	Breakdown      *BreakdownResponse      `json:"breakdown,omitempty"`
	Items          []CartLineResponse      `json:"items,omitempty"`
	LowStockAlerts []LowStockAlertResponse `json:"low_stock_alerts,omitempty"`
}

type CheckoutStateResponse struct {
	CheckoutID string `json:"checkout_id"`
	Status     string `json:"status"`
	Stage      string `json:"stage,omitempty"`
	Reason     string `json:"reason,omitempty"`
	UpdatedAt  string `json:"updated_at"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func mapBooks(books []catalog.Book) []BookResponse {
	out := make([]BookResponse, len(books))
	for i, b := range books {
		out[i] = BookResponse{
			ID:     b.ID,
			Title:  b.Title,
			Author: b.Author,
			Price:  b.Price.StringFixed(2),
			Stock:  b.Stock,
		}
	}
	return out
}

func mapLines(lines []cart.Line) []CartLineResponse {
	out := make([]CartLineResponse, len(lines))
	for i, l := range lines {
		out[i] = CartLineResponse{
			BookID:    l.BookID,
			Title:     l.Title,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice.StringFixed(2),
		}
	}
	return out
}

func mapBreakdown(bd pricing.Breakdown) *BreakdownResponse {
	return &BreakdownResponse{
		Subtotal:       bd.Subtotal.StringFixed(2),
		Discount:       bd.Discount.StringFixed(2),
		Shipping:       bd.Shipping.StringFixed(2),
		Taxable:        bd.Taxable.StringFixed(2),
		Tax:            bd.Tax.StringFixed(2),
		Total:          bd.Total.StringFixed(2),
		CouponApplied:  bd.CouponApplied,
		ShippingOption: bd.ShippingOption,
	}
}

func mapResult(res *checkout.Result) CheckoutResponse {
	out := CheckoutResponse{
		CheckoutID:    res.CheckoutID,
		Status:        string(res.Status),
		Reason:        res.Reason,
		TransactionID: res.TransactionID,
		Items:         mapLines(res.Items),
	}
	if !res.Confirmed() {
		out.Stage = string(res.Stage)
	}
	if res.Breakdown != nil {
		out.Breakdown = mapBreakdown(*res.Breakdown)
	}
	for _, a := range res.LowStockAlerts {
		out.LowStockAlerts = append(out.LowStockAlerts, LowStockAlertResponse{
			BookID:    a.BookID,
			Title:     a.Title,
			Remaining: a.Remaining,
		})
	}
	return out
}
