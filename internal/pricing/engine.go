// Package pricing computes the monetary breakdown for a cart snapshot:
// subtotal, coupon discount, shipping fee, tax, and total.
//
// Order of operations is load-bearing: subtotal → discount → shipping →
// tax → total, with discount, tax, and total each rounded to two decimal
// places at its own step. The discount is always computed from the raw
// subtotal, never from a rounded intermediate; changing this shifts totals
// by cents.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jortega/bookshop/internal/cart"
)

// CouponType discriminates how a coupon's value is applied.
type CouponType string

const (
	// CouponPercent discounts a percentage of the raw subtotal.
	CouponPercent CouponType = "percent"
	// CouponFlat discounts a flat amount, capped at the subtotal.
	CouponFlat CouponType = "flat"
)

// Coupon is a named, static discount rule.
type Coupon struct {
	Code  string
	Type  CouponType
	Value decimal.Decimal
}

// DefaultShippingOption is used when the requested option is unknown.
const DefaultShippingOption = "standard"

// Options selects the coupon and shipping option for a quote. Both are
// optional; an empty or unknown coupon code yields no discount and an
// unknown shipping option falls back to DefaultShippingOption.
type Options struct {
	CouponCode     string
	ShippingOption string
}

// Breakdown is the derived pricing result for a cart snapshot. All amounts
// are rounded to two decimal places.
type Breakdown struct {
	Subtotal       decimal.Decimal
	Discount       decimal.Decimal
	Shipping       decimal.Decimal
	Taxable        decimal.Decimal
	Tax            decimal.Decimal
	Total          decimal.Decimal
	CouponApplied  bool
	ShippingOption string
}

// Engine prices cart snapshots against static coupon and shipping tables
// and a fixed tax rate. Quote is a pure function of its inputs.
type Engine struct {
	coupons  map[string]Coupon
	shipping map[string]decimal.Decimal
	taxRate  decimal.Decimal
}

// NewEngine returns an engine with the default coupon table, shipping fee
// table, and a 10% tax rate.
func NewEngine() *Engine {
	return &Engine{
		coupons: map[string]Coupon{
			"WELCOME10": {Code: "WELCOME10", Type: CouponPercent, Value: decimal.NewFromInt(10)},
			"FLAT5":     {Code: "FLAT5", Type: CouponFlat, Value: decimal.NewFromInt(5)},
		},
		shipping: map[string]decimal.Decimal{
			"standard": decimal.NewFromInt(5),
			"express":  decimal.NewFromInt(15),
			"pickup":   decimal.Zero,
		},
		taxRate: decimal.NewFromFloat(0.10),
	}
}

// Quote computes the breakdown for the given lines.
func (e *Engine) Quote(lines []cart.Line, opts Options) Breakdown {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Subtotal())
	}

	discount, applied := e.discount(subtotal, opts.CouponCode)

	option := opts.ShippingOption
	fee, ok := e.shipping[option]
	if !ok {
		option = DefaultShippingOption
		fee = e.shipping[option]
	}

	taxable := subtotal.Sub(discount)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	taxable = taxable.Add(fee)

	tax := taxable.Mul(e.taxRate).Round(2)

	return Breakdown{
		Subtotal:       subtotal,
		Discount:       discount,
		Shipping:       fee,
		Taxable:        taxable,
		Tax:            tax,
		Total:          taxable.Add(tax).Round(2),
		CouponApplied:  applied,
		ShippingOption: option,
	}
}

// discount resolves the coupon code against the raw subtotal. Unknown or
// empty codes yield a zero discount with applied=false.
func (e *Engine) discount(subtotal decimal.Decimal, code string) (decimal.Decimal, bool) {
	cp, ok := e.coupons[code]
	if !ok {
		return decimal.Zero, false
	}
	switch cp.Type {
	case CouponPercent:
		// decimal.Round is round-half-away-from-zero, which is the
		// rounding rule for every monetary step here.
		return subtotal.Mul(cp.Value).Div(decimal.NewFromInt(100)).Round(2), true
	case CouponFlat:
		if cp.Value.GreaterThan(subtotal) {
			return subtotal, true
		}
		return cp.Value, true
	}
	return decimal.Zero, false
}

// TaxRate returns the fixed tax rate.
func (e *Engine) TaxRate() decimal.Decimal {
	return e.taxRate
}

// Coupons returns a copy of the coupon table.
func (e *Engine) Coupons() map[string]Coupon {
	out := make(map[string]Coupon, len(e.coupons))
	for k, v := range e.coupons {
		out[k] = v
	}
	return out
}

// ShippingOptions returns a copy of the shipping fee table.
func (e *Engine) ShippingOptions() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(e.shipping))
	for k, v := range e.shipping {
		out[k] = v
	}
	return out
}
