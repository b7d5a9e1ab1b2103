package bookshop

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jortega/bookshop/internal/cart"
	"github.com/jortega/bookshop/internal/catalog"
	"github.com/jortega/bookshop/internal/checkout"
	"github.com/jortega/bookshop/internal/payment"
	"github.com/jortega/bookshop/internal/pricing"
)

func testStore(processor payment.Processor) *Store {
	return New(Config{
		Seed: []catalog.Book{
			{ID: "bk-1", Title: "The Go Programming Language", Author: "Alan Donovan", Price: decimal.NewFromInt(35), Stock: 1},
			{ID: "bk-2", Title: "Designing Data-Intensive Applications", Author: "Martin Kleppmann", Price: decimal.NewFromInt(40), Stock: 1},
		},
		Processor: processor,
	})
}

func TestStore_ZeroConfigUsesDefaults(t *testing.T) {
	s := New(Config{})

	assert.Len(t, s.Books(), len(DefaultSeed()))
	assert.True(t, s.TaxRate().Equal(decimal.NewFromFloat(0.10)))
	assert.Contains(t, s.Coupons(), "FLAT5")
	assert.Contains(t, s.ShippingOptions(), "express")
}

func TestStore_AddToCartUnknownBook(t *testing.T) {
	s := testStore(payment.Fixed{Succeed: true})

	_, err := s.AddToCart("bk-999", 1)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestStore_AddToCartInvalidQuantityWinsOverLookup(t *testing.T) {
	s := testStore(payment.Fixed{Succeed: true})

	// A non-positive quantity is reported even when the book is unknown.
	_, err := s.AddToCart("bk-999", 0)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
}

func TestStore_CalculateTotalDefaultsToCurrentCart(t *testing.T) {
	s := testStore(payment.Fixed{Succeed: true})

	_, err := s.AddToCart("bk-1", 1)
	require.NoError(t, err)
	_, err = s.AddToCart("bk-2", 1)
	require.NoError(t, err)

	// The worked example: 35 + 40, FLAT5, express.
	bd := s.CalculateTotal(nil, pricing.Options{CouponCode: "FLAT5", ShippingOption: "express"})
	assert.True(t, bd.Subtotal.Equal(decimal.NewFromInt(75)), "subtotal %s", bd.Subtotal)
	assert.True(t, bd.Discount.Equal(decimal.NewFromInt(5)), "discount %s", bd.Discount)
	assert.True(t, bd.Tax.Equal(decimal.NewFromFloat(8.5)), "tax %s", bd.Tax)
	assert.True(t, bd.Total.Equal(decimal.NewFromFloat(93.5)), "total %s", bd.Total)

	// Explicit lines take precedence over the current cart.
	bd = s.CalculateTotal([]cart.Line{{BookID: "bk-1", Quantity: 1, UnitPrice: decimal.NewFromInt(30)}},
		pricing.Options{ShippingOption: "pickup"})
	assert.True(t, bd.Total.Equal(decimal.NewFromInt(33)), "total %s", bd.Total)
}

func TestStore_ProcessPayment(t *testing.T) {
	s := testStore(payment.Fixed{Succeed: true})

	res, err := s.ProcessPayment(context.Background(), decimal.NewFromInt(50), payment.Options{})
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestStore_UpdateInventoryUsesCurrentCart(t *testing.T) {
	s := testStore(payment.Fixed{Succeed: true})

	_, err := s.AddToCart("bk-1", 1)
	require.NoError(t, err)

	require.NoError(t, s.UpdateInventory(nil))

	b, err := s.catalog.Get("bk-1")
	require.NoError(t, err)
	assert.Equal(t, 0, b.Stock)
}

func TestStore_CompletePurchaseEndToEnd(t *testing.T) {
	s := testStore(payment.Fixed{Succeed: true})

	res := s.CompletePurchase(context.Background(), checkout.Request{
		Query:          "data-intensive",
		BookID:         "bk-2",
		Quantity:       1,
		ShippingOption: "pickup",
	})

	require.True(t, res.Confirmed(), "reason: %s", res.Reason)
	assert.Empty(t, s.Cart())

	// Stock 1 → 0: the purchased book must appear in the low-stock alerts.
	require.Len(t, res.LowStockAlerts, 1)
	assert.Equal(t, "bk-2", res.LowStockAlerts[0].BookID)
	assert.Equal(t, 0, res.LowStockAlerts[0].Remaining)
}

func TestStore_RemoveFromCartAndClear(t *testing.T) {
	s := testStore(payment.Fixed{Succeed: true})

	_, err := s.AddToCart("bk-1", 1)
	require.NoError(t, err)
	_, err = s.AddToCart("bk-2", 1)
	require.NoError(t, err)

	lines := s.RemoveFromCart("bk-1", 0)
	require.Len(t, lines, 1)
	assert.Equal(t, "bk-2", lines[0].BookID)

	s.ClearCart()
	assert.Empty(t, s.Cart())
}

func TestStore_ResetRestoresSeedAndEmptiesCart(t *testing.T) {
	s := testStore(payment.Fixed{Succeed: true})

	res := s.CompletePurchase(context.Background(), checkout.Request{
		Query:    "go",
		BookID:   "bk-1",
		Quantity: 1,
	})
	require.True(t, res.Confirmed(), "reason: %s", res.Reason)

	_, err := s.AddToCart("bk-2", 1)
	require.NoError(t, err)

	s.Reset()

	assert.Empty(t, s.Cart())
	for _, b := range s.Books() {
		assert.Equal(t, 1, b.Stock, "book %s", b.ID)
	}
}

func TestStore_InstancesAreIsolated(t *testing.T) {
	a := testStore(payment.Fixed{Succeed: true})
	b := testStore(payment.Fixed{Succeed: true})

	_, err := a.AddToCart("bk-1", 1)
	require.NoError(t, err)

	assert.Empty(t, b.Cart())
}
