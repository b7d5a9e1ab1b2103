package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jortega/bookshop/internal/cart"
	"github.com/jortega/bookshop/internal/catalog"
)

func newCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Book{
		{ID: "bk-1", Title: "A", Price: decimal.NewFromInt(30), Stock: 5},
		{ID: "bk-2", Title: "B", Price: decimal.NewFromInt(40), Stock: 2},
	})
}

func stock(t *testing.T, cat *catalog.Catalog, id string) int {
	t.Helper()
	b, err := cat.Get(id)
	require.NoError(t, err)
	return b.Stock
}

func TestApply_DecrementsEveryLine(t *testing.T) {
	cat := newCatalog()
	u := NewUpdater(cat)

	err := u.Apply([]cart.Line{
		{BookID: "bk-1", Quantity: 3},
		{BookID: "bk-2", Quantity: 2},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, stock(t, cat, "bk-1"))
	assert.Equal(t, 0, stock(t, cat, "bk-2"))
}

func TestApply_AllOrNothing(t *testing.T) {
	tests := []struct {
		name    string
		bad     cart.Line
		wantErr error
	}{
		{
			name:    "unknown book among valid lines",
			bad:     cart.Line{BookID: "bk-999", Quantity: 1},
			wantErr: catalog.ErrNotFound,
		},
		{
			name:    "insufficient stock among valid lines",
			bad:     cart.Line{BookID: "bk-2", Quantity: 3},
			wantErr: catalog.ErrOutOfStock,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cat := newCatalog()
			u := NewUpdater(cat)

			// The valid line comes first so a non-atomic implementation
			// would decrement it before hitting the bad one.
			err := u.Apply([]cart.Line{
				{BookID: "bk-1", Quantity: 2},
				tc.bad,
			})

			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, 5, stock(t, cat, "bk-1"), "valid line must not be committed")
			assert.Equal(t, 2, stock(t, cat, "bk-2"))
		})
	}
}

func TestApply_EmptyLinesIsNoOp(t *testing.T) {
	cat := newCatalog()
	u := NewUpdater(cat)

	require.NoError(t, u.Apply(nil))
	assert.Equal(t, 5, stock(t, cat, "bk-1"))
}
