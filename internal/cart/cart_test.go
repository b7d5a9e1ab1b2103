package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jortega/bookshop/internal/catalog"
)

func testBook(id string, price int64, stock int) catalog.Book {
	return catalog.Book{
		ID:    id,
		Title: "Book " + id,
		Price: decimal.NewFromInt(price),
		Stock: stock,
	}
}

func TestAdd_RejectsNonPositiveQuantity(t *testing.T) {
	c := New()
	b := testBook("bk-1", 30, 5)

	for _, qty := range []int{0, -1, -10} {
		_, err := c.Add(b, qty)
		assert.ErrorIs(t, err, ErrInvalidQuantity, "qty %d", qty)
	}
	assert.Empty(t, c.Lines())
}

func TestAdd_MergesRepeatAdds(t *testing.T) {
	c := New()
	b := testBook("bk-1", 30, 5)

	_, err := c.Add(b, 2)
	require.NoError(t, err)
	lines, err := c.Add(b, 1)
	require.NoError(t, err)

	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestAdd_MergedQuantityCappedByStock(t *testing.T) {
	c := New()
	b := testBook("bk-1", 30, 3)

	_, err := c.Add(b, 2)
	require.NoError(t, err)

	_, err = c.Add(b, 2)
	assert.ErrorIs(t, err, catalog.ErrOutOfStock)

	// The failed add must not change the existing line.
	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestAdd_CapturesUnitPriceAtAddTime(t *testing.T) {
	c := New()
	b := testBook("bk-1", 30, 5)

	_, err := c.Add(b, 1)
	require.NoError(t, err)

	// A later catalog price change does not affect the captured price.
	b.Price = decimal.NewFromInt(99)
	lines, err := c.Add(b, 1)
	require.NoError(t, err)

	assert.True(t, lines[0].UnitPrice.Equal(decimal.NewFromInt(30)),
		"unit price %s should stay at add-time value", lines[0].UnitPrice)
}

func TestAdd_PreservesInsertionOrder(t *testing.T) {
	c := New()
	_, err := c.Add(testBook("bk-2", 40, 5), 1)
	require.NoError(t, err)
	_, err = c.Add(testBook("bk-1", 30, 5), 1)
	require.NoError(t, err)

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "bk-2", lines[0].BookID)
	assert.Equal(t, "bk-1", lines[1].BookID)
}

func TestLines_ReturnsSnapshot(t *testing.T) {
	c := New()
	_, err := c.Add(testBook("bk-1", 30, 5), 1)
	require.NoError(t, err)

	lines := c.Lines()
	lines[0].Quantity = 99

	assert.Equal(t, 1, c.Lines()[0].Quantity)
}

func TestRemove(t *testing.T) {
	setup := func(t *testing.T) *Cart {
		c := New()
		_, err := c.Add(testBook("bk-1", 30, 5), 3)
		require.NoError(t, err)
		return c
	}

	t.Run("partial decrement", func(t *testing.T) {
		c := setup(t)
		lines := c.Remove("bk-1", 1)
		require.Len(t, lines, 1)
		assert.Equal(t, 2, lines[0].Quantity)
	})

	t.Run("zero qty drops line", func(t *testing.T) {
		c := setup(t)
		assert.Empty(t, c.Remove("bk-1", 0))
	})

	t.Run("decrement to zero drops line", func(t *testing.T) {
		c := setup(t)
		assert.Empty(t, c.Remove("bk-1", 3))
	})

	t.Run("unknown book is a no-op", func(t *testing.T) {
		c := setup(t)
		assert.Len(t, c.Remove("bk-999", 1), 1)
	})
}

func TestClear(t *testing.T) {
	c := New()
	_, err := c.Add(testBook("bk-1", 30, 5), 1)
	require.NoError(t, err)

	c.Clear()
	assert.Empty(t, c.Lines())
}

func TestLineSubtotal(t *testing.T) {
	l := Line{Quantity: 3, UnitPrice: decimal.NewFromFloat(9.99)}
	assert.True(t, l.Subtotal().Equal(decimal.NewFromFloat(29.97)))
}
