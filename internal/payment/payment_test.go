package payment

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var amount = decimal.NewFromFloat(93.50)

func TestSimulator_ForcedOutcomeWins(t *testing.T) {
	s := NewSimulator(DefaultSuccessRate)

	res, err := s.Process(context.Background(), amount, Force(true))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.NotEmpty(t, res.TransactionID)
	assert.Empty(t, res.Reason)

	res, err = s.Process(context.Background(), amount, Force(false))
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Empty(t, res.TransactionID)
	assert.Equal(t, ErrDeclined.Error(), res.Reason)
}

func TestSimulator_RateOneAlwaysSucceeds(t *testing.T) {
	s := NewSimulator(1)

	for i := 0; i < 100; i++ {
		res, err := s.Process(context.Background(), amount, Options{})
		require.NoError(t, err)
		assert.True(t, res.Success)
	}
}

func TestSimulator_InvalidRateFallsBackToDefault(t *testing.T) {
	for _, rate := range []float64{0, -1, 1.5} {
		s := NewSimulator(rate)
		assert.Equal(t, DefaultSuccessRate, s.successRate, "rate %v", rate)
	}
}

func TestSimulator_TransactionIDsAreUnique(t *testing.T) {
	s := NewSimulator(1)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		res, err := s.Process(context.Background(), amount, Options{})
		require.NoError(t, err)
		assert.False(t, seen[res.TransactionID], "duplicate transaction id %s", res.TransactionID)
		seen[res.TransactionID] = true
	}
}

func TestFixed(t *testing.T) {
	t.Run("configured outcome", func(t *testing.T) {
		res, err := Fixed{Succeed: true}.Process(context.Background(), amount, Options{})
		require.NoError(t, err)
		assert.True(t, res.Success)

		res, err = Fixed{Succeed: false}.Process(context.Background(), amount, Options{})
		require.NoError(t, err)
		assert.False(t, res.Success)
	})

	t.Run("override beats configuration", func(t *testing.T) {
		res, err := Fixed{Succeed: true}.Process(context.Background(), amount, Force(false))
		require.NoError(t, err)
		assert.False(t, res.Success)
	})
}
