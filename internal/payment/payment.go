// Package payment defines the payment processing port and two
// implementations: a probabilistic simulator for normal operation and a
// fixed-outcome processor for tests and forced modes.
package payment

import (
	"context"
	"errors"
	"math/rand"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrDeclined is the business reason reported when the simulated gateway
// declines a charge. It is carried in Result.Reason, not returned as an
// error: a decline is a valid outcome, not a transport failure.
var ErrDeclined = errors.New("payment declined")

// Result is the outcome of a payment attempt. TransactionID is set only on
// success; Reason only on decline.
type Result struct {
	Success       bool
	TransactionID string
	Reason        string
}

// Options carries per-attempt settings. Outcome, when non-nil, forces the
// attempt to succeed or fail deterministically, bypassing randomness.
type Options struct {
	Outcome *bool
}

// Force returns Options that pin the attempt to the given outcome.
func Force(success bool) Options {
	return Options{Outcome: &success}
}

// Processor is the port for charging a payment. Implementations must be
// free of side effects beyond producing a Result.
type Processor interface {
	Process(ctx context.Context, amount decimal.Decimal, opts Options) (Result, error)
}

// DefaultSuccessRate is the simulator's success probability when none is
// configured.
const DefaultSuccessRate = 0.9

// Simulator approves charges with a fixed probability using
// non-cryptographic randomness. An Options.Outcome override always wins.
type Simulator struct {
	successRate float64
}

var _ Processor = (*Simulator)(nil)

// NewSimulator builds a simulator with the given success probability.
// Rates outside (0, 1] fall back to DefaultSuccessRate.
func NewSimulator(successRate float64) *Simulator {
	if successRate <= 0 || successRate > 1 {
		successRate = DefaultSuccessRate
	}
	return &Simulator{successRate: successRate}
}

func (s *Simulator) Process(_ context.Context, _ decimal.Decimal, opts Options) (Result, error) {
	if opts.Outcome != nil {
		return outcome(*opts.Outcome), nil
	}
	return outcome(rand.Float64() < s.successRate), nil
}

// Fixed is a Processor that always produces the configured outcome.
// Intended for tests that need the purchase flow to be deterministic.
type Fixed struct {
	Succeed bool
}

var _ Processor = Fixed{}

func (f Fixed) Process(_ context.Context, _ decimal.Decimal, opts Options) (Result, error) {
	if opts.Outcome != nil {
		return outcome(*opts.Outcome), nil
	}
	return outcome(f.Succeed), nil
}

func outcome(success bool) Result {
	if !success {
		return Result{Reason: ErrDeclined.Error()}
	}
	return Result{Success: true, TransactionID: uuid.NewString()}
}
