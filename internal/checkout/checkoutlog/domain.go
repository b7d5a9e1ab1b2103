// Package checkoutlog defines the audit trail for checkout executions.
//
// Each purchase attempt appends one entry per state transition, so the log
// answers "where is (or was) checkout X, and why did it stop there" without
// re-running anything. The store itself stays in-memory; the log is an
// optional observability sink and every writer is nil-safe about it.
package checkoutlog

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// Status is the lifecycle state recorded by an entry.
type Status string

const (
	StatusStarted   Status = "STARTED"
	StatusStageDone Status = "STAGE_DONE"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// Entry is a single, immutable audit record for one checkout transition.
type Entry struct {
	// CheckoutID identifies the purchase attempt; all entries of one
	// attempt share it.
	CheckoutID string

	// Status is the lifecycle state at the time this entry was written.
	Status Status

	// Stage names the orchestrator stage that just finished or failed.
	// Empty on the STARTED entry.
	Stage string

	// Reason carries the human-readable failure reason on FAILED entries.
	Reason string

	// RequestID is the HTTP request ID active when the entry was written,
	// so a log row can be joined with the server access log. Empty when
	// the library is used directly.
	RequestID string

	// UpdatedAt is the wall-clock time of the transition.
	UpdatedAt time.Time
}

// Repository is the port for persisting entries. The table is append-only:
// each Save adds a row, never upserts.
type Repository interface {
	Save(ctx context.Context, entry *Entry) error
}

// Reader is the port for querying the most recent state of a checkout.
type Reader interface {
	Latest(ctx context.Context, checkoutID string) (*Entry, error)
}

// NewEntry builds an entry stamped with the current time and the request ID
// carried in ctx, if any.
func NewEntry(ctx context.Context, checkoutID string, status Status, stage, reason string) *Entry {
	return &Entry{
		CheckoutID: checkoutID,
		Status:     status,
		Stage:      stage,
		Reason:     reason,
		RequestID:  middleware.GetReqID(ctx),
		UpdatedAt:  time.Now().UTC(),
	}
}
