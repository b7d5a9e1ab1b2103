package checkoutlog

import (
	"context"
	"fmt"
	"sync"
)

// MemoryRepository keeps entries in a slice. It is the default sink when no
// database is configured and the one tests assert against.
type MemoryRepository struct {
	mu      sync.Mutex
	entries []Entry
}

var (
	_ Repository = (*MemoryRepository)(nil)
	_ Reader     = (*MemoryRepository)(nil)
)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) Save(_ context.Context, entry *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *entry)
	return nil
}

// Latest returns the most recently appended entry for the given checkout.
func (m *MemoryRepository) Latest(_ context.Context, checkoutID string) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].CheckoutID == checkoutID {
			e := m.entries[i]
			return &e, nil
		}
	}
	return nil, fmt.Errorf("checkout %q not found", checkoutID)
}

// Entries returns every entry for the given checkout in append order.
func (m *MemoryRepository) Entries(checkoutID string) []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Entry
	for _, e := range m.entries {
		if e.CheckoutID == checkoutID {
			out = append(out, e)
		}
	}
	return out
}
