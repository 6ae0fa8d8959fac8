package mqtt

import (
	"fmt"
	"sync"

	coremqtt "github.com/kilianp07/brigade/core/mqtt"
)

// MockNotifier records tickets in memory. It is used in tests and when the
// broker is disabled but tickets should still be inspectable.
type MockNotifier struct {
	mu       sync.Mutex
	Tickets  []coremqtt.Ticket
	FailDish map[string]bool
}

// NewMockNotifier creates a new MockNotifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{FailDish: make(map[string]bool)}
}

// NotifyPrepared stores the ticket or fails for dishes listed in FailDish.
func (m *MockNotifier) NotifyPrepared(t coremqtt.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailDish[t.Dish] {
		return fmt.Errorf("publish failed for %s", t.Dish)
	}
	m.Tickets = append(m.Tickets, t)
	return nil
}

// Dishes returns the dish names of the recorded tickets in order.
func (m *MockNotifier) Dishes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Tickets))
	for i, t := range m.Tickets {
		out[i] = t.Dish
	}
	return out
}
