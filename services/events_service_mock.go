package services

import (
	"sync"

	"github.com/chiyadani/chiyadani-api/models"
)

// MockOrderEvents is a mock implementation of OrderEvents for testing
type MockOrderEvents struct {
	mu             sync.Mutex
	Created        []string // order numbers, in publish order
	StatusChanges  []string // "number:previous->next"
	FailNextCreate bool
}

// NewMockOrderEvents creates a new mock order event sink
func NewMockOrderEvents() *MockOrderEvents {
	return &MockOrderEvents{}
}

// SetAsMockForTesting sets this mock as the global order event sink
func (m *MockOrderEvents) SetAsMockForTesting() {
	SetOrderEvents(m)
}

// OrderCreated records the event
func (m *MockOrderEvents) OrderCreated(order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailNextCreate {
		m.FailNextCreate = false
		return &OrderError{Code: "PUBLISH_FAILED", Message: "mock publish failure"}
	}
	m.Created = append(m.Created, order.Number)
	return nil
}

// OrderStatusChanged records the event
func (m *MockOrderEvents) OrderStatusChanged(order *models.Order, previous models.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StatusChanges = append(m.StatusChanges, order.Number+":"+string(previous)+"->"+order.Status)
	return nil
}

// CreatedCount returns how many order.created events were recorded
func (m *MockOrderEvents) CreatedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Created)
}
