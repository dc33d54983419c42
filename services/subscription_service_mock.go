package services

import (
	"sync"
	"time"
)

// MockSubscriptionService is a mock implementation of SubscriptionInterface
// for testing. Its verdict is set directly by the test.
type MockSubscriptionService struct {
	mu        sync.RWMutex
	status    SubscriptionStatus
	Refreshes int
}

// NewMockSubscriptionService creates a mock starting in the valid state
func NewMockSubscriptionService() *MockSubscriptionService {
	return &MockSubscriptionService{
		status: SubscriptionStatus{State: StateValid, CheckedAt: time.Now()},
	}
}

// SetAsMockForTesting sets this mock as the global subscription checker
func (m *MockSubscriptionService) SetAsMockForTesting() {
	SetSubscriptionService(m)
}

// SetStatus sets the verdict returned by Status
func (m *MockSubscriptionService) SetStatus(status SubscriptionStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
}

// Status returns the configured verdict
func (m *MockSubscriptionService) Status() SubscriptionStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Refresh counts the refresh and flips the mock back to valid
func (m *MockSubscriptionService) Refresh() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Refreshes++
	m.status = SubscriptionStatus{State: StateValid, CheckedAt: time.Now()}
}
