package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/chiyadani/chiyadani-api/config"
)

// SubscriptionState is the verdict of the subscription gate
type SubscriptionState string

const (
	// StateLoading means a check is in flight and no verdict exists yet
	StateLoading SubscriptionState = "loading"
	// StateValid means the subscription is valid and the app may run
	StateValid SubscriptionState = "valid"
	// StateInvalid means the subscription is invalid; the app is locked
	StateInvalid SubscriptionState = "invalid"
)

// SubscriptionStatus is the current gate verdict plus display details
type SubscriptionStatus struct {
	State     SubscriptionState `json:"state"`
	Message   string            `json:"message,omitempty"`
	Warning   bool              `json:"warning,omitempty"` // valid but approaching expiry
	ExpiresAt *time.Time        `json:"expires_at,omitempty"`
	CheckedAt time.Time         `json:"checked_at"`
}

// SubscriptionInterface is the access-guard collaborator consulted by
// middleware on every request
type SubscriptionInterface interface {
	Status() SubscriptionStatus
	Refresh()
}

// licenseResponse is the license server's reply
type licenseResponse struct {
	Valid     bool       `json:"valid"`
	Message   string     `json:"message"`
	Warning   bool       `json:"warning"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// SubscriptionService checks subscription validity against a license server.
// Each check moves the state Loading -> Valid or Loading -> Invalid exactly
// once; Refresh re-enters Loading and runs a new check.
type SubscriptionService struct {
	mu     sync.RWMutex
	status SubscriptionStatus
	client *http.Client
	url    string
	key    string
}

// NewSubscriptionService creates a checker against the given license server.
// An empty URL grants a permanent development verdict of valid.
func NewSubscriptionService(url, key string) *SubscriptionService {
	s := &SubscriptionService{
		client: &http.Client{Timeout: 10 * time.Second},
		url:    url,
		key:    key,
		status: SubscriptionStatus{State: StateLoading},
	}
	return s
}

// Status returns the current verdict
func (s *SubscriptionService) Status() SubscriptionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Refresh re-enters Loading and starts a new check in the background
func (s *SubscriptionService) Refresh() {
	s.mu.Lock()
	s.status = SubscriptionStatus{State: StateLoading}
	s.mu.Unlock()
	go s.CheckNow()
}

// CheckNow performs one synchronous check and records the verdict
func (s *SubscriptionService) CheckNow() {
	verdict := s.check()
	s.mu.Lock()
	s.status = verdict
	s.mu.Unlock()
}

func (s *SubscriptionService) check() SubscriptionStatus {
	now := time.Now()
	if s.url == "" {
		// No license server configured; development installs run unlocked
		return SubscriptionStatus{State: StateValid, CheckedAt: now}
	}

	req, err := http.NewRequest(http.MethodGet, s.url, nil)
	if err != nil {
		return SubscriptionStatus{State: StateInvalid, Message: "Subscription check failed", CheckedAt: now}
	}
	req.Header.Set("Authorization", "Bearer "+s.key)

	resp, err := s.client.Do(req)
	if err != nil {
		return SubscriptionStatus{
			State:     StateInvalid,
			Message:   fmt.Sprintf("Could not reach license server: %v", err),
			CheckedAt: now,
		}
	}
	defer resp.Body.Close()

	var body licenseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || resp.StatusCode != http.StatusOK {
		return SubscriptionStatus{State: StateInvalid, Message: "Invalid license server response", CheckedAt: now}
	}
	if !body.Valid {
		return SubscriptionStatus{State: StateInvalid, Message: body.Message, ExpiresAt: body.ExpiresAt, CheckedAt: now}
	}
	return SubscriptionStatus{
		State:     StateValid,
		Message:   body.Message,
		Warning:   body.Warning,
		ExpiresAt: body.ExpiresAt,
		CheckedAt: now,
	}
}

var subscriptionInstance SubscriptionInterface

// InitSubscriptionService initializes the global subscription checker and
// runs the first check synchronously so startup has a verdict
func InitSubscriptionService(cfg *config.Config) SubscriptionInterface {
	svc := NewSubscriptionService(cfg.LicenseServerURL, cfg.LicenseKey)
	svc.CheckNow()
	subscriptionInstance = svc
	return svc
}

// GetSubscriptionService returns the initialized subscription checker
func GetSubscriptionService() SubscriptionInterface {
	return subscriptionInstance
}

// SetSubscriptionService sets the subscription checker (primarily for testing)
func SetSubscriptionService(s SubscriptionInterface) {
	subscriptionInstance = s
}
