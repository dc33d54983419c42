package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/chiyadani/chiyadani-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// TableBindingTTL bounds how long a table scan stays valid
	TableBindingTTL = 4 * time.Hour
	// InstallPromptInterval rate-limits the install nudge per device
	InstallPromptInterval = 24 * time.Hour
)

// SessionOutcome is the verdict of resolving a device's persisted session
type SessionOutcome string

const (
	// OutcomeResume means the table binding is still valid; go straight to the table
	OutcomeResume SessionOutcome = "resume"
	// OutcomeRescan means the table binding expired but the phone is retained
	OutcomeRescan SessionOutcome = "rescan"
	// OutcomeFresh means no usable session data exists
	OutcomeFresh SessionOutcome = "fresh"
)

// Resolution describes what a scanning device should see next
type Resolution struct {
	Outcome SessionOutcome `json:"outcome"`
	Table   int            `json:"table,omitempty"`
	Phone   string         `json:"phone,omitempty"`
}

// SessionStore is the typed accessor over per-device session rows. It owns
// parse, validate and serialize for the well-known keys; a value that fails
// to parse is deleted and reported as absent, never as an error.
type SessionStore struct {
	db *gorm.DB
}

// NewSessionStore creates a session store on the given database
func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Get returns the raw value stored under key for the device
func (s *SessionStore) Get(deviceID, key string) (string, bool) {
	var entry models.SessionEntry
	err := s.db.Where("device_id = ? AND key = ?", deviceID, key).First(&entry).Error
	if err != nil {
		return "", false
	}
	return entry.Value, true
}

// Put upserts the raw value stored under key for the device
func (s *SessionStore) Put(deviceID, key, value string) error {
	entry := models.SessionEntry{DeviceID: deviceID, Key: key, Value: value}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

// Delete removes the value stored under key for the device. Deleting an
// absent key is a no-op.
func (s *SessionStore) Delete(deviceID, key string) error {
	return s.db.Where("device_id = ? AND key = ?", deviceID, key).
		Delete(&models.SessionEntry{}).Error
}

// GetActiveSession returns the parsed active session record, or false when
// it is absent. Malformed JSON is pruned and reported as absent.
func (s *SessionStore) GetActiveSession(deviceID string) (*models.ActiveSession, bool) {
	raw, ok := s.Get(deviceID, models.SessionKeyActiveSession)
	if !ok {
		return nil, false
	}
	var sess models.ActiveSession
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		// Corrupted data self-heals by deletion
		_ = s.Delete(deviceID, models.SessionKeyActiveSession)
		return nil, false
	}
	return &sess, true
}

// PutActiveSession serializes and stores the active session record
func (s *SessionStore) PutActiveSession(deviceID string, sess *models.ActiveSession) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}
	return s.Put(deviceID, models.SessionKeyActiveSession, string(raw))
}

// GetPhone returns the saved customer phone for the device, if any
func (s *SessionStore) GetPhone(deviceID string) (string, bool) {
	return s.Get(deviceID, models.SessionKeyPhone)
}

// PutPhone saves the customer phone for the device
func (s *SessionStore) PutPhone(deviceID, phone string) error {
	return s.Put(deviceID, models.SessionKeyPhone, phone)
}

// ValidPhone reports whether phone is exactly ten numeric digits
func ValidPhone(phone string) bool {
	if len(phone) != 10 {
		return false
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// SessionResolver decides what a scanning device should see, pruning
// expired or corrupted state as it goes.
type SessionResolver struct {
	store *SessionStore
}

// NewSessionResolver creates a resolver over the given store
func NewSessionResolver(store *SessionStore) *SessionResolver {
	return &SessionResolver{store: store}
}

// Store exposes the underlying session store
func (r *SessionResolver) Store() *SessionStore {
	return r.store
}

// Resolve inspects the device's persisted session at time now and returns
// one of three outcomes:
//   - Resume: table binding younger than TableBindingTTL; return table and phone.
//   - Rescan: table binding expired or absent but a phone is saved; the table
//     binding is cleared, the phone retained.
//   - Fresh: nothing usable; all session state is cleared.
//
// Storage is always normalized to match the outcome before returning.
func (r *SessionResolver) Resolve(deviceID string, now time.Time) Resolution {
	savedPhone, hasPhone := r.store.GetPhone(deviceID)

	if sess, ok := r.store.GetActiveSession(deviceID); ok {
		ts := sess.TableTimestamp
		if ts == 0 {
			ts = sess.Timestamp
		}
		age := now.Sub(time.UnixMilli(ts))
		if age <= TableBindingTTL && sess.Table > 0 {
			phone := sess.Phone
			if phone == "" {
				phone = savedPhone
			}
			return Resolution{Outcome: OutcomeResume, Table: sess.Table, Phone: phone}
		}
		// Table binding expired; the phone binding may outlive it
		_ = r.store.Delete(deviceID, models.SessionKeyActiveSession)
	}

	if hasPhone && savedPhone != "" {
		return Resolution{Outcome: OutcomeRescan, Phone: savedPhone}
	}

	_ = r.store.Delete(deviceID, models.SessionKeyPhone)
	return Resolution{Outcome: OutcomeFresh}
}

// BindTable records a fresh table scan for the device, carrying forward any
// saved phone. The caller has already validated the table number.
func (r *SessionResolver) BindTable(deviceID string, table int, now time.Time) error {
	phone, _ := r.store.GetPhone(deviceID)
	ms := now.UnixMilli()
	return r.store.PutActiveSession(deviceID, &models.ActiveSession{
		Table:          table,
		Phone:          phone,
		TableTimestamp: ms,
		Timestamp:      ms,
	})
}

// BindPhone saves a validated phone for the device under both the phone key
// and, when a table session exists, inside the session record
func (r *SessionResolver) BindPhone(deviceID, phone string, now time.Time) error {
	if !ValidPhone(phone) {
		return &OrderError{Code: "INVALID_PHONE", Message: "Phone number must be exactly 10 digits"}
	}
	if err := r.store.PutPhone(deviceID, phone); err != nil {
		return err
	}
	if sess, ok := r.store.GetActiveSession(deviceID); ok {
		sess.Phone = phone
		sess.Timestamp = now.UnixMilli()
		return r.store.PutActiveSession(deviceID, sess)
	}
	return nil
}

// ClearTable drops the device's table binding without touching the phone
func (r *SessionResolver) ClearTable(deviceID string) error {
	return r.store.Delete(deviceID, models.SessionKeyActiveSession)
}

// ShouldShowInstallPrompt reports whether the install nudge may be shown,
// at most once per InstallPromptInterval per device
func (r *SessionResolver) ShouldShowInstallPrompt(deviceID string, now time.Time) bool {
	raw, ok := r.store.Get(deviceID, models.SessionKeyInstallPrompt)
	if !ok {
		return true
	}
	last, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		_ = r.store.Delete(deviceID, models.SessionKeyInstallPrompt)
		return true
	}
	return now.Sub(time.UnixMilli(last)) > InstallPromptInterval
}

// MarkInstallPromptShown records that the install nudge was shown at now
func (r *SessionResolver) MarkInstallPromptShown(deviceID string, now time.Time) error {
	return r.store.Put(deviceID, models.SessionKeyInstallPrompt, strconv.FormatInt(now.UnixMilli(), 10))
}

var sessionResolverInstance *SessionResolver

// InitSessionResolver initializes the global session resolver
func InitSessionResolver(db *gorm.DB) *SessionResolver {
	sessionResolverInstance = NewSessionResolver(NewSessionStore(db))
	return sessionResolverInstance
}

// GetSessionResolver returns the initialized session resolver
func GetSessionResolver() *SessionResolver {
	return sessionResolverInstance
}

// SetSessionResolver sets the session resolver instance (primarily for testing)
func SetSessionResolver(r *SessionResolver) {
	sessionResolverInstance = r
}
