package models

import "time"

// Well-known session keys. Values under these keys are owned by the session
// store; nothing else reads or writes them directly.
const (
	SessionKeyActiveSession = "customerActiveSession"
	SessionKeyPhone         = "customerPhone"
	SessionKeyInstallPrompt = "installPromptShown"
)

// SessionEntry is one string-keyed, JSON-valued record scoped to a customer
// device. The value column holds raw JSON (or a plain string for simple keys);
// parsing and validation belong to the session store, which treats anything
// malformed as absent.
type SessionEntry struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	DeviceID  string    `gorm:"uniqueIndex:idx_device_key;not null" json:"device_id"`
	Key       string    `gorm:"uniqueIndex:idx_device_key;not null" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the SessionEntry model
func (SessionEntry) TableName() string {
	return "session_entries"
}

// ActiveSession is the payload stored under SessionKeyActiveSession.
// Timestamps are unix milliseconds. TableTimestamp tracks the last table
// (re)scan; older records may carry only Timestamp.
type ActiveSession struct {
	Table          int    `json:"table"`
	Phone          string `json:"phone,omitempty"`
	TableTimestamp int64  `json:"tableTimestamp,omitempty"`
	Timestamp      int64  `json:"timestamp"`
}
