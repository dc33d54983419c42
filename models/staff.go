package models

import (
	"time"

	"gorm.io/gorm"
)

// Staff represents a staff account (admin or counter)
type Staff struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Role         string         `gorm:"not null;default:'counter'" json:"role"` // "admin" or "counter"
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Staff model
func (Staff) TableName() string {
	return "staff"
}

// IsAdmin reports whether this account carries the admin role
func (s *Staff) IsAdmin() bool {
	return s.Role == "admin"
}
