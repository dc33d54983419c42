package models

import "time"

// Settings is the process-wide restaurant configuration. A single row is
// kept in the database and loaded on demand.
type Settings struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	RestaurantName string    `gorm:"not null" json:"restaurant_name"`
	TableCount     int       `gorm:"not null;default:10" json:"table_count"`
	WifiSSID       string    `json:"wifi_ssid"`
	WifiPassword   string    `json:"wifi_password"`
	BaseURL        string    `json:"base_url"`
	LogoS3Key      *string   `json:"logo_s3_key,omitempty"`
	LogoURL        *string   `gorm:"-" json:"logo_url,omitempty"` // computed field, presigned URL for logo
	CounterAsAdmin bool      `gorm:"not null;default:false" json:"counter_as_admin"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Settings model
func (Settings) TableName() string {
	return "settings"
}
