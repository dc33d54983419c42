package models

import (
	"time"

	"gorm.io/gorm"
)

// MenuCategory enumerates the fixed set of menu categories
type MenuCategory string

const (
	CategoryTea       MenuCategory = "Tea"
	CategorySnacks    MenuCategory = "Snacks"
	CategoryColdDrink MenuCategory = "Cold Drink"
	CategoryPastry    MenuCategory = "Pastry"
)

// MenuCategories lists every valid category in display order
var MenuCategories = []MenuCategory{CategoryTea, CategorySnacks, CategoryColdDrink, CategoryPastry}

// IsValid reports whether c is one of the known categories
func (c MenuCategory) IsValid() bool {
	for _, known := range MenuCategories {
		if c == known {
			return true
		}
	}
	return false
}

// MenuItem represents one orderable item on the menu. Price is in whole rupees.
type MenuItem struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Price       int            `gorm:"not null;check:price >= 0" json:"price"`
	Category    string         `gorm:"not null;index" json:"category"`
	Available   bool           `gorm:"not null;default:true" json:"available"`
	Description *string        `json:"description,omitempty"`
	ImageS3Key  *string        `json:"image_s3_key,omitempty"`             // nullable, S3 key for uploaded image
	ImageURL    *string        `gorm:"-" json:"image_url,omitempty"`       // computed field, presigned URL for image
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the MenuItem model
func (MenuItem) TableName() string {
	return "menu_items"
}
