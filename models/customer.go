package models

import "time"

// Customer aggregates ordering history per phone number. Rows are created
// and updated as a side effect of order submission.
type Customer struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Phone       string    `gorm:"uniqueIndex;not null" json:"phone"`
	Name        *string   `json:"name,omitempty"`
	TotalOrders int       `gorm:"not null;default:0" json:"total_orders"`
	TotalSpent  int       `gorm:"not null;default:0" json:"total_spent"`
	LastVisit   time.Time `json:"last_visit"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
