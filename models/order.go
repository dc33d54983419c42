package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderStatus enumerates the lifecycle of an order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusAccepted  OrderStatus = "accepted"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusServed    OrderStatus = "served"
	StatusCancelled OrderStatus = "cancelled"
)

// orderTransitions maps each status to the statuses it may move to.
// Cancellation is allowed at any point before the order is served.
var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusAccepted, StatusCancelled},
	StatusAccepted:  {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusServed, StatusCancelled},
	StatusServed:    {},
	StatusCancelled: {},
}

// IsValid reports whether s is a known order status
func (s OrderStatus) IsValid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionTo reports whether an order in status s may move to next
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderItem is one line of a cart or submitted order. Name and Price are
// snapshots taken when the item was added; later menu edits do not touch them.
type OrderItem struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	OrderID    uint   `gorm:"index" json:"-"`
	LineID     string `gorm:"not null" json:"id"`
	MenuItemID uint   `gorm:"not null;index" json:"menu_item_id"`
	Name       string `gorm:"not null" json:"name"`
	Price      int    `gorm:"not null" json:"price"`
	Qty        int    `gorm:"not null;check:qty > 0" json:"qty"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// Order represents a submitted customer order for one table
type Order struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Number        string         `gorm:"uniqueIndex;not null" json:"number"`
	TableNumber   int            `gorm:"not null;index" json:"table_number"`
	CustomerPhone string         `gorm:"not null;index" json:"customer_phone"`
	Items         []OrderItem    `gorm:"foreignKey:OrderID" json:"items"`
	Status        string         `gorm:"not null;default:'pending'" json:"status"` // pending, accepted, preparing, ready, served, cancelled
	Total         int            `gorm:"not null" json:"total"`
	Notes         *string        `json:"notes,omitempty"`
	BillID        *uint          `gorm:"index" json:"bill_id,omitempty"` // nullable, set when the order is rolled into a bill
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// IsActive reports whether the order still needs staff attention
func (o *Order) IsActive() bool {
	return o.Status != string(StatusServed) && o.Status != string(StatusCancelled)
}
