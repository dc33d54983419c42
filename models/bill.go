package models

import (
	"time"

	"gorm.io/gorm"
)

// Bill statuses and payment methods
const (
	BillStatusUnpaid = "unpaid"
	BillStatusPaid   = "paid"

	PaymentMethodCash    = "cash"
	PaymentMethodFonepay = "fonepay"
)

// Bill rolls every served, unbilled order of one table into a payable total
type Bill struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	TableNumber    int            `gorm:"not null;index" json:"table_number"`
	Orders         []Order        `gorm:"foreignKey:BillID" json:"orders"`
	CustomerPhones []string       `gorm:"serializer:json;type:text" json:"customer_phones"`
	Subtotal       int            `gorm:"not null" json:"subtotal"`
	Discount       int            `gorm:"not null;default:0" json:"discount"`
	Total          int            `gorm:"not null" json:"total"`
	Status         string         `gorm:"not null;default:'unpaid'" json:"status"` // unpaid, paid
	PaymentMethod  *string        `json:"payment_method,omitempty"`                // cash or fonepay, set on payment
	PaidAt         *time.Time     `json:"paid_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Bill model
func (Bill) TableName() string {
	return "bills"
}

// Transaction is the immutable record of a paid bill
type Transaction struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	BillID         uint      `gorm:"not null;index" json:"bill_id"`
	TableNumber    int       `gorm:"not null;index" json:"table_number"`
	CustomerPhones []string  `gorm:"serializer:json;type:text" json:"customer_phones"`
	Total          int       `gorm:"not null" json:"total"`
	Discount       int       `gorm:"not null;default:0" json:"discount"`
	PaymentMethod  string    `gorm:"not null" json:"payment_method"`
	PaidAt         time.Time `gorm:"not null" json:"paid_at"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName specifies the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}
