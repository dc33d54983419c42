package services

import (
	"fmt"
	"log"
	"time"

	"github.com/chiyadani/chiyadani-api/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderError represents a validation failure during order handling
type OrderError struct {
	Code    string
	Message string
}

func (e *OrderError) Error() string {
	return e.Message
}

// PlaceOrder validates and persists a new order. Preconditions: items is
// non-empty, table has already been validated against settings, phone has
// already passed the ten-digit check. On success the order is recorded with
// status pending and the customer's history is updated in the same
// transaction; on failure nothing changes.
func PlaceOrder(db *gorm.DB, table int, phone string, items []models.OrderItem, notes string) (*models.Order, error) {
	if len(items) == 0 {
		return nil, &OrderError{Code: "EMPTY_CART", Message: "Cannot submit an empty cart"}
	}
	if !ValidPhone(phone) {
		return nil, &OrderError{Code: "INVALID_PHONE", Message: "Phone number must be exactly 10 digits"}
	}

	now := time.Now()
	order := &models.Order{
		Number:        uuid.NewString(),
		TableNumber:   table,
		CustomerPhone: phone,
		Status:        string(models.StatusPending),
		Total:         CartTotal(items),
	}
	if notes != "" {
		order.Notes = &notes
	}
	for _, line := range items {
		if line.LineID == "" {
			line.LineID = uuid.NewString()
		}
		order.Items = append(order.Items, models.OrderItem{
			LineID:     line.LineID,
			MenuItemID: line.MenuItemID,
			Name:       line.Name,
			Price:      line.Price,
			Qty:        line.Qty,
		})
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return upsertCustomerStats(tx, phone, order.Total, now)
	})
	if err != nil {
		return nil, err
	}

	if err := GetOrderEvents().OrderCreated(order); err != nil {
		// The order is committed; a dropped notification is not fatal
		log.Printf("Failed to publish order created event for %s: %v", order.Number, err)
	}

	return order, nil
}

// UpdateOrderStatus moves an order along its legal status transitions.
// Illegal transitions are rejected without mutating the order.
func UpdateOrderStatus(db *gorm.DB, orderID uint, next models.OrderStatus) (*models.Order, error) {
	if !next.IsValid() {
		return nil, &OrderError{Code: "INVALID_STATUS", Message: fmt.Sprintf("Unknown order status %q", next)}
	}

	var order models.Order
	if err := db.Preload("Items").First(&order, orderID).Error; err != nil {
		return nil, err
	}

	current := models.OrderStatus(order.Status)
	if !current.CanTransitionTo(next) {
		return nil, &OrderError{
			Code:    "INVALID_STATUS_TRANSITION",
			Message: fmt.Sprintf("Order cannot move from %s to %s", current, next),
		}
	}

	previous := current
	order.Status = string(next)
	if err := db.Save(&order).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	if err := GetOrderEvents().OrderStatusChanged(&order, previous); err != nil {
		log.Printf("Failed to publish status change event for %s: %v", order.Number, err)
	}

	return &order, nil
}

func upsertCustomerStats(tx *gorm.DB, phone string, total int, now time.Time) error {
	var customer models.Customer
	err := tx.Where("phone = ?", phone).First(&customer).Error
	if err == gorm.ErrRecordNotFound {
		customer = models.Customer{Phone: phone}
	} else if err != nil {
		return fmt.Errorf("failed to load customer: %w", err)
	}
	customer.TotalOrders++
	customer.TotalSpent += total
	customer.LastVisit = now
	if err := tx.Save(&customer).Error; err != nil {
		return fmt.Errorf("failed to update customer history: %w", err)
	}
	return nil
}
