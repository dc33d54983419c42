package services

import (
	"sync"

	"github.com/chiyadani/chiyadani-api/models"
	"github.com/google/uuid"
)

// CartStore holds the in-progress cart per customer device. Carts never
// touch the database; they live in memory until submission or reset.
// The invariant: at most one line per distinct menu item within a cart.
type CartStore struct {
	mu    sync.RWMutex
	carts map[string][]models.OrderItem
	notes map[string]string
}

// NewCartStore creates an empty cart store
func NewCartStore() *CartStore {
	return &CartStore{
		carts: make(map[string][]models.OrderItem),
		notes: make(map[string]string),
	}
}

// AddItem adds one unit of the menu item to the device's cart. An existing
// line for the same menu item has its quantity incremented; otherwise a new
// line is appended with qty 1, snapshotting name and price at add time.
func (c *CartStore) AddItem(deviceID string, item *models.MenuItem) []models.OrderItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	cart := c.carts[deviceID]
	for i := range cart {
		if cart[i].MenuItemID == item.ID {
			cart[i].Qty++
			return copyLines(cart)
		}
	}
	cart = append(cart, models.OrderItem{
		LineID:     uuid.NewString(),
		MenuItemID: item.ID,
		Name:       item.Name,
		Price:      item.Price,
		Qty:        1,
	})
	c.carts[deviceID] = cart
	return copyLines(cart)
}

// UpdateQty adjusts the quantity of the line for menuItemID by delta. A
// resulting quantity of zero or below removes the line. Unknown menu item
// IDs are a no-op.
func (c *CartStore) UpdateQty(deviceID string, menuItemID uint, delta int) []models.OrderItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	cart := c.carts[deviceID]
	for i := range cart {
		if cart[i].MenuItemID != menuItemID {
			continue
		}
		newQty := cart[i].Qty + delta
		if newQty > 0 {
			cart[i].Qty = newQty
		} else {
			cart = append(cart[:i], cart[i+1:]...)
			c.carts[deviceID] = cart
		}
		break
	}
	return copyLines(c.carts[deviceID])
}

// Items returns a copy of the device's current cart
func (c *CartStore) Items(deviceID string) []models.OrderItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return copyLines(c.carts[deviceID])
}

// ItemQty returns the current quantity for menuItemID, or 0
func (c *CartStore) ItemQty(deviceID string, menuItemID uint) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, line := range c.carts[deviceID] {
		if line.MenuItemID == menuItemID {
			return line.Qty
		}
	}
	return 0
}

// SetNotes stores free-form order notes for the device
func (c *CartStore) SetNotes(deviceID, notes string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if notes == "" {
		delete(c.notes, deviceID)
		return
	}
	c.notes[deviceID] = notes
}

// Notes returns the device's pending order notes
func (c *CartStore) Notes(deviceID string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.notes[deviceID]
}

// Clear empties the device's cart and notes
func (c *CartStore) Clear(deviceID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.carts, deviceID)
	delete(c.notes, deviceID)
}

func copyLines(cart []models.OrderItem) []models.OrderItem {
	out := make([]models.OrderItem, len(cart))
	copy(out, cart)
	return out
}

// CartTotal sums price*qty over the given lines
func CartTotal(items []models.OrderItem) int {
	total := 0
	for _, line := range items {
		total += line.Price * line.Qty
	}
	return total
}

// CartCount sums quantities over the given lines
func CartCount(items []models.OrderItem) int {
	count := 0
	for _, line := range items {
		count += line.Qty
	}
	return count
}

var cartStoreInstance *CartStore

// InitCartStore initializes the global cart store
func InitCartStore() *CartStore {
	cartStoreInstance = NewCartStore()
	return cartStoreInstance
}

// GetCartStore returns the initialized cart store
func GetCartStore() *CartStore {
	return cartStoreInstance
}

// SetCartStore sets the cart store instance (primarily for testing)
func SetCartStore(s *CartStore) {
	cartStoreInstance = s
}
