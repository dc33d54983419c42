package services

import (
	"testing"

	"github.com/chiyadani/chiyadani-api/models"
	"github.com/stretchr/testify/assert"
)

func menuItem(id uint, name string, price int) *models.MenuItem {
	return &models.MenuItem{ID: id, Name: name, Price: price, Category: "Tea", Available: true}
}

func TestAddItemIncrementsExistingLine(t *testing.T) {
	cart := NewCartStore()
	tea := menuItem(1, "Milk Tea", 50)

	cart.AddItem("dev-1", tea)
	items := cart.AddItem("dev-1", tea)

	assert.Len(t, items, 1, "Adding the same item twice must not create a second line")
	assert.Equal(t, 2, items[0].Qty)
	assert.Equal(t, "Milk Tea", items[0].Name)
	assert.Equal(t, 50, items[0].Price)
}

func TestAddItemSnapshotsPriceAtAddTime(t *testing.T) {
	cart := NewCartStore()
	tea := menuItem(1, "Milk Tea", 50)

	cart.AddItem("dev-1", tea)

	// A later menu price change must not touch lines already in the cart
	tea.Price = 90
	items := cart.AddItem("dev-1", tea)

	assert.Len(t, items, 1)
	assert.Equal(t, 50, items[0].Price)
	assert.Equal(t, 100, CartTotal(items))
}

func TestUpdateQtyRemovesLineAtZero(t *testing.T) {
	cart := NewCartStore()
	cart.AddItem("dev-1", menuItem(1, "Milk Tea", 50))
	cart.AddItem("dev-1", menuItem(2, "Samosa", 40))

	items := cart.UpdateQty("dev-1", 1, -1)

	assert.Len(t, items, 1)
	assert.Equal(t, uint(2), items[0].MenuItemID)
	assert.Equal(t, 0, cart.ItemQty("dev-1", 1))
}

func TestUpdateQtyBelowZeroRemovesLine(t *testing.T) {
	cart := NewCartStore()
	cart.AddItem("dev-1", menuItem(1, "Milk Tea", 50))

	items := cart.UpdateQty("dev-1", 1, -5)

	assert.Empty(t, items)
}

func TestUpdateQtyUnknownItemIsNoOp(t *testing.T) {
	cart := NewCartStore()
	cart.AddItem("dev-1", menuItem(1, "Milk Tea", 50))

	items := cart.UpdateQty("dev-1", 99, 1)

	assert.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Qty)
}

func TestUpdateQtyIncrements(t *testing.T) {
	cart := NewCartStore()
	cart.AddItem("dev-1", menuItem(1, "Milk Tea", 50))

	items := cart.UpdateQty("dev-1", 1, 2)

	assert.Equal(t, 3, items[0].Qty)
	assert.Equal(t, 3, cart.ItemQty("dev-1", 1))
}

func TestCartTotalsAndCount(t *testing.T) {
	cart := NewCartStore()
	cart.AddItem("dev-1", menuItem(1, "Milk Tea", 50))
	cart.AddItem("dev-1", menuItem(1, "Milk Tea", 50))
	cart.AddItem("dev-1", menuItem(2, "Samosa", 40))

	items := cart.Items("dev-1")
	assert.Equal(t, 2*50+40, CartTotal(items))
	assert.Equal(t, 3, CartCount(items))
}

func TestCartsAreIsolatedPerDevice(t *testing.T) {
	cart := NewCartStore()
	cart.AddItem("dev-1", menuItem(1, "Milk Tea", 50))

	assert.Empty(t, cart.Items("dev-2"))
	assert.Equal(t, 0, cart.ItemQty("dev-2", 1))
}

func TestClearEmptiesCartAndNotes(t *testing.T) {
	cart := NewCartStore()
	cart.AddItem("dev-1", menuItem(1, "Milk Tea", 50))
	cart.SetNotes("dev-1", "less sugar")

	cart.Clear("dev-1")

	assert.Empty(t, cart.Items("dev-1"))
	assert.Equal(t, "", cart.Notes("dev-1"))
}

func TestItemsReturnsCopy(t *testing.T) {
	cart := NewCartStore()
	cart.AddItem("dev-1", menuItem(1, "Milk Tea", 50))

	items := cart.Items("dev-1")
	items[0].Qty = 99

	assert.Equal(t, 1, cart.ItemQty("dev-1", 1), "Mutating the returned slice must not affect the cart")
}
