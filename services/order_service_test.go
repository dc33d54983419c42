package services

import (
	"testing"

	"github.com/chiyadani/chiyadani-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrderTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}, &models.Customer{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func sampleCart() []models.OrderItem {
	return []models.OrderItem{
		{LineID: "l1", MenuItemID: 1, Name: "Milk Tea", Price: 50, Qty: 2},
		{LineID: "l2", MenuItemID: 2, Name: "Samosa", Price: 40, Qty: 1},
	}
}

func TestPlaceOrderRejectsEmptyCart(t *testing.T) {
	db := setupOrderTestDB(t)
	events := NewMockOrderEvents()
	events.SetAsMockForTesting()

	order, err := PlaceOrder(db, 5, "9812345678", nil, "")

	assert.Nil(t, order)
	require.Error(t, err)
	orderErr, ok := err.(*OrderError)
	require.True(t, ok)
	assert.Equal(t, "EMPTY_CART", orderErr.Code)

	// No side effects at all
	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)
	assert.Zero(t, events.CreatedCount())
}

func TestPlaceOrderRejectsInvalidPhone(t *testing.T) {
	db := setupOrderTestDB(t)
	NewMockOrderEvents().SetAsMockForTesting()

	_, err := PlaceOrder(db, 5, "981234567", sampleCart(), "")

	require.Error(t, err)
	orderErr, ok := err.(*OrderError)
	require.True(t, ok)
	assert.Equal(t, "INVALID_PHONE", orderErr.Code)
}

func TestPlaceOrderCreatesPendingOrder(t *testing.T) {
	db := setupOrderTestDB(t)
	events := NewMockOrderEvents()
	events.SetAsMockForTesting()

	order, err := PlaceOrder(db, 5, "9812345678", sampleCart(), "less sugar")
	require.NoError(t, err)

	assert.Equal(t, string(models.StatusPending), order.Status)
	assert.Equal(t, 5, order.TableNumber)
	assert.Equal(t, "9812345678", order.CustomerPhone)
	assert.Equal(t, 2*50+40, order.Total)
	assert.NotEmpty(t, order.Number)
	require.NotNil(t, order.Notes)
	assert.Equal(t, "less sugar", *order.Notes)
	assert.Len(t, order.Items, 2)

	var persisted models.Order
	require.NoError(t, db.Preload("Items").First(&persisted, order.ID).Error)
	assert.Equal(t, order.Total, persisted.Total)
	assert.Len(t, persisted.Items, 2)

	assert.Equal(t, []string{order.Number}, events.Created)
}

func TestPlaceOrderWithoutNotes(t *testing.T) {
	db := setupOrderTestDB(t)
	NewMockOrderEvents().SetAsMockForTesting()

	order, err := PlaceOrder(db, 1, "9812345678", sampleCart(), "")
	require.NoError(t, err)
	assert.Nil(t, order.Notes)
}

func TestPlaceOrderUpdatesCustomerHistory(t *testing.T) {
	db := setupOrderTestDB(t)
	NewMockOrderEvents().SetAsMockForTesting()

	_, err := PlaceOrder(db, 5, "9812345678", sampleCart(), "")
	require.NoError(t, err)
	_, err = PlaceOrder(db, 5, "9812345678", sampleCart(), "")
	require.NoError(t, err)

	var customer models.Customer
	require.NoError(t, db.Where("phone = ?", "9812345678").First(&customer).Error)
	assert.Equal(t, 2, customer.TotalOrders)
	assert.Equal(t, 2*(2*50+40), customer.TotalSpent)
	assert.False(t, customer.LastVisit.IsZero())
}

func TestUpdateOrderStatusLegalTransition(t *testing.T) {
	db := setupOrderTestDB(t)
	events := NewMockOrderEvents()
	events.SetAsMockForTesting()

	order, err := PlaceOrder(db, 5, "9812345678", sampleCart(), "")
	require.NoError(t, err)

	updated, err := UpdateOrderStatus(db, order.ID, models.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusAccepted), updated.Status)

	assert.Len(t, events.StatusChanges, 1)
	assert.Contains(t, events.StatusChanges[0], "pending->accepted")
}

func TestUpdateOrderStatusIllegalTransition(t *testing.T) {
	db := setupOrderTestDB(t)
	NewMockOrderEvents().SetAsMockForTesting()

	order, err := PlaceOrder(db, 5, "9812345678", sampleCart(), "")
	require.NoError(t, err)

	// pending cannot jump straight to served
	_, err = UpdateOrderStatus(db, order.ID, models.StatusServed)
	require.Error(t, err)
	orderErr, ok := err.(*OrderError)
	require.True(t, ok)
	assert.Equal(t, "INVALID_STATUS_TRANSITION", orderErr.Code)

	var persisted models.Order
	require.NoError(t, db.First(&persisted, order.ID).Error)
	assert.Equal(t, string(models.StatusPending), persisted.Status)
}

func TestUpdateOrderStatusUnknownStatus(t *testing.T) {
	db := setupOrderTestDB(t)
	NewMockOrderEvents().SetAsMockForTesting()

	order, err := PlaceOrder(db, 5, "9812345678", sampleCart(), "")
	require.NoError(t, err)

	_, err = UpdateOrderStatus(db, order.ID, models.OrderStatus("shipped"))
	require.Error(t, err)
	orderErr, ok := err.(*OrderError)
	require.True(t, ok)
	assert.Equal(t, "INVALID_STATUS", orderErr.Code)
}

func TestUpdateOrderStatusCancelBeforeServed(t *testing.T) {
	db := setupOrderTestDB(t)
	NewMockOrderEvents().SetAsMockForTesting()

	order, err := PlaceOrder(db, 5, "9812345678", sampleCart(), "")
	require.NoError(t, err)

	for _, status := range []models.OrderStatus{models.StatusAccepted, models.StatusPreparing, models.StatusReady} {
		_, err = UpdateOrderStatus(db, order.ID, status)
		require.NoError(t, err)
	}

	updated, err := UpdateOrderStatus(db, order.ID, models.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusCancelled), updated.Status)

	// A cancelled order is terminal
	_, err = UpdateOrderStatus(db, order.ID, models.StatusServed)
	assert.Error(t, err)
}

func TestPlaceOrderSurvivesEventPublishFailure(t *testing.T) {
	db := setupOrderTestDB(t)
	events := NewMockOrderEvents()
	events.FailNextCreate = true
	events.SetAsMockForTesting()

	order, err := PlaceOrder(db, 5, "9812345678", sampleCart(), "")
	require.NoError(t, err, "A dropped notification must not fail the order")

	var persisted models.Order
	assert.NoError(t, db.First(&persisted, order.ID).Error)
}
