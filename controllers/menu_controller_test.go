package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/chiyadani/chiyadani-api/config"
	"github.com/chiyadani/chiyadani-api/models"
)

func setupMenuTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Settings{}, &models.MenuItem{}))
	require.NoError(t, db.Create(&models.Settings{RestaurantName: "Chiyadani", TableCount: 10}).Error)
	config.SetDB(db)

	seed := []models.MenuItem{
		{Name: "Milk Tea", Category: string(models.CategoryTea), Price: 40, Available: true},
		{Name: "Black Tea", Category: string(models.CategoryTea), Price: 25, Available: false},
		{Name: "Samosa", Category: string(models.CategorySnacks), Price: 50, Available: true},
		{Name: "Coke", Category: string(models.CategoryColdDrink), Price: 80, Available: true},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/v1/table/:table/menu", ListTableMenu)
	router.GET("/api/v1/menu", ListMenu)
	router.POST("/api/v1/menu", CreateMenuItem)
	router.PATCH("/api/v1/menu/:id", UpdateMenuItem)
	router.DELETE("/api/v1/menu/:id", DeleteMenuItem)
	return router, db
}

func menuRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestTableMenuHidesUnavailableItems(t *testing.T) {
	router, _ := setupMenuTest(t)

	w := menuRequest(router, http.MethodGet, "/api/v1/table/1/menu", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Milk Tea")
	assert.NotContains(t, w.Body.String(), "Black Tea")
}

func TestTableMenuCategoryFilter(t *testing.T) {
	router, _ := setupMenuTest(t)

	w := menuRequest(router, http.MethodGet, "/api/v1/table/1/menu?category=Snacks", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Samosa")
	assert.NotContains(t, w.Body.String(), "Milk Tea")

	w = menuRequest(router, http.MethodGet, "/api/v1/table/1/menu?category=Sushi", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_CATEGORY")
}

func TestStaffMenuIncludesUnavailableItems(t *testing.T) {
	router, _ := setupMenuTest(t)

	w := menuRequest(router, http.MethodGet, "/api/v1/menu", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Black Tea")
}

func TestCreateMenuItem(t *testing.T) {
	router, db := setupMenuTest(t)

	w := menuRequest(router, http.MethodPost, "/api/v1/menu", gin.H{
		"name":     "Donut",
		"price":    60,
		"category": "Pastry",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var item models.MenuItem
	require.NoError(t, db.Where("name = ?", "Donut").First(&item).Error)
	assert.Equal(t, 60, item.Price)
	assert.True(t, item.Available)
}

func TestCreateMenuItemRejectsUnknownCategory(t *testing.T) {
	router, _ := setupMenuTest(t)

	w := menuRequest(router, http.MethodPost, "/api/v1/menu", gin.H{
		"name":     "Ramen",
		"price":    120,
		"category": "Noodles",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_CATEGORY")
}

func TestUpdateMenuItemPartial(t *testing.T) {
	router, db := setupMenuTest(t)

	w := menuRequest(router, http.MethodPatch, "/api/v1/menu/1", gin.H{"available": false})
	assert.Equal(t, http.StatusOK, w.Code)

	var item models.MenuItem
	require.NoError(t, db.First(&item, 1).Error)
	assert.False(t, item.Available)
	assert.Equal(t, "Milk Tea", item.Name)
	assert.Equal(t, 40, item.Price)
}

func TestDeleteMenuItem(t *testing.T) {
	router, db := setupMenuTest(t)

	w := menuRequest(router, http.MethodDelete, "/api/v1/menu/3", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var item models.MenuItem
	err := db.First(&item, 3).Error
	assert.Error(t, err)
}

func TestMenuItemNotFound(t *testing.T) {
	router, _ := setupMenuTest(t)

	w := menuRequest(router, http.MethodPatch, "/api/v1/menu/999", gin.H{"available": false})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "MENU_ITEM_NOT_FOUND")
}
