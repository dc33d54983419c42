package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chiyadani/chiyadani-api/config"
	"github.com/chiyadani/chiyadani-api/models"
	"github.com/chiyadani/chiyadani-api/services"
)

// AddCartItemRequest represents the request body for adding a menu item to the cart
type AddCartItemRequest struct {
	MenuItemID uint `json:"menu_item_id" binding:"required"`
}

// UpdateCartItemRequest represents the request body for adjusting a cart line
type UpdateCartItemRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// CartNotesRequest represents the request body for setting order notes
type CartNotesRequest struct {
	Notes string `json:"notes"`
}

// tableNumber validates the :table route parameter against settings. An
// out-of-range table writes the landing redirect error and returns false.
func tableNumber(c *gin.Context) (int, bool) {
	table, err := strconv.Atoi(c.Param("table"))
	if err != nil {
		table = 0
	}

	settings, loadErr := loadSettings()
	if loadErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load settings",
			},
		})
		return 0, false
	}

	if table < 1 || table > settings.TableCount {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":     "INVALID_TABLE",
				"message":  "Invalid table number",
				"redirect": "/",
			},
		})
		return 0, false
	}

	return table, true
}

// ListTableMenu handles GET /api/v1/table/:table/menu - lists available menu
// items, filtered by the optional category query parameter
func ListTableMenu(c *gin.Context) {
	if _, ok := tableNumber(c); !ok {
		return
	}

	query := config.GetDB().Where("available = ?", true)
	if category := c.Query("category"); category != "" {
		if !models.MenuCategory(category).IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_CATEGORY",
					"message": "Unknown menu category",
				},
			})
			return
		}
		query = query.Where("category = ?", category)
	}

	var items []models.MenuItem
	if err := query.Order("id").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load menu",
			},
		})
		return
	}

	attachImageURLs(items)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items":      items,
			"categories": models.MenuCategories,
		},
	})
}

// GetCart handles GET /api/v1/table/:table/cart - returns the device's cart
func GetCart(c *gin.Context) {
	if _, ok := tableNumber(c); !ok {
		return
	}
	deviceID, ok := getDeviceID(c)
	if !ok {
		return
	}

	cart := services.GetCartStore()
	items := cart.Items(deviceID)
	respondCart(c, http.StatusOK, items, cart.Notes(deviceID))
}

// AddCartItem handles POST /api/v1/table/:table/cart/items - adds one unit
// of a menu item to the cart, snapshotting its name and price
func AddCartItem(c *gin.Context) {
	if _, ok := tableNumber(c); !ok {
		return
	}
	deviceID, ok := getDeviceID(c)
	if !ok {
		return
	}

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	var item models.MenuItem
	if err := config.GetDB().First(&item, req.MenuItemID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MENU_ITEM_NOT_FOUND",
				"message": "Menu item not found",
			},
		})
		return
	}

	cart := services.GetCartStore()
	items := cart.AddItem(deviceID, &item)
	respondCart(c, http.StatusOK, items, cart.Notes(deviceID))
}

// UpdateCartItem handles PATCH /api/v1/table/:table/cart/items/:menuItemId -
// adjusts a line's quantity by delta; zero or below removes the line
func UpdateCartItem(c *gin.Context) {
	if _, ok := tableNumber(c); !ok {
		return
	}
	deviceID, ok := getDeviceID(c)
	if !ok {
		return
	}

	menuItemID, err := strconv.ParseUint(c.Param("menuItemId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid menu item id",
			},
		})
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	cart := services.GetCartStore()
	items := cart.UpdateQty(deviceID, uint(menuItemID), req.Delta)
	respondCart(c, http.StatusOK, items, cart.Notes(deviceID))
}

// SetCartNotes handles PUT /api/v1/table/:table/cart/notes - stores
// free-form special instructions for the pending order
func SetCartNotes(c *gin.Context) {
	if _, ok := tableNumber(c); !ok {
		return
	}
	deviceID, ok := getDeviceID(c)
	if !ok {
		return
	}

	var req CartNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	cart := services.GetCartStore()
	cart.SetNotes(deviceID, req.Notes)
	respondCart(c, http.StatusOK, cart.Items(deviceID), cart.Notes(deviceID))
}

func respondCart(c *gin.Context, status int, items []models.OrderItem, notes string) {
	c.JSON(status, gin.H{
		"success": true,
		"data": gin.H{
			"items": items,
			"total": services.CartTotal(items),
			"count": services.CartCount(items),
			"notes": notes,
		},
	})
}

// attachImageURLs fills the computed ImageURL field on menu items that have
// an uploaded image
func attachImageURLs(items []models.MenuItem) {
	imageService := services.GetImageService()
	if imageService == nil {
		return
	}
	for i := range items {
		if items[i].ImageS3Key == nil {
			continue
		}
		url, err := imageService.GetImageURL(*items[i].ImageS3Key)
		if err != nil || url == "" {
			continue
		}
		items[i].ImageURL = &url
	}
}
