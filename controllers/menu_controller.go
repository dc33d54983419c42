package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chiyadani/chiyadani-api/config"
	"github.com/chiyadani/chiyadani-api/models"
	"github.com/chiyadani/chiyadani-api/services"
)

// CreateMenuItemRequest represents the request body for creating a menu item
type CreateMenuItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Price       int     `json:"price" binding:"required,gte=0"`
	Category    string  `json:"category" binding:"required"`
	Available   *bool   `json:"available"`
	Description *string `json:"description"`
}

// UpdateMenuItemRequest represents the request body for updating a menu item
type UpdateMenuItemRequest struct {
	Name        *string `json:"name"`
	Price       *int    `json:"price" binding:"omitempty,gte=0"`
	Category    *string `json:"category"`
	Available   *bool   `json:"available"`
	Description *string `json:"description"`
}

// ListMenu handles GET /api/v1/menu - full staff listing, including
// unavailable items
func ListMenu(c *gin.Context) {
	var items []models.MenuItem
	if err := config.GetDB().Order("id").Find(&items).Error; err != nil {
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
		"data":    items,
	})
}

// CreateMenuItem handles POST /api/v1/menu - creates a menu item (admin only)
func CreateMenuItem(c *gin.Context) {
	var req CreateMenuItemRequest
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

	if !models.MenuCategory(req.Category).IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CATEGORY",
				"message": "Unknown menu category",
			},
		})
		return
	}

	item := models.MenuItem{
		Name:        req.Name,
		Price:       req.Price,
		Category:    req.Category,
		Available:   true,
		Description: req.Description,
	}
	if req.Available != nil {
		item.Available = *req.Available
	}

	if err := config.GetDB().Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create menu item",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    item,
	})
}

// UpdateMenuItem handles PATCH /api/v1/menu/:id - partial update of a menu
// item, including the availability toggle (admin only)
func UpdateMenuItem(c *gin.Context) {
	item, ok := findMenuItem(c)
	if !ok {
		return
	}

	var req UpdateMenuItemRequest
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

	if req.Category != nil && !models.MenuCategory(*req.Category).IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CATEGORY",
				"message": "Unknown menu category",
			},
		})
		return
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Available != nil {
		item.Available = *req.Available
	}
	if req.Description != nil {
		item.Description = req.Description
	}

	if err := config.GetDB().Save(item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update menu item",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    item,
	})
}

// DeleteMenuItem handles DELETE /api/v1/menu/:id (admin only). Orders keep
// their price and name snapshots, so deleting an item never rewrites history.
func DeleteMenuItem(c *gin.Context) {
	item, ok := findMenuItem(c)
	if !ok {
		return
	}

	if item.ImageS3Key != nil {
		if err := services.GetImageService().DeleteImage(*item.ImageS3Key); err != nil {
			// Orphaned images are cleaned up out of band
			c.Error(err)
		}
	}

	if err := config.GetDB().Delete(item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete menu item",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

func findMenuItem(c *gin.Context) (*models.MenuItem, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid menu item id",
			},
		})
		return nil, false
	}

	var item models.MenuItem
	if err := config.GetDB().First(&item, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MENU_ITEM_NOT_FOUND",
				"message": "Menu item not found",
			},
		})
		return nil, false
	}

	return &item, true
}
