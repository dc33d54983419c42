package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chiyadani/chiyadani-api/config"
	"github.com/chiyadani/chiyadani-api/models"
	"github.com/chiyadani/chiyadani-api/services"
)

// UpdateOrderStatusRequest represents the request body for a status change
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SubmitOrder handles POST /api/v1/table/:table/orders - turns the device's
// cart into a pending order. The cart must be non-empty and the device must
// have a validated phone bound; on success the cart and notes are cleared.
func SubmitOrder(c *gin.Context) {
	table, ok := tableNumber(c)
	if !ok {
		return
	}
	deviceID, ok := getDeviceID(c)
	if !ok {
		return
	}

	resolver := services.GetSessionResolver()
	phone, hasPhone := resolver.Store().GetPhone(deviceID)
	if !hasPhone || !services.ValidPhone(phone) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PHONE_REQUIRED",
				"message": "A valid phone number must be entered before ordering",
			},
		})
		return
	}

	cart := services.GetCartStore()
	items := cart.Items(deviceID)
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EMPTY_CART",
				"message": "Please add items to your cart",
			},
		})
		return
	}

	order, err := services.PlaceOrder(config.GetDB(), table, phone, items, cart.Notes(deviceID))
	if err != nil {
		var orderErr *services.OrderError
		if errors.As(err, &orderErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    orderErr.Code,
					"message": orderErr.Message,
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to place order",
			},
		})
		return
	}

	// The order is committed; only now does the cart reset
	cart.Clear(deviceID)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
		"message": "Order placed successfully",
	})
}

// ListOrders handles GET /api/v1/orders - staff listing with optional
// status and table filters
func ListOrders(c *gin.Context) {
	query := config.GetDB().Preload("Items").Order("created_at DESC")

	if status := c.Query("status"); status != "" {
		if !models.OrderStatus(status).IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_STATUS",
					"message": "Unknown order status",
				},
			})
			return
		}
		query = query.Where("status = ?", status)
	}
	if table := c.Query("table"); table != "" {
		tableNum, err := strconv.Atoi(table)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Invalid table filter",
				},
			})
			return
		}
		query = query.Where("table_number = ?", tableNum)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// GetOrder handles GET /api/v1/orders/:id
func GetOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid order id",
			},
		})
		return
	}

	var order models.Order
	if err := config.GetDB().Preload("Items").First(&order, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:id/status - moves an order
// along its lifecycle, rejecting illegal transitions
func UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid order id",
			},
		})
		return
	}

	var req UpdateOrderStatusRequest
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

	order, err := services.UpdateOrderStatus(config.GetDB(), uint(id), models.OrderStatus(req.Status))
	if err != nil {
		var orderErr *services.OrderError
		if errors.As(err, &orderErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"error": gin.H{
					"code":    orderErr.Code,
					"message": orderErr.Message,
				},
			})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}
