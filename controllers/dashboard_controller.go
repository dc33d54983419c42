package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chiyadani/chiyadani-api/config"
	"github.com/chiyadani/chiyadani-api/models"
	"github.com/chiyadani/chiyadani-api/utils"
)

// GetDashboardStats handles GET /api/v1/dashboard - the counter hub numbers.
// "Today" is measured on the Nepal calendar day, not UTC.
func GetDashboardStats(c *gin.Context) {
	db := config.GetDB()

	var txns []models.Transaction
	if err := db.Find(&txns).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load transactions",
			},
		})
		return
	}

	todayRevenue := 0
	for _, txn := range txns {
		if utils.IsToday(txn.PaidAt) {
			todayRevenue += txn.Total
		}
	}

	var orders []models.Order
	if err := db.Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load orders",
			},
		})
		return
	}

	todayOrders := 0
	activeOrders := 0
	activeTables := map[int]bool{}
	for i := range orders {
		if utils.IsToday(orders[i].CreatedAt) {
			todayOrders++
		}
		if orders[i].IsActive() {
			activeOrders++
			activeTables[orders[i].TableNumber] = true
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"today_revenue": todayRevenue,
			"today_orders":  todayOrders,
			"active_orders": activeOrders,
			"active_tables": len(activeTables),
		},
	})
}
