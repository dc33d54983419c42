package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chiyadani/chiyadani-api/services"
)

// GetSubscriptionStatus handles GET /api/v1/subscription - the current gate
// verdict. Mounted outside the subscription middleware so the lock screen
// can always read it.
func GetSubscriptionStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    services.GetSubscriptionService().Status(),
	})
}

// RefreshSubscription handles POST /api/v1/subscription/refresh - the manual
// refresh action on the lock screen. Re-enters the loading state and starts
// a new check.
func RefreshSubscription(c *gin.Context) {
	svc := services.GetSubscriptionService()
	svc.Refresh()

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"data":    svc.Status(),
	})
}
