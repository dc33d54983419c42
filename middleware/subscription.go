package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/chiyadani/chiyadani-api/services"
)

// Customer-facing route prefixes. Requests under these paths never carry the
// subscription warning header; the lock screen and loading verdicts still
// apply to them.
var customerRoutePrefixes = []string{
	"/api/v1/session",
	"/api/v1/table",
}

// IsCustomerRoute reports whether path belongs to the customer-facing
// surface. The check is a pure prefix match over the literal path.
func IsCustomerRoute(path string) bool {
	for _, prefix := range customerRoutePrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// RequireSubscription gates every request behind the subscription verdict:
//   - loading: the initial check has no verdict yet, ask the client to retry
//   - invalid: block with a lock response; only the refresh endpoint
//     (mounted outside this middleware) remains reachable
//   - valid: pass through, attaching a warning header on staff routes when
//     the subscription is close to expiry
func RequireSubscription() gin.HandlerFunc {
	return func(c *gin.Context) {
		status := services.GetSubscriptionService().Status()

		switch status.State {
		case services.StateLoading:
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "SUBSCRIPTION_CHECKING",
					"message": "Verifying subscription, please retry shortly",
				},
			})
			c.Abort()
			return

		case services.StateInvalid:
			c.JSON(http.StatusPaymentRequired, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "SUBSCRIPTION_INVALID",
					"message": status.Message,
				},
			})
			c.Abort()
			return
		}

		if status.Warning && !IsCustomerRoute(c.Request.URL.Path) {
			c.Header("X-Subscription-Warning", status.Message)
		}

		c.Next()
	}
}
