package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chiyadani/chiyadani-api/config"
	"github.com/chiyadani/chiyadani-api/models"
	"github.com/chiyadani/chiyadani-api/services"
	"github.com/chiyadani/chiyadani-api/utils"
)

// deviceIDHeader carries the client-generated device token that scopes all
// customer session state
const deviceIDHeader = "X-Device-ID"

// getDeviceID extracts the device token, writing a 400 when it is missing
func getDeviceID(c *gin.Context) (string, bool) {
	deviceID := c.GetHeader(deviceIDHeader)
	if deviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_DEVICE_ID",
				"message": "X-Device-ID header is required",
			},
		})
		return "", false
	}
	return deviceID, true
}

// ScanTableRequest represents the request body for binding a table
type ScanTableRequest struct {
	Table int `json:"table" binding:"required"`
}

// PhoneRequest represents the request body for saving a customer phone
type PhoneRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// ResolveSession handles GET /api/v1/session - decides what a scanning
// device should see: resume a valid table session, rescan keeping the saved
// phone, or start fresh. A device with no token yet is assigned one.
func ResolveSession(c *gin.Context) {
	deviceID := c.GetHeader(deviceIDHeader)
	if deviceID == "" {
		deviceID = uuid.NewString()
	}

	resolver := services.GetSessionResolver()
	now := time.Now()
	resolution := resolver.Resolve(deviceID, now)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"device_id":           deviceID,
			"outcome":             resolution.Outcome,
			"table":               resolution.Table,
			"phone":               resolution.Phone,
			"show_install_prompt": resolver.ShouldShowInstallPrompt(deviceID, now),
			"server_time":         utils.FormatNepalDateTime(now),
		},
	})
}

// ScanTable handles POST /api/v1/session/scan - records a table QR scan
func ScanTable(c *gin.Context) {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return
	}

	var req ScanTableRequest
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

	settings, err := loadSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load settings",
			},
		})
		return
	}

	if req.Table < 1 || req.Table > settings.TableCount {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_TABLE",
				"message": "Invalid table number",
			},
		})
		return
	}

	resolver := services.GetSessionResolver()
	if err := resolver.BindTable(deviceID, req.Table, time.Now()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SESSION_ERROR",
				"message": "Failed to save session",
			},
		})
		return
	}

	phone, _ := resolver.Store().GetPhone(deviceID)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"table": req.Table,
			"phone": phone,
		},
	})
}

// SavePhone handles POST /api/v1/session/phone - validates and saves the
// customer phone for this device
func SavePhone(c *gin.Context) {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return
	}

	var req PhoneRequest
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

	if !services.ValidPhone(req.Phone) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_PHONE",
				"message": "Phone number must be exactly 10 digits",
			},
		})
		return
	}

	if err := services.GetSessionResolver().BindPhone(deviceID, req.Phone, time.Now()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SESSION_ERROR",
				"message": "Failed to save phone",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"phone": req.Phone,
		},
	})
}

// DismissInstallPrompt handles POST /api/v1/session/install-prompt - records
// that the install nudge was shown so it is rate limited to once per day
func DismissInstallPrompt(c *gin.Context) {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return
	}

	if err := services.GetSessionResolver().MarkInstallPromptShown(deviceID, time.Now()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SESSION_ERROR",
				"message": "Failed to record install prompt",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// loadSettings fetches the singleton settings row
func loadSettings() (*models.Settings, error) {
	var settings models.Settings
	if err := config.GetDB().First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}
