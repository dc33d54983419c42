package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/chiyadani/chiyadani-api/config"
	"github.com/chiyadani/chiyadani-api/services"
)

// UpdateSettingsRequest represents the request body for updating settings
type UpdateSettingsRequest struct {
	RestaurantName *string `json:"restaurant_name"`
	TableCount     *int    `json:"table_count" binding:"omitempty,gte=1"`
	WifiSSID       *string `json:"wifi_ssid"`
	WifiPassword   *string `json:"wifi_password"`
	BaseURL        *string `json:"base_url"`
	CounterAsAdmin *bool   `json:"counter_as_admin"`
}

// GetPublicSettings handles GET /api/v1/settings - the subset customers see
func GetPublicSettings(c *gin.Context) {
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

	var logoURL *string
	if settings.LogoS3Key != nil {
		if url, err := services.GetImageService().GetImageURL(*settings.LogoS3Key); err == nil && url != "" {
			logoURL = &url
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"restaurant_name": settings.RestaurantName,
			"table_count":     settings.TableCount,
			"wifi_ssid":       settings.WifiSSID,
			"wifi_password":   settings.WifiPassword,
			"logo_url":        logoURL,
		},
	})
}

// GetSettings handles GET /api/v1/admin/settings - the full settings row
func GetSettings(c *gin.Context) {
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

	if settings.LogoS3Key != nil {
		if url, err := services.GetImageService().GetImageURL(*settings.LogoS3Key); err == nil && url != "" {
			settings.LogoURL = &url
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    settings,
	})
}

// UpdateSettings handles PUT /api/v1/admin/settings (admin only)
func UpdateSettings(c *gin.Context) {
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

	var req UpdateSettingsRequest
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

	if req.TableCount != nil && *req.TableCount < 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Table count must be at least 1",
			},
		})
		return
	}

	if req.RestaurantName != nil {
		settings.RestaurantName = *req.RestaurantName
	}
	if req.TableCount != nil {
		settings.TableCount = *req.TableCount
	}
	if req.WifiSSID != nil {
		settings.WifiSSID = *req.WifiSSID
	}
	if req.WifiPassword != nil {
		settings.WifiPassword = *req.WifiPassword
	}
	if req.BaseURL != nil {
		settings.BaseURL = strings.TrimRight(*req.BaseURL, "/")
	}
	if req.CounterAsAdmin != nil {
		settings.CounterAsAdmin = *req.CounterAsAdmin
	}

	if err := config.GetDB().Save(settings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update settings",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    settings,
	})
}

// ListTableQRCodes handles GET /api/v1/admin/settings/qrcodes - the per-table
// URLs encoded into printed QR codes (admin only)
func ListTableQRCodes(c *gin.Context) {
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

	base := strings.TrimRight(settings.BaseURL, "/")
	codes := make([]gin.H, 0, settings.TableCount)
	for table := 1; table <= settings.TableCount; table++ {
		codes = append(codes, gin.H{
			"table": table,
			"url":   fmt.Sprintf("%s/table/%d", base, table),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    codes,
	})
}
