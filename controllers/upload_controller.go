package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chiyadani/chiyadani-api/config"
	"github.com/chiyadani/chiyadani-api/services"
	"github.com/chiyadani/chiyadani-api/utils"
)

// UploadMenuItemImage handles POST /api/v1/menu/:id/image - uploads a PNG
// image for a menu item, replacing any previous one (admin only)
func UploadMenuItemImage(c *gin.Context) {
	item, ok := findMenuItem(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "An image file is required",
			},
		})
		return
	}

	imageService := services.GetImageService()
	s3Key, err := imageService.UploadImage(fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    uploadErr.Code,
					"message": uploadErr.Message,
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_ERROR",
				"message": "Failed to upload image",
			},
		})
		return
	}

	// Drop the replaced image after the new one is stored
	previous := item.ImageS3Key
	item.ImageS3Key = &s3Key
	if err := config.GetDB().Save(item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save menu item image",
			},
		})
		return
	}
	if previous != nil && *previous != s3Key {
		if err := imageService.DeleteImage(*previous); err != nil {
			c.Error(err)
		}
	}

	if url, err := imageService.GetImageURL(s3Key); err == nil && url != "" {
		item.ImageURL = &url
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    item,
	})
}

// UploadLogo handles POST /api/v1/settings/logo - uploads the restaurant
// logo shown on the landing screen (admin only)
func UploadLogo(c *gin.Context) {
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

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "A logo file is required",
			},
		})
		return
	}

	imageService := services.GetImageService()
	s3Key, err := imageService.UploadImage(fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    uploadErr.Code,
					"message": uploadErr.Message,
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_ERROR",
				"message": "Failed to upload logo",
			},
		})
		return
	}

	previous := settings.LogoS3Key
	settings.LogoS3Key = &s3Key
	if err := config.GetDB().Save(settings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save logo",
			},
		})
		return
	}
	if previous != nil && *previous != s3Key {
		if err := imageService.DeleteImage(*previous); err != nil {
			c.Error(err)
		}
	}

	if url, err := imageService.GetImageURL(s3Key); err == nil && url != "" {
		settings.LogoURL = &url
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    settings,
	})
}
