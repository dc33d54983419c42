package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chiyadani/chiyadani-api/config"
	"github.com/chiyadani/chiyadani-api/middleware"
	"github.com/chiyadani/chiyadani-api/models"
	"github.com/chiyadani/chiyadani-api/services"
)

// LoginRequest represents the request body for staff login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/v1/auth/login - authenticates a staff member and
// issues a token. Unknown users and wrong passwords produce the same
// response so accounts cannot be enumerated.
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Username and password are required",
			},
		})
		return
	}

	staff, err := services.Authenticate(config.GetDB(), req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CREDENTIALS",
				"message": "Invalid username or password",
			},
		})
		return
	}

	token, expiresAt, err := services.IssueToken(config.GetConfig(), staff)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TOKEN_ERROR",
				"message": "Failed to issue token",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"token":      token,
			"expires_at": expiresAt,
			"staff":      staff,
		},
	})
}

// Me handles GET /api/v1/auth/me - returns the authenticated staff profile
func Me(c *gin.Context) {
	staffID, err := middleware.GetStaffID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract staff information",
			},
		})
		return
	}

	var staff models.Staff
	if err := config.GetDB().First(&staff, staffID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STAFF_NOT_FOUND",
				"message": "Staff account not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    staff,
	})
}
