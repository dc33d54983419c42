package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"

	"github.com/chiyadani/chiyadani-api/config"
	"github.com/chiyadani/chiyadani-api/models"
)

// StaffClaims contains the custom data carried in a staff token
type StaffClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Validate checks that the token carries a known staff role
func (c StaffClaims) Validate(ctx context.Context) error {
	if c.Role != "admin" && c.Role != "counter" {
		return errors.New("token role must be admin or counter")
	}
	return nil
}

// HasRole checks whether the claims carry a specific role
func (c StaffClaims) HasRole(expected string) bool {
	return c.Role == expected
}

// EnsureValidToken is a middleware that will check the validity of the staff JWT
func EnsureValidToken(cfg *config.Config) gin.HandlerFunc {
	keyFunc := func(ctx context.Context) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	}

	jwtValidator, err := validator.New(
		keyFunc,
		validator.HS256,
		cfg.JWTIssuer,
		[]string{cfg.JWTAudience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &StaffClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		log.Fatalf("Failed to set up the jwt validator: %v", err)
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		log.Printf("Encountered error while validating JWT: %v", err)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		if _, writeErr := w.Write([]byte(`{"success":false,"error":{"code":"INVALID_TOKEN","message":"Failed to validate staff token."}}`)); writeErr != nil {
			log.Printf("Failed to write error response: %v", writeErr)
		}
	}

	middleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(c *gin.Context) {
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			// Store the validated claims in Gin context
			token := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)

			c.Set("staff_id", token.RegisteredClaims.Subject)
			c.Set("validated_claims", token)

			c.Next()
		}

		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)
	}
}

// GetStaffID extracts the staff ID from the Gin context
func GetStaffID(c *gin.Context) (uint, error) {
	raw, exists := c.Get("staff_id")
	if !exists {
		return 0, &AuthError{Code: "MISSING_STAFF_ID", Message: "Staff ID not found in context"}
	}

	subject, ok := raw.(string)
	if !ok {
		return 0, &AuthError{Code: "INVALID_STAFF_ID", Message: "Staff ID is not a string"}
	}

	id, err := strconv.ParseUint(subject, 10, 64)
	if err != nil {
		return 0, &AuthError{Code: "INVALID_STAFF_ID", Message: "Staff ID is not numeric"}
	}

	return uint(id), nil
}

// GetClaims extracts the validated JWT claims from the Gin context
func GetClaims(c *gin.Context) (*validator.ValidatedClaims, error) {
	claims, exists := c.Get("validated_claims")
	if !exists {
		return nil, &AuthError{Code: "MISSING_CLAIMS", Message: "Claims not found in context"}
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return validatedClaims, nil
}

// GetStaffClaims extracts the custom staff claims from the Gin context
func GetStaffClaims(c *gin.Context) (*StaffClaims, error) {
	claims, err := GetClaims(c)
	if err != nil {
		return nil, err
	}

	staffClaims, ok := claims.CustomClaims.(*StaffClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Custom claims are not staff claims"}
	}

	return staffClaims, nil
}

// RequireAdmin is a middleware that restricts a route to admin staff.
// Counter staff pass when settings.CounterAsAdmin is enabled.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := GetStaffClaims(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "MISSING_CLAIMS",
					"message": "Could not retrieve token claims",
				},
			})
			c.Abort()
			return
		}

		if claims.HasRole("admin") {
			c.Next()
			return
		}

		if claims.HasRole("counter") {
			var settings models.Settings
			if err := config.GetDB().First(&settings).Error; err == nil && settings.CounterAsAdmin {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Admin access required",
			},
		})
		c.Abort()
	}
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
