package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/chiyadani/chiyadani-api/config"
	"github.com/chiyadani/chiyadani-api/models"
	"golang.org/x/crypto/bcrypt"
	jose "gopkg.in/go-jose/go-jose.v2"
	"gopkg.in/go-jose/go-jose.v2/jwt"
	"gorm.io/gorm"
)

// TokenTTL is the lifetime of an issued staff token
const TokenTTL = 12 * time.Hour

// ErrInvalidCredentials is returned for both unknown usernames and wrong
// passwords so that login failures cannot be used to enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid username or password")

// StaffTokenClaims are the custom claims carried in a staff JWT
type StaffTokenClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Authenticate verifies a staff username and password
func Authenticate(db *gorm.DB, username, password string) (*models.Staff, error) {
	var staff models.Staff
	if err := db.Where("username = ?", username).First(&staff).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &staff, nil
}

// IssueToken signs an HS256 JWT for the authenticated staff member
func IssueToken(cfg *config.Config, staff *models.Staff) (string, time.Time, error) {
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: []byte(cfg.JWTSecret)},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to create signer: %w", err)
	}

	now := time.Now()
	expiry := now.Add(TokenTTL)
	claims := jwt.Claims{
		Subject:  fmt.Sprint(staff.ID),
		Issuer:   cfg.JWTIssuer,
		Audience: jwt.Audience{cfg.JWTAudience},
		IssuedAt: jwt.NewNumericDate(now),
		Expiry:   jwt.NewNumericDate(expiry),
	}
	custom := StaffTokenClaims{Username: staff.Username, Role: staff.Role}

	token, err := jwt.Signed(signer).Claims(claims).Claims(custom).CompactSerialize()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expiry, nil
}

// HashPassword hashes a plaintext password with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
