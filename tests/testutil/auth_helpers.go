package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/chiyadani/chiyadani-api/config"
	"github.com/chiyadani/chiyadani-api/models"
	"github.com/chiyadani/chiyadani-api/services"
)

// SeedStaff creates a staff account with a bcrypt-hashed password
func SeedStaff(t *testing.T, db *gorm.DB, username, password, role string) *models.Staff {
	t.Helper()

	hash, err := services.HashPassword(password)
	require.NoError(t, err)

	staff := &models.Staff{
		Username:     username,
		PasswordHash: hash,
		Name:         username,
		Role:         role,
	}
	require.NoError(t, db.Create(staff).Error)
	return staff
}

// IssueStaffToken signs a token for the given staff member using the test
// configuration secret
func IssueStaffToken(t *testing.T, cfg *config.Config, staff *models.Staff) string {
	t.Helper()

	token, _, err := services.IssueToken(cfg, staff)
	require.NoError(t, err)
	return token
}
