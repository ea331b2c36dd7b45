package handlers

import (
	"fmt"
	"testing"

	"github.com/Conceptual-Machines/fable-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a throwaway in-memory database so handler tests can walk
// the real gorm paths without a Postgres instance.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.UserCredits{},
		&models.UsageLog{},
		&models.Story{},
		&models.StoryVersion{},
		&models.Collaborator{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email, role string, credits int) *models.User {
	t.Helper()

	user := &models.User{
		Email:         email,
		Name:          "Test User",
		Role:          role,
		IsActive:      true,
		EmailVerified: true,
	}
	require.NoError(t, user.HashPassword("secret"))
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&models.UserCredits{
		UserID:  user.ID,
		Credits: credits,
	}).Error)
	return user
}

// actAs simulates an authenticated session for the given user.
func actAs(user *models.User) func(c *gin.Context) {
	return func(c *gin.Context) {
		c.Set("user", *user)
		c.Set("user_id", user.ID)
		c.Next()
	}
}
