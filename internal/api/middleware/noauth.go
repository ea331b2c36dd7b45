package middleware

import (
	"errors"
	"net/http"

	"github.com/Conceptual-Machines/fable-api/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const devUserEmail = "dev@localhost"

// NoAuth is the AUTH_MODE=none middleware for local development. Every
// request runs as a shared dev user, created on first use so credits and
// stories still have an owner row.
func NoAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		err := db.Where("email = ?", devUserEmail).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = models.User{
				Email:         devUserEmail,
				Name:          "Local Dev",
				Role:          models.RoleAdmin,
				IsActive:      true,
				EmailVerified: true,
			}
			if hashErr := user.HashPassword("dev"); hashErr != nil {
				err = hashErr
			} else {
				err = db.Create(&user).Error
				if err == nil {
					err = db.Create(&models.UserCredits{
						UserID:  user.ID,
						Credits: models.AdminInitialCredits,
					}).Error
				}
			}
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dev user"})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Next()
	}
}
