package handlers

import (
	"net/http"

	"github.com/Conceptual-Machines/fable-api/internal/config"
	"github.com/Conceptual-Machines/fable-api/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BootstrapHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewBootstrapHandler(db *gorm.DB, cfg *config.Config) *BootstrapHandler {
	return &BootstrapHandler{db: db, cfg: cfg}
}

type SetAdminRoleRequest struct {
	Email  string `json:"email" binding:"required,email"`
	Secret string `json:"secret" binding:"required"`
}

// SetAdminRole is a one-time endpoint to set a user's role to admin.
// Protected by a secret token from environment; disabled when the
// secret is unset.
func (h *BootstrapHandler) SetAdminRole(c *gin.Context) {
	var req SetAdminRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if h.cfg.AdminBootstrapSecret == "" || req.Secret != h.cfg.AdminBootstrapSecret {
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid secret"})
		return
	}

	// Find user
	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	// Update role
	user.Role = models.RoleAdmin
	user.IsActive = true
	user.EmailVerified = true

	if err := h.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User promoted to admin",
		"user": gin.H{
			"id":             user.ID,
			"email":          user.Email,
			"role":           user.Role,
			"is_active":      user.IsActive,
			"email_verified": user.EmailVerified,
		},
	})
}
