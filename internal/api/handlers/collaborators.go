package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Conceptual-Machines/fable-api/internal/logger"
	"github.com/Conceptual-Machines/fable-api/internal/middleware"
	"github.com/Conceptual-Machines/fable-api/internal/models"
	"github.com/Conceptual-Machines/fable-api/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CollaboratorHandler struct {
	db           *gorm.DB
	emailService *services.EmailService
}

func NewCollaboratorHandler(db *gorm.DB, emailService *services.EmailService) *CollaboratorHandler {
	return &CollaboratorHandler{
		db:           db,
		emailService: emailService,
	}
}

type AddCollaboratorRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role"` // "viewer" (default) or "editor"
}

type CollaboratorResponse struct {
	models.Collaborator
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Add invites an existing user to a story. Owner only. Inviting the same
// user again updates their role.
func (h *CollaboratorHandler) Add(c *gin.Context) {
	story, access, ok := loadStoryWithAccess(c, h.db, false)
	if !ok {
		return
	}
	if access != accessOwner {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can manage collaborators"})
		return
	}

	var req AddCollaboratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := req.Role
	if role == "" {
		role = models.CollaboratorRoleViewer
	}
	if !models.ValidCollaboratorRole(role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role. Allowed: viewer, editor"})
		return
	}

	var target models.User
	if err := h.db.Where("email = ?", req.Email).First(&target).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No account with that email"})
		return
	}
	if target.ID == story.UserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The owner is already on the story"})
		return
	}

	ownerID, _ := middleware.GetCurrentUserID(c)

	// The lookup is unscoped: a removed collaborator leaves a soft-deleted
	// row behind, and the (story_id, user_id) unique index still covers it.
	// Re-inviting must revive that row, not insert a duplicate.
	var collab models.Collaborator
	err := h.db.Unscoped().Where("story_id = ? AND user_id = ?", story.ID, target.ID).First(&collab).Error
	switch {
	case err == nil:
		// Already invited (or previously removed): restore and update the role
		collab.Role = role
		collab.InvitedByID = ownerID
		collab.DeletedAt = gorm.DeletedAt{}
		if saveErr := h.db.Unscoped().Save(&collab).Error; saveErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update collaborator"})
			return
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		collab = models.Collaborator{
			StoryID:     story.ID,
			UserID:      target.ID,
			Role:        role,
			InvitedByID: ownerID,
		}
		if createErr := h.db.Create(&collab).Error; createErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add collaborator"})
			return
		}
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add collaborator"})
		return
	}

	// Notify by email; failures are logged but don't undo the invite
	inviter, exists := middleware.GetCurrentUser(c)
	inviterName := "A Fable user"
	if exists && inviter.Name != "" {
		inviterName = inviter.Name
	}
	if err := h.emailService.SendCollaboratorEmail(target.Email, inviterName, story.Title, role, story.PublicID); err != nil {
		logger.Error("Failed to send collaborator email", err, logger.Fields{
			"story_id": story.PublicID,
			"email":    target.Email,
		})
	}

	c.JSON(http.StatusCreated, gin.H{
		"collaborator": CollaboratorResponse{
			Collaborator: collab,
			Email:        target.Email,
			Name:         target.Name,
		},
	})
}

// List returns everyone on the story, including the owner
func (h *CollaboratorHandler) List(c *gin.Context) {
	story, _, ok := loadStoryWithAccess(c, h.db, false)
	if !ok {
		return
	}

	var collaborators []models.Collaborator
	if err := h.db.Preload("User").Where("story_id = ?", story.ID).
		Order("created_at ASC").Find(&collaborators).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch collaborators"})
		return
	}

	responses := make([]CollaboratorResponse, 0, len(collaborators))
	for _, collab := range collaborators {
		responses = append(responses, CollaboratorResponse{
			Collaborator: collab,
			Email:        collab.User.Email,
			Name:         collab.User.Name,
		})
	}

	var owner models.User
	ownerInfo := gin.H{}
	if err := h.db.First(&owner, story.UserID).Error; err == nil {
		ownerInfo = gin.H{
			"user_id": owner.ID,
			"email":   owner.Email,
			"name":    owner.Name,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"owner":         ownerInfo,
		"collaborators": responses,
	})
}

// Remove takes a user off a story. The owner can remove anyone; a
// collaborator can remove themselves.
func (h *CollaboratorHandler) Remove(c *gin.Context) {
	story, access, ok := loadStoryWithAccess(c, h.db, false)
	if !ok {
		return
	}

	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	callerID, _ := middleware.GetCurrentUserID(c)
	if access != accessOwner && uint(targetID) != callerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can remove other collaborators"})
		return
	}

	result := h.db.Where("story_id = ? AND user_id = ?", story.ID, uint(targetID)).
		Delete(&models.Collaborator{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove collaborator"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Collaborator not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Collaborator removed"})
}
