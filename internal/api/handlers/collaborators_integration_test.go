package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Conceptual-Machines/fable-api/internal/config"
	"github.com/Conceptual-Machines/fable-api/internal/models"
	"github.com/Conceptual-Machines/fable-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type collaboratorEnv struct {
	db     *gorm.DB
	router *gin.Engine
	owner  *models.User
	guest  *models.User
	story  *models.Story
}

func setupCollaboratorEnv(t *testing.T) *collaboratorEnv {
	t.Helper()

	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", models.RoleUser, 5)
	guest := createTestUser(t, db, "guest@example.com", models.RoleUser, 5)

	story := &models.Story{
		PublicID:       uuid.New().String(),
		UserID:         owner.ID,
		Title:          "The Lantern Road",
		Mood:           "happy",
		Style:          "gpt4",
		Engine:         "gpt4-narrative",
		Paragraphs:     models.StringList{"One.", "Two.", "Three."},
		WordCount:      3,
		CurrentVersion: 1,
	}
	require.NoError(t, db.Create(story).Error)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(actAs(owner))

	handler := NewCollaboratorHandler(db, services.NewEmailService(db, config.Load()))
	router.POST("/api/v1/stories/:id/collaborators", handler.Add)
	router.GET("/api/v1/stories/:id/collaborators", handler.List)
	router.DELETE("/api/v1/stories/:id/collaborators/:user_id", handler.Remove)

	return &collaboratorEnv{db: db, router: router, owner: owner, guest: guest, story: story}
}

func (env *collaboratorEnv) invite(t *testing.T, email, role string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(map[string]string{"email": email, "role": role})
	require.NoError(t, err)

	req, err := http.NewRequest("POST",
		fmt.Sprintf("/api/v1/stories/%s/collaborators", env.story.PublicID), bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env *collaboratorEnv) remove(t *testing.T, userID uint) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest("DELETE",
		fmt.Sprintf("/api/v1/stories/%s/collaborators/%d", env.story.PublicID, userID), nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestAddCollaborator(t *testing.T) {
	env := setupCollaboratorEnv(t)

	w := env.invite(t, env.guest.Email, "editor")
	require.Equal(t, http.StatusCreated, w.Code)

	var collab models.Collaborator
	require.NoError(t, env.db.Where("story_id = ? AND user_id = ?",
		env.story.ID, env.guest.ID).First(&collab).Error)
	assert.Equal(t, models.CollaboratorRoleEditor, collab.Role)
	assert.Equal(t, env.owner.ID, collab.InvitedByID)
}

func TestAddCollaboratorUpdatesRole(t *testing.T) {
	env := setupCollaboratorEnv(t)

	require.Equal(t, http.StatusCreated, env.invite(t, env.guest.Email, "viewer").Code)
	require.Equal(t, http.StatusCreated, env.invite(t, env.guest.Email, "editor").Code)

	var count int64
	require.NoError(t, env.db.Unscoped().Model(&models.Collaborator{}).
		Where("story_id = ? AND user_id = ?", env.story.ID, env.guest.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var collab models.Collaborator
	require.NoError(t, env.db.Where("story_id = ? AND user_id = ?",
		env.story.ID, env.guest.ID).First(&collab).Error)
	assert.Equal(t, models.CollaboratorRoleEditor, collab.Role)
}

// A removed collaborator leaves a row behind that the unique index on
// (story_id, user_id) still covers. Re-inviting them has to revive that
// row instead of failing on a duplicate key.
func TestReinviteAfterRemoval(t *testing.T) {
	env := setupCollaboratorEnv(t)

	require.Equal(t, http.StatusCreated, env.invite(t, env.guest.Email, "editor").Code)
	require.Equal(t, http.StatusOK, env.remove(t, env.guest.ID).Code)

	// Removed: the default scope no longer sees the row
	var collab models.Collaborator
	err := env.db.Where("story_id = ? AND user_id = ?",
		env.story.ID, env.guest.ID).First(&collab).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	w := env.invite(t, env.guest.Email, "viewer")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var count int64
	require.NoError(t, env.db.Unscoped().Model(&models.Collaborator{}).
		Where("story_id = ? AND user_id = ?", env.story.ID, env.guest.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.NoError(t, env.db.Where("story_id = ? AND user_id = ?",
		env.story.ID, env.guest.ID).First(&collab).Error)
	assert.Equal(t, models.CollaboratorRoleViewer, collab.Role)
	assert.False(t, collab.DeletedAt.Valid)
}

func TestRemoveCollaboratorNotFound(t *testing.T) {
	env := setupCollaboratorEnv(t)

	w := env.remove(t, env.guest.ID)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
