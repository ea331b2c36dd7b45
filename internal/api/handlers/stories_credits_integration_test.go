package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Conceptual-Machines/fable-api/internal/catalog"
	"github.com/Conceptual-Machines/fable-api/internal/config"
	"github.com/Conceptual-Machines/fable-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupStoryCreditsEnv(t *testing.T, startingCredits int) (*gorm.DB, *gin.Engine, *models.User) {
	t.Helper()

	db := newTestDB(t)
	user := createTestUser(t, db, "writer@example.com", models.RoleUser, startingCredits)

	cat, err := catalog.Load()
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(actAs(user))
	router.POST("/api/v1/stories", NewStoryHandler(db, config.Load(), cat, nil).Create)

	return db, router, user
}

func creditBalance(t *testing.T, db *gorm.DB, userID uint) int {
	t.Helper()

	var credits models.UserCredits
	require.NoError(t, db.Where("user_id = ?", userID).First(&credits).Error)
	return credits.Credits
}

func generateStory(t *testing.T, router *gin.Engine, payload map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest("POST", "/api/v1/stories", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateStoryChargesOneCredit(t *testing.T) {
	db, router, user := setupStoryCreditsEnv(t, 3)

	w := generateStory(t, router, map[string]interface{}{"mood": "happy", "style": "gpt4"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp["credits_charged"])
	assert.Equal(t, float64(2), resp["credits_remaining"])

	assert.Equal(t, 2, creditBalance(t, db, user.ID))

	var storyCount int64
	require.NoError(t, db.Model(&models.Story{}).Count(&storyCount).Error)
	assert.Equal(t, int64(1), storyCount)
}

// A failed save must hand back the up-front charge, or the user pays for
// a story that never existed.
func TestCreateStoryRefundsWhenSaveFails(t *testing.T) {
	db, router, user := setupStoryCreditsEnv(t, 3)

	// Break persistence: the save transaction rolls back when the version
	// snapshot cannot be written
	require.NoError(t, db.Migrator().DropTable(&models.StoryVersion{}))

	w := generateStory(t, router, map[string]interface{}{"mood": "nervous", "style": "bert"})
	require.Equal(t, http.StatusInternalServerError, w.Code)

	assert.Equal(t, 3, creditBalance(t, db, user.ID))

	var storyCount int64
	require.NoError(t, db.Model(&models.Story{}).Count(&storyCount).Error)
	assert.Equal(t, int64(0), storyCount)
}

func TestCreateStoryStreamRefundsWhenSaveFails(t *testing.T) {
	db, router, user := setupStoryCreditsEnv(t, 3)

	require.NoError(t, db.Migrator().DropTable(&models.StoryVersion{}))

	w := generateStory(t, router, map[string]interface{}{
		"mood": "calm", "style": "llama2", "stream": true,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"error"`)

	assert.Equal(t, 3, creditBalance(t, db, user.ID))
}
