package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Conceptual-Machines/fable-api/internal/catalog"
	"github.com/Conceptual-Machines/fable-api/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupStoryRouter wires the story creation endpoint without a database.
// Only request validation is exercised here; everything that would touch
// storage returns before the handler reaches it.
func setupStoryRouter(t *testing.T, authenticated bool) *gin.Engine {
	t.Helper()

	cat, err := catalog.Load()
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	if authenticated {
		router.Use(func(c *gin.Context) {
			c.Set("user_id", uint(1))
			c.Next()
		})
	}

	storyHandler := NewStoryHandler(nil, config.Load(), cat, nil)
	router.POST("/api/v1/stories", storyHandler.Create)

	return router
}

func postStory(t *testing.T, router *gin.Engine, payload map[string]interface{}) *httptest.ResponseRecorder {
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

func TestCreateStoryRequiresAuth(t *testing.T) {
	router := setupStoryRouter(t, false)

	w := postStory(t, router, map[string]interface{}{
		"mood":  "happy",
		"style": "gpt4",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateStoryValidation(t *testing.T) {
	router := setupStoryRouter(t, true)

	tests := []struct {
		name    string
		payload map[string]interface{}
		wantMsg string
	}{
		{
			name:    "style is required",
			payload: map[string]interface{}{"mood": "happy"},
		},
		{
			name:    "mood or text is required",
			payload: map[string]interface{}{"style": "gpt4"},
			wantMsg: "Provide a mood or text",
		},
		{
			name: "mood and text are exclusive",
			payload: map[string]interface{}{
				"mood":  "happy",
				"text":  "what a lovely day",
				"style": "gpt4",
			},
			wantMsg: "not both",
		},
		{
			name: "unknown mood",
			payload: map[string]interface{}{
				"mood":  "melancholic",
				"style": "gpt4",
			},
			wantMsg: "invalid mood label",
		},
		{
			name: "unknown style",
			payload: map[string]interface{}{
				"mood":  "happy",
				"style": "gpt5",
			},
			wantMsg: "invalid style profile",
		},
		{
			name: "text too short to classify",
			payload: map[string]interface{}{
				"text":  "ok",
				"style": "gpt4",
			},
			wantMsg: "between",
		},
		{
			name: "text too long to classify",
			payload: map[string]interface{}{
				"text":  strings.Repeat("so very happy today ", 40),
				"style": "gpt4",
			},
			wantMsg: "between",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postStory(t, router, tt.payload)
			require.Equal(t, http.StatusBadRequest, w.Code)

			if tt.wantMsg == "" {
				return
			}
			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			errMsg, _ := response["error"].(string)
			assert.Contains(t, errMsg, tt.wantMsg)
		})
	}
}
