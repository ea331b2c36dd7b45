package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupMoodRouter creates a minimal test router with just the mood endpoints
func setupMoodRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	// No CloudWatch client in tests; the handler tolerates nil
	moodHandler := NewMoodHandler(nil)
	router.POST("/api/v1/moods/classify", moodHandler.Classify)
	router.GET("/api/v1/moods", moodHandler.ListMoods)
	router.GET("/api/v1/moods/:label", moodHandler.GetMood)

	return router
}

func classifyRequest(t *testing.T, router *gin.Engine, text string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(map[string]string{"text": text})
	require.NoError(t, err)

	req, err := http.NewRequest("POST", "/api/v1/moods/classify", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestClassifyEndpoint(t *testing.T) {
	router := setupMoodRouter()

	w := classifyRequest(t, router, "I feel so happy and joyful today")
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, "happy", response["mood"])

	confidence, ok := response["confidence"].(float64)
	require.True(t, ok, "confidence should be a number")
	assert.Greater(t, confidence, 0.5)
	assert.LessOrEqual(t, confidence, 1.0)

	insight, ok := response["insight"].(map[string]interface{})
	require.True(t, ok, "response should carry the mood insight")
	assert.NotEmpty(t, insight["description"])
}

func TestClassifyEndpointFallback(t *testing.T) {
	router := setupMoodRouter()

	// No keyword in any table, long enough to pass validation
	w := classifyRequest(t, router, "the quarterly spreadsheet needs new column widths")
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, "calm", response["mood"])
	assert.InDelta(t, 0.2, response["confidence"], 0.001)
}

func TestClassifyEndpointRejectsBadInput(t *testing.T) {
	router := setupMoodRouter()

	tests := []struct {
		name string
		text string
	}{
		{"too short", "ok"},
		{"whitespace only", "     "},
		{"too long", strings.Repeat("a very long mood description ", 30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := classifyRequest(t, router, tt.text)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	// Missing body entirely
	req, err := http.NewRequest("POST", "/api/v1/moods/classify", nil)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListMoodsEndpoint(t *testing.T) {
	router := setupMoodRouter()

	req, err := http.NewRequest("GET", "/api/v1/moods", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Moods []struct {
			Label       string   `json:"label"`
			Description string   `json:"description"`
			Themes      []string `json:"themes"`
			Genre       string   `json:"genre"`
		} `json:"moods"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	require.Len(t, response.Moods, 7)
	for _, m := range response.Moods {
		assert.NotEmpty(t, m.Label)
		assert.NotEmpty(t, m.Description)
		assert.NotEmpty(t, m.Themes)
		assert.NotEmpty(t, m.Genre)
	}
}

func TestGetMoodEndpoint(t *testing.T) {
	router := setupMoodRouter()

	req, err := http.NewRequest("GET", "/api/v1/moods/nervous", nil)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Mood struct {
			Label string `json:"label"`
			Genre string `json:"genre"`
		} `json:"mood"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "nervous", response.Mood.Label)
	assert.Equal(t, "Horror", response.Mood.Genre)

	req, err = http.NewRequest("GET", "/api/v1/moods/melancholic", nil)
	require.NoError(t, err)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
