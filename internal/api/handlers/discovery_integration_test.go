package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Conceptual-Machines/fable-api/internal/catalog"
	"github.com/Conceptual-Machines/fable-api/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupDiscoveryRouter wires the read-only catalog endpoints
func setupDiscoveryRouter(t *testing.T) *gin.Engine {
	t.Helper()

	cat, err := catalog.Load()
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.GET("/api/v1/status", ServiceStatus(config.Load(), cat))

	styleHandler := NewStyleHandler(cat)
	router.GET("/api/v1/styles", styleHandler.ListStyles)

	templateHandler := NewTemplateHandler(cat)
	router.GET("/api/v1/templates", templateHandler.ListTemplates)
	router.GET("/api/v1/templates/:key", templateHandler.GetTemplate)

	return router
}

func getJSON(t *testing.T, router *gin.Engine, path string, wantStatus int) map[string]interface{} {
	t.Helper()

	req, err := http.NewRequest("GET", path, nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, wantStatus, w.Code, "GET %s", path)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestServiceStatusEndpoint(t *testing.T) {
	router := setupDiscoveryRouter(t)

	response := getJSON(t, router, "/api/v1/status", http.StatusOK)

	assert.Equal(t, "fable-api", response["service"])

	engines, ok := response["engines"].([]interface{})
	require.True(t, ok)
	assert.Len(t, engines, 4)

	moods, ok := response["moods"].([]interface{})
	require.True(t, ok)
	assert.Len(t, moods, 7)

	formats, ok := response["export_formats"].([]interface{})
	require.True(t, ok)
	assert.Contains(t, formats, "screenplay")
	assert.Contains(t, formats, "json")

	features, ok := response["features"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, features, "email")
	assert.Contains(t, features, "auth_mode")
}

func TestListStylesEndpoint(t *testing.T) {
	router := setupDiscoveryRouter(t)

	response := getJSON(t, router, "/api/v1/styles", http.StatusOK)

	styles, ok := response["styles"].([]interface{})
	require.True(t, ok)
	require.Len(t, styles, 4)

	seen := map[string]bool{}
	for _, raw := range styles {
		entry, ok := raw.(map[string]interface{})
		require.True(t, ok)
		name, _ := entry["style"].(string)
		seen[name] = true
		assert.NotEmpty(t, entry["engine"], "style %s engine", name)
		assert.NotEmpty(t, entry["display_name"], "style %s display name", name)
		assert.NotEmpty(t, entry["description"], "style %s description", name)
	}
	for _, want := range []string{"gpt4", "claude3", "bert", "llama2"} {
		assert.True(t, seen[want], "styles listing is missing %s", want)
	}
}

func TestTemplatesEndpoints(t *testing.T) {
	router := setupDiscoveryRouter(t)

	response := getJSON(t, router, "/api/v1/templates", http.StatusOK)

	templates, ok := response["templates"].([]interface{})
	require.True(t, ok)
	require.NotEmpty(t, templates)

	first, ok := templates[0].(map[string]interface{})
	require.True(t, ok)
	key, _ := first["key"].(string)
	require.NotEmpty(t, key)

	single := getJSON(t, router, "/api/v1/templates/"+key, http.StatusOK)
	tpl, ok := single["template"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, key, tpl["key"])
	assert.NotEmpty(t, tpl["beats"])

	// Unknown keys are a 404, not an empty object
	req, err := http.NewRequest("GET", "/api/v1/templates/space-opera", nil)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
