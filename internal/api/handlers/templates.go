package handlers

import (
	"net/http"

	"github.com/Conceptual-Machines/fable-api/internal/catalog"
	"github.com/gin-gonic/gin"
)

type TemplateHandler struct {
	catalog *catalog.Catalog
}

func NewTemplateHandler(cat *catalog.Catalog) *TemplateHandler {
	return &TemplateHandler{catalog: cat}
}

// ListTemplates returns the story template library
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": h.catalog.Templates()})
}

// GetTemplate returns a single template by key
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	key := c.Param("key")
	tpl, ok := h.catalog.Template(key)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": tpl})
}
