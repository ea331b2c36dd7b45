package handlers

import (
	"net/http"

	"github.com/Conceptual-Machines/fable-api/internal/catalog"
	"github.com/Conceptual-Machines/fable-api/internal/persona"
	"github.com/gin-gonic/gin"
)

type StyleHandler struct {
	catalog *catalog.Catalog
}

func NewStyleHandler(cat *catalog.Catalog) *StyleHandler {
	return &StyleHandler{catalog: cat}
}

// ListStyles returns the four style profiles with their engine identity and
// voice description from the tone lexicons.
func (h *StyleHandler) ListStyles(c *gin.Context) {
	styles := make([]gin.H, 0, len(persona.Styles()))
	for _, engine := range persona.Engines() {
		entry := gin.H{
			"style":  engine.Style().String(),
			"engine": engine.Name(),
		}
		if lexicon, err := h.catalog.Lexicon(engine.Style()); err == nil {
			entry["display_name"] = lexicon.DisplayName
			entry["description"] = lexicon.Description
			entry["paragraph_target"] = lexicon.ParagraphTarget
		}
		styles = append(styles, entry)
	}

	c.JSON(http.StatusOK, gin.H{"styles": styles})
}
