package handlers

import (
	"net/http"

	"github.com/Conceptual-Machines/fable-api/internal/catalog"
	"github.com/Conceptual-Machines/fable-api/internal/config"
	"github.com/Conceptual-Machines/fable-api/internal/export"
	"github.com/Conceptual-Machines/fable-api/internal/mood"
	"github.com/Conceptual-Machines/fable-api/internal/persona"
	"github.com/gin-gonic/gin"
)

// ServiceStatus reports what this deployment can do: the simulated engines,
// the mood labels they write for, the export formats available, and which
// optional integrations are switched on. Clients use it for capability
// discovery instead of hardcoding the enums.
func ServiceStatus(cfg *config.Config, cat *catalog.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		engines := make([]gin.H, 0, len(persona.Styles()))
		for _, engine := range persona.Engines() {
			entry := gin.H{
				"style": engine.Style().String(),
				"name":  engine.Name(),
			}
			if lexicon, err := cat.Lexicon(engine.Style()); err == nil {
				entry["display_name"] = lexicon.DisplayName
			}
			engines = append(engines, entry)
		}

		moods := make([]string, 0, len(mood.Labels()))
		for _, label := range mood.Labels() {
			moods = append(moods, label.String())
		}

		formats := make([]string, 0, len(export.Formats()))
		for _, f := range export.Formats() {
			formats = append(formats, f.String())
		}

		c.JSON(http.StatusOK, gin.H{
			"service":        "fable-api",
			"engines":        engines,
			"moods":          moods,
			"export_formats": formats,
			"templates":      len(cat.Templates()),
			"features": gin.H{
				"email":      cfg.EmailEnabled,
				"langfuse":   cfg.LangfuseEnabled,
				"cloudwatch": cfg.CloudWatchEnabled,
				"sentry":     cfg.SentryDSN != "",
				"auth_mode":  cfg.AuthMode,
			},
		})
	}
}
