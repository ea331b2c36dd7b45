package handlers

import (
	"net/http"

	"github.com/Conceptual-Machines/fable-api/internal/catalog"
	"github.com/Conceptual-Machines/fable-api/internal/mood"
	"github.com/Conceptual-Machines/fable-api/internal/persona"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthCheck returns the health status of the API, including database
// connectivity and the loaded content catalog.
func HealthCheck(db *gorm.DB, cat *catalog.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		dbStatus := "connected"

		sqlDB, err := db.DB()
		if err != nil || sqlDB.Ping() != nil {
			status = http.StatusServiceUnavailable
			dbStatus = "unreachable"
		}

		overall := "healthy"
		if status != http.StatusOK {
			overall = "degraded"
		}

		c.JSON(status, gin.H{
			"status": overall,
			"database": gin.H{
				"status": dbStatus,
			},
			"catalog": gin.H{
				"moods":     len(mood.Labels()),
				"styles":    len(persona.Styles()),
				"templates": len(cat.Templates()),
			},
		})
	}
}
