package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Conceptual-Machines/fable-api/internal/logger"
	"github.com/Conceptual-Machines/fable-api/internal/metrics"
	"github.com/Conceptual-Machines/fable-api/internal/mood"
	"github.com/gin-gonic/gin"
)

type MoodHandler struct {
	metricsClient *metrics.Client
	sentryMetrics *metrics.SentryMetrics
}

func NewMoodHandler(metricsClient *metrics.Client) *MoodHandler {
	return &MoodHandler{
		metricsClient: metricsClient,
		sentryMetrics: metrics.NewSentryMetrics(),
	}
}

type ClassifyRequest struct {
	Text string `json:"text" binding:"required"`
}

// Classify maps free text onto one of the seven mood labels. Classification
// itself never fails; only inputs outside the accepted length are rejected.
func (h *MoodHandler) Classify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	text := strings.TrimSpace(req.Text)
	if len(text) < minClassifyChars || len(text) > maxClassifyChars {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Text must be between %d and %d characters", minClassifyChars, maxClassifyChars),
		})
		return
	}

	result := mood.Classify(text)
	intensity := mood.Intensity(text)

	insight, err := mood.InsightFor(result.Label)
	if err != nil {
		// Classify only returns declared labels, so this is unreachable
		// unless the insight table loses an entry.
		logger.Error("Missing insight for classified mood", err, logger.Fields{
			"mood": result.Label.String(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve mood insight"})
		return
	}

	if h.metricsClient != nil {
		h.metricsClient.RecordClassification(result.Label.String(), result.Confidence)
	}
	h.sentryMetrics.RecordClassification(c.Request.Context(), result.Label.String(), result.Confidence)

	c.JSON(http.StatusOK, gin.H{
		"mood":       result.Label,
		"confidence": result.Confidence,
		"intensity":  intensity,
		"insight":    insight,
	})
}

// ListMoods returns the editorial record for every mood label
func (h *MoodHandler) ListMoods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"moods": mood.Insights()})
}

// GetMood returns the editorial record for one label
func (h *MoodHandler) GetMood(c *gin.Context) {
	label, err := mood.ParseLabel(c.Param("label"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	insight, err := mood.InsightFor(label)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"mood": insight})
}
