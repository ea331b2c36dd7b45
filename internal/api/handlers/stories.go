package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Conceptual-Machines/fable-api/internal/catalog"
	"github.com/Conceptual-Machines/fable-api/internal/config"
	"github.com/Conceptual-Machines/fable-api/internal/content"
	"github.com/Conceptual-Machines/fable-api/internal/export"
	"github.com/Conceptual-Machines/fable-api/internal/logger"
	"github.com/Conceptual-Machines/fable-api/internal/metrics"
	"github.com/Conceptual-Machines/fable-api/internal/middleware"
	"github.com/Conceptual-Machines/fable-api/internal/models"
	"github.com/Conceptual-Machines/fable-api/internal/mood"
	"github.com/Conceptual-Machines/fable-api/internal/observability"
	"github.com/Conceptual-Machines/fable-api/internal/persona"
	"github.com/Conceptual-Machines/fable-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Access levels returned alongside a story
const (
	accessOwner = "owner"
)

type StoryHandler struct {
	db             *gorm.DB
	cfg            *config.Config
	generator      *content.Generator
	creditsService *services.CreditsService
	metricsClient  *metrics.Client
	sentryMetrics  *metrics.SentryMetrics
}

func NewStoryHandler(db *gorm.DB, cfg *config.Config, cat *catalog.Catalog, metricsClient *metrics.Client) *StoryHandler {
	return &StoryHandler{
		db:             db,
		cfg:            cfg,
		generator:      content.NewGenerator(cat),
		creditsService: services.NewCreditsService(db),
		metricsClient:  metricsClient,
		sentryMetrics:  metrics.NewSentryMetrics(),
	}
}

type CreateStoryRequest struct {
	// Text is classified into a mood. Mood names one directly. Exactly one
	// of the two must be set.
	Text  string `json:"text"`
	Mood  string `json:"mood"`
	Style string `json:"style" binding:"required"`

	Stream bool `json:"stream"` // Deliver the story as SSE events
}

type CreateVersionRequest struct {
	Title      string   `json:"title"`
	Tagline    string   `json:"tagline"`
	Paragraphs []string `json:"paragraphs" binding:"required,min=3"`
	Note       string   `json:"note"`
}

// StreamEvent is one server-sent event during streamed generation
type StreamEvent struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

// Create generates a story bundle and saves it. The mood comes either from
// an explicit label or from classifying the submitted text.
func (h *StoryHandler) Create(c *gin.Context) {
	var req CreateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, exists := middleware.GetCurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	inputText := strings.TrimSpace(req.Text)
	if req.Mood == "" && inputText == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide a mood or text to classify"})
		return
	}
	if req.Mood != "" && inputText != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide either a mood or text, not both"})
		return
	}

	var label mood.Label
	var confidence float64
	if req.Mood != "" {
		parsed, err := mood.ParseLabel(req.Mood)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		label = parsed
	} else {
		if len(inputText) < minClassifyChars || len(inputText) > maxClassifyChars {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Text must be between %d and %d characters", minClassifyChars, maxClassifyChars),
			})
			return
		}
		result := mood.Classify(inputText)
		label = result.Label
		confidence = result.Confidence
	}

	style, err := persona.ParseStyle(req.Style)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Soft warning if credits are low (but allow request to proceed)
	if credits, creditErr := h.creditsService.GetUserCredits(userID); creditErr == nil && credits.Credits < lowCreditThreshold {
		c.Header("X-Credits-Low", "true")
		c.Header("X-Credits-Balance", fmt.Sprintf("%d", credits.Credits))
	}

	// Deduct up front. One overdraft is tolerated; a balance already in
	// overdraft blocks the request.
	creditsCharged := h.creditsService.CalculateCredits(0)
	if err := h.creditsService.DeductCredits(userID, creditsCharged); err != nil {
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
		return
	}

	// Route based on streaming preference
	if req.Stream || c.Query("stream") == "true" {
		h.createStream(c, userID, label, style, inputText, confidence, creditsCharged)
		return
	}

	h.createOneShot(c, userID, label, style, inputText, confidence, creditsCharged)
}

// createOneShot handles non-streaming generation
func (h *StoryHandler) createOneShot(
	c *gin.Context,
	userID uint,
	label mood.Label,
	style persona.Style,
	inputText string,
	confidence float64,
	creditsCharged int,
) {
	startTime := time.Now()

	bundle, err := h.generator.Generate(label, style)
	if err != nil {
		// Enums were validated above, so only a broken catalog reaches this
		h.sentryMetrics.RecordGenerationDuration(c.Request.Context(), time.Since(startTime), false)
		logger.Error("Story generation failed", err, logger.WithContext(c))
		h.refundCharge(userID, creditsCharged)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate story"})
		return
	}

	story, err := h.persistStory(userID, bundle, inputText, confidence)
	if err != nil {
		logger.Error("Failed to save story", err, logger.WithContext(c))
		h.refundCharge(userID, creditsCharged)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save story"})
		return
	}

	duration := time.Since(startTime)
	h.recordGeneration(c, story, bundle, inputText, duration, creditsCharged, false)

	response := gin.H{
		"request_id":      c.GetString("request_id"),
		"story":           story,
		"metrics":         bundle.Metrics,
		"credits_charged": creditsCharged,
	}
	if credits, creditErr := h.creditsService.GetUserCredits(userID); creditErr == nil {
		response["credits_remaining"] = credits.Credits
	}

	c.JSON(http.StatusCreated, response)
}

// createStream delivers the story as SSE events, paragraph by paragraph,
// before sending the saved story as the final result.
func (h *StoryHandler) createStream(
	c *gin.Context,
	userID uint,
	label mood.Label,
	style persona.Style,
	inputText string,
	confidence float64,
	creditsCharged int,
) {
	startTime := time.Now()

	// Set SSE headers
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	h.sendEvent(c, StreamEvent{
		Type:    "status",
		Message: fmt.Sprintf("Composing a %s story in the %s voice", label, style),
	})

	bundle, err := h.generator.Generate(label, style)
	if err != nil {
		h.refundCharge(userID, creditsCharged)
		h.sendEvent(c, StreamEvent{Type: "error", Message: err.Error()})
		return
	}

	for i, paragraph := range bundle.Story {
		h.sendEvent(c, StreamEvent{
			Type: "paragraph",
			Data: map[string]interface{}{
				"index": i,
				"text":  paragraph,
			},
		})
	}

	story, err := h.persistStory(userID, bundle, inputText, confidence)
	if err != nil {
		logger.Error("Failed to save story", err, logger.WithContext(c))
		h.refundCharge(userID, creditsCharged)
		h.sendEvent(c, StreamEvent{Type: "error", Message: "Failed to save story"})
		return
	}

	duration := time.Since(startTime)
	h.recordGeneration(c, story, bundle, inputText, duration, creditsCharged, true)

	resultData := map[string]interface{}{
		"story":           story,
		"metrics":         bundle.Metrics,
		"credits_charged": creditsCharged,
	}
	if credits, creditErr := h.creditsService.GetUserCredits(userID); creditErr == nil {
		resultData["credits_remaining"] = credits.Credits
	}
	h.sendEvent(c, StreamEvent{
		Type:    "result",
		Message: "Generation complete",
		Data:    resultData,
	})

	h.sendEvent(c, StreamEvent{
		Type:    "done",
		Message: "Stream complete",
		Data: map[string]interface{}{
			"request_id": c.GetString("request_id"),
		},
	})
}

func (h *StoryHandler) sendEvent(c *gin.Context, event StreamEvent) {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(c.Writer, "data: %s\n\n", eventJSON)
	c.Writer.Flush()
}

// refundCharge returns the up-front deduction when the request fails after
// it. The request already failed, so a refund error is only logged.
func (h *StoryHandler) refundCharge(userID uint, creditsCharged int) {
	if err := h.creditsService.RefundCredits(userID, creditsCharged); err != nil {
		logger.Error("Failed to refund credits", err, logger.Fields{
			"user_id": userID,
			"credits": creditsCharged,
		})
	}
}

// persistStory saves the bundle as a story with its first version
func (h *StoryHandler) persistStory(userID uint, bundle content.Bundle, inputText string, confidence float64) (*models.Story, error) {
	story := &models.Story{
		PublicID:       uuid.New().String(),
		UserID:         userID,
		Title:          bundle.Title,
		Tagline:        bundle.Tagline,
		Mood:           bundle.Mood.String(),
		Style:          bundle.Style.String(),
		Engine:         bundle.Engine,
		InputText:      inputText,
		Confidence:     confidence,
		Paragraphs:     models.StringList(bundle.Story),
		Themes:         models.StringList(bundle.Themes),
		Poster:         models.PosterColumn(bundle.Poster),
		Soundtrack:     models.TrackList(bundle.Soundtrack),
		WordCount:      bundle.Metrics.WordCount,
		CurrentVersion: 1,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(story).Error; err != nil {
			return err
		}
		version := &models.StoryVersion{
			StoryID:    story.ID,
			Number:     1,
			EditorID:   userID,
			Title:      bundle.Title,
			Tagline:    bundle.Tagline,
			Paragraphs: models.StringList(bundle.Story),
		}
		return tx.Create(version).Error
	})
	if err != nil {
		return nil, err
	}
	return story, nil
}

// recordGeneration logs usage and emits metrics and traces for one story
func (h *StoryHandler) recordGeneration(
	c *gin.Context,
	story *models.Story,
	bundle content.Bundle,
	inputText string,
	duration time.Duration,
	creditsCharged int,
	streamed bool,
) {
	usage := observability.EstimateUsage(inputText, bundle.Story)

	usageLog := &models.UsageLog{
		UserID:         story.UserID,
		Engine:         bundle.Engine,
		Mood:           story.Mood,
		Style:          story.Style,
		TotalTokens:    usage.TotalTokens,
		InputTokens:    usage.InputTokens,
		OutputTokens:   usage.OutputTokens,
		CreditsCharged: creditsCharged,
		Streamed:       streamed,
		DurationMS:     int(duration.Milliseconds()),
		RequestID:      c.GetString("request_id"),
	}
	if err := h.creditsService.LogUsage(usageLog); err != nil {
		logger.Error("Failed to log usage", err, logger.Fields{"story_id": story.PublicID})
	}

	logger.LogStoryGeneration(c.Request.Context(), bundle.Engine, duration, usage.Map(), logger.Fields{
		"story_id": story.PublicID,
		"mood":     story.Mood,
		"style":    story.Style,
		"streamed": streamed,
	})

	if h.metricsClient != nil {
		h.metricsClient.RecordGeneration(story.Mood, story.Style)
		h.metricsClient.RecordEngineTokens(bundle.Engine, usage.TotalTokens, usage.InputTokens, usage.OutputTokens)
		h.metricsClient.RecordGenerationDuration(duration, true)
	}

	ctx := c.Request.Context()
	h.sentryMetrics.RecordEngineTokens(ctx, bundle.Engine, usage.TotalTokens, usage.InputTokens, usage.OutputTokens)
	h.sentryMetrics.RecordGenerationDuration(ctx, duration, true)

	trace := observability.GetClient().StartTrace(ctx, "story.generate", map[string]interface{}{
		"user_id":  story.UserID,
		"story_id": story.PublicID,
		"streamed": streamed,
	})
	gen := trace.Generation(bundle.Engine, nil)
	gen.LogEngineOutput(bundle.Engine, map[string]interface{}{
		"mood":  story.Mood,
		"style": story.Style,
		"text":  inputText,
	}, bundle.Story, usage, map[string]interface{}{
		"title": bundle.Title,
	})
	gen.Finish()
	trace.Finish()
}

// accessibleStories builds the query for stories the user owns or
// collaborates on, with optional mood/style filters from the request.
func (h *StoryHandler) accessibleStories(c *gin.Context, userID uint) *gorm.DB {
	query := h.db.Model(&models.Story{}).
		Joins("LEFT JOIN collaborators ON collaborators.story_id = stories.id AND collaborators.user_id = ? AND collaborators.deleted_at IS NULL", userID).
		Where("stories.user_id = ? OR collaborators.user_id IS NOT NULL", userID)

	if m := c.Query("mood"); m != "" {
		query = query.Where("stories.mood = ?", m)
	}
	if s := c.Query("style"); s != "" {
		query = query.Where("stories.style = ?", s)
	}
	return query
}

// List returns paginated stories the user owns or collaborates on
func (h *StoryHandler) List(c *gin.Context) {
	userID, exists := middleware.GetCurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	page := 1
	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	pageSize := 20
	if sizeStr := c.Query("page_size"); sizeStr != "" {
		if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 {
			pageSize = s
			if pageSize > maxHistoryPageSize {
				pageSize = maxHistoryPageSize
			}
		}
	}

	offset := (page - 1) * pageSize

	var totalCount int64
	if err := h.accessibleStories(c, userID).Count(&totalCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count stories"})
		return
	}

	var stories []models.Story
	if err := h.accessibleStories(c, userID).
		Order("stories.created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&stories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stories": stories,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total_count": totalCount,
			"total_pages": (totalCount + int64(pageSize) - 1) / int64(pageSize),
		},
	})
}

// loadStoryWithAccess fetches the story in the path and checks the caller's
// access. On failure the response is already written and ok is false. The
// returned access is "owner" or the collaborator role.
func loadStoryWithAccess(c *gin.Context, db *gorm.DB, needEdit bool) (*models.Story, string, bool) {
	userID, exists := middleware.GetCurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, "", false
	}

	var story models.Story
	if err := db.Where("public_id = ?", c.Param("id")).First(&story).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Story not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load story"})
		}
		return nil, "", false
	}

	if story.UserID == userID {
		return &story, accessOwner, true
	}

	// Respond 404 rather than 403 so story IDs are not probeable
	var collab models.Collaborator
	if err := db.Where("story_id = ? AND user_id = ?", story.ID, userID).First(&collab).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Story not found"})
		return nil, "", false
	}

	if needEdit && !collab.CanEdit() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Editor access required"})
		return nil, "", false
	}

	return &story, collab.Role, true
}

// Get returns one story with the caller's access level
func (h *StoryHandler) Get(c *gin.Context) {
	story, access, ok := loadStoryWithAccess(c, h.db, false)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"story":  story,
		"access": access,
	})
}

// Delete removes a story with its versions and collaborators. Owner only.
func (h *StoryHandler) Delete(c *gin.Context) {
	story, access, ok := loadStoryWithAccess(c, h.db, false)
	if !ok {
		return
	}
	if access != accessOwner {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can delete a story"})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("story_id = ?", story.ID).Delete(&models.StoryVersion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("story_id = ?", story.ID).Delete(&models.Collaborator{}).Error; err != nil {
			return err
		}
		return tx.Delete(story).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete story"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Story deleted successfully"})
}

// CreateVersion saves an edited snapshot and makes it current. Requires
// owner or editor access.
func (h *StoryHandler) CreateVersion(c *gin.Context) {
	story, _, ok := loadStoryWithAccess(c, h.db, true)
	if !ok {
		return
	}

	var req CreateVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for _, paragraph := range req.Paragraphs {
		if strings.TrimSpace(paragraph) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Paragraphs cannot be empty"})
			return
		}
	}

	userID, _ := middleware.GetCurrentUserID(c)

	title := req.Title
	if title == "" {
		title = story.Title
	}
	tagline := req.Tagline
	if tagline == "" {
		tagline = story.Tagline
	}

	var version models.StoryVersion
	err := h.db.Transaction(func(tx *gorm.DB) error {
		// Lock the story row so concurrent edits cannot take the same number
		var locked models.Story
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&locked, story.ID).Error; err != nil {
			return err
		}

		version = models.StoryVersion{
			StoryID:    story.ID,
			Number:     locked.CurrentVersion + 1,
			EditorID:   userID,
			Note:       req.Note,
			Title:      title,
			Tagline:    tagline,
			Paragraphs: models.StringList(req.Paragraphs),
		}
		if err := tx.Create(&version).Error; err != nil {
			return err
		}

		return tx.Model(&models.Story{}).Where("id = ?", story.ID).Updates(map[string]interface{}{
			"title":           title,
			"tagline":         tagline,
			"paragraphs":      models.StringList(req.Paragraphs),
			"word_count":      countWords(req.Paragraphs),
			"current_version": version.Number,
		}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save version"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"version":         version,
		"current_version": version.Number,
	})
}

// ListVersions returns every saved snapshot of a story, oldest first
func (h *StoryHandler) ListVersions(c *gin.Context) {
	story, _, ok := loadStoryWithAccess(c, h.db, false)
	if !ok {
		return
	}

	var versions []models.StoryVersion
	if err := h.db.Where("story_id = ?", story.ID).Order("number ASC").Find(&versions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch versions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"versions":        versions,
		"current_version": story.CurrentVersion,
	})
}

// Export renders the story's current text in the requested format and sends
// it as a download
func (h *StoryHandler) Export(c *gin.Context) {
	story, _, ok := loadStoryWithAccess(c, h.db, false)
	if !ok {
		return
	}

	format, err := export.ParseFormat(c.DefaultQuery("format", "text"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	poster := content.Poster(story.Poster)
	doc := export.Document{
		Title:      story.Title,
		Tagline:    story.Tagline,
		Mood:       story.Mood,
		Style:      story.Style,
		Engine:     story.Engine,
		Story:      []string(story.Paragraphs),
		Themes:     []string(story.Themes),
		Poster:     &poster,
		Soundtrack: []catalog.Track(story.Soundtrack),
	}

	var owner models.User
	if err := h.db.First(&owner, story.UserID).Error; err == nil {
		doc.Author = owner.Name
	}

	data, contentType, err := export.Render(doc, format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(doc, format)))
	c.Data(http.StatusOK, contentType, data)
}

func countWords(paragraphs []string) int {
	words := 0
	for _, paragraph := range paragraphs {
		words += len(strings.Fields(paragraph))
	}
	return words
}
