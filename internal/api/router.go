package api

import (
	"github.com/Conceptual-Machines/fable-api/internal/api/handlers"
	apimiddleware "github.com/Conceptual-Machines/fable-api/internal/api/middleware"
	"github.com/Conceptual-Machines/fable-api/internal/catalog"
	"github.com/Conceptual-Machines/fable-api/internal/config"
	"github.com/Conceptual-Machines/fable-api/internal/metrics"
	"github.com/Conceptual-Machines/fable-api/internal/middleware"
	"github.com/Conceptual-Machines/fable-api/internal/services"
	webhandlers "github.com/Conceptual-Machines/fable-api/internal/web/handlers"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, cfg *config.Config, version string, cat *catalog.Catalog, metricsClient *metrics.Client) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking())

	// CORS middleware
	router.Use(apimiddleware.CORS())

	// Serve static files (logo, etc.)
	router.Static("/static", "./static")

	// Protected routes run as a shared dev user when AUTH_MODE=none, and
	// trust the fronting gateway's X-User-* headers when AUTH_MODE=gateway
	authn := middleware.JWTAuth(db, cfg)
	optionalAuthn := middleware.OptionalJWTAuth(db, cfg)
	switch {
	case cfg.IsNoAuthMode():
		authn = apimiddleware.NoAuth(db)
		optionalAuthn = apimiddleware.NoAuth(db)
	case cfg.IsGatewayMode():
		authn = apimiddleware.GatewayAuth()
		optionalAuthn = apimiddleware.OptionalGatewayAuth()
	}

	// Health check
	router.GET("/health", handlers.HealthCheck(db, cat))

	// Capability discovery (moods, engines, export formats)
	router.GET("/api/v1/status", handlers.ServiceStatus(cfg, cat))

	// Bootstrap endpoint (one-time admin setup)
	bootstrapHandler := handlers.NewBootstrapHandler(db, cfg)
	router.POST("/api/bootstrap/set-admin", bootstrapHandler.SetAdminRole)

	// Metrics endpoint and ops dashboard
	metricsHandler := handlers.NewMetricsHandler(version)
	router.GET("/api/metrics", metricsHandler.GetMetrics)
	router.GET("/api/dashboard", handlers.Dashboard)

	// Web pages
	webHandler := webhandlers.NewWebHandler(db, cfg)
	router.GET("/", optionalAuthn, webHandler.Home) // Coming soon/beta signup or redirect to dashboard if logged in
	router.GET("/login", webHandler.Login)
	router.GET("/register", webHandler.Register)
	router.GET("/beta", webHandler.BetaSignup)
	router.GET("/signup/beta", webHandler.BetaSignup) // Alternative URL
	router.GET("/auth/callback", webHandler.OAuthCallback)
	router.GET("/auth/accept-invitation", webHandler.AcceptInvitationPage)
	router.GET("/verify-email", webHandler.VerifyEmailPage)

	// Dashboard (protected)
	router.GET("/dashboard", optionalAuthn, webHandler.Dashboard)

	// Admin Panel (admin only)
	router.GET("/admin", authn, middleware.AdminRequired(), webHandler.AdminPanel)
	router.GET("/admin/invitations", authn, middleware.AdminRequired(), webHandler.InvitationsPanel)

	// HTMX endpoints (protected)
	router.GET("/htmx/usage-history", optionalAuthn, webHandler.UsageHistoryTable)

	// Initialize email service for all handlers
	emailService := services.NewEmailService(db, cfg)

	// Auth routes (public)
	auth := router.Group("/api/auth")
	{
		authHandler := handlers.NewAuthHandler(db, cfg, emailService)
		auth.POST("/register", authHandler.Register)
		auth.POST("/register/beta", authHandler.RegisterBeta)         // Beta signup with unlimited credits
		auth.POST("/accept-invitation", authHandler.AcceptInvitation) // Accept invitation and create account
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout) // Logout (clears cookies)
		auth.POST("/refresh", authHandler.Refresh)
		auth.GET("/verify-email", authHandler.VerifyEmail)
		auth.POST("/resend-verification", authHandler.ResendVerification)

		// OAuth routes
		oauthHandler := handlers.NewOAuthHandler(db, cfg)
		auth.GET("/:provider", oauthHandler.BeginAuth)         // /api/auth/google or /api/auth/github
		auth.GET("/:provider/callback", oauthHandler.Callback) // OAuth callback
	}

	// Protected API routes v1
	v1 := router.Group("/api/v1")
	v1.Use(authn)
	{
		// Mood classification
		moodHandler := handlers.NewMoodHandler(metricsClient)
		v1.POST("/moods/classify", moodHandler.Classify)
		v1.GET("/moods", moodHandler.ListMoods)
		v1.GET("/moods/:label", moodHandler.GetMood)

		// Narrative styles and story templates
		styleHandler := handlers.NewStyleHandler(cat)
		v1.GET("/styles", styleHandler.ListStyles)

		templateHandler := handlers.NewTemplateHandler(cat)
		v1.GET("/templates", templateHandler.ListTemplates)
		v1.GET("/templates/:key", templateHandler.GetTemplate)

		// Story generation and library
		storyHandler := handlers.NewStoryHandler(db, cfg, cat, metricsClient)
		v1.POST("/stories", storyHandler.Create) // One-shot or SSE stream via {"stream": true}
		v1.GET("/stories", storyHandler.List)
		v1.GET("/stories/:id", storyHandler.Get)
		v1.DELETE("/stories/:id", storyHandler.Delete)
		v1.POST("/stories/:id/versions", storyHandler.CreateVersion)
		v1.GET("/stories/:id/versions", storyHandler.ListVersions)
		v1.GET("/stories/:id/export", storyHandler.Export)

		// Story collaborators
		collaboratorHandler := handlers.NewCollaboratorHandler(db, emailService)
		v1.POST("/stories/:id/collaborators", collaboratorHandler.Add)
		v1.GET("/stories/:id/collaborators", collaboratorHandler.List)
		v1.DELETE("/stories/:id/collaborators/:user_id", collaboratorHandler.Remove)

		// User/dashboard endpoints
		userHandler := handlers.NewUserHandler(db)
		v1.GET("/me", userHandler.GetProfile)
		v1.GET("/credits", userHandler.GetCredits)
		v1.GET("/usage/stats", userHandler.GetUsageStats)
		v1.GET("/usage/history", userHandler.GetUsageHistory)
	}

	// Admin API routes (admin only)
	admin := router.Group("/api/admin")
	admin.Use(authn, middleware.AdminRequired())
	{
		adminHandler := handlers.NewAdminHandler(db)
		admin.GET("/users", adminHandler.ListUsers)
		admin.GET("/users/:id", adminHandler.GetUserDetails)
		admin.PUT("/users/:id/role", adminHandler.UpdateUserRole)
		admin.PUT("/users/:id/toggle-active", adminHandler.ToggleUserActive)
		admin.PUT("/users/:id/credits", adminHandler.UpdateUserCredits)
		admin.DELETE("/users/:id", adminHandler.DeleteUser)

		// Invitation management
		invitationHandler := handlers.NewInvitationHandler(db, emailService)
		admin.POST("/invitations", invitationHandler.CreateInvitation)
		admin.POST("/invitations/send", invitationHandler.SendInvitation)
		admin.POST("/invitations/:id/resend", invitationHandler.ResendInvitation)
		admin.GET("/invitations", invitationHandler.ListInvitations)
		admin.GET("/invitations/stats", invitationHandler.GetInvitationStats)
		admin.DELETE("/invitations/:id", invitationHandler.DeleteInvitation)
	}

	return router
}
