// Package server is the local web console: a gin application exposing the console views
// as JSON, each behind the navigation guard, on top of the shared session.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/clubdesk/console/internal/app"
	"github.com/clubdesk/console/internal/config"
	"github.com/clubdesk/console/internal/dashboard"
	"github.com/clubdesk/console/internal/notify"
)

// Server represents the console HTTP server
type Server struct {
	router    *gin.Engine
	config    *config.Config
	app       *app.App
	notices   *notify.Queue
	refresher *dashboard.Refresher
	logger    zerolog.Logger
	validator *validator.Validate
	version   string
}

// New creates a console over a wired app. notices must be the queue the app's client notifies.
func New(cfg *config.Config, a *app.App, notices *notify.Queue, zlog zerolog.Logger, version string) (*Server, error) {
	server := &Server{
		config:    cfg,
		app:       a,
		notices:   notices,
		logger:    zlog,
		validator: validator.New(),
		version:   version,
	}

	if cfg.Dashboard.Refresh != "" {
		refresher, err := dashboard.NewRefresher(a.Dashboard, cfg.Dashboard.Refresh, a.Session.IsLoggedIn, zlog)
		if err != nil {
			return nil, err
		}
		server.refresher = refresher
	}

	// Setup router
	server.setupRouter()

	return server, nil
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	// Add middleware
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	// CORS for a front end served from another origin
	if len(s.config.Console.CORSOrigins) > 0 {
		s.router.Use(cors.New(cors.Config{
			AllowOrigins:     s.config.Console.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Accept", "X-Requested-With"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Unguarded endpoints
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/session", s.getSession)
	s.router.GET("/notifications", s.getNotifications)
	s.router.POST("/login", s.login)
	s.router.POST("/logout", s.logout)

	// Every view and the actions it issues go through the guard
	views := s.router.Group("")
	views.Use(GuardMiddleware(s.app.Router, s.logger))
	{
		views.GET("/login", s.loginView)
		views.GET("/dashboard", s.getDashboard)

		views.GET("/profile", s.getProfile)
		views.PUT("/profile", s.updateProfile)

		views.GET("/clubs", s.listClubs)
		views.GET("/clubs/:id", s.getClub)
		views.GET("/clubs/:id/members", s.listClubMembers)
		views.POST("/clubs/:id/apply", s.applyToClub)

		views.GET("/activities", s.listActivities)
		views.GET("/activities/:id", s.getActivity)
		views.POST("/activities/:id/signup", s.signupActivity)
		views.DELETE("/activities/:id/signup", s.cancelSignup)

		views.GET("/my/clubs", s.listMyClubs)
		views.GET("/my/applications", s.listMyApplications)
		views.GET("/my/signups", s.listMySignups)

		// ADMIN
		views.GET("/admin/clubs", s.adminListClubs)
		views.POST("/admin/clubs", s.adminCreateClub)
		views.PUT("/admin/clubs/:id", s.adminUpdateClub)
		views.DELETE("/admin/clubs/:id", s.adminDeleteClub)
		views.POST("/admin/clubs/:id/leader", s.adminSetLeader)
		views.DELETE("/admin/clubs/:id/leader/:userId", s.adminRemoveLeader)
		views.GET("/admin/clubs/applications", s.adminListApplications)
		views.PATCH("/admin/clubs/applications/:applicationId", s.adminReviewApplication)

		views.GET("/admin/activities", s.adminListActivities)
		views.POST("/admin/activities/:id/review", s.adminReviewActivity)
		views.DELETE("/admin/activities/:id", s.adminDeleteActivity)

		// CLUB_ADMIN and ADMIN
		views.GET("/club-admin/info", s.getManagedClub)
		views.PUT("/club-admin/info", s.updateManagedClub)
		views.GET("/club-admin/members", s.listManagedMembers)
		views.GET("/club-admin/members/applications", s.listManagedApplications)
		views.PATCH("/club-admin/members/applications/:applicationId", s.reviewManagedApplication)
		views.GET("/club-admin/activities", s.listManagedActivities)
		views.POST("/club-admin/activities", s.createActivity)
		views.PUT("/club-admin/activities/:id", s.updateActivity)
		views.DELETE("/club-admin/activities/:id", s.cancelActivity)
		views.GET("/club-admin/activities/:id/signups", s.listActivitySignups)
		views.POST("/club-admin/activities/:id/checkin", s.checkin)
	}

	// "/" and unknown paths land on the dashboard, still guarded
	s.router.NoRoute(GuardMiddleware(s.app.Router, s.logger), s.fallback)
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start)

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

// @Router /health [get]
// @Success 200 {object} map[string]interface{}
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "clubdesk-console",
		"version":   s.version,
	})
}

func (s *Server) fallback(c *gin.Context) {
	redirect(c, http.StatusNotFound, "/dashboard", "not_found")
}

// Handler returns the HTTP handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully
func (s *Server) Start() error {
	addr := s.config.Console.Addr

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	if s.refresher != nil {
		s.refresher.Start()
		s.logger.Info().Str("schedule", s.config.Dashboard.Refresh).Time("next_refresh_at", s.refresher.Next()).Msg("Dashboard refresh scheduled")
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("Starting console")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")
	case err := <-errChan:
		s.stopBackground()
		return fmt.Errorf("console failed: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	s.stopBackground()
	s.logger.Info().Msg("Console shutdown complete")
	return nil
}

func (s *Server) stopBackground() {
	if s.refresher != nil {
		s.refresher.Stop()
	}
	if err := s.app.Close(); err != nil {
		s.logger.Warn().Err(err).Msg("Error closing session storage")
	}
}
