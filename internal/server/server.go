// Package server exposes the transcription and caption pipeline over HTTP.
package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vocapita/vocapita/internal/apierr"
	"github.com/vocapita/vocapita/internal/config"
	"github.com/vocapita/vocapita/internal/platform"
	"github.com/vocapita/vocapita/internal/store"
	"github.com/vocapita/vocapita/internal/transcribe"
	"github.com/vocapita/vocapita/internal/workflow"
)

// Server represents the HTTP server
type Server struct {
	config      *config.Config
	logger      *slog.Logger
	router      *gin.Engine
	store       *store.Store
	transcriber transcribe.Transcriber
	coordinator *workflow.Coordinator
}

// New creates a new Server instance
func New(
	cfg *config.Config,
	logger *slog.Logger,
	st *store.Store,
	transcriber transcribe.Transcriber,
	coordinator *workflow.Coordinator,
) *Server {
	// Set Gin mode based on environment
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.Default()

	// Configure proxy trust for production (Fly.io)
	if cfg.Env == config.EnvProduction {
		router.TrustedPlatform = gin.PlatformFlyIO
		logger.Debug("Configured trusted platform", "platform", "fly.io")
	}
	// Development: no reverse proxy, uses direct client IP

	server := &Server{
		config:      cfg,
		logger:      logger,
		router:      router,
		store:       st,
		transcriber: transcriber,
		coordinator: coordinator,
	}

	// Setup middleware and routes
	setupSecurityMiddleware(router, cfg, logger)
	server.setupRoutes()

	return server
}

// Router returns the underlying gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the HTTP server
func Run(s *Server) error {
	s.logger.Info("Server listening", "port", s.config.Port)
	return s.router.Run(":" + s.config.Port)
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api/v1")
	{
		api.GET("/platforms", s.handlePlatforms)
		api.POST("/transcriptions", s.handleTranscription)
		api.POST("/captions", s.handleCaption)
		api.GET("/recordings", s.handleListRecordings)
		api.DELETE("/recordings/:id", s.handleDeleteRecording)
	}

	// Serve static assets as fallback. static.Serve only answers paths
	// no explicit route claimed.
	s.router.Use(static.Serve("/", static.LocalFile(s.config.StaticDir, false)))
}

// handleHealth handles the health check endpoint
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "vocapita",
	})
}

// handlePlatforms lists every supported platform with its style parameters.
func (s *Server) handlePlatforms(c *gin.Context) {
	type entry struct {
		ID             string `json:"id"`
		DisplayName    string `json:"displayName"`
		CharacterLimit int    `json:"characterLimit"`
		HashtagCount   int    `json:"hashtagCount"`
		Tone           string `json:"tone"`
		WebURL         string `json:"webUrl"`
	}

	all := platform.All()
	out := make([]entry, 0, len(all))
	for _, p := range all {
		info := platform.Lookup(p)
		out = append(out, entry{
			ID:             string(p),
			DisplayName:    info.DisplayName,
			CharacterLimit: info.CharacterLimit,
			HashtagCount:   info.HashtagCount,
			Tone:           info.Tone,
			WebURL:         info.WebURL,
		})
	}

	c.JSON(http.StatusOK, gin.H{"platforms": out})
}

// handleTranscription accepts a multipart audio upload, transcribes it, and
// persists the result.
func (s *Server) handleTranscription(c *gin.Context) {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing audio file"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable audio file"})
		return
	}
	defer file.Close()

	transcript, err := s.transcriber.Transcribe(c.Request.Context(), file)
	if err != nil {
		s.respondError(c, err)
		return
	}

	rec := store.NewRecording(transcript, nil, 0)
	if err := s.store.Insert(rec); err != nil {
		s.logger.Error("Failed to persist recording", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save recording"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         rec.ID.String(),
		"transcript": transcript,
	})
}

type captionRequest struct {
	Transcript string `json:"transcript"`
	Platform   string `json:"platform"`
}

// handleCaption generates a platform-specific caption for a transcript.
func (s *Server) handleCaption(c *gin.Context) {
	var req captionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	p, err := platform.Parse(req.Platform)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := s.coordinator.Generate(c.Request.Context(), req.Transcript, p)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"platform": string(res.Platform),
		"caption":  res.Caption,
	})
}

// handleListRecordings lists recordings, optionally filtered by a search query.
func (s *Server) handleListRecordings(c *gin.Context) {
	var (
		recs []store.Recording
		err  error
	)
	if q := c.Query("q"); q != "" {
		recs, err = s.store.Search(q)
	} else {
		recs, err = s.store.List()
	}
	if err != nil {
		s.logger.Error("Failed to list recordings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list recordings"})
		return
	}

	type entry struct {
		ID         string `json:"id"`
		Timestamp  string `json:"timestamp"`
		Transcript string `json:"transcript"`
		DurationMS int64  `json:"durationMs"`
	}
	out := make([]entry, 0, len(recs))
	for _, r := range recs {
		out = append(out, entry{
			ID:         r.ID.String(),
			Timestamp:  r.Timestamp.UTC().Format("2006-01-02T15:04:05Z07:00"),
			Transcript: r.Transcript,
			DurationMS: r.Duration.Milliseconds(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"recordings": out})
}

// handleDeleteRecording deletes a recording. Deleting an unknown ID succeeds.
func (s *Server) handleDeleteRecording(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recording id"})
		return
	}

	if err := s.store.Delete(id); err != nil {
		s.logger.Error("Failed to delete recording", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete recording"})
		return
	}

	c.Status(http.StatusNoContent)
}

// respondError maps pipeline errors to HTTP status codes.
func (s *Server) respondError(c *gin.Context, err error) {
	if errors.Is(err, apierr.ErrEmptyTranscript) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var provErr *apierr.ProviderError
	if errors.As(err, &provErr) {
		s.logger.Error("Provider rejected request",
			"status", provErr.StatusCode,
			"body", provErr.Body,
		)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	s.logger.Error("Pipeline request failed", "error", err)
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}
