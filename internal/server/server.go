package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikey/llm-doc-router/internal/config"
	"github.com/mikey/llm-doc-router/internal/core"
	"go.uber.org/zap"
)

// Server exposes the document router over HTTP
type Server struct {
	router *core.RouterService
	memory core.MemoryRepository
	email  *core.EmailExtractor
	json   *core.JSONExtractor
	logger *zap.Logger
	engine *gin.Engine
	srv    *http.Server
	addr   string
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.Config,
	router *core.RouterService,
	memory core.MemoryRepository,
	email *core.EmailExtractor,
	json *core.JSONExtractor,
	logger *zap.Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		router: router,
		memory: memory,
		email:  email,
		json:   json,
		logger: logger,
		engine: engine,
		addr:   cfg.GetServer().ListenAddress,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/health", s.healthCheck)
	s.engine.POST("/agents/classifier", s.handleClassifier)
	s.engine.POST("/agents/email", s.handleEmail)
	s.engine.POST("/agents/json", s.handleJSON)
	s.engine.GET("/memory", s.handleMemoryGet)
	s.engine.DELETE("/memory", s.handleMemoryClear)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:         s.addr,
		Handler:      s.engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	s.logger.Info("HTTP server starting", zap.String("address", s.addr))

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

func (s *Server) healthCheck(c *gin.Context) {
	c.Status(http.StatusOK)
}
