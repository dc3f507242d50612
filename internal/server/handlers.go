package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mikey/llm-doc-router/internal/core"
	"go.uber.org/zap"
)

type classifyRequest struct {
	Input     string `json:"input"`
	InputType string `json:"inputType"`
}

type extractRequest struct {
	Input string `json:"input"`
}

// handleClassifier runs the full classify-extract-record pipeline
func (s *Server) handleClassifier(c *gin.Context) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid input string is required"})
		return
	}
	if strings.TrimSpace(req.Input) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid input string is required"})
		return
	}

	s.logger.Info("Classifier request received",
		zap.String("input_type", req.InputType),
		zap.Int("input_length", len(req.Input)))

	result, err := s.router.Process(c.Request.Context(), req.Input, req.InputType)
	if err != nil {
		s.processingError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// handleEmail runs the email extractor directly
func (s *Server) handleEmail(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Input) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email content is required"})
		return
	}

	outcome, err := s.email.Extract(c.Request.Context(), req.Input)
	if err != nil {
		s.processingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"extractedData":  outcome.Data,
		"conversationId": outcome.ConversationID,
		"anomalies":      outcome.Anomalies,
	})
}

// handleJSON runs the JSON extractor directly
func (s *Server) handleJSON(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Input) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "JSON input is required"})
		return
	}

	outcome, err := s.json.Extract(c.Request.Context(), req.Input)
	if err != nil {
		s.processingError(c, err)
		return
	}

	resp := gin.H{"extractedData": outcome.Data}
	if len(outcome.Anomalies) > 0 {
		resp["anomalies"] = outcome.Anomalies
	}
	c.JSON(http.StatusOK, resp)
}

// handleMemoryGet returns the full history and its stats
func (s *Server) handleMemoryGet(c *gin.Context) {
	entries, err := s.memory.GetAll(c.Request.Context())
	if err != nil {
		s.logger.Error("History retrieval failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve memory"})
		return
	}
	stats, err := s.memory.Stats(c.Request.Context())
	if err != nil {
		s.logger.Error("History stats failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve memory"})
		return
	}

	if entries == nil {
		entries = []*core.MemoryEntry{}
	}
	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"stats":   stats,
		"success": true,
	})
}

// handleMemoryClear empties the history
func (s *Server) handleMemoryClear(c *gin.Context) {
	if err := s.memory.Clear(c.Request.Context()); err != nil {
		s.logger.Error("History clear failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear memory"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Memory cleared successfully",
		"success": true,
	})
}

// processingError maps pipeline errors to HTTP status codes
func (s *Server) processingError(c *gin.Context, err error) {
	s.logger.Error("Processing failed", zap.Error(err))

	status := http.StatusInternalServerError
	if errors.Is(err, core.ErrInvalidInput) || errors.Is(err, core.ErrMalformedJSON) {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{
		"error":   "Processing failed",
		"details": err.Error(),
	})
}
