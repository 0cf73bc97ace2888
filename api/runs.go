package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRunRoutes wires the run record endpoints
func (s *Server) RegisterRunRoutes(r *gin.Engine) {
	r.GET("/api/runs/:id", s.handleGetRun)
}

// handleGetRun returns a read-only snapshot of one run record.
// GET /api/runs/:id
func (s *Server) handleGetRun(c *gin.Context) {
	runID := c.Param("id")
	record, ok := s.runner.Registry().Get(c.Request.Context(), runID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	c.JSON(http.StatusOK, record)
}
