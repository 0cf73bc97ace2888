package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"vidcheck/orchestrator"
	"vidcheck/types"
)

// AnalyzeResponse is the terminal payload of a synchronous analysis
type AnalyzeResponse struct {
	RunID   string               `json:"run_id"`
	Verdict *types.FinalVerdict  `json:"verdict,omitempty"`
	Modules *types.ModuleResults `json:"modules,omitempty"`
	Error   string               `json:"error,omitempty"`
}

// StartResponse acknowledges an asynchronous analysis
type StartResponse struct {
	RunID   string `json:"run_id"`
	Message string `json:"message"`
}

// RegisterAnalyzeRoutes wires the analysis endpoints
func (s *Server) RegisterAnalyzeRoutes(r *gin.Engine) {
	r.POST("/api/analyze", s.handleAnalyze)
	r.POST("/api/analyze/stream", s.handleAnalyzeStream)
	r.POST("/api/analyze/start", s.handleAnalyzeStart)
}

// handleAnalyze runs the full pipeline and blocks until the verdict.
// POST /api/analyze
func (s *Server) handleAnalyze(c *gin.Context) {
	var req types.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	log.Printf("📥 Analysis request for video %s", req.VideoID)
	runID := s.runner.NewRun(req.VideoID)

	verdict, modules, err := s.runner.Execute(c.Request.Context(), runID, req, nil)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, orchestrator.ErrAllModulesFailed) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, AnalyzeResponse{RunID: runID, Modules: modules, Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, AnalyzeResponse{RunID: runID, Verdict: verdict, Modules: modules})
}

// handleAnalyzeStream runs the pipeline and streams NDJSON frames:
// zero or more progress frames, then exactly one result or error frame.
// POST /api/analyze/stream
func (s *Server) handleAnalyzeStream(c *gin.Context) {
	var req types.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	c.Writer.Header().Set("Content-Type", "application/x-ndjson")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(c.Writer)
	flush := func() {
		if f, ok := c.Writer.(http.Flusher); ok {
			f.Flush()
		}
	}
	writeFrame := func(frame types.StreamFrame) {
		if err := enc.Encode(frame); err != nil {
			log.Printf("⚠️ Stream write failed: %v", err)
			return
		}
		flush()
	}

	runID := s.runner.NewRun(req.VideoID)
	verdict, modules, err := s.runner.Execute(c.Request.Context(), runID, req, func(event types.ProgressEvent) {
		// Terminal frames are written below, with the payload.
		if event.Stage.Terminal() {
			return
		}
		writeFrame(types.StreamFrame{Kind: types.FrameProgress, Progress: &event})
	})
	if err != nil {
		writeFrame(types.StreamFrame{Kind: types.FrameError, Modules: modules, Error: err.Error()})
		return
	}
	writeFrame(types.StreamFrame{Kind: types.FrameResult, Verdict: verdict, Modules: modules})
}

// handleAnalyzeStart kicks off an asynchronous run and returns its id.
// Clients poll GET /api/runs/:id for the outcome.
// POST /api/analyze/start
func (s *Server) handleAnalyzeStart(c *gin.Context) {
	var req types.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	runID := s.runner.NewRun(req.VideoID)
	go func() {
		// Detached from the HTTP request; the run owns its lifetime.
		if _, _, err := s.runner.Execute(context.Background(), runID, req, nil); err != nil {
			log.Printf("❌ [%s] Async analysis failed: %v", runID, err)
		}
	}()

	c.JSON(http.StatusAccepted, StartResponse{
		RunID:   runID,
		Message: "analysis started",
	})
}
