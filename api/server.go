package api

import (
	"github.com/gin-gonic/gin"

	"vidcheck/orchestrator"
)

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(runner *orchestrator.Runner) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	s := &Server{runner: runner}
	s.RegisterAnalyzeRoutes(r)
	s.RegisterRunRoutes(r)
	RegisterHealthRoutes(r)
	return r
}

// Server handles HTTP API requests for video analysis
type Server struct {
	runner *orchestrator.Runner
}
