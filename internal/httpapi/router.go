package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine for the study/mapping/export API.
// Request logging and panic recovery apply globally; a per-IP rate
// limiter applies only to the export endpoint (the one expensive enough
// to need throttling).
func NewRouter(s *Server) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(), Recovery())

	limit := s.cfg.ExportRateLimit
	if limit <= 0 {
		limit = 10
	}
	window := s.cfg.RateLimitWindow
	if window <= 0 {
		window = time.Minute
	}
	exportLimiter := RateLimit(limit, window)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/studies", s.handleCreateStudy)
		v1.GET("/studies/:studyId/domains/:domain/suggestions", s.handleSuggestions)
		v1.POST("/studies/:studyId/domains/:domain/mapping", s.handleSetMapping)
		v1.POST("/studies/:studyId/domains/:domain/preview", s.handlePreview)
		v1.GET("/studies/:studyId/domains/:domain/validation", s.handleValidation)
		v1.POST("/studies/:studyId/export", exportLimiter, s.handleExport)
		v1.POST("/studies/:studyId/export/:jobId/cancel", s.handleCancelExport)
	}
	return r
}
