package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourorg/sdtm-studio/internal/ingest"
	"github.com/yourorg/sdtm-studio/internal/study"
)

// handleCreateStudy opens a study, ingesting each named domain's source
// CSV, and registers it on the Server.
func (s *Server) handleCreateStudy(c *gin.Context) {
	var req createStudyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	st := study.New(req.StudyID, req.FolderPath)
	for _, d := range req.Domains {
		if _, ok := s.catalog[d.Domain]; !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown domain: " + d.Domain})
			return
		}
		headerRows := d.HeaderRows
		if headerRows <= 0 {
			headerRows = 1
		}
		frame, _, err := ingest.ReadCSVTable(d.SourcePath, headerRows)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ingest " + d.Domain + ": " + err.Error()})
			return
		}
		st.SetSource(d.Domain, frame)
	}

	s.putStudy(st)
	if s.jobs != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		_ = s.jobs.TouchRecentStudy(ctx, st.StudyID, st.FolderPath, time.Now())
	}

	c.JSON(http.StatusCreated, gin.H{
		"study_id":    st.StudyID,
		"folder_path": st.FolderPath,
		"domains":     st.DomainOrder(),
	})
}
