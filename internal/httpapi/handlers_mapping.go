package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourorg/sdtm-studio/internal/mapping"
)

func (s *Server) domainState(c *gin.Context) (studyID, domainCode string, ok bool) {
	studyID = c.Param("studyId")
	domainCode = c.Param("domain")
	st, found := s.getStudy(studyID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown study: " + studyID})
		return studyID, domainCode, false
	}
	if _, found := st.Domains[domainCode]; !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "domain has no ingested source: " + domainCode})
		return studyID, domainCode, false
	}
	return studyID, domainCode, true
}

// handleSuggestions computes, per domain variable, the deterministic
// suggestion and an advisory AI-assist candidate for variables the
// deterministic scorer couldn't place.
func (s *Server) handleSuggestions(c *gin.Context) {
	studyID, domainCode, ok := s.domainState(c)
	if !ok {
		return
	}
	st, _ := s.getStudy(studyID)
	ds := st.Domains[domainCode]
	domain := s.catalog[domainCode]

	minConfidence := s.cfg.MinConfidence
	if minConfidence <= 0 {
		minConfidence = mapping.MinConfidence
	}

	out := make([]suggestionsResponse, 0, len(domain.Variables))
	for _, v := range domain.Variables {
		item := suggestionsResponse{Variable: v.Name}
		if sugg, found := mapping.SuggestAssignments(v, ds.Source, minConfidence); found {
			item.Suggested = &sugg
		} else if s.ai != nil {
			candidates := unclaimedColumns(ds.Source.Headers.Names, ds.Mapping)
			sampleRows := sampleColumns(ds.Source, candidates, 5)
			if advice := s.ai.Suggest(c.Request.Context(), v, candidates, sampleRows); advice != nil {
				item.AIAssist = &aiassistSuggestion{
					SourceColumn: advice.SourceColumn,
					Confidence:   advice.Confidence,
					Reasoning:    advice.Reasoning,
				}
			}
		}
		out = append(out, item)
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": out})
}

// handleSetMapping replaces a domain's mapping assignments, which
// invalidates the cached Preview/Validation (study.SetMapping's contract).
func (s *Server) handleSetMapping(c *gin.Context) {
	studyID, domainCode, ok := s.domainState(c)
	if !ok {
		return
	}
	var req setMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	st, _ := s.getStudy(studyID)
	cfg := &mapping.Config{Assignments: req.Assignments}
	st.SetMapping(domainCode, cfg)

	if s.mapRepo != nil {
		_ = s.mapRepo.Save(studyID, domainCode, cfg, "updated via httpapi")
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func unclaimedColumns(allColumns []string, m *mapping.Config) []string {
	if m == nil {
		return allColumns
	}
	return m.UnmappedSourceColumns(allColumns)
}

func sampleColumns(src interface {
	Column(string) []string
}, columns []string, n int) [][]string {
	if len(columns) == 0 {
		return nil
	}
	perColumn := make([][]string, len(columns))
	max := 0
	for i, col := range columns {
		vals := src.Column(col)
		if len(vals) > n {
			vals = vals[:n]
		}
		perColumn[i] = vals
		if len(vals) > max {
			max = len(vals)
		}
	}
	rows := make([][]string, 0, max)
	for r := 0; r < max; r++ {
		row := make([]string, len(columns))
		for i := range columns {
			if r < len(perColumn[i]) {
				row[i] = perColumn[i][r]
			}
		}
		rows = append(rows, row)
	}
	return rows
}
