package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourorg/sdtm-studio/internal/provenance"
	"github.com/yourorg/sdtm-studio/internal/transform"
)

// handlePreview rebuilds a domain's preview frame from its current
// mapping, caching it (and a provenance log) on the study.
func (s *Server) handlePreview(c *gin.Context) {
	studyID, domainCode, ok := s.domainState(c)
	if !ok {
		return
	}
	st, _ := s.getStudy(studyID)
	ds := st.Domains[domainCode]
	if ds.Mapping == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "domain has no mapping configured yet"})
		return
	}
	domain := s.catalog[domainCode]

	ctx := transform.Context{
		StudyID:                studyID,
		Domain:                 domain,
		CT:                     s.ctReg,
		Mapping:                ds.Mapping,
		PreferredCT:            s.cfg.PreferredCT,
		RequireExplicitMapping: s.cfg.RequireExplicitMapping,
	}

	frame, issues, err := transform.Run(ctx, ds.Source)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	log := &provenance.Log{}
	for _, rule := range transform.InferDomainRules(domain) {
		sourceCol := ""
		if a, ok := ds.Mapping.Assignments[rule.Variable]; ok {
			sourceCol = a.SourceColumn
		}
		log.Add(provenance.FromRule(rule, sourceCol))
	}
	st.SetPreview(domainCode, frame, log)

	c.JSON(http.StatusOK, gin.H{
		"columns": frame.Columns,
		"rows":    frame.Rows,
		"issues":  issues,
	})
}
