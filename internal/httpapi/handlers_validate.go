package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourorg/sdtm-studio/internal/validate"
)

// handleValidation runs the per-domain validator against the cached
// preview frame, plus the USUBJID-not-in-DM cross-domain check, caching
// the combined report.
func (s *Server) handleValidation(c *gin.Context) {
	studyID, domainCode, ok := s.domainState(c)
	if !ok {
		return
	}
	st, _ := s.getStudy(studyID)
	ds := st.Domains[domainCode]
	if ds.Preview == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "domain has no preview yet; POST preview first"})
		return
	}
	domain := s.catalog[domainCode]

	report := validate.RunDomain(domain, ds.Preview, s.ctReg, s.cfg.PreferredCT)
	if domainCode != "DM" {
		crossReport := validate.CheckUsubjidNotInDm(domainCode, ds.Preview, st.AllUsubjids())
		report.Issues = append(report.Issues, crossReport.Issues...)
	}
	st.SetValidation(domainCode, report)

	c.JSON(http.StatusOK, gin.H{
		"issues":     report.Issues,
		"has_errors": report.HasErrors(),
	})
}
