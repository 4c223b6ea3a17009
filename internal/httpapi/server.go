// Package httpapi implements the gin-based HTTP surface over the study
// model: study creation, mapping suggestions and mutation, preview,
// validation, and export with SSE progress streaming.
package httpapi

import (
	"sync"
	"time"

	"github.com/yourorg/sdtm-studio/internal/aiassist"
	"github.com/yourorg/sdtm-studio/internal/ct"
	"github.com/yourorg/sdtm-studio/internal/export"
	"github.com/yourorg/sdtm-studio/internal/jobstore"
	"github.com/yourorg/sdtm-studio/internal/mapping"
	"github.com/yourorg/sdtm-studio/internal/standards"
	"github.com/yourorg/sdtm-studio/internal/study"
)

// Config is the set of request-handling knobs a host configures:
// mapping-strictness, the deterministic suggestion confidence floor, CT
// catalog preference, where export jobs write their output, and the
// export rate limit.
type Config struct {
	OutputDir              string
	RequireExplicitMapping bool
	MinConfidence          float64
	PreferredCT            []string
	ExportRateLimit        int
	RateLimitWindow        time.Duration
}

// Server holds every open study's in-memory state plus the shared SDTM
// catalog, CT registry, job store, and AI-assist client the handlers wire
// together. One Server instance backs the whole router.
type Server struct {
	cfg     Config
	catalog map[string]standards.Domain
	ctReg   *ct.Registry
	jobs    *jobstore.Store
	ai      *aiassist.Client
	mapRepo *mapping.Repository

	mu       sync.Mutex
	studies  map[string]*study.Study
	exportJobs map[string]*export.Job // jobID -> active job, for cancellation
}

// NewServer wires a Server from its dependencies. ai and jobs may be nil
// (AI-assist and job persistence both degrade gracefully to "unavailable").
func NewServer(cfg Config, domains []standards.Domain, ctReg *ct.Registry, mapRepo *mapping.Repository, jobs *jobstore.Store, ai *aiassist.Client) *Server {
	catalog := make(map[string]standards.Domain, len(domains))
	for _, d := range domains {
		catalog[d.Code] = d
	}
	return &Server{
		cfg:        cfg,
		catalog:    catalog,
		ctReg:      ctReg,
		jobs:       jobs,
		ai:         ai,
		mapRepo:    mapRepo,
		studies:    make(map[string]*study.Study),
		exportJobs: make(map[string]*export.Job),
	}
}

func (s *Server) getStudy(studyID string) (*study.Study, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.studies[studyID]
	return st, ok
}

func (s *Server) putStudy(st *study.Study) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.studies[st.StudyID] = st
}

func (s *Server) trackJob(job *export.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exportJobs[job.ID] = job
}

func (s *Server) untrackJob(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.exportJobs, jobID)
}

func (s *Server) lookupJob(jobID string) (*export.Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.exportJobs[jobID]
	return j, ok
}
