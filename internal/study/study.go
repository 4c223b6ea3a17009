// Package study owns the in-session model of an open study: per-domain
// source data, mapping state, and the cached preview/validation frames
// that mapping mutations must invalidate.
package study

import (
	"github.com/yourorg/sdtm-studio/internal/ingest"
	"github.com/yourorg/sdtm-studio/internal/mapping"
	"github.com/yourorg/sdtm-studio/internal/provenance"
	"github.com/yourorg/sdtm-studio/internal/transform"
	"github.com/yourorg/sdtm-studio/internal/validate"
)

// DomainState bundles one domain's source frame, mapping state, derived
// preview frame (nullable cache), validation report (nullable cache), and
// derivation list.
type DomainState struct {
	Source      *ingest.SourceFrame
	Mapping     *mapping.Config
	Preview     *transform.DomainFrame
	Validation  *validate.Report
	Derivations *provenance.Log
}

// Study is the study identifier, its folder path, and an ordered map of
// domain code to DomainState.
type Study struct {
	StudyID    string
	FolderPath string
	Domains    map[string]*DomainState

	order []string // domain codes in the order first seen, for deterministic iteration
}

// New creates an empty Study rooted at folderPath.
func New(studyID, folderPath string) *Study {
	return &Study{
		StudyID:    studyID,
		FolderPath: folderPath,
		Domains:    make(map[string]*DomainState),
	}
}

// DomainOrder returns domain codes in the order they were first touched.
func (s *Study) DomainOrder() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// EnsureDomain returns the DomainState for code, creating an empty one (and
// recording the domain's first-seen order) if absent.
func (s *Study) EnsureDomain(code string) *DomainState {
	if ds, ok := s.Domains[code]; ok {
		return ds
	}
	ds := &DomainState{Derivations: &provenance.Log{}}
	s.Domains[code] = ds
	s.order = append(s.order, code)
	return ds
}

// Invalidate clears a domain's cached preview and validation frames: any
// mapping change stales both until the pipeline reruns.
func (s *Study) Invalidate(code string) {
	ds, ok := s.Domains[code]
	if !ok {
		return
	}
	ds.Preview = nil
	ds.Validation = nil
}

// SetSource records the ingested source frame for a domain.
func (s *Study) SetSource(code string, src *ingest.SourceFrame) {
	s.EnsureDomain(code).Source = src
}

// SetMapping replaces a domain's mapping config and invalidates its
// derived caches, since any mapping mutation affects the transform output.
func (s *Study) SetMapping(code string, cfg *mapping.Config) {
	ds := s.EnsureDomain(code)
	ds.Mapping = cfg
	s.Invalidate(code)
}

// SetPreview stores a freshly rebuilt preview frame and derivation log for
// a domain, replacing any stale cache.
func (s *Study) SetPreview(code string, frame *transform.DomainFrame, log *provenance.Log) {
	ds := s.EnsureDomain(code)
	ds.Preview = frame
	ds.Derivations = log
}

// SetValidation stores a freshly run validation report for a domain.
func (s *Study) SetValidation(code string, report *validate.Report) {
	s.EnsureDomain(code).Validation = report
}

// AllUsubjids collects every USUBJID value present in the DM domain's
// preview frame, for the cross-domain UsubjidNotInDm check.
func (s *Study) AllUsubjids() map[string]bool {
	out := map[string]bool{}
	ds, ok := s.Domains["DM"]
	if !ok || ds.Preview == nil {
		return out
	}
	idx := -1
	for i, c := range ds.Preview.Columns {
		if c == "USUBJID" {
			idx = i
		}
	}
	if idx < 0 {
		return out
	}
	for _, row := range ds.Preview.Rows {
		if row[idx] != "" {
			out[row[idx]] = true
		}
	}
	return out
}
