package export

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yourorg/sdtm-studio/internal/standards"
	"github.com/yourorg/sdtm-studio/internal/study"
	"github.com/yourorg/sdtm-studio/internal/xpt"
)

// Run executes one export job to completion, streaming progress on events
// and closing the channel when done. Per domain: cancel-check, fetch
// cached preview, ApplyingMappings, WritingFile, conditional SUPP
// generation, FileWritten; then WritingDefineXml and a terminal
// Complete/Cancelled/Error.
func Run(job *Job, st *study.Study, catalog map[string]standards.Domain, cfg Config, events chan<- Event) {
	defer close(events)
	start := time.Now()

	datasetsDir := filepath.Join(cfg.OutputDir, "datasets")
	if err := os.MkdirAll(datasetsDir, 0o755); err != nil {
		events <- Event{Kind: EventError, Step: StepPreparing, Message: err.Error()}
		return
	}

	for _, domainCode := range cfg.Domains {
		if job.Cancelled() {
			cleanup(job)
			events <- Event{Kind: EventCancelled}
			return
		}

		ds, ok := st.Domains[domainCode]
		if !ok || ds.Preview == nil {
			events <- Event{Kind: EventError, Domain: domainCode, Step: StepPreparing, Message: "no cached preview frame for domain " + domainCode}
			continue
		}
		domainDef, ok := catalog[domainCode]
		if !ok {
			events <- Event{Kind: EventError, Domain: domainCode, Step: StepPreparing, Message: "unknown domain " + domainCode}
			continue
		}

		events <- Event{Kind: EventProgress, Domain: domainCode, Step: StepApplyingMappings}

		events <- Event{Kind: EventProgress, Domain: domainCode, Step: StepWritingFile}
		xds := frameToXPTDataset(domainCode, domainDef.Label, domainDef, ds.Preview)
		path := filepath.Join(datasetsDir, strings.ToLower(domainCode)+".xpt")
		if err := xpt.WriteDataset(path, xds); err != nil {
			events <- Event{Kind: EventError, Domain: domainCode, Step: StepWritingFile, Message: err.Error()}
			continue
		}
		job.recordWritten(path)
		events <- Event{Kind: EventFileWritten, Domain: domainCode, Path: path}

		if ds.Mapping != nil && ds.Source != nil {
			suppRows := buildSuppRows(cfg.StudyID, domainCode, ds.Mapping, ds.Source, ds.Preview)
			if len(suppRows) > 0 {
				events <- Event{Kind: EventProgress, Domain: domainCode, Step: StepGeneratingSUPP}
				suppFrame := suppRowsToFrame(suppRows)
				suppDomain := standards.Domain{Code: "SUPP" + domainCode, Label: "Supplemental Qualifiers for " + domainCode, Variables: suppColumns}
				suppDs := frameToXPTDataset("SUPP"+domainCode, suppDomain.Label, suppDomain, suppFrame)
				suppPath := filepath.Join(datasetsDir, "supp"+strings.ToLower(domainCode)+".xpt")
				if err := xpt.WriteDataset(suppPath, suppDs); err != nil {
					events <- Event{Kind: EventError, Domain: domainCode, Step: StepGeneratingSUPP, Message: err.Error()}
					continue
				}
				job.recordWritten(suppPath)
				events <- Event{Kind: EventFileWritten, Domain: domainCode, Path: suppPath}
			}
		}
	}

	if job.Cancelled() {
		cleanup(job)
		events <- Event{Kind: EventCancelled}
		return
	}

	events <- Event{Kind: EventProgress, Step: StepWritingDefineXml}
	definePath := filepath.Join(cfg.OutputDir, "define.xml")
	if err := writeDefinePlaceholder(definePath, cfg.StudyID); err != nil {
		events <- Event{Kind: EventError, Step: StepWritingDefineXml, Message: err.Error()}
		return
	}
	job.recordWritten(definePath)
	events <- Event{Kind: EventFileWritten, Path: definePath}

	events <- Event{
		Kind:         EventComplete,
		WrittenFiles: job.WrittenFiles(),
		ElapsedMS:    time.Since(start).Milliseconds(),
	}
}

// cleanup removes every file the job recorded as written, compensating for
// a mid-export cancellation.
func cleanup(job *Job) {
	for _, path := range job.WrittenFiles() {
		os.Remove(path)
	}
}
