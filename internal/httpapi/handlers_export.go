package httpapi

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourorg/sdtm-studio/internal/export"
	"github.com/yourorg/sdtm-studio/internal/jobstore"
)

// handleExport runs an export job and streams its progress as
// Server-Sent Events.
//
// Each event's data is the JSON encoding of export.Event. Its fields carry
// no json tags, so every event has all of the keys Kind, Domain, Step,
// Path, WrittenFiles, ElapsedMS and Message; the relevant ones per event:
//
//	event: Progress     data: {"Kind":"Progress","Domain":"VS","Step":"ApplyingMappings",...}
//	event: FileWritten  data: {..."Path":"/out/datasets/vs.xpt",...}
//	event: Complete     data: {..."WrittenFiles":[...],"ElapsedMS":120,...}
//
// On cancellation or a job-level failure:
//
//	event: Cancelled    data: {"Kind":"Cancelled",...}
//	event: Error        data: {..."Domain":"VS",..."Message":"..."}
func (s *Server) handleExport(c *gin.Context) {
	studyID := c.Param("studyId")
	st, ok := s.getStudy(studyID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown study: " + studyID})
		return
	}

	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	format := export.FormatXPT
	if req.Format == string(export.FormatDatasetXML) {
		format = export.FormatDatasetXML
	}

	outputDir := s.cfg.OutputDir
	if outputDir == "" {
		outputDir = st.FolderPath
	}

	job := export.NewJob(jobstore.NewJobID())
	s.trackJob(job)
	defer s.untrackJob(job.ID)

	if s.jobs != nil {
		ctx, cancel := newJobStoreContext(c)
		defer cancel()
		_ = s.jobs.RecordJobStart(ctx, jobstore.ExportJobRecord{
			ID: job.ID, StudyID: studyID, Domains: req.Domains, StartedAt: time.Now(),
		})
	}

	cfg := export.Config{StudyID: studyID, OutputDir: outputDir, Domains: req.Domains, Format: format}
	events := make(chan export.Event)
	go export.Run(job, st, s.catalog, cfg, events)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, canFlush := c.Writer.(http.Flusher)
	c.Writer.Header().Set("X-Job-ID", job.ID)

	for event := range events {
		writeSSEEvent(c, string(event.Kind), event)
		if canFlush {
			flusher.Flush()
		}
		if s.jobs != nil && isTerminal(event.Kind) {
			s.recordJobTerminal(c, job.ID, event)
		}
	}
}

func isTerminal(kind export.EventKind) bool {
	return kind == export.EventComplete || kind == export.EventCancelled || kind == export.EventError
}

func (s *Server) recordJobTerminal(c *gin.Context, jobID string, event export.Event) {
	status := jobstore.JobComplete
	switch event.Kind {
	case export.EventCancelled:
		status = jobstore.JobCancelled
	case export.EventError:
		status = jobstore.JobError
	}
	ctx, cancel := newJobStoreContext(c)
	defer cancel()
	if err := s.jobs.RecordJobTerminal(ctx, jobID, status, time.Now(), event.WrittenFiles, event.Message); err != nil {
		slog.Warn("recordJobTerminal failed", "job_id", jobID, "error", err)
	}
}

// handleCancelExport flips a running job's cancel flag; the orchestrator
// checks it between domains and stops before writing further output.
func (s *Server) handleCancelExport(c *gin.Context) {
	jobID := c.Param("jobId")
	job, ok := s.lookupJob(jobID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown or already-finished job: " + jobID})
		return
	}
	job.Cancel()
	c.JSON(http.StatusAccepted, gin.H{"status": "cancelling"})
}

// writeSSEEvent marshals data to JSON and writes a single SSE event.
func writeSSEEvent(c *gin.Context, eventType string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		slog.Warn("writeSSEEvent: marshal failed", "event", eventType, "error", err)
		return
	}
	fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", eventType, payload)
}
