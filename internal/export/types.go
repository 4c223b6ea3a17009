// Package export implements the export orchestrator: per domain, write
// the transformed frame to XPT (or a Dataset-XML placeholder), optionally
// generate a SUPP-- dataset, then write a Define-XML placeholder.
package export

import (
	"sync"
	"sync/atomic"
)

// Format is the configured output format for a job.
type Format string

const (
	FormatXPT        Format = "XPT"
	FormatDatasetXML Format = "Dataset-XML"
)

// Step is a Progress event's sub-phase.
type Step string

const (
	StepPreparing        Step = "Preparing"
	StepApplyingMappings Step = "ApplyingMappings"
	StepWritingFile      Step = "WritingFile"
	StepGeneratingSUPP   Step = "GeneratingSUPP"
	StepWritingDefineXml Step = "WritingDefineXml"
)

// EventKind tags which variant of the progress message an Event carries.
type EventKind string

const (
	EventProgress    EventKind = "Progress"
	EventFileWritten EventKind = "FileWritten"
	EventComplete    EventKind = "Complete"
	EventCancelled   EventKind = "Cancelled"
	EventError       EventKind = "Error"
)

// Event is one message on a job's progress channel.
type Event struct {
	Kind         EventKind
	Domain       string // empty for job-wide events
	Step         Step
	Path         string   // FileWritten
	WrittenFiles []string // Complete
	ElapsedMS    int64    // Complete
	Message      string   // Error
}

// Config is one export job's configuration.
type Config struct {
	StudyID   string
	OutputDir string
	Domains   []string // configured order
	Format    Format
}

// Job owns one export's cancel flag and written-files list, the only
// mutable state shared between the job goroutine and its controller.
type Job struct {
	ID string

	cancelled atomic.Bool
	mu        sync.Mutex
	written   []string
}

// NewJob returns a fresh, not-yet-cancelled Job.
func NewJob(id string) *Job {
	return &Job{ID: id}
}

// Cancel sets the job's cancel flag. Edge-triggered: once set, it stays set.
func (j *Job) Cancel() { j.cancelled.Store(true) }

// Cancelled reports whether Cancel has been called.
func (j *Job) Cancelled() bool { return j.cancelled.Load() }

func (j *Job) recordWritten(path string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.written = append(j.written, path)
}

// WrittenFiles returns a snapshot of every file path recorded so far.
func (j *Job) WrittenFiles() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]string, len(j.written))
	copy(out, j.written)
	return out
}
