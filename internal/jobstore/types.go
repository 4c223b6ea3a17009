// Package jobstore persists export job history and recently opened studies
// in a local SQLite database: a durable record an operator can query after
// the process restarts, independent of the in-memory progress channel the
// export orchestrator streams during a run.
package jobstore

import "time"

// JobStatus mirrors the terminal (and in-flight) states of an export job.
type JobStatus string

const (
	JobRunning   JobStatus = "Running"
	JobComplete  JobStatus = "Complete"
	JobCancelled JobStatus = "Cancelled"
	JobError     JobStatus = "Error"
)

// ExportJobRecord is the durable record of one export run.
type ExportJobRecord struct {
	ID           string
	StudyID      string
	Domains      []string
	Status       JobStatus
	StartedAt    time.Time
	FinishedAt   *time.Time
	WrittenFiles []string
	ErrorMessage string
}

// RecentStudy backs the host-owned "recent studies" surface: the core only
// stores study id, folder path, and when it was last opened; a host
// decorates this with display metadata.
type RecentStudy struct {
	StudyID    string
	FolderPath string
	LastOpened time.Time
}
