package jobstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed handle for export job history and recent
// studies: one *sql.DB shared across all repository-style methods.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) a SQLite database at path and applies
// the jobstore schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("jobstore: open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("jobstore: ping %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	const schema = `
CREATE TABLE IF NOT EXISTS export_jobs (
	id TEXT PRIMARY KEY,
	study_id TEXT NOT NULL,
	domains TEXT NOT NULL,
	status TEXT NOT NULL,
	started_at TIMESTAMP NOT NULL,
	finished_at TIMESTAMP,
	written_files TEXT NOT NULL DEFAULT '[]',
	error_message TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_export_jobs_study_id ON export_jobs(study_id);

CREATE TABLE IF NOT EXISTS recent_studies (
	study_id TEXT PRIMARY KEY,
	folder_path TEXT NOT NULL,
	last_opened TIMESTAMP NOT NULL
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("jobstore: migrate: %w", err)
	}
	return nil
}

// NewJobID mints a fresh export job identifier.
func NewJobID() string { return uuid.NewString() }

// RecordJobStart inserts a new job row in the Running state.
func (s *Store) RecordJobStart(ctx context.Context, rec ExportJobRecord) error {
	domainsJSON, err := json.Marshal(rec.Domains)
	if err != nil {
		return fmt.Errorf("jobstore: marshal domains: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO export_jobs (id, study_id, domains, status, started_at, written_files, error_message)
		VALUES (?, ?, ?, ?, ?, '[]', '')`,
		rec.ID, rec.StudyID, string(domainsJSON), JobRunning, rec.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("jobstore: record job start: %w", err)
	}
	return nil
}

// RecordJobTerminal updates a job row with its terminal status, finish
// time, written files, and (for Error) a message.
func (s *Store) RecordJobTerminal(ctx context.Context, jobID string, status JobStatus, finishedAt time.Time, writtenFiles []string, errMessage string) error {
	filesJSON, err := json.Marshal(writtenFiles)
	if err != nil {
		return fmt.Errorf("jobstore: marshal written files: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE export_jobs SET status = ?, finished_at = ?, written_files = ?, error_message = ?
		WHERE id = ?`,
		status, finishedAt, string(filesJSON), errMessage, jobID,
	)
	if err != nil {
		return fmt.Errorf("jobstore: record job terminal: %w", err)
	}
	return nil
}

// GetJob retrieves one job by id.
func (s *Store) GetJob(ctx context.Context, jobID string) (*ExportJobRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, study_id, domains, status, started_at, finished_at, written_files, error_message
		FROM export_jobs WHERE id = ?`, jobID)
	return scanJob(row)
}

// ListJobsForStudy returns every job recorded for a study, most recent first.
func (s *Store) ListJobsForStudy(ctx context.Context, studyID string) ([]ExportJobRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, study_id, domains, status, started_at, finished_at, written_files, error_message
		FROM export_jobs WHERE study_id = ? ORDER BY started_at DESC`, studyID)
	if err != nil {
		return nil, fmt.Errorf("jobstore: list jobs: %w", err)
	}
	defer rows.Close()

	var out []ExportJobRecord
	for rows.Next() {
		rec, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*ExportJobRecord, error) {
	var rec ExportJobRecord
	var domainsJSON, filesJSON string
	var finishedAt sql.NullTime
	err := row.Scan(&rec.ID, &rec.StudyID, &domainsJSON, &rec.Status, &rec.StartedAt, &finishedAt, &filesJSON, &rec.ErrorMessage)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("jobstore: scan job: %w", err)
	}
	if err := json.Unmarshal([]byte(domainsJSON), &rec.Domains); err != nil {
		return nil, fmt.Errorf("jobstore: unmarshal domains: %w", err)
	}
	if err := json.Unmarshal([]byte(filesJSON), &rec.WrittenFiles); err != nil {
		return nil, fmt.Errorf("jobstore: unmarshal written files: %w", err)
	}
	if finishedAt.Valid {
		rec.FinishedAt = &finishedAt.Time
	}
	return &rec, nil
}

// TouchRecentStudy records or refreshes a study's last-opened timestamp.
func (s *Store) TouchRecentStudy(ctx context.Context, studyID, folderPath string, openedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recent_studies (study_id, folder_path, last_opened) VALUES (?, ?, ?)
		ON CONFLICT(study_id) DO UPDATE SET folder_path = excluded.folder_path, last_opened = excluded.last_opened`,
		studyID, folderPath, openedAt,
	)
	if err != nil {
		return fmt.Errorf("jobstore: touch recent study: %w", err)
	}
	return nil
}

// ListRecentStudies returns the most recently opened studies, newest first.
func (s *Store) ListRecentStudies(ctx context.Context, limit int) ([]RecentStudy, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT study_id, folder_path, last_opened FROM recent_studies
		ORDER BY last_opened DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("jobstore: list recent studies: %w", err)
	}
	defer rows.Close()

	var out []RecentStudy
	for rows.Next() {
		var rs RecentStudy
		if err := rows.Scan(&rs.StudyID, &rs.FolderPath, &rs.LastOpened); err != nil {
			return nil, fmt.Errorf("jobstore: scan recent study: %w", err)
		}
		out = append(out, rs)
	}
	return out, rows.Err()
}
