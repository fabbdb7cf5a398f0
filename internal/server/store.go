// Package server implements the Job Copilot backend service: profile
// storage, the AI field-answering endpoint, audit and job tracking.
package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS audit_events (
	id             TEXT PRIMARY KEY,
	timestamp      TEXT NOT NULL,
	site           TEXT NOT NULL DEFAULT '',
	job_url        TEXT NOT NULL DEFAULT '',
	filled_fields  TEXT NOT NULL DEFAULT '[]',
	skipped_fields TEXT NOT NULL DEFAULT '[]',
	metadata       TEXT NOT NULL DEFAULT '{}'
);
CREATE TABLE IF NOT EXISTS job_events (
	id              TEXT PRIMARY KEY,
	timestamp       TEXT NOT NULL,
	status          TEXT NOT NULL,
	site            TEXT NOT NULL DEFAULT '',
	job_url         TEXT NOT NULL DEFAULT '',
	title           TEXT NOT NULL DEFAULT '',
	company         TEXT NOT NULL DEFAULT '',
	external_job_id TEXT NOT NULL DEFAULT '',
	metadata        TEXT NOT NULL DEFAULT '{}'
);
`

// Store persists audit events and job-tracking records in SQLite.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the SQLite database at path with
// production-safe pragmas and the schema applied. Use ":memory:" in tests.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=10000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma: %w", err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// AuditRecord is one stored audit event.
type AuditRecord struct {
	ID            string         `json:"id"`
	Timestamp     string         `json:"timestamp"`
	Site          string         `json:"site"`
	JobURL        string         `json:"job_url"`
	FilledFields  []string       `json:"filled_fields"`
	SkippedFields []string       `json:"skipped_fields"`
	Metadata      map[string]any `json:"metadata"`
}

// JobRecord is one stored saved/applied job event.
type JobRecord struct {
	ID            string         `json:"id"`
	Timestamp     string         `json:"timestamp"`
	Status        string         `json:"status"`
	Site          string         `json:"site"`
	JobURL        string         `json:"job_url"`
	Title         string         `json:"title"`
	Company       string         `json:"company"`
	ExternalJobID string         `json:"external_job_id"`
	Metadata      map[string]any `json:"metadata"`
}

// InsertAudit stores an audit event, assigning id and timestamp.
func (s *Store) InsertAudit(ctx context.Context, rec *AuditRecord) error {
	rec.ID = uuid.NewString()
	rec.Timestamp = time.Now().UTC().Format(time.RFC3339)

	filled, _ := json.Marshal(rec.FilledFields)
	skipped, _ := json.Marshal(rec.SkippedFields)
	meta, _ := json.Marshal(rec.Metadata)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_events (id, timestamp, site, job_url, filled_fields, skipped_fields, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Timestamp, rec.Site, rec.JobURL, string(filled), string(skipped), string(meta))
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// InsertJob stores a job event with the given status, assigning id and
// timestamp.
func (s *Store) InsertJob(ctx context.Context, rec *JobRecord, status string) error {
	rec.ID = uuid.NewString()
	rec.Timestamp = time.Now().UTC().Format(time.RFC3339)
	rec.Status = status

	meta, _ := json.Marshal(rec.Metadata)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO job_events (id, timestamp, status, site, job_url, title, company, external_job_id, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Timestamp, rec.Status, rec.Site, rec.JobURL, rec.Title, rec.Company, rec.ExternalJobID, string(meta))
	if err != nil {
		return fmt.Errorf("insert job event: %w", err)
	}
	return nil
}

// ListJobs returns all job events with the given status, oldest first.
func (s *Store) ListJobs(ctx context.Context, status string) ([]JobRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, timestamp, status, site, job_url, title, company, external_job_id, metadata
		 FROM job_events WHERE status = ? ORDER BY timestamp`, status)
	if err != nil {
		return nil, fmt.Errorf("list job events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]JobRecord, 0)
	for rows.Next() {
		var rec JobRecord
		var meta string
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.Status, &rec.Site, &rec.JobURL,
			&rec.Title, &rec.Company, &rec.ExternalJobID, &meta); err != nil {
			return nil, fmt.Errorf("scan job event: %w", err)
		}
		_ = json.Unmarshal([]byte(meta), &rec.Metadata)
		items = append(items, rec)
	}
	return items, rows.Err()
}
