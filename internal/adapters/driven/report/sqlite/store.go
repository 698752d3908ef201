// Package sqlite persists run reports: per-stage summaries, the
// verifier's broken-URL list and dedupe outcomes, for operator
// follow-up across runs.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/domain"
	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ReportStore = (*Store)(nil)

// Store is a SQLite-backed report store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the report database under dataDir.
// If dataDir is empty, defaults to ~/.mediasync/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".mediasync", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "reports.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id          TEXT PRIMARY KEY,
			started_at  DATETIME NOT NULL,
			finished_at DATETIME,
			dry_run     INTEGER NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS stage_reports (
			run_id  TEXT NOT NULL REFERENCES runs(id),
			stage   TEXT NOT NULL,
			created INTEGER NOT NULL,
			updated INTEGER NOT NULL,
			deleted INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			failed  INTEGER NOT NULL,
			note    TEXT NOT NULL DEFAULT ''
		);
		CREATE TABLE IF NOT EXISTS broken_urls (
			run_id      TEXT NOT NULL REFERENCES runs(id),
			asset_id    INTEGER NOT NULL,
			name        TEXT NOT NULL,
			url         TEXT NOT NULL,
			status_code INTEGER NOT NULL
		);
	`)
	return err
}

// StartRun opens a new run record and returns its ID.
func (s *Store) StartRun(ctx context.Context, dryRun bool) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (id, started_at, dry_run) VALUES (?, ?, ?)",
		id, time.Now().UTC(), dryRun)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// FinishRun marks a run as completed.
func (s *Store) FinishRun(ctx context.Context, runID string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE runs SET finished_at = ? WHERE id = ?", time.Now().UTC(), runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// SaveStageReport appends one stage summary to a run.
func (s *Store) SaveStageReport(ctx context.Context, runID string, r domain.StageReport) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stage_reports (run_id, stage, created, updated, deleted, skipped, failed, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, r.Stage, r.Created, r.Updated, r.Deleted, r.Skipped, r.Failed, r.Note)
	if err != nil {
		return fmt.Errorf("insert stage report: %w", err)
	}
	return nil
}

// SaveBrokenURLs records the verifier's findings for a run.
func (s *Store) SaveBrokenURLs(ctx context.Context, runID string, broken []domain.BrokenURL) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, b := range broken {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO broken_urls (run_id, asset_id, name, url, status_code)
			VALUES (?, ?, ?, ?, ?)`,
			runID, b.AssetID, b.Name, b.URL, b.StatusCode); err != nil {
			return fmt.Errorf("insert broken url: %w", err)
		}
	}
	return tx.Commit()
}

// LatestRun returns the most recent run with its stage summaries and
// broken URLs.
func (s *Store) LatestRun(ctx context.Context) (*domain.RunReport, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, started_at, finished_at, dry_run FROM runs ORDER BY started_at DESC LIMIT 1")

	var report domain.RunReport
	var finished sql.NullTime
	if err := row.Scan(&report.ID, &report.StartedAt, &finished, &report.DryRun); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	if finished.Valid {
		report.FinishedAt = &finished.Time
	}

	stages, err := s.db.QueryContext(ctx, `
		SELECT stage, created, updated, deleted, skipped, failed, note
		FROM stage_reports WHERE run_id = ? ORDER BY rowid`, report.ID)
	if err != nil {
		return nil, fmt.Errorf("query stage reports: %w", err)
	}
	defer stages.Close()
	for stages.Next() {
		var sr domain.StageReport
		if err := stages.Scan(&sr.Stage, &sr.Created, &sr.Updated, &sr.Deleted, &sr.Skipped, &sr.Failed, &sr.Note); err != nil {
			return nil, fmt.Errorf("scan stage report: %w", err)
		}
		report.Stages = append(report.Stages, sr)
	}
	if err := stages.Err(); err != nil {
		return nil, fmt.Errorf("iterate stage reports: %w", err)
	}

	urls, err := s.db.QueryContext(ctx, `
		SELECT asset_id, name, url, status_code
		FROM broken_urls WHERE run_id = ? ORDER BY asset_id`, report.ID)
	if err != nil {
		return nil, fmt.Errorf("query broken urls: %w", err)
	}
	defer urls.Close()
	for urls.Next() {
		var b domain.BrokenURL
		if err := urls.Scan(&b.AssetID, &b.Name, &b.URL, &b.StatusCode); err != nil {
			return nil, fmt.Errorf("scan broken url: %w", err)
		}
		report.BrokenURLs = append(report.BrokenURLs, b)
	}
	if err := urls.Err(); err != nil {
		return nil, fmt.Errorf("iterate broken urls: %w", err)
	}

	return &report, nil
}
