package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/andrew-pixel/Stock-Alerts/pkg/stocks"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder keeps run reports in a local SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL,
			event_type  TEXT,
			started_at  INTEGER NOT NULL,
			finished_at INTEGER,
			warnings    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS run_items (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id         TEXT NOT NULL,
			kind           TEXT,
			symbol         TEXT,
			previous_price TEXT,
			target_price   TEXT,
			current_price  TEXT,
			percent_change TEXT,
			action         TEXT,
			outcome        TEXT,
			reasons        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_run ON run_items(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordReport stores the run and each of its item results in one transaction.
func (r *SQLiteRecorder) RecordReport(ctx context.Context, report *stocks.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO runs
		(run_id, event_type, started_at, finished_at, warnings)
		VALUES (?,?,?,?,?)`,
		report.RunID, report.EventType,
		report.StartedAt.UnixMilli(), report.FinishedAt.UnixMilli(),
		strings.Join(report.Warnings, "\n"),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, res := range report.Results {
		if _, err := tx.ExecContext(ctx, `INSERT INTO run_items
			(run_id, kind, symbol, previous_price, target_price, current_price,
			 percent_change, action, outcome, reasons)
			VALUES (?,?,?,?,?,?,?,?,?,?)`,
			report.RunID, string(res.Kind), res.Symbol,
			res.PreviousPrice.String(), res.TargetPrice.String(), res.CurrentPrice.String(),
			res.PercentChange.StringFixed(2), string(res.Action), string(res.Outcome),
			strings.Join(res.Reasons, "; "),
		); err != nil {
			return fmt.Errorf("insert item %s: %w", res.Symbol, err)
		}
	}

	return tx.Commit()
}

// History returns the most recent runs, newest first.
func (r *SQLiteRecorder) History(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `SELECT
			r.run_id, r.event_type, r.started_at, r.finished_at, r.warnings,
			COALESCE(SUM(CASE WHEN i.outcome = 'success' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN i.outcome = 'skipped' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN i.outcome = 'failed' THEN 1 ELSE 0 END), 0)
		FROM runs r
		LEFT JOIN run_items i ON i.run_id = r.run_id
		GROUP BY r.id
		ORDER BY r.started_at DESC, r.id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			s                 RunSummary
			started, finished int64
			warnings          string
		)
		if err := rows.Scan(&s.RunID, &s.EventType, &started, &finished, &warnings,
			&s.Succeeded, &s.Skipped, &s.Failed); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		s.StartedAt = time.UnixMilli(started)
		s.FinishedAt = time.UnixMilli(finished)
		if warnings != "" {
			s.Warnings = len(strings.Split(warnings, "\n"))
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
