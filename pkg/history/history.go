// Package history records answered questions in SQLite for the stats CLI.
// Recording is best-effort; a failure never blocks an answer.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/meddesk-ai/meddesk/pkg/models"
)

// Log stores answer records in a SQLite database.
type Log struct {
	db *sql.DB
}

const createTable = `
CREATE TABLE IF NOT EXISTS answer_records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	query TEXT NOT NULL,
	provenance TEXT NOT NULL,
	model TEXT NOT NULL DEFAULT '',
	answer_len INTEGER NOT NULL,
	latency_ms INTEGER NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_answers_provenance ON answer_records(provenance);
CREATE INDEX IF NOT EXISTS idx_answers_created ON answer_records(created_at);
`

// New opens the history database and runs auto-migration.
func New(dbPath string) (*Log, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}

	return &Log{db: db}, nil
}

// Record stores one answer record.
func (l *Log) Record(ctx context.Context, rec models.AnswerRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO answer_records (query, provenance, model, answer_len, latency_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Query, string(rec.Provenance), rec.Model, rec.AnswerLen, rec.LatencyMs, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record answer: %w", err)
	}
	return nil
}

// Recent returns the most recent answer records, newest first.
func (l *Log) Recent(ctx context.Context, limit int) ([]models.AnswerRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, query, provenance, model, answer_len, latency_ms, created_at
		 FROM answer_records ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var recs []models.AnswerRecord
	for rows.Next() {
		var r models.AnswerRecord
		var prov string
		if err := rows.Scan(&r.ID, &r.Query, &prov, &r.Model, &r.AnswerLen, &r.LatencyMs, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		r.Provenance = models.Provenance(prov)
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// Summary aggregates answer counts and average latency per provenance.
func (l *Log) Summary(ctx context.Context) ([]models.AnswerSummary, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT provenance, COUNT(*), AVG(latency_ms)
		 FROM answer_records GROUP BY provenance ORDER BY provenance`)
	if err != nil {
		return nil, fmt.Errorf("history summary: %w", err)
	}
	defer rows.Close()

	var summaries []models.AnswerSummary
	for rows.Next() {
		var s models.AnswerSummary
		var prov string
		var avg sql.NullFloat64
		if err := rows.Scan(&prov, &s.Count, &avg); err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		s.Provenance = models.Provenance(prov)
		s.AvgLatencyMs = avg.Float64
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// Close releases the database connection.
func (l *Log) Close() error {
	return l.db.Close()
}
