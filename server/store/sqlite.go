package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS answers (
	id TEXT PRIMARY KEY,
	question TEXT NOT NULL,
	answer TEXT NOT NULL,
	confidence TEXT NOT NULL,
	top_score REAL NOT NULL,
	source_count INTEGER NOT NULL,
	elapsed_ms INTEGER NOT NULL,
	timestamp INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_answers_timestamp ON answers(timestamp);
`

// SQLiteAnswerLog implements AnswerLog using SQLite.
type SQLiteAnswerLog struct {
	db *sql.DB
}

// NewSQLiteAnswerLog creates a SQLite-backed answer log at the given path.
func NewSQLiteAnswerLog(dsn string) (*SQLiteAnswerLog, error) {
	if dsn == "" {
		dsn = "data/persona.db"
	}

	dir := filepath.Dir(dsn)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteAnswerLog{db: db}, nil
}

func (s *SQLiteAnswerLog) Add(ctx context.Context, r AnswerRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO answers (
			id, question, answer, confidence, top_score, source_count, elapsed_ms, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Question, r.Answer, r.Confidence, r.TopScore, r.SourceCount, r.ElapsedMs, r.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert answer: %w", err)
	}
	return nil
}

func (s *SQLiteAnswerLog) Get(ctx context.Context, id string) (AnswerRecord, error) {
	var r AnswerRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, question, answer, confidence, top_score, source_count, elapsed_ms, timestamp
		FROM answers WHERE id = ?`, id).Scan(
		&r.ID, &r.Question, &r.Answer, &r.Confidence, &r.TopScore, &r.SourceCount, &r.ElapsedMs, &r.Timestamp,
	)
	if err == sql.ErrNoRows {
		return r, ErrNotFound
	}
	if err != nil {
		return r, fmt.Errorf("query answer: %w", err)
	}
	return r, nil
}

func (s *SQLiteAnswerLog) List(ctx context.Context, limit int) ([]AnswerRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, question, answer, confidence, top_score, source_count, elapsed_ms, timestamp
		FROM answers ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	var records []AnswerRecord
	for rows.Next() {
		var r AnswerRecord
		if err := rows.Scan(
			&r.ID, &r.Question, &r.Answer, &r.Confidence, &r.TopScore, &r.SourceCount, &r.ElapsedMs, &r.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLiteAnswerLog) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM answers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete answer: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete answer: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteAnswerLog) Summary(ctx context.Context) (Summary, error) {
	var m Summary
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(AVG(elapsed_ms), 0) FROM answers`).Scan(
		&m.TotalAnswers, &m.AvgLatencyMs,
	)
	if err != nil {
		return m, fmt.Errorf("query summary: %w", err)
	}
	return m, nil
}

func (s *SQLiteAnswerLog) Close() error {
	return s.db.Close()
}
