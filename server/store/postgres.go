package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS answers (
	id TEXT PRIMARY KEY,
	question TEXT NOT NULL,
	answer TEXT NOT NULL,
	confidence TEXT NOT NULL,
	top_score DOUBLE PRECISION NOT NULL,
	source_count INTEGER NOT NULL,
	elapsed_ms BIGINT NOT NULL,
	timestamp BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_answers_timestamp ON answers(timestamp);
`

// PostgresAnswerLog implements AnswerLog using PostgreSQL.
type PostgresAnswerLog struct {
	db *sql.DB
}

// NewPostgresAnswerLog creates a Postgres-backed answer log.
func NewPostgresAnswerLog(dsn string) (*PostgresAnswerLog, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresAnswerLog{db: db}, nil
}

func (s *PostgresAnswerLog) Add(ctx context.Context, r AnswerRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO answers (id, question, answer, confidence, top_score, source_count, elapsed_ms, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			question = EXCLUDED.question,
			answer = EXCLUDED.answer,
			confidence = EXCLUDED.confidence,
			top_score = EXCLUDED.top_score,
			source_count = EXCLUDED.source_count,
			elapsed_ms = EXCLUDED.elapsed_ms,
			timestamp = EXCLUDED.timestamp`,
		r.ID, r.Question, r.Answer, r.Confidence, r.TopScore, r.SourceCount, r.ElapsedMs, r.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert answer: %w", err)
	}
	return nil
}

func (s *PostgresAnswerLog) Get(ctx context.Context, id string) (AnswerRecord, error) {
	var r AnswerRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, question, answer, confidence, top_score, source_count, elapsed_ms, timestamp
		FROM answers WHERE id = $1`, id).Scan(
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

func (s *PostgresAnswerLog) List(ctx context.Context, limit int) ([]AnswerRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, question, answer, confidence, top_score, source_count, elapsed_ms, timestamp
		FROM answers ORDER BY timestamp DESC LIMIT $1`, limit)
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

func (s *PostgresAnswerLog) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM answers WHERE id = $1`, id)
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

func (s *PostgresAnswerLog) Summary(ctx context.Context) (Summary, error) {
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

func (s *PostgresAnswerLog) Close() error {
	return s.db.Close()
}
