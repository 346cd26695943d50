// Package store persists the answer log.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a record is not found.
var ErrNotFound = errors.New("not found")

// AnswerRecord is one persisted question/answer exchange.
type AnswerRecord struct {
	ID          string  `json:"id"`
	Question    string  `json:"question"`
	Answer      string  `json:"answer"`
	Confidence  string  `json:"confidence"`
	TopScore    float64 `json:"top_score"`
	SourceCount int     `json:"source_count"`
	ElapsedMs   int64   `json:"elapsed_ms"`
	Timestamp   int64   `json:"timestamp"`
}

// Summary contains aggregated answer-log statistics.
type Summary struct {
	TotalAnswers int     `json:"total_answers"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
}

// AnswerLog defines the interface for answer persistence.
type AnswerLog interface {
	Add(ctx context.Context, r AnswerRecord) error
	Get(ctx context.Context, id string) (AnswerRecord, error)
	List(ctx context.Context, limit int) ([]AnswerRecord, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context) (Summary, error)
	Close() error
}
