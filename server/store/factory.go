package store

import (
	"fmt"
	"strings"
)

// NewAnswerLog creates an answer log based on the DSN.
// - Empty DSN: SQLite at data/persona.db
// - postgres:// or postgresql://: PostgreSQL
// - Anything else: SQLite at the specified path
func NewAnswerLog(dsn string) (AnswerLog, error) {
	if dsn == "" {
		return NewSQLiteAnswerLog("data/persona.db")
	}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log, err := NewPostgresAnswerLog(dsn)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return log, nil
	}

	return NewSQLiteAnswerLog(dsn)
}
