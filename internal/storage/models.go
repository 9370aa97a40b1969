package storage

import (
	"database/sql"
	"time"
)

// Recording is a stored recording row. Data holds the raw container bytes
// and is omitted by list queries.
type Recording struct {
	ID         string    `db:"id"`
	Filename   string    `db:"filename"`
	SubjectID  string    `db:"subject_id"`
	Backend    string    `db:"backend"`
	Simulated  bool      `db:"simulated"`
	SampleRate float64   `db:"sample_rate"`
	Duration   float64   `db:"duration"`
	Channels   int       `db:"channels"`
	CreatedAt  time.Time `db:"created_at"`
	Data       []byte    `db:"data"`
}

// Analysis is a stored analysis result row. Parameters and Result hold the
// JSON-encoded request parameters and result payload; Error is set only
// for failed analyses.
type Analysis struct {
	ID          int64          `db:"id"`
	RecordingID string         `db:"recording_id"`
	Kind        string         `db:"kind"`
	Success     bool           `db:"success"`
	Error       sql.NullString `db:"error"`
	Parameters  sql.NullString `db:"parameters"`
	Result      sql.NullString `db:"result"`
	CreatedAt   time.Time      `db:"created_at"`
}
