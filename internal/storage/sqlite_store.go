package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pplvieira/Optoceutics-EEG-platform-sub000/internal/analysis"
	"github.com/pplvieira/Optoceutics-EEG-platform-sub000/internal/edf"
)

// SqliteStore handles database operations backed by a Sqlite file. Write
// and read connections are opened lazily and independently; the write
// connection initializes the schema on first use.
type SqliteStore struct {
	dbPath string

	writeDB     *sqlx.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sqlx.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// NewSqliteStore creates a new database handle for the given file path.
// No connection is opened until the first operation.
func NewSqliteStore(dbPath string) *SqliteStore {
	return &SqliteStore{dbPath: dbPath}
}

func (s *SqliteStore) getWriteDB() (*sqlx.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sqlx.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		if _, err = db.Exec(initSchemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *SqliteStore) getReadDB() (*sqlx.DB, error) {
	s.readDBOnce.Do(func() {
		db, err := sqlx.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

func (s *SqliteStore) CreateRecording(ctx context.Context, rec *Recording) error {
	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if _, err = db.NamedExecContext(ctx, insertRecordingSQL, rec); err != nil {
		return fmt.Errorf("inserting recording: %w", err)
	}
	return nil
}

func (s *SqliteStore) Recording(ctx context.Context, id string) (*Recording, error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	var rec Recording
	if err = db.GetContext(ctx, &rec, selectRecordingSQL, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("selecting recording: %w", err)
	}
	return &rec, nil
}

func (s *SqliteStore) Recordings(ctx context.Context) ([]*Recording, error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	var recs []*Recording
	if err = db.SelectContext(ctx, &recs, selectRecordingsSQL); err != nil {
		return nil, fmt.Errorf("selecting recordings: %w", err)
	}
	return recs, nil
}

func (s *SqliteStore) DeleteRecording(ctx context.Context, id string) (err error) {
	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollbackOnError(tx, &err)

	// Cascade is enforced explicitly as well, so deletion stays correct
	// on connections without the foreign_keys pragma.
	if _, err = tx.ExecContext(ctx, deleteAnalysesSQL, id); err != nil {
		return fmt.Errorf("deleting analyses: %w", err)
	}
	if _, err = tx.ExecContext(ctx, deleteRecordingSQL, id); err != nil {
		return fmt.Errorf("deleting recording: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *SqliteStore) SaveAnalysis(ctx context.Context, a *Analysis) (int64, error) {
	db, err := s.getWriteDB()
	if err != nil {
		return 0, fmt.Errorf("getting write connection: %w", err)
	}

	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	result, err := db.NamedExecContext(ctx, insertAnalysisSQL, a)
	if err != nil {
		return 0, fmt.Errorf("inserting analysis: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting analysis ID: %w", err)
	}
	a.ID = id
	return id, nil
}

func (s *SqliteStore) Analyses(ctx context.Context, recordingID string) ([]*Analysis, error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	var analyses []*Analysis
	if err = db.SelectContext(ctx, &analyses, selectAnalysesSQL, recordingID); err != nil {
		return nil, fmt.Errorf("selecting analyses: %w", err)
	}
	return analyses, nil
}

// Close closes the database connections. It is safe to call multiple
// times.
func (s *SqliteStore) Close() error {
	s.closeOnce.Do(func() {
		var writeErr, readErr error

		if s.writeDB != nil {
			writeErr = s.writeDB.Close()
			s.writeDB = nil
		}

		if s.readDB != nil {
			readErr = s.readDB.Close()
			s.readDB = nil
		}

		switch {
		case writeErr != nil && readErr != nil:
			s.closeErr = errors.Join(writeErr, readErr)
		case writeErr != nil:
			s.closeErr = writeErr
		case readErr != nil:
			s.closeErr = readErr
		}
	})

	return s.closeErr
}

// NewRecordingRow builds a recording row from load metadata and the raw
// container bytes.
func NewRecordingRow(id string, meta edf.Metadata, data []byte) *Recording {
	return &Recording{
		ID:         id,
		Filename:   meta.Filename,
		SubjectID:  meta.SubjectID,
		Backend:    meta.Backend,
		Simulated:  meta.Simulated,
		SampleRate: meta.SampleRate,
		Duration:   meta.Duration,
		Channels:   len(meta.ChannelNames),
		Data:       data,
	}
}

// NewAnalysisRow builds an analysis row from an analysis result,
// JSON-encoding the parameters and the result payload.
func NewAnalysisRow(recordingID string, res analysis.Result) (*Analysis, error) {
	row := &Analysis{
		RecordingID: recordingID,
		Kind:        string(res.Kind),
		Success:     res.Success,
	}
	if res.Error != "" {
		row.Error = sql.NullString{String: res.Error, Valid: true}
	}
	if res.Parameters != nil {
		p, err := json.Marshal(res.Parameters)
		if err != nil {
			return nil, fmt.Errorf("marshaling parameters: %w", err)
		}
		row.Parameters = sql.NullString{String: string(p), Valid: true}
	}
	if res.Data != nil {
		p, err := json.Marshal(res.Data)
		if err != nil {
			return nil, fmt.Errorf("marshaling result: %w", err)
		}
		row.Result = sql.NullString{String: string(p), Valid: true}
	}
	return row, nil
}
