package storage

import (
	"context"
)

// Store provides an interface for persisting recordings and their analysis
// results. Recordings keep the raw container bytes, so a stored recording
// can be reloaded and re-analyzed in a later session. All write operations
// are atomic.
type Store interface {
	// CreateRecording persists a recording together with its raw container
	// bytes.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - rec: Recording row to persist; CreatedAt is assigned by the store
	//
	// Returns:
	//   - error: If persisting fails or context is cancelled
	CreateRecording(ctx context.Context, rec *Recording) error

	// Recording retrieves a stored recording by its ID, including the raw
	// container bytes.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - id: Unique recording identifier
	//
	// Returns:
	//   - rec: Pointer to the recording row, nil if not found
	//   - error: If retrieval fails or context is cancelled
	Recording(ctx context.Context, id string) (rec *Recording, err error)

	// Recordings returns all stored recordings without their raw bytes.
	// Results are ordered by creation time in ascending order.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//
	// Returns:
	//   - recs: Slice of recording rows with the Data column omitted
	//   - error: If retrieval fails or context is cancelled
	Recordings(ctx context.Context) (recs []*Recording, err error)

	// DeleteRecording removes a recording and all analysis results linked
	// to it.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - id: Unique recording identifier
	//
	// Returns:
	//   - error: If deletion fails or context is cancelled
	DeleteRecording(ctx context.Context, id string) error

	// SaveAnalysis persists one analysis result linked to a recording.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - a: Analysis row to persist; ID and CreatedAt are assigned by
	//     the store
	//
	// Returns:
	//   - analysisID: Unique identifier for the stored analysis record
	//   - error: If persisting fails or context is cancelled
	SaveAnalysis(ctx context.Context, a *Analysis) (analysisID int64, err error)

	// Analyses returns all analysis results stored for a recording.
	// Results are ordered by creation time in ascending order.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - recordingID: Recording the results belong to
	//
	// Returns:
	//   - analyses: Slice of analysis rows
	//   - error: If retrieval fails or context is cancelled
	Analyses(ctx context.Context, recordingID string) (analyses []*Analysis, err error)

	// Close releases all database connections and resources.
	// After Close is called, the store instance cannot be reused.
	// It is safe to call Close multiple times.
	//
	// Returns:
	//   - error: If closing fails or some resources cannot be released
	Close() error
}
