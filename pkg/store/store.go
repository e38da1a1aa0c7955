// Package store keeps the pipeline runs submitted to the HTTP API.
//
// This package defines the Store interface with two backends:
//   - MemoryStore: in-process storage for development and single-instance servers
//   - MongoStore: MongoDB-backed storage shared by several API replicas
//
// # Usage
//
//	st, err := store.NewMongoStore(ctx, "mongodb://localhost:27017", "tricktrack")
//	if err != nil {
//	    return err
//	}
//	defer st.Close(ctx)
//
//	run := store.NewRun(result, opts.MinHits)
//	if err := st.Save(ctx, run); err != nil {
//	    return err
//	}
//	run, err = st.Get(ctx, run.ID)
//	if errors.Is(err, store.ErrNotFound) {
//	    // unknown id
//	}
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/tricktrack/pkg/pipeline"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("run not found")

// DefaultListLimit bounds Recent when no limit is given.
const DefaultListLimit = 20

// Run is one stored pipeline execution.
type Run struct {
	ID        string           `json:"id" bson:"_id"`
	CreatedAt time.Time        `json:"created_at" bson:"created_at"`
	EventHash string           `json:"event_hash" bson:"event_hash"`
	MinHits   int              `json:"min_hits" bson:"min_hits"`
	Result    *pipeline.Result `json:"result" bson:"result"`
}

// NewRun wraps a result with a fresh random ID.
func NewRun(result *pipeline.Result, minHits int) *Run {
	return &Run{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		EventHash: result.EventHash,
		MinHits:   minHits,
		Result:    result,
	}
}

// Store is the interface for run storage backends.
type Store interface {
	// Save inserts or replaces the run with the same ID.
	Save(ctx context.Context, run *Run) error

	// Get returns the run with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Run, error)

	// Recent returns up to limit runs, newest first. A limit <= 0 uses
	// DefaultListLimit.
	Recent(ctx context.Context, limit int) ([]*Run, error)

	// Close releases the backend's resources.
	Close(ctx context.Context) error
}
