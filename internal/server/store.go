package server

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/matzehuels/pulsegraph/pkg/graph"
)

// ErrRunNotFound is returned when a run id has no archived record.
var ErrRunNotFound = errors.New("run not found")

// DefaultListLimit bounds GET /v1/runs when no limit is given.
const DefaultListLimit = 20

// MaxListLimit is the hard cap on a single list request.
const MaxListLimit = 100

// RunRecord is one archived playback run: the final flattened snapshot
// plus enough metadata to find it again.
type RunRecord struct {
	ID        string         `json:"id" bson:"_id"`
	Sequence  string         `json:"sequence,omitempty" bson:"sequence,omitempty"`
	NodeCount int            `json:"nodeCount" bson:"node_count"`
	LinkCount int            `json:"linkCount" bson:"link_count"`
	Events    int            `json:"events" bson:"events"`
	Snapshot  graph.Snapshot `json:"snapshot" bson:"snapshot"`
	CreatedAt time.Time      `json:"createdAt" bson:"created_at"`
}

// RunStore is the interface for run archive backends.
type RunStore interface {
	// Put archives a run record, replacing any record with the same id.
	Put(ctx context.Context, rec RunRecord) error

	// Get retrieves a record by run id.
	// Returns ErrRunNotFound if no record exists.
	Get(ctx context.Context, id string) (RunRecord, error)

	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]RunRecord, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// =============================================================================
// In-Memory Store
// =============================================================================

// MemoryStore keeps run records in process memory. It is the default
// backend when no Mongo URI is configured, and the test backend.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]RunRecord
}

// NewMemoryStore creates an empty in-memory run store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]RunRecord)}
}

// Put archives a record.
func (s *MemoryStore) Put(ctx context.Context, rec RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[rec.ID] = rec
	return nil
}

// Get retrieves a record by id.
func (s *MemoryStore) Get(ctx context.Context, id string) (RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.runs[id]
	if !ok {
		return RunRecord{}, ErrRunNotFound
	}
	return rec, nil
}

// List returns up to limit records, newest first.
func (s *MemoryStore) List(ctx context.Context, limit int) ([]RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := make([]RunRecord, 0, len(s.runs))
	for _, rec := range s.runs {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

// Len reports the number of archived records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}

var _ RunStore = (*MemoryStore)(nil)
