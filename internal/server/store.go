package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/depscope/depscope/pkg/graph"
)

// ErrRecordNotFound is returned by a Store when no record has the given ID.
var ErrRecordNotFound = errors.New("graph record not found")

// Record is a persisted resolution result.
type Record struct {
	ID        string       `json:"id" bson:"_id"`
	Package   string       `json:"package" bson:"package"`
	MaxDepth  int          `json:"max_depth" bson:"max_depth"`
	Exclude   string       `json:"exclude,omitempty" bson:"exclude,omitempty"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
	Nodes     []string     `json:"nodes" bson:"nodes"`
	Edges     []graph.Edge `json:"edges" bson:"edges"`
	Cycles    [][]string   `json:"cycles,omitempty" bson:"cycles,omitempty"`
	LoadOrder []string     `json:"load_order" bson:"load_order"`
	Complete  bool         `json:"load_order_complete" bson:"load_order_complete"`
	Warnings  []string     `json:"warnings,omitempty" bson:"warnings,omitempty"`
}

// Store persists resolution records.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (Record, error)
	Close(ctx context.Context) error
}

// MemoryStore keeps records in a map. Used in tests and when the server
// runs without a database.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

// Save stores rec, replacing any record with the same ID.
func (s *MemoryStore) Save(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec
	return nil
}

// Get returns the record with the given ID.
func (s *MemoryStore) Get(_ context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return Record{}, ErrRecordNotFound
	}
	return rec, nil
}

// Close does nothing.
func (s *MemoryStore) Close(context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
