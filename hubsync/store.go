package hubsync

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

var ErrKeyRequired = errors.New("hubsync: key is required")

// Meta is storage-owned metadata for one saved snapshot.
type Meta struct {
	SnapshotID string    `json:"snapshot_id,omitempty"`
	ETag       string    `json:"etag,omitempty"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

// Store loads and saves encoded snapshots by key.
type Store interface {
	Load(ctx context.Context, key string) (data []byte, meta Meta, ok bool, err error)
	Save(ctx context.Context, key string, data []byte, meta Meta) (Meta, error)
}

// ETag fingerprints an encoded payload.
func ETag(data []byte) string {
	return strconv.FormatUint(xxhash.Sum64(data), 16)
}

// MemoryStore is an in-memory Store for tests and examples.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
}

type memoryRecord struct {
	data []byte
	meta Meta
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]memoryRecord{}}
}

func (s *MemoryStore) Load(_ context.Context, key string) ([]byte, Meta, bool, error) {
	if key == "" {
		return nil, Meta{}, false, ErrKeyRequired
	}
	s.mu.RLock()
	record, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return nil, Meta{}, false, nil
	}
	return cloneBytes(record.data), record.meta, true, nil
}

func (s *MemoryStore) Save(_ context.Context, key string, data []byte, meta Meta) (Meta, error) {
	if key == "" {
		return Meta{}, ErrKeyRequired
	}
	s.mu.Lock()
	s.records[key] = memoryRecord{data: cloneBytes(data), meta: meta}
	s.mu.Unlock()
	return meta, nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
