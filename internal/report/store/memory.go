package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"spearow/internal/report/models"
)

type memoryEntry struct {
	doc       *models.Record
	fetchedAt time.Time
}

type memoryCollection struct {
	entries []*memoryEntry
	byKey   map[string]*memoryEntry
}

// InMemoryStore is a mutex-guarded Store used by tests and development.
type InMemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
	now         func() time.Time
}

// NewInMemoryStore returns an empty in-memory cache store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		collections: make(map[string]*memoryCollection),
		now:         time.Now,
	}
}

// WithClock overrides the wall clock, for staleness tests.
func (s *InMemoryStore) WithClock(now func() time.Time) *InMemoryStore {
	s.now = now
	return s
}

func (s *InMemoryStore) collection(name string) *memoryCollection {
	col, ok := s.collections[name]
	if !ok {
		col = &memoryCollection{byKey: make(map[string]*memoryEntry)}
		s.collections[name] = col
	}
	return col
}

func (s *InMemoryStore) GetByKey(_ context.Context, collection, key string) (*CacheEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, ok := s.collections[collection]
	if !ok {
		return nil, nil
	}
	entry, ok := col.byKey[key]
	if !ok {
		return nil, nil
	}
	return &CacheEntry{Doc: entry.doc.Clone(), FetchedAt: entry.fetchedAt}, nil
}

func (s *InMemoryStore) ListAll(_ context.Context, collection string) ([]*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, ok := s.collections[collection]
	if !ok {
		return nil, nil
	}
	docs := make([]*models.Record, 0, len(col.entries))
	for _, entry := range col.entries {
		docs = append(docs, entry.doc.Clone())
	}
	return docs, nil
}

func (s *InMemoryStore) OverwriteField(_ context.Context, collection, key, field string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.collection(collection)
	entry, ok := col.byKey[key]
	if !ok {
		doc := models.NewRecord()
		doc.Set(models.StorageIDField, uuid.NewString())
		doc.Set(KeyField(collection), key)
		entry = &memoryEntry{doc: doc}
		col.entries = append(col.entries, entry)
		col.byKey[key] = entry
	}
	entry.doc.Set(field, models.CloneValue(value))
	entry.fetchedAt = s.now()
	return nil
}

func (s *InMemoryStore) InsertOne(_ context.Context, collection string, doc *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertLocked(collection, doc)
	return nil
}

func (s *InMemoryStore) InsertMany(_ context.Context, collection string, docs []*models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range docs {
		s.insertLocked(collection, doc)
	}
	return nil
}

func (s *InMemoryStore) insertLocked(collection string, doc *models.Record) {
	stored := doc.Clone()
	stored.Set(models.StorageIDField, uuid.NewString())

	entry := &memoryEntry{doc: stored, fetchedAt: s.now()}
	col := s.collection(collection)
	col.entries = append(col.entries, entry)

	if keyVal, ok := stored.Get(KeyField(collection)); ok {
		if key, ok := keyVal.(string); ok {
			col.byKey[key] = entry
		}
	}
}
