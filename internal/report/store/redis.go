package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"spearow/internal/report/models"
)

var cacheOpDurationMs = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "spearow_cache_op_duration_ms",
	Help:    "Latency of cache store operations in milliseconds",
	Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50},
}, []string{"op"})

const keyPrefix = "spearow:"

// envelope is the persisted document wrapper. FetchedAt makes staleness an
// inspectable property of every cached document.
type envelope struct {
	FetchedAt time.Time      `json:"fetchedAt"`
	Doc       *models.Record `json:"doc"`
}

// RedisStore is the production Store. Each document is a JSON blob under
// its own key; a per-collection id list preserves insertion order and a
// key-index hash supports exact-match lookups.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisStore constructs a Redis-backed cache store. The client lifecycle
// is managed by the caller.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func docKey(collection, id string) string {
	return keyPrefix + collection + ":doc:" + id
}

func idsKey(collection string) string {
	return keyPrefix + collection + ":ids"
}

func indexKey(collection string) string {
	return keyPrefix + collection + ":index"
}

func observe(op string, start time.Time) {
	cacheOpDurationMs.WithLabelValues(op).Observe(float64(time.Since(start).Microseconds()) / 1000.0)
}

func (s *RedisStore) GetByKey(ctx context.Context, collection, key string) (*CacheEntry, error) {
	start := time.Now()
	defer observe("get_by_key", start)

	id, err := s.client.HGet(ctx, indexKey(collection), key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache index lookup: %w", err)
	}

	raw, err := s.client.Get(ctx, docKey(collection, id)).Result()
	if errors.Is(err, redis.Nil) {
		// Index points at a deleted document; treat as a miss.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache document read: %w", err)
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return nil, fmt.Errorf("decode cache document: %w", err)
	}
	return &CacheEntry{Doc: env.Doc, FetchedAt: env.FetchedAt}, nil
}

func (s *RedisStore) ListAll(ctx context.Context, collection string) ([]*models.Record, error) {
	start := time.Now()
	defer observe("list_all", start)

	ids, err := s.client.LRange(ctx, idsKey(collection), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("cache id list: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = docKey(collection, id)
	}
	raws, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("cache bulk read: %w", err)
	}

	docs := make([]*models.Record, 0, len(raws))
	for _, raw := range raws {
		str, ok := raw.(string)
		if !ok {
			continue // document expired or deleted since listing
		}
		var env envelope
		if err := json.Unmarshal([]byte(str), &env); err != nil {
			return nil, fmt.Errorf("decode cache document: %w", err)
		}
		docs = append(docs, env.Doc)
	}
	return docs, nil
}

func (s *RedisStore) OverwriteField(ctx context.Context, collection, key, field string, value any) error {
	start := time.Now()
	defer observe("overwrite_field", start)

	id, err := s.client.HGet(ctx, indexKey(collection), key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		doc := models.NewRecord()
		doc.Set(KeyField(collection), key)
		doc.Set(field, value)
		return s.insert(ctx, collection, doc)
	case err != nil:
		return fmt.Errorf("cache index lookup: %w", err)
	}

	raw, err := s.client.Get(ctx, docKey(collection, id)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("cache document read: %w", err)
	}

	var env envelope
	if err == nil {
		if err := json.Unmarshal([]byte(raw), &env); err != nil {
			return fmt.Errorf("decode cache document: %w", err)
		}
	}
	if env.Doc == nil {
		env.Doc = models.NewRecord()
		env.Doc.Set(models.StorageIDField, id)
		env.Doc.Set(KeyField(collection), key)
	}
	env.Doc.Set(field, value)
	env.FetchedAt = s.now()

	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode cache document: %w", err)
	}
	if err := s.client.Set(ctx, docKey(collection, id), data, 0).Err(); err != nil {
		return fmt.Errorf("cache document write: %w", err)
	}
	return nil
}

func (s *RedisStore) InsertOne(ctx context.Context, collection string, doc *models.Record) error {
	start := time.Now()
	defer observe("insert_one", start)
	return s.insert(ctx, collection, doc)
}

func (s *RedisStore) InsertMany(ctx context.Context, collection string, docs []*models.Record) error {
	start := time.Now()
	defer observe("insert_many", start)
	for _, doc := range docs {
		if err := s.insert(ctx, collection, doc); err != nil {
			return err
		}
	}
	return nil
}

func (s *RedisStore) insert(ctx context.Context, collection string, doc *models.Record) error {
	id := uuid.NewString()
	stored := doc.Clone()
	stored.Set(models.StorageIDField, id)

	data, err := json.Marshal(envelope{FetchedAt: s.now(), Doc: stored})
	if err != nil {
		return fmt.Errorf("encode cache document: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, docKey(collection, id), data, 0)
	pipe.RPush(ctx, idsKey(collection), id)
	if keyVal, ok := stored.Get(KeyField(collection)); ok {
		if key, ok := keyVal.(string); ok {
			pipe.HSet(ctx, indexKey(collection), key, id)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache insert: %w", err)
	}
	return nil
}
