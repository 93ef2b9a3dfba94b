// Package store provides the document-oriented cache behind the report
// resolver. Documents are open records grouped into collections and looked
// up by a per-collection key field, mirroring the upstream provider's
// shapes rather than a fixed schema.
package store

import (
	"context"
	"fmt"
	"time"

	"spearow/internal/report/models"
)

// Collections used by the resolver.
const (
	CollectionUsers    = "users"
	CollectionBreaches = "breaches"
)

// FieldBreaches is the per-user document field holding the cached report.
const FieldBreaches = "breaches"

// KeyField returns the document field a collection is keyed on.
func KeyField(collection string) string {
	if collection == CollectionUsers {
		return "email"
	}
	return "Name"
}

// CacheEntry pairs a cached document with the time it was fetched from the
// remote source, so staleness is an explicit policy decision instead of
// "presence implies valid forever".
type CacheEntry struct {
	Doc       *models.Record
	FetchedAt time.Time
}

// Store is the cache contract consumed by the resolver. GetByKey returns
// (nil, nil) when no document matches. Read-then-write sequences are not
// atomic; concurrent writers race and the last write wins.
type Store interface {
	GetByKey(ctx context.Context, collection, key string) (*CacheEntry, error)
	ListAll(ctx context.Context, collection string) ([]*models.Record, error)
	OverwriteField(ctx context.Context, collection, key, field string, value any) error
	InsertOne(ctx context.Context, collection string, doc *models.Record) error
	InsertMany(ctx context.Context, collection string, docs []*models.Record) error
}

// StalenessPolicy decides whether a cache entry may still be served.
type StalenessPolicy interface {
	Stale(fetchedAt, now time.Time) bool
}

type neverStale struct{}

func (neverStale) Stale(time.Time, time.Time) bool { return false }

// NeverStale treats any present entry as valid forever. This preserves the
// historical behavior and is the default.
func NeverStale() StalenessPolicy { return neverStale{} }

type ttlStaleness struct {
	ttl time.Duration
}

func (p ttlStaleness) Stale(fetchedAt, now time.Time) bool {
	if fetchedAt.IsZero() {
		return true
	}
	return now.Sub(fetchedAt) > p.ttl
}

// TTLStaleness marks entries older than ttl as stale, forcing a refetch.
func TTLStaleness(ttl time.Duration) StalenessPolicy { return ttlStaleness{ttl: ttl} }

// PolicyFromConfig selects a staleness policy by name ("none" or "ttl").
func PolicyFromConfig(mode string, ttl time.Duration) (StalenessPolicy, error) {
	switch mode {
	case "", "none":
		return NeverStale(), nil
	case "ttl":
		if ttl <= 0 {
			return nil, fmt.Errorf("staleness mode %q requires a positive TTL", mode)
		}
		return TTLStaleness(ttl), nil
	default:
		return nil, fmt.Errorf("unknown staleness mode %q", mode)
	}
}
