package service

import (
	"regexp"
	"time"

	"spearow/internal/report/models"
	"spearow/internal/report/store"
)

// domainShape matches bare `label.tld` domain syntax. A record-name category
// that looks like a domain is rejected so the two lookup kinds stay
// distinguishable upstream.
var domainShape = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9-]{0,61}[A-Za-z0-9])?\.[A-Za-z]{2,6}$`)

// FetchKind names the remote call an execution plan requires.
type FetchKind int

const (
	FetchNone FetchKind = iota
	FetchByIdentity
	FetchAll
	FetchLatest
	FetchByName
)

// Snapshot is the cache state relevant to one request, gathered before the
// decision is taken. Only the field matching the request branch is set.
type Snapshot struct {
	UserEntry *store.CacheEntry // users/<identity>
	AllDocs   []*models.Record  // breaches collection listing
	NameEntry *store.CacheEntry // breaches/<record name>
}

// Plan is the outcome of the pure decision step: either an immediate result
// from cache (or a literal sentinel), or the remote fetch to execute.
type Plan struct {
	Cached    any // non-nil when the cache (or a sentinel) settles the request
	Fetch     FetchKind
	FetchName string // record name for FetchByName
}

// decide chooses cache-hit vs remote-fetch for a validated request. It
// performs no I/O: the store snapshot and clock are inputs, which keeps the
// branching logic testable without network or store access.
func decide(req models.ReportRequest, snap Snapshot, policy store.StalenessPolicy, now time.Time) Plan {
	if req.ReportType == models.ReportTypeUser {
		return decideUser(snap, policy, now)
	}
	return decideDetailed(req.ReportCategory, snap, policy, now)
}

func decideUser(snap Snapshot, policy store.StalenessPolicy, now time.Time) Plan {
	entry := snap.UserEntry
	if entry != nil && !policy.Stale(entry.FetchedAt, now) {
		if cached, ok := entry.Doc.Get(store.FieldBreaches); ok {
			return Plan{Cached: cached}
		}
	}
	return Plan{Fetch: FetchByIdentity}
}

func decideDetailed(category string, snap Snapshot, policy store.StalenessPolicy, now time.Time) Plan {
	switch category {
	case models.CategoryAllBreaches:
		if len(snap.AllDocs) > 0 {
			return Plan{Cached: models.StripStorageIDs(snap.AllDocs)}
		}
		return Plan{Fetch: FetchAll}

	case models.CategoryLatestBreaches:
		// Always a fresh fetch: each snapshot is a new point-in-time record.
		return Plan{Fetch: FetchLatest}

	default:
		if domainShape.MatchString(category) {
			return Plan{Cached: models.InvalidSiteResult}
		}
		entry := snap.NameEntry
		if entry != nil && !policy.Stale(entry.FetchedAt, now) {
			return Plan{Cached: models.StripStorageID(entry.Doc)}
		}
		return Plan{Fetch: FetchByName, FetchName: category}
	}
}
