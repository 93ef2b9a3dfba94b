// Package service implements report resolution: a pure decision step over a
// cache snapshot, then a single remote fetch plus write-back when the cache
// cannot settle the request.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"spearow/internal/audit"
	"spearow/internal/report/hibp"
	"spearow/internal/report/metrics"
	"spearow/internal/report/models"
	"spearow/internal/report/store"
	pkgemail "spearow/pkg/email"
	pkgerrors "spearow/pkg/errors"
	"spearow/pkg/requestcontext"
)

// reportDateLayout is the date attached to generated user reports.
const reportDateLayout = "2006-01-02"

// RemoteSource is the outbound breach provider contract. *hibp.Client
// satisfies it; tests substitute counting fakes.
type RemoteSource interface {
	BreachedAccount(ctx context.Context, account string) ([]*models.Record, error)
	Breaches(ctx context.Context) ([]*models.Record, error)
	LatestBreach(ctx context.Context) (*models.Record, error)
	Breach(ctx context.Context, name string) (*models.Record, error)
}

// UserDirectory resolves a display name for an identity. Implementations
// return "" when the identity is unknown.
type UserDirectory interface {
	DisplayName(ctx context.Context, email string) (string, error)
}

// Service resolves report requests against the cache store and the remote
// provider.
type Service struct {
	store  store.Store
	remote RemoteSource
	users  UserDirectory
	policy store.StalenessPolicy

	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   audit.Publisher
	tracer  trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics attaches the report metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithAudit attaches the audit event sink.
func WithAudit(p audit.Publisher) Option {
	return func(s *Service) { s.audit = p }
}

// WithUserDirectory attaches the display-name source for user reports.
func WithUserDirectory(d UserDirectory) Option {
	return func(s *Service) { s.users = d }
}

// WithStalenessPolicy overrides the default keep-forever cache policy.
func WithStalenessPolicy(p store.StalenessPolicy) Option {
	return func(s *Service) { s.policy = p }
}

// WithTracer sets the tracer for resolution spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// NewService constructs a report Service.
func NewService(st store.Store, remote RemoteSource, opts ...Option) *Service {
	s := &Service{
		store:  st,
		remote: remote,
		policy: store.NeverStale(),
		logger: slog.Default(),
		tracer: noop.NewTracerProvider().Tracer("report"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate resolves one report request for the given identity and returns
// the report model: a *models.UserReport, a *models.Record, a
// []*models.Record, or a sentinel string. Rendering is the caller's job.
func (s *Service) Generate(ctx context.Context, identity string, req models.ReportRequest) (any, error) {
	ctx, span := s.tracer.Start(ctx, "report.Generate",
		trace.WithAttributes(
			attribute.String("report.type", string(req.ReportType)),
			attribute.String("report.category", req.ReportCategory),
			attribute.String("report.format", string(req.ReportFormat)),
		))
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	snap, err := s.snapshot(ctx, identity, req)
	if err != nil {
		return nil, err
	}

	plan := decide(req, snap, s.policy, requestcontext.Now(ctx))

	category := req.ReportCategory
	if req.ReportType == models.ReportTypeUser {
		category = string(models.ReportTypeUser)
	}
	s.metrics.ObserveResolution(category, plan.Fetch == FetchNone)

	result := plan.Cached
	if plan.Fetch != FetchNone {
		result, err = s.execute(ctx, identity, plan)
		if err != nil {
			s.logger.ErrorContext(ctx, "report resolution failed",
				"identity", identity,
				"category", category,
				"error", err)
			return nil, err
		}
	}

	s.metrics.ObserveReport(string(req.ReportType), string(req.ReportFormat))
	s.emitAudit(ctx, identity, req)

	s.logger.InfoContext(ctx, "report generated",
		"identity", identity,
		"type", req.ReportType,
		"category", req.ReportCategory,
		"format", req.ReportFormat,
		"cache_hit", plan.Fetch == FetchNone)
	return result, nil
}

// snapshot reads only the cache state the request branch inspects.
func (s *Service) snapshot(ctx context.Context, identity string, req models.ReportRequest) (Snapshot, error) {
	var snap Snapshot
	var err error

	switch {
	case req.ReportType == models.ReportTypeUser:
		snap.UserEntry, err = s.store.GetByKey(ctx, store.CollectionUsers, identity)
	case req.ReportCategory == models.CategoryAllBreaches:
		snap.AllDocs, err = s.store.ListAll(ctx, store.CollectionBreaches)
	case req.ReportCategory == models.CategoryLatestBreaches:
		// No cache consultation: the latest snapshot is always refetched.
	default:
		snap.NameEntry, err = s.store.GetByKey(ctx, store.CollectionBreaches, req.ReportCategory)
	}
	if err != nil {
		return Snapshot{}, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "read report cache")
	}
	return snap, nil
}

func (s *Service) execute(ctx context.Context, identity string, plan Plan) (any, error) {
	switch plan.Fetch {
	case FetchByIdentity:
		return s.fetchUserReport(ctx, identity)

	case FetchAll:
		docs, err := s.remote.Breaches(ctx)
		if err != nil {
			return nil, s.remoteError(err, "fetch breach catalog")
		}
		if err := s.store.InsertMany(ctx, store.CollectionBreaches, docs); err != nil {
			return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "cache breach catalog")
		}
		return models.StripStorageIDs(docs), nil

	case FetchLatest:
		doc, err := s.remote.LatestBreach(ctx)
		if err != nil {
			return nil, s.remoteError(err, "fetch latest breach")
		}
		if err := s.store.InsertOne(ctx, store.CollectionBreaches, doc); err != nil {
			return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "cache latest breach")
		}
		return models.StripStorageID(doc), nil

	case FetchByName:
		doc, err := s.remote.Breach(ctx, plan.FetchName)
		if errors.Is(err, hibp.ErrNotFound) {
			return models.SiteNotFoundResult, nil
		}
		if err != nil {
			return nil, s.remoteError(err, fmt.Sprintf("fetch breach %q", plan.FetchName))
		}
		if err := s.store.InsertOne(ctx, store.CollectionBreaches, doc); err != nil {
			return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "cache breach record")
		}
		return models.StripStorageID(doc), nil

	default:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "no executable plan")
	}
}

// fetchUserReport builds a fresh per-identity report and overwrites the
// cached copy. A remote 404 is a normal outcome: the identity appears in no
// breaches, and that answer is cached like any other.
func (s *Service) fetchUserReport(ctx context.Context, identity string) (any, error) {
	var report any
	docs, err := s.remote.BreachedAccount(ctx, identity)
	switch {
	case errors.Is(err, hibp.ErrNotFound):
		report = models.NoBreachesMessage
	case err != nil:
		return nil, s.remoteError(err, "fetch account breaches")
	default:
		report = docs
	}

	userReport := &models.UserReport{
		Name:              s.displayName(ctx, identity),
		Email:             identity,
		ReportGeneratedAt: requestcontext.Now(ctx).UTC().Format(reportDateLayout),
		Report:            report,
	}

	if err := s.store.OverwriteField(ctx, store.CollectionUsers, identity, store.FieldBreaches, userReport.AsRecord()); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "cache user report")
	}
	return userReport, nil
}

func (s *Service) displayName(ctx context.Context, identity string) string {
	if s.users != nil {
		name, err := s.users.DisplayName(ctx, identity)
		if err != nil {
			s.logger.WarnContext(ctx, "display name lookup failed", "identity", identity, "error", err)
		} else if name != "" {
			return name
		}
	}
	first, last := pkgemail.DeriveNameFromEmail(identity)
	return first + " " + last
}

func (s *Service) remoteError(err error, op string) error {
	var statusErr *hibp.StatusError
	if errors.As(err, &statusErr) {
		return pkgerrors.Wrap(err, pkgerrors.CodeUpstream,
			fmt.Sprintf("%s: provider returned status %d", op, statusErr.StatusCode))
	}
	return pkgerrors.Wrap(err, pkgerrors.CodeUpstream, op)
}

func (s *Service) emitAudit(ctx context.Context, identity string, req models.ReportRequest) {
	if s.audit == nil {
		return
	}
	event := audit.Event{
		Timestamp: requestcontext.Now(ctx),
		Subject:   identity,
		Action:    audit.ActionReportGenerated,
		Category:  req.ReportCategory,
		Format:    string(req.ReportFormat),
		RequestID: requestcontext.RequestID(ctx),
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "error", err)
	}
}
