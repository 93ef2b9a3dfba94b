// Package service implements the administrative operations: account
// listing, status changes, and generating downloadable reports on behalf
// of another user.
package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"spearow/internal/audit"
	"spearow/internal/notify"
	reportModel "spearow/internal/report/models"
	"spearow/internal/report/render"
	userModel "spearow/internal/user/models"
	pkgerrors "spearow/pkg/errors"
	"spearow/pkg/requestcontext"
)

// UserService defines the account operations admin workflows need.
type UserService interface {
	List(ctx context.Context, limit int) ([]*userModel.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*userModel.User, error)
	SetAdminStatus(ctx context.Context, id uuid.UUID, admin bool) error
	SetVerifyStatus(ctx context.Context, id uuid.UUID, verified bool) error
}

// ReportService resolves reports for an arbitrary identity.
type ReportService interface {
	Generate(ctx context.Context, identity string, req reportModel.ReportRequest) (any, error)
}

// UserSummary is one row of the admin account listing.
type UserSummary struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
	Admin    bool   `json:"admin"`
	ID       string `json:"id"`
	IDFile   string `json:"id_file,omitempty"`
}

// listLimit bounds the account listing.
const listLimit = 100

// Service owns admin workflows.
type Service struct {
	users    UserService
	reports  ReportService
	notifier notify.Notifier
	audit    audit.Publisher
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithNotifier attaches the user notification sink.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithAudit attaches the audit event sink.
func WithAudit(p audit.Publisher) Option {
	return func(s *Service) { s.audit = p }
}

// NewService constructs an admin Service.
func NewService(users UserService, reports ReportService, opts ...Option) *Service {
	s := &Service{
		users:    users,
		reports:  reports,
		notifier: notify.Noop{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListUsers returns summaries of all accounts.
func (s *Service) ListUsers(ctx context.Context) ([]UserSummary, error) {
	users, err := s.users.List(ctx, listLimit)
	if err != nil {
		return nil, err
	}
	summaries := make([]UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, UserSummary{
			Name:     u.Name,
			Email:    u.Email,
			Verified: u.Verified,
			Admin:    u.IsAdmin(),
			ID:       u.ID.String(),
			IDFile:   u.IDFile,
		})
	}
	return summaries, nil
}

// GenerateUserReport produces a downloadable user report for the target
// account and notifies them. Only the downloadable formats are accepted;
// admins fetching raw JSON would bypass the notification trail.
func (s *Service) GenerateUserReport(ctx context.Context, userID uuid.UUID, format reportModel.ReportFormat) ([]byte, string, error) {
	if format != reportModel.FormatCSV && format != reportModel.FormatPDF {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "report format must be csv or pdf")
	}

	target, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	req := reportModel.ReportRequest{
		ReportType:   reportModel.ReportTypeUser,
		ReportFormat: format,
	}
	report, err := s.reports.Generate(ctx, target.Email, req)
	if err != nil {
		return nil, "", err
	}

	out, contentType, err := render.Render(report, format)
	if err != nil {
		return nil, "", err
	}

	if err := s.notifier.ReportGenerated(ctx, target.Email); err != nil {
		s.logger.WarnContext(ctx, "report notification failed",
			"email", target.Email, "error", err)
	}
	return out, contentType, nil
}

// SetAdminStatus flips the target's admin flag and records who did it.
func (s *Service) SetAdminStatus(ctx context.Context, userID uuid.UUID, admin bool) error {
	if err := s.users.SetAdminStatus(ctx, userID, admin); err != nil {
		return err
	}
	s.emitAudit(ctx, userID, audit.ActionAdminStatusChanged)
	return nil
}

// SetVerifyStatus updates the target's verified flag and records who did it.
func (s *Service) SetVerifyStatus(ctx context.Context, userID uuid.UUID, verified bool) error {
	if err := s.users.SetVerifyStatus(ctx, userID, verified); err != nil {
		return err
	}
	s.emitAudit(ctx, userID, audit.ActionVerifyStatusChanged)
	return nil
}

func (s *Service) emitAudit(ctx context.Context, userID uuid.UUID, action string) {
	if s.audit == nil {
		return
	}
	event := audit.Event{
		Timestamp: requestcontext.Now(ctx),
		Subject:   userID.String(),
		Action:    action,
		RequestID: requestcontext.RequestID(ctx),
		Detail:    "changed by " + requestcontext.CallerEmail(ctx),
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "error", err)
	}
}
