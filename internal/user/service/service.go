// Package service implements account operations on top of the user store.
package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"spearow/internal/user/models"
	"spearow/internal/user/store"
	pkgemail "spearow/pkg/email"
	pkgerrors "spearow/pkg/errors"
)

// Service owns user account reads and status mutations.
type Service struct {
	store  store.Store
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService constructs a user Service.
func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Profile returns the self-service account view. Accounts missing a user
// type are backfilled to standard and persisted.
func (s *Service) Profile(ctx context.Context, email string) (*models.Profile, error) {
	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "load user")
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "User not found")
	}

	if user.UserType == "" {
		user.UserType = models.UserTypeStandard
		if err := s.store.SetUserType(ctx, user.ID, models.UserTypeStandard); err != nil {
			return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "backfill user type")
		}
		s.logger.InfoContext(ctx, "backfilled user type", "email", email)
	}

	return &models.Profile{
		UserType:  user.UserType,
		Name:      user.Name,
		Verified:  user.Verified,
		HasIDFile: user.IDFile != "",
	}, nil
}

// DisplayName resolves the stored account name for an identity, deriving
// one from the email when the account has no name on file. Unknown
// identities resolve to "".
func (s *Service) DisplayName(ctx context.Context, email string) (string, error) {
	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", nil
	}
	if user.Name == "" {
		first, last := pkgemail.DeriveNameFromEmail(email)
		return first + " " + last, nil
	}
	return user.Name, nil
}

// GetByEmail returns the raw account record, or a not-found error.
func (s *Service) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "load user")
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "User not found")
	}
	return user, nil
}

// GetByID returns the raw account record, or a not-found error.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "load user")
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "User not found")
	}
	return user, nil
}

// List returns up to limit accounts.
func (s *Service) List(ctx context.Context, limit int) ([]*models.User, error) {
	users, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "list users")
	}
	return users, nil
}

// SetAdminStatus flips an account between admin and standard.
func (s *Service) SetAdminStatus(ctx context.Context, id uuid.UUID, admin bool) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	userType := models.UserTypeStandard
	if admin {
		userType = models.UserTypeAdmin
	}
	if err := s.store.SetUserType(ctx, id, userType); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.CodeInternal, "update admin status")
	}
	return nil
}

// SetVerifyStatus updates an account's verified flag.
func (s *Service) SetVerifyStatus(ctx context.Context, id uuid.UUID, verified bool) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.store.SetVerified(ctx, id, verified); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.CodeInternal, "update verify status")
	}
	return nil
}
