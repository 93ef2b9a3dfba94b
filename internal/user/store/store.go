// Package store persists user accounts.
package store

import (
	"context"

	"github.com/google/uuid"

	"spearow/internal/user/models"
)

// Store is the user persistence contract. Lookups return (nil, nil) when no
// account matches.
type Store interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, limit int) ([]*models.User, error)
	Create(ctx context.Context, user *models.User) error
	SetUserType(ctx context.Context, id uuid.UUID, userType string) error
	SetVerified(ctx context.Context, id uuid.UUID, verified bool) error
}
