// Package users persists account records.
package users

import (
	"context"

	"inkwell/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// HandleOrEmailTaken runs one combined existence query over both unique
	// identifiers, ignoring the record with excludeID (pass "" on create).
	// Deactivated records still count: uniqueness is never released.
	HandleOrEmailTaken(ctx context.Context, handle, email, excludeID string) (bool, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	UpdatePasswordDigest(ctx context.Context, id, digest string) error
	TouchLastLogin(ctx context.Context, id string) error
	Deactivate(ctx context.Context, id string) error
}
