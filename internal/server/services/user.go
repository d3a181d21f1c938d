// Package services contains server-side business logic. This file implements
// UserService: registration, login and token issuance, profile updates,
// password changes, and soft deactivation.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"inkwell/internal/common"
	"inkwell/internal/server/auth"
	"inkwell/internal/server/config"
	"inkwell/internal/server/models"
	"inkwell/internal/server/repositories/repomanager"
)

// UserService provides account-related operations:
// - Register: create accounts
// - Login: verify credentials and mint a token
// - UpdateProfile / ChangePassword / Deactivate: account maintenance
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	bcryptCost                  int
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		bcryptCost:                  cfg.BcryptCost,
	}
}

// RegisterParams carries the fields accepted at registration.
type RegisterParams struct {
	Handle    string
	Email     string
	Secret    string
	FirstName string
	LastName  string
	Bio       string
	AvatarKey string
}

// Register creates a new account. Handle and email uniqueness is checked as
// one combined existence query; a collision with any record, active or not,
// yields common.ErrorConflict. Only the credential digest is stored.
func (s *UserService) Register(ctx context.Context, p RegisterParams) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	taken, err := repo.HandleOrEmailTaken(ctx, p.Handle, p.Email, "")
	if err != nil {
		return nil, fmt.Errorf("error checking uniqueness: %w", err)
	}
	if taken {
		return nil, common.ErrorConflict
	}

	digest, err := auth.HashPassword(p.Secret, s.bcryptCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		Handle:         p.Handle,
		Email:          p.Email,
		PasswordDigest: digest,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Bio:            p.Bio,
		AvatarKey:      p.AvatarKey,
		Role:           models.RoleMember,
	}

	created, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return created, nil
}

// Login verifies the secret against the stored digest and, on success,
// refreshes the last-login timestamp and returns the account with a signed
// token. Unknown email, deactivated account, and wrong secret all collapse
// into the same common.ErrorUnauthorized to avoid account enumeration.
func (s *UserService) Login(ctx context.Context, email, secret string) (*models.User, string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorUnauthorized
		}
		return nil, "", common.ErrorInternal
	}
	if !user.Active || !auth.VerifyPassword(secret, user.PasswordDigest) {
		return nil, "", common.ErrorUnauthorized
	}

	if err := repo.TouchLastLogin(ctx, user.ID); err != nil {
		return nil, "", common.ErrorInternal
	}
	now := time.Now()
	user.LastLoginAt = &now

	token, err := auth.GenerateToken(user.ID, user.Handle, string(user.Role), s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return user, token, nil
}

// GetByID fetches one account.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// ProfileUpdate carries optional profile fields; nil means "leave as is".
type ProfileUpdate struct {
	Handle    *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	AvatarKey *string
}

// UpdateProfile applies the defined fields to the account. A changed handle
// or email colliding with any other record, active or not, yields
// common.ErrorConflict.
func (s *UserService) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Handle != nil {
		user.Handle = *upd.Handle
	}
	if upd.Email != nil {
		user.Email = *upd.Email
	}
	if upd.FirstName != nil {
		user.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		user.LastName = *upd.LastName
	}
	if upd.Bio != nil {
		user.Bio = *upd.Bio
	}
	if upd.AvatarKey != nil {
		user.AvatarKey = *upd.AvatarKey
	}

	taken, err := repo.HandleOrEmailTaken(ctx, user.Handle, user.Email, user.ID)
	if err != nil {
		return nil, fmt.Errorf("error checking uniqueness: %w", err)
	}
	if taken {
		return nil, common.ErrorConflict
	}

	return repo.Update(ctx, user)
}

// ChangePassword re-digests and stores the new secret after verifying the
// current one. A failed verification yields common.ErrorBadRequest.
func (s *UserService) ChangePassword(ctx context.Context, id, currentSecret, newSecret string) error {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !auth.VerifyPassword(currentSecret, user.PasswordDigest) {
		return common.ErrorBadRequest
	}

	digest, err := auth.HashPassword(newSecret, s.bcryptCost)
	if err != nil {
		return common.ErrorInternal
	}

	return repo.UpdatePasswordDigest(ctx, id, digest)
}

// Deactivate flips the active flag off. The record, its handle, and its
// email are kept; uniqueness is never released.
func (s *UserService) Deactivate(ctx context.Context, id string) error {
	return s.repomanager.Users(s.db).Deactivate(ctx, id)
}
