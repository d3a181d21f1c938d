package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"inkwell/internal/common"
	"inkwell/internal/dbx"
	"inkwell/internal/server/models"
)

const userColumns = `id, handle, email, password_digest, first_name, last_name, bio, avatar_key, role, active, last_login_at, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Handle, &u.Email, &u.PasswordDigest, &u.FirstName, &u.LastName,
		&u.Bio, &u.AvatarKey, &u.Role, &u.Active, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (handle, email, password_digest, first_name, last_name, bio, avatar_key, role)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING ` + userColumns

	row := r.db.QueryRowContext(ctx, query,
		user.Handle, user.Email, user.PasswordDigest,
		user.FirstName, user.LastName, user.Bio, user.AvatarKey, user.Role)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, common.ErrorConflict
		}
		return nil, err
	}

	return created, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) HandleOrEmailTaken(ctx context.Context, handle, email, excludeID string) (bool, error) {

	query :=
		`SELECT EXISTS (
		   SELECT 1 FROM users
		   WHERE (handle = $1 OR email = $2) AND ($3 = '' OR id != $3::uuid)
		 )`

	var taken bool
	if err := r.db.QueryRowContext(ctx, query, handle, email, excludeID).Scan(&taken); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return taken, nil
}

func (r *PostgresRepository) Update(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`UPDATE users
		 SET handle = $2, email = $3, first_name = $4, last_name = $5, bio = $6, avatar_key = $7, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + userColumns

	row := r.db.QueryRowContext(ctx, query,
		user.ID, user.Handle, user.Email, user.FirstName, user.LastName, user.Bio, user.AvatarKey)

	updated, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, common.ErrorConflict
		}
		return nil, err
	}

	return updated, nil
}

func (r *PostgresRepository) UpdatePasswordDigest(ctx context.Context, id, digest string) error {
	query := `UPDATE users SET password_digest = $2, updated_at = now() WHERE id = $1`
	return r.exec(ctx, query, id, digest)
}

func (r *PostgresRepository) TouchLastLogin(ctx context.Context, id string) error {
	query := `UPDATE users SET last_login_at = now() WHERE id = $1`
	return r.exec(ctx, query, id)
}

func (r *PostgresRepository) Deactivate(ctx context.Context, id string) error {
	query := `UPDATE users SET active = false, updated_at = now() WHERE id = $1`
	return r.exec(ctx, query, id)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
