package comments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"inkwell/internal/common"
	"inkwell/internal/dbx"
	"inkwell/internal/server/models"
)

// commentColumns selects the row plus derived like-count and viewer-liked
// flags; the viewer id is always bound as $1 (NULL for anonymous).
const commentColumns = `c.id, c.blog_id, c.author_id, c.parent_id, c.body,
	c.edited, c.edited_at, c.deleted, c.deleted_at, c.created_at, c.updated_at,
	(SELECT count(*) FROM comment_likes cl WHERE cl.comment_id = c.id) AS like_count,
	EXISTS (SELECT 1 FROM comment_likes cl WHERE cl.comment_id = c.id AND cl.user_id = $1::uuid) AS liked`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func viewerArg(viewerID string) any {
	if viewerID == "" {
		return nil
	}
	return viewerID
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComment(row rowScanner) (*models.Comment, error) {
	c := &models.Comment{}
	err := row.Scan(&c.ID, &c.BlogID, &c.AuthorID, &c.ParentID, &c.Body,
		&c.Edited, &c.EditedAt, &c.Deleted, &c.DeletedAt, &c.CreatedAt, &c.UpdatedAt,
		&c.LikeCount, &c.Liked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) queryComments(ctx context.Context, query string, args ...any) ([]*models.Comment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {

	query :=
		`INSERT INTO comments (blog_id, author_id, parent_id, body)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		comment.BlogID, comment.AuthorID, comment.ParentID, comment.Body).
		Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return comment, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id, viewerID string) (*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments c WHERE c.id = $2`
	return scanComment(r.db.QueryRowContext(ctx, query, viewerArg(viewerID), id))
}

// ListByBlog returns the post's non-deleted comments, newest first.
// Soft-deleted rows stay in the table for reply-chain integrity but never
// appear in listings.
func (r *PostgresRepository) ListByBlog(ctx context.Context, blogID, viewerID string, limit, offset int) ([]*models.Comment, error) {

	query :=
		`SELECT ` + commentColumns + ` FROM comments c
		 WHERE c.blog_id = $2 AND NOT c.deleted
		 ORDER BY c.created_at DESC
		 LIMIT $3 OFFSET $4`

	return r.queryComments(ctx, query, viewerArg(viewerID), blogID, limit, offset)
}

func (r *PostgresRepository) CountByBlog(ctx context.Context, blogID string) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM comments WHERE blog_id = $1 AND NOT deleted`, blogID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return total, nil
}

func (r *PostgresRepository) ListReplies(ctx context.Context, parentID, viewerID string, limit, offset int) ([]*models.Comment, error) {

	query :=
		`SELECT ` + commentColumns + ` FROM comments c
		 WHERE c.parent_id = $2 AND NOT c.deleted
		 ORDER BY c.created_at ASC
		 LIMIT $3 OFFSET $4`

	return r.queryComments(ctx, query, viewerArg(viewerID), parentID, limit, offset)
}

func (r *PostgresRepository) CountReplies(ctx context.Context, parentID string) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM comments WHERE parent_id = $1 AND NOT deleted`, parentID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return total, nil
}

// authorVisibilityCond gates rows on the parent post's visibility to the
// viewer: publicly visible, or owned by the viewer, or viewer is admin.
const authorVisibilityCond = `
	 JOIN blogs b ON b.id = c.blog_id
	 WHERE c.author_id = $2 AND NOT c.deleted
	   AND ((b.status = 'published' AND b.is_public) OR b.author_id = $1::uuid OR $3)`

func (r *PostgresRepository) ListByAuthor(ctx context.Context, f AuthorFilter, limit, offset int) ([]*models.Comment, error) {

	query :=
		`SELECT ` + commentColumns + ` FROM comments c` + authorVisibilityCond + `
		 ORDER BY c.created_at DESC
		 LIMIT $4 OFFSET $5`

	return r.queryComments(ctx, query, viewerArg(f.ViewerID), f.AuthorID, f.ViewerAdmin, limit, offset)
}

func (r *PostgresRepository) CountByAuthor(ctx context.Context, f AuthorFilter) (int64, error) {

	query := `SELECT count(*) FROM comments c` + authorVisibilityCond

	var total int64
	err := r.db.QueryRowContext(ctx, query, viewerArg(f.ViewerID), f.AuthorID, f.ViewerAdmin).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return total, nil
}

func (r *PostgresRepository) UpdateBody(ctx context.Context, id, body string, editedAt time.Time) (*models.Comment, error) {

	query :=
		`UPDATE comments
		 SET body = $2, edited = true, edited_at = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING blog_id, author_id, parent_id, created_at, updated_at`

	c := &models.Comment{ID: id, Body: body, Edited: true, EditedAt: &editedAt}
	err := r.db.QueryRowContext(ctx, query, id, body, editedAt).
		Scan(&c.BlogID, &c.AuthorID, &c.ParentID, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) SoftDelete(ctx context.Context, id, tombstone string) error {

	query :=
		`UPDATE comments
		 SET body = $2, deleted = true, deleted_at = now(), updated_at = now()
		 WHERE id = $1 AND NOT deleted`

	res, err := r.db.ExecContext(ctx, query, id, tombstone)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) DeleteByBlog(ctx context.Context, blogID string) error {

	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM comment_likes WHERE comment_id IN (SELECT id FROM comments WHERE blog_id = $1)`, blogID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE blog_id = $1`, blogID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) InsertLike(ctx context.Context, commentID, userID string) (bool, error) {

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO comment_likes (comment_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		commentID, userID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) DeleteLike(ctx context.Context, commentID, userID string) (bool, error) {

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM comment_likes WHERE comment_id = $1 AND user_id = $2`, commentID, userID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) CountLikes(ctx context.Context, commentID string) (int64, error) {

	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM comment_likes WHERE comment_id = $1`, commentID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return total, nil
}
