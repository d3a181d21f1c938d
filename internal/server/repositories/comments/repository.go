// Package comments persists threaded comments and their like sets.
package comments

import (
	"context"
	"time"

	"inkwell/internal/server/models"
)

// AuthorFilter scopes an author listing to comments whose parent post the
// viewer may see.
type AuthorFilter struct {
	AuthorID string
	// ViewerID and ViewerAdmin widen the parent-post visibility predicate
	// beyond publicly-visible.
	ViewerID    string
	ViewerAdmin bool
}

type Repository interface {
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	// GetByID returns the row regardless of its deleted flag; callers decide
	// whether a tombstoned comment counts as absent.
	GetByID(ctx context.Context, id, viewerID string) (*models.Comment, error)
	ListByBlog(ctx context.Context, blogID, viewerID string, limit, offset int) ([]*models.Comment, error)
	CountByBlog(ctx context.Context, blogID string) (int64, error)
	ListReplies(ctx context.Context, parentID, viewerID string, limit, offset int) ([]*models.Comment, error)
	CountReplies(ctx context.Context, parentID string) (int64, error)
	ListByAuthor(ctx context.Context, f AuthorFilter, limit, offset int) ([]*models.Comment, error)
	CountByAuthor(ctx context.Context, f AuthorFilter) (int64, error)
	UpdateBody(ctx context.Context, id, body string, editedAt time.Time) (*models.Comment, error)
	// SoftDelete tombstones the body and flags the row; the row survives so
	// reply chains keep their shape.
	SoftDelete(ctx context.Context, id, tombstone string) error
	// DeleteByBlog physically removes every comment of a post; only the
	// post-delete cascade calls this.
	DeleteByBlog(ctx context.Context, blogID string) error
	InsertLike(ctx context.Context, commentID, userID string) (bool, error)
	DeleteLike(ctx context.Context, commentID, userID string) (bool, error)
	CountLikes(ctx context.Context, commentID string) (int64, error)
}
