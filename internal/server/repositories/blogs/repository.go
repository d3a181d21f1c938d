// Package blogs persists post records and their like sets.
package blogs

import (
	"context"

	"inkwell/internal/server/models"
)

// ListFilter narrows a post listing. Zero values mean "no constraint".
type ListFilter struct {
	// VisibleOnly applies the public-visibility predicate (published AND
	// public). Set unless the caller is an admin or lists their own posts.
	VisibleOnly bool
	// AuthorID restricts to one author.
	AuthorID string
	// Category is an exact match against the closed category set.
	Category string
	// Search is a delegated full-text query over title/summary/body.
	Search string
	// Status restricts to one lifecycle state (admin and owner listings).
	Status models.BlogStatus
	// ViewerID marks rows the viewer has liked.
	ViewerID string
}

type Repository interface {
	List(ctx context.Context, f ListFilter, orderBy string, limit, offset int) ([]*models.Blog, error)
	Count(ctx context.Context, f ListFilter) (int64, error)
	GetByID(ctx context.Context, id, viewerID string) (*models.Blog, error)
	Create(ctx context.Context, blog *models.Blog) (*models.Blog, error)
	Update(ctx context.Context, blog *models.Blog) (*models.Blog, error)
	Delete(ctx context.Context, id string) error
	// IncrementViews bumps the view counter atomically in the store.
	IncrementViews(ctx context.Context, id string) error
	// InsertLike adds userID to the like set; reports false when already present.
	InsertLike(ctx context.Context, blogID, userID string) (bool, error)
	// DeleteLike removes userID from the like set; reports false when absent.
	DeleteLike(ctx context.Context, blogID, userID string) (bool, error)
	CountLikes(ctx context.Context, blogID string) (int64, error)
	Popular(ctx context.Context, limit int) ([]*models.Blog, error)
	// StatusCounts groups the author's posts by lifecycle state.
	StatusCounts(ctx context.Context, authorID string) (map[models.BlogStatus]int64, error)
}
