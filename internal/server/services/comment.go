package services

import (
	"context"
	"database/sql"
	"time"

	"inkwell/internal/common"
	"inkwell/internal/dbx"
	"inkwell/internal/server/models"
	"inkwell/internal/server/policy"
	"inkwell/internal/server/repositories/comments"
	"inkwell/internal/server/repositories/repomanager"
)

const maxCommentLength = 5000

// CommentService implements threaded comments: creation, editing,
// soft-delete tombstones, like toggling, and the per-post and per-author
// listings. Comment visibility always follows the parent post's.
type CommentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewCommentService constructs a CommentService.
func NewCommentService(db *sql.DB, m repomanager.RepositoryManager) *CommentService {
	return &CommentService{db: db, repomanager: m}
}

// Create posts a comment on a publicly visible blog. A non-visible blog is
// rejected even for its owner; drafts take no comments. A reply must name a
// live parent comment on the same blog.
func (s *CommentService) Create(ctx context.Context, caller *models.User, blogID, body string, parentID *string) (*models.Comment, error) {
	if body == "" || len(body) > maxCommentLength {
		return nil, common.ErrorBadRequest
	}

	blog, err := s.repomanager.Blogs(s.db).GetByID(ctx, blogID, caller.ID)
	if err != nil {
		return nil, err
	}
	if !policy.CanCreateComment(caller, blog) {
		return nil, common.ErrorBadRequest
	}

	if parentID != nil {
		parent, err := s.repomanager.Comments(s.db).GetByID(ctx, *parentID, caller.ID)
		if err != nil {
			return nil, err
		}
		if parent.Deleted || parent.BlogID != blogID {
			return nil, common.ErrorNotFound
		}
	}

	comment := &models.Comment{
		BlogID:   blogID,
		AuthorID: caller.ID,
		ParentID: parentID,
		Body:     body,
	}
	return s.repomanager.Comments(s.db).Create(ctx, comment)
}

// ListByBlog returns a page of the post's non-deleted comments, newest
// first, plus the window it was fetched with. Subject to the post's
// visibility.
func (s *CommentService) ListByBlog(ctx context.Context, caller *models.User, blogID string, page, size int) ([]*models.Comment, PageInfo, error) {
	page, size, err := normalizePage(page, size)
	if err != nil {
		return nil, PageInfo{}, err
	}

	blog, err := s.repomanager.Blogs(s.db).GetByID(ctx, blogID, callerID(caller))
	if err != nil {
		return nil, PageInfo{}, err
	}
	if !policy.CanViewBlog(caller, blog) {
		return nil, PageInfo{}, common.ErrorForbidden
	}

	repo := s.repomanager.Comments(s.db)
	list, err := repo.ListByBlog(ctx, blogID, callerID(caller), size, (page-1)*size)
	if err != nil {
		return nil, PageInfo{}, err
	}
	total, err := repo.CountByBlog(ctx, blogID)
	if err != nil {
		return nil, PageInfo{}, err
	}

	return list, PageInfo{Page: page, Size: size, Total: total}, nil
}

// Get fetches one comment, subject to the parent post's visibility. A
// soft-deleted comment reads as absent here; only reply listings surface
// tombstones.
func (s *CommentService) Get(ctx context.Context, caller *models.User, id string) (*models.Comment, error) {
	comment, blog, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if comment.Deleted {
		return nil, common.ErrorNotFound
	}
	if !policy.CanViewComment(caller, comment, blog) {
		return nil, common.ErrorForbidden
	}
	return comment, nil
}

// Replies returns a page of non-deleted direct replies, oldest first. The
// parent itself may be tombstoned; its replies stay reachable.
func (s *CommentService) Replies(ctx context.Context, caller *models.User, parentID string, page, size int) ([]*models.Comment, PageInfo, error) {
	page, size, err := normalizePage(page, size)
	if err != nil {
		return nil, PageInfo{}, err
	}

	parent, blog, err := s.load(ctx, caller, parentID)
	if err != nil {
		return nil, PageInfo{}, err
	}
	if !policy.CanViewComment(caller, parent, blog) {
		return nil, PageInfo{}, common.ErrorForbidden
	}

	repo := s.repomanager.Comments(s.db)
	list, err := repo.ListReplies(ctx, parentID, callerID(caller), size, (page-1)*size)
	if err != nil {
		return nil, PageInfo{}, err
	}
	total, err := repo.CountReplies(ctx, parentID)
	if err != nil {
		return nil, PageInfo{}, err
	}

	return list, PageInfo{Page: page, Size: size, Total: total}, nil
}

// ByAuthor returns a page of an author's comments, restricted to comments
// whose parent post the caller may see.
func (s *CommentService) ByAuthor(ctx context.Context, caller *models.User, authorID string, page, size int) ([]*models.Comment, PageInfo, error) {
	page, size, err := normalizePage(page, size)
	if err != nil {
		return nil, PageInfo{}, err
	}

	f := comments.AuthorFilter{
		AuthorID:    authorID,
		ViewerID:    callerID(caller),
		ViewerAdmin: caller.IsAdmin(),
	}

	repo := s.repomanager.Comments(s.db)
	list, err := repo.ListByAuthor(ctx, f, size, (page-1)*size)
	if err != nil {
		return nil, PageInfo{}, err
	}
	total, err := repo.CountByAuthor(ctx, f)
	if err != nil {
		return nil, PageInfo{}, err
	}

	return list, PageInfo{Page: page, Size: size, Total: total}, nil
}

// Update replaces the body of a live comment owned by the caller (or by
// anyone, for admins) and stamps the edited flag.
func (s *CommentService) Update(ctx context.Context, caller *models.User, id, body string) (*models.Comment, error) {
	if body == "" || len(body) > maxCommentLength {
		return nil, common.ErrorBadRequest
	}

	comment, _, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if comment.Deleted {
		return nil, common.ErrorNotFound
	}
	if !policy.CanMutateComment(caller, comment, nil, policy.CommentUpdate) {
		return nil, common.ErrorForbidden
	}

	return s.repomanager.Comments(s.db).UpdateBody(ctx, id, body, time.Now())
}

// Delete tombstones a comment: the body becomes the tombstone marker and the
// row survives so replies keep their anchor. Deleting twice is a NotFound.
func (s *CommentService) Delete(ctx context.Context, caller *models.User, id string) error {
	comment, _, err := s.load(ctx, caller, id)
	if err != nil {
		return err
	}
	if comment.Deleted {
		return common.ErrorNotFound
	}
	if !policy.CanMutateComment(caller, comment, nil, policy.CommentDelete) {
		return common.ErrorForbidden
	}

	return s.repomanager.Comments(s.db).SoftDelete(ctx, id, models.CommentTombstone)
}

// ToggleLike flips the caller's like on a live comment whose parent post is
// publicly visible, returning the resulting state and count.
func (s *CommentService) ToggleLike(ctx context.Context, caller *models.User, id string) (bool, int64, error) {
	comment, blog, err := s.load(ctx, caller, id)
	if err != nil {
		return false, 0, err
	}
	if comment.Deleted {
		return false, 0, common.ErrorNotFound
	}
	if !policy.CanMutateComment(caller, comment, blog, policy.CommentToggleLike) {
		return false, 0, common.ErrorBadRequest
	}

	var liked bool
	var count int64
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Comments(tx)

		inserted, err := repo.InsertLike(ctx, id, caller.ID)
		if err != nil {
			return err
		}
		if inserted {
			liked = true
		} else {
			if _, err := repo.DeleteLike(ctx, id, caller.ID); err != nil {
				return err
			}
		}

		count, err = repo.CountLikes(ctx, id)
		return err
	})
	if err != nil {
		return false, 0, err
	}

	return liked, count, nil
}

// load fetches a comment together with its parent post.
func (s *CommentService) load(ctx context.Context, caller *models.User, id string) (*models.Comment, *models.Blog, error) {
	comment, err := s.repomanager.Comments(s.db).GetByID(ctx, id, callerID(caller))
	if err != nil {
		return nil, nil, err
	}
	blog, err := s.repomanager.Blogs(s.db).GetByID(ctx, comment.BlogID, callerID(caller))
	if err != nil {
		return nil, nil, err
	}
	return comment, blog, nil
}
