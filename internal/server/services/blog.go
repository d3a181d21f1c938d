package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"inkwell/internal/common"
	"inkwell/internal/dbx"
	"inkwell/internal/server/config"
	"inkwell/internal/server/models"
	"inkwell/internal/server/policy"
	"inkwell/internal/server/repositories/blogs"
	"inkwell/internal/server/repositories/repomanager"
)

const (
	maxTags      = 10
	maxTagLength = 30

	defaultPopularLimit = 5
	maxPopularLimit     = 50
)

// blogSortKeys is the allow-list of client sort keys mapped onto safe SQL
// order expressions. Unknown keys fall back to newest-published-first.
var blogSortKeys = map[string]string{
	"createdAt":   "b.created_at",
	"updatedAt":   "b.updated_at",
	"publishedAt": "b.published_at",
	"title":       "b.title",
	"views":       "b.views",
	"likes":       "like_count",
}

const defaultBlogOrder = "b.published_at DESC NULLS LAST"

// orderFromSortKey resolves a client sort key ("likes", "-publishedAt") to
// an ORDER BY expression. A leading '-' means descending.
func orderFromSortKey(key string) string {
	desc := strings.HasPrefix(key, "-")
	col, ok := blogSortKeys[strings.TrimPrefix(key, "-")]
	if !ok {
		return defaultBlogOrder
	}
	if desc {
		return col + " DESC"
	}
	return col + " ASC"
}

// BlogService implements the post lifecycle: listing, CRUD, publish-state
// transitions, view counting, like toggling, and popularity ranking. Every
// state-dependent decision routes through the policy package.
type BlogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewBlogService constructs a BlogService.
func NewBlogService(db *sql.DB, m repomanager.RepositoryManager, _ *config.Config) *BlogService {
	return &BlogService{db: db, repomanager: m}
}

// ListParams narrows and pages a post listing.
type ListParams struct {
	Page     int
	Size     int
	Sort     string
	Category string
	AuthorID string
	Search   string
	// Status is honored only for admins (and for Mine, where the caller
	// owns every row anyway).
	Status models.BlogStatus
}

// List returns a page of posts plus the window it was fetched with. The
// base predicate is public visibility unless the caller is an admin.
func (s *BlogService) List(ctx context.Context, caller *models.User, p ListParams) ([]*models.Blog, PageInfo, error) {
	page, size, err := normalizePage(p.Page, p.Size)
	if err != nil {
		return nil, PageInfo{}, err
	}
	if p.Category != "" && !models.ValidCategory(p.Category) {
		return nil, PageInfo{}, common.ErrorBadRequest
	}

	f := blogs.ListFilter{
		VisibleOnly: !caller.IsAdmin(),
		Category:    p.Category,
		AuthorID:    p.AuthorID,
		Search:      p.Search,
	}
	if caller != nil {
		f.ViewerID = caller.ID
	}
	if p.Status != "" {
		if !models.ValidStatus(p.Status) {
			return nil, PageInfo{}, common.ErrorBadRequest
		}
		// The filter itself stays admin-only. Non-admins see the public
		// visibility predicate regardless of what they ask for.
		if caller.IsAdmin() {
			f.Status = p.Status
		}
	}

	repo := s.repomanager.Blogs(s.db)
	list, err := repo.List(ctx, f, orderFromSortKey(p.Sort), size, (page-1)*size)
	if err != nil {
		return nil, PageInfo{}, err
	}
	total, err := repo.Count(ctx, f)
	if err != nil {
		return nil, PageInfo{}, err
	}

	return list, PageInfo{Page: page, Size: size, Total: total}, nil
}

// Get fetches one post, enforcing visibility. Reading a publicly visible
// post as anyone but its owner bumps the view counter; the bump is
// best-effort and never fails the read.
func (s *BlogService) Get(ctx context.Context, caller *models.User, id string) (*models.Blog, error) {
	repo := s.repomanager.Blogs(s.db)

	blog, err := repo.GetByID(ctx, id, callerID(caller))
	if err != nil {
		return nil, err
	}
	if !policy.CanViewBlog(caller, blog) {
		return nil, common.ErrorForbidden
	}

	if blog.PubliclyVisible() && (caller == nil || caller.ID != blog.AuthorID) {
		if err := repo.IncrementViews(ctx, id); err == nil {
			blog.Views++
		}
	}

	return blog, nil
}

// CreateParams carries the fields accepted at post creation.
type CreateParams struct {
	Title    string
	Body     string
	Summary  string
	Category string
	Tags     []string
	ImageKey string
	Status   models.BlogStatus
	Public   *bool
}

// Create stores a new post owned by the caller. Status defaults to draft;
// creating directly in the published state stamps the publish time.
func (s *BlogService) Create(ctx context.Context, caller *models.User, p CreateParams) (*models.Blog, error) {
	if p.Title == "" || p.Body == "" || !models.ValidCategory(p.Category) {
		return nil, common.ErrorBadRequest
	}
	if err := validateTags(p.Tags); err != nil {
		return nil, err
	}

	status := p.Status
	if status == "" {
		status = models.StatusDraft
	}
	if !models.ValidStatus(status) {
		return nil, common.ErrorBadRequest
	}

	public := true
	if p.Public != nil {
		public = *p.Public
	}

	blog := &models.Blog{
		Title:    p.Title,
		Body:     p.Body,
		Summary:  p.Summary,
		AuthorID: caller.ID,
		Category: p.Category,
		Tags:     p.Tags,
		ImageKey: p.ImageKey,
		Status:   status,
		Public:   public,
	}
	if status == models.StatusPublished {
		now := time.Now()
		blog.PublishedAt = &now
	}

	return s.repomanager.Blogs(s.db).Create(ctx, blog)
}

// UpdateParams carries optional post fields; nil means "leave as is".
type UpdateParams struct {
	Title    *string
	Body     *string
	Summary  *string
	Category *string
	Tags     *[]string
	ImageKey *string
	Status   *models.BlogStatus
	Public   *bool
	// AuthorID reassignment is admin-only; for everyone else the field is
	// silently dropped, not an error.
	AuthorID *string
}

// Update applies the defined fields. The first transition into the
// published state stamps PublishedAt exactly once; later edits, republish
// no-ops, and archive/publish cycles never touch it.
func (s *BlogService) Update(ctx context.Context, caller *models.User, id string, p UpdateParams) (*models.Blog, error) {
	repo := s.repomanager.Blogs(s.db)

	blog, err := repo.GetByID(ctx, id, callerID(caller))
	if err != nil {
		return nil, err
	}
	if !policy.CanMutateBlog(caller, blog, policy.BlogUpdate) {
		return nil, common.ErrorForbidden
	}

	if p.Title != nil {
		blog.Title = *p.Title
	}
	if p.Body != nil {
		blog.Body = *p.Body
	}
	if p.Summary != nil {
		blog.Summary = *p.Summary
	}
	if p.Category != nil {
		if !models.ValidCategory(*p.Category) {
			return nil, common.ErrorBadRequest
		}
		blog.Category = *p.Category
	}
	if p.Tags != nil {
		if err := validateTags(*p.Tags); err != nil {
			return nil, err
		}
		blog.Tags = *p.Tags
	}
	if p.ImageKey != nil {
		blog.ImageKey = *p.ImageKey
	}
	if p.Public != nil {
		blog.Public = *p.Public
	}
	if p.AuthorID != nil && caller.IsAdmin() {
		blog.AuthorID = *p.AuthorID
	}
	if p.Status != nil {
		if !models.ValidStatus(*p.Status) {
			return nil, common.ErrorBadRequest
		}
		blog.Status = *p.Status
		if blog.Status == models.StatusPublished && blog.PublishedAt == nil {
			now := time.Now()
			blog.PublishedAt = &now
		}
	}
	if blog.Title == "" || blog.Body == "" {
		return nil, common.ErrorBadRequest
	}

	return repo.Update(ctx, blog)
}

// Delete removes the post permanently. The comment cascade and the post
// delete run sequenced inside one transaction: comments first, so no live
// comment can outlast its post.
func (s *BlogService) Delete(ctx context.Context, caller *models.User, id string) error {
	repo := s.repomanager.Blogs(s.db)

	blog, err := repo.GetByID(ctx, id, "")
	if err != nil {
		return err
	}
	if !policy.CanMutateBlog(caller, blog, policy.BlogDelete) {
		return common.ErrorForbidden
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Comments(tx).DeleteByBlog(ctx, id); err != nil {
			return err
		}
		return s.repomanager.Blogs(tx).Delete(ctx, id)
	})
}

// ToggleLike flips the caller's membership in the post's like set and
// returns the resulting state and count. Only publicly visible posts can be
// liked; liking one's own post is fine.
func (s *BlogService) ToggleLike(ctx context.Context, caller *models.User, id string) (bool, int64, error) {
	blog, err := s.repomanager.Blogs(s.db).GetByID(ctx, id, caller.ID)
	if err != nil {
		return false, 0, err
	}
	if !policy.CanMutateBlog(caller, blog, policy.BlogToggleLike) {
		return false, 0, common.ErrorBadRequest
	}

	var liked bool
	var count int64
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Blogs(tx)

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

// Popular returns publicly visible posts ranked by likes, then views, then
// publish time.
func (s *BlogService) Popular(ctx context.Context, limit int) ([]*models.Blog, error) {
	if limit == 0 {
		limit = defaultPopularLimit
	}
	if limit < 1 || limit > maxPopularLimit {
		return nil, common.ErrorBadRequest
	}
	return s.repomanager.Blogs(s.db).Popular(ctx, limit)
}

// Mine lists the caller's posts across all states, plus a per-state count
// zero-filled for absent states.
func (s *BlogService) Mine(ctx context.Context, caller *models.User, p ListParams) ([]*models.Blog, PageInfo, map[models.BlogStatus]int64, error) {
	page, size, err := normalizePage(p.Page, p.Size)
	if err != nil {
		return nil, PageInfo{}, nil, err
	}

	f := blogs.ListFilter{AuthorID: caller.ID, ViewerID: caller.ID}
	if p.Status != "" {
		if !models.ValidStatus(p.Status) {
			return nil, PageInfo{}, nil, common.ErrorBadRequest
		}
		f.Status = p.Status
	}

	repo := s.repomanager.Blogs(s.db)
	list, err := repo.List(ctx, f, "b.created_at DESC", size, (page-1)*size)
	if err != nil {
		return nil, PageInfo{}, nil, err
	}
	total, err := repo.Count(ctx, f)
	if err != nil {
		return nil, PageInfo{}, nil, err
	}
	counts, err := repo.StatusCounts(ctx, caller.ID)
	if err != nil {
		return nil, PageInfo{}, nil, err
	}
	for _, st := range []models.BlogStatus{models.StatusDraft, models.StatusPublished, models.StatusArchived} {
		if _, ok := counts[st]; !ok {
			counts[st] = 0
		}
	}

	return list, PageInfo{Page: page, Size: size, Total: total}, counts, nil
}

func callerID(caller *models.User) string {
	if caller == nil {
		return ""
	}
	return caller.ID
}

func validateTags(tags []string) error {
	if len(tags) > maxTags {
		return common.ErrorBadRequest
	}
	for _, tag := range tags {
		if tag == "" || len(tag) > maxTagLength || strings.Contains(tag, ",") {
			return common.ErrorBadRequest
		}
	}
	return nil
}
