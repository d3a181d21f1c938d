package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"inkwell/internal/dbx"
	"inkwell/internal/server/models"
	blogsrepo "inkwell/internal/server/repositories/blogs"
	commentsrepo "inkwell/internal/server/repositories/comments"
	"inkwell/internal/server/repositories/repomanager"
	usersrepo "inkwell/internal/server/repositories/users"
)

// -------- test fakes --------

type fakeUsersRepo struct {
	usersrepo.Repository

	createOut *models.User
	createErr error

	byID    *models.User
	byIDErr error

	byEmail    *models.User
	byEmailErr error

	taken    bool
	takenErr error

	updateErr    error
	updated      *models.User
	newDigest    string
	touchedID    string
	deactivated  string
	touchErr     error
	updDigestErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	u.ID = "u-new"
	return u, nil
}
func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return f.byID, f.byIDErr
}
func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.byEmail, f.byEmailErr
}
func (f *fakeUsersRepo) HandleOrEmailTaken(ctx context.Context, handle, email, excludeID string) (bool, error) {
	return f.taken, f.takenErr
}
func (f *fakeUsersRepo) Update(ctx context.Context, u *models.User) (*models.User, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updated = u
	return u, nil
}
func (f *fakeUsersRepo) UpdatePasswordDigest(ctx context.Context, id, digest string) error {
	f.newDigest = digest
	return f.updDigestErr
}
func (f *fakeUsersRepo) TouchLastLogin(ctx context.Context, id string) error {
	f.touchedID = id
	return f.touchErr
}
func (f *fakeUsersRepo) Deactivate(ctx context.Context, id string) error {
	f.deactivated = id
	return nil
}

type fakeBlogsRepo struct {
	blogsrepo.Repository

	listOut []*models.Blog
	listErr error

	lastFilter  blogsrepo.ListFilter
	lastOrderBy string
	lastLimit   int
	lastOffset  int

	countOut int64

	getOut *models.Blog
	getErr error

	createOut *models.Blog
	createErr error

	updateOut *models.Blog
	updateErr error

	deletedID string

	incCalled bool
	incErr    error

	insertLikeOut bool
	insertLikeErr error
	deleteLikeHit bool
	countLikesOut int64

	popularOut []*models.Blog

	statusCounts map[models.BlogStatus]int64
}

func (f *fakeBlogsRepo) List(ctx context.Context, fl blogsrepo.ListFilter, orderBy string, limit, offset int) ([]*models.Blog, error) {
	f.lastFilter, f.lastOrderBy, f.lastLimit, f.lastOffset = fl, orderBy, limit, offset
	return f.listOut, f.listErr
}
func (f *fakeBlogsRepo) Count(ctx context.Context, fl blogsrepo.ListFilter) (int64, error) {
	return f.countOut, nil
}
func (f *fakeBlogsRepo) GetByID(ctx context.Context, id, viewerID string) (*models.Blog, error) {
	return f.getOut, f.getErr
}
func (f *fakeBlogsRepo) Create(ctx context.Context, b *models.Blog) (*models.Blog, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	b.ID = "b-new"
	return b, nil
}
func (f *fakeBlogsRepo) Update(ctx context.Context, b *models.Blog) (*models.Blog, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.updateOut != nil {
		return f.updateOut, nil
	}
	return b, nil
}
func (f *fakeBlogsRepo) Delete(ctx context.Context, id string) error {
	f.deletedID = id
	return nil
}
func (f *fakeBlogsRepo) IncrementViews(ctx context.Context, id string) error {
	f.incCalled = true
	return f.incErr
}
func (f *fakeBlogsRepo) InsertLike(ctx context.Context, blogID, userID string) (bool, error) {
	return f.insertLikeOut, f.insertLikeErr
}
func (f *fakeBlogsRepo) DeleteLike(ctx context.Context, blogID, userID string) (bool, error) {
	f.deleteLikeHit = true
	return true, nil
}
func (f *fakeBlogsRepo) CountLikes(ctx context.Context, blogID string) (int64, error) {
	return f.countLikesOut, nil
}
func (f *fakeBlogsRepo) Popular(ctx context.Context, limit int) ([]*models.Blog, error) {
	return f.popularOut, nil
}
func (f *fakeBlogsRepo) StatusCounts(ctx context.Context, authorID string) (map[models.BlogStatus]int64, error) {
	return f.statusCounts, nil
}

type fakeCommentsRepo struct {
	commentsrepo.Repository

	createOut *models.Comment
	createErr error

	getOut *models.Comment
	getErr error

	listOut  []*models.Comment
	countOut int64

	updateOut *models.Comment

	softDeletedID string
	softTombstone string

	deletedBlogID string

	insertLikeOut bool
	deleteLikeHit bool
	countLikesOut int64
}

func (f *fakeCommentsRepo) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	c.ID = "c-new"
	return c, nil
}
func (f *fakeCommentsRepo) GetByID(ctx context.Context, id, viewerID string) (*models.Comment, error) {
	return f.getOut, f.getErr
}
func (f *fakeCommentsRepo) ListByBlog(ctx context.Context, blogID, viewerID string, limit, offset int) ([]*models.Comment, error) {
	return f.listOut, nil
}
func (f *fakeCommentsRepo) CountByBlog(ctx context.Context, blogID string) (int64, error) {
	return f.countOut, nil
}
func (f *fakeCommentsRepo) ListReplies(ctx context.Context, parentID, viewerID string, limit, offset int) ([]*models.Comment, error) {
	return f.listOut, nil
}
func (f *fakeCommentsRepo) CountReplies(ctx context.Context, parentID string) (int64, error) {
	return f.countOut, nil
}
func (f *fakeCommentsRepo) ListByAuthor(ctx context.Context, fl commentsrepo.AuthorFilter, limit, offset int) ([]*models.Comment, error) {
	return f.listOut, nil
}
func (f *fakeCommentsRepo) CountByAuthor(ctx context.Context, fl commentsrepo.AuthorFilter) (int64, error) {
	return f.countOut, nil
}
func (f *fakeCommentsRepo) UpdateBody(ctx context.Context, id, body string, editedAt time.Time) (*models.Comment, error) {
	if f.updateOut != nil {
		return f.updateOut, nil
	}
	return &models.Comment{ID: id, Body: body, Edited: true, EditedAt: &editedAt}, nil
}
func (f *fakeCommentsRepo) SoftDelete(ctx context.Context, id, tombstone string) error {
	f.softDeletedID, f.softTombstone = id, tombstone
	return nil
}
func (f *fakeCommentsRepo) DeleteByBlog(ctx context.Context, blogID string) error {
	f.deletedBlogID = blogID
	return nil
}
func (f *fakeCommentsRepo) InsertLike(ctx context.Context, commentID, userID string) (bool, error) {
	return f.insertLikeOut, nil
}
func (f *fakeCommentsRepo) DeleteLike(ctx context.Context, commentID, userID string) (bool, error) {
	f.deleteLikeHit = true
	return true, nil
}
func (f *fakeCommentsRepo) CountLikes(ctx context.Context, commentID string) (int64, error) {
	return f.countLikesOut, nil
}

type fakeRepoManager struct {
	repomanager.RepositoryManager
	u *fakeUsersRepo
	b *fakeBlogsRepo
	c *fakeCommentsRepo
}

func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.u }
func (m *fakeRepoManager) Blogs(db dbx.DBTX) blogsrepo.Repository       { return m.b }
func (m *fakeRepoManager) Comments(db dbx.DBTX) commentsrepo.Repository { return m.c }

// -------- helpers --------

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }
