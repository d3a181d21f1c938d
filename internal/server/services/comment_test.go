package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"inkwell/internal/common"
	"inkwell/internal/server/models"
)

func newCommentService(t *testing.T, rm *fakeRepoManager) (*CommentService, func()) {
	t.Helper()
	db, _ := newSQLMockDB(t)
	return NewCommentService(db, rm), func() { db.Close() }
}

func liveComment(id, blogID, author string) *models.Comment {
	return &models.Comment{ID: id, BlogID: blogID, AuthorID: author, Body: "hello"}
}

func TestCommentCreate_RequiresPublicVisibility(t *testing.T) {
	draft := &models.Blog{ID: "b1", Title: "t", Body: "b", AuthorID: "owner", Status: models.StatusDraft, Public: true}
	rm := &fakeRepoManager{b: &fakeBlogsRepo{getOut: draft}, c: &fakeCommentsRepo{}}
	s, done := newCommentService(t, rm)
	defer done()

	// even the owner cannot comment on a non-visible post
	if _, err := s.Create(context.Background(), &models.User{ID: "owner"}, "b1", "hi", nil); !errors.Is(err, common.ErrorBadRequest) {
		t.Fatalf("owner on draft: want ErrorBadRequest, got %v", err)
	}
}

func TestCommentCreate_Success(t *testing.T) {
	rm := &fakeRepoManager{b: &fakeBlogsRepo{getOut: publishedBlog("owner")}, c: &fakeCommentsRepo{}}
	s, done := newCommentService(t, rm)
	defer done()

	c, err := s.Create(context.Background(), &models.User{ID: "u1"}, "b1", "hi", nil)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if c.ID == "" || c.AuthorID != "u1" || c.BlogID != "b1" {
		t.Fatalf("unexpected comment: %+v", c)
	}
}

func TestCommentCreate_ReplyParentRules(t *testing.T) {
	parentID := "c-parent"

	// deleted parent reads as absent
	deleted := liveComment(parentID, "b1", "x")
	deleted.Deleted = true
	rmDel := &fakeRepoManager{
		b: &fakeBlogsRepo{getOut: publishedBlog("owner")},
		c: &fakeCommentsRepo{getOut: deleted},
	}
	sDel, doneDel := newCommentService(t, rmDel)
	defer doneDel()
	if _, err := sDel.Create(context.Background(), &models.User{ID: "u1"}, "b1", "hi", &parentID); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("deleted parent: want ErrorNotFound, got %v", err)
	}

	// parent on another post
	rmX := &fakeRepoManager{
		b: &fakeBlogsRepo{getOut: publishedBlog("owner")},
		c: &fakeCommentsRepo{getOut: liveComment(parentID, "b-other", "x")},
	}
	sX, doneX := newCommentService(t, rmX)
	defer doneX()
	if _, err := sX.Create(context.Background(), &models.User{ID: "u1"}, "b1", "hi", &parentID); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("cross-post parent: want ErrorNotFound, got %v", err)
	}

	// live parent on the same post
	rmOK := &fakeRepoManager{
		b: &fakeBlogsRepo{getOut: publishedBlog("owner")},
		c: &fakeCommentsRepo{getOut: liveComment(parentID, "b1", "x")},
	}
	sOK, doneOK := newCommentService(t, rmOK)
	defer doneOK()
	c, err := sOK.Create(context.Background(), &models.User{ID: "u1"}, "b1", "hi", &parentID)
	if err != nil {
		t.Fatalf("reply error: %v", err)
	}
	if c.ParentID == nil || *c.ParentID != parentID {
		t.Fatalf("parent not kept: %+v", c)
	}
}

func TestCommentGet_DeletedReadsAsAbsent(t *testing.T) {
	deleted := liveComment("c1", "b1", "x")
	deleted.Deleted = true
	rm := &fakeRepoManager{
		b: &fakeBlogsRepo{getOut: publishedBlog("owner")},
		c: &fakeCommentsRepo{getOut: deleted},
	}
	s, done := newCommentService(t, rm)
	defer done()

	if _, err := s.Get(context.Background(), nil, "c1"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestCommentReplies_TombstonedParentStillListable(t *testing.T) {
	parent := liveComment("c1", "b1", "x")
	parent.Deleted = true
	parent.Body = models.CommentTombstone
	rm := &fakeRepoManager{
		b: &fakeBlogsRepo{getOut: publishedBlog("owner")},
		c: &fakeCommentsRepo{getOut: parent, listOut: []*models.Comment{liveComment("c2", "b1", "y")}, countOut: 1},
	}
	s, done := newCommentService(t, rm)
	defer done()

	list, info, err := s.Replies(context.Background(), nil, "c1", 0, 0)
	if err != nil {
		t.Fatalf("Replies error: %v", err)
	}
	if len(list) != 1 || info.Total != 1 {
		t.Fatalf("replies: list=%d total=%d", len(list), info.Total)
	}
	if info.Page != 1 || info.Size != 10 {
		t.Fatalf("effective window: %+v", info)
	}
}

func TestCommentUpdate_Ownership(t *testing.T) {
	rm := &fakeRepoManager{
		b: &fakeBlogsRepo{getOut: publishedBlog("owner")},
		c: &fakeCommentsRepo{getOut: liveComment("c1", "b1", "author")},
	}
	s, done := newCommentService(t, rm)
	defer done()

	if _, err := s.Update(context.Background(), &models.User{ID: "stranger"}, "c1", "new"); !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("stranger: want ErrorForbidden, got %v", err)
	}

	c, err := s.Update(context.Background(), &models.User{ID: "author"}, "c1", "new")
	if err != nil {
		t.Fatalf("author update: %v", err)
	}
	if !c.Edited || c.EditedAt == nil {
		t.Fatalf("edited flag not stamped: %+v", c)
	}

	if _, err := s.Update(context.Background(), &models.User{ID: "adm", Role: models.RoleAdmin}, "c1", "mod"); err != nil {
		t.Fatalf("admin update: %v", err)
	}
}

func TestCommentDelete_TombstoneOnce(t *testing.T) {
	repo := &fakeCommentsRepo{getOut: liveComment("c1", "b1", "author")}
	rm := &fakeRepoManager{b: &fakeBlogsRepo{getOut: publishedBlog("owner")}, c: repo}
	s, done := newCommentService(t, rm)
	defer done()

	if err := s.Delete(context.Background(), &models.User{ID: "author"}, "c1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if repo.softDeletedID != "c1" || repo.softTombstone != models.CommentTombstone {
		t.Fatalf("soft delete not delegated: %q %q", repo.softDeletedID, repo.softTombstone)
	}

	repo.getOut.Deleted = true
	now := time.Now()
	repo.getOut.DeletedAt = &now
	if err := s.Delete(context.Background(), &models.User{ID: "author"}, "c1"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("second delete: want ErrorNotFound, got %v", err)
	}
}

func TestCommentToggleLike(t *testing.T) {
	repo := &fakeCommentsRepo{getOut: liveComment("c1", "b1", "author"), insertLikeOut: true, countLikesOut: 3}
	rm := &fakeRepoManager{b: &fakeBlogsRepo{getOut: publishedBlog("owner")}, c: repo}

	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	s := NewCommentService(db, rm)
	liked, count, err := s.ToggleLike(context.Background(), &models.User{ID: "u1"}, "c1")
	if err != nil {
		t.Fatalf("ToggleLike error: %v", err)
	}
	if !liked || count != 3 {
		t.Fatalf("toggle: liked=%v count=%d", liked, count)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestCommentToggleLike_HiddenPost(t *testing.T) {
	draft := &models.Blog{ID: "b1", Title: "t", Body: "b", AuthorID: "owner", Status: models.StatusDraft}
	rm := &fakeRepoManager{
		b: &fakeBlogsRepo{getOut: draft},
		c: &fakeCommentsRepo{getOut: liveComment("c1", "b1", "author")},
	}
	s, done := newCommentService(t, rm)
	defer done()

	if _, _, err := s.ToggleLike(context.Background(), &models.User{ID: "owner"}, "c1"); !errors.Is(err, common.ErrorBadRequest) {
		t.Fatalf("want ErrorBadRequest, got %v", err)
	}
}

func TestCommentValidation(t *testing.T) {
	rm := &fakeRepoManager{b: &fakeBlogsRepo{getOut: publishedBlog("owner")}, c: &fakeCommentsRepo{}}
	s, done := newCommentService(t, rm)
	defer done()

	if _, err := s.Create(context.Background(), &models.User{ID: "u1"}, "b1", "", nil); !errors.Is(err, common.ErrorBadRequest) {
		t.Fatalf("empty body: want ErrorBadRequest, got %v", err)
	}

	long := make([]byte, maxCommentLength+1)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := s.Create(context.Background(), &models.User{ID: "u1"}, "b1", string(long), nil); !errors.Is(err, common.ErrorBadRequest) {
		t.Fatalf("oversize body: want ErrorBadRequest, got %v", err)
	}

	// The validation ceiling matches the column width, so a body that
	// passes here can never blow up on INSERT.
	atLimit := strings.Repeat("a", maxCommentLength)
	if _, err := s.Create(context.Background(), &models.User{ID: "u1"}, "b1", atLimit, nil); err != nil {
		t.Fatalf("body at limit: want success, got %v", err)
	}
}
