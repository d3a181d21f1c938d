package models

import "time"

// CommentTombstone replaces the body of a soft-deleted comment. The row
// itself stays so reply chains keep their shape.
const CommentTombstone = "[deleted]"

// Comment is a threaded comment on a blog post. ParentID nil means
// top-level; when set it references a comment on the same post.
type Comment struct {
	ID        string     `json:"id"`
	BlogID    string     `json:"blog"`
	AuthorID  string     `json:"author"`
	ParentID  *string    `json:"parentComment,omitempty"`
	Body      string     `json:"body"`
	Edited    bool       `json:"isEdited"`
	EditedAt  *time.Time `json:"editedAt,omitempty"`
	Deleted   bool       `json:"isDeleted"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
	LikeCount int64      `json:"likeCount"`
	Liked     bool       `json:"liked,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
