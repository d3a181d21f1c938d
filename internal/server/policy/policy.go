// Package policy centralizes every authorization decision of the platform
// as pure functions over (caller, resource state). Managers must route all
// mutating or state-dependent reads through here instead of re-deriving the
// rules inline, so the visibility matrix stays in one auditable place.
//
// A nil caller means the request is anonymous.
package policy

import "inkwell/internal/server/models"

// BlogAction enumerates the mutations CanMutateBlog decides on.
type BlogAction string

// CommentAction enumerates the mutations CanMutateComment decides on.
type CommentAction string

const (
	BlogUpdate     BlogAction = "update"
	BlogDelete     BlogAction = "delete"
	BlogToggleLike BlogAction = "toggleLike"

	CommentUpdate     CommentAction = "update"
	CommentDelete     CommentAction = "delete"
	CommentToggleLike CommentAction = "toggleLike"
)

// CanViewBlog: publicly visible posts are readable by anyone; everything
// else only by the owner or an admin.
func CanViewBlog(caller *models.User, blog *models.Blog) bool {
	if blog.PubliclyVisible() {
		return true
	}
	if caller == nil {
		return false
	}
	return caller.ID == blog.AuthorID || caller.IsAdmin()
}

// CanMutateBlog: update and delete require ownership or the admin role.
// Liking requires only that the post is publicly visible and the caller is
// authenticated; liking one's own post is allowed.
func CanMutateBlog(caller *models.User, blog *models.Blog, action BlogAction) bool {
	if caller == nil {
		return false
	}
	switch action {
	case BlogUpdate, BlogDelete:
		return caller.ID == blog.AuthorID || caller.IsAdmin()
	case BlogToggleLike:
		return blog.PubliclyVisible()
	default:
		return false
	}
}

// CanViewComment delegates entirely to the parent post's visibility. A
// comment is never more restrictive or more permissive than its post.
func CanViewComment(caller *models.User, _ *models.Comment, parent *models.Blog) bool {
	return CanViewBlog(caller, parent)
}

// CanMutateComment: update and delete require ownership of the comment (not
// the post) or the admin role. Liking requires the parent post be publicly
// visible.
func CanMutateComment(caller *models.User, comment *models.Comment, parent *models.Blog, action CommentAction) bool {
	if caller == nil {
		return false
	}
	switch action {
	case CommentUpdate, CommentDelete:
		return caller.ID == comment.AuthorID || caller.IsAdmin()
	case CommentToggleLike:
		return parent.PubliclyVisible()
	default:
		return false
	}
}

// CanCreateComment: commenting requires authentication and a publicly
// visible post. Unlike viewing, owners and admins get no bypass here;
// drafts take no comments.
func CanCreateComment(caller *models.User, parent *models.Blog) bool {
	return caller != nil && parent.PubliclyVisible()
}
