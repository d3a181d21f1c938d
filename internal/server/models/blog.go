package models

import (
	"strings"
	"time"
)

// BlogStatus is the lifecycle state of a post.
type BlogStatus string

const (
	StatusDraft     BlogStatus = "draft"
	StatusPublished BlogStatus = "published"
	StatusArchived  BlogStatus = "archived"
)

// Categories is the closed enumeration a post must belong to.
var Categories = []string{
	"technology", "lifestyle", "travel", "food", "health",
	"business", "education", "entertainment", "other",
}

// ValidCategory reports whether c is in the closed category set.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known lifecycle state.
func ValidStatus(s BlogStatus) bool {
	return s == StatusDraft || s == StatusPublished || s == StatusArchived
}

// wordsPerMinute is the reading speed assumed for the read-time estimate.
const wordsPerMinute = 200

// Blog is a post record. PublishedAt is set exactly once, on the first
// transition into the published state, and never reset afterwards.
//
// LikeCount and Liked are computed at query time from the like set, not
// persisted on the row.
type Blog struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	Summary     string     `json:"summary,omitempty"`
	AuthorID    string     `json:"author"`
	Category    string     `json:"category"`
	Tags        []string   `json:"tags,omitempty"`
	ImageKey    string     `json:"imageKey,omitempty"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	Status      BlogStatus `json:"status"`
	Public      bool       `json:"isPublic"`
	Views       int64      `json:"views"`
	LikeCount   int64      `json:"likeCount"`
	Liked       bool       `json:"liked,omitempty"`
	ReadTime    int        `json:"readTime"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// PubliclyVisible reports whether the post may be read by anyone:
// published and flagged public. Every other combination is visible only to
// the owner or an admin.
func (b *Blog) PubliclyVisible() bool {
	return b.Status == StatusPublished && b.Public
}

// ReadTimeMinutes estimates reading time as ceil(words / 200), minimum 1
// for a non-empty body.
func (b *Blog) ReadTimeMinutes() int {
	words := len(strings.Fields(b.Body))
	if words == 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}
