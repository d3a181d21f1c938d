package models

import (
	"strings"
	"testing"
)

func TestPubliclyVisible(t *testing.T) {
	cases := []struct {
		status BlogStatus
		public bool
		want   bool
	}{
		{StatusPublished, true, true},
		{StatusPublished, false, false},
		{StatusDraft, true, false},
		{StatusDraft, false, false},
		{StatusArchived, true, false},
	}
	for _, c := range cases {
		b := &Blog{Status: c.status, Public: c.public}
		if got := b.PubliclyVisible(); got != c.want {
			t.Fatalf("status=%s public=%v: got %v want %v", c.status, c.public, got, c.want)
		}
	}
}

func TestReadTimeMinutes(t *testing.T) {
	if got := (&Blog{}).ReadTimeMinutes(); got != 0 {
		t.Fatalf("empty body: got %d want 0", got)
	}
	if got := (&Blog{Body: "one two three"}).ReadTimeMinutes(); got != 1 {
		t.Fatalf("3 words: got %d want 1", got)
	}
	long := strings.Repeat("word ", 401)
	if got := (&Blog{Body: long}).ReadTimeMinutes(); got != 3 {
		t.Fatalf("401 words: got %d want 3", got)
	}
}

func TestValidCategory(t *testing.T) {
	if !ValidCategory("technology") {
		t.Fatal("technology should be a valid category")
	}
	if ValidCategory("gossip") {
		t.Fatal("gossip should not be a valid category")
	}
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 35)
	if p.TotalPages != 4 || !p.HasNext || !p.HasPrev || p.CurrentPage != 2 {
		t.Fatalf("unexpected pagination: %+v", p)
	}
	p = NewPagination(1, 10, 5)
	if p.TotalPages != 1 || p.HasNext || p.HasPrev {
		t.Fatalf("unexpected pagination: %+v", p)
	}
}
