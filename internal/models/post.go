package models

import "time"

type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PostWithOwner is a post joined with the owning user's projection.
type PostWithOwner struct {
	Post
	User Owner `json:"user"`
}

type NewPost struct {
	Title   string
	Content string
	UserID  int64
}

// PostPatch is a partial update: nil fields are left untouched.
type PostPatch struct {
	Title   *string
	Content *string
}

func (p PostPatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil
}
