package models

import "time"

// Post is a shared music link with discussion attached.
type Post struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	AuthorID     uint      `json:"author_id" gorm:"index"`
	CommunityID  *uint     `json:"community_id,omitempty" gorm:"index"`
	Title        string    `json:"title"`
	LinkURL      string    `json:"link_url,omitempty"`
	Body         string    `json:"body,omitempty"`
	IsFresh      bool      `json:"is_fresh" gorm:"index"` // flags the post for the public fresh-finds feed
	UpvoteCount  int       `json:"upvote_count" gorm:"default:0"`
	CommentCount int       `json:"comment_count" gorm:"default:0"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	LinkURL     string `json:"link_url,omitempty" validate:"omitempty,url"`
	Body        string `json:"body,omitempty" validate:"omitempty,max=5000"`
	CommunityID *uint  `json:"community_id,omitempty"`
	IsFresh     bool   `json:"is_fresh,omitempty"`
}
