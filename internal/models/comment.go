package models

import "time"

// Comment represents a comment on a post. ParentID is set for replies;
// threading is one level deep, enforced by the engagement service.
type Comment struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	PostID      uint      `json:"post_id" gorm:"index"`
	AuthorID    uint      `json:"author_id" gorm:"index"`
	ParentID    *uint     `json:"parent_id,omitempty" gorm:"index"`
	Body        string    `json:"body"`
	UpvoteCount int       `json:"upvote_count" gorm:"default:0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Body     string `json:"body" validate:"required,min=1,max=2000"`
	ParentID *uint  `json:"parent_id,omitempty"`
}
