package models

import "time"

// Review is a rating of a catalog item, optionally with title/body text.
// A plain rating is a review with empty text. One per (author, item).
type Review struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	AuthorID    uint      `json:"author_id" gorm:"index;uniqueIndex:idx_author_item_review"`
	ItemID      uint      `json:"item_id" gorm:"index;uniqueIndex:idx_author_item_review"`
	Rating      int       `json:"rating"`
	Title       string    `json:"title,omitempty"`
	Body        string    `json:"body,omitempty"`
	UpvoteCount int       `json:"upvote_count" gorm:"default:0"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RateItemRequest defines the request body for rating or reviewing an item
type RateItemRequest struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Title  string `json:"title,omitempty" validate:"omitempty,max=200"`
	Body   string `json:"body,omitempty" validate:"omitempty,max=5000"`
}
