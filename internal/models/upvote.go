package models

import "time"

// Upvote target types.
const (
	TargetPost    = "post"
	TargetComment = "comment"
	TargetReview  = "review"
)

// Upvote represents a single upvote by a user on a post, comment or review.
// The unique index on the (user, target_type, target_id) triple is the only
// guard against double-upvoting.
type Upvote struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_target_upvote"`
	TargetType string    `json:"target_type" gorm:"size:20;uniqueIndex:idx_user_target_upvote"`
	TargetID   uint      `json:"target_id" gorm:"index;uniqueIndex:idx_user_target_upvote"`
	CreatedAt  time.Time `json:"created_at"`
}

// ValidTargetType reports whether s names an upvotable entity.
func ValidTargetType(s string) bool {
	switch s {
	case TargetPost, TargetComment, TargetReview:
		return true
	}
	return false
}
