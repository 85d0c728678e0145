package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types.
const (
	NotifyUpvotePost    = "upvote_post"
	NotifyUpvoteComment = "upvote_comment"
	NotifyUpvoteReview  = "upvote_review"
	NotifyCommentPost   = "comment_post"
	NotifyReplyComment  = "reply_comment"
	NotifyReviewItem    = "review_item"
	NotifyFollow        = "follow"
)

// Notification is an append-only record stored in MongoDB; only is_read is
// ever mutated after creation.
type Notification struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	RecipientID uint               `json:"recipient_id" bson:"recipient_id"`
	ActorID     uint               `json:"actor_id" bson:"actor_id"`
	Type        string             `json:"type" bson:"type"`
	TargetType  string             `json:"target_type" bson:"target_type"`
	TargetID    uint               `json:"target_id" bson:"target_id"`
	IsRead      bool               `json:"is_read" bson:"is_read"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}
