package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/waveriff/waveriff/internal/apperrors"
	"github.com/waveriff/waveriff/internal/events"
	"github.com/waveriff/waveriff/internal/models"
	"gorm.io/gorm"
)

// Fanout produces a notification record from an engagement event.
type Fanout interface {
	Notify(ctx context.Context, recipientID, actorID uint, ntype, targetType string, targetID uint) error
}

// EngagementService is the only writer of denormalized engagement counters.
// Every operation runs as one transaction: the event row and its counter
// update commit together or not at all. Notification and event publishing
// happen after commit, best-effort.
type EngagementService struct {
	db        *gorm.DB
	fanout    Fanout           // optional
	publisher events.Publisher // optional
	log       *slog.Logger
}

// NewEngagementService creates a new EngagementService. fanout and publisher
// may be nil.
func NewEngagementService(db *gorm.DB, fanout Fanout, publisher events.Publisher, log *slog.Logger) *EngagementService {
	if log == nil {
		log = slog.Default()
	}
	return &EngagementService{db: db, fanout: fanout, publisher: publisher, log: log}
}

// Upvote records an upvote by actorID on the target and increments its
// upvote count. Returns Conflict if the actor already upvoted the target,
// NotFound if the target does not exist.
func (s *EngagementService) Upvote(ctx context.Context, actorID uint, targetType string, targetID uint) error {
	if !models.ValidTargetType(targetType) {
		return apperrors.Validationf("unknown target type %q", targetType)
	}

	var recipientID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		authorID, err := targetAuthor(tx, targetType, targetID)
		if err != nil {
			return err
		}
		recipientID = authorID

		// Insert first: the unique triple index turns a concurrent duplicate
		// into a constraint violation instead of a read-then-write race.
		upvote := models.Upvote{UserID: actorID, TargetType: targetType, TargetID: targetID}
		if err := tx.Create(&upvote).Error; err != nil {
			if isDuplicateKey(err) {
				return apperrors.Conflict("already upvoted")
			}
			return err
		}

		return bumpUpvoteCount(tx, targetType, targetID, 1)
	})
	if err != nil {
		return err
	}

	s.afterEngagement(ctx, events.SubjectUpvote, "upvote_"+targetType, recipientID, actorID, targetType, targetID)
	return nil
}

// RemoveUpvote deletes the actor's upvote on the target and decrements its
// upvote count. Returns NotFound if no such upvote exists.
func (s *EngagementService) RemoveUpvote(ctx context.Context, actorID uint, targetType string, targetID uint) error {
	if !models.ValidTargetType(targetType) {
		return apperrors.Validationf("unknown target type %q", targetType)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND target_type = ? AND target_id = ?", actorID, targetType, targetID).
			Delete(&models.Upvote{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("upvote not found")
		}
		return bumpUpvoteCount(tx, targetType, targetID, -1)
	})
}

// RateOrReview upserts the actor's review of a catalog item. A replacement
// shifts the item's rating sum by the value delta with the count unchanged;
// a first review bumps both sum and count.
func (s *EngagementService) RateOrReview(ctx context.Context, actorID, itemID uint, rating int, title, body string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.Validationf("rating must be between 1 and 5, got %d", rating)
	}

	var review models.Review
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.CatalogItem
		if err := tx.First(&item, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("catalog item not found")
			}
			return err
		}

		var existing models.Review
		err := tx.Where("author_id = ? AND item_id = ?", actorID, itemID).First(&existing).Error
		switch {
		case err == nil:
			old := existing.Rating
			existing.Rating = rating
			existing.Title = title
			existing.Body = body
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			review = existing
			return tx.Model(&models.CatalogItem{}).Where("id = ?", itemID).
				UpdateColumn("rating_sum", gorm.Expr("rating_sum + ?", rating-old)).Error

		case errors.Is(err, gorm.ErrRecordNotFound):
			review = models.Review{AuthorID: actorID, ItemID: itemID, Rating: rating, Title: title, Body: body}
			if err := tx.Create(&review).Error; err != nil {
				if isDuplicateKey(err) {
					return apperrors.Conflict("item already rated by this user")
				}
				return err
			}
			return tx.Model(&models.CatalogItem{}).Where("id = ?", itemID).
				UpdateColumns(map[string]interface{}{
					"rating_sum":   gorm.Expr("rating_sum + ?", rating),
					"rating_count": gorm.Expr("rating_count + ?", 1),
				}).Error

		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	s.publish(events.SubjectReview, "review_item", actorID, models.TargetReview, review.ID)
	return &review, nil
}

// RemoveRating deletes the actor's review of a catalog item and rolls its
// value out of the item's rating aggregates. Returns NotFound if none exists.
func (s *EngagementService) RemoveRating(ctx context.Context, actorID, itemID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Review
		err := tx.Where("author_id = ? AND item_id = ?", actorID, itemID).First(&existing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("rating not found")
			}
			return err
		}

		if err := tx.Delete(&models.Review{}, existing.ID).Error; err != nil {
			return err
		}
		if err := tx.Where("target_type = ? AND target_id = ?", models.TargetReview, existing.ID).
			Delete(&models.Upvote{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.CatalogItem{}).Where("id = ?", itemID).
			UpdateColumns(map[string]interface{}{
				"rating_sum":   gorm.Expr("rating_sum - ?", existing.Rating),
				"rating_count": gorm.Expr("rating_count - ?", 1),
			}).Error
	})
}

// AddComment creates a comment on a post and increments the post's comment
// count. Threading is one level deep: a reply's parent must be a top-level
// comment on the same post.
func (s *EngagementService) AddComment(ctx context.Context, authorID, postID uint, parentID *uint, body string) (*models.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, apperrors.Validation("comment body must not be empty")
	}

	var comment models.Comment
	var recipientID uint
	ntype := models.NotifyCommentPost
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("post not found")
			}
			return err
		}
		recipientID = post.AuthorID

		if parentID != nil {
			var parent models.Comment
			if err := tx.First(&parent, *parentID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.NotFound("parent comment not found")
				}
				return err
			}
			if parent.PostID != postID {
				return apperrors.Validation("parent comment belongs to a different post")
			}
			if parent.ParentID != nil {
				return apperrors.Validation("replies cannot be nested further")
			}
			recipientID = parent.AuthorID
			ntype = models.NotifyReplyComment
		}

		comment = models.Comment{PostID: postID, AuthorID: authorID, ParentID: parentID, Body: body}
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + ?", 1)).Error
	})
	if err != nil {
		return nil, err
	}

	s.afterEngagement(ctx, events.SubjectComment, ntype, recipientID, authorID, models.TargetComment, comment.ID)
	return &comment, nil
}

// RemoveComment deletes a comment the actor authored, along with its replies
// and any upvotes on the deleted comments, and decrements the post's comment
// count by the number of comments removed.
func (s *EngagementService) RemoveComment(ctx context.Context, actorID, commentID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("comment not found")
			}
			return err
		}
		if comment.AuthorID != actorID {
			return apperrors.Forbidden("not the comment author")
		}

		ids := []uint{comment.ID}
		var replyIDs []uint
		if err := tx.Model(&models.Comment{}).Where("parent_id = ?", comment.ID).Pluck("id", &replyIDs).Error; err != nil {
			return err
		}
		ids = append(ids, replyIDs...)

		res := tx.Where("id IN ?", ids).Delete(&models.Comment{})
		if res.Error != nil {
			return res.Error
		}
		if err := tx.Where("target_type = ? AND target_id IN ?", models.TargetComment, ids).
			Delete(&models.Upvote{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", comment.PostID).
			UpdateColumn("comment_count", gorm.Expr("comment_count - ?", res.RowsAffected)).Error
	})
}

// afterEngagement runs the post-commit side channel: one notification and
// one published event, each best-effort.
func (s *EngagementService) afterEngagement(ctx context.Context, subject, ntype string, recipientID, actorID uint, targetType string, targetID uint) {
	if s.fanout != nil {
		if err := s.fanout.Notify(ctx, recipientID, actorID, ntype, targetType, targetID); err != nil {
			s.log.Warn("notification fanout failed",
				"type", ntype, "recipient", recipientID, "actor", actorID, "error", err)
		}
	}
	s.publish(subject, ntype, actorID, targetType, targetID)
}

func (s *EngagementService) publish(subject, ntype string, actorID uint, targetType string, targetID uint) {
	if s.publisher == nil {
		return
	}
	event := events.EngagementEvent{
		Type:       ntype,
		ActorID:    actorID,
		TargetType: targetType,
		TargetID:   targetID,
	}
	if err := s.publisher.PublishEngagement(subject, event); err != nil {
		s.log.Warn("event publish failed", "subject", subject, "type", ntype, "error", err)
	}
}

// targetAuthor resolves the author of an upvotable target, or NotFound.
func targetAuthor(tx *gorm.DB, targetType string, targetID uint) (uint, error) {
	var authorID uint
	var err error
	switch targetType {
	case models.TargetPost:
		var post models.Post
		err = tx.First(&post, targetID).Error
		authorID = post.AuthorID
	case models.TargetComment:
		var comment models.Comment
		err = tx.First(&comment, targetID).Error
		authorID = comment.AuthorID
	case models.TargetReview:
		var review models.Review
		err = tx.First(&review, targetID).Error
		authorID = review.AuthorID
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.NotFoundf("%s not found", targetType)
		}
		return 0, err
	}
	return authorID, nil
}

func bumpUpvoteCount(tx *gorm.DB, targetType string, targetID uint, delta int) error {
	expr := gorm.Expr("upvote_count + ?", delta)
	switch targetType {
	case models.TargetPost:
		return tx.Model(&models.Post{}).Where("id = ?", targetID).UpdateColumn("upvote_count", expr).Error
	case models.TargetComment:
		return tx.Model(&models.Comment{}).Where("id = ?", targetID).UpdateColumn("upvote_count", expr).Error
	case models.TargetReview:
		return tx.Model(&models.Review{}).Where("id = ?", targetID).UpdateColumn("upvote_count", expr).Error
	}
	return apperrors.Validationf("unknown target type %q", targetType)
}

// isDuplicateKey matches unique-constraint violations across the Postgres
// and sqlite drivers.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}
