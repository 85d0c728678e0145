package services

import (
	"context"

	"github.com/waveriff/waveriff/internal/models"
	"github.com/waveriff/waveriff/internal/repositories"
)

// ActivityItem is a review annotated with the viewer's upvote status.
type ActivityItem struct {
	models.Review
	HasUpvoted bool `json:"has_upvoted"`
}

// ActivityService composes the review stream from followed accounts.
type ActivityService struct {
	reviews repositories.ReviewRepository
	follows repositories.FollowRepository
	upvotes repositories.UpvoteRepository
}

// NewActivityService creates a new ActivityService
func NewActivityService(reviews repositories.ReviewRepository, follows repositories.FollowRepository, upvotes repositories.UpvoteRepository) *ActivityService {
	return &ActivityService{reviews: reviews, follows: follows, upvotes: upvotes}
}

// ComposeActivity builds one chronological page of reviews written by the
// accounts the viewer follows. A viewer following nobody gets an empty page:
// activity is strictly "people you follow", never general discovery.
func (s *ActivityService) ComposeActivity(ctx context.Context, viewerID uint, page, limit int) ([]ActivityItem, int64, error) {
	page, limit = NormalizePage(page, limit)

	followingIDs, err := s.follows.GetFollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, 0, err
	}
	if len(followingIDs) == 0 {
		return []ActivityItem{}, 0, nil
	}

	reviews, total, err := s.reviews.ListByAuthors(ctx, followingIDs, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}

	upvoted := map[uint]bool{}
	if len(reviews) > 0 {
		ids := make([]uint, len(reviews))
		for i, r := range reviews {
			ids[i] = r.ID
		}
		upvoted, err = s.upvotes.GetUpvotedTargetIDs(ctx, viewerID, models.TargetReview, ids)
		if err != nil {
			return nil, 0, err
		}
	}

	items := make([]ActivityItem, len(reviews))
	for i, r := range reviews {
		items[i] = ActivityItem{Review: r, HasUpvoted: upvoted[r.ID]}
	}
	return items, total, nil
}
