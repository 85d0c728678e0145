package services

import (
	"context"

	"github.com/waveriff/waveriff/internal/apperrors"
	"github.com/waveriff/waveriff/internal/cache"
	"github.com/waveriff/waveriff/internal/models"
	"github.com/waveriff/waveriff/internal/repositories"
)

// Feed filters.
const (
	FilterAll         = "all"
	FilterFollowing   = "following"
	FilterCommunities = "communities"
)

// Feed tags served without authentication.
const TagFresh = "fresh"

// FeedItem is a post annotated with the viewer's upvote status.
type FeedItem struct {
	models.Post
	HasUpvoted bool `json:"has_upvoted"`
}

// FeedService assembles ranked, paginated post pages from the viewer's
// source sets. It only reads counters; the engagement service writes them.
type FeedService struct {
	posts       repositories.PostRepository
	follows     repositories.FollowRepository
	communities repositories.CommunityRepository
	upvotes     repositories.UpvoteRepository
	cache       cache.FeedCache // optional
}

// NewFeedService creates a new FeedService. feedCache may be nil.
func NewFeedService(
	posts repositories.PostRepository,
	follows repositories.FollowRepository,
	communities repositories.CommunityRepository,
	upvotes repositories.UpvoteRepository,
	feedCache cache.FeedCache,
) *FeedService {
	return &FeedService{
		posts:       posts,
		follows:     follows,
		communities: communities,
		upvotes:     upvotes,
		cache:       feedCache,
	}
}

// ComposeFeed builds one page of the viewer's home feed.
//
// Source sets: F is who the viewer follows, C the communities they belong
// to. filter=all with both sets empty relaxes to all posts — the discovery
// fallback for accounts with no graph yet. The narrower filters do not get
// that fallback: an empty source set yields an empty page.
func (s *FeedService) ComposeFeed(ctx context.Context, viewerID uint, filter, sort string, page, limit int) ([]FeedItem, int64, error) {
	if err := validateSort(sort); err != nil {
		return nil, 0, err
	}
	page, limit = NormalizePage(page, limit)

	followingIDs, err := s.follows.GetFollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, 0, err
	}
	communityIDs, err := s.communities.GetMemberCommunityIDs(ctx, viewerID)
	if err != nil {
		return nil, 0, err
	}

	q := repositories.FeedQuery{Sort: sort, Offset: (page - 1) * limit, Limit: limit}
	switch filter {
	case FilterFollowing:
		if len(followingIDs) == 0 {
			return []FeedItem{}, 0, nil
		}
		q.AuthorIDs = followingIDs
	case FilterCommunities:
		if len(communityIDs) == 0 {
			return []FeedItem{}, 0, nil
		}
		q.CommunityIDs = communityIDs
	case FilterAll:
		if len(followingIDs) == 0 && len(communityIDs) == 0 {
			q.Unfiltered = true
		} else {
			q.AuthorIDs = followingIDs
			q.CommunityIDs = communityIDs
		}
	default:
		return nil, 0, apperrors.Validationf("unknown feed filter %q", filter)
	}

	// The cold-start page is the same for every graphless viewer, so it is
	// the one worth caching.
	cacheable := q.Unfiltered && sort == repositories.SortLatest && s.cache != nil
	if cacheable {
		if posts, total, ok := s.cache.GetGlobalLatest(ctx, page, limit); ok {
			return s.annotate(ctx, viewerID, posts, total)
		}
	}

	posts, total, err := s.posts.ListFeed(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	if cacheable {
		s.cache.SetGlobalLatest(ctx, page, limit, posts, total)
	}
	return s.annotate(ctx, viewerID, posts, total)
}

// ComposeCommunityFeed builds one page of a single community's feed.
func (s *FeedService) ComposeCommunityFeed(ctx context.Context, viewerID, communityID uint, sort string, page, limit int) ([]FeedItem, int64, error) {
	if err := validateSort(sort); err != nil {
		return nil, 0, err
	}
	page, limit = NormalizePage(page, limit)

	if _, err := s.communities.GetCommunityByID(ctx, communityID); err != nil {
		return nil, 0, apperrors.NotFound("community not found")
	}

	q := repositories.FeedQuery{
		CommunityID: &communityID,
		Sort:        sort,
		Offset:      (page - 1) * limit,
		Limit:       limit,
	}
	posts, total, err := s.posts.ListFeed(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	return s.annotate(ctx, viewerID, posts, total)
}

// ComposeTaggedFeed builds one page of a public tagged feed. There is no
// viewer, so items carry no upvote annotation.
func (s *FeedService) ComposeTaggedFeed(ctx context.Context, tag, sort string, page, limit int) ([]FeedItem, int64, error) {
	if err := validateSort(sort); err != nil {
		return nil, 0, err
	}
	if tag != TagFresh {
		return nil, 0, apperrors.Validationf("unknown feed tag %q", tag)
	}
	page, limit = NormalizePage(page, limit)

	q := repositories.FeedQuery{
		FreshOnly: true,
		Sort:      sort,
		Offset:    (page - 1) * limit,
		Limit:     limit,
	}
	posts, total, err := s.posts.ListFeed(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	return s.annotate(ctx, 0, posts, total)
}

// annotate attaches has_upvoted to each post with a single batched lookup
// across the page. viewerID 0 means no viewer; annotation is skipped.
func (s *FeedService) annotate(ctx context.Context, viewerID uint, posts []models.Post, total int64) ([]FeedItem, int64, error) {
	items := make([]FeedItem, len(posts))

	upvoted := map[uint]bool{}
	if viewerID != 0 && len(posts) > 0 {
		ids := make([]uint, len(posts))
		for i, p := range posts {
			ids[i] = p.ID
		}
		var err error
		upvoted, err = s.upvotes.GetUpvotedTargetIDs(ctx, viewerID, models.TargetPost, ids)
		if err != nil {
			return nil, 0, err
		}
	}

	for i, p := range posts {
		items[i] = FeedItem{Post: p, HasUpvoted: upvoted[p.ID]}
	}
	return items, total, nil
}

func validateSort(sort string) error {
	if sort != repositories.SortLatest && sort != repositories.SortTop {
		return apperrors.Validationf("unknown sort %q", sort)
	}
	return nil
}
