package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/waveriff/waveriff/internal/apperrors"
	"github.com/waveriff/waveriff/internal/models"
	"github.com/waveriff/waveriff/internal/repositories"
	"gorm.io/gorm"
)

func newFeedService(db *gorm.DB) *FeedService {
	return NewFeedService(
		repositories.NewPostgresPostRepository(db),
		repositories.NewPostgresFollowRepository(db),
		repositories.NewPostgresCommunityRepository(db),
		repositories.NewPostgresUpvoteRepository(db),
		nil,
	)
}

func seedPost(t *testing.T, db *gorm.DB, post *models.Post) *models.Post {
	t.Helper()
	require.NoError(t, db.Create(post).Error)
	return post
}

func createCommunity(t *testing.T, db *gorm.DB, creatorID uint, name string) *models.Community {
	t.Helper()
	c := &models.Community{Name: name, CreatorID: creatorID}
	require.NoError(t, db.Create(c).Error)
	return c
}

func postIDs(items []FeedItem) []uint {
	ids := make([]uint, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

func TestComposeFeedColdStartFallsBackToGlobal(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedService(db)
	ctx := context.Background()

	viewer := createUser(t, db, "viewer")
	stranger := createUser(t, db, "stranger")
	createPost(t, db, stranger.ID, "track one")
	createPost(t, db, stranger.ID, "track two")

	// No follows, no communities: filter=all serves the global feed.
	items, total, err := svc.ComposeFeed(ctx, viewer.ID, FilterAll, repositories.SortLatest, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, items, 2)
}

func TestComposeFeedScopesToGraphOnceItExists(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedService(db)
	ctx := context.Background()

	viewer := createUser(t, db, "viewer")
	followed := createUser(t, db, "followed")
	stranger := createUser(t, db, "stranger")
	moderator := createUser(t, db, "moderator")
	community := createCommunity(t, db, moderator.ID, "vinyl")

	followedPost := createPost(t, db, followed.ID, "from followed")
	createPost(t, db, stranger.ID, "from stranger")
	communityPost := seedPost(t, db, &models.Post{
		AuthorID:    moderator.ID,
		CommunityID: &community.ID,
		Title:       "from community",
	})

	follow(t, db, viewer.ID, followed.ID)
	joinCommunity(t, db, viewer.ID, community.ID)

	items, total, err := svc.ComposeFeed(ctx, viewer.ID, FilterAll, repositories.SortLatest, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.ElementsMatch(t, []uint{followedPost.ID, communityPost.ID}, postIDs(items))
}

func TestComposeFeedFollowingFilterNoFallback(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedService(db)
	ctx := context.Background()

	viewer := createUser(t, db, "viewer")
	stranger := createUser(t, db, "stranger")
	createPost(t, db, stranger.ID, "global noise")

	// Unlike filter=all, an empty follow set yields an empty page.
	items, total, err := svc.ComposeFeed(ctx, viewer.ID, FilterFollowing, repositories.SortLatest, 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)

	follow(t, db, viewer.ID, stranger.ID)
	items, total, err = svc.ComposeFeed(ctx, viewer.ID, FilterFollowing, repositories.SortLatest, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, items, 1)
}

func TestComposeFeedCommunitiesFilterNoFallback(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedService(db)
	ctx := context.Background()

	viewer := createUser(t, db, "viewer")
	moderator := createUser(t, db, "moderator")
	community := createCommunity(t, db, moderator.ID, "vinyl")
	seedPost(t, db, &models.Post{AuthorID: moderator.ID, CommunityID: &community.ID, Title: "in community"})
	createPost(t, db, moderator.ID, "outside community")

	items, total, err := svc.ComposeFeed(ctx, viewer.ID, FilterCommunities, repositories.SortLatest, 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)

	joinCommunity(t, db, viewer.ID, community.ID)
	items, total, err = svc.ComposeFeed(ctx, viewer.ID, FilterCommunities, repositories.SortLatest, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "in community", items[0].Title)
}

func TestComposeFeedTopSortBreaksTiesByRecency(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedService(db)
	ctx := context.Background()

	viewer := createUser(t, db, "viewer")
	author := createUser(t, db, "author")
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	older := seedPost(t, db, &models.Post{AuthorID: author.ID, Title: "older tied", UpvoteCount: 5, CreatedAt: base})
	newer := seedPost(t, db, &models.Post{AuthorID: author.ID, Title: "newer tied", UpvoteCount: 5, CreatedAt: base.Add(time.Hour)})
	top := seedPost(t, db, &models.Post{AuthorID: author.ID, Title: "most upvoted", UpvoteCount: 9, CreatedAt: base.Add(-time.Hour)})

	items, _, err := svc.ComposeFeed(ctx, viewer.ID, FilterAll, repositories.SortTop, 1, 20)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []uint{top.ID, newer.ID, older.ID}, postIDs(items))
}

func TestComposeFeedLatestSortIsReverseChronological(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedService(db)
	ctx := context.Background()

	viewer := createUser(t, db, "viewer")
	author := createUser(t, db, "author")
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	first := seedPost(t, db, &models.Post{AuthorID: author.ID, Title: "first", CreatedAt: base})
	second := seedPost(t, db, &models.Post{AuthorID: author.ID, Title: "second", CreatedAt: base.Add(time.Minute)})
	third := seedPost(t, db, &models.Post{AuthorID: author.ID, Title: "third", CreatedAt: base.Add(2 * time.Minute)})

	items, _, err := svc.ComposeFeed(ctx, viewer.ID, FilterAll, repositories.SortLatest, 1, 20)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []uint{third.ID, second.ID, first.ID}, postIDs(items))
}

func TestComposeFeedPagination(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedService(db)
	ctx := context.Background()

	viewer := createUser(t, db, "viewer")
	author := createUser(t, db, "author")
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 45; i++ {
		seedPost(t, db, &models.Post{
			AuthorID:  author.ID,
			Title:     fmt.Sprintf("post %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	items, total, err := svc.ComposeFeed(ctx, viewer.ID, FilterAll, repositories.SortLatest, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 45, total)
	assert.Len(t, items, 20)
	assert.Equal(t, 3, TotalPages(total, 20))

	// The last page holds the remainder; the total still counts everything.
	items, total, err = svc.ComposeFeed(ctx, viewer.ID, FilterAll, repositories.SortLatest, 3, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 45, total)
	assert.Len(t, items, 5)
	assert.Equal(t, "post 4", items[0].Title)

	items, total, err = svc.ComposeFeed(ctx, viewer.ID, FilterAll, repositories.SortLatest, 4, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 45, total)
	assert.Empty(t, items)
}

func TestComposeFeedAnnotatesHasUpvoted(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedService(db)
	engagement := NewEngagementService(db, nil, nil, nil)
	ctx := context.Background()

	viewer := createUser(t, db, "viewer")
	author := createUser(t, db, "author")
	liked := createPost(t, db, author.ID, "liked")
	createPost(t, db, author.ID, "not liked")
	require.NoError(t, engagement.Upvote(ctx, viewer.ID, models.TargetPost, liked.ID))

	items, _, err := svc.ComposeFeed(ctx, viewer.ID, FilterAll, repositories.SortLatest, 1, 20)
	require.NoError(t, err)
	require.Len(t, items, 2)

	byID := map[uint]FeedItem{}
	for _, it := range items {
		byID[it.ID] = it
	}
	assert.True(t, byID[liked.ID].HasUpvoted)
	for id, it := range byID {
		if id != liked.ID {
			assert.False(t, it.HasUpvoted)
		}
	}
}

func TestComposeFeedRejectsUnknownFilterAndSort(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedService(db)
	ctx := context.Background()

	viewer := createUser(t, db, "viewer")

	_, _, err := svc.ComposeFeed(ctx, viewer.ID, "friends", repositories.SortLatest, 1, 20)
	require.ErrorIs(t, err, apperrors.ErrValidation)

	_, _, err = svc.ComposeFeed(ctx, viewer.ID, FilterAll, "hot", 1, 20)
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestComposeCommunityFeed(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedService(db)
	ctx := context.Background()

	viewer := createUser(t, db, "viewer")
	moderator := createUser(t, db, "moderator")
	community := createCommunity(t, db, moderator.ID, "vinyl")
	inCommunity := seedPost(t, db, &models.Post{AuthorID: moderator.ID, CommunityID: &community.ID, Title: "in"})
	createPost(t, db, moderator.ID, "out")

	items, total, err := svc.ComposeCommunityFeed(ctx, viewer.ID, community.ID, repositories.SortLatest, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, inCommunity.ID, items[0].ID)

	_, _, err = svc.ComposeCommunityFeed(ctx, viewer.ID, 9999, repositories.SortLatest, 1, 20)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestComposeTaggedFeed(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedService(db)
	ctx := context.Background()

	author := createUser(t, db, "author")
	fresh := seedPost(t, db, &models.Post{AuthorID: author.ID, Title: "fresh find", IsFresh: true})
	createPost(t, db, author.ID, "ordinary")

	items, total, err := svc.ComposeTaggedFeed(ctx, TagFresh, repositories.SortLatest, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, fresh.ID, items[0].ID)
	assert.False(t, items[0].HasUpvoted)

	_, _, err = svc.ComposeTaggedFeed(ctx, "throwback", repositories.SortLatest, 1, 20)
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

// memFeedCache records cache traffic for assertions.
type memFeedCache struct {
	pages map[string]cachedPage
	gets  int
	hits  int
	sets  int
}

type cachedPage struct {
	posts []models.Post
	total int64
}

func newMemFeedCache() *memFeedCache {
	return &memFeedCache{pages: map[string]cachedPage{}}
}

func (c *memFeedCache) key(page, limit int) string { return fmt.Sprintf("%d:%d", page, limit) }

func (c *memFeedCache) GetGlobalLatest(_ context.Context, page, limit int) ([]models.Post, int64, bool) {
	c.gets++
	p, ok := c.pages[c.key(page, limit)]
	if !ok {
		return nil, 0, false
	}
	c.hits++
	return p.posts, p.total, true
}

func (c *memFeedCache) SetGlobalLatest(_ context.Context, page, limit int, posts []models.Post, total int64) {
	c.sets++
	c.pages[c.key(page, limit)] = cachedPage{posts: posts, total: total}
}

func (c *memFeedCache) InvalidateGlobal(_ context.Context) {
	c.pages = map[string]cachedPage{}
}

func TestComposeFeedCachesOnlyColdStartLatestPages(t *testing.T) {
	db := newTestDB(t)
	feedCache := newMemFeedCache()
	svc := NewFeedService(
		repositories.NewPostgresPostRepository(db),
		repositories.NewPostgresFollowRepository(db),
		repositories.NewPostgresCommunityRepository(db),
		repositories.NewPostgresUpvoteRepository(db),
		feedCache,
	)
	ctx := context.Background()

	viewer := createUser(t, db, "viewer")
	author := createUser(t, db, "author")
	createPost(t, db, author.ID, "cached track")

	// First read misses and populates; second read is served from cache.
	items, _, err := svc.ComposeFeed(ctx, viewer.ID, FilterAll, repositories.SortLatest, 1, 20)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, feedCache.sets)
	assert.Equal(t, 0, feedCache.hits)

	items, _, err = svc.ComposeFeed(ctx, viewer.ID, FilterAll, repositories.SortLatest, 1, 20)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, feedCache.sets)
	assert.Equal(t, 1, feedCache.hits)

	// Top sort bypasses the cache entirely.
	_, _, err = svc.ComposeFeed(ctx, viewer.ID, FilterAll, repositories.SortTop, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, feedCache.gets)

	// Once the viewer has a graph, the personal feed bypasses it too.
	follow(t, db, viewer.ID, author.ID)
	_, _, err = svc.ComposeFeed(ctx, viewer.ID, FilterAll, repositories.SortLatest, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, feedCache.gets)
}
