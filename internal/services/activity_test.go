package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/waveriff/waveriff/internal/models"
	"github.com/waveriff/waveriff/internal/repositories"
	"gorm.io/gorm"
)

func newActivityService(db *gorm.DB) *ActivityService {
	return NewActivityService(
		repositories.NewPostgresReviewRepository(db),
		repositories.NewPostgresFollowRepository(db),
		repositories.NewPostgresUpvoteRepository(db),
	)
}

func seedReview(t *testing.T, db *gorm.DB, authorID, itemID uint, rating int, createdAt time.Time) *models.Review {
	t.Helper()
	review := &models.Review{AuthorID: authorID, ItemID: itemID, Rating: rating, CreatedAt: createdAt}
	require.NoError(t, db.Create(review).Error)
	return review
}

func TestComposeActivityEmptyWithoutFollows(t *testing.T) {
	db := newTestDB(t)
	svc := newActivityService(db)
	ctx := context.Background()

	viewer := createUser(t, db, "viewer")
	reviewer := createUser(t, db, "reviewer")
	item := createItem(t, db, models.ItemAlbum, "alb-1", "Blue Album")
	seedReview(t, db, reviewer.ID, item.ID, 4, time.Now())

	// Activity never falls back to strangers, no matter how much exists.
	items, total, err := svc.ComposeActivity(ctx, viewer.ID, 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}

func TestComposeActivityChronologicalFromFollows(t *testing.T) {
	db := newTestDB(t)
	svc := newActivityService(db)
	ctx := context.Background()

	viewer := createUser(t, db, "viewer")
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")
	item := createItem(t, db, models.ItemAlbum, "alb-1", "Blue Album")
	other := createItem(t, db, models.ItemTrack, "trk-1", "Single")

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	early := seedReview(t, db, alice.ID, item.ID, 4, base)
	late := seedReview(t, db, bob.ID, other.ID, 3, base.Add(time.Hour))
	seedReview(t, db, carol.ID, item.ID, 5, base.Add(2*time.Hour)) // not followed

	follow(t, db, viewer.ID, alice.ID)
	follow(t, db, viewer.ID, bob.ID)

	items, total, err := svc.ComposeActivity(ctx, viewer.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, late.ID, items[0].ID)
	assert.Equal(t, early.ID, items[1].ID)
}

func TestComposeActivityPagination(t *testing.T) {
	db := newTestDB(t)
	svc := newActivityService(db)
	ctx := context.Background()

	viewer := createUser(t, db, "viewer")
	alice := createUser(t, db, "alice")
	follow(t, db, viewer.ID, alice.ID)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		item := createItem(t, db, models.ItemTrack, "trk-"+string(rune('a'+i)), "Track")
		seedReview(t, db, alice.ID, item.ID, 3, base.Add(time.Duration(i)*time.Minute))
	}

	items, total, err := svc.ComposeActivity(ctx, viewer.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 25, total)
	assert.Len(t, items, 20)

	items, total, err = svc.ComposeActivity(ctx, viewer.ID, 2, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 25, total)
	assert.Len(t, items, 5)
}

func TestComposeActivityAnnotatesHasUpvoted(t *testing.T) {
	db := newTestDB(t)
	svc := newActivityService(db)
	engagement := NewEngagementService(db, nil, nil, nil)
	ctx := context.Background()

	viewer := createUser(t, db, "viewer")
	alice := createUser(t, db, "alice")
	follow(t, db, viewer.ID, alice.ID)

	item := createItem(t, db, models.ItemAlbum, "alb-1", "Blue Album")
	other := createItem(t, db, models.ItemTrack, "trk-1", "Single")
	liked := seedReview(t, db, alice.ID, item.ID, 4, time.Now().Add(-time.Hour))
	seedReview(t, db, alice.ID, other.ID, 2, time.Now())
	require.NoError(t, engagement.Upvote(ctx, viewer.ID, models.TargetReview, liked.ID))

	items, _, err := svc.ComposeActivity(ctx, viewer.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, it := range items {
		assert.Equal(t, it.ID == liked.ID, it.HasUpvoted)
	}
}
