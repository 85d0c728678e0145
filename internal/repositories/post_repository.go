package repositories

import (
	"context"

	"github.com/waveriff/waveriff/internal/models"
	"gorm.io/gorm"
)

// Feed sort modes.
const (
	SortLatest = "latest"
	SortTop    = "top"
)

// FeedQuery describes one feed page. Exactly one scope applies: Unfiltered
// (cold start), CommunityID (single community), FreshOnly (tagged feed), or
// the AuthorIDs/CommunityIDs source sets.
type FeedQuery struct {
	AuthorIDs    []uint
	CommunityIDs []uint
	Unfiltered   bool
	CommunityID  *uint
	FreshOnly    bool
	Sort         string
	Offset       int
	Limit        int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id uint) (*models.Post, error)
	DeletePost(ctx context.Context, id uint) error
	ListFeed(ctx context.Context, q FeedQuery) ([]models.Post, int64, error)
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

func (r *PostgresPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *PostgresPostRepository) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostgresPostRepository) DeletePost(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListFeed returns one page of posts matching q plus the total count for the
// same predicate. The count comes from a separate query, so page and total
// can be mutually stale by a small margin under concurrent writes.
func (r *PostgresPostRepository) ListFeed(ctx context.Context, q FeedQuery) ([]models.Post, int64, error) {
	scoped, empty := r.applyScope(ctx, q)
	if empty {
		return []models.Post{}, 0, nil
	}

	var total int64
	if err := scoped.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	if q.Sort == SortTop {
		// Ties in upvote_count break to most-recent-first.
		order = "upvote_count DESC, created_at DESC"
	}

	scoped, _ = r.applyScope(ctx, q)
	var posts []models.Post
	err := scoped.Order(order).Offset(q.Offset).Limit(q.Limit).Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// applyScope builds the predicate for q. empty is true when the source sets
// leave nothing to match, which callers treat as an empty page.
func (r *PostgresPostRepository) applyScope(ctx context.Context, q FeedQuery) (tx *gorm.DB, empty bool) {
	tx = r.db.WithContext(ctx).Model(&models.Post{})
	switch {
	case q.Unfiltered:
		return tx, false
	case q.CommunityID != nil:
		return tx.Where("community_id = ?", *q.CommunityID), false
	case q.FreshOnly:
		return tx.Where("is_fresh = ?", true), false
	case len(q.AuthorIDs) > 0 && len(q.CommunityIDs) > 0:
		return tx.Where("author_id IN ? OR community_id IN ?", q.AuthorIDs, q.CommunityIDs), false
	case len(q.AuthorIDs) > 0:
		return tx.Where("author_id IN ?", q.AuthorIDs), false
	case len(q.CommunityIDs) > 0:
		return tx.Where("community_id IN ?", q.CommunityIDs), false
	default:
		return tx, true
	}
}
