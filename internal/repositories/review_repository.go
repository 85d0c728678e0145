package repositories

import (
	"context"

	"github.com/waveriff/waveriff/internal/models"
	"gorm.io/gorm"
)

// ReviewRepository defines read-side review lookups. Writes go through the
// engagement service so rating aggregates stay with a single writer.
type ReviewRepository interface {
	GetReviewByID(ctx context.Context, id uint) (*models.Review, error)
	GetReviewByAuthorAndItem(ctx context.Context, authorID, itemID uint) (*models.Review, error)
	GetReviewsByItemID(ctx context.Context, itemID uint, offset, limit int) ([]models.Review, int64, error)
	ListByAuthors(ctx context.Context, authorIDs []uint, offset, limit int) ([]models.Review, int64, error)
}

// PostgresReviewRepository implements ReviewRepository for PostgreSQL
type PostgresReviewRepository struct {
	db *gorm.DB
}

// NewPostgresReviewRepository creates a new PostgresReviewRepository
func NewPostgresReviewRepository(db *gorm.DB) *PostgresReviewRepository {
	return &PostgresReviewRepository{db: db}
}

func (r *PostgresReviewRepository) GetReviewByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *PostgresReviewRepository) GetReviewByAuthorAndItem(ctx context.Context, authorID, itemID uint) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).Where("author_id = ? AND item_id = ?", authorID, itemID).First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *PostgresReviewRepository) GetReviewsByItemID(ctx context.Context, itemID uint, offset, limit int) ([]models.Review, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Review{}).Where("item_id = ?", itemID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	err := r.db.WithContext(ctx).Where("item_id = ?", itemID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// ListByAuthors returns one chronological page of reviews written by any of
// authorIDs, plus the total count for the same predicate.
func (r *PostgresReviewRepository) ListByAuthors(ctx context.Context, authorIDs []uint, offset, limit int) ([]models.Review, int64, error) {
	if len(authorIDs) == 0 {
		return []models.Review{}, 0, nil
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Review{}).Where("author_id IN ?", authorIDs).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	err := r.db.WithContext(ctx).Where("author_id IN ?", authorIDs).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}
