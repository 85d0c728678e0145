package repositories

import (
	"context"

	"github.com/waveriff/waveriff/internal/models"
	"gorm.io/gorm"
)

// UpvoteRepository defines read-side upvote lookups. Writes go through the
// engagement service so counter invariants stay with a single writer.
type UpvoteRepository interface {
	HasUpvoted(ctx context.Context, userID uint, targetType string, targetID uint) (bool, error)
	GetUpvotedTargetIDs(ctx context.Context, userID uint, targetType string, targetIDs []uint) (map[uint]bool, error)
}

// PostgresUpvoteRepository implements UpvoteRepository for PostgreSQL
type PostgresUpvoteRepository struct {
	db *gorm.DB
}

// NewPostgresUpvoteRepository creates a new PostgresUpvoteRepository
func NewPostgresUpvoteRepository(db *gorm.DB) *PostgresUpvoteRepository {
	return &PostgresUpvoteRepository{db: db}
}

func (r *PostgresUpvoteRepository) HasUpvoted(ctx context.Context, userID uint, targetType string, targetID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Upvote{}).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetUpvotedTargetIDs returns which of targetIDs the user has upvoted, as a
// single batched lookup for page annotation.
func (r *PostgresUpvoteRepository) GetUpvotedTargetIDs(ctx context.Context, userID uint, targetType string, targetIDs []uint) (map[uint]bool, error) {
	upvoted := make(map[uint]bool, len(targetIDs))
	if len(targetIDs) == 0 {
		return upvoted, nil
	}

	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Upvote{}).
		Where("user_id = ? AND target_type = ? AND target_id IN ?", userID, targetType, targetIDs).
		Pluck("target_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		upvoted[id] = true
	}
	return upvoted, nil
}
