package repositories

import (
	"context"

	"github.com/waveriff/waveriff/internal/models"
	"gorm.io/gorm"
)

// CommunityRepository defines the interface for community and membership operations
type CommunityRepository interface {
	CreateCommunity(community *models.Community) error
	GetCommunityByID(ctx context.Context, id uint) (*models.Community, error)
	CreateMembership(membership *models.CommunityMembership) error
	DeleteMembership(userID, communityID uint) error
	IsMember(userID, communityID uint) (bool, error)
	GetMemberCommunityIDs(ctx context.Context, userID uint) ([]uint, error)
}

// PostgresCommunityRepository implements CommunityRepository for PostgreSQL
type PostgresCommunityRepository struct {
	db *gorm.DB
}

// NewPostgresCommunityRepository creates a new PostgresCommunityRepository
func NewPostgresCommunityRepository(db *gorm.DB) *PostgresCommunityRepository {
	return &PostgresCommunityRepository{db: db}
}

func (r *PostgresCommunityRepository) CreateCommunity(community *models.Community) error {
	return r.db.Create(community).Error
}

func (r *PostgresCommunityRepository) GetCommunityByID(ctx context.Context, id uint) (*models.Community, error) {
	var community models.Community
	if err := r.db.WithContext(ctx).First(&community, id).Error; err != nil {
		return nil, err
	}
	return &community, nil
}

func (r *PostgresCommunityRepository) CreateMembership(membership *models.CommunityMembership) error {
	return r.db.Create(membership).Error
}

func (r *PostgresCommunityRepository) DeleteMembership(userID, communityID uint) error {
	res := r.db.Where("user_id = ? AND community_id = ?", userID, communityID).Delete(&models.CommunityMembership{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PostgresCommunityRepository) IsMember(userID, communityID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.CommunityMembership{}).Where("user_id = ? AND community_id = ?", userID, communityID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetMemberCommunityIDs returns the communities the user belongs to, the
// feed composer's second source set. Role does not matter here.
func (r *PostgresCommunityRepository) GetMemberCommunityIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.CommunityMembership{}).Where("user_id = ?", userID).Pluck("community_id", &ids).Error
	return ids, err
}
