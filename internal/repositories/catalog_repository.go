package repositories

import (
	"context"

	"github.com/waveriff/waveriff/internal/models"
	"gorm.io/gorm"
)

// CatalogRepository defines the interface for locally registered catalog items
type CatalogRepository interface {
	GetItemByID(ctx context.Context, id uint) (*models.CatalogItem, error)
	FindOrCreateItem(ctx context.Context, item *models.CatalogItem) error
}

// PostgresCatalogRepository implements CatalogRepository for PostgreSQL
type PostgresCatalogRepository struct {
	db *gorm.DB
}

// NewPostgresCatalogRepository creates a new PostgresCatalogRepository
func NewPostgresCatalogRepository(db *gorm.DB) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{db: db}
}

func (r *PostgresCatalogRepository) GetItemByID(ctx context.Context, id uint) (*models.CatalogItem, error) {
	var item models.CatalogItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindOrCreateItem registers a catalog reference on first use; subsequent
// resolves of the same (kind, external_id) return the existing row with its
// rating aggregates intact.
func (r *PostgresCatalogRepository) FindOrCreateItem(ctx context.Context, item *models.CatalogItem) error {
	return r.db.WithContext(ctx).
		Where("kind = ? AND external_id = ?", item.Kind, item.ExternalID).
		FirstOrCreate(item).Error
}
