package models

import "time"

// Catalog item kinds.
const (
	ItemAlbum  = "album"
	ItemTrack  = "track"
	ItemArtist = "artist"
)

// CatalogItem is a locally registered reference to an entry in the external
// music catalog. Rating aggregates are denormalized here and mutated only by
// the engagement service.
type CatalogItem struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Kind        string    `json:"kind" gorm:"size:20;uniqueIndex:idx_kind_external"`
	ExternalID  string    `json:"external_id" gorm:"uniqueIndex:idx_kind_external"`
	Name        string    `json:"name"`
	ArtistName  string    `json:"artist_name,omitempty"`
	RatingSum   int       `json:"rating_sum" gorm:"default:0"`
	RatingCount int       `json:"rating_count" gorm:"default:0"`
	CreatedAt   time.Time `json:"created_at"`
}

// AverageRating returns the mean of active ratings, or 0 when unrated.
func (i CatalogItem) AverageRating() float64 {
	if i.RatingCount == 0 {
		return 0
	}
	return float64(i.RatingSum) / float64(i.RatingCount)
}

// ValidItemKind reports whether s names a ratable catalog entity.
func ValidItemKind(s string) bool {
	switch s {
	case ItemAlbum, ItemTrack, ItemArtist:
		return true
	}
	return false
}

// ResolveItemRequest defines the request body for registering a catalog item
type ResolveItemRequest struct {
	Kind       string `json:"kind" validate:"required,oneof=album track artist"`
	ExternalID string `json:"external_id" validate:"required"`
	Name       string `json:"name,omitempty" validate:"omitempty,max=300"`
	ArtistName string `json:"artist_name,omitempty" validate:"omitempty,max=300"`
}
