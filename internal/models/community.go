package models

import "time"

// Membership roles.
const (
	RoleMember    = "member"
	RoleModerator = "moderator"
)

// Community is a topic space posts can be attached to.
type Community struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex"`
	Description string    `json:"description,omitempty"`
	CreatorID   uint      `json:"creator_id" gorm:"index"`
	CreatedAt   time.Time `json:"created_at"`
}

// CommunityMembership links a user to a community. Membership existence,
// regardless of role, is what feeds the feed composer's source sets.
type CommunityMembership struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_community"`
	CommunityID uint      `json:"community_id" gorm:"index;uniqueIndex:idx_user_community"`
	Role        string    `json:"role" gorm:"size:20;default:'member'"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateCommunityRequest defines the request body for creating a community
type CreateCommunityRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=60"`
	Description string `json:"description,omitempty" validate:"omitempty,max=1000"`
}
