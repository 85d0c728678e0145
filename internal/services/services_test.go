package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"github.com/waveriff/waveriff/internal/models"
	"github.com/waveriff/waveriff/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// A single connection keeps every session on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Upvote{},
		&models.Review{},
		&models.CatalogItem{},
		&models.Follow{},
		&models.Community{},
		&models.CommunityMembership{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: name + "@example.com"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createPost(t *testing.T, db *gorm.DB, authorID uint, title string) *models.Post {
	t.Helper()
	post := &models.Post{AuthorID: authorID, Title: title}
	require.NoError(t, db.Create(post).Error)
	return post
}

func createItem(t *testing.T, db *gorm.DB, kind, externalID, name string) *models.CatalogItem {
	t.Helper()
	item := &models.CatalogItem{Kind: kind, ExternalID: externalID, Name: name}
	require.NoError(t, db.Create(item).Error)
	return item
}

func follow(t *testing.T, db *gorm.DB, followerID, followingID uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.Follow{FollowerID: followerID, FollowingID: followingID}).Error)
}

func joinCommunity(t *testing.T, db *gorm.DB, userID, communityID uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.CommunityMembership{UserID: userID, CommunityID: communityID, Role: models.RoleMember}).Error)
}

// memNotificationRepo is an in-memory stand-in for the Mongo-backed
// notification repository.
type memNotificationRepo struct {
	notifications []models.Notification
}

var _ repositories.NotificationRepository = (*memNotificationRepo)(nil)

func (r *memNotificationRepo) CreateNotification(_ context.Context, n *models.Notification) error {
	n.ID = primitive.NewObjectID()
	n.IsRead = false
	n.CreatedAt = time.Now()
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *memNotificationRepo) GetByRecipientID(_ context.Context, recipientID uint, offset, limit int) ([]models.Notification, int64, error) {
	matched := []models.Notification{}
	for _, n := range r.notifications {
		if n.RecipientID == recipientID {
			matched = append(matched, n)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	if offset >= len(matched) {
		return []models.Notification{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *memNotificationRepo) GetUnreadCount(_ context.Context, recipientID uint) (int64, error) {
	var count int64
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *memNotificationRepo) MarkAsRead(_ context.Context, recipientID uint, notificationID string) error {
	for i, n := range r.notifications {
		if n.ID.Hex() == notificationID && n.RecipientID == recipientID {
			r.notifications[i].IsRead = true
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *memNotificationRepo) MarkAllAsRead(_ context.Context, recipientID uint) error {
	for i, n := range r.notifications {
		if n.RecipientID == recipientID {
			r.notifications[i].IsRead = true
		}
	}
	return nil
}
