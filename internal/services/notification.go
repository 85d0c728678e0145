package services

import (
	"context"
	"errors"

	"github.com/waveriff/waveriff/internal/apperrors"
	"github.com/waveriff/waveriff/internal/models"
	"github.com/waveriff/waveriff/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
)

// NotificationService fans engagement events out into notification records
// and serves the recipient-side reads.
type NotificationService struct {
	repo repositories.NotificationRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(repo repositories.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// Notify creates one unread notification for the recipient. Self-engagement
// produces no record: an actor is never notified about their own action.
func (s *NotificationService) Notify(ctx context.Context, recipientID, actorID uint, ntype, targetType string, targetID uint) error {
	if recipientID == actorID {
		return nil
	}
	return s.repo.CreateNotification(ctx, &models.Notification{
		RecipientID: recipientID,
		ActorID:     actorID,
		Type:        ntype,
		TargetType:  targetType,
		TargetID:    targetID,
	})
}

// List returns one page of the recipient's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	page, limit = NormalizePage(page, limit)
	return s.repo.GetByRecipientID(ctx, recipientID, (page-1)*limit, limit)
}

// UnreadCount returns the recipient's unread notification count.
func (s *NotificationService) UnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	return s.repo.GetUnreadCount(ctx, recipientID)
}

// MarkRead marks one of the recipient's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, recipientID uint, notificationID string) error {
	err := s.repo.MarkAsRead(ctx, recipientID, notificationID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperrors.NotFound("notification not found")
	}
	return err
}

// MarkAllRead marks every unread notification of the recipient as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID uint) error {
	return s.repo.MarkAllAsRead(ctx, recipientID)
}
