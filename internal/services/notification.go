package services

import (
	"context"
	"errors"
	"fmt"

	"photoshare-backend/internal/models"
	"photoshare-backend/internal/repository"

	"github.com/rs/zerolog/log"
)

// notificationLimit caps how many notifications a listing returns.
const notificationLimit = 50

// LikeStore handles like rows and media ownership lookups
type LikeStore interface {
	OwnerOf(ctx context.Context, mediaID int64) (int64, error)
	InsertLike(ctx context.Context, mediaID, userID int64) (bool, error)
	DeleteLike(ctx context.Context, mediaID, userID int64) error
}

// NotificationStore handles notification rows
type NotificationStore interface {
	Create(ctx context.Context, userID int64, message string) (*models.Notification, error)
	ListRecent(ctx context.Context, userID int64, limit int) ([]models.Notification, error)
	MarkAllRead(ctx context.Context, userID int64) error
}

// PushTokenSource resolves users to their registered push tokens
type PushTokenSource interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// NotificationService handles likes and the notifications they generate.
// New notifications are delivered over the websocket hub when the
// recipient is connected, and via APNs when a push token is registered.
type NotificationService struct {
	likes         LikeStore
	notifications NotificationStore
	users         PushTokenSource
	hub           *NotificationHub
	push          *PushSender
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	likes LikeStore,
	notifications NotificationStore,
	users PushTokenSource,
	hub *NotificationHub,
	push *PushSender,
) *NotificationService {
	return &NotificationService{
		likes:         likes,
		notifications: notifications,
		users:         users,
		hub:           hub,
		push:          push,
	}
}

// Like records a like. Liking twice is a no-op success. A like by a
// non-owner creates exactly one notification for the media owner; liking
// your own media creates none.
func (s *NotificationService) Like(ctx context.Context, sess *models.Session, mediaID int64) error {
	if sess == nil {
		return ErrUnauthorized
	}

	ownerID, err := s.likes.OwnerOf(ctx, mediaID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return fmt.Errorf("media %d: %w", mediaID, ErrNotFound)
		}
		return err
	}

	inserted, err := s.likes.InsertLike(ctx, mediaID, sess.UserID)
	if err != nil {
		return err
	}
	if !inserted || ownerID == sess.UserID {
		return nil
	}

	message := fmt.Sprintf("%s liked your media.", sess.Username)
	notification, err := s.notifications.Create(ctx, ownerID, message)
	if err != nil {
		return err
	}
	s.deliver(ctx, ownerID, notification)
	return nil
}

// Unlike removes a like. Unliking a like that does not exist is a no-op
// success.
func (s *NotificationService) Unlike(ctx context.Context, sess *models.Session, mediaID int64) error {
	if sess == nil {
		return ErrUnauthorized
	}
	return s.likes.DeleteLike(ctx, mediaID, sess.UserID)
}

// List returns the user's 50 most recent notifications, newest first
func (s *NotificationService) List(ctx context.Context, userID int64) ([]models.Notification, error) {
	return s.notifications.ListRecent(ctx, userID, notificationLimit)
}

// MarkRead flips every unread notification for the user to read
func (s *NotificationService) MarkRead(ctx context.Context, userID int64) error {
	return s.notifications.MarkAllRead(ctx, userID)
}

// deliver pushes a fresh notification to the recipient, best effort.
func (s *NotificationService) deliver(ctx context.Context, userID int64, notification *models.Notification) {
	if s.hub != nil && s.hub.IsOnline(userID) {
		msg := WSMessage{Type: "notification", Notification: notification}
		if err := s.hub.SendToUser(userID, msg); err != nil {
			log.Warn().Err(err).Int64("user_id", userID).Msg("Failed to push notification over websocket")
		}
	}

	if s.push == nil {
		return
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("Failed to load user for push delivery")
		return
	}
	if user.PushToken == nil || *user.PushToken == "" {
		return
	}
	if err := s.push.Send(*user.PushToken, notification.Message); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("Failed to send push notification")
	}
}
