/**
 * @description
 * Notification emitter. Every component appends notification records through
 * `Notify`, which also publishes a best-effort event to the message broker so
 * external consumers (push gateways, email relays) can react without polling.
 */

package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/myhainan/member-portal/internal/domain"
)

// notificationExchange is the topic exchange notification events are published to.
const notificationExchange = "portal.events"

// Notify appends a notification for a user and publishes it to the broker.
// The broker publish is fire-and-forget: a delivery failure never fails the
// calling operation.
func (s *Service) Notify(ctx context.Context, userID uuid.UUID, title, message string, category domain.NotificationCategory) error {
	n := &domain.Notification{
		UserID:   userID,
		Title:    title,
		Message:  message,
		Category: category,
	}
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	if s.producer != nil {
		routingKey := fmt.Sprintf("notification.created.%s", category)
		if err := s.producer.Publish(ctx, notificationExchange, routingKey, n); err != nil {
			s.logger.Warn("notification event publish failed", "user_id", userID, "category", category, "error", err)
		}
	}
	return nil
}

// Notifications returns a user's notifications, newest first.
func (s *Service) Notifications(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	return s.repo.ListNotificationsByUser(ctx, userID)
}

// MarkNotificationRead flips the read flag on one of the user's notifications.
func (s *Service) MarkNotificationRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	return s.repo.MarkNotificationRead(ctx, notificationID, userID)
}
