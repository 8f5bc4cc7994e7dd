package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/skillora/skillora-api/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationService handles user notifications. Notifications are
// fire-and-forget: the record is created synchronously with the triggering
// transition, and a failure to create one never fails the transition.
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new notification service
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// NotificationInput represents a request to create a notification
type NotificationInput struct {
	UserID        uint
	Type          model.NotificationType
	Category      model.NotificationCategory
	Title         string
	Message       string
	ApplicationID *uint
	InternshipID  *uint
	Metadata      interface{}
}

// Notify creates a notification for a user.
func (s *NotificationService) Notify(ctx context.Context, input NotificationInput) (*model.Notification, error) {
	return s.create(s.db.WithContext(ctx), input)
}

// notifyTx creates a notification inside an existing transaction,
// swallowing any error so a notification failure never aborts the
// business-state change it accompanies.
func (s *NotificationService) notifyTx(tx *gorm.DB, input NotificationInput) {
	if _, err := s.create(tx, input); err != nil {
		log.Printf("failed to create notification for user %d: %v", input.UserID, err)
	}
}

func (s *NotificationService) create(db *gorm.DB, input NotificationInput) (*model.Notification, error) {
	notification := &model.Notification{
		UserID:        input.UserID,
		Type:          input.Type,
		Category:      input.Category,
		Title:         input.Title,
		Message:       input.Message,
		IsRead:        false,
		ApplicationID: input.ApplicationID,
		InternshipID:  input.InternshipID,
	}

	if input.Metadata != nil {
		metadataJSON, err := json.Marshal(input.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		notification.Metadata = datatypes.JSON(metadataJSON)
	}

	if err := db.Create(notification).Error; err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	return notification, nil
}

// ListOptions represents options for listing notifications
type ListOptions struct {
	UserID     uint
	UnreadOnly bool
	Category   string
	Limit      int
	Offset     int
}

// ListByUser retrieves notifications for a user, newest first.
func (s *NotificationService) ListByUser(ctx context.Context, opts ListOptions) ([]model.Notification, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Notification{}).Where("user_id = ?", opts.UserID)

	if opts.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if opts.Category != "" {
		query = query.Where("category = ?", opts.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}

	var notifications []model.Notification
	err := query.Order("created_at DESC").Limit(limit).Offset(opts.Offset).Find(&notifications).Error
	return notifications, total, err
}

// MarkRead marks a single notification as read if the user owns it.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	result := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification of a user as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	result := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

// UnreadCount returns the number of unread notifications for a user.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}
