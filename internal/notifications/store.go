// Package notifications persists per-user notifications and their optional
// references to other records.
package notifications

import (
	"errors"

	"gorm.io/gorm"

	"github.com/agrimarket-dev/agrimarket/internal/apperr"
	"github.com/agrimarket-dev/agrimarket/internal/entityref"
	"github.com/agrimarket-dev/agrimarket/internal/models"
)

type Store struct {
	db       *gorm.DB
	registry *entityref.Registry
}

func NewStore(db *gorm.DB, registry *entityref.Registry) *Store {
	return &Store{db: db, registry: registry}
}

type CreateInput struct {
	Message          string
	NotificationType string
	Reference        *entityref.Reference
}

// Create validates and persists a notification for userID. Only the
// reference's type tag is checked here; the id is resolved at read time, so
// a notification may point at a record created in the same unit of work.
func (s *Store) Create(userID uint, in CreateInput) (*models.Notification, error) {
	if in.Message == "" {
		return nil, apperr.Validation("message", "must not be empty")
	}

	if !models.ValidNotificationType(in.NotificationType) {
		return nil, apperr.Validation("notification_type", "unknown notification type")
	}

	notification := models.Notification{
		UserID:           userID,
		Message:          in.Message,
		NotificationType: in.NotificationType,
	}

	if in.Reference != nil {
		if in.Reference.ID == 0 {
			return nil, apperr.Validation("related_object_id", "must be a positive id")
		}

		if !s.registry.Registered(in.Reference.Type) {
			return nil, apperr.Validation("related_content_type", "unknown content type")
		}

		notification.RelatedType = &in.Reference.Type
		notification.RelatedID = &in.Reference.ID
	}

	if err := s.db.Create(&notification).Error; err != nil {
		return nil, err
	}

	return &notification, nil
}

// List returns the user's notifications, newest first. When readFilter is
// non-nil only read or unread notifications are returned.
func (s *Store) List(userID uint, readFilter *bool) ([]models.Notification, error) {
	query := s.db.Where("user_id = ?", userID)

	if readFilter != nil {
		query = query.Where("read = ?", *readFilter)
	}

	var items []models.Notification

	if err := query.Order("created_at DESC, id DESC").Find(&items).Error; err != nil {
		return nil, err
	}

	return items, nil
}

// UnreadCount returns how many of the user's notifications are unread.
func (s *Store) UnreadCount(userID uint) (int64, error) {
	var count int64

	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error

	return count, err
}

// MarkRead flips the read flag of the user's notification. The ownership
// check and the write happen in a single UPDATE so a concurrent delete
// cannot slip between them. Marking an already-read notification is a no-op
// that still succeeds.
func (s *Store) MarkRead(userID, id uint) (*models.Notification, error) {
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)

	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		return nil, apperr.NotFound("notification", id)
	}

	var notification models.Notification

	if err := s.db.First(&notification, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("notification", id)
		}
		return nil, err
	}

	return &notification, nil
}
