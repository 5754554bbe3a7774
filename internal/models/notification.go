package models

import (
	"gorm.io/gorm"

	"github.com/agrimarket-dev/agrimarket/internal/entityref"
)

const (
	NotificationOrder   = "order"
	NotificationSystem  = "system"
	NotificationProduct = "product"
	NotificationMessage = "message"
)

func ValidNotificationType(notificationType string) bool {
	switch notificationType {
	case NotificationOrder, NotificationSystem, NotificationProduct, NotificationMessage:
		return true
	}
	return false
}

type Notification struct {
	gorm.Model

	UserID           uint   `gorm:"not null;index:idx_notifications_user_read"`
	Message          string `gorm:"not null"`
	Read             bool   `gorm:"not null;default:false;index:idx_notifications_user_read"`
	NotificationType string `gorm:"size:20;not null"` // "order", "system", "product", "message"

	// Weak reference to another record, both columns set or both null.
	// The target is resolved at read time and may no longer exist.
	RelatedType *string `gorm:"size:20;index:idx_notifications_related"`
	RelatedID   *uint   `gorm:"index:idx_notifications_related"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}

// Reference returns the entity reference carried by the notification, or nil.
func (n *Notification) Reference() *entityref.Reference {
	if n.RelatedType == nil || n.RelatedID == nil {
		return nil
	}

	return &entityref.Reference{Type: *n.RelatedType, ID: *n.RelatedID}
}
