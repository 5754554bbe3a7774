package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/agrimarket-dev/agrimarket/internal/entityref"
)

const (
	EventHarvest     = "harvest"
	EventDelivery    = "delivery"
	EventMaintenance = "maintenance"
	EventMarket      = "market"
	EventOther       = "other"
)

func ValidEventType(eventType string) bool {
	switch eventType {
	case EventHarvest, EventDelivery, EventMaintenance, EventMarket, EventOther:
		return true
	}
	return false
}

type EventTypeChoice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// EventTypeChoices lists the event kinds with their display labels, in the
// order clients present them.
func EventTypeChoices() []EventTypeChoice {
	return []EventTypeChoice{
		{Value: EventHarvest, Label: "Harvest"},
		{Value: EventDelivery, Label: "Delivery"},
		{Value: EventMaintenance, Label: "Maintenance"},
		{Value: EventMarket, Label: "Market Day"},
		{Value: EventOther, Label: "Other"},
	}
}

type Event struct {
	gorm.Model

	UserID      uint   `gorm:"not null;index:idx_events_user_type"`
	Title       string `gorm:"size:200;not null"`
	Description *string
	Start       time.Time `gorm:"not null;index:idx_events_window"`
	End         time.Time `gorm:"not null;index:idx_events_window"`
	AllDay      bool      `gorm:"not null;default:false"`
	EventType   string    `gorm:"size:20;not null;default:other;index:idx_events_user_type"`
	Location    *string   `gorm:"size:255"`

	// Weak reference to another record, both columns set or both null.
	RelatedType *string `gorm:"size:20;index:idx_events_related"`
	RelatedID   *uint   `gorm:"index:idx_events_related"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}

// Reference returns the entity reference carried by the event, or nil.
func (e *Event) Reference() *entityref.Reference {
	if e.RelatedType == nil || e.RelatedID == nil {
		return nil
	}

	return &entityref.Reference{Type: *e.RelatedType, ID: *e.RelatedID}
}
