package handlers

import (
	"github.com/agrimarket-dev/agrimarket/db"
	"github.com/agrimarket-dev/agrimarket/internal/entityref"
	"github.com/agrimarket-dev/agrimarket/internal/events"
	"github.com/agrimarket-dev/agrimarket/internal/notifications"
	"github.com/agrimarket-dev/agrimarket/internal/services"
)

var (
	Registry          *entityref.Registry
	NotificationStore *notifications.Store
	EventStore        *events.Store
	Notifier          *services.Notifier
)

// InitStores wires the stores and the entity registry onto the shared
// database handle. Call after db.ConnectDatabase.
func InitStores() {
	Registry = services.BuildRegistry(db.DB)
	NotificationStore = notifications.NewStore(db.DB, Registry)
	EventStore = events.NewStore(db.DB, Registry)
	Notifier = services.NewNotifier(NotificationStore)
}
