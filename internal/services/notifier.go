package services

import (
	"fmt"

	"github.com/agrimarket-dev/agrimarket/internal/entityref"
	"github.com/agrimarket-dev/agrimarket/internal/models"
	"github.com/agrimarket-dev/agrimarket/internal/notifications"
)

// Notifier composes the order-lifecycle notifications. Each notification
// carries a reference to its order so readers can jump to it; the reference
// survives the order being deleted later.
type Notifier struct {
	store *notifications.Store
}

func NewNotifier(store *notifications.Store) *Notifier {
	return &Notifier{store: store}
}

// OrderPlaced notifies every farmer with a product in the order.
func (n *Notifier) OrderPlaced(order models.Order, farmerUserIDs []uint) ([]models.Notification, error) {
	var created []models.Notification

	for _, userID := range farmerUserIDs {
		notification, err := n.store.Create(userID, notifications.CreateInput{
			Message:          fmt.Sprintf("You have a new order #%d", order.ID),
			NotificationType: models.NotificationOrder,
			Reference:        &entityref.Reference{Type: "order", ID: order.ID},
		})

		if err != nil {
			return created, err
		}

		created = append(created, *notification)
	}

	return created, nil
}

// OrderStatusChanged notifies the customer about the new status.
func (n *Notifier) OrderStatusChanged(order models.Order) (*models.Notification, error) {
	var message string

	switch order.Status {
	case models.OrderCompleted:
		message = fmt.Sprintf("Your order #%d has been completed", order.ID)
	case models.OrderCancelled:
		message = fmt.Sprintf("Your order #%d has been cancelled", order.ID)
	default:
		message = fmt.Sprintf("Your order #%d is now %s", order.ID, order.Status)
	}

	return n.store.Create(order.CustomerID, notifications.CreateInput{
		Message:          message,
		NotificationType: models.NotificationOrder,
		Reference:        &entityref.Reference{Type: "order", ID: order.ID},
	})
}
