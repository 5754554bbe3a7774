package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agrimarket-dev/agrimarket/db"
	"github.com/agrimarket-dev/agrimarket/internal/apperr"
	"github.com/agrimarket-dev/agrimarket/internal/models"
	"github.com/agrimarket-dev/agrimarket/internal/utils"
)

type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type OrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  uint `json:"quantity" binding:"required,gt=0"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type OrderItemResponse struct {
	ID          uint    `json:"id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    uint    `json:"quantity"`
	Price       float64 `json:"price"`
}

type OrderResponse struct {
	ID        uint                `json:"id"`
	Status    string              `json:"status"`
	Total     float64             `json:"total"`
	CreatedAt time.Time           `json:"created_at"`
	Items     []OrderItemResponse `json:"items"`
}

func serializeOrder(order models.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))

	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}

	return OrderResponse{
		ID:        order.ID,
		Status:    order.Status,
		Total:     order.Total(),
		CreatedAt: order.CreatedAt,
		Items:     items,
	}
}

// CreateOrder places an order: stock is checked and decremented and the
// order rows written in one transaction, then the affected farmers are
// notified with a reference back to the order.
func CreateOrder(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateOrderRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order := models.Order{
		CustomerID: userID,
		Status:     models.OrderPending,
	}

	farmerUserIDs := make(map[uint]bool)

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, item := range req.Items {
			var product models.Product

			if err := tx.Preload("Farmer").First(&product, item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.NotFound("product", item.ProductID)
				}
				return err
			}

			if product.Quantity < item.Quantity {
				return apperr.Validation("quantity", "insufficient stock for "+product.Name)
			}

			// Guarded decrement so two concurrent orders cannot both take
			// the last units.
			result := tx.Model(&models.Product{}).
				Where("id = ? AND quantity >= ?", product.ID, item.Quantity).
				Update("quantity", gorm.Expr("quantity - ?", item.Quantity))

			if result.Error != nil {
				return result.Error
			}

			if result.RowsAffected == 0 {
				return apperr.Validation("quantity", "insufficient stock for "+product.Name)
			}

			orderItem := models.OrderItem{
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  item.Quantity,
				Price:     product.Price,
			}

			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}

			farmerUserIDs[product.Farmer.UserID] = true
		}

		return nil
	})

	if err != nil {
		respondStoreError(ctx, err)
		return
	}

	recipients := make([]uint, 0, len(farmerUserIDs))
	for id := range farmerUserIDs {
		recipients = append(recipients, id)
	}

	created, err := Notifier.OrderPlaced(order, recipients)

	if err != nil {
		log.Printf("Failed to notify farmers for order %d: %v", order.ID, err)
	}

	now := time.Now()
	for _, notification := range created {
		serialized, err := serializeNotification(notification, now)
		if err != nil {
			log.Printf("Failed to serialize notification %d: %v", notification.ID, err)
			continue
		}
		BroadcastNotification(notification.UserID, serialized)
	}

	var full models.Order

	if err := db.DB.Preload("Items.Product").First(&full, order.ID).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve order"})
		return
	}

	ctx.JSON(http.StatusCreated, serializeOrder(full))
}

func ListOrders(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var orders []models.Order

	err = db.DB.Where("customer_id = ?", userID).
		Preload("Items.Product").
		Order("created_at DESC").
		Find(&orders).Error

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve orders"})
		return
	}

	response := make([]OrderResponse, 0, len(orders))

	for _, order := range orders {
		response = append(response, serializeOrder(order))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetOrder(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	orderID, err := utils.GetIDParam(ctx, "order_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var order models.Order

	err = db.DB.Where("id = ? AND customer_id = ?", orderID, userID).
		Preload("Items.Product").
		First(&order).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve order"})
		}
		return
	}

	ctx.JSON(http.StatusOK, serializeOrder(order))
}

// UpdateOrderStatus moves an order to a new status. The customer may cancel
// their own pending order; a farmer with a product in the order may complete
// or cancel it. The customer is notified of the change.
func UpdateOrderStatus(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	orderID, err := utils.GetIDParam(ctx, "order_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req UpdateOrderStatusRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !models.ValidOrderStatus(req.Status) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	var order models.Order

	if err := db.DB.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve order"})
		}
		return
	}

	allowed := false

	if order.CustomerID == userID {
		// Customers may only cancel, and only while the order is pending.
		if req.Status != models.OrderCancelled || order.Status != models.OrderPending {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Only pending orders can be cancelled"})
			return
		}
		allowed = true
	} else {
		var count int64

		err := db.DB.Model(&models.OrderItem{}).
			Joins("JOIN products ON products.id = order_items.product_id").
			Joins("JOIN farmer_profiles ON farmer_profiles.id = products.farmer_id").
			Where("order_items.order_id = ? AND farmer_profiles.user_id = ?", order.ID, userID).
			Count(&count).Error

		if err != nil {
			log.Printf("Failed to check order ownership: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		allowed = count > 0
	}

	if !allowed {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	order.Status = req.Status

	if err := db.DB.Save(&order).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}

	notification, err := Notifier.OrderStatusChanged(order)

	if err != nil {
		log.Printf("Failed to notify customer for order %d: %v", order.ID, err)
	} else {
		serialized, err := serializeNotification(*notification, time.Now())
		if err != nil {
			log.Printf("Failed to serialize notification %d: %v", notification.ID, err)
		} else {
			BroadcastNotification(order.CustomerID, serialized)
		}
	}

	var full models.Order

	if err := db.DB.Preload("Items.Product").First(&full, order.ID).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve order"})
		return
	}

	ctx.JSON(http.StatusOK, serializeOrder(full))
}
