package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agrimarket-dev/agrimarket/db"
	"github.com/agrimarket-dev/agrimarket/internal/models"
	"github.com/agrimarket-dev/agrimarket/internal/utils"
)

type FarmStatsResponse struct {
	TotalProducts int64   `json:"total_products"`
	ActiveOrders  int64   `json:"active_orders"`
	TotalRevenue  float64 `json:"total_revenue"`
}

type UserStatsResponse struct {
	TotalOrders   int64   `json:"total_orders"`
	TotalProducts int64   `json:"total_products"`
	TotalRevenue  float64 `json:"total_revenue"`
}

func farmerOrdersQuery(farmerID uint) *gorm.DB {
	return db.DB.Model(&models.Order{}).
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("products.farmer_id = ?", farmerID).
		Distinct("orders.id")
}

func loadFarmerOrders(farmerID uint) ([]models.Order, error) {
	var orders []models.Order

	err := db.DB.
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("products.farmer_id = ?", farmerID).
		Distinct("orders.*").
		Preload("Items").
		Find(&orders).Error

	return orders, err
}

// FarmStats reports the farmer's product count, active-order count and
// revenue across all their orders.
func FarmStats(ctx *gin.Context) {
	farmer, ok := currentFarmer(ctx)

	if !ok {
		return
	}

	var stats FarmStatsResponse

	if err := db.DB.Model(&models.Product{}).Where("farmer_id = ?", farmer.ID).Count(&stats.TotalProducts).Error; err != nil {
		log.Printf("Failed to count products: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// TODO: orders are stored as PENDING/COMPLETED/CANCELLED, so this
	// "active" filter matches nothing; confirm with the product owner
	// whether active should mean PENDING before changing the figure.
	if err := farmerOrdersQuery(farmer.ID).Where("orders.status = ?", "active").Count(&stats.ActiveOrders).Error; err != nil {
		log.Printf("Failed to count active orders: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	orders, err := loadFarmerOrders(farmer.ID)

	if err != nil {
		log.Printf("Failed to load farmer orders: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	for _, order := range orders {
		stats.TotalRevenue += order.Total()
	}

	ctx.JSON(http.StatusOK, stats)
}

// UserStats reports aggregate counts for the dashboard: for farmers their
// catalog and completed revenue, for customers their order count.
func UserStats(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var stats UserStatsResponse

	var farmer models.FarmerProfile

	err = db.DB.Where("user_id = ?", userID).First(&farmer).Error

	if err == nil {
		if err := db.DB.Model(&models.Product{}).Where("farmer_id = ?", farmer.ID).Count(&stats.TotalProducts).Error; err != nil {
			log.Printf("Failed to count products: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		orders, err := loadFarmerOrders(farmer.ID)

		if err != nil {
			log.Printf("Failed to load farmer orders: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		stats.TotalOrders = int64(len(orders))

		for _, order := range orders {
			if order.Status == models.OrderCompleted {
				stats.TotalRevenue += order.Total()
			}
		}
	} else {
		if err := db.DB.Model(&models.Order{}).Where("customer_id = ?", userID).Count(&stats.TotalOrders).Error; err != nil {
			log.Printf("Failed to count orders: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	ctx.JSON(http.StatusOK, stats)
}

// RecentOrders returns the five latest orders touching the user: their own
// purchases, or for farmers the orders containing their products.
func RecentOrders(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var farmer models.FarmerProfile

	isFarmer := db.DB.Where("user_id = ?", userID).First(&farmer).Error == nil

	var orders []models.Order

	if isFarmer {
		err = db.DB.
			Joins("JOIN order_items ON order_items.order_id = orders.id").
			Joins("JOIN products ON products.id = order_items.product_id").
			Where("products.farmer_id = ?", farmer.ID).
			Distinct("orders.*").
			Preload("Items.Product").
			Order("orders.created_at DESC").
			Limit(5).
			Find(&orders).Error
	} else {
		err = db.DB.Where("customer_id = ?", userID).
			Preload("Items.Product").
			Order("created_at DESC").
			Limit(5).
			Find(&orders).Error
	}

	if err != nil {
		log.Printf("Failed to retrieve recent orders: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve orders"})
		return
	}

	response := make([]OrderResponse, 0, len(orders))

	for _, order := range orders {
		response = append(response, serializeOrder(order))
	}

	ctx.JSON(http.StatusOK, response)
}
