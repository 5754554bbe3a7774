package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agrimarket-dev/agrimarket/db"
	"github.com/agrimarket-dev/agrimarket/internal/models"
	"github.com/agrimarket-dev/agrimarket/internal/types"
	"github.com/agrimarket-dev/agrimarket/internal/utils"
)

type UpdateFarmerRequest struct {
	FarmName      string `json:"farm_name" binding:"required"`
	Location      string `json:"location" binding:"required"`
	ContactNumber string `json:"contact_number"`
	Bio           string `json:"bio"`
}

type FarmerResponse struct {
	ID            uint               `json:"id"`
	FarmName      string             `json:"farm_name"`
	Location      string             `json:"location"`
	ContactNumber string             `json:"contact_number"`
	Bio           string             `json:"bio"`
	User          types.UserResponse `json:"user"`
}

func serializeFarmer(farmer models.FarmerProfile) FarmerResponse {
	return FarmerResponse{
		ID:            farmer.ID,
		FarmName:      farmer.FarmName,
		Location:      farmer.Location,
		ContactNumber: farmer.ContactNumber,
		Bio:           farmer.Bio,
		User: types.UserResponse{
			ID:    farmer.User.ID,
			Name:  farmer.User.Name,
			Email: farmer.User.Email,
		},
	}
}

// currentFarmer loads the farmer profile of the authenticated user, or
// answers the request itself when there is none.
func currentFarmer(ctx *gin.Context) (*models.FarmerProfile, bool) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}

	var farmer models.FarmerProfile

	if err := db.DB.Where("user_id = ?", userID).First(&farmer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "Not a farmer"})
		} else {
			log.Printf("Failed to fetch farmer profile: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return nil, false
	}

	return &farmer, true
}

func ListFarmers(ctx *gin.Context) {
	var farmers []models.FarmerProfile

	if err := db.DB.Preload("User").Find(&farmers).Error; err != nil {
		log.Printf("Failed to retrieve farmers: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve farmers"})
		return
	}

	response := make([]FarmerResponse, 0, len(farmers))

	for _, farmer := range farmers {
		response = append(response, serializeFarmer(farmer))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetFarmer(ctx *gin.Context) {
	farmerID, err := utils.GetIDParam(ctx, "farmer_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var farmer models.FarmerProfile

	if err := db.DB.Preload("User").First(&farmer, farmerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Farmer not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve farmer"})
		}
		return
	}

	ctx.JSON(http.StatusOK, serializeFarmer(farmer))
}

func UpdateFarmer(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	farmerID, err := utils.GetIDParam(ctx, "farmer_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req UpdateFarmerRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var farmer models.FarmerProfile

	if err := db.DB.Preload("User").Where("id = ? AND user_id = ?", farmerID, userID).First(&farmer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Farmer not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve farmer"})
		}
		return
	}

	farmer.FarmName = req.FarmName
	farmer.Location = req.Location
	farmer.ContactNumber = req.ContactNumber
	farmer.Bio = req.Bio

	if err := db.DB.Save(&farmer).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update farmer"})
		return
	}

	ctx.JSON(http.StatusOK, serializeFarmer(farmer))
}

// FarmerProducts lists the authenticated farmer's own products.
func FarmerProducts(ctx *gin.Context) {
	farmer, ok := currentFarmer(ctx)

	if !ok {
		return
	}

	var products []models.Product

	if err := db.DB.Where("farmer_id = ?", farmer.ID).Find(&products).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve products"})
		return
	}

	response := make([]ProductResponse, 0, len(products))

	for _, product := range products {
		response = append(response, serializeProduct(product))
	}

	ctx.JSON(http.StatusOK, response)
}

// FarmerOrders lists orders containing at least one of the farmer's products.
func FarmerOrders(ctx *gin.Context) {
	farmer, ok := currentFarmer(ctx)

	if !ok {
		return
	}

	var orders []models.Order

	err := db.DB.
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("products.farmer_id = ?", farmer.ID).
		Distinct("orders.*").
		Preload("Items.Product").
		Find(&orders).Error

	if err != nil {
		log.Printf("Failed to retrieve farmer orders: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve orders"})
		return
	}

	response := make([]OrderResponse, 0, len(orders))

	for _, order := range orders {
		response = append(response, serializeOrder(order))
	}

	ctx.JSON(http.StatusOK, response)
}
