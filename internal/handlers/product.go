package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/agrimarket-dev/agrimarket/db"
	"github.com/agrimarket-dev/agrimarket/internal/models"
	"github.com/agrimarket-dev/agrimarket/internal/utils"
)

type ProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Category    string  `json:"category" binding:"required"`
	Quantity    uint    `json:"quantity"`
	ImageURL    string  `json:"image_url"`
	HarvestDate string  `json:"harvest_date" binding:"required"` // YYYY-MM-DD
	ExpiryDate  string  `json:"expiry_date" binding:"required"`  // YYYY-MM-DD
}

type ProductResponse struct {
	ID          uint      `json:"id"`
	FarmerID    uint      `json:"farmer_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Quantity    uint      `json:"quantity"`
	ImageURL    string    `json:"image_url"`
	HarvestDate string    `json:"harvest_date"`
	ExpiryDate  string    `json:"expiry_date"`
	CreatedAt   time.Time `json:"created_at"`
}

func serializeProduct(product models.Product) ProductResponse {
	return ProductResponse{
		ID:          product.ID,
		FarmerID:    product.FarmerID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Category:    product.Category,
		Quantity:    product.Quantity,
		ImageURL:    product.ImageURL,
		HarvestDate: time.Time(product.HarvestDate).Format("2006-01-02"),
		ExpiryDate:  time.Time(product.ExpiryDate).Format("2006-01-02"),
		CreatedAt:   product.CreatedAt,
	}
}

func parseDate(ctx *gin.Context, field, value string) (datatypes.Date, bool) {
	t, err := time.Parse("2006-01-02", value)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + field + ": must be YYYY-MM-DD"})
		return datatypes.Date{}, false
	}

	return datatypes.Date(t), true
}

func ListProducts(ctx *gin.Context) {
	query := db.DB

	if category := ctx.Query("category"); category != "" {
		if !models.ValidCategory(category) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
			return
		}
		query = query.Where("category = ?", category)
	}

	var products []models.Product

	if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve products"})
		return
	}

	response := make([]ProductResponse, 0, len(products))

	for _, product := range products {
		response = append(response, serializeProduct(product))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetProduct(ctx *gin.Context) {
	productID, err := utils.GetIDParam(ctx, "product_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var product models.Product

	if err := db.DB.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
		}
		return
	}

	ctx.JSON(http.StatusOK, serializeProduct(product))
}

func CreateProduct(ctx *gin.Context) {
	farmer, ok := currentFarmer(ctx)

	if !ok {
		return
	}

	var req ProductRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidCategory(req.Category) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}

	harvestDate, ok := parseDate(ctx, "harvest_date", req.HarvestDate)
	if !ok {
		return
	}

	expiryDate, ok := parseDate(ctx, "expiry_date", req.ExpiryDate)
	if !ok {
		return
	}

	product := models.Product{
		FarmerID:    farmer.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Quantity:    req.Quantity,
		ImageURL:    req.ImageURL,
		HarvestDate: harvestDate,
		ExpiryDate:  expiryDate,
	}

	if err := db.DB.Create(&product).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	ctx.JSON(http.StatusCreated, serializeProduct(product))
}

func UpdateProduct(ctx *gin.Context) {
	farmer, ok := currentFarmer(ctx)

	if !ok {
		return
	}

	productID, err := utils.GetIDParam(ctx, "product_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req ProductRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidCategory(req.Category) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}

	harvestDate, ok := parseDate(ctx, "harvest_date", req.HarvestDate)
	if !ok {
		return
	}

	expiryDate, ok := parseDate(ctx, "expiry_date", req.ExpiryDate)
	if !ok {
		return
	}

	var product models.Product

	if err := db.DB.Where("id = ? AND farmer_id = ?", productID, farmer.ID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
		}
		return
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.Category = req.Category
	product.Quantity = req.Quantity
	product.ImageURL = req.ImageURL
	product.HarvestDate = harvestDate
	product.ExpiryDate = expiryDate

	if err := db.DB.Save(&product).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	ctx.JSON(http.StatusOK, serializeProduct(product))
}

func DeleteProduct(ctx *gin.Context) {
	farmer, ok := currentFarmer(ctx)

	if !ok {
		return
	}

	productID, err := utils.GetIDParam(ctx, "product_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := db.DB.Where("id = ? AND farmer_id = ?", productID, farmer.ID).Delete(&models.Product{})

	if result.Error != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	if result.RowsAffected == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
