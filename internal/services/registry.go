package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/agrimarket-dev/agrimarket/internal/entityref"
	"github.com/agrimarket-dev/agrimarket/internal/models"
)

// BuildRegistry wires a resolver for every record kind notifications and
// events may reference. Resolvers translate gorm's not-found into a nil
// entity; anything else is an infrastructure failure and propagates.
func BuildRegistry(gdb *gorm.DB) *entityref.Registry {
	registry := entityref.NewRegistry()

	registry.Register("order", func(id uint) (*entityref.Entity, error) {
		var order models.Order

		if err := gdb.First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}

		return &entityref.Entity{
			ID:          order.ID,
			Type:        "order",
			DisplayName: fmt.Sprintf("Order #%d (%s)", order.ID, order.Status),
		}, nil
	})

	registry.Register("product", func(id uint) (*entityref.Entity, error) {
		var product models.Product

		if err := gdb.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}

		return &entityref.Entity{
			ID:          product.ID,
			Type:        "product",
			DisplayName: product.Name,
		}, nil
	})

	registry.Register("farmer", func(id uint) (*entityref.Entity, error) {
		var farmer models.FarmerProfile

		if err := gdb.First(&farmer, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}

		return &entityref.Entity{
			ID:          farmer.ID,
			Type:        "farmer",
			DisplayName: farmer.FarmName,
		}, nil
	})

	registry.Register("review", func(id uint) (*entityref.Entity, error) {
		var review models.ProductReview

		if err := gdb.Preload("Product").First(&review, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}

		return &entityref.Entity{
			ID:          review.ID,
			Type:        "review",
			DisplayName: fmt.Sprintf("%d-star review of %s", review.Rating, review.Product.Name),
		}, nil
	})

	return registry
}
