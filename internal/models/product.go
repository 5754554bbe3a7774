package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	CategoryVegetables = "VG"
	CategoryFruits     = "FR"
	CategoryGrains     = "GR"
	CategoryDairy      = "DA"
)

func ValidCategory(category string) bool {
	switch category {
	case CategoryVegetables, CategoryFruits, CategoryGrains, CategoryDairy:
		return true
	}
	return false
}

type Product struct {
	gorm.Model

	FarmerID    uint    `gorm:"not null;index"`
	Name        string  `gorm:"not null"`
	Description string  `gorm:"not null"`
	Price       float64 `gorm:"type:decimal(10,2);not null"`
	Category    string  `gorm:"size:2;not null"` // "VG", "FR", "GR", "DA"
	Quantity    uint    `gorm:"not null"`
	ImageURL    string
	HarvestDate datatypes.Date `gorm:"not null"`
	ExpiryDate  datatypes.Date `gorm:"not null"`

	// Relationships
	Farmer  FarmerProfile   `gorm:"foreignKey:FarmerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Reviews []ProductReview `gorm:"foreignKey:ProductID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
