package models

import "gorm.io/gorm"

type FarmerProfile struct {
	gorm.Model

	UserID        uint   `gorm:"not null;uniqueIndex"`
	FarmName      string `gorm:"not null"`
	Location      string `gorm:"not null"`
	ContactNumber string
	Bio           string

	// Relationships
	User     User      `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Products []Product `gorm:"foreignKey:FarmerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
