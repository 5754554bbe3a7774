package models

import "gorm.io/gorm"

type ProductReview struct {
	gorm.Model

	ProductID uint `gorm:"not null;index"`
	UserID    uint `gorm:"not null;index"`
	Rating    int  `gorm:"not null"` // 1 to 5
	Comment   string

	// Relationships
	Product Product `gorm:"foreignKey:ProductID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
