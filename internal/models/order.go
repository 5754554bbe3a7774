package models

import "gorm.io/gorm"

const (
	OrderPending   = "PENDING"
	OrderCompleted = "COMPLETED"
	OrderCancelled = "CANCELLED"
)

func ValidOrderStatus(status string) bool {
	switch status {
	case OrderPending, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

type Order struct {
	gorm.Model

	CustomerID uint   `gorm:"not null;index"`
	Status     string `gorm:"not null;default:PENDING"`

	// Relationships
	Customer User        `gorm:"foreignKey:CustomerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Items    []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// Total sums the price snapshots of the order's items.
func (o Order) Total() float64 {
	var total float64

	for _, item := range o.Items {
		total += item.Price * float64(item.Quantity)
	}

	return total
}

type OrderItem struct {
	gorm.Model

	OrderID   uint    `gorm:"not null;index"`
	ProductID uint    `gorm:"not null;index"`
	Quantity  uint    `gorm:"not null"`
	Price     float64 `gorm:"type:decimal(10,2);not null"` // unit price at order time

	// Relationships
	Order   Order   `gorm:"foreignKey:OrderID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Product Product `gorm:"foreignKey:ProductID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
