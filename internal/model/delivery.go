package model

import "time"

// Delivery is one stock-increasing event from a supplier.
// TotalCost is the quantity times the per-unit price, stored at record time.
type Delivery struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	SupplierID   uint      `json:"supplier_id" gorm:"not null;index"`
	ProductID    uint      `json:"product_id" gorm:"not null;index"`
	Quantity     float64   `json:"quantity" gorm:"not null"`
	PricePerUnit float64   `json:"price_per_unit" gorm:"not null"`
	TotalCost    float64   `json:"total_cost" gorm:"not null"`
	Date         time.Time `json:"date" gorm:"autoCreateTime;index"`
}
