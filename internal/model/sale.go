package model

import "time"

// Sale is one checkout for a client. TotalAmount always equals the sum of the
// totals of its current items; a sale never exists with zero items.
type Sale struct {
	ID          uint       `json:"id" gorm:"primarykey"`
	ClientID    uint       `json:"client_id" gorm:"not null;index"`
	TotalAmount float64    `json:"total_amount" gorm:"not null"`
	Date        time.Time  `json:"date" gorm:"autoCreateTime;index"`
	Items       []SaleItem `json:"items" gorm:"foreignKey:SaleID"`
}

// SaleItem is one product line within a sale, a stock-decreasing event.
type SaleItem struct {
	ID           uint    `json:"id" gorm:"primarykey"`
	SaleID       uint    `json:"sale_id" gorm:"not null;index"`
	ProductID    uint    `json:"product_id" gorm:"not null;index"`
	Quantity     float64 `json:"quantity" gorm:"not null"`
	PricePerUnit float64 `json:"price_per_unit" gorm:"not null"`
	Total        float64 `json:"total" gorm:"not null"`
}
