package model

import "time"

// Product represents an item sold over the counter. Stock is the current
// on-hand quantity, derived from deliveries minus sale items. Quantities are
// floats because several products are sold by volume or weight.
type Product struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null;unique"`
	Price     float64   `json:"price" gorm:"not null"`
	Unit      string    `json:"unit" gorm:"type:varchar(50);not null"`
	Stock     float64   `json:"stock" gorm:"not null;default:0"`
	DateAdded time.Time `json:"date_added" gorm:"autoCreateTime"`
}
