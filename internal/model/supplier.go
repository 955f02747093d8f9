package model

import "time"

// Supplier represents a stock source for deliveries.
type Supplier struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Phone     string    `json:"phone" gorm:"type:varchar(50)"`
	DateAdded time.Time `json:"date_added" gorm:"autoCreateTime"`
}
