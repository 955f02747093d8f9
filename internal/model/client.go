package model

import "time"

// Client represents a buyer. Phone is optional.
type Client struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Phone     string    `json:"phone" gorm:"type:varchar(50)"`
	DateAdded time.Time `json:"date_added" gorm:"autoCreateTime"`
}
