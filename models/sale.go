// sale.go - Defines the Sale and SaleItem models for the database

package models

import "time"

// Sale is recorded by an attendant and never changes afterwards.
type Sale struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	AttendantEmail string     `gorm:"index;not null" json:"attendant_email"`
	Total          int        `gorm:"not null" json:"total"`
	CartItems      []SaleItem `gorm:"foreignKey:SaleID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"cart_items"`
	CreatedAt      time.Time  `json:"created_at"`
}

// SaleItem is one cart line of a sale. Position keeps the submitted order.
type SaleItem struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	SaleID   uint   `gorm:"index;not null" json:"-"`
	Position int    `gorm:"not null" json:"-"`
	Name     string `gorm:"not null" json:"name"`
	Price    int    `gorm:"not null" json:"price"`
	Quantity int    `gorm:"not null" json:"quantity"`
}
