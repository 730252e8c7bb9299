package models

import (
	"time"
)

// Customer is referenced by bills through a foreign key and is never mutated
// by the billing write paths.
type Customer struct {
	ID           int       `gorm:"primary_key" json:"id"`
	CustomerCode string    `gorm:"column:customer_id;size:100;uniqueIndex;not null" json:"customer_id" binding:"required"`
	VendorCode   *string   `gorm:"size:100;uniqueIndex" json:"vendor_code"`
	Name         string    `gorm:"size:255;not null" json:"name" binding:"required"`
	Email        string    `gorm:"size:255" json:"email"`
	Mobile       string    `gorm:"size:20" json:"mobile"`
	Address      string    `gorm:"type:text" json:"address"`
	State        string    `gorm:"size:100" json:"state"`
	GstNumber    string    `gorm:"size:50" json:"gst_number"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCustomer struct {
	CustomerCode string  `json:"customer_id" binding:"required"`
	VendorCode   *string `json:"vendor_code"`
	Name         string  `json:"name" binding:"required"`
	Email        string  `json:"email"`
	Mobile       string  `json:"mobile"`
	Address      string  `json:"address"`
	State        string  `json:"state"`
	GstNumber    string  `json:"gst_number"`
}
