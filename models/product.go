package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the inventory record. Quantity is the on-hand stock and is
// mutated only through the inventory ledger's reserve/release operations;
// it never goes below zero.
type Product struct {
	ID              int             `gorm:"primary_key" json:"id"`
	ProductCode     string          `gorm:"column:product_id;size:100;uniqueIndex;not null" json:"product_id" binding:"required"`
	ProductName     string          `gorm:"size:255;not null" json:"product_name" binding:"required"`
	HsnCode         string          `gorm:"size:50" json:"hsn_code"`
	ManufactureDate *time.Time      `json:"manufacture_date"`
	ExpiryMonth     string          `gorm:"size:20;not null" json:"expiry_month" binding:"required"`
	Quantity        int             `gorm:"not null;default:0" json:"quantity"`
	BuyPrice        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"buy_price"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	Mrp             decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"mrp"`
	GstPercentage   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"gst_percentage"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProduct struct {
	ProductCode     string          `json:"product_id" binding:"required"`
	ProductName     string          `json:"product_name" binding:"required"`
	HsnCode         string          `json:"hsn_code"`
	ManufactureDate *time.Time      `json:"manufacture_date"`
	ExpiryMonth     string          `json:"expiry_month" binding:"required"`
	Quantity        int             `json:"quantity" binding:"gte=0"`
	BuyPrice        decimal.Decimal `json:"buy_price"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Mrp             decimal.Decimal `json:"mrp"`
	GstPercentage   decimal.Decimal `json:"gst_percentage"`
}
