package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase is an append-only log of stock received. Recording one tops up
// the matching product's on-hand quantity (or seeds the product when it is
// new) in the same transaction.
type Purchase struct {
	ID              int             `gorm:"primary_key" json:"id"`
	ProductCode     string          `gorm:"column:product_id;size:100;index;not null" json:"product_id"`
	ProductName     string          `gorm:"size:255;not null" json:"product_name"`
	HsnCode         string          `gorm:"size:50" json:"hsn_code"`
	ManufactureDate *time.Time      `json:"manufacture_date"`
	ExpiryMonth     string          `gorm:"size:20;not null" json:"expiry_month"`
	Quantity        int             `gorm:"not null;default:0" json:"quantity"`
	BuyPrice        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"buy_price"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	Mrp             decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"mrp"`
	GstPercentage   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"gst_percentage"`
	PurchaseDate    time.Time       `gorm:"not null" json:"purchase_date"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type NewPurchase struct {
	ProductCode     string          `json:"product_id" binding:"required"`
	ProductName     string          `json:"product_name" binding:"required"`
	HsnCode         string          `json:"hsn_code"`
	ManufactureDate *time.Time      `json:"manufacture_date"`
	ExpiryMonth     string          `json:"expiry_month" binding:"required"`
	Quantity        int             `json:"quantity" binding:"required,gt=0"`
	BuyPrice        decimal.Decimal `json:"buy_price"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Mrp             decimal.Decimal `json:"mrp"`
	GstPercentage   decimal.Decimal `json:"gst_percentage"`
	PurchaseDate    time.Time       `json:"purchase_date" binding:"required"`
}
