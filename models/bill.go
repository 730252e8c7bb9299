package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill is the header of a customer bill. Its totals are derived from the
// items and recomputed on every write; the item set is only ever replaced
// wholesale, never patched in place.
type Bill struct {
	ID            int             `gorm:"primary_key" json:"id"`
	BillNumber    string          `gorm:"size:50;uniqueIndex;not null" json:"bill_number"`
	CustomerID    int             `gorm:"index;not null" json:"customer_id"`
	Customer      *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	BillDate      time.Time       `gorm:"not null" json:"bill_date"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"subtotal"`
	GstAmount     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"gst_amount"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	PaymentStatus PaymentStatus   `gorm:"type:enum('Pending','Paid','Cancelled');default:'Pending'" json:"payment_status"`
	PaymentMethod PaymentMethod   `gorm:"size:50" json:"payment_method"`
	Notes         string          `gorm:"type:text" json:"notes"`
	Items         []BillItem      `gorm:"foreignKey:BillID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// BillItem is a line item. ProductID is a point-in-time reference; the
// name, price and GST columns are snapshots taken at reservation time so a
// historical bill stays stable when the product is edited later.
type BillItem struct {
	ID            int             `gorm:"primary_key" json:"id"`
	BillID        int             `gorm:"index;not null" json:"bill_id"`
	ProductID     int             `gorm:"index;not null" json:"product_id"`
	Product       *Product        `gorm:"foreignKey:ProductID" json:"-"`
	ProductName   string          `gorm:"size:255;not null" json:"product_name"`
	Quantity      int             `gorm:"not null;default:1" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	GstPercentage decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"gst_percentage"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"subtotal"`
	GstAmount     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"gst_amount"`
	Total         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// NewBill is the write-side input for creating or replacing a bill.
type NewBill struct {
	CustomerID    int           `json:"customer_id" binding:"required"`
	BillDate      time.Time     `json:"bill_date" binding:"required"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Notes         string        `json:"notes"`
	Items         []NewBillItem `json:"items" binding:"required,min=1,dive"`
}

// NewBillItem names a product and a quantity; name, price and GST are
// resolved from the product at reservation time, not supplied by the caller.
type NewBillItem struct {
	ProductID int `json:"product_id" binding:"required"`
	Quantity  int `json:"quantity" binding:"required,gt=0"`
}
