package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// SellerInfo is a single-row table holding the business' own details used on
// printed bills. A default row is seeded on first migration.
type SellerInfo struct {
	ID            int       `gorm:"primary_key" json:"id"`
	SellerName    string    `gorm:"size:255;not null" json:"seller_name"`
	Address       string    `gorm:"type:text" json:"address"`
	Email         string    `gorm:"size:255" json:"email"`
	Mobile        string    `gorm:"size:20" json:"mobile"`
	State         string    `gorm:"size:100" json:"state"`
	GstNumber     string    `gorm:"size:50" json:"gst_number"`
	AccountName   string    `gorm:"size:255" json:"account_name"`
	AccountNumber string    `gorm:"size:50" json:"account_number"`
	IfscCode      string    `gorm:"size:20" json:"ifsc_code"`
	AccountType   string    `gorm:"size:50" json:"account_type"`
	Branch        string    `gorm:"size:255" json:"branch"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type UpdateSellerInfo struct {
	SellerName    string `json:"seller_name" binding:"required"`
	Address       string `json:"address"`
	Email         string `json:"email"`
	Mobile        string `json:"mobile"`
	State         string `json:"state"`
	GstNumber     string `json:"gst_number"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	IfscCode      string `json:"ifsc_code"`
	AccountType   string `json:"account_type"`
	Branch        string `json:"branch"`
}

// SeedSellerInfo inserts the placeholder seller row if the table is empty.
func SeedSellerInfo(db *gorm.DB) error {
	var existing SellerInfo
	err := db.First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return db.Create(&SellerInfo{
		SellerName:    "Your Company Name",
		Address:       "Your Address",
		Email:         "email@example.com",
		Mobile:        "1234567890",
		GstNumber:     "GST123456",
		AccountName:   "Account Holder Name",
		AccountNumber: "1234567890",
		IfscCode:      "IFSC0001234",
		AccountType:   "Savings",
		Branch:        "Main Branch",
	}).Error
}
