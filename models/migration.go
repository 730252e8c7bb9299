package models

import (
	"gorm.io/gorm"
)

// MigrateTable runs AutoMigrate for every table in dependency order
// (customers and products before bills so the bill foreign keys resolve).
func MigrateTable(db *gorm.DB) error {
	return db.AutoMigrate(
		&Customer{},
		&Product{},
		&Bill{}, &BillItem{},
		&Purchase{},
		&SellerInfo{},
	)
}
