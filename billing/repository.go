package billing

import (
	"errors"
	"fmt"

	"bitbucket.org/vyaparsoft/backoffice_backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is plain bill persistence. No business validation happens
// here; stock checks and total calculation belong to the Coordinator.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// NextBillNumber generates the next number in the ST<N> series. It locks
// the latest bill row so two creates in flight cannot mint the same number.
func (r *Repository) NextBillNumber(tx *gorm.DB) (string, error) {
	var last models.Bill
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Order("id DESC").
		Limit(1).
		Find(&last).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ST%d", last.ID+1), nil
}

// CreateBill inserts the header and its items inside tx and returns the new
// bill id. The items' BillID is filled in here.
func (r *Repository) CreateBill(tx *gorm.DB, bill *models.Bill, items []models.BillItem) (int, error) {
	if err := tx.Omit("Items", "Customer").Create(bill).Error; err != nil {
		return 0, err
	}
	for i := range items {
		items[i].BillID = bill.ID
	}
	if len(items) > 0 {
		if err := tx.Create(&items).Error; err != nil {
			return 0, err
		}
	}
	bill.Items = items
	return bill.ID, nil
}

// ReplaceItems deletes every existing item of the bill and inserts the new
// set. The bill is never patched item-by-item.
func (r *Repository) ReplaceItems(tx *gorm.DB, billID int, items []models.BillItem) error {
	if err := tx.Where("bill_id = ?", billID).Delete(&models.BillItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].ID = 0
		items[i].BillID = billID
	}
	if len(items) > 0 {
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
	}
	return nil
}

// UpdateHeader rewrites the header fields and recomputed totals of a bill.
func (r *Repository) UpdateHeader(tx *gorm.DB, bill *models.Bill) error {
	return tx.Model(&models.Bill{}).Where("id = ?", bill.ID).Updates(map[string]interface{}{
		"customer_id":    bill.CustomerID,
		"bill_date":      bill.BillDate,
		"subtotal":       bill.Subtotal,
		"gst_amount":     bill.GstAmount,
		"total_amount":   bill.TotalAmount,
		"payment_status": bill.PaymentStatus,
		"payment_method": bill.PaymentMethod,
		"notes":          bill.Notes,
	}).Error
}

// GetBillWithItems loads the header and items, or models.ErrRecordNotFound.
func (r *Repository) GetBillWithItems(tx *gorm.DB, billID int) (*models.Bill, error) {
	var bill models.Bill
	err := tx.Preload("Items").Preload("Customer").First(&bill, billID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRecordNotFound
		}
		return nil, err
	}
	return &bill, nil
}

// DeleteBill removes the header and, as a cascade, all of its items.
func (r *Repository) DeleteBill(tx *gorm.DB, billID int) error {
	if err := tx.Where("bill_id = ?", billID).Delete(&models.BillItem{}).Error; err != nil {
		return err
	}
	result := tx.Delete(&models.Bill{}, billID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrRecordNotFound
	}
	return nil
}

// ListBills returns all bill headers with customers preloaded, newest first.
func (r *Repository) ListBills(tx *gorm.DB) ([]*models.Bill, error) {
	var bills []*models.Bill
	err := tx.Preload("Items").Preload("Customer").Order("created_at DESC").Find(&bills).Error
	if err != nil {
		return nil, err
	}
	return bills, nil
}
