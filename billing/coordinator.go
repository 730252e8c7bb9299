package billing

import (
	"context"
	"fmt"

	"bitbucket.org/vyaparsoft/backoffice_backend/config"
	"bitbucket.org/vyaparsoft/backoffice_backend/inventory"
	"bitbucket.org/vyaparsoft/backoffice_backend/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Coordinator orchestrates every bill write as one atomic unit of work
// spanning the bill tables and the inventory ledger. It is the sole
// enforcer of the stock invariant: between transactions every product's
// quantity equals its no-bills stock minus the quantities on live bill
// items.
type Coordinator struct {
	db     *gorm.DB
	ledger *inventory.Ledger
	repo   *Repository
	log    *logrus.Logger
}

func NewCoordinator(db *gorm.DB, ledger *inventory.Ledger, repo *Repository, log *logrus.Logger) *Coordinator {
	return &Coordinator{db: db, ledger: ledger, repo: repo, log: log}
}

// validateAndSnapshotItems locks every referenced product row, checks stock
// sufficiency for the whole candidate set before any quantity is mutated,
// and builds priced line items from the products' current name/price/GST
// (the snapshot that keeps historical bills stable).
//
// The reserved map accumulates quantities per product so that duplicate
// lines for one product cannot over-consume stock that only covers them
// individually.
func (c *Coordinator) validateAndSnapshotItems(tx *gorm.DB, lines []models.NewBillItem) ([]models.BillItem, error) {
	reserved := make(map[int]int)
	items := make([]models.BillItem, 0, len(lines))
	for _, line := range lines {
		product, err := c.ledger.LockProduct(tx, line.ProductID)
		if err != nil {
			return nil, err
		}
		available := product.Quantity - reserved[product.ID]
		if available < line.Quantity {
			return nil, &models.InsufficientStockError{
				ProductCode: product.ProductCode,
				ProductName: product.ProductName,
				Available:   available,
				Requested:   line.Quantity,
			}
		}
		reserved[product.ID] += line.Quantity

		item := models.BillItem{
			ProductID:     product.ID,
			ProductName:   product.ProductName,
			Quantity:      line.Quantity,
			UnitPrice:     product.UnitPrice,
			GstPercentage: product.GstPercentage,
		}
		models.PriceLineItem(&item)
		items = append(items, item)
	}
	return items, nil
}

func (c *Coordinator) reserveItems(tx *gorm.DB, items []models.BillItem) error {
	for _, item := range items {
		if err := c.ledger.Reserve(tx, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (c *Coordinator) releaseItems(tx *gorm.DB, items []models.BillItem) error {
	for _, item := range items {
		if err := c.ledger.Release(tx, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func validateBillInput(input *models.NewBill) error {
	if len(input.Items) == 0 {
		return fmt.Errorf("a bill needs at least one item")
	}
	if input.PaymentStatus == "" {
		input.PaymentStatus = models.PaymentStatusPending
	}
	if !input.PaymentStatus.Valid() {
		return fmt.Errorf("invalid payment status %q", input.PaymentStatus)
	}
	return nil
}

// CreateBill validates stock for every candidate item, reserves it, prices
// the bill from the product snapshots and persists header plus items — all
// inside one transaction. Any failure rolls the whole operation back.
func (c *Coordinator) CreateBill(ctx context.Context, input *models.NewBill) (*models.Bill, error) {
	if err := validateBillInput(input); err != nil {
		return nil, err
	}

	var bill *models.Bill
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items, err := c.validateAndSnapshotItems(tx, input.Items)
		if err != nil {
			return err
		}
		if err := c.reserveItems(tx, items); err != nil {
			return err
		}

		subtotal, gst, total := models.TotalBill(items)
		billNumber, err := c.repo.NextBillNumber(tx)
		if err != nil {
			return err
		}
		bill = &models.Bill{
			BillNumber:    billNumber,
			CustomerID:    input.CustomerID,
			BillDate:      input.BillDate,
			Subtotal:      subtotal,
			GstAmount:     gst,
			TotalAmount:   total,
			PaymentStatus: input.PaymentStatus,
			PaymentMethod: input.PaymentMethod,
			Notes:         input.Notes,
		}
		if _, err := c.repo.CreateBill(tx, bill, items); err != nil {
			if models.IsCustomerFKViolation(err) {
				return &models.InvalidCustomerError{CustomerID: input.CustomerID}
			}
			return models.ClassifyStorageError(err)
		}
		return nil
	})
	if err != nil {
		c.logFailure("CreateBill", input.CustomerID, err)
		return nil, err
	}
	return bill, nil
}

// UpdateBill replaces a bill wholesale. The ordering is deliberate and
// matches the delete-side compensation: first restore stock for every
// existing item, then validate the new set against the restored ledger, so
// an edit may re-request the very stock the bill already holds. A failure
// anywhere rolls back both the restore and the replacement.
func (c *Coordinator) UpdateBill(ctx context.Context, billID int, input *models.NewBill) (*models.Bill, error) {
	if err := validateBillInput(input); err != nil {
		return nil, err
	}

	var bill *models.Bill
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := c.repo.GetBillWithItems(tx, billID)
		if err != nil {
			return err
		}
		if err := c.releaseItems(tx, existing.Items); err != nil {
			return err
		}

		items, err := c.validateAndSnapshotItems(tx, input.Items)
		if err != nil {
			return err
		}
		if err := c.reserveItems(tx, items); err != nil {
			return err
		}

		subtotal, gst, total := models.TotalBill(items)
		bill = &models.Bill{
			ID:            existing.ID,
			BillNumber:    existing.BillNumber,
			CustomerID:    input.CustomerID,
			BillDate:      input.BillDate,
			Subtotal:      subtotal,
			GstAmount:     gst,
			TotalAmount:   total,
			PaymentStatus: input.PaymentStatus,
			PaymentMethod: input.PaymentMethod,
			Notes:         input.Notes,
		}
		if err := c.repo.UpdateHeader(tx, bill); err != nil {
			if models.IsCustomerFKViolation(err) {
				return &models.InvalidCustomerError{CustomerID: input.CustomerID}
			}
			return models.ClassifyStorageError(err)
		}
		if err := c.repo.ReplaceItems(tx, billID, items); err != nil {
			return models.ClassifyStorageError(err)
		}
		bill.Items = items
		return nil
	})
	if err != nil {
		c.logFailure("UpdateBill", billID, err)
		return nil, err
	}
	return bill, nil
}

// deleteBillTx releases every item's stock and removes the bill inside the
// caller's transaction.
func (c *Coordinator) deleteBillTx(tx *gorm.DB, billID int) error {
	existing, err := c.repo.GetBillWithItems(tx, billID)
	if err != nil {
		return err
	}
	if err := c.releaseItems(tx, existing.Items); err != nil {
		return err
	}
	if err := c.repo.DeleteBill(tx, billID); err != nil {
		return models.ClassifyStorageError(err)
	}
	return nil
}

// DeleteBill restores the bill's reserved stock and deletes header and
// items as one transaction.
func (c *Coordinator) DeleteBill(ctx context.Context, billID int) error {
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return c.deleteBillTx(tx, billID)
	})
	if err != nil {
		c.logFailure("DeleteBill", billID, err)
	}
	return err
}

// BulkDeleteBills deletes a set of bills under a single transaction: either
// every bill is gone and every quantity restored, or nothing changed.
func (c *Coordinator) BulkDeleteBills(ctx context.Context, billIDs []int) error {
	if len(billIDs) == 0 {
		return nil
	}
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range billIDs {
			if err := c.deleteBillTx(tx, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.logFailure("BulkDeleteBills", billIDs, err)
	}
	return err
}

func (c *Coordinator) GetBill(ctx context.Context, billID int) (*models.Bill, error) {
	return c.repo.GetBillWithItems(c.db.WithContext(ctx), billID)
}

func (c *Coordinator) ListBills(ctx context.Context) ([]*models.Bill, error) {
	return c.repo.ListBills(c.db.WithContext(ctx))
}

func (c *Coordinator) logFailure(funcName string, data any, err error) {
	if c.log == nil {
		return
	}
	config.LogError(c.log, "billing/coordinator.go", funcName, "transaction", data, err)
}
