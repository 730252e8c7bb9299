package inventory

import (
	"context"
	"errors"
	"fmt"

	"bitbucket.org/vyaparsoft/backoffice_backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ledger owns product stock quantities. Reserve and Release are the only
// code paths that mutate Product.Quantity; both run against the transaction
// handle the caller is committing under, so a rolled-back unit of work
// leaves the ledger untouched.
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Lookup returns the current product row or models.ErrRecordNotFound.
func (l *Ledger) Lookup(ctx context.Context, productID int) (*models.Product, error) {
	var product models.Product
	if err := l.db.WithContext(ctx).First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRecordNotFound
		}
		return nil, err
	}
	return &product, nil
}

// LockProduct fetches a product row under SELECT ... FOR UPDATE so that
// concurrent reservation decisions for the same product serialize on the
// row lock for the rest of the transaction.
func (l *Ledger) LockProduct(tx *gorm.DB, productID int) (*models.Product, error) {
	var product models.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRecordNotFound
		}
		return nil, err
	}
	return &product, nil
}

// Reserve atomically checks sufficiency and decrements the product's
// quantity inside tx. On insufficient stock it makes no change and returns
// a typed InsufficientStockError carrying the available and requested
// quantities.
func (l *Ledger) Reserve(tx *gorm.DB, productID int, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("reserve qty must be positive, got %d", qty)
	}
	product, err := l.LockProduct(tx, productID)
	if err != nil {
		return err
	}
	if product.Quantity < qty {
		return &models.InsufficientStockError{
			ProductCode: product.ProductCode,
			ProductName: product.ProductName,
			Available:   product.Quantity,
			Requested:   qty,
		}
	}
	return tx.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty)).Error
}

// Release atomically restores previously reserved stock inside tx. The
// schema carries no upper bound, so release never fails on quantity grounds;
// callers are responsible for releasing exactly once per reservation.
func (l *Ledger) Release(tx *gorm.DB, productID int, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("release qty must be positive, got %d", qty)
	}
	result := tx.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrRecordNotFound
	}
	return nil
}
