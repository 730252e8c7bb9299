package purchases

import (
	"context"
	"errors"

	"bitbucket.org/vyaparsoft/backoffice_backend/config"
	"bitbucket.org/vyaparsoft/backoffice_backend/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Service records stock received. A purchase against an existing product
// tops up its quantity; one for an unknown product code seeds the inventory
// row. Either way the purchase log entry and the stock change commit
// together.
type Service struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewService(db *gorm.DB, log *logrus.Logger) *Service {
	return &Service{db: db, log: log}
}

func (s *Service) RecordPurchase(ctx context.Context, input *models.NewPurchase) (*models.Purchase, error) {
	purchase := models.Purchase{
		ProductCode:     input.ProductCode,
		ProductName:     input.ProductName,
		HsnCode:         input.HsnCode,
		ManufactureDate: input.ManufactureDate,
		ExpiryMonth:     input.ExpiryMonth,
		Quantity:        input.Quantity,
		BuyPrice:        input.BuyPrice,
		UnitPrice:       input.UnitPrice,
		Mrp:             input.Mrp,
		GstPercentage:   input.GstPercentage,
		PurchaseDate:    input.PurchaseDate,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&purchase).Error; err != nil {
			return err
		}

		var existing models.Product
		err := tx.Where("product_id = ?", input.ProductCode).First(&existing).Error
		switch {
		case err == nil:
			return tx.Model(&models.Product{}).
				Where("product_id = ?", input.ProductCode).
				UpdateColumn("quantity", gorm.Expr("quantity + ?", input.Quantity)).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(&models.Product{
				ProductCode:     input.ProductCode,
				ProductName:     input.ProductName,
				HsnCode:         input.HsnCode,
				ManufactureDate: input.ManufactureDate,
				ExpiryMonth:     input.ExpiryMonth,
				Quantity:        input.Quantity,
				BuyPrice:        input.BuyPrice,
				UnitPrice:       input.UnitPrice,
				Mrp:             input.Mrp,
				GstPercentage:   input.GstPercentage,
			}).Error
		default:
			return err
		}
	})
	if err != nil {
		config.LogError(s.log, "purchases/service.go", "RecordPurchase", "transaction", input.ProductCode, err)
		return nil, models.ClassifyStorageError(err)
	}
	return &purchase, nil
}

func (s *Service) ListPurchases(ctx context.Context) ([]*models.Purchase, error) {
	var purchases []*models.Purchase
	err := s.db.WithContext(ctx).
		Order("purchase_date DESC, created_at DESC").
		Find(&purchases).Error
	if err != nil {
		return nil, err
	}
	return purchases, nil
}

// DeletePurchase removes only the log entry; it does not back out the stock
// it added (corrections go through the inventory screen).
func (s *Service) DeletePurchase(ctx context.Context, id int) error {
	result := s.db.WithContext(ctx).Delete(&models.Purchase{}, id)
	if result.Error != nil {
		return models.ClassifyStorageError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrRecordNotFound
	}
	return nil
}
