package inventory

import (
	"context"
	"errors"

	"bitbucket.org/vyaparsoft/backoffice_backend/config"
	"bitbucket.org/vyaparsoft/backoffice_backend/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Service is the product CRUD collaborator. It owns product creation and
// deletion; stock quantity changes after creation go through the Ledger (for
// billing) or the purchases service (for stock received).
type Service struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewService(db *gorm.DB, log *logrus.Logger) *Service {
	return &Service{db: db, log: log}
}

func (s *Service) CreateProduct(ctx context.Context, input *models.NewProduct) (*models.Product, error) {
	var existing models.Product
	err := s.db.WithContext(ctx).Where("product_id = ?", input.ProductCode).First(&existing).Error
	if err == nil {
		return nil, &models.ConstraintViolationError{Constraint: "unique", Detail: "product id already exists"}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	product := models.Product{
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
	}
	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		config.LogError(s.log, "inventory/service.go", "CreateProduct", "db.Create", input.ProductCode, err)
		return nil, models.ClassifyStorageError(err)
	}
	return &product, nil
}

// UpdateProduct replaces the product's descriptive and price fields. The
// quantity column is also writable here to match the original inventory
// screen, which lets back-office staff correct stock counts directly.
func (s *Service) UpdateProduct(ctx context.Context, id int, input *models.NewProduct) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRecordNotFound
		}
		return nil, err
	}

	// product code must stay unique across the other rows
	var clash models.Product
	err := s.db.WithContext(ctx).Where("product_id = ? AND id <> ?", input.ProductCode, id).First(&clash).Error
	if err == nil {
		return nil, &models.ConstraintViolationError{Constraint: "unique", Detail: "product id already exists"}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	updates := map[string]interface{}{
		"product_id":       input.ProductCode,
		"product_name":     input.ProductName,
		"hsn_code":         input.HsnCode,
		"manufacture_date": input.ManufactureDate,
		"expiry_month":     input.ExpiryMonth,
		"quantity":         input.Quantity,
		"buy_price":        input.BuyPrice,
		"unit_price":       input.UnitPrice,
		"mrp":              input.Mrp,
		"gst_percentage":   input.GstPercentage,
	}
	if err := s.db.WithContext(ctx).Model(&product).Updates(updates).Error; err != nil {
		config.LogError(s.log, "inventory/service.go", "UpdateProduct", "db.Updates", id, err)
		return nil, models.ClassifyStorageError(err)
	}
	return &product, nil
}

func (s *Service) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRecordNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]*models.Product, error) {
	var products []*models.Product
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// DeleteProduct removes an inventory row. A product still referenced by
// live bill items fails with a constraint violation rather than orphaning
// the bill's reference.
func (s *Service) DeleteProduct(ctx context.Context, id int) error {
	result := s.db.WithContext(ctx).Delete(&models.Product{}, id)
	if result.Error != nil {
		return models.ClassifyStorageError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrRecordNotFound
	}
	return nil
}

// DeleteProducts removes a set of inventory rows in one transaction; any
// failure (missing id, referenced product) rolls the whole batch back.
func (s *Service) DeleteProducts(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Product{}, ids)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != int64(len(ids)) {
			return models.ErrRecordNotFound
		}
		return nil
	})
	return models.ClassifyStorageError(err)
}
