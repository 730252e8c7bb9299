package customers

import (
	"context"
	"errors"

	"bitbucket.org/vyaparsoft/backoffice_backend/config"
	"bitbucket.org/vyaparsoft/backoffice_backend/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Service is the customer CRUD collaborator. Customers are referenced by
// bills but never mutated by billing.
type Service struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewService(db *gorm.DB, log *logrus.Logger) *Service {
	return &Service{db: db, log: log}
}

func (s *Service) checkUnique(ctx context.Context, input *models.NewCustomer, excludeID int) error {
	var clash models.Customer
	err := s.db.WithContext(ctx).
		Where("customer_id = ? AND id <> ?", input.CustomerCode, excludeID).
		First(&clash).Error
	if err == nil {
		return &models.ConstraintViolationError{Constraint: "unique", Detail: "customer id already exists"}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if input.VendorCode != nil && *input.VendorCode != "" {
		err = s.db.WithContext(ctx).
			Where("vendor_code = ? AND id <> ?", *input.VendorCode, excludeID).
			First(&clash).Error
		if err == nil {
			return &models.ConstraintViolationError{Constraint: "unique", Detail: "vendor code already exists"}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	return nil
}

func (s *Service) CreateCustomer(ctx context.Context, input *models.NewCustomer) (*models.Customer, error) {
	if err := s.checkUnique(ctx, input, 0); err != nil {
		return nil, err
	}
	customer := models.Customer{
		CustomerCode: input.CustomerCode,
		VendorCode:   normalizeVendorCode(input.VendorCode),
		Name:         input.Name,
		Email:        input.Email,
		Mobile:       input.Mobile,
		Address:      input.Address,
		State:        input.State,
		GstNumber:    input.GstNumber,
	}
	if err := s.db.WithContext(ctx).Create(&customer).Error; err != nil {
		config.LogError(s.log, "customers/service.go", "CreateCustomer", "db.Create", input.CustomerCode, err)
		return nil, models.ClassifyStorageError(err)
	}
	return &customer, nil
}

func (s *Service) UpdateCustomer(ctx context.Context, id int, input *models.NewCustomer) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRecordNotFound
		}
		return nil, err
	}
	if err := s.checkUnique(ctx, input, id); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"customer_id": input.CustomerCode,
		"vendor_code": normalizeVendorCode(input.VendorCode),
		"name":        input.Name,
		"email":       input.Email,
		"mobile":      input.Mobile,
		"address":     input.Address,
		"state":       input.State,
		"gst_number":  input.GstNumber,
	}
	if err := s.db.WithContext(ctx).Model(&customer).Updates(updates).Error; err != nil {
		config.LogError(s.log, "customers/service.go", "UpdateCustomer", "db.Updates", id, err)
		return nil, models.ClassifyStorageError(err)
	}
	return &customer, nil
}

func (s *Service) GetCustomer(ctx context.Context, id int) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRecordNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// ListCustomers returns all customers, optionally filtered by a search term
// matched against customer id, vendor code and name.
func (s *Service) ListCustomers(ctx context.Context, search string) ([]*models.Customer, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("customer_id LIKE ? OR vendor_code LIKE ? OR name LIKE ?", like, like, like)
	}
	var result []*models.Customer
	if err := query.Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteCustomer removes a customer. One with live bills fails with a
// foreign-key constraint violation.
func (s *Service) DeleteCustomer(ctx context.Context, id int) error {
	result := s.db.WithContext(ctx).Delete(&models.Customer{}, id)
	if result.Error != nil {
		return models.ClassifyStorageError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrRecordNotFound
	}
	return nil
}

// empty vendor codes are stored as NULL so the unique index ignores them
func normalizeVendorCode(code *string) *string {
	if code == nil || *code == "" {
		return nil
	}
	return code
}
