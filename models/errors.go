package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// ErrRecordNotFound is returned when a referenced bill, product or customer
// does not exist. Callers should not retry.
var ErrRecordNotFound = errors.New("record not found")

// InsufficientStockError reports a failed reservation. The whole unit of
// work is rolled back; the caller must resubmit with adjusted quantities.
type InsufficientStockError struct {
	ProductCode string `json:"product_id"`
	ProductName string `json:"product_name"`
	Available   int    `json:"available"`
	Requested   int    `json:"requested"`
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (product_id=%s, available=%d, requested=%d)",
		e.ProductName, e.ProductCode, e.Available, e.Requested)
}

// InvalidCustomerError is the surfaced form of a foreign-key violation on a
// bill's customer reference.
type InvalidCustomerError struct {
	CustomerID int `json:"customer_id"`
}

func (e *InvalidCustomerError) Error() string {
	return fmt.Sprintf("invalid customer reference (customer_id=%d)", e.CustomerID)
}

// ConstraintViolationError covers the remaining uniqueness/foreign-key
// failures from the store (duplicate product code, concurrently deleted
// product still referenced, and so on).
type ConstraintViolationError struct {
	Constraint string `json:"constraint"`
	Detail     string `json:"detail"`
}

func (e *ConstraintViolationError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("constraint violation (%s): %s", e.Constraint, e.Detail)
	}
	return fmt.Sprintf("constraint violation: %s", e.Detail)
}

const (
	mysqlErrDuplicateEntry   = 1062
	mysqlErrRowIsReferenced  = 1451
	mysqlErrNoReferencedRow  = 1452
	mysqlErrNoReferencedRow2 = 1216
)

// ClassifyStorageError maps raw store errors onto the failure taxonomy.
// Unrecognized errors pass through untouched and count as generic storage
// failures (the only class a caller may retry wholesale).
func ClassifyStorageError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlErrDuplicateEntry:
			return &ConstraintViolationError{Constraint: "unique", Detail: myErr.Message}
		case mysqlErrRowIsReferenced, mysqlErrNoReferencedRow, mysqlErrNoReferencedRow2:
			return &ConstraintViolationError{Constraint: "foreign key", Detail: myErr.Message}
		}
	}
	return err
}

// IsCustomerFKViolation reports whether err is a foreign-key failure on the
// bills→customers reference, so the coordinator can surface it as
// InvalidCustomerError instead of a generic constraint violation.
func IsCustomerFKViolation(err error) bool {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return false
	}
	if myErr.Number != mysqlErrNoReferencedRow && myErr.Number != mysqlErrNoReferencedRow2 {
		return false
	}
	return strings.Contains(strings.ToLower(myErr.Message), "customer")
}
