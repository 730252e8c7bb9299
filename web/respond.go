package web

import (
	"errors"
	"net/http"
	"strconv"

	"bitbucket.org/vyaparsoft/backoffice_backend/models"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// respondError maps the failure taxonomy onto HTTP statuses. Anything
// unrecognized is a storage failure and comes back as a 500 the caller may
// retry wholesale.
func respondError(c *gin.Context, err error) {
	var insufficient *models.InsufficientStockError
	var invalidCustomer *models.InvalidCustomerError
	var constraint *models.ConstraintViolationError

	switch {
	case errors.Is(err, models.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &insufficient):
		c.JSON(http.StatusConflict, gin.H{
			"error":        insufficient.Error(),
			"product_id":   insufficient.ProductCode,
			"product_name": insufficient.ProductName,
			"available":    insufficient.Available,
			"requested":    insufficient.Requested,
		})
	case errors.As(err, &invalidCustomer):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidCustomer.Error()})
	case errors.As(err, &constraint):
		c.JSON(http.StatusConflict, gin.H{"error": constraint.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// respondBindError renders a request-binding failure. Field validation
// failures come back as a field -> rule map so the frontend can highlight
// the offending inputs.
func respondBindError(c *gin.Context, err error) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		fields := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
