package web

import (
	"errors"
	"net/http"

	"bitbucket.org/vyaparsoft/backoffice_backend/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (h *Handlers) getSellerInfo(c *gin.Context) {
	var seller models.SellerInfo
	if err := h.DB.WithContext(c.Request.Context()).First(&seller).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, models.ErrRecordNotFound)
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, seller)
}

func (h *Handlers) updateSellerInfo(c *gin.Context) {
	var input models.UpdateSellerInfo
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	var seller models.SellerInfo
	db := h.DB.WithContext(c.Request.Context())
	if err := db.First(&seller).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, models.ErrRecordNotFound)
			return
		}
		respondError(c, err)
		return
	}
	updates := map[string]interface{}{
		"seller_name":    input.SellerName,
		"address":        input.Address,
		"email":          input.Email,
		"mobile":         input.Mobile,
		"state":          input.State,
		"gst_number":     input.GstNumber,
		"account_name":   input.AccountName,
		"account_number": input.AccountNumber,
		"ifsc_code":      input.IfscCode,
		"account_type":   input.AccountType,
		"branch":         input.Branch,
	}
	if err := db.Model(&seller).Updates(updates).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, seller)
}
