package web

import (
	"net/http"

	"bitbucket.org/vyaparsoft/backoffice_backend/models"
	"github.com/gin-gonic/gin"
)

func (h *Handlers) recordPurchase(c *gin.Context) {
	var input models.NewPurchase
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	purchase, err := h.Purchases.RecordPurchase(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, purchase)
}

func (h *Handlers) listPurchases(c *gin.Context) {
	purchases, err := h.Purchases.ListPurchases(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, purchases)
}

func (h *Handlers) deletePurchase(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Purchases.DeletePurchase(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "purchase deleted"})
}
