package web

import (
	"net/http"

	"bitbucket.org/vyaparsoft/backoffice_backend/models"
	"github.com/gin-gonic/gin"
)

func (h *Handlers) createBill(c *gin.Context) {
	var input models.NewBill
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	bill, err := h.Coordinator.CreateBill(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bill)
}

func (h *Handlers) updateBill(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input models.NewBill
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	bill, err := h.Coordinator.UpdateBill(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

func (h *Handlers) getBill(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	bill, err := h.Coordinator.GetBill(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

func (h *Handlers) listBills(c *gin.Context) {
	bills, err := h.Coordinator.ListBills(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bills)
}

func (h *Handlers) deleteBill(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Coordinator.DeleteBill(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "bill deleted, inventory restored"})
}

type bulkDeleteRequest struct {
	IDs []int `json:"ids" binding:"required,min=1"`
}

func (h *Handlers) bulkDeleteBills(c *gin.Context) {
	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.Coordinator.BulkDeleteBills(c.Request.Context(), req.IDs); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": len(req.IDs)})
}
