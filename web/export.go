package web

import (
	"fmt"

	"bitbucket.org/vyaparsoft/backoffice_backend/models"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// exportBills streams the active bills register (cancelled bills excluded)
// as a spreadsheet attachment, one row per line item.
func (h *Handlers) exportBills(c *gin.Context) {
	bills, err := h.Coordinator.ListBills(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	headers := []string{
		"BillNumber", "BillDate", "CustomerName", "CustomerGST",
		"PaymentStatus", "PaymentMethod", "ProductName", "Quantity",
		"UnitPrice", "GstPercentage", "ItemTotal", "BillTotal",
	}
	for i, name := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue("Sheet1", cell, name)
	}

	rowNo := 2
	setRow := func(values []interface{}) {
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, rowNo)
			f.SetCellValue("Sheet1", cell, v)
		}
		rowNo++
	}

	for _, b := range bills {
		if b.PaymentStatus == models.PaymentStatusCancelled {
			continue
		}
		customerName, customerGST := "", ""
		if b.Customer != nil {
			customerName = b.Customer.Name
			customerGST = b.Customer.GstNumber
		}
		base := []interface{}{
			b.BillNumber,
			b.BillDate.Format("2006-01-02"),
			customerName,
			customerGST,
			string(b.PaymentStatus),
			string(b.PaymentMethod),
		}
		if len(b.Items) == 0 {
			setRow(append(base, "", "", "", "", "", b.TotalAmount.InexactFloat64()))
			continue
		}
		for _, item := range b.Items {
			setRow(append(base,
				item.ProductName,
				item.Quantity,
				item.UnitPrice.InexactFloat64(),
				item.GstPercentage.InexactFloat64(),
				item.Total.InexactFloat64(),
				b.TotalAmount.InexactFloat64(),
			))
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", "bills.xlsx"))
	if err := f.Write(c.Writer); err != nil {
		h.Log.WithError(err).Error("write bills export")
	}
}
