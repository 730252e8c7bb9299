package models

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// PriceLineItem fills an item's derived amounts from its snapshot columns:
//
//	subtotal = quantity * unit_price
//	gst      = subtotal * gst% / 100
//	total    = subtotal + gst
func PriceLineItem(item *BillItem) {
	item.Subtotal = decimal.NewFromInt(int64(item.Quantity)).Mul(item.UnitPrice)
	item.GstAmount = item.Subtotal.Mul(item.GstPercentage).Div(oneHundred)
	item.Total = item.Subtotal.Add(item.GstAmount)
}

// TotalBill sums priced items into the bill-level amounts. With decimal
// arithmetic total is exactly subtotal + gst.
func TotalBill(items []BillItem) (subtotal, gst, total decimal.Decimal) {
	for _, item := range items {
		subtotal = subtotal.Add(item.Subtotal)
		gst = gst.Add(item.GstAmount)
	}
	total = subtotal.Add(gst)
	return subtotal, gst, total
}
