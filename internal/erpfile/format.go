// Package erpfile renders orders into the pipe-delimited positional text
// format the downstream ERP ingests: one header line, then one line per
// item. Formatting is a pure function of the record's field values.
package erpfile

import (
	"fmt"
	"strings"

	"chlsync/internal/models"
)

// HeaderSegments returns the header's ordered text segments. The first
// segment is bare; the remaining fifteen carry their leading pipe so the
// header line is their plain concatenation.
func HeaderSegments(order *models.Order) []string {
	return []string{
		order.OrderType,
		"|" + order.ClientCode,
		"|" + order.FileType,
		"|" + order.CompanyCode,
		"|" + models.ERPDate(order.OrderCreatedAt),
		"|" + models.ERPDate(order.ShippingEstimateDate),
		"|" + order.Currency,
		fmt.Sprintf("|%s/%s/%s/%s/%s/%s",
			order.BuyerFullname, order.BuyerDocument, order.ShippingAddressCity,
			order.ShippingAddress, order.BuyerPhone, order.ShippingAddressReference),
		"|1",
		"|" + order.WarehouseCode,
		"|" + order.OrderNumber,
		fmt.Sprintf("|?,%s,?,%s,%s,%s",
			order.BuyerDocument, order.BuyerFullname, order.SellType, order.ShippingAddressZip),
		fmt.Sprintf("|%s,%s", order.SellTypeCode, order.PaymentProof),
		"|" + order.SellerCode,
		"|" + order.RouteTextCode,
		"|" + order.BuyerEmail,
	}
}

// ItemLines returns one line per item in the given order. The doubled pipe
// after the destination address code is part of the agreed file contract;
// do not collapse it.
func ItemLines(items []*models.OrderItem) []string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, strings.Join([]string{
			item.ItemType,
			fmt.Sprintf("|%d", item.ItemNumber),
			"|" + item.EAN,
			fmt.Sprintf("|%d", item.ItemQty),
			fmt.Sprintf("|%d", item.ItemPriceWithoutTax),
			"|" + item.DestinationAddressCode + "|",
			fmt.Sprintf("|%d", item.Qty),
			"|" + item.TaxCode,
		}, ""))
	}
	return lines
}

// FileName names the delivery artifact for one order.
func FileName(order *models.Order) string {
	return order.OrderNumber + ".txt"
}

// Render produces the complete file content: header segments, a newline,
// then the item lines joined by newlines in ascending item_number order.
func Render(order *models.Order, items []*models.OrderItem) string {
	return strings.Join(HeaderSegments(order), "") + "\n" + strings.Join(ItemLines(items), "\n")
}
