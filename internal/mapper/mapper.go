// Package mapper converts raw order API documents into the canonical
// Order/OrderItem records. Mapping is pure: the same document always yields
// the same field values.
package mapper

import (
	"fmt"
	"strings"

	"chlsync/internal/models"
	"chlsync/internal/vtex"
)

// Profile enumerates the fields a given integration target fixes to
// constants. These are not derived from order content.
type Profile struct {
	OrderType     string
	ClientCode    string
	FileType      string
	CompanyCode   string
	Currency      string
	SellType      string
	SellTypeCode  string
	PaymentProof  string
	SellerCode    string
	RouteTextCode string
	WarehouseCode string

	ItemType    string
	ItemTaxCode string
}

// VTEXProfile is the profile for the VTEX storefront integration.
// TODO warehouse_code should eventually come from the order's logistics data.
func VTEXProfile() Profile {
	return Profile{
		OrderType:     "H",
		ClientCode:    "CT0000344",
		FileType:      "E-COMM",
		CompanyCode:   "120",
		Currency:      "COP",
		SellType:      "V010",
		SellTypeCode:  "222",
		PaymentProof:  "",
		SellerCode:    "V02011",
		RouteTextCode: "",
		WarehouseCode: "CM0000001",

		ItemType: "D",
		// Fixed 19% for every item until the ERP contract says otherwise.
		ItemTaxCode: models.TaxCodeIVA,
	}
}

// MapOrder builds an Order and its line items from a raw order document.
// Items come back in payload order with 1-based item numbers; their OrderID
// is filled in after the order row exists.
func (p Profile) MapOrder(doc *vtex.OrderDocument) (*models.Order, []*models.OrderItem, error) {
	if doc.OrderID == "" {
		return nil, nil, fmt.Errorf("order document has no orderId")
	}

	createdAt, err := models.ParseRemoteTimestamp(doc.CreationDate)
	if err != nil {
		return nil, nil, fmt.Errorf("order %s: %w", doc.OrderID, err)
	}

	if len(doc.ShippingData.LogisticsInfo) == 0 {
		return nil, nil, fmt.Errorf("order %s has no logisticsInfo", doc.OrderID)
	}
	estimateDate, err := models.ParseRemoteTimestamp(doc.ShippingData.LogisticsInfo[0].ShippingEstimateDate)
	if err != nil {
		return nil, nil, fmt.Errorf("order %s: %w", doc.OrderID, err)
	}

	if len(doc.ShippingData.SelectedAddresses) == 0 {
		return nil, nil, fmt.Errorf("order %s has no selectedAddresses", doc.OrderID)
	}
	address := doc.ShippingData.SelectedAddresses[0]

	order := &models.Order{
		OrderType:                p.OrderType,
		ClientCode:               p.ClientCode,
		FileType:                 p.FileType,
		CompanyCode:              p.CompanyCode,
		OrderCreatedAt:           createdAt,
		ShippingEstimateDate:     estimateDate,
		Currency:                 p.Currency,
		BuyerFullname:            doc.ClientProfileData.FirstName + " " + doc.ClientProfileData.LastName,
		BuyerDocument:            doc.ClientProfileData.Document,
		BuyerPhone:               doc.ClientProfileData.Phone,
		BuyerEmail:               doc.ClientProfileData.Email,
		ShippingAddress:          joinAddress(address),
		ShippingAddressCity:      address.City,
		ShippingAddressReference: address.Reference,
		ShippingAddressZip:       address.PostalCode,
		WarehouseCode:            p.WarehouseCode,
		OrderNumber:              doc.OrderID,
		SellType:                 p.SellType,
		SellTypeCode:             p.SellTypeCode,
		PaymentProof:             p.PaymentProof,
		SellerCode:               p.SellerCode,
		RouteTextCode:            p.RouteTextCode,
		RawPayload:               doc.Raw,
	}

	items := make([]*models.OrderItem, 0, len(doc.Items))
	for i, item := range doc.Items {
		items = append(items, &models.OrderItem{
			ItemType:               p.ItemType,
			ItemNumber:             i + 1,
			EAN:                    item.EAN,
			ItemQty:                item.Quantity,
			ItemPriceWithoutTax:    item.Price / 100, // minor units to whole units
			DestinationAddressCode: "",
			Qty:                    0,
			TaxCode:                p.ItemTaxCode,
		})
	}

	return order, items, nil
}

// joinAddress space-joins the non-empty address parts in the fixed order
// street, number, complement, neighborhood.
func joinAddress(a vtex.Address) string {
	parts := make([]string, 0, 4)
	for _, part := range []string{a.Street, a.Number, a.Complement, a.Neighborhood} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}
