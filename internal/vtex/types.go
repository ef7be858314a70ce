package vtex

import "encoding/json"

// listResponse is the summary-list endpoint response.
type listResponse struct {
	List   []orderSummary `json:"list"`
	Paging paging         `json:"paging"`
}

type orderSummary struct {
	OrderID string `json:"orderId"`
}

type paging struct {
	CurrentPage int `json:"currentPage"`
	Pages       int `json:"pages"`
}

// OrderDocument is the full order detail document. Raw holds the verbatim
// response body so the pipeline can persist it untouched.
type OrderDocument struct {
	OrderID           string        `json:"orderId"`
	CreationDate      string        `json:"creationDate"`
	ClientProfileData ClientProfile `json:"clientProfileData"`
	ShippingData      ShippingData  `json:"shippingData"`
	Items             []Item        `json:"items"`

	Raw json.RawMessage `json:"-"`
}

// ClientProfile carries the buyer fields used by the export.
type ClientProfile struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Document  string `json:"document"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// ShippingData nests the selected address and the logistics estimate.
type ShippingData struct {
	SelectedAddresses []Address       `json:"selectedAddresses"`
	LogisticsInfo     []LogisticsInfo `json:"logisticsInfo"`
}

// Address is one shipping address as the API reports it.
type Address struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	Reference    string `json:"reference"`
	PostalCode   string `json:"postalCode"`
}

// LogisticsInfo carries the shipping estimate for one item slot.
type LogisticsInfo struct {
	ShippingEstimateDate string `json:"shippingEstimateDate"`
}

// Item is one order line as the API reports it. Price is in minor units.
type Item struct {
	EAN      string `json:"ean"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}
