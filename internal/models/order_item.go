package models

import (
	"time"

	"github.com/google/uuid"
)

// Tax codes the downstream ERP understands.
const (
	TaxCodeZero = "000" // 0%
	TaxCodeIVA  = "001" // 19%
)

// OrderItem is one line item of an Order, keyed by (order_id, ean).
// Items are re-derived from the order's raw payload on every sync run.
type OrderItem struct {
	ID                     uuid.UUID `json:"id" db:"id"`
	OrderID                uuid.UUID `json:"order_id" db:"order_id"`
	ItemType               string    `json:"item_type" db:"item_type"`
	ItemNumber             int       `json:"item_number" db:"item_number"`
	EAN                    string    `json:"ean" db:"ean"`
	ItemQty                int       `json:"item_qty" db:"item_qty"`
	ItemPriceWithoutTax    int64     `json:"item_price_without_tax" db:"item_price_without_tax"`
	DestinationAddressCode string    `json:"destination_address_code" db:"destination_address_code"`
	Qty                    int       `json:"qty" db:"qty"`
	TaxCode                string    `json:"tax_code" db:"tax_code"`
	CreatedAt              time.Time `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time `json:"updated_at" db:"updated_at"`
}
