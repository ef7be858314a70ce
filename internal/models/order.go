package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	erpDateLayout    = "02012006"
	remoteTimeLayout = "2006-01-02T15:04:05"
)

// Order is one purchase transaction pulled from the remote store.
// order_number is the natural key; re-ingesting the same number updates the
// row in place and never duplicates it.
type Order struct {
	ID                       uuid.UUID       `json:"id" db:"id"`
	OrderType                string          `json:"order_type" db:"order_type"`
	ClientCode               string          `json:"client_code" db:"client_code"`
	FileType                 string          `json:"file_type" db:"file_type"`
	CompanyCode              string          `json:"company_code" db:"company_code"`
	OrderCreatedAt           time.Time       `json:"order_created_at" db:"order_created_at"`
	ShippingEstimateDate     time.Time       `json:"shipping_estimate_date" db:"shipping_estimate_date"`
	Currency                 string          `json:"currency" db:"currency"`
	BuyerFullname            string          `json:"buyer_fullname" db:"buyer_fullname"`
	BuyerDocument            string          `json:"buyer_document" db:"buyer_document"`
	BuyerPhone               string          `json:"buyer_phone" db:"buyer_phone"`
	BuyerEmail               string          `json:"buyer_email" db:"buyer_email"`
	ShippingAddress          string          `json:"shipping_address" db:"shipping_address"`
	ShippingAddressCity      string          `json:"shipping_address_city" db:"shipping_address_city"`
	ShippingAddressReference string          `json:"shipping_address_reference" db:"shipping_address_reference"`
	ShippingAddressZip       string          `json:"shipping_address_zip" db:"shipping_address_zip"`
	WarehouseCode            string          `json:"warehouse_code" db:"warehouse_code"`
	OrderNumber              string          `json:"order_number" db:"order_number"`
	SellType                 string          `json:"sell_type" db:"sell_type"`
	SellTypeCode             string          `json:"sell_type_code" db:"sell_type_code"`
	PaymentProof             string          `json:"payment_proof" db:"payment_proof"`
	SellerCode               string          `json:"seller_code" db:"seller_code"`
	RouteTextCode            string          `json:"route_text_code" db:"route_text_code"`
	RawPayload               json.RawMessage `json:"raw_payload" db:"raw_payload"`
	CreatedAt                time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt                time.Time       `json:"updated_at" db:"updated_at"`
}

func (o *Order) String() string {
	return fmt.Sprintf("%s - %s - %s", o.OrderNumber, o.BuyerFullname, o.OrderCreatedAt)
}

// ERPDate renders a timestamp as DDMMYYYY for the export file.
// A zero time renders as the empty string.
func ERPDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(erpDateLayout)
}

// ParseRemoteTimestamp parses the ISO-8601-like timestamps the order API
// returns, truncating to whole seconds: the fractional part and everything
// after it (including any timezone suffix) is discarded.
func ParseRemoteTimestamp(s string) (time.Time, error) {
	trimmed, _, _ := strings.Cut(s, ".")
	t, err := time.Parse(remoteTimeLayout, trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse remote timestamp %q: %w", s, err)
	}
	return t, nil
}
