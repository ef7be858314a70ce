package repositories

import (
	"context"

	"chlsync/internal/models"

	"github.com/google/uuid"
)

type OrderRepository interface {
	Upsert(ctx context.Context, order *models.Order) (*models.Order, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error)
}

type orderRepo struct {
	db DB
}

func NewOrderRepo(db DB) OrderRepository {
	return &orderRepo{db: db}
}

const orderColumns = `id, order_type, client_code, file_type, company_code, order_created_at, shipping_estimate_date, currency, buyer_fullname, buyer_document, buyer_phone, buyer_email, shipping_address, shipping_address_city, shipping_address_reference, shipping_address_zip, warehouse_code, order_number, sell_type, sell_type_code, payment_proof, seller_code, route_text_code, raw_payload, created_at, updated_at`

// Upsert creates or updates the order keyed by order_number. On conflict
// the existing row keeps its id and created_at; every mutable field is
// replaced. The stored row is returned.
func (r *orderRepo) Upsert(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	query := `
		INSERT INTO orders (id, order_type, client_code, file_type, company_code, order_created_at, shipping_estimate_date, currency, buyer_fullname, buyer_document, buyer_phone, buyer_email, shipping_address, shipping_address_city, shipping_address_reference, shipping_address_zip, warehouse_code, order_number, sell_type, sell_type_code, payment_proof, seller_code, route_text_code, raw_payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, NOW(), NOW())
		ON CONFLICT (order_number) DO UPDATE SET
			order_type = EXCLUDED.order_type,
			client_code = EXCLUDED.client_code,
			file_type = EXCLUDED.file_type,
			company_code = EXCLUDED.company_code,
			order_created_at = EXCLUDED.order_created_at,
			shipping_estimate_date = EXCLUDED.shipping_estimate_date,
			currency = EXCLUDED.currency,
			buyer_fullname = EXCLUDED.buyer_fullname,
			buyer_document = EXCLUDED.buyer_document,
			buyer_phone = EXCLUDED.buyer_phone,
			buyer_email = EXCLUDED.buyer_email,
			shipping_address = EXCLUDED.shipping_address,
			shipping_address_city = EXCLUDED.shipping_address_city,
			shipping_address_reference = EXCLUDED.shipping_address_reference,
			shipping_address_zip = EXCLUDED.shipping_address_zip,
			warehouse_code = EXCLUDED.warehouse_code,
			sell_type = EXCLUDED.sell_type,
			sell_type_code = EXCLUDED.sell_type_code,
			payment_proof = EXCLUDED.payment_proof,
			seller_code = EXCLUDED.seller_code,
			route_text_code = EXCLUDED.route_text_code,
			raw_payload = EXCLUDED.raw_payload,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	stored := *order
	err := r.db.QueryRow(ctx, query,
		order.ID, order.OrderType, order.ClientCode, order.FileType, order.CompanyCode,
		order.OrderCreatedAt, order.ShippingEstimateDate, order.Currency,
		order.BuyerFullname, order.BuyerDocument, order.BuyerPhone, order.BuyerEmail,
		order.ShippingAddress, order.ShippingAddressCity, order.ShippingAddressReference, order.ShippingAddressZip,
		order.WarehouseCode, order.OrderNumber, order.SellType, order.SellTypeCode,
		order.PaymentProof, order.SellerCode, order.RouteTextCode, order.RawPayload,
	).Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *orderRepo) GetByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	order := &models.Order{}
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE order_number = $1
	`
	err := r.db.QueryRow(ctx, query, orderNumber).Scan(
		&order.ID, &order.OrderType, &order.ClientCode, &order.FileType, &order.CompanyCode,
		&order.OrderCreatedAt, &order.ShippingEstimateDate, &order.Currency,
		&order.BuyerFullname, &order.BuyerDocument, &order.BuyerPhone, &order.BuyerEmail,
		&order.ShippingAddress, &order.ShippingAddressCity, &order.ShippingAddressReference, &order.ShippingAddressZip,
		&order.WarehouseCode, &order.OrderNumber, &order.SellType, &order.SellTypeCode,
		&order.PaymentProof, &order.SellerCode, &order.RouteTextCode, &order.RawPayload,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}
