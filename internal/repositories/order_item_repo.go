package repositories

import (
	"context"

	"chlsync/internal/models"

	"github.com/google/uuid"
)

type OrderItemRepository interface {
	Upsert(ctx context.Context, item *models.OrderItem) (*models.OrderItem, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error)
}

type orderItemRepo struct {
	db DB
}

func NewOrderItemRepo(db DB) OrderItemRepository {
	return &orderItemRepo{db: db}
}

// Upsert creates or updates the line item keyed by (order_id, ean).
// Re-ingestion updates position, quantity and price; it never duplicates.
func (r *orderItemRepo) Upsert(ctx context.Context, item *models.OrderItem) (*models.OrderItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	query := `
		INSERT INTO order_items (id, order_id, item_type, item_number, ean, item_qty, item_price_without_tax, destination_address_code, qty, tax_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		ON CONFLICT (order_id, ean) DO UPDATE SET
			item_type = EXCLUDED.item_type,
			item_number = EXCLUDED.item_number,
			item_qty = EXCLUDED.item_qty,
			item_price_without_tax = EXCLUDED.item_price_without_tax,
			destination_address_code = EXCLUDED.destination_address_code,
			qty = EXCLUDED.qty,
			tax_code = EXCLUDED.tax_code,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	stored := *item
	err := r.db.QueryRow(ctx, query,
		item.ID, item.OrderID, item.ItemType, item.ItemNumber, item.EAN,
		item.ItemQty, item.ItemPriceWithoutTax, item.DestinationAddressCode,
		item.Qty, item.TaxCode,
	).Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// ListByOrder returns the order's items in ascending item_number order,
// the order the export file requires.
func (r *orderItemRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error) {
	query := `
		SELECT id, order_id, item_type, item_number, ean, item_qty, item_price_without_tax, destination_address_code, qty, tax_code, created_at, updated_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY item_number ASC
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.OrderItem
	for rows.Next() {
		item := &models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ItemType, &item.ItemNumber, &item.EAN, &item.ItemQty, &item.ItemPriceWithoutTax, &item.DestinationAddressCode, &item.Qty, &item.TaxCode, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
