package repositories

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"chlsync/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type OrderRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    OrderRepository
	context context.Context
}

func (suite *OrderRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewOrderRepo(mock)
	suite.context = context.Background()
}

func (suite *OrderRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestOrderRepoTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepoTestSuite))
}

func sampleOrder() *models.Order {
	return &models.Order{
		OrderType:                "H",
		ClientCode:               "CT0000344",
		FileType:                 "E-COMM",
		CompanyCode:              "120",
		OrderCreatedAt:           time.Date(2021, 3, 4, 10, 15, 30, 0, time.UTC),
		ShippingEstimateDate:     time.Date(2021, 3, 9, 0, 0, 0, 0, time.UTC),
		Currency:                 "COP",
		BuyerFullname:            "Ana Gomez",
		BuyerDocument:            "52123456",
		BuyerPhone:               "+573001112233",
		BuyerEmail:               "ana.gomez@example.com",
		ShippingAddress:          "Main 42 Centro",
		ShippingAddressCity:      "Bogota",
		ShippingAddressReference: "porteria roja",
		ShippingAddressZip:       "110111",
		WarehouseCode:            "CM0000001",
		OrderNumber:              "1100306585-01",
		SellType:                 "V010",
		SellTypeCode:             "222",
		SellerCode:               "V02011",
		RawPayload:               json.RawMessage(`{"orderId":"1100306585-01"}`),
	}
}

func (suite *OrderRepoTestSuite) TestUpsert_CreatesAndReturnsStoredRow() {
	order := sampleOrder()
	storedID := uuid.New()
	now := time.Now()

	suite.mock.ExpectQuery(`INSERT INTO orders .*ON CONFLICT \(order_number\) DO UPDATE SET.*RETURNING id, created_at, updated_at`).
		WithArgs(pgxmock.AnyArg(), order.OrderType, order.ClientCode, order.FileType, order.CompanyCode,
			order.OrderCreatedAt, order.ShippingEstimateDate, order.Currency,
			order.BuyerFullname, order.BuyerDocument, order.BuyerPhone, order.BuyerEmail,
			order.ShippingAddress, order.ShippingAddressCity, order.ShippingAddressReference, order.ShippingAddressZip,
			order.WarehouseCode, order.OrderNumber, order.SellType, order.SellTypeCode,
			order.PaymentProof, order.SellerCode, order.RouteTextCode, order.RawPayload).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(storedID, now, now))

	stored, err := suite.repo.Upsert(suite.context, order)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), storedID, stored.ID)
	assert.Equal(suite.T(), order.OrderNumber, stored.OrderNumber)
	assert.Equal(suite.T(), now, stored.CreatedAt)
}

func (suite *OrderRepoTestSuite) TestUpsert_ExistingRowKeepsIdentity() {
	order := sampleOrder()
	// The database reports the pre-existing row's id, not the candidate id.
	existingID := uuid.New()
	createdAt := time.Now().Add(-24 * time.Hour)
	updatedAt := time.Now()

	anyArgs := make([]interface{}, 24)
	for i := range anyArgs {
		anyArgs[i] = pgxmock.AnyArg()
	}
	suite.mock.ExpectQuery(`INSERT INTO orders .*ON CONFLICT \(order_number\) DO UPDATE SET`).
		WithArgs(anyArgs...).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(existingID, createdAt, updatedAt))

	stored, err := suite.repo.Upsert(suite.context, order)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), existingID, stored.ID)
	assert.Equal(suite.T(), createdAt, stored.CreatedAt)
	assert.Equal(suite.T(), updatedAt, stored.UpdatedAt)
}

func (suite *OrderRepoTestSuite) TestGetByOrderNumber() {
	order := sampleOrder()
	order.ID = uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows([]string{
		"id", "order_type", "client_code", "file_type", "company_code",
		"order_created_at", "shipping_estimate_date", "currency",
		"buyer_fullname", "buyer_document", "buyer_phone", "buyer_email",
		"shipping_address", "shipping_address_city", "shipping_address_reference", "shipping_address_zip",
		"warehouse_code", "order_number", "sell_type", "sell_type_code",
		"payment_proof", "seller_code", "route_text_code", "raw_payload",
		"created_at", "updated_at",
	}).AddRow(
		order.ID, order.OrderType, order.ClientCode, order.FileType, order.CompanyCode,
		order.OrderCreatedAt, order.ShippingEstimateDate, order.Currency,
		order.BuyerFullname, order.BuyerDocument, order.BuyerPhone, order.BuyerEmail,
		order.ShippingAddress, order.ShippingAddressCity, order.ShippingAddressReference, order.ShippingAddressZip,
		order.WarehouseCode, order.OrderNumber, order.SellType, order.SellTypeCode,
		order.PaymentProof, order.SellerCode, order.RouteTextCode, order.RawPayload,
		now, now,
	)

	suite.mock.ExpectQuery(`SELECT .* FROM orders\s+WHERE order_number = \$1`).
		WithArgs(order.OrderNumber).
		WillReturnRows(rows)

	got, err := suite.repo.GetByOrderNumber(suite.context, order.OrderNumber)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), order.ID, got.ID)
	assert.Equal(suite.T(), order.BuyerFullname, got.BuyerFullname)
	assert.Equal(suite.T(), order.RawPayload, got.RawPayload)
}
