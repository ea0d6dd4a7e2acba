package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/xplan/backend/internal/domain/planning"
)

// newMockInputRepository creates a GormInputRepository with a mocked SQL connection
func newMockInputRepository(t *testing.T) (*GormInputRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormInputRepository(gormDB), mock, mockDB
}

func TestGormInputRepository_Weeks(t *testing.T) {
	t.Run("loads calendar in week order", func(t *testing.T) {
		repo, mock, mockDB := newMockInputRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"week_number", "week_date"}).
			AddRow(1, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)).
			AddRow(2, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC))

		mock.ExpectQuery(`SELECT \* FROM "week_calendar" ORDER BY week_number ASC`).
			WillReturnRows(rows)

		weeks, err := repo.Weeks(context.Background())

		assert.NoError(t, err)
		require.Len(t, weeks, 2)
		assert.Equal(t, 1, weeks[0].WeekNumber)
		assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), weeks[1].WeekDate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns empty slice for empty table", func(t *testing.T) {
		repo, mock, mockDB := newMockInputRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "week_calendar" ORDER BY week_number ASC`).
			WillReturnRows(sqlmock.NewRows([]string{"week_number", "week_date"}))

		weeks, err := repo.Weeks(context.Background())

		assert.NoError(t, err)
		assert.Empty(t, weeks)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates query errors", func(t *testing.T) {
		repo, mock, mockDB := newMockInputRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "week_calendar"`).
			WillReturnError(sql.ErrConnDone)

		weeks, err := repo.Weeks(context.Background())

		assert.Error(t, err)
		assert.Nil(t, weeks)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInputRepository_Products(t *testing.T) {
	t.Run("maps cost attributes to domain", func(t *testing.T) {
		repo, mock, mockDB := newMockInputRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows([]string{
			"id", "created_at", "updated_at",
			"name", "sku", "selling_price", "manufacturing_cost", "freight_cost",
			"tariff_rate", "tacos_rate", "fulfillment_fee", "referral_rate", "storage_fee_monthly",
		}).AddRow(
			productID, now, now,
			"Garlic Press", "GP-001", "29.99", "4.50", "1.25",
			"0.05", "0.1", "3.50", "0.15", "0.40",
		)

		mock.ExpectQuery(`SELECT \* FROM "products" ORDER BY sku ASC`).
			WillReturnRows(rows)

		products, err := repo.Products(context.Background())

		assert.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, productID, products[0].ID)
		assert.Equal(t, "GP-001", products[0].SKU)
		assert.True(t, products[0].SellingPrice.Equal(decimal.RequireFromString("29.99")))
		assert.True(t, products[0].TariffRate.Equal(decimal.RequireFromString("0.05")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInputRepository_PurchaseOrders(t *testing.T) {
	t.Run("loads orders with payment specs attached", func(t *testing.T) {
		repo, mock, mockDB := newMockInputRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()
		productID := uuid.New()
		now := time.Now()
		start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
		due := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)

		orderRows := sqlmock.NewRows([]string{
			"id", "created_at", "updated_at",
			"order_code", "product_id", "quantity", "production_start", "status",
		}).AddRow(
			orderID, now, now,
			"PO-2024-001", productID, 500, start, "PRODUCTION",
		)
		mock.ExpectQuery(`SELECT \* FROM "purchase_orders" ORDER BY order_code ASC`).
			WillReturnRows(orderRows)

		paymentRows := sqlmock.NewRows([]string{
			"id", "purchase_order_id", "installment_index", "percentage", "amount", "due_date",
		}).
			AddRow(uuid.New(), orderID, 1, "0.3", nil, nil).
			AddRow(uuid.New(), orderID, 2, nil, "700", due)
		mock.ExpectQuery(`SELECT \* FROM "purchase_order_payments" WHERE "purchase_order_payments"\."purchase_order_id" = \$1 ORDER BY installment_index ASC`).
			WithArgs(orderID).
			WillReturnRows(paymentRows)

		orders, err := repo.PurchaseOrders(context.Background())

		assert.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, "PO-2024-001", orders[0].OrderCode)
		assert.Equal(t, planning.PurchaseOrderStatusProduction, orders[0].Status)
		assert.Equal(t, start, orders[0].ProductionStart)
		assert.Nil(t, orders[0].Overrides)

		require.Len(t, orders[0].Payments, 2)
		require.NotNil(t, orders[0].Payments[0].Percentage)
		assert.True(t, orders[0].Payments[0].Percentage.Equal(decimal.RequireFromString("0.3")))
		assert.Nil(t, orders[0].Payments[0].DueDate)
		require.NotNil(t, orders[0].Payments[1].Amount)
		assert.True(t, orders[0].Payments[1].Amount.Equal(decimal.NewFromInt(700)))
		require.NotNil(t, orders[0].Payments[1].DueDate)
		assert.Equal(t, due, *orders[0].Payments[1].DueDate)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("surfaces per-order cost overrides only when set", func(t *testing.T) {
		repo, mock, mockDB := newMockInputRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()
		now := time.Now()

		orderRows := sqlmock.NewRows([]string{
			"id", "created_at", "updated_at",
			"order_code", "product_id", "quantity", "production_start", "status",
			"manufacturing_cost",
		}).AddRow(
			orderID, now, now,
			"PO-2024-002", uuid.New(), 100, now, "PLANNED",
			"2.75",
		)
		mock.ExpectQuery(`SELECT \* FROM "purchase_orders"`).
			WillReturnRows(orderRows)
		mock.ExpectQuery(`SELECT \* FROM "purchase_order_payments"`).
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "purchase_order_id", "installment_index"}))

		orders, err := repo.PurchaseOrders(context.Background())

		assert.NoError(t, err)
		require.Len(t, orders, 1)
		require.NotNil(t, orders[0].Overrides)
		require.NotNil(t, orders[0].Overrides.ManufacturingCost)
		assert.True(t, orders[0].Overrides.ManufacturingCost.Equal(decimal.RequireFromString("2.75")))
		assert.Nil(t, orders[0].Overrides.SellingPrice)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInputRepository_SalesWeeks(t *testing.T) {
	t.Run("keeps null actuals distinct from zero", func(t *testing.T) {
		repo, mock, mockDB := newMockInputRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows([]string{
			"id", "created_at", "updated_at",
			"product_id", "week_number", "week_date", "starting_stock", "actual_sales", "forecast_sales",
		}).
			AddRow(uuid.New(), now, now, productID, 1, now, "500", "0", "60").
			AddRow(uuid.New(), now, now, productID, 2, now, "0", nil, "60")

		mock.ExpectQuery(`SELECT \* FROM "sales_weeks" ORDER BY product_id ASC, week_number ASC`).
			WillReturnRows(rows)

		salesWeeks, err := repo.SalesWeeks(context.Background())

		assert.NoError(t, err)
		require.Len(t, salesWeeks, 2)
		require.NotNil(t, salesWeeks[0].ActualSales)
		assert.True(t, salesWeeks[0].ActualSales.IsZero())
		assert.Nil(t, salesWeeks[1].ActualSales)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInputRepository_Parameters(t *testing.T) {
	t.Run("builds name value map", func(t *testing.T) {
		repo, mock, mockDB := newMockInputRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"name", "value"}).
			AddRow("starting_cash", "25000").
			AddRow("weekly_fixed_costs", "1200")

		mock.ExpectQuery(`SELECT \* FROM "business_parameters"`).
			WillReturnRows(rows)

		params, err := repo.Parameters(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, map[string]string{
			"starting_cash":      "25000",
			"weekly_fixed_costs": "1200",
		}, params)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
