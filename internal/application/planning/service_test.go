package planning

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xplan/backend/internal/domain/planning"
	"github.com/xplan/backend/internal/domain/shared"
)

// MockInputRepository is a mock implementation of planning.InputRepository
type MockInputRepository struct {
	mock.Mock
}

func (m *MockInputRepository) Weeks(ctx context.Context) ([]planning.WeekRecord, error) {
	args := m.Called(ctx)
	return args.Get(0).([]planning.WeekRecord), args.Error(1)
}

func (m *MockInputRepository) Products(ctx context.Context) ([]planning.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]planning.Product), args.Error(1)
}

func (m *MockInputRepository) SalesTerms(ctx context.Context) ([]planning.ProductSalesTerm, error) {
	args := m.Called(ctx)
	return args.Get(0).([]planning.ProductSalesTerm), args.Error(1)
}

func (m *MockInputRepository) LeadStageTemplates(ctx context.Context) ([]planning.LeadStageTemplate, error) {
	args := m.Called(ctx)
	return args.Get(0).([]planning.LeadStageTemplate), args.Error(1)
}

func (m *MockInputRepository) LeadTimeOverrides(ctx context.Context) ([]planning.LeadTimeOverride, error) {
	args := m.Called(ctx)
	return args.Get(0).([]planning.LeadTimeOverride), args.Error(1)
}

func (m *MockInputRepository) PurchaseOrders(ctx context.Context) ([]planning.PurchaseOrderInput, error) {
	args := m.Called(ctx)
	return args.Get(0).([]planning.PurchaseOrderInput), args.Error(1)
}

func (m *MockInputRepository) SalesWeeks(ctx context.Context) ([]planning.SalesWeek, error) {
	args := m.Called(ctx)
	return args.Get(0).([]planning.SalesWeek), args.Error(1)
}

func (m *MockInputRepository) Parameters(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[string]string), args.Error(1)
}

// MockOutputRepository is a mock implementation of planning.OutputRepository
type MockOutputRepository struct {
	mock.Mock
}

func (m *MockOutputRepository) ReplaceDerivedOrders(ctx context.Context, orders []planning.PurchaseOrderDerived) error {
	args := m.Called(ctx, orders)
	return args.Error(0)
}

func (m *MockOutputRepository) ReplaceSalesPlan(ctx context.Context, plan []planning.SalesPlanWeek) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockOutputRepository) ReplaceProfitAndLoss(ctx context.Context, pnl []planning.ProfitAndLossWeek) error {
	args := m.Called(ctx, pnl)
	return args.Error(0)
}

func (m *MockOutputRepository) ReplaceCashFlow(ctx context.Context, cash []planning.CashFlowWeek) error {
	args := m.Called(ctx, cash)
	return args.Error(0)
}

func (m *MockOutputRepository) ReplaceMonthlySummaries(ctx context.Context, months []planning.MonthlySummary) error {
	args := m.Called(ctx, months)
	return args.Error(0)
}

func (m *MockOutputRepository) ReplaceQuarterlySummaries(ctx context.Context, quarters []planning.QuarterlySummary) error {
	args := m.Called(ctx, quarters)
	return args.Error(0)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func sampleProduct() planning.Product {
	return planning.Product{
		ID:                uuid.New(),
		Name:              "Widget",
		SKU:               "WID-001",
		SellingPrice:      dec("10"),
		ManufacturingCost: dec("3"),
		FreightCost:       dec("1"),
		TariffRate:        dec("0.05"),
		TacosRate:         dec("0.1"),
		FulfillmentFee:    dec("2"),
		ReferralRate:      dec("0.15"),
		StorageFeeMonthly: dec("0.5"),
	}
}

func stubInputs(inputs *MockInputRepository, product planning.Product, orders []planning.PurchaseOrderInput) {
	actual := dec("50")
	inputs.On("Weeks", mock.Anything).Return([]planning.WeekRecord{
		{WeekNumber: 1, WeekDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{WeekNumber: 2, WeekDate: time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC)},
	}, nil)
	inputs.On("Products", mock.Anything).Return([]planning.Product{product}, nil)
	inputs.On("SalesTerms", mock.Anything).Return([]planning.ProductSalesTerm{}, nil)
	inputs.On("LeadStageTemplates", mock.Anything).Return(planning.DefaultLeadStageTemplates(), nil)
	inputs.On("LeadTimeOverrides", mock.Anything).Return([]planning.LeadTimeOverride{}, nil)
	inputs.On("PurchaseOrders", mock.Anything).Return(orders, nil)
	inputs.On("SalesWeeks", mock.Anything).Return([]planning.SalesWeek{
		{
			ProductID:     product.ID,
			WeekNumber:    1,
			WeekDate:      time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			StartingStock: dec("500"),
			ActualSales:   &actual,
			ForecastSales: dec("50"),
		},
	}, nil)
	inputs.On("Parameters", mock.Anything).Return(map[string]string{
		planning.ParamStartingCash:     "1000",
		planning.ParamWeeklyFixedCosts: "200",
	}, nil)
}

func stubOutputs(outputs *MockOutputRepository) {
	outputs.On("ReplaceDerivedOrders", mock.Anything, mock.Anything).Return(nil)
	outputs.On("ReplaceSalesPlan", mock.Anything, mock.Anything).Return(nil)
	outputs.On("ReplaceProfitAndLoss", mock.Anything, mock.Anything).Return(nil)
	outputs.On("ReplaceCashFlow", mock.Anything, mock.Anything).Return(nil)
	outputs.On("ReplaceMonthlySummaries", mock.Anything, mock.Anything).Return(nil)
	outputs.On("ReplaceQuarterlySummaries", mock.Anything, mock.Anything).Return(nil)
}

func TestPlanningService_Recompute(t *testing.T) {
	ctx := context.Background()

	t.Run("recomputes and persists every derived collection", func(t *testing.T) {
		inputs := new(MockInputRepository)
		outputs := new(MockOutputRepository)
		stubInputs(inputs, sampleProduct(), []planning.PurchaseOrderInput{})
		stubOutputs(outputs)

		svc := NewPlanningService(inputs, outputs, zap.NewNop())
		out, err := svc.Recompute(ctx)

		require.NoError(t, err)
		require.NotNil(t, out)
		require.Len(t, out.ProfitAndLoss, 1)
		assert.Equal(t, "500", out.ProfitAndLoss[0].Revenue.String())
		assert.Equal(t, "800", out.CashFlow[0].CashBalance.String())
		outputs.AssertExpectations(t)
	})

	t.Run("normalizes whole-percent rates before projecting", func(t *testing.T) {
		product := sampleProduct()
		product.TariffRate = dec("5")    // stored as percent
		product.ReferralRate = dec("15") // stored as percent
		product.TacosRate = dec("0.1")   // already fractional

		inputs := new(MockInputRepository)
		outputs := new(MockOutputRepository)
		stubInputs(inputs, product, []planning.PurchaseOrderInput{})
		stubOutputs(outputs)

		svc := NewPlanningService(inputs, outputs, zap.NewNop())
		out, err := svc.Recompute(ctx)

		require.NoError(t, err)
		// Landed unit cost 3+1+0.5+2+0.5 holds only with tariff 0.05.
		assert.Equal(t, "350", out.ProfitAndLoss[0].COGS.String())
		assert.Equal(t, "175", out.ProfitAndLoss[0].AmazonFees.String())
	})

	t.Run("normalizes whole-percent sales term rates", func(t *testing.T) {
		product := sampleProduct()
		term := planning.ProductSalesTerm{
			ProductID: product.ID,
			StartDate: time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC),
			Overrides: planning.CostOverrides{
				TariffRate: decimalPtr(dec("5")), // stored as percent
			},
		}

		inputs := new(MockInputRepository)
		outputs := new(MockOutputRepository)
		inputs.On("SalesTerms", mock.Anything).Return([]planning.ProductSalesTerm{term}, nil)
		stubInputs(inputs, product, []planning.PurchaseOrderInput{})
		stubOutputs(outputs)

		svc := NewPlanningService(inputs, outputs, zap.NewNop())
		out, err := svc.Recompute(ctx)

		require.NoError(t, err)
		// The term matches the product baseline only once 5 becomes
		// 0.05; an unnormalized tariff of 5 would land 50/unit extra.
		assert.Equal(t, "350", out.ProfitAndLoss[0].COGS.String())
	})

	t.Run("rejects sales terms with out-of-range rates", func(t *testing.T) {
		product := sampleProduct()
		term := planning.ProductSalesTerm{
			ProductID: product.ID,
			StartDate: time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC),
			Overrides: planning.CostOverrides{
				ReferralRate: decimalPtr(dec("150")), // still 1.5 after normalization
			},
		}

		inputs := new(MockInputRepository)
		outputs := new(MockOutputRepository)
		inputs.On("SalesTerms", mock.Anything).Return([]planning.ProductSalesTerm{term}, nil)
		stubInputs(inputs, product, []planning.PurchaseOrderInput{})

		svc := NewPlanningService(inputs, outputs, zap.NewNop())
		_, err := svc.Recompute(ctx)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, shared.ErrInvalidInput.Code, domainErr.Code)
		outputs.AssertNotCalled(t, "ReplaceProfitAndLoss", mock.Anything, mock.Anything)
	})

	t.Run("rejects products that fail validation", func(t *testing.T) {
		product := sampleProduct()
		product.Name = ""

		inputs := new(MockInputRepository)
		outputs := new(MockOutputRepository)
		stubInputs(inputs, product, []planning.PurchaseOrderInput{})

		svc := NewPlanningService(inputs, outputs, zap.NewNop())
		_, err := svc.Recompute(ctx)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, shared.ErrInvalidInput.Code, domainErr.Code)
		outputs.AssertNotCalled(t, "ReplaceProfitAndLoss", mock.Anything, mock.Anything)
	})

	t.Run("rejects purchase orders with invalid status or quantity", func(t *testing.T) {
		product := sampleProduct()
		cases := map[string]planning.PurchaseOrderInput{
			"unknown status": {
				OrderCode:       "PO-1",
				ProductID:       product.ID,
				Quantity:        100,
				ProductionStart: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
				Status:          planning.PurchaseOrderStatus("SHIPPED"),
			},
			"zero quantity": {
				OrderCode:       "PO-2",
				ProductID:       product.ID,
				Quantity:        0,
				ProductionStart: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
				Status:          planning.PurchaseOrderStatusPlanned,
			},
		}
		for name, order := range cases {
			t.Run(name, func(t *testing.T) {
				inputs := new(MockInputRepository)
				outputs := new(MockOutputRepository)
				stubInputs(inputs, product, []planning.PurchaseOrderInput{order})

				svc := NewPlanningService(inputs, outputs, zap.NewNop())
				_, err := svc.Recompute(ctx)

				require.Error(t, err)
				var domainErr *shared.DomainError
				require.True(t, errors.As(err, &domainErr))
				assert.Equal(t, shared.ErrInvalidInput.Code, domainErr.Code)
			})
		}
	})

	t.Run("propagates load failures", func(t *testing.T) {
		inputs := new(MockInputRepository)
		outputs := new(MockOutputRepository)
		// Loads run concurrently; the first failing expectation wins and
		// the healthy stubs satisfy the remaining goroutines.
		inputs.On("Weeks", mock.Anything).Return([]planning.WeekRecord{}, errors.New("connection refused"))
		stubInputs(inputs, sampleProduct(), []planning.PurchaseOrderInput{})

		svc := NewPlanningService(inputs, outputs, zap.NewNop())
		_, err := svc.Recompute(ctx)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "load week calendar")
	})

	t.Run("propagates persistence failures", func(t *testing.T) {
		inputs := new(MockInputRepository)
		outputs := new(MockOutputRepository)
		stubInputs(inputs, sampleProduct(), []planning.PurchaseOrderInput{})
		outputs.On("ReplaceDerivedOrders", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		svc := NewPlanningService(inputs, outputs, zap.NewNop())
		_, err := svc.Recompute(ctx)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "persist derived orders")
	})
}

func TestPlanningService_Dashboard(t *testing.T) {
	inputs := new(MockInputRepository)
	outputs := new(MockOutputRepository)
	stubInputs(inputs, sampleProduct(), []planning.PurchaseOrderInput{})

	svc := NewPlanningService(inputs, outputs, zap.NewNop())
	dash, err := svc.Dashboard(context.Background())

	require.NoError(t, err)
	require.NotNil(t, dash)
	assert.Equal(t, "500", dash.RevenueYTD.String())
	// Dashboard is a read-side view; nothing is persisted.
	outputs.AssertNotCalled(t, "ReplaceProfitAndLoss", mock.Anything, mock.Anything)
}

func TestNormalizeRate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "fraction passes through", input: "0.15", expected: "0.15"},
		{name: "whole percent is divided", input: "15", expected: "0.15"},
		{name: "boundary value one passes through", input: "1", expected: "1"},
		{name: "just above one is treated as percent", input: "1.5", expected: "0.015"},
		{name: "zero passes through", input: "0", expected: "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeRate(dec(tt.input)).String())
		})
	}
}
