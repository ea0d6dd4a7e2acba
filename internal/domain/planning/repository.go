package planning

import (
	"context"
)

// InputRepository defines the interface for loading the owned planning
// entities the engine projects from.
type InputRepository interface {
	// Weeks loads the week calendar records
	Weeks(ctx context.Context) ([]WeekRecord, error)

	// Products loads the product catalog with baseline cost attributes
	Products(ctx context.Context) ([]Product, error)

	// SalesTerms loads the date-ranged product cost overrides
	SalesTerms(ctx context.Context) ([]ProductSalesTerm, error)

	// LeadStageTemplates loads the ordered lead-time stage defaults
	LeadStageTemplates(ctx context.Context) ([]LeadStageTemplate, error)

	// LeadTimeOverrides loads the per-product stage duration overrides
	LeadTimeOverrides(ctx context.Context) ([]LeadTimeOverride, error)

	// PurchaseOrders loads the purchase orders with their payment specs
	PurchaseOrders(ctx context.Context) ([]PurchaseOrderInput, error)

	// SalesWeeks loads the weekly sales actuals and forecasts
	SalesWeeks(ctx context.Context) ([]SalesWeek, error)

	// Parameters loads the raw name/value business parameter rows
	Parameters(ctx context.Context) (map[string]string, error)
}

// OutputRepository defines the interface for persisting derived projections.
// Every Replace method atomically swaps the previous projection for the new
// one; derived rows are never patched in place.
type OutputRepository interface {
	// ReplaceDerivedOrders replaces the derived purchase-order projections
	ReplaceDerivedOrders(ctx context.Context, orders []PurchaseOrderDerived) error

	// ReplaceSalesPlan replaces the weekly inventory projection
	ReplaceSalesPlan(ctx context.Context, plan []SalesPlanWeek) error

	// ReplaceProfitAndLoss replaces the weekly P&L series
	ReplaceProfitAndLoss(ctx context.Context, pnl []ProfitAndLossWeek) error

	// ReplaceCashFlow replaces the weekly cash-flow series
	ReplaceCashFlow(ctx context.Context, cash []CashFlowWeek) error

	// ReplaceMonthlySummaries replaces the monthly roll-ups
	ReplaceMonthlySummaries(ctx context.Context, months []MonthlySummary) error

	// ReplaceQuarterlySummaries replaces the quarterly roll-ups
	ReplaceQuarterlySummaries(ctx context.Context, quarters []QuarterlySummary) error
}
