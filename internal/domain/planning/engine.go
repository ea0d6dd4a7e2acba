// Package planning is the deterministic weekly business-planning engine:
// given a week calendar, products with cost attributes, purchase orders with
// lead times and payment schedules, and weekly sales actuals/forecasts, it
// derives reconciled weekly sales, P&L, and cash-flow projections plus
// monthly/quarterly roll-ups.
//
// The engine is a pure, synchronous computation over in-memory collections.
// It performs no I/O, owns no caches, and constructs every output collection
// fresh, so identical inputs always produce identical outputs.
package planning

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/xplan/backend/internal/domain/shared"
)

// Input is the full set of owned entities the engine projects from. The
// host loads and validates these before invoking Run; the engine assumes
// well-typed numeric values but still fails fast on broken joins rather
// than projecting corrupted financials.
type Input struct {
	Weeks         []WeekRecord
	Fallback      CalendarFallback
	Products      []Product
	SalesTerms    []ProductSalesTerm
	LeadStages    []LeadStageTemplate
	LeadOverrides []LeadTimeOverride
	Orders        []PurchaseOrderInput
	SalesWeeks    []SalesWeek
	Params        BusinessParameters
}

// Output is the complete derived projection. Every collection is
// reproducible from Input and must never be treated as a source of truth.
type Output struct {
	Calendar      *WeekCalendar
	Orders        []PurchaseOrderDerived
	SalesPlan     []SalesPlanWeek
	ProfitAndLoss []ProfitAndLossWeek
	CashFlow      []CashFlowWeek
	Monthly       []MonthlySummary
	Quarterly     []QuarterlySummary
	Dashboard     DashboardSummary
}

// Run executes the full planning pipeline: calendar, cost resolution,
// purchase-order derivation, sales plan, P&L, cash flow, period summaries,
// and the dashboard view.
func Run(in Input) (*Output, error) {
	cal := BuildWeekCalendar(in.Weeks, in.Fallback)

	products := make(map[uuid.UUID]Product, len(in.Products))
	for _, p := range in.Products {
		products[p.ID] = p
	}

	orders := make([]PurchaseOrderDerived, 0, len(in.Orders))
	for _, po := range in.Orders {
		product, ok := products[po.ProductID]
		if !ok {
			return nil, shared.NewDomainError(shared.ErrUnknownProduct.Code,
				fmt.Sprintf("purchase order %s references unknown product %s", po.OrderCode, po.ProductID))
		}
		costs := ResolveCostProfile(product, in.SalesTerms, po.ProductionStart, po.Overrides)
		stages := ResolveStageDurations(in.LeadStages, in.LeadOverrides, po.ProductID, po.Stages)
		orders = append(orders, DerivePurchaseOrder(po, costs, stages, in.Params))
	}

	for _, row := range in.SalesWeeks {
		if _, ok := products[row.ProductID]; !ok {
			return nil, shared.NewDomainError(shared.ErrUnknownProduct.Code,
				fmt.Sprintf("sales week %d references unknown product %s", row.WeekNumber, row.ProductID))
		}
	}

	plan := ProjectSalesPlan(in.SalesWeeks, orders, cal)

	// P&L approximates per-unit economics by each product's profile as of
	// the latest planned week; lot-level cost tracking is unavailable.
	asOf := cal.DateOrFallback(cal.MaxWeek())
	profiles := make(map[uuid.UUID]CostProfile, len(in.Products))
	for _, p := range in.Products {
		profiles[p.ID] = ResolveCostProfile(p, in.SalesTerms, asOf, nil)
	}

	pnl := AggregateProfitAndLoss(plan, profiles, in.Params)
	cash := ProjectCashFlow(pnl, orders, cal, in.Params)

	return &Output{
		Calendar:      cal,
		Orders:        orders,
		SalesPlan:     plan,
		ProfitAndLoss: pnl,
		CashFlow:      cash,
		Monthly:       SummarizeMonthly(pnl, cash, cal),
		Quarterly:     SummarizeQuarterly(pnl, cash, cal),
		Dashboard:     BuildDashboardSummary(pnl, cash, plan, orders, cal, in.Params),
	}, nil
}
