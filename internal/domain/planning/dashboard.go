package planning

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryPosition is the latest projected stock level for one product.
// LowStock is set when the projected weeks of cover fall below the
// stock-warning parameter.
type InventoryPosition struct {
	ProductID           uuid.UUID
	WeekNumber          int
	StockEnd            decimal.Decimal
	StockWeeksRemaining *decimal.Decimal
	LowStock            bool
}

// DashboardSummary is the read-side headline view: year-to-date revenue,
// current cash, purchase-order pipeline counts, and current inventory.
type DashboardSummary struct {
	RevenueYTD  decimal.Decimal
	CashBalance decimal.Decimal
	Pipeline    map[PurchaseOrderStatus]int
	Inventory   []InventoryPosition
}

// BuildDashboardSummary cross-cuts the terminal pipeline outputs. The
// "current" year is the year of the latest planned week, so the result is a
// pure function of its inputs.
func BuildDashboardSummary(pnl []ProfitAndLossWeek, cash []CashFlowWeek, plan []SalesPlanWeek, orders []PurchaseOrderDerived, cal *WeekCalendar, params BusinessParameters) DashboardSummary {
	summary := DashboardSummary{
		Pipeline: make(map[PurchaseOrderStatus]int),
	}

	if len(pnl) > 0 {
		latest := pnl[len(pnl)-1]
		currentYear := cal.DateOrFallback(latest.WeekNumber).Year()
		for _, week := range pnl {
			if cal.DateOrFallback(week.WeekNumber).Year() == currentYear {
				summary.RevenueYTD = summary.RevenueYTD.Add(week.Revenue)
			}
		}
	}
	if len(cash) > 0 {
		summary.CashBalance = cash[len(cash)-1].CashBalance
	}

	for _, po := range orders {
		summary.Pipeline[po.Status]++
	}

	latestByProduct := make(map[uuid.UUID]SalesPlanWeek)
	for _, row := range plan {
		if prev, ok := latestByProduct[row.ProductID]; !ok || row.WeekNumber > prev.WeekNumber {
			latestByProduct[row.ProductID] = row
		}
	}
	for _, row := range latestByProduct {
		lowStock := row.StockWeeksRemaining != nil &&
			row.StockWeeksRemaining.LessThan(params.StockWarningWeeks)
		summary.Inventory = append(summary.Inventory, InventoryPosition{
			ProductID:           row.ProductID,
			WeekNumber:          row.WeekNumber,
			StockEnd:            row.StockEnd,
			StockWeeksRemaining: row.StockWeeksRemaining,
			LowStock:            lowStock,
		})
	}
	sort.Slice(summary.Inventory, func(i, j int) bool {
		return summary.Inventory[i].ProductID.String() < summary.Inventory[j].ProductID.String()
	})

	return summary
}
