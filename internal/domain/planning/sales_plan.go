package planning

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// SalesWeek is one (product, week) input row. ActualSales is populated once
// the week has occurred; ForecastSales is always present. StartingStock is
// authoritative only for the first week of the product's range.
type SalesWeek struct {
	ProductID     uuid.UUID
	WeekNumber    int
	WeekDate      time.Time
	StartingStock decimal.Decimal
	ActualSales   *decimal.Decimal
	ForecastSales decimal.Decimal
}

// SalesPlanWeek is the derived per (product, week) inventory trajectory.
// A negative StockEnd is a backorder signal, not an error, and is carried
// forward unclamped. StockWeeksRemaining is nil when no sales history makes
// it definable.
type SalesPlanWeek struct {
	ProductID           uuid.UUID
	WeekNumber          int
	WeekDate            time.Time
	StockStart          decimal.Decimal
	FinalSales          decimal.Decimal
	Arrivals            decimal.Decimal
	StockEnd            decimal.Decimal
	StockWeeksRemaining *decimal.Decimal
}

// ProjectSalesPlan rolls weekly sales forward against starting inventory and
// incoming purchase-order arrivals. Rows within one product are an explicit
// sequential fold in ascending week order (stockStart depends on the prior
// stockEnd); independent products are projected concurrently.
func ProjectSalesPlan(rows []SalesWeek, orders []PurchaseOrderDerived, cal *WeekCalendar) []SalesPlanWeek {
	byProduct := make(map[uuid.UUID][]SalesWeek)
	for _, row := range rows {
		byProduct[row.ProductID] = append(byProduct[row.ProductID], row)
	}

	arrivals := arrivalsByProductWeek(orders, cal)

	products := make([]uuid.UUID, 0, len(byProduct))
	for id := range byProduct {
		products = append(products, id)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].String() < products[j].String() })

	results := make([][]SalesPlanWeek, len(products))
	var g errgroup.Group
	for i, id := range products {
		i, id := i, id
		g.Go(func() error {
			results[i] = projectProduct(byProduct[id], arrivals[id])
			return nil
		})
	}
	_ = g.Wait() // projections are pure and never fail

	var plan []SalesPlanWeek
	for _, r := range results {
		plan = append(plan, r...)
	}
	return plan
}

// projectProduct is the sequential fold over one product's week sequence.
func projectProduct(rows []SalesWeek, arrivals map[int]decimal.Decimal) []SalesPlanWeek {
	sort.Slice(rows, func(i, j int) bool { return rows[i].WeekNumber < rows[j].WeekNumber })

	out := make([]SalesPlanWeek, 0, len(rows))
	var stock decimal.Decimal
	salesSum := decimal.Zero
	for i, row := range rows {
		if i == 0 {
			stock = row.StartingStock
		}

		final := row.ForecastSales
		if row.ActualSales != nil {
			final = *row.ActualSales
		}

		arrived := arrivals[row.WeekNumber]
		stockEnd := stock.Add(arrived).Sub(final)

		salesSum = salesSum.Add(final)
		weeksRemaining := stockWeeksRemaining(stockEnd, salesSum, i+1)

		out = append(out, SalesPlanWeek{
			ProductID:           row.ProductID,
			WeekNumber:          row.WeekNumber,
			WeekDate:            row.WeekDate,
			StockStart:          stock,
			FinalSales:          final,
			Arrivals:            arrived,
			StockEnd:            stockEnd,
			StockWeeksRemaining: weeksRemaining,
		})
		stock = stockEnd
	}
	return out
}

// stockWeeksRemaining divides ending stock by the trailing average weekly
// sales. Nil when the average is zero or undefined; callers must treat nil
// as "undefined", not zero.
func stockWeeksRemaining(stockEnd, salesSum decimal.Decimal, weeks int) *decimal.Decimal {
	if weeks == 0 || !salesSum.IsPositive() {
		return nil
	}
	avg := salesSum.Div(decimal.NewFromInt(int64(weeks)))
	if !avg.IsPositive() {
		return nil
	}
	remaining := stockEnd.Div(avg)
	return &remaining
}

// arrivalsByProductWeek maps each projectable order's quantity onto the
// calendar week containing its available date. Arrivals landing outside the
// calendar bounds are dropped from the projection.
func arrivalsByProductWeek(orders []PurchaseOrderDerived, cal *WeekCalendar) map[uuid.UUID]map[int]decimal.Decimal {
	arrivals := make(map[uuid.UUID]map[int]decimal.Decimal)
	for _, po := range orders {
		if !po.Status.ProjectsArrival() {
			continue
		}
		week, ok := cal.WeekForDate(po.AvailableDate)
		if !ok {
			continue
		}
		if arrivals[po.ProductID] == nil {
			arrivals[po.ProductID] = make(map[int]decimal.Decimal)
		}
		arrivals[po.ProductID][week] = arrivals[po.ProductID][week].Add(decimal.NewFromInt(po.Quantity))
	}
	return arrivals
}
