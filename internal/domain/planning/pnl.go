package planning

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProfitAndLossWeek is the derived weekly P&L record. GrossMargin is nil
// when revenue is zero.
type ProfitAndLossWeek struct {
	WeekNumber  int
	WeekDate    time.Time
	Units       decimal.Decimal
	Revenue     decimal.Decimal
	COGS        decimal.Decimal
	GrossProfit decimal.Decimal
	GrossMargin *decimal.Decimal
	AmazonFees  decimal.Decimal
	PPCSpend    decimal.Decimal
	FixedCosts  decimal.Decimal
	TotalOpex   decimal.Decimal
	NetProfit   decimal.Decimal
}

// AggregateProfitAndLoss maps the sales plan and resolved product costs into
// the weekly P&L series. COGS is priced at the landed unit cost of each
// product's current profile; unit-level lot tracking is unavailable, so the
// current profile approximates the cost of units sold that week.
func AggregateProfitAndLoss(plan []SalesPlanWeek, profiles map[uuid.UUID]CostProfile, params BusinessParameters) []ProfitAndLossWeek {
	type tally struct {
		units, revenue, cogs, fees, ppc decimal.Decimal
	}

	weekDates := make(map[int]time.Time)
	tallies := make(map[int]*tally)
	for _, row := range plan {
		costs, ok := profiles[row.ProductID]
		if !ok {
			continue
		}
		t := tallies[row.WeekNumber]
		if t == nil {
			t = &tally{}
			tallies[row.WeekNumber] = t
			weekDates[row.WeekNumber] = row.WeekDate
		}

		units := row.FinalSales
		t.units = t.units.Add(units)
		t.revenue = t.revenue.Add(units.Mul(costs.SellingPrice))
		t.cogs = t.cogs.Add(units.Mul(costs.LandedUnitCost()))
		t.fees = t.fees.Add(units.Mul(costs.FulfillmentFee.Add(costs.ReferralRate.Mul(costs.SellingPrice))))
		t.ppc = t.ppc.Add(units.Mul(costs.SellingPrice).Mul(costs.TacosRate))
	}

	weeks := make([]int, 0, len(tallies))
	for wk := range tallies {
		weeks = append(weeks, wk)
	}
	sort.Ints(weeks)

	out := make([]ProfitAndLossWeek, 0, len(weeks))
	for _, wk := range weeks {
		t := tallies[wk]
		grossProfit := t.revenue.Sub(t.cogs)
		totalOpex := t.fees.Add(t.ppc).Add(params.WeeklyFixedCosts)

		var margin *decimal.Decimal
		if !t.revenue.IsZero() {
			m := grossProfit.Div(t.revenue)
			margin = &m
		}

		out = append(out, ProfitAndLossWeek{
			WeekNumber:  wk,
			WeekDate:    weekDates[wk],
			Units:       t.units,
			Revenue:     t.revenue,
			COGS:        t.cogs,
			GrossProfit: grossProfit,
			GrossMargin: margin,
			AmazonFees:  t.fees,
			PPCSpend:    t.ppc,
			FixedCosts:  params.WeeklyFixedCosts,
			TotalOpex:   totalOpex,
			NetProfit:   grossProfit.Sub(totalOpex),
		})
	}
	return out
}
