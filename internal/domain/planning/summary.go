package planning

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PeriodTotals holds the flow fields summed across a period plus the
// point-in-time closing cash balance carried from the period's last week.
type PeriodTotals struct {
	Revenue        decimal.Decimal
	COGS           decimal.Decimal
	GrossProfit    decimal.Decimal
	AmazonFees     decimal.Decimal
	PPCSpend       decimal.Decimal
	FixedCosts     decimal.Decimal
	NetProfit      decimal.Decimal
	AmazonPayout   decimal.Decimal
	InventorySpend decimal.Decimal
	NetCash        decimal.Decimal
	ClosingCash    decimal.Decimal
}

// MonthlySummary is the per (year, month) roll-up of the weekly series.
type MonthlySummary struct {
	Year  int
	Month int
	PeriodTotals
}

// QuarterlySummary is the per (year, quarter) roll-up of the weekly series,
// bounded by the calendar's year segments.
type QuarterlySummary struct {
	Year    int
	Quarter int
	PeriodTotals
}

// SummarizeMonthly groups the weekly P&L and cash series by the calendar
// month of each week's date. Flow fields are summed; ClosingCash is the
// last week's balance in the month.
func SummarizeMonthly(pnl []ProfitAndLossWeek, cash []CashFlowWeek, cal *WeekCalendar) []MonthlySummary {
	type key struct{ year, month int }

	totals := make(map[key]*PeriodTotals)
	lastWeek := make(map[key]int)
	for i := range pnl {
		d := cal.DateOrFallback(pnl[i].WeekNumber)
		k := key{d.Year(), int(d.Month())}
		if totals[k] == nil {
			totals[k] = &PeriodTotals{}
		}
		accumulate(totals[k], &pnl[i], cashAt(cash, pnl[i].WeekNumber))
		if pnl[i].WeekNumber > lastWeek[k] {
			lastWeek[k] = pnl[i].WeekNumber
		}
	}

	keys := make([]key, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	out := make([]MonthlySummary, 0, len(keys))
	for _, k := range keys {
		if c := cashAt(cash, lastWeek[k]); c != nil {
			totals[k].ClosingCash = c.CashBalance
		}
		out = append(out, MonthlySummary{Year: k.year, Month: k.month, PeriodTotals: *totals[k]})
	}
	return out
}

// SummarizeQuarterly rolls the weekly series up into the calendar's
// year/quarter segments.
func SummarizeQuarterly(pnl []ProfitAndLossWeek, cash []CashFlowWeek, cal *WeekCalendar) []QuarterlySummary {
	var out []QuarterlySummary
	for _, seg := range cal.Segments() {
		totals := PeriodTotals{}
		lastWeek := 0
		for i := range pnl {
			wk := pnl[i].WeekNumber
			if wk < seg.StartWeek || wk > seg.EndWeek {
				continue
			}
			accumulate(&totals, &pnl[i], cashAt(cash, wk))
			if wk > lastWeek {
				lastWeek = wk
			}
		}
		if lastWeek == 0 {
			continue // no planned weeks in this segment
		}
		if c := cashAt(cash, lastWeek); c != nil {
			totals.ClosingCash = c.CashBalance
		}
		out = append(out, QuarterlySummary{Year: seg.Year, Quarter: seg.Quarter, PeriodTotals: totals})
	}
	return out
}

// accumulate sums one week's flow fields into the period totals.
func accumulate(t *PeriodTotals, pnl *ProfitAndLossWeek, cash *CashFlowWeek) {
	t.Revenue = t.Revenue.Add(pnl.Revenue)
	t.COGS = t.COGS.Add(pnl.COGS)
	t.GrossProfit = t.GrossProfit.Add(pnl.GrossProfit)
	t.AmazonFees = t.AmazonFees.Add(pnl.AmazonFees)
	t.PPCSpend = t.PPCSpend.Add(pnl.PPCSpend)
	t.FixedCosts = t.FixedCosts.Add(pnl.FixedCosts)
	t.NetProfit = t.NetProfit.Add(pnl.NetProfit)
	if cash != nil {
		t.AmazonPayout = t.AmazonPayout.Add(cash.AmazonPayout)
		t.InventorySpend = t.InventorySpend.Add(cash.InventorySpend)
		t.NetCash = t.NetCash.Add(cash.NetCash)
	}
}

// cashAt finds the cash week matching a week number, nil when absent.
func cashAt(cash []CashFlowWeek, week int) *CashFlowWeek {
	for i := range cash {
		if cash[i].WeekNumber == week {
			return &cash[i]
		}
	}
	return nil
}
