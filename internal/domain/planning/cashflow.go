package planning

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashFlowWeek is the derived weekly cash record: payout timing applied to
// revenue, supplier installments due in the week, and the running balance.
type CashFlowWeek struct {
	WeekNumber     int
	WeekDate       time.Time
	AmazonPayout   decimal.Decimal
	InventorySpend decimal.Decimal
	FixedCosts     decimal.Decimal
	NetCash        decimal.Decimal
	CashBalance    decimal.Decimal
}

// ProjectCashFlow applies payment-timing rules to the weekly P&L series and
// purchase-order payment schedules. Revenue earned in week N pays out in
// week N + the configured delay. Only committed orders' installments hit
// cash (see PurchaseOrderStatus.CommitsCash). The balance is a strict
// sequential fold seeded from the starting cash parameter. The series
// covers the P&L weeks and extends through any committed installments due
// later in the calendar, so an order is always shown fully paid.
func ProjectCashFlow(pnl []ProfitAndLossWeek, orders []PurchaseOrderDerived, cal *WeekCalendar, params BusinessParameters) []CashFlowWeek {
	revenueByWeek := make(map[int]decimal.Decimal, len(pnl))
	for _, week := range pnl {
		revenueByWeek[week.WeekNumber] = week.Revenue
	}

	spendByWeek := make(map[int]decimal.Decimal)
	for _, po := range orders {
		if !po.Status.CommitsCash() {
			continue
		}
		for _, installment := range po.Payments {
			if week, ok := cal.WeekForDate(installment.DueDate); ok {
				spendByWeek[week] = spendByWeek[week].Add(installment.Amount)
			}
		}
	}

	out := make([]CashFlowWeek, 0, len(pnl))
	balance := params.StartingCash
	for _, week := range pnl {
		payout := revenueByWeek[week.WeekNumber-params.AmazonPayoutDelayWeeks]
		spend := spendByWeek[week.WeekNumber]
		netCash := payout.Sub(spend).Sub(week.FixedCosts)
		balance = balance.Add(netCash)

		out = append(out, CashFlowWeek{
			WeekNumber:     week.WeekNumber,
			WeekDate:       week.WeekDate,
			AmazonPayout:   payout,
			InventorySpend: spend,
			FixedCosts:     week.FixedCosts,
			NetCash:        netCash,
			CashBalance:    balance,
		})
	}

	// Committed installments can fall due after the last planned sales
	// week; keep folding until the payment schedule is exhausted.
	tailFrom, tailTo := 0, 0
	for wk := range spendByWeek {
		if tailFrom == 0 || wk < tailFrom {
			tailFrom = wk
		}
		if wk > tailTo {
			tailTo = wk
		}
	}
	if len(pnl) > 0 {
		tailFrom = pnl[len(pnl)-1].WeekNumber + 1
	}
	for wk := tailFrom; tailFrom > 0 && wk <= tailTo; wk++ {
		payout := revenueByWeek[wk-params.AmazonPayoutDelayWeeks]
		spend := spendByWeek[wk]
		netCash := payout.Sub(spend).Sub(params.WeeklyFixedCosts)
		balance = balance.Add(netCash)

		out = append(out, CashFlowWeek{
			WeekNumber:     wk,
			WeekDate:       cal.DateOrFallback(wk),
			AmazonPayout:   payout,
			InventorySpend: spend,
			FixedCosts:     params.WeeklyFixedCosts,
			NetCash:        netCash,
			CashBalance:    balance,
		})
	}
	return out
}
