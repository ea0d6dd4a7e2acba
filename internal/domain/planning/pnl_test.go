package planning

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProfile() CostProfile {
	return ResolveCostProfile(testProduct(), nil, date(2024, time.January, 1), nil)
}

func planWeek(productID uuid.UUID, week int, sales string) SalesPlanWeek {
	return SalesPlanWeek{
		ProductID:  productID,
		WeekNumber: week,
		WeekDate:   date(2024, time.January, 1).AddDate(0, 0, (week-1)*7),
		FinalSales: dec(sales),
	}
}

func TestAggregateProfitAndLoss(t *testing.T) {
	productID := uuid.New()
	profiles := map[uuid.UUID]CostProfile{productID: testProfile()}
	params := testParams()

	t.Run("computes the weekly statement", func(t *testing.T) {
		pnl := AggregateProfitAndLoss([]SalesPlanWeek{planWeek(productID, 1, "50")}, profiles, params)

		require.Len(t, pnl, 1)
		week := pnl[0]
		assert.Equal(t, 1, week.WeekNumber)
		assert.Equal(t, "50", week.Units.String())
		assert.Equal(t, "500", week.Revenue.String())
		assert.Equal(t, "350", week.COGS.String()) // 50 units at landed cost 7
		assert.Equal(t, "150", week.GrossProfit.String())
		require.NotNil(t, week.GrossMargin)
		assert.Equal(t, "0.3", week.GrossMargin.String())
		assert.Equal(t, "175", week.AmazonFees.String()) // 50 * (2 + 0.15*10)
		assert.Equal(t, "50", week.PPCSpend.String())    // 50 * 10 * 0.1
		assert.Equal(t, "200", week.FixedCosts.String())
		assert.Equal(t, "425", week.TotalOpex.String())
		assert.Equal(t, "-275", week.NetProfit.String())
	})

	t.Run("net profit equals gross profit minus opex", func(t *testing.T) {
		plan := []SalesPlanWeek{
			planWeek(productID, 1, "50"),
			planWeek(productID, 2, "0"),
			planWeek(productID, 3, "80"),
		}
		for _, week := range AggregateProfitAndLoss(plan, profiles, params) {
			assert.True(t, week.NetProfit.Equal(week.GrossProfit.Sub(week.TotalOpex)),
				"week %d", week.WeekNumber)
			assert.True(t, week.TotalOpex.Equal(week.AmazonFees.Add(week.PPCSpend).Add(week.FixedCosts)),
				"week %d", week.WeekNumber)
		}
	})

	t.Run("gross margin is undefined on zero revenue", func(t *testing.T) {
		pnl := AggregateProfitAndLoss([]SalesPlanWeek{planWeek(productID, 1, "0")}, profiles, params)

		require.Len(t, pnl, 1)
		assert.Nil(t, pnl[0].GrossMargin)
		assert.Equal(t, "200", pnl[0].TotalOpex.String()) // fixed costs still accrue
		assert.Equal(t, "-200", pnl[0].NetProfit.String())
	})

	t.Run("fixed costs are charged once per week across products", func(t *testing.T) {
		other := uuid.New()
		multi := map[uuid.UUID]CostProfile{productID: testProfile(), other: testProfile()}
		pnl := AggregateProfitAndLoss([]SalesPlanWeek{
			planWeek(productID, 1, "20"),
			planWeek(other, 1, "30"),
		}, multi, params)

		require.Len(t, pnl, 1)
		assert.Equal(t, "50", pnl[0].Units.String())
		assert.Equal(t, "500", pnl[0].Revenue.String())
		assert.Equal(t, "200", pnl[0].FixedCosts.String())
	})

	t.Run("rows without a resolvable profile are skipped", func(t *testing.T) {
		pnl := AggregateProfitAndLoss([]SalesPlanWeek{
			planWeek(productID, 1, "50"),
			planWeek(uuid.New(), 1, "999"),
		}, profiles, params)

		require.Len(t, pnl, 1)
		assert.Equal(t, "500", pnl[0].Revenue.String())
	})

	t.Run("weeks come back in ascending order", func(t *testing.T) {
		pnl := AggregateProfitAndLoss([]SalesPlanWeek{
			planWeek(productID, 3, "10"),
			planWeek(productID, 1, "10"),
			planWeek(productID, 2, "10"),
		}, profiles, params)

		require.Len(t, pnl, 3)
		for i, week := range pnl {
			assert.Equal(t, i+1, week.WeekNumber)
		}
	})
}
