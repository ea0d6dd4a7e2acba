package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBusinessParameters(t *testing.T) {
	t.Run("empty input yields defaults", func(t *testing.T) {
		p := ParseBusinessParameters(nil)

		assert.True(t, p.StartingCash.IsZero())
		assert.Equal(t, 2, p.AmazonPayoutDelayWeeks)
		assert.Equal(t, 4.0, p.SupplierPaymentTermsWeeks)
		require.Len(t, p.SupplierPaymentSplit, 3)
		assert.Equal(t, "0.3", p.SupplierPaymentSplit[0].String())
		assert.Equal(t, "0.4", p.SupplierPaymentSplit[2].String())
		assert.Equal(t, "6", p.StockWarningWeeks.String())
	})

	t.Run("parses the full parameter set", func(t *testing.T) {
		p := ParseBusinessParameters(map[string]string{
			ParamStartingCash:           "25000.50",
			ParamAmazonPayoutDelayWeeks: "3",
			ParamWeeklyFixedCosts:       "1200",
			ParamSupplierPaymentTerms:   "2.5",
			ParamSupplierPaymentSplit:   "0.5, 0.5",
			ParamStockWarningWeeks:      "8",
		})

		assert.Equal(t, "25000.5", p.StartingCash.String())
		assert.Equal(t, 3, p.AmazonPayoutDelayWeeks)
		assert.Equal(t, "1200", p.WeeklyFixedCosts.String())
		assert.Equal(t, 2.5, p.SupplierPaymentTermsWeeks)
		require.Len(t, p.SupplierPaymentSplit, 2)
		assert.Equal(t, "0.5", p.SupplierPaymentSplit[0].String())
		assert.Equal(t, "8", p.StockWarningWeeks.String())
	})

	t.Run("unparseable values degrade to defaults", func(t *testing.T) {
		p := ParseBusinessParameters(map[string]string{
			ParamStartingCash:           "lots",
			ParamAmazonPayoutDelayWeeks: "-1",
			ParamSupplierPaymentTerms:   "soon",
			ParamSupplierPaymentSplit:   "0.5,banana",
			ParamStockWarningWeeks:      "-2",
		})

		defaults := DefaultBusinessParameters()
		assert.True(t, p.StartingCash.Equal(defaults.StartingCash))
		assert.Equal(t, defaults.AmazonPayoutDelayWeeks, p.AmazonPayoutDelayWeeks)
		assert.Equal(t, defaults.SupplierPaymentTermsWeeks, p.SupplierPaymentTermsWeeks)
		require.Len(t, p.SupplierPaymentSplit, 3)
		assert.Equal(t, "6", p.StockWarningWeeks.String())
	})

	t.Run("unknown names and blank values are ignored", func(t *testing.T) {
		p := ParseBusinessParameters(map[string]string{
			"reorder_threshold":   "10",
			ParamStartingCash:     "   ",
			ParamWeeklyFixedCosts: " 300 ",
		})

		assert.True(t, p.StartingCash.IsZero())
		assert.Equal(t, "300", p.WeeklyFixedCosts.String())
	})
}
