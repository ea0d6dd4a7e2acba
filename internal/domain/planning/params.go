package planning

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Well-known business parameter names as stored in the parameters table.
const (
	ParamStartingCash           = "starting_cash"
	ParamAmazonPayoutDelayWeeks = "amazon_payout_delay_weeks"
	ParamWeeklyFixedCosts       = "weekly_fixed_costs"
	ParamSupplierPaymentTerms   = "supplier_payment_terms_weeks"
	ParamSupplierPaymentSplit   = "supplier_payment_split"
	ParamStockWarningWeeks      = "stock_warning_weeks"
)

// BusinessParameters is the flat set of named scalar planning parameters.
// It is read-only input to the engine.
type BusinessParameters struct {
	StartingCash              decimal.Decimal
	AmazonPayoutDelayWeeks    int
	WeeklyFixedCosts          decimal.Decimal
	SupplierPaymentTermsWeeks float64
	SupplierPaymentSplit      []decimal.Decimal
	StockWarningWeeks         decimal.Decimal
}

// DefaultBusinessParameters returns the standard parameter set used when the
// parameters table is empty or a value is missing.
func DefaultBusinessParameters() BusinessParameters {
	return BusinessParameters{
		StartingCash:              decimal.Zero,
		AmazonPayoutDelayWeeks:    2,
		WeeklyFixedCosts:          decimal.Zero,
		SupplierPaymentTermsWeeks: 4,
		SupplierPaymentSplit: []decimal.Decimal{
			decimal.NewFromFloat(0.3),
			decimal.NewFromFloat(0.3),
			decimal.NewFromFloat(0.4),
		},
		StockWarningWeeks: decimal.NewFromInt(6),
	}
}

// ParseBusinessParameters maps raw name/value rows onto BusinessParameters.
// Unknown names are ignored and unparseable values degrade to the defaults;
// missing or sparse parameters are never an error.
func ParseBusinessParameters(values map[string]string) BusinessParameters {
	p := DefaultBusinessParameters()
	for name, raw := range values {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		switch name {
		case ParamStartingCash:
			if d, err := decimal.NewFromString(raw); err == nil {
				p.StartingCash = d
			}
		case ParamAmazonPayoutDelayWeeks:
			if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
				p.AmazonPayoutDelayWeeks = n
			}
		case ParamWeeklyFixedCosts:
			if d, err := decimal.NewFromString(raw); err == nil {
				p.WeeklyFixedCosts = d
			}
		case ParamSupplierPaymentTerms:
			if f, err := strconv.ParseFloat(raw, 64); err == nil && f >= 0 {
				p.SupplierPaymentTermsWeeks = f
			}
		case ParamSupplierPaymentSplit:
			if split := parsePaymentSplit(raw); len(split) > 0 {
				p.SupplierPaymentSplit = split
			}
		case ParamStockWarningWeeks:
			if d, err := decimal.NewFromString(raw); err == nil && !d.IsNegative() {
				p.StockWarningWeeks = d
			}
		}
	}
	return p
}

// parsePaymentSplit parses a comma-separated list of fractions, e.g.
// "0.3,0.3,0.4". Returns nil when any element fails to parse.
func parsePaymentSplit(raw string) []decimal.Decimal {
	parts := strings.Split(raw, ",")
	split := make([]decimal.Decimal, 0, len(parts))
	for _, part := range parts {
		d, err := decimal.NewFromString(strings.TrimSpace(part))
		if err != nil || d.IsNegative() {
			return nil
		}
		split = append(split, d)
	}
	return split
}
