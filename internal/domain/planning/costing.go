package planning

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product carries the baseline commercial attributes of one catalog item.
// All rate fields are fractions in [0,1]; whole-percent UI input is
// normalized at the ingestion boundary, never here.
type Product struct {
	ID                uuid.UUID
	Name              string
	SKU               string
	SellingPrice      decimal.Decimal
	ManufacturingCost decimal.Decimal
	FreightCost       decimal.Decimal
	TariffRate        decimal.Decimal
	TacosRate         decimal.Decimal
	FulfillmentFee    decimal.Decimal
	ReferralRate      decimal.Decimal
	StorageFeeMonthly decimal.Decimal
}

// CostOverrides is the exhaustively-enumerated set of per-order or per-term
// cost override fields. A nil field inherits from the next precedence level.
type CostOverrides struct {
	SellingPrice      *decimal.Decimal
	ManufacturingCost *decimal.Decimal
	FreightCost       *decimal.Decimal
	TariffRate        *decimal.Decimal
	TacosRate         *decimal.Decimal
	FulfillmentFee    *decimal.Decimal
	ReferralRate      *decimal.Decimal
	StorageFeeMonthly *decimal.Decimal
}

// ProductSalesTerm overrides product cost fields for an effective date range.
// A nil EndDate means the term is open-ended.
type ProductSalesTerm struct {
	ProductID uuid.UUID
	StartDate time.Time
	EndDate   *time.Time
	Overrides CostOverrides
}

// ActiveOn reports whether the term covers the given date.
func (t ProductSalesTerm) ActiveOn(date time.Time) bool {
	if date.Before(t.StartDate) {
		return false
	}
	return t.EndDate == nil || !date.After(*t.EndDate)
}

// CostProfile is the fully resolved unit economics for one product in the
// context of one order, batch, or reporting date.
type CostProfile struct {
	SellingPrice      decimal.Decimal
	ManufacturingCost decimal.Decimal
	FreightCost       decimal.Decimal
	TariffRate        decimal.Decimal
	TacosRate         decimal.Decimal
	FulfillmentFee    decimal.Decimal
	ReferralRate      decimal.Decimal
	StorageFeeMonthly decimal.Decimal
}

// LandedUnitCost is the total cost to get one unit sellable: manufacturing,
// freight, tariff on the selling price, fulfillment fee, and the monthly
// storage fee equivalent.
func (c CostProfile) LandedUnitCost() decimal.Decimal {
	return c.ManufacturingCost.
		Add(c.FreightCost).
		Add(c.SellingPrice.Mul(c.TariffRate)).
		Add(c.FulfillmentFee).
		Add(c.StorageFeeMonthly)
}

// ResolveCostProfile resolves effective unit economics for a product.
// Each field is resolved independently: order/batch override, else the
// field from a sales term active on asOf, else the product baseline.
func ResolveCostProfile(product Product, terms []ProductSalesTerm, asOf time.Time, order *CostOverrides) CostProfile {
	var term *CostOverrides
	for i := range terms {
		if terms[i].ProductID == product.ID && terms[i].ActiveOn(asOf) {
			term = &terms[i].Overrides
			break
		}
	}
	if order == nil {
		order = &CostOverrides{}
	}
	if term == nil {
		term = &CostOverrides{}
	}

	return CostProfile{
		SellingPrice:      resolveField(product.SellingPrice, term.SellingPrice, order.SellingPrice),
		ManufacturingCost: resolveField(product.ManufacturingCost, term.ManufacturingCost, order.ManufacturingCost),
		FreightCost:       resolveField(product.FreightCost, term.FreightCost, order.FreightCost),
		TariffRate:        resolveField(product.TariffRate, term.TariffRate, order.TariffRate),
		TacosRate:         resolveField(product.TacosRate, term.TacosRate, order.TacosRate),
		FulfillmentFee:    resolveField(product.FulfillmentFee, term.FulfillmentFee, order.FulfillmentFee),
		ReferralRate:      resolveField(product.ReferralRate, term.ReferralRate, order.ReferralRate),
		StorageFeeMonthly: resolveField(product.StorageFeeMonthly, term.StorageFeeMonthly, order.StorageFeeMonthly),
	}
}

// resolveField applies the precedence chain for a single field:
// order override > active term > baseline.
func resolveField(base decimal.Decimal, term, order *decimal.Decimal) decimal.Decimal {
	if order != nil {
		return *order
	}
	if term != nil {
		return *term
	}
	return base
}
