package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xplan/backend/internal/domain/planning"
)

// WeekCalendarModel is one row of the planning week calendar.
type WeekCalendarModel struct {
	WeekNumber int       `gorm:"primaryKey;autoIncrement:false"`
	WeekDate   time.Time `gorm:"not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (WeekCalendarModel) TableName() string {
	return "week_calendar"
}

// ToDomain converts the model to a domain WeekRecord
func (m *WeekCalendarModel) ToDomain() planning.WeekRecord {
	return planning.WeekRecord{
		WeekNumber: m.WeekNumber,
		WeekDate:   m.WeekDate.UTC(),
	}
}

// ProductModel is the persistence model for a catalog product with its
// baseline unit economics.
type ProductModel struct {
	BaseModel
	Name              string          `gorm:"type:varchar(200);not null"`
	SKU               string          `gorm:"type:varchar(64);not null;uniqueIndex"`
	SellingPrice      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ManufacturingCost decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	FreightCost       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TariffRate        decimal.Decimal `gorm:"type:decimal(9,6);not null;default:0"`
	TacosRate         decimal.Decimal `gorm:"type:decimal(9,6);not null;default:0"`
	FulfillmentFee    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReferralRate      decimal.Decimal `gorm:"type:decimal(9,6);not null;default:0"`
	StorageFeeMonthly decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the model to a domain Product
func (m *ProductModel) ToDomain() planning.Product {
	return planning.Product{
		ID:                m.ID,
		Name:              m.Name,
		SKU:               m.SKU,
		SellingPrice:      m.SellingPrice,
		ManufacturingCost: m.ManufacturingCost,
		FreightCost:       m.FreightCost,
		TariffRate:        m.TariffRate,
		TacosRate:         m.TacosRate,
		FulfillmentFee:    m.FulfillmentFee,
		ReferralRate:      m.ReferralRate,
		StorageFeeMonthly: m.StorageFeeMonthly,
	}
}

// CostOverrideColumns are the nullable per-term and per-order cost override
// fields, shared by sales terms and purchase orders.
type CostOverrideColumns struct {
	SellingPrice      *decimal.Decimal `gorm:"type:decimal(18,4)"`
	ManufacturingCost *decimal.Decimal `gorm:"type:decimal(18,4)"`
	FreightCost       *decimal.Decimal `gorm:"type:decimal(18,4)"`
	TariffRate        *decimal.Decimal `gorm:"type:decimal(9,6)"`
	TacosRate         *decimal.Decimal `gorm:"type:decimal(9,6)"`
	FulfillmentFee    *decimal.Decimal `gorm:"type:decimal(18,4)"`
	ReferralRate      *decimal.Decimal `gorm:"type:decimal(9,6)"`
	StorageFeeMonthly *decimal.Decimal `gorm:"type:decimal(18,4)"`
}

// toDomain converts the override columns to domain CostOverrides
func (c *CostOverrideColumns) toDomain() planning.CostOverrides {
	return planning.CostOverrides{
		SellingPrice:      c.SellingPrice,
		ManufacturingCost: c.ManufacturingCost,
		FreightCost:       c.FreightCost,
		TariffRate:        c.TariffRate,
		TacosRate:         c.TacosRate,
		FulfillmentFee:    c.FulfillmentFee,
		ReferralRate:      c.ReferralRate,
		StorageFeeMonthly: c.StorageFeeMonthly,
	}
}

// isEmpty reports whether every override column is null
func (c *CostOverrideColumns) isEmpty() bool {
	return c.SellingPrice == nil && c.ManufacturingCost == nil && c.FreightCost == nil &&
		c.TariffRate == nil && c.TacosRate == nil && c.FulfillmentFee == nil &&
		c.ReferralRate == nil && c.StorageFeeMonthly == nil
}

// ProductSalesTermModel is the persistence model for a date-ranged product
// cost override.
type ProductSalesTermModel struct {
	BaseModel
	ProductID uuid.UUID  `gorm:"type:uuid;not null;index"`
	StartDate time.Time  `gorm:"not null"`
	EndDate   *time.Time `gorm:""`
	CostOverrideColumns
}

// TableName returns the table name for GORM
func (ProductSalesTermModel) TableName() string {
	return "product_sales_terms"
}

// ToDomain converts the model to a domain ProductSalesTerm
func (m *ProductSalesTermModel) ToDomain() planning.ProductSalesTerm {
	term := planning.ProductSalesTerm{
		ProductID: m.ProductID,
		StartDate: m.StartDate.UTC(),
		Overrides: m.CostOverrideColumns.toDomain(),
	}
	if m.EndDate != nil {
		end := m.EndDate.UTC()
		term.EndDate = &end
	}
	return term
}

// LeadStageTemplateModel is the persistence model for one ordered lead-time
// stage with its default duration.
type LeadStageTemplateModel struct {
	Stage         planning.LeadStage `gorm:"type:varchar(20);primaryKey"`
	Name          string             `gorm:"type:varchar(100);not null"`
	SequenceIndex int                `gorm:"not null;uniqueIndex"`
	DefaultWeeks  float64            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LeadStageTemplateModel) TableName() string {
	return "lead_stage_templates"
}

// ToDomain converts the model to a domain LeadStageTemplate
func (m *LeadStageTemplateModel) ToDomain() planning.LeadStageTemplate {
	return planning.LeadStageTemplate{
		Stage:         m.Stage,
		Name:          m.Name,
		SequenceIndex: m.SequenceIndex,
		DefaultWeeks:  m.DefaultWeeks,
	}
}

// LeadTimeOverrideModel is the persistence model for a per-product stage
// duration override.
type LeadTimeOverrideModel struct {
	BaseModel
	ProductID uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_lead_override_product_stage,priority:1"`
	Stage     planning.LeadStage `gorm:"type:varchar(20);not null;uniqueIndex:idx_lead_override_product_stage,priority:2"`
	Weeks     float64            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LeadTimeOverrideModel) TableName() string {
	return "lead_time_overrides"
}

// ToDomain converts the model to a domain LeadTimeOverride
func (m *LeadTimeOverrideModel) ToDomain() planning.LeadTimeOverride {
	return planning.LeadTimeOverride{
		ProductID: m.ProductID,
		Stage:     m.Stage,
		Weeks:     m.Weeks,
	}
}

// PurchaseOrderModel is the persistence model for an owned purchase order,
// including nullable per-order stage and cost overrides.
type PurchaseOrderModel struct {
	BaseModel
	OrderCode       string                       `gorm:"type:varchar(64);not null;uniqueIndex"`
	ProductID       uuid.UUID                    `gorm:"type:uuid;not null;index"`
	Quantity        int64                        `gorm:"not null"`
	ProductionStart time.Time                    `gorm:"not null"`
	Status          planning.PurchaseOrderStatus `gorm:"type:varchar(20);not null;index"`
	ProductionWeeks *float64                     `gorm:""`
	SourcePrepWeeks *float64                     `gorm:""`
	OceanWeeks      *float64                     `gorm:""`
	FinalMileWeeks  *float64                     `gorm:""`
	CostOverrideColumns
	Payments []PurchaseOrderPaymentModel `gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToDomain converts the model to a domain PurchaseOrderInput
func (m *PurchaseOrderModel) ToDomain() planning.PurchaseOrderInput {
	in := planning.PurchaseOrderInput{
		ID:              m.ID,
		OrderCode:       m.OrderCode,
		ProductID:       m.ProductID,
		Quantity:        m.Quantity,
		ProductionStart: m.ProductionStart.UTC(),
		Status:          m.Status,
		Stages: planning.StageOverrides{
			ProductionWeeks: m.ProductionWeeks,
			SourcePrepWeeks: m.SourcePrepWeeks,
			OceanWeeks:      m.OceanWeeks,
			FinalMileWeeks:  m.FinalMileWeeks,
		},
	}
	if !m.CostOverrideColumns.isEmpty() {
		overrides := m.CostOverrideColumns.toDomain()
		in.Overrides = &overrides
	}
	for _, p := range m.Payments {
		in.Payments = append(in.Payments, p.ToDomain())
	}
	return in
}

// PurchaseOrderPaymentModel is one installment specification on a purchase
// order. Percentage and Amount are alternative specifications.
type PurchaseOrderPaymentModel struct {
	ID               uuid.UUID        `gorm:"type:uuid;primary_key"`
	PurchaseOrderID  uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_po_payment_order_index,priority:1"`
	InstallmentIndex int              `gorm:"not null;uniqueIndex:idx_po_payment_order_index,priority:2"`
	Percentage       *decimal.Decimal `gorm:"type:decimal(9,6)"`
	Amount           *decimal.Decimal `gorm:"type:decimal(18,4)"`
	DueDate          *time.Time       `gorm:""`
}

// TableName returns the table name for GORM
func (PurchaseOrderPaymentModel) TableName() string {
	return "purchase_order_payments"
}

// ToDomain converts the model to a domain PaymentInput
func (m *PurchaseOrderPaymentModel) ToDomain() planning.PaymentInput {
	in := planning.PaymentInput{
		Percentage: m.Percentage,
		Amount:     m.Amount,
	}
	if m.DueDate != nil {
		due := m.DueDate.UTC()
		in.DueDate = &due
	}
	return in
}

// SalesWeekModel is the persistence model for one (product, week) sales row.
type SalesWeekModel struct {
	BaseModel
	ProductID     uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_sales_week_product_week,priority:1"`
	WeekNumber    int              `gorm:"not null;uniqueIndex:idx_sales_week_product_week,priority:2"`
	WeekDate      time.Time        `gorm:"not null"`
	StartingStock decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	ActualSales   *decimal.Decimal `gorm:"type:decimal(18,4)"`
	ForecastSales decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (SalesWeekModel) TableName() string {
	return "sales_weeks"
}

// ToDomain converts the model to a domain SalesWeek
func (m *SalesWeekModel) ToDomain() planning.SalesWeek {
	return planning.SalesWeek{
		ProductID:     m.ProductID,
		WeekNumber:    m.WeekNumber,
		WeekDate:      m.WeekDate.UTC(),
		StartingStock: m.StartingStock,
		ActualSales:   m.ActualSales,
		ForecastSales: m.ForecastSales,
	}
}

// BusinessParameterModel is one named scalar planning parameter.
type BusinessParameterModel struct {
	Name  string `gorm:"type:varchar(64);primaryKey"`
	Value string `gorm:"type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (BusinessParameterModel) TableName() string {
	return "business_parameters"
}
