package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xplan/backend/internal/domain/planning"
)

// DerivedPurchaseOrderModel is the persisted projection of one purchase
// order: resolved timeline, invoice totals, and payment schedule. It shares
// its primary key with the owning purchase order row.
type DerivedPurchaseOrderModel struct {
	ID                   uuid.UUID                    `gorm:"type:uuid;primary_key"`
	OrderCode            string                       `gorm:"type:varchar(64);not null;index"`
	ProductID            uuid.UUID                    `gorm:"type:uuid;not null;index"`
	Quantity             int64                        `gorm:"not null"`
	Status               planning.PurchaseOrderStatus `gorm:"type:varchar(20);not null"`
	ProductionStart      time.Time                    `gorm:"not null"`
	ProductionComplete   time.Time                    `gorm:"not null"`
	SourceDeparture      time.Time                    `gorm:"not null"`
	PortETA              time.Time                    `gorm:"not null"`
	AvailableDate        time.Time                    `gorm:"not null;index"`
	TotalLeadDays        int                          `gorm:"not null"`
	LandedUnitCost       decimal.Decimal              `gorm:"type:decimal(18,4);not null"`
	PlannedPOValue       decimal.Decimal              `gorm:"type:decimal(18,4);not null"`
	ManufacturingInvoice decimal.Decimal              `gorm:"type:decimal(18,4);not null"`
	FreightInvoice       decimal.Decimal              `gorm:"type:decimal(18,4);not null"`
	Payments             []DerivedPaymentModel        `gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (DerivedPurchaseOrderModel) TableName() string {
	return "derived_purchase_orders"
}

// DerivedPurchaseOrderModelFromDomain builds the persistence model from a
// derived purchase order.
func DerivedPurchaseOrderModelFromDomain(po planning.PurchaseOrderDerived) DerivedPurchaseOrderModel {
	m := DerivedPurchaseOrderModel{
		ID:                   po.ID,
		OrderCode:            po.OrderCode,
		ProductID:            po.ProductID,
		Quantity:             po.Quantity,
		Status:               po.Status,
		ProductionStart:      po.ProductionStart,
		ProductionComplete:   po.ProductionComplete,
		SourceDeparture:      po.SourceDeparture,
		PortETA:              po.PortETA,
		AvailableDate:        po.AvailableDate,
		TotalLeadDays:        po.TotalLeadDays,
		LandedUnitCost:       po.LandedUnitCost,
		PlannedPOValue:       po.PlannedPOValue,
		ManufacturingInvoice: po.ManufacturingInvoice,
		FreightInvoice:       po.FreightInvoice,
	}
	for _, p := range po.Payments {
		m.Payments = append(m.Payments, DerivedPaymentModel{
			PurchaseOrderID:  po.ID,
			InstallmentIndex: p.Index,
			Amount:           p.Amount,
			DueDate:          p.DueDate,
		})
	}
	return m
}

// DerivedPaymentModel is one resolved installment of a derived purchase
// order's payment schedule.
type DerivedPaymentModel struct {
	ID               int64           `gorm:"primaryKey;autoIncrement"`
	PurchaseOrderID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	InstallmentIndex int             `gorm:"not null"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DueDate          time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (DerivedPaymentModel) TableName() string {
	return "derived_purchase_order_payments"
}

// SalesPlanWeekModel is the persisted weekly inventory projection for one
// product.
type SalesPlanWeekModel struct {
	ID                  int64            `gorm:"primaryKey;autoIncrement"`
	ProductID           uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_sales_plan_product_week,priority:1"`
	WeekNumber          int              `gorm:"not null;uniqueIndex:idx_sales_plan_product_week,priority:2"`
	WeekDate            time.Time        `gorm:"not null"`
	StockStart          decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	FinalSales          decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Arrivals            decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	StockEnd            decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	StockWeeksRemaining *decimal.Decimal `gorm:"type:decimal(18,4)"`
}

// TableName returns the table name for GORM
func (SalesPlanWeekModel) TableName() string {
	return "sales_plan_weeks"
}

// SalesPlanWeekModelFromDomain builds the persistence model from a derived
// sales plan week.
func SalesPlanWeekModelFromDomain(row planning.SalesPlanWeek) SalesPlanWeekModel {
	return SalesPlanWeekModel{
		ProductID:           row.ProductID,
		WeekNumber:          row.WeekNumber,
		WeekDate:            row.WeekDate,
		StockStart:          row.StockStart,
		FinalSales:          row.FinalSales,
		Arrivals:            row.Arrivals,
		StockEnd:            row.StockEnd,
		StockWeeksRemaining: row.StockWeeksRemaining,
	}
}

// PnlWeekModel is the persisted weekly P&L record.
type PnlWeekModel struct {
	WeekNumber  int              `gorm:"primaryKey;autoIncrement:false"`
	WeekDate    time.Time        `gorm:"not null"`
	Units       decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Revenue     decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	COGS        decimal.Decimal  `gorm:"column:cogs;type:decimal(18,4);not null"`
	GrossProfit decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	GrossMargin *decimal.Decimal `gorm:"type:decimal(9,6)"`
	AmazonFees  decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	PPCSpend    decimal.Decimal  `gorm:"column:ppc_spend;type:decimal(18,4);not null"`
	FixedCosts  decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	TotalOpex   decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	NetProfit   decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (PnlWeekModel) TableName() string {
	return "pnl_weeks"
}

// PnlWeekModelFromDomain builds the persistence model from a derived weekly
// P&L record.
func PnlWeekModelFromDomain(week planning.ProfitAndLossWeek) PnlWeekModel {
	return PnlWeekModel{
		WeekNumber:  week.WeekNumber,
		WeekDate:    week.WeekDate,
		Units:       week.Units,
		Revenue:     week.Revenue,
		COGS:        week.COGS,
		GrossProfit: week.GrossProfit,
		GrossMargin: week.GrossMargin,
		AmazonFees:  week.AmazonFees,
		PPCSpend:    week.PPCSpend,
		FixedCosts:  week.FixedCosts,
		TotalOpex:   week.TotalOpex,
		NetProfit:   week.NetProfit,
	}
}

// CashFlowWeekModel is the persisted weekly cash-flow record.
type CashFlowWeekModel struct {
	WeekNumber     int             `gorm:"primaryKey;autoIncrement:false"`
	WeekDate       time.Time       `gorm:"not null"`
	AmazonPayout   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	InventorySpend decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	FixedCosts     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	NetCash        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CashBalance    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (CashFlowWeekModel) TableName() string {
	return "cash_flow_weeks"
}

// CashFlowWeekModelFromDomain builds the persistence model from a derived
// weekly cash-flow record.
func CashFlowWeekModelFromDomain(week planning.CashFlowWeek) CashFlowWeekModel {
	return CashFlowWeekModel{
		WeekNumber:     week.WeekNumber,
		WeekDate:       week.WeekDate,
		AmazonPayout:   week.AmazonPayout,
		InventorySpend: week.InventorySpend,
		FixedCosts:     week.FixedCosts,
		NetCash:        week.NetCash,
		CashBalance:    week.CashBalance,
	}
}

// PeriodTotalColumns are the summed flow fields shared by the monthly and
// quarterly summary tables.
type PeriodTotalColumns struct {
	Revenue        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	COGS           decimal.Decimal `gorm:"column:cogs;type:decimal(18,4);not null"`
	GrossProfit    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AmazonFees     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PPCSpend       decimal.Decimal `gorm:"column:ppc_spend;type:decimal(18,4);not null"`
	FixedCosts     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	NetProfit      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AmazonPayout   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	InventorySpend decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	NetCash        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ClosingCash    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// PeriodTotalColumnsFromDomain builds the shared columns from period totals
func PeriodTotalColumnsFromDomain(t planning.PeriodTotals) PeriodTotalColumns {
	return PeriodTotalColumns{
		Revenue:        t.Revenue,
		COGS:           t.COGS,
		GrossProfit:    t.GrossProfit,
		AmazonFees:     t.AmazonFees,
		PPCSpend:       t.PPCSpend,
		FixedCosts:     t.FixedCosts,
		NetProfit:      t.NetProfit,
		AmazonPayout:   t.AmazonPayout,
		InventorySpend: t.InventorySpend,
		NetCash:        t.NetCash,
		ClosingCash:    t.ClosingCash,
	}
}

// MonthlySummaryModel is the persisted per (year, month) roll-up.
type MonthlySummaryModel struct {
	Year  int `gorm:"primaryKey;autoIncrement:false"`
	Month int `gorm:"primaryKey;autoIncrement:false"`
	PeriodTotalColumns
}

// TableName returns the table name for GORM
func (MonthlySummaryModel) TableName() string {
	return "monthly_summaries"
}

// MonthlySummaryModelFromDomain builds the persistence model from a monthly
// summary.
func MonthlySummaryModelFromDomain(s planning.MonthlySummary) MonthlySummaryModel {
	return MonthlySummaryModel{
		Year:               s.Year,
		Month:              s.Month,
		PeriodTotalColumns: PeriodTotalColumnsFromDomain(s.PeriodTotals),
	}
}

// QuarterlySummaryModel is the persisted per (year, quarter) roll-up.
type QuarterlySummaryModel struct {
	Year    int `gorm:"primaryKey;autoIncrement:false"`
	Quarter int `gorm:"primaryKey;autoIncrement:false"`
	PeriodTotalColumns
}

// TableName returns the table name for GORM
func (QuarterlySummaryModel) TableName() string {
	return "quarterly_summaries"
}

// QuarterlySummaryModelFromDomain builds the persistence model from a
// quarterly summary.
func QuarterlySummaryModelFromDomain(s planning.QuarterlySummary) QuarterlySummaryModel {
	return QuarterlySummaryModel{
		Year:               s.Year,
		Quarter:            s.Quarter,
		PeriodTotalColumns: PeriodTotalColumnsFromDomain(s.PeriodTotals),
	}
}
