package planning

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus represents the pipeline state of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusPlanned    PurchaseOrderStatus = "PLANNED"
	PurchaseOrderStatusProduction PurchaseOrderStatus = "PRODUCTION"
	PurchaseOrderStatusInTransit  PurchaseOrderStatus = "IN_TRANSIT"
	PurchaseOrderStatusArrived    PurchaseOrderStatus = "ARRIVED"
	PurchaseOrderStatusClosed     PurchaseOrderStatus = "CLOSED"
	PurchaseOrderStatusCancelled  PurchaseOrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusPlanned, PurchaseOrderStatusProduction, PurchaseOrderStatusInTransit,
		PurchaseOrderStatusArrived, PurchaseOrderStatusClosed, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// ProjectsArrival reports whether the order's incoming quantity should be
// projected into the sales plan. Every order except a cancelled one does:
// a planned order is still part of the forward plan.
func (s PurchaseOrderStatus) ProjectsArrival() bool {
	return s.IsValid() && s != PurchaseOrderStatusCancelled
}

// CommitsCash reports whether the order's payment schedule hits the cash
// flow projection. Only orders actually placed with the supplier move cash;
// a merely planned order is hypothetical and a cancelled one never pays.
func (s PurchaseOrderStatus) CommitsCash() bool {
	return s.ProjectsArrival() && s != PurchaseOrderStatusPlanned
}

// MaxPaymentInstallments caps the supplier payment schedule length.
const MaxPaymentInstallments = 3

// PaymentInput is one installment specification on a purchase order.
// Amount and Percentage are alternative specifications; when both are nil
// the installment falls back to the configured supplier split.
type PaymentInput struct {
	Percentage *decimal.Decimal
	Amount     *decimal.Decimal
	DueDate    *time.Time
}

// PurchaseOrderInput is one purchase order as supplied by the operations
// workflow, before derivation.
type PurchaseOrderInput struct {
	ID              uuid.UUID
	OrderCode       string
	ProductID       uuid.UUID
	Quantity        int64
	ProductionStart time.Time
	Status          PurchaseOrderStatus
	Stages          StageOverrides
	Payments        []PaymentInput
	Overrides       *CostOverrides
}

// PaymentInstallment is one resolved installment of the payment schedule.
type PaymentInstallment struct {
	Index   int // 1-based
	Amount  decimal.Decimal
	DueDate time.Time
}

// PurchaseOrderDerived is the recomputed-on-demand projection of a purchase
// order: stage timeline, landed cost totals, and payment schedule. It is
// never a source of truth.
type PurchaseOrderDerived struct {
	ID        uuid.UUID
	OrderCode string
	ProductID uuid.UUID
	Quantity  int64
	Status    PurchaseOrderStatus

	ProductionStart    time.Time
	ProductionComplete time.Time
	SourceDeparture    time.Time
	PortETA            time.Time
	AvailableDate      time.Time
	TotalLeadDays      int

	Costs                CostProfile
	LandedUnitCost       decimal.Decimal
	PlannedPOValue       decimal.Decimal
	ManufacturingInvoice decimal.Decimal
	FreightInvoice       decimal.Decimal

	Payments []PaymentInstallment
}

// DerivePurchaseOrder computes the full timeline, landed cost totals, and
// payment schedule for one order. The cost profile and stage durations must
// already be resolved for this order's product; the caller is responsible
// for that join.
func DerivePurchaseOrder(in PurchaseOrderInput, costs CostProfile, stages StageDurations, params BusinessParameters) PurchaseOrderDerived {
	qty := decimal.NewFromInt(in.Quantity)

	productionComplete := addWeeks(in.ProductionStart, stages.ProductionWeeks)
	sourceDeparture := addWeeks(productionComplete, stages.SourcePrepWeeks)
	portETA := addWeeks(sourceDeparture, stages.OceanWeeks)
	availableDate := addWeeks(portETA, stages.FinalMileWeeks)

	manufacturingInvoice := qty.Mul(costs.ManufacturingCost)
	freightInvoice := qty.Mul(costs.FreightCost)
	// Tariff and fees are landed-cost components, not supplier invoice lines.
	plannedPOValue := manufacturingInvoice.Add(freightInvoice)

	return PurchaseOrderDerived{
		ID:                   in.ID,
		OrderCode:            in.OrderCode,
		ProductID:            in.ProductID,
		Quantity:             in.Quantity,
		Status:               in.Status,
		ProductionStart:      in.ProductionStart,
		ProductionComplete:   productionComplete,
		SourceDeparture:      sourceDeparture,
		PortETA:              portETA,
		AvailableDate:        availableDate,
		TotalLeadDays:        daysBetween(in.ProductionStart, availableDate),
		Costs:                costs,
		LandedUnitCost:       costs.LandedUnitCost(),
		PlannedPOValue:       plannedPOValue,
		ManufacturingInvoice: manufacturingInvoice,
		FreightInvoice:       freightInvoice,
		Payments:             resolvePaymentSchedule(in, plannedPOValue, params),
	}
}

// resolvePaymentSchedule resolves up to MaxPaymentInstallments installments.
//
// Amount precedence per installment: explicit amount, else explicit
// percentage of the planned PO value, else the configured supplier split at
// the same index, else an equal share of the still-unallocated remainder
// (the documented last-resort policy for under-specified schedules).
// Explicit amounts are trusted as-is and never reconciled against the
// planned PO value.
//
// Due date: explicit date wins; otherwise production start plus the supplier
// payment terms times the 1-based installment index.
func resolvePaymentSchedule(in PurchaseOrderInput, plannedPOValue decimal.Decimal, params BusinessParameters) []PaymentInstallment {
	specs := in.Payments
	n := len(specs)
	if n == 0 {
		n = len(params.SupplierPaymentSplit)
		if n == 0 {
			n = 1
		}
		specs = make([]PaymentInput, min(n, MaxPaymentInstallments))
	}
	if n > MaxPaymentInstallments {
		n = MaxPaymentInstallments
		specs = specs[:n]
	}

	amounts := make([]*decimal.Decimal, n)
	allocated := decimal.Zero
	unresolved := 0
	for i, spec := range specs {
		switch {
		case spec.Amount != nil:
			amounts[i] = spec.Amount
		case spec.Percentage != nil:
			amt := plannedPOValue.Mul(*spec.Percentage)
			amounts[i] = &amt
		case i < len(params.SupplierPaymentSplit):
			amt := plannedPOValue.Mul(params.SupplierPaymentSplit[i])
			amounts[i] = &amt
		default:
			unresolved++
			continue
		}
		allocated = allocated.Add(*amounts[i])
	}
	if unresolved > 0 {
		share := plannedPOValue.Sub(allocated).Div(decimal.NewFromInt(int64(unresolved)))
		for i := range amounts {
			if amounts[i] == nil {
				amounts[i] = &share
			}
		}
	}

	schedule := make([]PaymentInstallment, n)
	for i := range specs {
		due := addWeeks(in.ProductionStart, params.SupplierPaymentTermsWeeks*float64(i+1))
		if specs[i].DueDate != nil {
			due = *specs[i].DueDate
		}
		schedule[i] = PaymentInstallment{
			Index:   i + 1,
			Amount:  *amounts[i],
			DueDate: due,
		}
	}
	return schedule
}

// addWeeks advances a date by a possibly fractional number of weeks,
// rounded to whole days.
func addWeeks(t time.Time, weeks float64) time.Time {
	return t.AddDate(0, 0, int(math.Round(weeks*7)))
}

// daysBetween returns the calendar-day difference between two dates.
func daysBetween(from, to time.Time) int {
	return int(math.Round(to.Sub(from).Hours() / 24))
}
