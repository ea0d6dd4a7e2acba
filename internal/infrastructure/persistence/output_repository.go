package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/xplan/backend/internal/domain/planning"
	"github.com/xplan/backend/internal/infrastructure/persistence/models"
)

const insertBatchSize = 100

// GormOutputRepository implements planning.OutputRepository using GORM.
// Each Replace method swaps the previous projection for the new one inside
// a single transaction, so readers never observe a half-written projection.
type GormOutputRepository struct {
	db *gorm.DB
}

// NewGormOutputRepository creates a new GormOutputRepository
func NewGormOutputRepository(db *gorm.DB) *GormOutputRepository {
	return &GormOutputRepository{db: db}
}

// ReplaceDerivedOrders replaces the derived purchase-order projections.
// Installment rows are removed through the cascading foreign key.
func (r *GormOutputRepository) ReplaceDerivedOrders(ctx context.Context, orders []planning.PurchaseOrderDerived) error {
	orderModels := make([]models.DerivedPurchaseOrderModel, len(orders))
	for i := range orders {
		orderModels[i] = models.DerivedPurchaseOrderModelFromDomain(orders[i])
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteAll(tx, &models.DerivedPaymentModel{}); err != nil {
			return err
		}
		if err := deleteAll(tx, &models.DerivedPurchaseOrderModel{}); err != nil {
			return err
		}
		if len(orderModels) == 0 {
			return nil
		}
		return tx.CreateInBatches(orderModels, insertBatchSize).Error
	})
}

// ReplaceSalesPlan replaces the weekly inventory projection
func (r *GormOutputRepository) ReplaceSalesPlan(ctx context.Context, plan []planning.SalesPlanWeek) error {
	planModels := make([]models.SalesPlanWeekModel, len(plan))
	for i := range plan {
		planModels[i] = models.SalesPlanWeekModelFromDomain(plan[i])
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteAll(tx, &models.SalesPlanWeekModel{}); err != nil {
			return err
		}
		if len(planModels) == 0 {
			return nil
		}
		return tx.CreateInBatches(planModels, insertBatchSize).Error
	})
}

// ReplaceProfitAndLoss replaces the weekly P&L series
func (r *GormOutputRepository) ReplaceProfitAndLoss(ctx context.Context, pnl []planning.ProfitAndLossWeek) error {
	weekModels := make([]models.PnlWeekModel, len(pnl))
	for i := range pnl {
		weekModels[i] = models.PnlWeekModelFromDomain(pnl[i])
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteAll(tx, &models.PnlWeekModel{}); err != nil {
			return err
		}
		if len(weekModels) == 0 {
			return nil
		}
		return tx.CreateInBatches(weekModels, insertBatchSize).Error
	})
}

// ReplaceCashFlow replaces the weekly cash-flow series
func (r *GormOutputRepository) ReplaceCashFlow(ctx context.Context, cash []planning.CashFlowWeek) error {
	weekModels := make([]models.CashFlowWeekModel, len(cash))
	for i := range cash {
		weekModels[i] = models.CashFlowWeekModelFromDomain(cash[i])
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteAll(tx, &models.CashFlowWeekModel{}); err != nil {
			return err
		}
		if len(weekModels) == 0 {
			return nil
		}
		return tx.CreateInBatches(weekModels, insertBatchSize).Error
	})
}

// ReplaceMonthlySummaries replaces the monthly roll-ups
func (r *GormOutputRepository) ReplaceMonthlySummaries(ctx context.Context, months []planning.MonthlySummary) error {
	monthModels := make([]models.MonthlySummaryModel, len(months))
	for i := range months {
		monthModels[i] = models.MonthlySummaryModelFromDomain(months[i])
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteAll(tx, &models.MonthlySummaryModel{}); err != nil {
			return err
		}
		if len(monthModels) == 0 {
			return nil
		}
		return tx.CreateInBatches(monthModels, insertBatchSize).Error
	})
}

// ReplaceQuarterlySummaries replaces the quarterly roll-ups
func (r *GormOutputRepository) ReplaceQuarterlySummaries(ctx context.Context, quarters []planning.QuarterlySummary) error {
	quarterModels := make([]models.QuarterlySummaryModel, len(quarters))
	for i := range quarters {
		quarterModels[i] = models.QuarterlySummaryModelFromDomain(quarters[i])
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteAll(tx, &models.QuarterlySummaryModel{}); err != nil {
			return err
		}
		if len(quarterModels) == 0 {
			return nil
		}
		return tx.CreateInBatches(quarterModels, insertBatchSize).Error
	})
}

// deleteAll removes every row of the model's table. GORM refuses unscoped
// deletes unless a global update session is opened explicitly.
func deleteAll(tx *gorm.DB, model interface{}) error {
	return tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error
}

// Ensure GormOutputRepository implements planning.OutputRepository
var _ planning.OutputRepository = (*GormOutputRepository)(nil)
