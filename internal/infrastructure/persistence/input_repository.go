package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/xplan/backend/internal/domain/planning"
	"github.com/xplan/backend/internal/infrastructure/persistence/models"
)

// GormInputRepository implements planning.InputRepository using GORM
type GormInputRepository struct {
	db *gorm.DB
}

// NewGormInputRepository creates a new GormInputRepository
func NewGormInputRepository(db *gorm.DB) *GormInputRepository {
	return &GormInputRepository{db: db}
}

// Weeks loads the full week calendar in ascending week order
func (r *GormInputRepository) Weeks(ctx context.Context) ([]planning.WeekRecord, error) {
	var weekModels []models.WeekCalendarModel
	if err := r.db.WithContext(ctx).
		Order("week_number ASC").
		Find(&weekModels).Error; err != nil {
		return nil, err
	}

	weeks := make([]planning.WeekRecord, len(weekModels))
	for i := range weekModels {
		weeks[i] = weekModels[i].ToDomain()
	}
	return weeks, nil
}

// Products loads the product catalog ordered by SKU
func (r *GormInputRepository) Products(ctx context.Context) ([]planning.Product, error) {
	var productModels []models.ProductModel
	if err := r.db.WithContext(ctx).
		Order("sku ASC").
		Find(&productModels).Error; err != nil {
		return nil, err
	}

	products := make([]planning.Product, len(productModels))
	for i := range productModels {
		products[i] = productModels[i].ToDomain()
	}
	return products, nil
}

// SalesTerms loads the date-ranged cost overrides ordered by start date
func (r *GormInputRepository) SalesTerms(ctx context.Context) ([]planning.ProductSalesTerm, error) {
	var termModels []models.ProductSalesTermModel
	if err := r.db.WithContext(ctx).
		Order("product_id ASC, start_date ASC").
		Find(&termModels).Error; err != nil {
		return nil, err
	}

	terms := make([]planning.ProductSalesTerm, len(termModels))
	for i := range termModels {
		terms[i] = termModels[i].ToDomain()
	}
	return terms, nil
}

// LeadStageTemplates loads the stage defaults in pipeline order
func (r *GormInputRepository) LeadStageTemplates(ctx context.Context) ([]planning.LeadStageTemplate, error) {
	var stageModels []models.LeadStageTemplateModel
	if err := r.db.WithContext(ctx).
		Order("sequence_index ASC").
		Find(&stageModels).Error; err != nil {
		return nil, err
	}

	stages := make([]planning.LeadStageTemplate, len(stageModels))
	for i := range stageModels {
		stages[i] = stageModels[i].ToDomain()
	}
	return stages, nil
}

// LeadTimeOverrides loads the per-product stage duration overrides
func (r *GormInputRepository) LeadTimeOverrides(ctx context.Context) ([]planning.LeadTimeOverride, error) {
	var overrideModels []models.LeadTimeOverrideModel
	if err := r.db.WithContext(ctx).
		Order("product_id ASC, stage ASC").
		Find(&overrideModels).Error; err != nil {
		return nil, err
	}

	overrides := make([]planning.LeadTimeOverride, len(overrideModels))
	for i := range overrideModels {
		overrides[i] = overrideModels[i].ToDomain()
	}
	return overrides, nil
}

// PurchaseOrders loads all purchase orders with their payment specs attached
func (r *GormInputRepository) PurchaseOrders(ctx context.Context) ([]planning.PurchaseOrderInput, error) {
	var orderModels []models.PurchaseOrderModel
	if err := r.db.WithContext(ctx).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("installment_index ASC")
		}).
		Order("order_code ASC").
		Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]planning.PurchaseOrderInput, len(orderModels))
	for i := range orderModels {
		orders[i] = orderModels[i].ToDomain()
	}
	return orders, nil
}

// SalesWeeks loads the weekly sales rows ordered by product and week
func (r *GormInputRepository) SalesWeeks(ctx context.Context) ([]planning.SalesWeek, error) {
	var weekModels []models.SalesWeekModel
	if err := r.db.WithContext(ctx).
		Order("product_id ASC, week_number ASC").
		Find(&weekModels).Error; err != nil {
		return nil, err
	}

	rows := make([]planning.SalesWeek, len(weekModels))
	for i := range weekModels {
		rows[i] = weekModels[i].ToDomain()
	}
	return rows, nil
}

// Parameters loads the business parameter table as a name/value map
func (r *GormInputRepository) Parameters(ctx context.Context) (map[string]string, error) {
	var paramModels []models.BusinessParameterModel
	if err := r.db.WithContext(ctx).
		Find(&paramModels).Error; err != nil {
		return nil, err
	}

	params := make(map[string]string, len(paramModels))
	for _, m := range paramModels {
		params[m.Name] = m.Value
	}
	return params, nil
}

// Ensure GormInputRepository implements planning.InputRepository
var _ planning.InputRepository = (*GormInputRepository)(nil)
