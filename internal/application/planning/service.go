package planning

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xplan/backend/internal/domain/planning"
	"github.com/xplan/backend/internal/domain/shared"
)

// PlanningService orchestrates a full plan recomputation: load the owned
// entities, normalize and validate them, run the projection pipeline, and
// replace the persisted derived collections.
type PlanningService struct {
	inputs   planning.InputRepository
	outputs  planning.OutputRepository
	fallback planning.CalendarFallback
	validate *validator.Validate
	logger   *zap.Logger
}

// PlanningServiceOption is a functional option for configuring PlanningService
type PlanningServiceOption func(*PlanningService)

// WithCalendarFallback overrides the fallback used when the week calendar
// table is empty or sparse.
func WithCalendarFallback(fallback planning.CalendarFallback) PlanningServiceOption {
	return func(s *PlanningService) {
		s.fallback = fallback
	}
}

// NewPlanningService creates a new PlanningService
func NewPlanningService(
	inputs planning.InputRepository,
	outputs planning.OutputRepository,
	logger *zap.Logger,
	opts ...PlanningServiceOption,
) *PlanningService {
	s := &PlanningService{
		inputs:   inputs,
		outputs:  outputs,
		fallback: planning.DefaultCalendarFallback(),
		validate: validator.New(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// productCheck mirrors the product fields the engine depends on. Rates are
// checked after normalization, so they must already be fractions.
type productCheck struct {
	Name         string  `validate:"required"`
	SKU          string  `validate:"required"`
	SellingPrice float64 `validate:"gte=0"`
	TariffRate   float64 `validate:"gte=0,lte=1"`
	TacosRate    float64 `validate:"gte=0,lte=1"`
	ReferralRate float64 `validate:"gte=0,lte=1"`
}

// termCheck mirrors the rate overrides a sales term may carry. Like the
// product rates they are checked after normalization; nil means the term
// does not override that field.
type termCheck struct {
	TariffRate   *float64 `validate:"omitempty,gte=0,lte=1"`
	TacosRate    *float64 `validate:"omitempty,gte=0,lte=1"`
	ReferralRate *float64 `validate:"omitempty,gte=0,lte=1"`
}

// orderCheck mirrors the purchase-order fields the engine depends on.
type orderCheck struct {
	OrderCode string `validate:"required"`
	Quantity  int64  `validate:"gt=0"`
	Status    string `validate:"required"`
}

// Recompute runs the full planning pipeline against the currently persisted
// inputs and replaces every derived collection with the fresh projection.
func (s *PlanningService) Recompute(ctx context.Context) (*planning.Output, error) {
	in, err := s.loadInput(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Recomputing plan",
		zap.Int("products", len(in.Products)),
		zap.Int("purchase_orders", len(in.Orders)),
		zap.Int("sales_weeks", len(in.SalesWeeks)),
		zap.Int("calendar_weeks", len(in.Weeks)))

	out, err := planning.Run(*in)
	if err != nil {
		s.logger.Error("Plan computation failed", zap.Error(err))
		return nil, err
	}

	if err := s.persist(ctx, out); err != nil {
		return nil, err
	}

	s.logger.Info("Plan recomputed",
		zap.Int("plan_weeks", len(out.SalesPlan)),
		zap.Int("pnl_weeks", len(out.ProfitAndLoss)),
		zap.String("revenue_ytd", out.Dashboard.RevenueYTD.String()),
		zap.String("cash_balance", out.Dashboard.CashBalance.String()))
	return out, nil
}

// Dashboard recomputes the projection and returns only the headline view.
func (s *PlanningService) Dashboard(ctx context.Context) (*planning.DashboardSummary, error) {
	in, err := s.loadInput(ctx)
	if err != nil {
		return nil, err
	}
	out, err := planning.Run(*in)
	if err != nil {
		return nil, err
	}
	return &out.Dashboard, nil
}

// loadInput loads, normalizes, and validates the full engine input. The
// eight collections are independent, so they load concurrently.
func (s *PlanningService) loadInput(ctx context.Context) (*planning.Input, error) {
	var (
		weeks      []planning.WeekRecord
		products   []planning.Product
		terms      []planning.ProductSalesTerm
		stages     []planning.LeadStageTemplate
		overrides  []planning.LeadTimeOverride
		orders     []planning.PurchaseOrderInput
		salesWeeks []planning.SalesWeek
		rawParams  map[string]string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if weeks, err = s.inputs.Weeks(gctx); err != nil {
			return fmt.Errorf("load week calendar: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if products, err = s.inputs.Products(gctx); err != nil {
			return fmt.Errorf("load products: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if terms, err = s.inputs.SalesTerms(gctx); err != nil {
			return fmt.Errorf("load sales terms: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if stages, err = s.inputs.LeadStageTemplates(gctx); err != nil {
			return fmt.Errorf("load lead stage templates: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if overrides, err = s.inputs.LeadTimeOverrides(gctx); err != nil {
			return fmt.Errorf("load lead time overrides: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if orders, err = s.inputs.PurchaseOrders(gctx); err != nil {
			return fmt.Errorf("load purchase orders: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if salesWeeks, err = s.inputs.SalesWeeks(gctx); err != nil {
			return fmt.Errorf("load sales weeks: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if rawParams, err = s.inputs.Parameters(gctx); err != nil {
			return fmt.Errorf("load parameters: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range products {
		normalizeProductRates(&products[i])
		check := productCheck{
			Name:         products[i].Name,
			SKU:          products[i].SKU,
			SellingPrice: products[i].SellingPrice.InexactFloat64(),
			TariffRate:   products[i].TariffRate.InexactFloat64(),
			TacosRate:    products[i].TacosRate.InexactFloat64(),
			ReferralRate: products[i].ReferralRate.InexactFloat64(),
		}
		if err := s.validate.Struct(check); err != nil {
			return nil, shared.NewDomainError(shared.ErrInvalidInput.Code,
				fmt.Sprintf("product %s: %v", products[i].ID, err))
		}
	}

	for i := range terms {
		normalizeOverrideRates(&terms[i].Overrides)
		check := termCheck{
			TariffRate:   rateFloat(terms[i].Overrides.TariffRate),
			TacosRate:    rateFloat(terms[i].Overrides.TacosRate),
			ReferralRate: rateFloat(terms[i].Overrides.ReferralRate),
		}
		if err := s.validate.Struct(check); err != nil {
			return nil, shared.NewDomainError(shared.ErrInvalidInput.Code,
				fmt.Sprintf("sales term for product %s: %v", terms[i].ProductID, err))
		}
	}

	for i := range orders {
		normalizeOrderRates(&orders[i])
		if !orders[i].Status.IsValid() {
			return nil, shared.NewDomainError(shared.ErrInvalidInput.Code,
				fmt.Sprintf("purchase order %s: unknown status %q", orders[i].OrderCode, orders[i].Status))
		}
		check := orderCheck{
			OrderCode: orders[i].OrderCode,
			Quantity:  orders[i].Quantity,
			Status:    orders[i].Status.String(),
		}
		if err := s.validate.Struct(check); err != nil {
			return nil, shared.NewDomainError(shared.ErrInvalidInput.Code,
				fmt.Sprintf("purchase order %s: %v", orders[i].OrderCode, err))
		}
	}

	return &planning.Input{
		Weeks:         weeks,
		Fallback:      s.fallback,
		Products:      products,
		SalesTerms:    terms,
		LeadStages:    stages,
		LeadOverrides: overrides,
		Orders:        orders,
		SalesWeeks:    salesWeeks,
		Params:        planning.ParseBusinessParameters(rawParams),
	}, nil
}

// persist replaces every derived collection with the fresh projection.
func (s *PlanningService) persist(ctx context.Context, out *planning.Output) error {
	if err := s.outputs.ReplaceDerivedOrders(ctx, out.Orders); err != nil {
		return fmt.Errorf("persist derived orders: %w", err)
	}
	if err := s.outputs.ReplaceSalesPlan(ctx, out.SalesPlan); err != nil {
		return fmt.Errorf("persist sales plan: %w", err)
	}
	if err := s.outputs.ReplaceProfitAndLoss(ctx, out.ProfitAndLoss); err != nil {
		return fmt.Errorf("persist profit and loss: %w", err)
	}
	if err := s.outputs.ReplaceCashFlow(ctx, out.CashFlow); err != nil {
		return fmt.Errorf("persist cash flow: %w", err)
	}
	if err := s.outputs.ReplaceMonthlySummaries(ctx, out.Monthly); err != nil {
		return fmt.Errorf("persist monthly summaries: %w", err)
	}
	if err := s.outputs.ReplaceQuarterlySummaries(ctx, out.Quarterly); err != nil {
		return fmt.Errorf("persist quarterly summaries: %w", err)
	}
	return nil
}

// NormalizeRate maps whole-percent operator input onto the fractional form
// the engine works in. Values above 1 are treated as percentages, so 15
// becomes 0.15 while 0.15 passes through unchanged.
func NormalizeRate(rate decimal.Decimal) decimal.Decimal {
	if rate.GreaterThan(decimal.NewFromInt(1)) {
		return rate.Div(decimal.NewFromInt(100))
	}
	return rate
}

// normalizeProductRates applies NormalizeRate to every rate field.
func normalizeProductRates(p *planning.Product) {
	p.TariffRate = NormalizeRate(p.TariffRate)
	p.TacosRate = NormalizeRate(p.TacosRate)
	p.ReferralRate = NormalizeRate(p.ReferralRate)
}

// normalizeOrderRates applies NormalizeRate to payment percentages and the
// rate fields of per-order cost overrides.
func normalizeOrderRates(po *planning.PurchaseOrderInput) {
	for i := range po.Payments {
		if po.Payments[i].Percentage != nil {
			n := NormalizeRate(*po.Payments[i].Percentage)
			po.Payments[i].Percentage = &n
		}
	}
	normalizeOverrideRates(po.Overrides)
}

// normalizeOverrideRates applies NormalizeRate to the rate fields of a cost
// override set, whether it comes from an order or a sales term.
func normalizeOverrideRates(o *planning.CostOverrides) {
	if o == nil {
		return
	}
	if o.TariffRate != nil {
		n := NormalizeRate(*o.TariffRate)
		o.TariffRate = &n
	}
	if o.TacosRate != nil {
		n := NormalizeRate(*o.TacosRate)
		o.TacosRate = &n
	}
	if o.ReferralRate != nil {
		n := NormalizeRate(*o.ReferralRate)
		o.ReferralRate = &n
	}
}

// rateFloat converts an optional decimal rate for struct validation.
func rateFloat(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}
