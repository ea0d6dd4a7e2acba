package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	planningapp "github.com/xplan/backend/internal/application/planning"
	"github.com/xplan/backend/internal/domain/planning"
	"github.com/xplan/backend/internal/infrastructure/config"
	"github.com/xplan/backend/internal/infrastructure/logger"
	"github.com/xplan/backend/internal/infrastructure/persistence"
)

func main() {
	var dashboardOnly bool
	flag.BoolVar(&dashboardOnly, "dashboard", false, "Print the dashboard summary without recomputing projections")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting x-plan planner",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
	)

	// SQL logging follows the application log level
	gormLevel := gormlogger.Warn
	if cfg.Log.Level == "debug" {
		gormLevel = gormlogger.Info
	}
	gormLog := logger.NewGormLogger(log, gormLevel)

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	inputRepo := persistence.NewGormInputRepository(db.DB)
	outputRepo := persistence.NewGormOutputRepository(db.DB)

	service := planningapp.NewPlanningService(
		inputRepo,
		outputRepo,
		log,
		planningapp.WithCalendarFallback(planning.CalendarFallback{
			Start: cfg.Plan.FallbackStartDate(),
			Weeks: cfg.Plan.FallbackWeeks,
		}),
	)

	// Each invocation is one plan run; the run ID ties its log lines together.
	runID := uuid.NewString()
	ctx, runLog := logger.WithRunID(context.Background(), log, runID)
	ctx, cancel := context.WithTimeout(ctx, cfg.Plan.Timeout)
	defer cancel()

	if dashboardOnly {
		dashboard, err := service.Dashboard(ctx)
		if err != nil {
			runLog.Error("Dashboard build failed", zap.Error(err))
			os.Exit(1)
		}
		logDashboard(runLog, dashboard)
		return
	}

	out, err := service.Recompute(ctx)
	if err != nil {
		runLog.Error("Plan recomputation failed", zap.Error(err))
		os.Exit(1)
	}

	runLog.Info("Plan recomputation finished",
		zap.Int("weeks", len(out.Calendar.Weeks())),
		zap.Int("derived_orders", len(out.Orders)),
		zap.Int("sales_plan_rows", len(out.SalesPlan)),
		zap.Int("pnl_weeks", len(out.ProfitAndLoss)),
		zap.Int("cash_flow_weeks", len(out.CashFlow)),
		zap.Int("monthly_summaries", len(out.Monthly)),
		zap.Int("quarterly_summaries", len(out.Quarterly)),
	)
	logDashboard(runLog, &out.Dashboard)
}

// logDashboard prints the headline numbers of a plan run
func logDashboard(log *zap.Logger, d *planning.DashboardSummary) {
	pipeline := make(map[string]int, len(d.Pipeline))
	for status, count := range d.Pipeline {
		pipeline[status.String()] = count
	}
	lowStock := 0
	for _, pos := range d.Inventory {
		if pos.LowStock {
			lowStock++
		}
	}
	log.Info("Dashboard summary",
		zap.String("revenue_ytd", d.RevenueYTD.String()),
		zap.String("cash_balance", d.CashBalance.String()),
		zap.Any("order_pipeline", pipeline),
		zap.Int("inventory_positions", len(d.Inventory)),
		zap.Int("low_stock_products", lowStock),
	)
}
