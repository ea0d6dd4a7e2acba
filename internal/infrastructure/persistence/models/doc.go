// Package models contains GORM-specific persistence models that map to
// database tables. These models are separate from domain entities to keep
// the domain layer pure and free from ORM concerns.
//
// Two groups of tables exist:
//   - owned inputs: week calendar, products, sales terms, lead times,
//     purchase orders with payment specs, sales weeks, business parameters
//   - derived outputs: purchase-order projections, the sales plan, weekly
//     P&L and cash flow, monthly and quarterly summaries
//
// Derived tables are projection caches. They are replaced wholesale on each
// recomputation and are never read back into the engine.
package models
