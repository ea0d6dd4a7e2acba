package planning

import (
	"github.com/google/uuid"
)

// LeadStage identifies one phase of a purchase order's fulfillment pipeline.
type LeadStage string

const (
	LeadStageProduction LeadStage = "PRODUCTION"
	LeadStageSourcePrep LeadStage = "SOURCE_PREP"
	LeadStageOcean      LeadStage = "OCEAN"
	LeadStageFinalMile  LeadStage = "FINAL_MILE"
)

// IsValid checks if the stage is a known LeadStage
func (s LeadStage) IsValid() bool {
	switch s {
	case LeadStageProduction, LeadStageSourcePrep, LeadStageOcean, LeadStageFinalMile:
		return true
	}
	return false
}

// String returns the string representation of LeadStage
func (s LeadStage) String() string {
	return string(s)
}

// LeadStageTemplate is one entry of the ordered stage catalog with its
// default duration in weeks. Fractional weeks are allowed.
type LeadStageTemplate struct {
	Stage         LeadStage
	Name          string
	SequenceIndex int
	DefaultWeeks  float64
}

// DefaultLeadStageTemplates returns the standard pipeline catalog used when
// the stage table is empty.
func DefaultLeadStageTemplates() []LeadStageTemplate {
	return []LeadStageTemplate{
		{Stage: LeadStageProduction, Name: "Production", SequenceIndex: 1, DefaultWeeks: 4},
		{Stage: LeadStageSourcePrep, Name: "Domestic Logistics", SequenceIndex: 2, DefaultWeeks: 1},
		{Stage: LeadStageOcean, Name: "Ocean Freight", SequenceIndex: 3, DefaultWeeks: 4},
		{Stage: LeadStageFinalMile, Name: "Final Mile", SequenceIndex: 4, DefaultWeeks: 1},
	}
}

// LeadTimeOverride overrides one stage's duration for a specific product.
type LeadTimeOverride struct {
	ProductID uuid.UUID
	Stage     LeadStage
	Weeks     float64
}

// StageOverrides carries the per-order stage duration overrides from a
// purchase order. A nil field falls through to the product override or the
// template default.
type StageOverrides struct {
	ProductionWeeks *float64
	SourcePrepWeeks *float64
	OceanWeeks      *float64
	FinalMileWeeks  *float64
}

// StageDurations is the fully resolved set of stage durations in weeks for
// one purchase order.
type StageDurations struct {
	ProductionWeeks float64
	SourcePrepWeeks float64
	OceanWeeks      float64
	FinalMileWeeks  float64
}

// TotalWeeks returns the summed duration of all stages.
func (d StageDurations) TotalWeeks() float64 {
	return d.ProductionWeeks + d.SourcePrepWeeks + d.OceanWeeks + d.FinalMileWeeks
}

// ResolveStageDurations resolves each stage duration independently:
// per-order override, else the product's LeadTimeOverride, else the template
// default (zero when the stage is absent from the catalog).
func ResolveStageDurations(templates []LeadStageTemplate, overrides []LeadTimeOverride, productID uuid.UUID, order StageOverrides) StageDurations {
	if len(templates) == 0 {
		templates = DefaultLeadStageTemplates()
	}

	defaults := make(map[LeadStage]float64, len(templates))
	for _, t := range templates {
		defaults[t.Stage] = t.DefaultWeeks
	}
	product := make(map[LeadStage]float64)
	for _, o := range overrides {
		if o.ProductID == productID {
			product[o.Stage] = o.Weeks
		}
	}

	resolve := func(stage LeadStage, order *float64) float64 {
		if order != nil {
			return *order
		}
		if weeks, ok := product[stage]; ok {
			return weeks
		}
		return defaults[stage]
	}

	return StageDurations{
		ProductionWeeks: resolve(LeadStageProduction, order.ProductionWeeks),
		SourcePrepWeeks: resolve(LeadStageSourcePrep, order.SourcePrepWeeks),
		OceanWeeks:      resolve(LeadStageOcean, order.OceanWeeks),
		FinalMileWeeks:  resolve(LeadStageFinalMile, order.FinalMileWeeks),
	}
}
