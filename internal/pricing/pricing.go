package pricing

import (
	"math"

	"github.com/Simplici0/oficina/internal/domain"
)

// MinPriceMultiplier is the floor applied to the revenue multiplier when
// taxes plus profit reach or exceed 100%.
const MinPriceMultiplier = 0.01

// BudgetInput represents the project-level inputs of the selling price.
type BudgetInput struct {
	Materials        []*domain.Material
	Labor            []*domain.DirectLabor
	ProductionDays   float64
	InstallationDays float64
	TaxesPerc        float64
	ProfitPerc       float64

	// StructuralCostPerDay is the business daily cost charged for every
	// scheduled day. It is usually OperatingSummary.DailyCost.
	StructuralCostPerDay float64
}

// Breakdown contains the subtotals of the project cost.
type Breakdown struct {
	MaterialsSubtotal   float64 `json:"materials_subtotal"`
	LaborSubtotal       float64 `json:"labor_subtotal"`
	OperationalSubtotal float64 `json:"operational_subtotal"`
}

// Totals contains roll-up values from the budget calculation.
type Totals struct {
	TotalCost    float64 `json:"total_cost"`
	Multiplier   float64 `json:"multiplier"`
	SellingPrice float64 `json:"selling_price"`

	// MultiplierFloored reports that taxes plus profit reached 100% and the
	// multiplier was replaced by MinPriceMultiplier.
	MultiplierFloored bool `json:"multiplier_floored"`
}

// Result groups the full budget output.
type Result struct {
	Breakdown Breakdown `json:"breakdown"`
	Totals    Totals    `json:"totals"`
}

// Calculate computes subtotals, total cost and the cost-plus-on-revenue
// selling price of a project.
func Calculate(in BudgetInput) Result {
	materials := MaterialsSubtotal(in.Materials)
	labor := LaborSubtotal(in.Labor)
	days := num(in.ProductionDays) + num(in.InstallationDays)
	operational := finite(days * num(in.StructuralCostPerDay))

	totalCost := finite(materials + labor + operational)
	multiplier, floored := PriceMultiplier(in.TaxesPerc, in.ProfitPerc)

	return Result{
		Breakdown: Breakdown{
			MaterialsSubtotal:   materials,
			LaborSubtotal:       labor,
			OperationalSubtotal: operational,
		},
		Totals: Totals{
			TotalCost:         totalCost,
			Multiplier:        multiplier,
			SellingPrice:      finite(totalCost / multiplier),
			MultiplierFloored: floored,
		},
	}
}

// MaterialsSubtotal sums quantity × unit value over materials.
func MaterialsSubtotal(materials []*domain.Material) float64 {
	total := 0.0
	for _, m := range materials {
		if m == nil {
			continue
		}
		total += num(m.Quantity) * num(m.UnitValue)
	}
	return finite(total)
}

// LaborSubtotal sums planned hours × hourly rate over labor lines.
func LaborSubtotal(labor []*domain.DirectLabor) float64 {
	total := 0.0
	for _, l := range labor {
		if l == nil {
			continue
		}
		total += num(l.HoursPlanned) * num(l.HourlyRate)
	}
	return finite(total)
}

// PriceMultiplier returns 1 - (taxesPerc + profitPerc) / 100. When the
// combined rate is at or above 100% the multiplier is MinPriceMultiplier
// and floored is true.
func PriceMultiplier(taxesPerc, profitPerc float64) (multiplier float64, floored bool) {
	totalPerc := (num(taxesPerc) + num(profitPerc)) / 100
	if totalPerc >= 1 {
		return MinPriceMultiplier, true
	}
	return 1 - totalPerc, false
}

// SellingPrice divides totalCost by the price multiplier.
func SellingPrice(totalCost, taxesPerc, profitPerc float64) float64 {
	multiplier, _ := PriceMultiplier(taxesPerc, profitPerc)
	return finite(num(totalCost) / multiplier)
}

// num treats a non-finite input as a missing value.
func num(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// finite keeps overflowed results out of the outputs.
func finite(v float64) float64 {
	return num(v)
}
