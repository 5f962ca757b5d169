package engine

import (
	"fmt"

	"github.com/piwi3910/RailCut/internal/model"
)

// ComparisonScenario is a named stock configuration to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.StockSettings
}

// ComparisonResult holds the nesting and its statistics for one scenario.
type ComparisonResult struct {
	Scenario      ComparisonScenario
	Stock         []model.StockPlan
	BarsUsed      int
	StockLength   float64 // mm, summed over all bars used
	WastePercent  float64
	UnplacedCount int
}

// CompareScenarios nests the plan once per scenario, in scenario order.
func CompareScenarios(scenarios []ComparisonScenario, plan model.Plan) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		stock := NewNester(scenario.Settings).Nest(plan)

		r := ComparisonResult{Scenario: scenario, Stock: stock}
		var cut float64
		for _, s := range stock {
			r.BarsUsed += len(s.Bars)
			r.StockLength += float64(len(s.Bars)) * s.StockLength
			r.UnplacedCount += len(s.Unplaced)
			cut += s.CutLength()
		}
		if r.StockLength > 0 {
			r.WastePercent = 100 - cut/r.StockLength*100
		}
		results = append(results, r)
	}

	return results
}

// BuildStockScenarios returns the base settings followed by one scenario
// per alternative stock length, keeping kerf and minimum offcut.
func BuildStockScenarios(base model.StockSettings, lengths []float64) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{Name: fmt.Sprintf("Current (%g mm)", base.Length), Settings: base},
	}
	for _, l := range lengths {
		if l <= 0 || l == base.Length {
			continue
		}
		alt := base
		alt.Length = l
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Stock %g mm", l),
			Settings: alt,
		})
	}
	return scenarios
}
