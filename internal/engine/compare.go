package engine

import (
	"fmt"
	"sort"

	"github.com/piwi3910/parasys/internal/model"
)

// ComparisonScenario is a named set of sheet options to nest against.
type ComparisonScenario struct {
	Name          string
	Options       model.SheetOptions
	PricePerSheet float64
}

// ComparisonResult holds the nesting result and computed statistics for a
// single scenario.
type ComparisonResult struct {
	Scenario      ComparisonScenario
	Result        model.NestingResult
	Estimate      model.PurchaseEstimate
	SheetsUsed    int
	Utilization   float64
	RejectedCount int
}

// CompareScenarios nests the same panels once per scenario and returns the
// results in scenario order.
func CompareScenarios(scenarios []ComparisonScenario, inputs []model.NestingInput, wastePercent float64) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		result := Nest(inputs, scenario.Options)
		results = append(results, ComparisonResult{
			Scenario:      scenario,
			Result:        result,
			Estimate:      model.CalculatePurchaseEstimate(result, wastePercent, scenario.PricePerSheet),
			SheetsUsed:    result.SheetCount,
			Utilization:   result.TotalUtilization(),
			RejectedCount: len(result.Rejected),
		})
	}

	return results
}

// RankComparisons orders results best first: fewest rejected panels, then
// lowest estimated cost, then fewest sheets, then name.
func RankComparisons(results []ComparisonResult) []ComparisonResult {
	ranked := make([]ComparisonResult, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.RejectedCount != b.RejectedCount {
			return a.RejectedCount < b.RejectedCount
		}
		if a.Estimate.EstimatedCost != b.Estimate.EstimatedCost {
			return a.Estimate.EstimatedCost < b.Estimate.EstimatedCost
		}
		if a.SheetsUsed != b.SheetsUsed {
			return a.SheetsUsed < b.SheetsUsed
		}
		return a.Scenario.Name < b.Scenario.Name
	})
	return ranked
}

// PresetScenarios builds one scenario per preset in the table, in key order.
func PresetScenarios(table model.PresetTable, allowRotate90 bool) []ComparisonScenario {
	keys := table.Keys()
	scenarios := make([]ComparisonScenario, 0, len(keys))
	for _, key := range keys {
		p := table.Presets[key]
		scenarios = append(scenarios, ComparisonScenario{
			Name:          key,
			Options:       p.Options(allowRotate90),
			PricePerSheet: p.PricePerSheet,
		})
	}
	return scenarios
}

// BuildDefaultScenarios varies the current options to show what-if
// alternatives: the other rotation setting, half the spacing and no margin.
func BuildDefaultScenarios(base model.SheetOptions, pricePerSheet float64) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{Name: "Current Settings", Options: base, PricePerSheet: pricePerSheet},
	}

	// Scenario: flip rotation
	flipped := base
	flipped.AllowRotate90 = !base.AllowRotate90
	name := "Rotation Allowed"
	if !flipped.AllowRotate90 {
		name = "No Rotation"
	}
	scenarios = append(scenarios, ComparisonScenario{Name: name, Options: flipped, PricePerSheet: pricePerSheet})

	// Scenario: tighter spacing
	if base.SpacingMm > 1.0 {
		tight := base
		tight.SpacingMm = base.SpacingMm * 0.5
		scenarios = append(scenarios, ComparisonScenario{
			Name:          fmt.Sprintf("Spacing %.1fmm (half)", tight.SpacingMm),
			Options:       tight,
			PricePerSheet: pricePerSheet,
		})
	}

	// Scenario: no margin
	if base.MarginMm > 0 {
		noMargin := base
		noMargin.MarginMm = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:          "No Margin",
			Options:       noMargin,
			PricePerSheet: pricePerSheet,
		})
	}

	return scenarios
}

// ComparePresets nests the inputs against every preset in the table and
// returns the results best first.
func ComparePresets(inputs []model.NestingInput, table model.PresetTable, allowRotate90 bool, wastePercent float64) []ComparisonResult {
	return RankComparisons(CompareScenarios(PresetScenarios(table, allowRotate90), inputs, wastePercent))
}
