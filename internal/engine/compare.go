package engine

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/piwi3910/BoardCut/internal/model"
)

// ComparisonScenario defines a named strategy and optional blade width
// override to compare.
type ComparisonScenario struct {
	Name       string
	Algorithm  model.Algorithm
	Genetic    GeneticConfig
	BladeWidth *model.Length // nil keeps each material's own blade width
}

// ComparisonResult holds the solution and computed statistics for a
// single scenario. Err is set when the scenario failed.
type ComparisonResult struct {
	Scenario   ComparisonScenario
	Solution   model.Solution
	TotalPrice decimal.Decimal
	PiecesUsed int
	Waste      model.Length
	Err        error
}

// CompareScenarios solves problem once per scenario and returns the
// results in scenario order. A failing scenario does not stop the others;
// only a cancelled ctx does.
func CompareScenarios(ctx context.Context, scenarios []ComparisonScenario, problem model.Problem, opts ...Option) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result := ComparisonResult{Scenario: scenario, TotalPrice: decimal.Zero}

		strategy, err := StrategyFor(scenario.Algorithm, scenario.Genetic)
		if err != nil {
			result.Err = err
			results = append(results, result)
			continue
		}

		solution, err := New(strategy, opts...).Solve(ctx, scenario.apply(problem), nil)
		if err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			result.Err = err
			results = append(results, result)
			continue
		}

		waste := model.Length{}
		for _, w := range model.Waste(solution) {
			waste = waste.Add(w)
		}

		result.Solution = solution
		result.TotalPrice = model.TotalPrice(solution)
		result.PiecesUsed = model.PiecesUsed(solution)
		result.Waste = waste
		results = append(results, result)
	}

	return results, nil
}

// apply returns problem with the scenario's blade width override. The
// input problem is not modified.
func (s ComparisonScenario) apply(problem model.Problem) model.Problem {
	if s.BladeWidth == nil {
		return problem
	}
	out := make(model.Problem, len(problem))
	for mat, sp := range problem {
		sp.BladeWidth = *s.BladeWidth
		out[mat] = sp
	}
	return out
}

// BuildDefaultScenarios generates what-if scenarios for problem: the
// current algorithm, the other algorithm and, when every material uses the
// same non-zero blade width, half that width.
func BuildDefaultScenarios(alg model.Algorithm, cfg GeneticConfig, problem model.Problem) []ComparisonScenario {
	if alg == "" {
		alg = model.AlgorithmGreedy
	}
	scenarios := []ComparisonScenario{
		{
			Name:      "Current Settings",
			Algorithm: alg,
			Genetic:   cfg,
		},
	}

	// Scenario: Try the other algorithm
	if alg == model.AlgorithmGreedy {
		scenarios = append(scenarios, ComparisonScenario{
			Name:      "Genetic Algorithm",
			Algorithm: model.AlgorithmGenetic,
			Genetic:   cfg,
		})
	} else {
		scenarios = append(scenarios, ComparisonScenario{
			Name:      "Greedy Algorithm",
			Algorithm: model.AlgorithmGreedy,
			Genetic:   cfg,
		})
	}

	// Scenario: Thinner blade
	if blade, ok := commonBladeWidth(problem); ok && blade.Sign() > 0 {
		half := blade.Quo(model.LengthFromInt(2))
		scenarios = append(scenarios, ComparisonScenario{
			Name:       fmt.Sprintf("Kerf %smm (half)", half.Mul(1000).FormatDecimal(2)),
			Algorithm:  alg,
			Genetic:    cfg,
			BladeWidth: &half,
		})
	}

	return scenarios
}

func commonBladeWidth(problem model.Problem) (model.Length, bool) {
	var blade model.Length
	first := true
	for _, sp := range problem {
		if first {
			blade = sp.BladeWidth
			first = false
			continue
		}
		if !sp.BladeWidth.Equal(blade) {
			return model.Length{}, false
		}
	}
	return blade, !first
}
