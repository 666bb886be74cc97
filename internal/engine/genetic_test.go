package engine

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/piwi3910/BoardCut/internal/model"
)

func testGeneticConfig() GeneticConfig {
	cfg := DefaultGeneticConfig()
	cfg.PopulationSize = 20
	cfg.Generations = 30
	return cfg
}

func solveWith(t *testing.T, strategy Strategy, problem model.Problem) (model.Solution, error) {
	t.Helper()
	return New(strategy).Solve(context.Background(), problem, nil)
}

func TestGeneticPlacesAllParts(t *testing.T) {
	problem := scenarioA()

	solution, err := solveWith(t, NewGenetic(testGeneticConfig()), problem)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertValidSolution(t, problem, solution)
}

func TestGeneticBeatsFirstFitOrder(t *testing.T) {
	// Input order 4, 4, 6, 6 on 10 long boards: first fit needs three
	// boards, pairing 4 with 6 needs two.
	problem := model.Problem{
		pine: {
			Supplies: []model.Supply{supply("Board", "10", "10", model.Unlimited)},
			Parts:    []model.Part{part("Short", "4", 2), part("Long", "6", 2)},
		},
	}

	greedy, err := solveWith(t, Greedy{}, problem)
	if err != nil {
		t.Fatalf("greedy: %v", err)
	}
	genetic, err := solveWith(t, NewGenetic(testGeneticConfig()), problem)
	if err != nil {
		t.Fatalf("genetic: %v", err)
	}
	assertValidSolution(t, problem, genetic)

	if got := model.PiecesUsed(greedy); got != 3 {
		t.Errorf("expected greedy to use 3 boards, got %d", got)
	}
	if got := model.PiecesUsed(genetic); got != 2 {
		t.Errorf("expected genetic to use 2 boards, got %d", got)
	}
	if !model.TotalPrice(genetic).LessThan(model.TotalPrice(greedy)) {
		t.Errorf("genetic cost %s should be below greedy cost %s", model.TotalPrice(genetic), model.TotalPrice(greedy))
	}
}

func TestGeneticNeverWorseThanGreedy(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 10; round++ {
		parts := make([]model.Part, 0, 5)
		for i := 0; i < 5; i++ {
			parts = append(parts, model.NewPart("P", model.NewLength(int64(20+rng.Intn(200)), 100), 1+rng.Intn(4)))
		}
		problem := model.Problem{
			pine: {
				Supplies: []model.Supply{
					supply("Short", "2.4384", "4.5", model.Unlimited),
					supply("Long", "3.6576", "6", model.Unlimited),
				},
				Parts:      parts,
				BladeWidth: length("0.003"),
			},
		}

		greedy, err := solveWith(t, Greedy{}, problem)
		if err != nil {
			t.Fatalf("round %d greedy: %v", round, err)
		}
		genetic, err := solveWith(t, NewGenetic(testGeneticConfig()), problem)
		if err != nil {
			t.Fatalf("round %d genetic: %v", round, err)
		}
		assertValidSolution(t, problem, genetic)

		if model.TotalPrice(genetic).GreaterThan(model.TotalPrice(greedy)) {
			t.Errorf("round %d: genetic cost %s exceeds greedy cost %s",
				round, model.TotalPrice(genetic), model.TotalPrice(greedy))
		}
	}
}

func TestGeneticSolvesWhatGreedyCannot(t *testing.T) {
	// Greedy puts the short part on the free short board and then runs
	// out of boards for the second long part.
	problem := model.Problem{
		pine: {
			Supplies: []model.Supply{
				supply("Free short", "6", "0", 1),
				supply("Long", "10", "1", 1),
			},
			Parts: []model.Part{part("Short", "4", 1), part("Long", "6", 2)},
		},
	}

	if _, err := solveWith(t, Greedy{}, problem); !errors.Is(err, ErrInfeasible) {
		t.Fatalf("expected greedy to be infeasible, got %v", err)
	}

	solution, err := solveWith(t, NewGenetic(testGeneticConfig()), problem)
	if err != nil {
		t.Fatalf("genetic: %v", err)
	}
	assertValidSolution(t, problem, solution)
}

func TestGeneticReportsTrueInfeasibility(t *testing.T) {
	problem := model.Problem{
		pine: {
			Supplies: []model.Supply{supply("Board", "8", "1", model.Unlimited)},
			Parts:    []model.Part{part("Beam", "9", 1)},
		},
	}

	_, err := solveWith(t, NewGenetic(testGeneticConfig()), problem)
	if !errors.Is(err, ErrInfeasible) {
		t.Errorf("expected ErrInfeasible, got %v", err)
	}
	if errors.Is(err, ErrGaveUp) {
		t.Error("true infeasibility must not be reported as giving up")
	}
}

func TestGeneticReportsInsufficientAvailability(t *testing.T) {
	problem := model.Problem{
		pine: {
			Supplies: []model.Supply{supply("Board", "2", "1", 2)},
			Parts:    []model.Part{part("Block", "1", 5)},
		},
	}

	_, err := solveWith(t, NewGenetic(testGeneticConfig()), problem)
	var infeasible *InfeasibleError
	if !errors.As(err, &infeasible) || infeasible.Part != "Block" {
		t.Errorf("expected InfeasibleError for Block, got %v", err)
	}
}

func TestGeneticGivesUp(t *testing.T) {
	// Each part fits the single board alone, but not together.
	problem := model.Problem{
		pine: {
			Supplies: []model.Supply{supply("Board", "10", "1", 1)},
			Parts:    []model.Part{part("A", "6", 1), part("B", "5", 1)},
		},
	}

	_, err := solveWith(t, NewGenetic(testGeneticConfig()), problem)
	if !errors.Is(err, ErrGaveUp) {
		t.Fatalf("expected ErrGaveUp, got %v", err)
	}
	if errors.Is(err, ErrInfeasible) {
		t.Error("giving up must not be reported as infeasibility")
	}
	var gaveUp *GaveUpError
	if !errors.As(err, &gaveUp) || gaveUp.Unplaced != 1 {
		t.Errorf("expected one unplaced unit, got %v", err)
	}
}

func TestGeneticDeterministicForSeed(t *testing.T) {
	problem := model.Problem{
		pine: {
			Supplies: []model.Supply{
				supply("A", "2.4", "3", model.Unlimited),
				supply("B", "3", "3.6", model.Unlimited),
			},
			Parts: []model.Part{
				part("a", "0.7", 5), part("b", "1.1", 3), part("c", "0.45", 7),
			},
			BladeWidth: length("0.004"),
		},
	}

	first, err := solveWith(t, NewGenetic(testGeneticConfig()), problem)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := solveWith(t, NewGenetic(testGeneticConfig()), problem)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a, b := first[pine].CutLists, second[pine].CutLists
	if len(a) != len(b) {
		t.Fatalf("expected identical plans, got %d and %d cut lists", len(a), len(b))
	}
	for i := range a {
		if a[i].SupplyIndex != b[i].SupplyIndex || a[i].Quantity != b[i].Quantity || len(a[i].PartIndices) != len(b[i].PartIndices) {
			t.Errorf("cut list %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestGeneticEmptyInput(t *testing.T) {
	problem := model.Problem{
		pine: {
			Supplies: []model.Supply{supply("Board", "8", "1", model.Unlimited)},
		},
	}

	solution, err := solveWith(t, NewGenetic(testGeneticConfig()), problem)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(solution[pine].CutLists) != 0 {
		t.Errorf("expected no cut lists, got %d", len(solution[pine].CutLists))
	}
}

func TestGeneticReportsGenerationProgress(t *testing.T) {
	cfg := testGeneticConfig()
	var fractions []float64
	progress := func(f float64) error {
		fractions = append(fractions, f)
		return nil
	}

	_, err := NewGenetic(cfg).SolveSubProblem(context.Background(), scenarioA()[pine], progress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fractions) != cfg.Generations {
		t.Fatalf("expected %d progress reports, got %d", cfg.Generations, len(fractions))
	}
	if fractions[len(fractions)-1] != 1 {
		t.Errorf("expected final progress 1, got %v", fractions[len(fractions)-1])
	}
}

func TestGeneticConfigScaling(t *testing.T) {
	cfg := DefaultGeneticConfig()
	if got := cfg.scaled(10); got.Generations != 100 || got.PopulationSize != 50 {
		t.Errorf("small problems should keep defaults, got %+v", got)
	}
	if got := cfg.scaled(30); got.Generations != 150 {
		t.Errorf("expected 150 generations, got %d", got.Generations)
	}
	if got := cfg.scaled(60); got.Generations != 200 || got.PopulationSize != 80 {
		t.Errorf("expected 200 generations and population 80, got %+v", got)
	}
}

func TestOrderCrossoverPreservesAllGenes(t *testing.T) {
	ga := &geneticOptimizer{
		config: DefaultGeneticConfig(),
		rng:    rand.New(rand.NewSource(123)),
	}

	parent1 := chromosome{genes: []int{0, 1, 2, 3, 4}}
	parent2 := chromosome{genes: []int{4, 3, 2, 1, 0}}

	for i := 0; i < 20; i++ {
		child := ga.orderCrossover(parent1, parent2)

		if len(child.genes) != 5 {
			t.Fatalf("expected 5 genes, got %d", len(child.genes))
		}

		seen := make(map[int]bool)
		for _, g := range child.genes {
			if seen[g] {
				t.Errorf("duplicate gene %d in child", g)
			}
			seen[g] = true
		}
		for g := 0; g < 5; g++ {
			if !seen[g] {
				t.Errorf("missing gene %d in child", g)
			}
		}
	}
}

func TestUnitsPerPiece(t *testing.T) {
	cases := []struct {
		supply, length, blade string
		limit                 int
		want                  int
	}{
		{"8", "3", "0", 10, 2},
		{"8", "4", "0", 10, 2},
		{"8", "4", "0.1", 10, 1},
		{"8", "3.95", "0.1", 10, 2},
		{"1", "2", "0", 10, 0},
		{"8", "1", "0", 3, 3},
		// 10^19 units do not fit in an int64
		{"1", "1/10000000000000000000", "0", 5, 5},
	}
	for _, c := range cases {
		if got := unitsPerPiece(length(c.supply), length(c.length), length(c.blade), c.limit); got != c.want {
			t.Errorf("unitsPerPiece(%s, %s, %s, %d) = %d, want %d", c.supply, c.length, c.blade, c.limit, got, c.want)
		}
	}
}

func TestGeneticTinyPartOnLimitedSupply(t *testing.T) {
	problem := model.Problem{
		pine: {
			Supplies: []model.Supply{supply("Board", "1", "2", 1)},
			Parts:    []model.Part{part("Sliver", "1/10000000000000000000", 1)},
		},
	}

	_, greedyErr := solveWith(t, Greedy{}, problem)
	if greedyErr != nil {
		t.Fatalf("greedy: unexpected error %v", greedyErr)
	}
	solution, err := solveWith(t, NewGenetic(testGeneticConfig()), problem)
	if err != nil {
		t.Fatalf("genetic: unexpected error %v", err)
	}
	if model.PiecesUsed(solution) != 1 {
		t.Errorf("expected 1 piece, got %d", model.PiecesUsed(solution))
	}
}

func TestCheckFeasibleLargeLimitedCapacity(t *testing.T) {
	sp := model.SubProblem{
		Supplies: []model.Supply{
			supply("Short", "1", "1", 2),
			supply("Long", "1", "1", 1<<62),
		},
		Parts: []model.Part{part("Sliver", "1/10000000000000000000", 1<<40)},
	}
	if err := checkFeasible(sp); err != nil {
		t.Errorf("expected feasible, got %v", err)
	}

	sp.Supplies = []model.Supply{supply("Board", "8", "1", 3)}
	sp.Parts = []model.Part{part("Leg", "3", 7)}
	var infeasible *InfeasibleError
	if err := checkFeasible(sp); !errors.As(err, &infeasible) {
		t.Errorf("expected InfeasibleError for 7 legs on 3 boards, got %v", err)
	}
}

func TestGeneticRejectsTooManyUnits(t *testing.T) {
	problem := model.Problem{
		pine: {
			Supplies: []model.Supply{supply("Board", "8", "3.5", model.Unlimited)},
			Parts:    []model.Part{part("Leg", "0.7", 1<<40)},
		},
	}

	_, err := solveWith(t, NewGenetic(testGeneticConfig()), problem)
	if !errors.Is(err, model.ErrInvalidProblem) {
		t.Fatalf("expected ErrInvalidProblem, got %v", err)
	}
	var matErr *MaterialError
	if !errors.As(err, &matErr) || matErr.Material != pine {
		t.Errorf("expected the material to be named, got %v", err)
	}

	cfg := testGeneticConfig()
	cfg.MaxUnits = 5
	problem[pine] = model.SubProblem{
		Supplies: problem[pine].Supplies,
		Parts:    []model.Part{part("Leg", "0.7", 6)},
	}
	if _, err := solveWith(t, NewGenetic(cfg), problem); !errors.Is(err, model.ErrInvalidProblem) {
		t.Errorf("expected ErrInvalidProblem above a cap of 5, got %v", err)
	}
	cfg.MaxUnits = 6
	if _, err := solveWith(t, NewGenetic(cfg), problem); err != nil {
		t.Errorf("unexpected error at the cap: %v", err)
	}
}
