package engine

import (
	"context"
	"fmt"
	"math/big"
	"math/rand"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/piwi3910/BoardCut/internal/model"
)

// GeneticConfig holds parameters for the genetic strategy.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	TournamentSize int
	EliteCount     int
	Seed           int64

	// MaxUnits caps the part units of one sub-problem; each unit is a gene.
	// Zero or less disables the cap.
	MaxUnits int
}

// DefaultGeneticConfig returns sensible default parameters.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize: 50,
		Generations:    100,
		MutationRate:   0.15,
		TournamentSize: 3,
		EliteCount:     2,
		Seed:           42,
		MaxUnits:       model.DefaultMaxUnits,
	}
}

// scaled raises generations and population for larger problems.
func (c GeneticConfig) scaled(units int) GeneticConfig {
	if units > 20 && c.Generations < 150 {
		c.Generations = 150
	}
	if units > 50 {
		if c.Generations < 200 {
			c.Generations = 200
		}
		if c.PopulationSize < 80 {
			c.PopulationSize = 80
		}
	}
	if c.PopulationSize < 1 {
		c.PopulationSize = 1
	}
	if c.TournamentSize < 1 {
		c.TournamentSize = 1
	}
	return c
}

// Genetic searches over the order in which part units are placed. Each
// order is decoded with the same first-fit / cheapest-supply rules as
// Greedy, and the population always contains the input order, so Genetic
// never returns a plan that costs more than a successful Greedy plan.
//
// It reports ErrInfeasible only when some part can provably not be cut
// from the available supplies; any other failure is ErrGaveUp.
type Genetic struct {
	config GeneticConfig
}

func NewGenetic(cfg GeneticConfig) Genetic {
	return Genetic{config: cfg}
}

func (Genetic) Name() string { return string(model.AlgorithmGenetic) }

// Config returns the strategy parameters.
func (g Genetic) Config() GeneticConfig { return g.config }

func (g Genetic) SolveSubProblem(ctx context.Context, sp model.SubProblem, progress ProgressFunc) (model.SubSolution, error) {
	if g.config.MaxUnits > 0 && sp.TotalUnits() > g.config.MaxUnits {
		return model.SubSolution{}, &model.InvalidError{
			Field:  "parts",
			Reason: fmt.Sprintf("demand more than %d units for the genetic strategy", g.config.MaxUnits),
		}
	}
	if err := checkFeasible(sp); err != nil {
		return model.SubSolution{}, err
	}

	// Expand parts by quantity; a gene is a position in units
	var units []int
	for pi, p := range sp.Parts {
		for i := 0; i < p.Quantity; i++ {
			units = append(units, pi)
		}
	}
	if len(units) == 0 {
		return newLinearPacker(sp).solution(), nil
	}

	ga := &geneticOptimizer{
		sp:     sp,
		units:  units,
		config: g.config.scaled(len(units)),
		rng:    rand.New(rand.NewSource(g.config.Seed)),
	}
	best, err := ga.optimize(ctx, progress)
	if err != nil {
		return model.SubSolution{}, err
	}
	if best.fitness.unplaced > 0 {
		return model.SubSolution{}, &GaveUpError{Strategy: g.Name(), Unplaced: best.fitness.unplaced}
	}
	packer, _ := ga.decode(best.genes)
	return packer.solution(), nil
}

// checkFeasible rejects parts that no combination of supplies can hold:
// either no supply is long enough, or the limited supplies that are long
// enough cannot hold the demanded quantity even when cut only for it.
func checkFeasible(sp model.SubProblem) error {
	for _, part := range sp.Parts {
		if part.Quantity == 0 {
			continue
		}
		need := part.Quantity
		for _, s := range sp.Supplies {
			if part.Length.Cmp(s.Length) > 0 || s.MaxQuantity == 0 {
				continue
			}
			if s.IsUnlimited() {
				need = 0
				break
			}
			per := unitsPerPiece(s.Length, part.Length, sp.BladeWidth, need)
			if per == 0 {
				continue
			}
			// pieces needed to cover the rest, compared before multiplying
			if s.MaxQuantity >= (need+per-1)/per {
				need = 0
				break
			}
			need -= s.MaxQuantity * per
		}
		if need > 0 {
			return &InfeasibleError{Part: part.Name, Length: part.Length}
		}
	}
	return nil
}

// unitsPerPiece is how many units of length fit on one piece of supply,
// capped at limit: n units need n*length + (n-1)*blade.
func unitsPerPiece(supply, length, blade model.Length, limit int) int {
	n := supply.Add(blade).Quo(length.Add(blade)).Trunc().Rat().Num()
	if n.Cmp(big.NewInt(int64(limit))) >= 0 {
		return limit
	}
	return int(n.Int64())
}

// fitness orders decoded plans: fewer unplaced units first, then lower
// cost, then fewer pieces.
type fitness struct {
	unplaced int
	cost     decimal.Decimal
	pieces   int
}

func (f fitness) better(o fitness) bool {
	if f.unplaced != o.unplaced {
		return f.unplaced < o.unplaced
	}
	if c := f.cost.Cmp(o.cost); c != 0 {
		return c < 0
	}
	return f.pieces < o.pieces
}

// chromosome is a placement order: a permutation of unit positions.
type chromosome struct {
	genes   []int
	fitness fitness
}

type geneticOptimizer struct {
	sp     model.SubProblem
	units  []int // part index of each unit
	config GeneticConfig
	rng    *rand.Rand
}

// optimize runs the genetic algorithm and returns the best individual.
// progress is called once per generation.
func (g *geneticOptimizer) optimize(ctx context.Context, progress ProgressFunc) (chromosome, error) {
	population := g.initPopulation()
	for i := range population {
		population[i].fitness = g.evaluate(population[i].genes)
	}

	for gen := 0; gen < g.config.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return chromosome{}, err
		}

		g.sortPopulation(population)

		newPop := make([]chromosome, 0, g.config.PopulationSize)

		// Elitism: carry over the best individuals unchanged
		eliteCount := g.config.EliteCount
		if eliteCount > len(population) {
			eliteCount = len(population)
		}
		if eliteCount < 1 {
			eliteCount = 1
		}
		for i := 0; i < eliteCount; i++ {
			newPop = append(newPop, g.copyChromosome(population[i]))
		}

		for len(newPop) < g.config.PopulationSize {
			parent1 := g.tournamentSelect(population)
			parent2 := g.tournamentSelect(population)

			child := g.orderCrossover(parent1, parent2)
			g.mutate(&child)

			child.fitness = g.evaluate(child.genes)
			newPop = append(newPop, child)
		}
		population = newPop

		if progress != nil {
			if err := progress(float64(gen+1) / float64(g.config.Generations)); err != nil {
				return chromosome{}, err
			}
		}
	}

	g.sortPopulation(population)
	return population[0], nil
}

// sortPopulation sorts best first. The sort is stable so ties keep the
// earlier individual, which keeps the input order ahead of equal plans.
func (g *geneticOptimizer) sortPopulation(population []chromosome) {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].fitness.better(population[j].fitness)
	})
}

// initPopulation seeds the input order and the longest-first order, then
// fills the rest with random permutations.
func (g *geneticOptimizer) initPopulation() []chromosome {
	n := len(g.units)
	population := make([]chromosome, 0, g.config.PopulationSize)

	identity := make([]int, n)
	for i := range identity {
		identity[i] = i
	}
	population = append(population, chromosome{genes: identity})

	if g.config.PopulationSize > 1 {
		longest := append([]int(nil), identity...)
		sort.SliceStable(longest, func(i, j int) bool {
			li := g.sp.Parts[g.units[longest[i]]].Length
			lj := g.sp.Parts[g.units[longest[j]]].Length
			return li.Cmp(lj) > 0
		})
		population = append(population, chromosome{genes: longest})
	}

	for len(population) < g.config.PopulationSize {
		population = append(population, chromosome{genes: g.rng.Perm(n)})
	}
	return population
}

// decode places units in gene order and reports how many could not be
// placed. Unplaceable units are skipped so partial plans still rank.
func (g *geneticOptimizer) decode(genes []int) (*linearPacker, int) {
	packer := newLinearPacker(g.sp)
	unplaced := 0
	for _, u := range genes {
		if !packer.place(g.units[u]) {
			unplaced++
		}
	}
	return packer, unplaced
}

func (g *geneticOptimizer) evaluate(genes []int) fitness {
	packer, unplaced := g.decode(genes)
	f := fitness{unplaced: unplaced, cost: decimal.Zero}
	for i, n := range packer.consumption {
		f.cost = f.cost.Add(g.sp.Supplies[i].Price.Mul(decimal.NewFromInt(int64(n))))
		f.pieces += n
	}
	return f
}

// tournamentSelect picks the best individual from a random tournament.
func (g *geneticOptimizer) tournamentSelect(population []chromosome) chromosome {
	best := population[g.rng.Intn(len(population))]
	for i := 1; i < g.config.TournamentSize; i++ {
		candidate := population[g.rng.Intn(len(population))]
		if candidate.fitness.better(best.fitness) {
			best = candidate
		}
	}
	return g.copyChromosome(best)
}

// orderCrossover implements Order Crossover (OX1) for permutation chromosomes.
// It preserves the relative order of genes from both parents.
func (g *geneticOptimizer) orderCrossover(parent1, parent2 chromosome) chromosome {
	n := len(parent1.genes)
	if n <= 2 {
		return g.copyChromosome(parent1)
	}

	point1 := g.rng.Intn(n)
	point2 := g.rng.Intn(n)
	if point1 > point2 {
		point1, point2 = point2, point1
	}

	child := chromosome{genes: make([]int, n)}

	// Copy segment from parent1
	inSegment := make([]bool, n)
	for i := point1; i <= point2; i++ {
		child.genes[i] = parent1.genes[i]
		inSegment[parent1.genes[i]] = true
	}

	// Fill remaining positions with genes from parent2 in order
	childIdx := (point2 + 1) % n
	for _, pg := range parent2.genes {
		if !inSegment[pg] {
			child.genes[childIdx] = pg
			childIdx = (childIdx + 1) % n
		}
	}

	return child
}

// mutate applies swap and inversion mutations.
func (g *geneticOptimizer) mutate(c *chromosome) {
	n := len(c.genes)
	if n < 2 {
		return
	}

	if g.rng.Float64() < g.config.MutationRate {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
	}

	// Inversion mutation: reverse a segment (less frequent)
	if g.rng.Float64() < g.config.MutationRate*0.5 {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for i < j {
			c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
			i++
			j--
		}
	}
}

func (g *geneticOptimizer) copyChromosome(c chromosome) chromosome {
	genes := make([]int, len(c.genes))
	copy(genes, c.genes)
	return chromosome{genes: genes, fitness: c.fitness}
}
