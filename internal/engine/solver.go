package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/piwi3910/BoardCut/internal/metrics"
	"github.com/piwi3910/BoardCut/internal/model"
)

// ProgressFunc reports the fraction of a sub-problem's units placed so far.
// A non-nil error aborts the strategy and must be returned unchanged.
type ProgressFunc func(fraction float64) error

// Strategy solves a single material. Implementations must return a
// SubSolution embedding the sub-problem's supplies, parts and blade width.
type Strategy interface {
	Name() string
	SolveSubProblem(ctx context.Context, sp model.SubProblem, progress ProgressFunc) (model.SubSolution, error)
}

// Solver runs a Strategy over every material of a problem and groups the
// resulting cut lists.
type Solver struct {
	strategy Strategy
	logger   zerolog.Logger
}

// Option configures a Solver.
type Option func(*Solver)

// WithLogger replaces the global logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Solver) {
		s.logger = l
	}
}

func New(strategy Strategy, opts ...Option) *Solver {
	s := &Solver{
		strategy: strategy,
		logger:   log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StrategyFor maps an algorithm to its strategy. cfg is used by the
// genetic strategy only.
func StrategyFor(alg model.Algorithm, cfg GeneticConfig) (Strategy, error) {
	switch alg {
	case model.AlgorithmGreedy, "":
		return Greedy{}, nil
	case model.AlgorithmGenetic:
		return NewGenetic(cfg), nil
	default:
		return nil, fmt.Errorf("unknown algorithm %q", alg)
	}
}

// NewForAlgorithm builds a Solver for alg with default strategy settings.
func NewForAlgorithm(alg model.Algorithm, opts ...Option) (*Solver, error) {
	strategy, err := StrategyFor(alg, DefaultGeneticConfig())
	if err != nil {
		return nil, err
	}
	return New(strategy, opts...), nil
}

// Strategy returns the solver's strategy.
func (s *Solver) Strategy() Strategy {
	return s.strategy
}

// Solve plans every material of problem in name order.
//
// When sink is non-nil it receives a SubProgress message per placed unit,
// a Progress message per finished material and exactly one Results message
// last. The first failing material aborts the solve; its error is wrapped
// in a *MaterialError. A sink error aborts the solve and is returned.
// Cancelling ctx stops the solve between part units and returns ctx.Err()
// without a Results message.
func (s *Solver) Solve(ctx context.Context, problem model.Problem, sink Sink) (model.Solution, error) {
	start := time.Now()
	name := s.strategy.Name()
	s.logger.Debug().
		Str("strategy", name).
		Int("materials", len(problem)).
		Msg("Solve started")

	solution, err := s.solve(ctx, problem, sink)

	duration := time.Since(start)
	status := solveStatus(err)
	metrics.RecordSolve(name, status, duration)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("strategy", name).
			Str("status", status).
			Dur("duration", duration).
			Msg("Solve failed")
		return nil, err
	}

	cutLists := 0
	for mat, sub := range solution {
		cutLists += len(sub.CutLists)
		pieces := 0
		for _, cl := range sub.CutLists {
			pieces += cl.Quantity
		}
		metrics.RecordPieces(mat.Name, pieces)
	}
	s.logger.Info().
		Str("strategy", name).
		Int("materials", len(solution)).
		Int("cut_lists", cutLists).
		Dur("duration", duration).
		Msg("Solve finished")
	return solution, nil
}

func (s *Solver) solve(ctx context.Context, problem model.Problem, sink Sink) (model.Solution, error) {
	if err := problem.Validate(); err != nil {
		return nil, s.fail(ctx, sink, err)
	}

	materials := problem.Materials()
	solution := make(model.Solution, len(materials))

	for k, mat := range materials {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var sinkErr error
		progress := func(fraction float64) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := send(ctx, sink, SubProgress(fraction)); err != nil {
				sinkErr = err
				return err
			}
			return nil
		}

		sub, err := s.strategy.SolveSubProblem(ctx, problem[mat], progress)
		switch {
		case sinkErr != nil:
			return nil, sinkErr
		case err != nil && ctx.Err() != nil:
			return nil, ctx.Err()
		case err != nil:
			s.logger.Debug().
				Err(err).
				Str("material", mat.Name).
				Str("strategy", s.strategy.Name()).
				Msg("Material failed")
			return nil, s.fail(ctx, sink, &MaterialError{Material: mat, Err: err})
		}

		sub.CutLists = Group(sub.CutLists)
		solution[mat] = sub
		s.logger.Debug().
			Str("material", mat.Name).
			Int("cut_lists", len(sub.CutLists)).
			Msg("Material solved")

		if k < len(materials)-1 {
			if err := send(ctx, sink, Progress(float64(k+1)/float64(len(materials)))); err != nil {
				return nil, err
			}
		}
	}

	if err := send(ctx, sink, Progress(1.0)); err != nil {
		return nil, err
	}
	if err := send(ctx, sink, Results(solution, nil)); err != nil {
		return nil, err
	}
	return solution, nil
}

// fail emits err as the final Results message and returns it, joined with
// the sink error if delivery failed.
func (s *Solver) fail(ctx context.Context, sink Sink, err error) error {
	if sendErr := send(ctx, sink, Results(nil, err)); sendErr != nil {
		return errors.Join(err, sendErr)
	}
	return err
}

func send(ctx context.Context, sink Sink, msg Message) error {
	if sink == nil {
		return nil
	}
	return sink.Send(ctx, msg)
}

func solveStatus(err error) string {
	switch {
	case err == nil:
		return metrics.StatusSuccess
	case errors.Is(err, ErrInfeasible):
		return metrics.StatusInfeasible
	case errors.Is(err, ErrGaveUp):
		return metrics.StatusGaveUp
	case errors.Is(err, model.ErrInvalidProblem):
		return metrics.StatusInvalid
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.StatusCancelled
	default:
		return metrics.StatusError
	}
}
