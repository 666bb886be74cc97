package engine

import (
	"errors"
	"fmt"

	"github.com/piwi3910/BoardCut/internal/model"
)

var (
	// ErrInfeasible reports that some part unit has no eligible supply.
	ErrInfeasible = errors.New("no eligible supply for part")

	// ErrGaveUp reports that a search strategy found no plan without
	// proving that none exists.
	ErrGaveUp = errors.New("solver gave up")

	// ErrChannelClosed is returned by Channel.Send after Close.
	ErrChannelClosed = errors.New("result channel closed")
)

// InfeasibleError names the part unit that could not be placed.
type InfeasibleError struct {
	Part   string
	Length model.Length
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("%s: %q (%s m)", ErrInfeasible, e.Part, e.Length.FormatDecimal(4))
}

func (e *InfeasibleError) Unwrap() error { return ErrInfeasible }

// GaveUpError carries the strategy and how many units its best attempt
// left unplaced.
type GaveUpError struct {
	Strategy string
	Unplaced int
}

func (e *GaveUpError) Error() string {
	return fmt.Sprintf("%s: %s left %d unit(s) unplaced", ErrGaveUp, e.Strategy, e.Unplaced)
}

func (e *GaveUpError) Unwrap() error { return ErrGaveUp }

// MaterialError attaches the failing material to a strategy error.
type MaterialError struct {
	Material model.Material
	Err      error
}

func (e *MaterialError) Error() string {
	return fmt.Sprintf("material %q: %v", e.Material.Name, e.Err)
}

func (e *MaterialError) Unwrap() error { return e.Err }
