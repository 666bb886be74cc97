package model

import (
	"errors"
	"fmt"
)

// ErrInvalidProblem is matched by every validation failure.
var ErrInvalidProblem = errors.New("invalid problem")

// DefaultMaxUnits is the default limit on the part units one problem may
// demand across all materials.
const DefaultMaxUnits = 100000

// InvalidError describes a single field that is out of its domain.
type InvalidError struct {
	Material string
	Field    string
	Reason   string
}

func (e *InvalidError) Error() string {
	if e.Material == "" {
		return fmt.Sprintf("%s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("material %q: %s %s", e.Material, e.Field, e.Reason)
}

func (e *InvalidError) Unwrap() error { return ErrInvalidProblem }

// Validate checks the numeric domain of every supply, part and blade width.
// The first violation found (materials in name order) is returned.
func (p Problem) Validate() error {
	for _, mat := range p.Materials() {
		if err := p[mat].validate(mat.Name); err != nil {
			return err
		}
	}
	return nil
}

func (sp SubProblem) validate(material string) error {
	invalid := func(field, reason string) error {
		return &InvalidError{Material: material, Field: field, Reason: reason}
	}

	if sp.BladeWidth.Sign() < 0 {
		return invalid("blade width", "must not be negative")
	}
	for i, s := range sp.Supplies {
		field := fmt.Sprintf("supply %d (%s)", i+1, s.Name)
		if s.Length.Sign() <= 0 {
			return invalid(field, "length must be positive")
		}
		if s.Price.IsNegative() {
			return invalid(field, "price must not be negative")
		}
		if s.MaxQuantity < Unlimited {
			return invalid(field, fmt.Sprintf("max quantity must be %d (unlimited) or more", Unlimited))
		}
	}
	for i, pt := range sp.Parts {
		field := fmt.Sprintf("part %d (%s)", i+1, pt.Name)
		if pt.Length.Sign() <= 0 {
			return invalid(field, "length must be positive")
		}
		if pt.Quantity < 0 {
			return invalid(field, "quantity must not be negative")
		}
	}
	return nil
}

// ValidateUnits rejects a problem demanding more than limit part units in
// total, naming the material at which the limit is crossed. A limit of zero
// or less disables the check.
func (p Problem) ValidateUnits(limit int) error {
	if limit <= 0 {
		return nil
	}
	total := 0
	for _, mat := range p.Materials() {
		units := p[mat].TotalUnits()
		if units > limit-total {
			return &InvalidError{
				Material: mat.Name,
				Field:    "parts",
				Reason:   fmt.Sprintf("demand more than %d units in total", limit),
			}
		}
		total += units
	}
	return nil
}
