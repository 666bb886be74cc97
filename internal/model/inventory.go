package model

import "github.com/shopspring/decimal"

// SupplyPreset is a reusable supply definition, e.g. the 8-foot 2x4 the
// local yard always stocks.
type SupplyPreset struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Material string          `json:"material"`
	Length   Length          `json:"length"` // meters
	Price    decimal.Decimal `json:"price"`
}

// NewSupplyPreset creates a new SupplyPreset with a generated ID.
func NewSupplyPreset(name, material string, length Length, price decimal.Decimal) SupplyPreset {
	return SupplyPreset{
		ID:       newID(),
		Name:     name,
		Material: material,
		Length:   length,
		Price:    price,
	}
}

// ToSupply converts the preset into a Supply with the given availability.
func (sp SupplyPreset) ToSupply(maxQty int) Supply {
	return NewSupply(sp.Name, sp.Length, sp.Price, maxQty)
}

// Inventory holds the user's saved supply presets.
type Inventory struct {
	Supplies []SupplyPreset `json:"supplies"`
}

// DefaultInventory returns an inventory populated with common dimensional
// lumber lengths. Prices are zero until the user sets them.
func DefaultInventory() Inventory {
	ft := func(n int64) Length { return UnitFeetInches.ToMeters(LengthFromInt(n), Length{}) }
	return Inventory{
		Supplies: []SupplyPreset{
			NewSupplyPreset("Pine 2x4 8'", "Pine 2x4", ft(8), decimal.Zero),
			NewSupplyPreset("Pine 2x4 10'", "Pine 2x4", ft(10), decimal.Zero),
			NewSupplyPreset("Pine 2x4 12'", "Pine 2x4", ft(12), decimal.Zero),
			NewSupplyPreset("Pine 1x6 8'", "Pine 1x6", ft(8), decimal.Zero),
			NewSupplyPreset("Oak 1x4 8'", "Oak 1x4", ft(8), decimal.Zero),
			NewSupplyPreset("Aluminium Tube 6m", "Aluminium Tube", LengthFromInt(6), decimal.Zero),
		},
	}
}

// FindByID returns a pointer to the preset with the given ID, or nil.
func (inv *Inventory) FindByID(id string) *SupplyPreset {
	for i := range inv.Supplies {
		if inv.Supplies[i].ID == id {
			return &inv.Supplies[i]
		}
	}
	return nil
}

// ForMaterial returns the presets of a single material, in inventory order.
func (inv *Inventory) ForMaterial(material string) []SupplyPreset {
	var out []SupplyPreset
	for _, s := range inv.Supplies {
		if s.Material == material {
			out = append(out, s)
		}
	}
	return out
}
