package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDefaultInventoryHasLumber(t *testing.T) {
	inv := DefaultInventory()
	if len(inv.Supplies) == 0 {
		t.Fatal("expected default presets")
	}
	pine := inv.ForMaterial("Pine 2x4")
	if len(pine) != 3 {
		t.Errorf("expected 3 pine 2x4 presets, got %d", len(pine))
	}
	if !pine[0].Length.Equal(MustParseLength("2.4384")) {
		t.Errorf("expected 8 ft in meters, got %s", pine[0].Length.FormatDecimal(4))
	}
}

func TestPresetToSupply(t *testing.T) {
	sp := NewSupplyPreset("Oak 1x4 8'", "Oak 1x4", LengthFromInt(2), decimal.RequireFromString("18.40"))
	s := sp.ToSupply(Unlimited)
	if s.Name != sp.Name || !s.Length.Equal(sp.Length) || !s.Price.Equal(sp.Price) {
		t.Errorf("supply does not match preset: %+v", s)
	}
	if !s.IsUnlimited() {
		t.Error("expected unlimited supply")
	}
	if s.ID == sp.ID {
		t.Error("supply should get its own ID")
	}
}

func TestInventoryLookups(t *testing.T) {
	inv := DefaultInventory()
	first := inv.Supplies[0]

	if got := inv.FindByID(first.ID); got == nil || got.Name != first.Name {
		t.Errorf("FindByID failed for %s", first.ID)
	}
	if inv.FindByID("missing") != nil {
		t.Error("expected nil for unknown ID")
	}
}
