package project

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/piwi3910/BoardCut/internal/model"
)

// BackupVersion is written into every backup file.
const BackupVersion = "1.0.0"

// BackupData is the top-level structure for import/export of all
// application data.
type BackupData struct {
	Version   string          `json:"version"`
	CreatedAt string          `json:"created_at"`
	Inventory model.Inventory `json:"inventory"`
	Offcuts   []model.Offcut  `json:"offcuts,omitempty"`
}

// ExportAllData exports the inventory and any tracked offcuts to a single
// JSON file at the specified path.
func ExportAllData(exportPath string, inv model.Inventory, offcuts []model.Offcut) error {
	backup := BackupData{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Inventory: inv,
		Offcuts:   offcuts,
	}
	if err := writeJSON(exportPath, backup); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for applying it.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	if backup.Inventory.Supplies == nil {
		backup.Inventory.Supplies = []model.SupplyPreset{}
	}
	return backup, nil
}

// RestoreOffcuts adds the backed-up offcuts to inv as free presets.
func (b BackupData) RestoreOffcuts(inv model.Inventory) model.Inventory {
	restored := model.Inventory{}
	for _, o := range b.Offcuts {
		restored.Supplies = append(restored.Supplies, o.ToSupplyPreset())
	}
	return MergeInventory(inv, restored)
}
