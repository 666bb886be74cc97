package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/BoardCut/internal/model"
)

func TestExportLabels_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")

	err := ExportLabels(path, buildTestSolution(), model.UnitCentimeters)
	if err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportLabels_MultiplePages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")
	sub := model.SubSolution{
		Supplies: []model.Supply{{Name: "Board", Length: model.LengthFromInt(2)}},
		Parts:    []model.Part{{Name: "Peg", Length: model.MustParseLength("0.1"), Quantity: 45}},
		CutLists: []model.CutList{{SupplyIndex: 0, PartIndices: make([]int, 15), Quantity: 3}},
	}
	solution := model.Solution{{Name: "Dowel"}: sub}

	if n := len(CollectLabelInfos(solution, model.UnitMeters)); n != 45 {
		t.Fatalf("expected 45 labels, got %d", n)
	}
	if err := ExportLabels(path, solution, model.UnitMeters); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}
}

func TestExportLabels_EmptySolution(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")

	if err := ExportLabels(path, model.Solution{}, model.UnitMeters); err == nil {
		t.Fatal("expected error for empty solution, got nil")
	}
}

func TestExportLabels_OnlyEmptyPieces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no_parts.pdf")
	solution := model.Solution{
		{Name: "x"}: {
			Supplies: []model.Supply{{Name: "Board", Length: model.LengthFromInt(1)}},
			CutLists: []model.CutList{{SupplyIndex: 0, Quantity: 1}},
		},
	}
	if err := ExportLabels(path, solution, model.UnitMeters); err == nil {
		t.Fatal("expected error for a plan that cuts no parts, got nil")
	}
}

func TestCollectLabelInfos(t *testing.T) {
	labels := CollectLabelInfos(buildTestSolution(), model.UnitCentimeters)

	if len(labels) != 14 {
		t.Fatalf("expected 14 labels, got %d", len(labels))
	}

	// Oak sorts before Pine
	first := labels[0]
	if first.Material != "Oak 1x4" || first.PartName != "Slat" || first.Length != "45 cm" {
		t.Errorf("unexpected first label %+v", first)
	}
	if first.CutList != 1 || first.Piece != 1 || first.Position != 1 {
		t.Errorf("unexpected first label position %+v", first)
	}

	// Pine cut list 1 starts with the apron on the on-hand board
	pine := labels[4]
	if pine.Material != "Pine 2x4" || pine.PartName != "Apron" || pine.Supply != "On hand 8'" {
		t.Errorf("unexpected pine label %+v", pine)
	}

	// Second piece of pine cut list 2
	second := labels[4+2+3]
	if second.CutList != 2 || second.Piece != 2 || second.Position != 1 {
		t.Errorf("unexpected label %+v", second)
	}
}

func TestLabelInfo_JSONRoundTrip(t *testing.T) {
	info := LabelInfo{
		PartName: "Leg",
		Length:   "70 cm",
		Material: "Pine 2x4",
		Supply:   "Store 8'",
		CutList:  2,
		Piece:    1,
		Position: 3,
	}

	data, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("failed to marshal LabelInfo: %v", err)
	}

	var decoded LabelInfo
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal LabelInfo: %v", err)
	}
	if decoded != info {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, info)
	}
}
