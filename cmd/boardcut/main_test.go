package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/BoardCut/internal/project"
)

// testEnv isolates config and inventory in a temp dir and returns it.
func testEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("BOARDCUT_INVENTORY_PATH", filepath.Join(dir, "inventory.json"))
	t.Setenv("BOARDCUT_LOG_LEVEL", "disabled")
	return dir
}

func runCLI(t *testing.T, dir string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	all := append([]string{"-config", filepath.Join(dir, "config.json")}, args...)
	code := run(context.Background(), all, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// importTable writes a parts and a supplies CSV and imports them into a
// project file.
func importTable(t *testing.T, dir string) string {
	t.Helper()
	parts := writeFile(t, filepath.Join(dir, "parts.csv"), "Name,Length,Qty\nLeg,0.7,4\n")
	supplies := writeFile(t, filepath.Join(dir, "supplies.csv"), "Name,Length,Price\nBoard,2.4,3.50\n")
	proj := filepath.Join(dir, "table.json")

	code, _, stderr := runCLI(t, dir, "import", "-name", "Table", "-material", "Pine", "-supplies", supplies, "-o", proj, parts)
	require.Equal(t, 0, code, stderr)
	return proj
}

func TestUsage(t *testing.T) {
	dir := testEnv(t)

	code, _, stderr := runCLI(t, dir)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "commands:")

	code, _, stderr = runCLI(t, dir, "frobnicate")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "unknown command")

	code, _, _ = runCLI(t, dir, "solve")
	assert.Equal(t, 2, code)
}

func TestImportWritesProject(t *testing.T) {
	dir := testEnv(t)
	proj := importTable(t, dir)

	p, err := project.Load(proj)
	require.NoError(t, err)
	assert.Equal(t, "Table", p.Name)
	require.Len(t, p.Materials, 1)
	assert.Equal(t, "Pine", p.Materials[0].Name)
	assert.Len(t, p.Materials[0].Parts, 1)
	assert.Len(t, p.Materials[0].Supplies, 1)
}

func TestImportNothing(t *testing.T) {
	dir := testEnv(t)
	empty := writeFile(t, filepath.Join(dir, "empty.csv"), "Name,Length,Qty\n")

	code, _, stderr := runCLI(t, dir, "import", "-material", "Pine", empty)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "nothing imported")
}

func TestSolveWritesReports(t *testing.T) {
	dir := testEnv(t)
	proj := importTable(t, dir)
	report := filepath.Join(dir, "report.json")
	xlsx := filepath.Join(dir, "plan.xlsx")

	code, stdout, stderr := runCLI(t, dir, "solve", "-progress", "-o", report, "-xlsx", xlsx, proj)
	require.Equal(t, 0, code, stderr)

	assert.Contains(t, stdout, "Total price: 7.00 (2 pieces)")
	assert.Contains(t, stderr, "Solving 100%")
	assert.FileExists(t, report)
	assert.FileExists(t, xlsx)

	r, err := project.LoadReport(report)
	require.NoError(t, err)
	assert.Equal(t, 2, r.PiecesUsed)
}

func TestSolveInfeasible(t *testing.T) {
	dir := testEnv(t)
	proj := filepath.Join(dir, "p.json")
	writeFile(t, proj, `{"name":"x","materials":[{"name":"Pine","blade_width":"0",
		"supplies":[{"name":"Board","length":"1","price":"1","max_quantity":-1}],
		"parts":[{"name":"Beam","length":"2","quantity":1}]}]}`)

	code, _, stderr := runCLI(t, dir, "solve", proj)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Beam")
}

func TestSolveRejectsTooManyUnits(t *testing.T) {
	dir := testEnv(t)
	proj := importTable(t, dir)
	t.Setenv("BOARDCUT_MAX_UNITS", "3")

	for name, args := range map[string][]string{
		"solve":    {"solve", proj},
		"compare":  {"compare", proj},
		"estimate": {"estimate", "-supply", "2.4", proj},
	} {
		code, _, stderr := runCLI(t, dir, args...)
		assert.Equal(t, 1, code, name)
		assert.Contains(t, stderr, "demand more than 3 units", name)
	}
}

func TestSolveSavesOffcuts(t *testing.T) {
	dir := testEnv(t)
	proj := importTable(t, dir)

	code, stdout, stderr := runCLI(t, dir, "solve", "-save-offcuts", "1", proj)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Saved 1 offcut(s) of Pine")

	code, stdout, _ = runCLI(t, dir, "inventory", "list")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Offcut Board")
}

func TestCompare(t *testing.T) {
	dir := testEnv(t)
	proj := importTable(t, dir)

	code, stdout, stderr := runCLI(t, dir, "compare", proj)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Current Settings")
	assert.Contains(t, stdout, "Genetic Algorithm")
	assert.Contains(t, stdout, "7.00")
}

func TestEstimate(t *testing.T) {
	dir := testEnv(t)
	proj := importTable(t, dir)

	code, stdout, stderr := runCLI(t, dir, "estimate", "-supply", "2.4", "-price", "3.50", "-waste", "0", proj)
	require.Equal(t, 0, code, stderr)
	// 4 * 0.7 = 2.8 m over 2.4 m boards
	assert.Contains(t, stdout, "7.00")

	code, _, _ = runCLI(t, dir, "estimate", proj)
	assert.Equal(t, 2, code)
}

func TestInventoryBackupAndRestore(t *testing.T) {
	dir := testEnv(t)
	proj := importTable(t, dir)
	report := filepath.Join(dir, "report.json")
	backup := filepath.Join(dir, "backup.json")

	code, _, stderr := runCLI(t, dir, "solve", "-o", report, proj)
	require.Equal(t, 0, code, stderr)

	code, stdout, stderr := runCLI(t, dir, "inventory", "-report", report, "-min", "1", "backup", backup)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "1 offcut(s)")

	require.NoError(t, os.Remove(filepath.Join(dir, "inventory.json")))
	code, stdout, stderr = runCLI(t, dir, "inventory", "restore", backup)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Restored")

	code, stdout, _ = runCLI(t, dir, "inventory", "list")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Offcut Board")
	assert.Contains(t, stdout, "Pine 2x4 8'")
}

func TestInventoryExportImport(t *testing.T) {
	dir := testEnv(t)
	exported := filepath.Join(dir, "presets.json")

	code, stdout, stderr := runCLI(t, dir, "inventory", "export", exported)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Exported")

	// Same IDs, nothing new
	code, stdout, _ = runCLI(t, dir, "inventory", "import", exported)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Imported 0 preset(s)")

	code, _, _ = runCLI(t, dir, "inventory", "export")
	assert.Equal(t, 2, code)
}

func TestConfigShowAndSave(t *testing.T) {
	dir := testEnv(t)

	code, stdout, stderr := runCLI(t, dir, "config")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, `"http_addr": ":8080"`)
	assert.Contains(t, stdout, `"log_level": "disabled"`)

	saved := filepath.Join(dir, "saved.json")
	code, _, stderr = runCLI(t, dir, "config", saved)
	require.Equal(t, 0, code, stderr)
	assert.FileExists(t, saved)
}
