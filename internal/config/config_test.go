package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/BoardCut/internal/model"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.json"))

	require.NoError(t, err)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "greedy", c.Algorithm)
	assert.Equal(t, "m", c.Unit)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, 64, c.ProgressBuffer)
	assert.Equal(t, model.DefaultMaxUnits, c.MaxUnits)
	assert.Equal(t, 50, c.Genetic.Population)
	assert.Equal(t, 100, c.Genetic.Generations)
	assert.Equal(t, int64(42), c.Genetic.Seed)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"algorithm":"genetic","unit":"ft-in","genetic":{"population":12,"seed":7}}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	c, err := Load(path)

	require.NoError(t, err)
	alg, err := c.SolverAlgorithm()
	require.NoError(t, err)
	assert.Equal(t, model.AlgorithmGenetic, alg)
	unit, err := c.DisplayUnit()
	require.NoError(t, err)
	assert.Equal(t, model.UnitFeetInches, unit)

	ga := c.GeneticConfig()
	assert.Equal(t, 12, ga.PopulationSize)
	assert.Equal(t, 100, ga.Generations)
	assert.Equal(t, int64(7), ga.Seed)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"http_addr":":9000"}`), 0644))
	t.Setenv("BOARDCUT_HTTP_ADDR", ":9100")
	t.Setenv("BOARDCUT_GENETIC_GENERATIONS", "5")
	t.Setenv("BOARDCUT_MAX_UNITS", "500")

	c, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, ":9100", c.HTTPAddr)
	assert.Equal(t, 5, c.Genetic.Generations)
	assert.Equal(t, 500, c.MaxUnits)
	assert.Equal(t, 500, c.GeneticConfig().MaxUnits)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"algorithm": `{"algorithm":"simplex"}`,
		"unit":      `{"unit":"furlong"}`,
		"buffer":    `{"progress_buffer":-1}`,
		"max units": `{"max_units":0}`,
		"syntax":    `{"algorithm":`,
	}
	for name, data := range cases {
		path := filepath.Join(dir, name+".json")
		require.NoError(t, os.WriteFile(path, []byte(data), 0644))
		_, err := Load(path)
		assert.Error(t, err, name)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	c := Default()
	c.Algorithm = "genetic"
	c.Unit = "cm"
	c.LogPretty = true
	c.Genetic.Seed = 99

	require.NoError(t, Save(path, c))
	loaded, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, c, loaded)
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, "config.json", filepath.Base(DefaultPath()))
	assert.Equal(t, ".boardcut", filepath.Base(DefaultDir()))
}
