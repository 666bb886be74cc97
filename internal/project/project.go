// Package project reads and writes BoardCut project files, solution
// reports and the saved supply inventory.
package project

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/BoardCut/internal/model"
)

// Project is the on-disk form of a problem. Materials are a list because
// a model.Problem is keyed by struct.
type Project struct {
	Name      string          `json:"name"`
	Unit      model.Unit      `json:"unit,omitempty"`      // display unit; stored lengths are meters
	Algorithm model.Algorithm `json:"algorithm,omitempty"` // empty means greedy
	Materials []MaterialSpec  `json:"materials"`
}

// MaterialSpec is one material of a project.
type MaterialSpec struct {
	Name       string         `json:"name"`
	BladeWidth model.Length   `json:"blade_width"`
	Supplies   []model.Supply `json:"supplies"`
	Parts      []model.Part   `json:"parts"`
}

func New(name string) Project {
	return Project{
		Name:      name,
		Unit:      model.UnitMeters,
		Algorithm: model.AlgorithmGreedy,
		Materials: []MaterialSpec{},
	}
}

// Material returns the material with the given name, adding an empty one
// if the project has none.
func (p *Project) Material(name string) *MaterialSpec {
	for i := range p.Materials {
		if p.Materials[i].Name == name {
			return &p.Materials[i]
		}
	}
	p.Materials = append(p.Materials, MaterialSpec{Name: name})
	return &p.Materials[len(p.Materials)-1]
}

// Problem converts the project into a solvable problem. Material names
// must be non-empty and unique.
func (p Project) Problem() (model.Problem, error) {
	problem := make(model.Problem, len(p.Materials))
	for _, m := range p.Materials {
		name := strings.TrimSpace(m.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: material with empty name", model.ErrInvalidProblem)
		}
		key := model.Material{Name: name}
		if _, dup := problem[key]; dup {
			return nil, fmt.Errorf("%w: duplicate material %q", model.ErrInvalidProblem, name)
		}
		problem[key] = model.SubProblem{
			Supplies:   m.Supplies,
			Parts:      m.Parts,
			BladeWidth: m.BladeWidth,
		}
	}
	return problem, nil
}

// FromProblem builds a project from problem, materials in name order.
func FromProblem(name string, problem model.Problem) Project {
	p := New(name)
	for _, mat := range problem.Materials() {
		sp := problem[mat]
		p.Materials = append(p.Materials, MaterialSpec{
			Name:       mat.Name,
			BladeWidth: sp.BladeWidth,
			Supplies:   sp.Supplies,
			Parts:      sp.Parts,
		})
	}
	return p
}

// Decode reads a project from JSON.
func Decode(r io.Reader) (Project, error) {
	var p Project
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Project{}, fmt.Errorf("failed to parse project: %w", err)
	}
	unit, err := model.ParseUnit(string(p.Unit))
	if err != nil {
		return Project{}, err
	}
	alg, err := model.ParseAlgorithm(string(p.Algorithm))
	if err != nil {
		return Project{}, err
	}
	p.Unit, p.Algorithm = unit, alg
	return p, nil
}

// Load reads a project file.
func Load(path string) (Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return Project{}, fmt.Errorf("failed to open project: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Save writes the project as indented JSON, creating parent directories.
func Save(path string, p Project) error {
	return writeJSON(path, p)
}

func writeJSON(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
