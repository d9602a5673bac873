package anyangle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pdrpinto/anyangle/grid"
)

// ErrScenario is returned when a scenario file cannot be loaded.
var ErrScenario = errors.New("invalid scenario")

// Scenario is a map plus a list of problems to solve on it, loaded from a
// YAML or JSON file:
//
//	grid: |
//	  4 2
//	  0 1 0 0
//	  0 0 0 0
//	algorithm: lazy-theta
//	workers: 2
//	problems:
//	  - name: 0-0-4-2
//	  - start: {x: 0, y: 2}
//	    goal: {x: 4, y: 0}
//
// Grid holds the map in grid.Read format; GridFile names a file in that
// format instead, relative to the scenario file.
type Scenario struct {
	Grid      string            `yaml:"grid,omitempty" json:"grid,omitempty" validate:"required_without=GridFile"`
	GridFile  string            `yaml:"gridFile,omitempty" json:"gridFile,omitempty" validate:"required_without=Grid"`
	Algorithm string            `yaml:"algorithm,omitempty" json:"algorithm,omitempty"`
	Workers   int               `yaml:"workers,omitempty" json:"workers,omitempty" validate:"gte=0"`
	Problems  []ScenarioProblem `yaml:"problems" json:"problems" validate:"required,min=1,dive"`

	dir string
}

// ScenarioProblem is one start and goal pair. Name, when set, is a problem
// name in grid.ProblemName form and takes the place of Start and Goal.
type ScenarioProblem struct {
	Name  string     `yaml:"name,omitempty" json:"name,omitempty"`
	Start grid.Point `yaml:"start" json:"start"`
	Goal  grid.Point `yaml:"goal" json:"goal"`
}

// LoadScenario reads a scenario from path. Files ending in .json are decoded
// as JSON, everything else as YAML.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	s, err := ParseScenario(data, strings.EqualFold(filepath.Ext(path), ".json"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.dir = filepath.Dir(path)
	return s, nil
}

// ParseScenario decodes and validates a scenario.
func ParseScenario(data []byte, isJSON bool) (*Scenario, error) {
	var s Scenario
	if isJSON {
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScenario, err)
		}
	} else if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScenario, err)
	}
	if err := validate.Struct(&s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScenario, err)
	}
	if s.Algorithm != "" {
		if _, err := ParseAlgorithm(s.Algorithm); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScenario, err)
		}
	}
	for i := range s.Problems {
		p := &s.Problems[i]
		if p.Name == "" {
			continue
		}
		start, goal, err := grid.ParseProblemName(p.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: problem %d: %w", ErrScenario, i, err)
		}
		p.Start, p.Goal = start, goal
	}
	return &s, nil
}

// LoadGrid returns the scenario's map.
func (s *Scenario) LoadGrid() (*grid.Grid, error) {
	if s.Grid != "" {
		return grid.Read(strings.NewReader(s.Grid))
	}
	path := s.GridFile
	if !filepath.IsAbs(path) && s.dir != "" {
		path = filepath.Join(s.dir, path)
	}
	return grid.ReadFile(path)
}

// Run solves every problem of the scenario with SearchBatch. Options given
// here override the scenario's algorithm and worker count.
func (s *Scenario) Run(ctx context.Context, options ...Option) ([]BatchResult, error) {
	g, err := s.LoadGrid()
	if err != nil {
		return nil, fmt.Errorf("load scenario grid: %w", err)
	}
	tasks := make([]BatchTask, len(s.Problems))
	for i, p := range s.Problems {
		tasks[i] = BatchTask{Start: p.Start, Goal: p.Goal}
	}

	var base []Option
	if s.Algorithm != "" {
		base = append(base, WithAlgorithm(Algorithm(s.Algorithm)))
	}
	if s.Workers > 0 {
		base = append(base, WithWorkers(s.Workers))
	}
	return SearchBatch(ctx, g, tasks, append(base, options...)...)
}
