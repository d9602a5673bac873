package anyangle

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inlineScenario = `
grid: |
  4 2
  0 1 0 0
  0 0 0 0
algorithm: lazy-theta
workers: 2
problems:
  - name: 0-0-4-2
  - start: {x: 0, y: 2}
    goal: {x: 4, y: 0}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_YAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "scenario.yaml", inlineScenario)

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "lazy-theta", s.Algorithm)
	assert.Equal(t, 2, s.Workers)
	require.Len(t, s.Problems, 2)
	assert.Equal(t, pt(0, 0), s.Problems[0].Start)
	assert.Equal(t, pt(4, 2), s.Problems[0].Goal)
	assert.Equal(t, pt(0, 2), s.Problems[1].Start)
	assert.Equal(t, pt(4, 0), s.Problems[1].Goal)

	g, err := s.LoadGrid()
	require.NoError(t, err)
	assert.Equal(t, 4, g.Width())
	assert.True(t, g.IsBlocked(1, 0))

	results, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.NoError(t, r.Err)
		assert.True(t, r.Result.Found)
	}
}

func TestLoadScenario_JSONWithGridFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "map.txt", "3 3\n0 0 0\n0 1 0\n0 0 0\n")
	path := writeFile(t, dir, "scenario.json", `{
		"gridFile": "map.txt",
		"problems": [{"name": "0_0_3_3"}, {"start": {"x": 3, "y": 0}, "goal": {"x": 0, "y": 3}}]
	}`)

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Empty(t, s.Algorithm)

	results, err := s.Run(context.Background(), WithAlgorithm(VisibilityGraph))
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		require.NoError(t, r.Err)
		assert.InDelta(t, 2*math.Sqrt(5), r.Result.TotalCost, 1e-9)
	}
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no grid", "problems:\n  - name: 0-0-1-1\n"},
		{"no problems", "grid: \"1 1\\n0\"\n"},
		{"bad problem name", "grid: \"1 1\\n0\"\nproblems:\n  - name: zero\n"},
		{"unknown algorithm", "grid: \"1 1\\n0\"\nalgorithm: dfs\nproblems:\n  - name: 0-0-1-1\n"},
		{"negative workers", "grid: \"1 1\\n0\"\nworkers: -1\nproblems:\n  - name: 0-0-1-1\n"},
		{"malformed yaml", "grid: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.data), false)
			assert.ErrorIs(t, err, ErrScenario)
		})
	}

	_, err := ParseScenario([]byte(`{"grid": 3}`), true)
	assert.ErrorIs(t, err, ErrScenario)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
