package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	g := New()
	require.NotNil(t, g)
	assert.Zero(t, g.Len())
	assert.Empty(t, g.Nodes())
}

func TestAddNode(t *testing.T) {
	g := New()

	g.AddNode("a")
	assert.Equal(t, 1, g.Len())

	g.AddNode("a") // idempotent
	assert.Equal(t, 1, g.Len())

	g.AddNode("b", "a", "a", "c")
	assert.Equal(t, []string{"a", "b"}, g.Nodes())

	deps, err := g.Dependencies("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, deps, "duplicates collapse and order is kept")

	g.AddNode("b", "d", "a")
	deps, err = g.Dependencies("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "d"}, deps)
}

func TestBuild_DependencyAndDependentMaps(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	specs := []Spec{
		{Name: "fetch"},
		{Name: "parse", DependsOn: []string{"fetch"}},
		{Name: "count", DependsOn: []string{"fetch"}},
		{Name: "report", DependsOn: []string{"count", "parse", "ghost"}},
	}

	// --- Act ---
	g := Build(specs...)

	// --- Assert ---
	assert.Equal(t, map[string][]string{
		"fetch":  {},
		"parse":  {"fetch"},
		"count":  {"fetch"},
		"report": {"count", "parse", "ghost"},
	}, normalize(g.DependencyMap()))
	assert.Equal(t, []string{"count", "parse"}, g.Dependents("fetch"))
	assert.Equal(t, []string{"report"}, g.DependentMap()["ghost"])
	assert.Equal(t, []string{"report"}, g.Dependents("ghost"), "edges to undeclared names are kept")
	assert.Empty(t, g.Dependents("report"))
	assert.Equal(t, map[string][]string{"report": {"ghost"}}, g.Missing())
	assert.True(t, g.Has("fetch"))
	assert.False(t, g.Has("ghost"))

	_, err := g.Dependencies("ghost")
	assert.ErrorContains(t, err, "node not found")
}

func normalize(m map[string][]string) map[string][]string {
	for k, v := range m {
		if v == nil {
			m[k] = []string{}
		}
	}
	return m
}

func TestAddEdge(t *testing.T) {
	t.Run("success case", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")

		require.NoError(t, g.AddEdge("a", "b")) // b depends on a

		deps, err := g.Dependencies("b")
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, deps)
		assert.Equal(t, []string{"b"}, g.Dependents("a"))
	})

	t.Run("error cases", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")

		assert.ErrorContains(t, g.AddEdge("dne", "a"), "source node not found")
		assert.ErrorContains(t, g.AddEdge("a", "dne"), "destination node not found")
		assert.ErrorContains(t, g.AddEdge("a", "a"), "self-referential edge")
	})
}

func TestDetectCycles(t *testing.T) {
	t.Run("empty graph has no cycles", func(t *testing.T) {
		assert.NoError(t, New().DetectCycles())
	})

	t.Run("valid dag has no cycles", func(t *testing.T) {
		g := Build(
			Spec{Name: "a"},
			Spec{Name: "b", DependsOn: []string{"a"}},
			Spec{Name: "c", DependsOn: []string{"a", "b"}},
			Spec{Name: "d", DependsOn: []string{"c", "missing"}},
		)
		assert.NoError(t, g.DetectCycles())
	})

	t.Run("simple direct cycle is detected", func(t *testing.T) {
		g := Build(
			Spec{Name: "a", DependsOn: []string{"b"}},
			Spec{Name: "b", DependsOn: []string{"a"}},
		)
		assert.ErrorIs(t, g.DetectCycles(), ErrCycle)
	})

	t.Run("self dependency is a cycle", func(t *testing.T) {
		g := Build(Spec{Name: "a", DependsOn: []string{"a"}})
		assert.ErrorIs(t, g.DetectCycles(), ErrCycle)
	})

	t.Run("cycle in a disjoint component is detected", func(t *testing.T) {
		g := Build(
			Spec{Name: "a"},
			Spec{Name: "b", DependsOn: []string{"a"}},
			Spec{Name: "x"},
			Spec{Name: "y", DependsOn: []string{"x", "z"}},
			Spec{Name: "z", DependsOn: []string{"y"}},
		)
		err := g.DetectCycles()
		require.ErrorIs(t, err, ErrCycle)
		assert.ErrorContains(t, err, "cycle detected")
	})
}
