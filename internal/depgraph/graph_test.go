package depgraph

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	g := New[string]()
	require.NotNil(t, g)
	assert.NotNil(t, g.nodes)
	assert.Empty(t, g.nodes)
	assert.Equal(t, 0, g.Len())
}

func TestAddNode(t *testing.T) {
	g := New[string]()

	g.AddNode("a")
	assert.Len(t, g.nodes, 1)
	nodeA, ok := g.nodes["a"]
	require.True(t, ok)
	assert.Equal(t, "a", nodeA.id)
	assert.Empty(t, nodeA.deps)
	assert.Empty(t, nodeA.dependents)

	g.AddNode("a") // Test idempotency
	assert.Len(t, g.nodes, 1)

	g.AddNode("b")
	assert.Equal(t, []string{"a", "b"}, g.order)
}

func TestAddEdge(t *testing.T) {
	t.Run("success case", func(t *testing.T) {
		g := New[string]()
		g.AddNode("a")
		g.AddNode("b")

		require.NoError(t, g.AddEdge("a", "b")) // b depends on a
		require.NoError(t, g.AddEdge("a", "b")) // duplicate is ignored

		deps, err := g.Dependencies("b")
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, deps)
	})

	t.Run("self edge is allowed", func(t *testing.T) {
		g := New[string]()
		g.AddNode("a")
		assert.NoError(t, g.AddEdge("a", "a"))
	})

	t.Run("error cases", func(t *testing.T) {
		g := New[string]()
		g.AddNode("a")

		err := g.AddEdge("dne", "a")
		assert.ErrorContains(t, err, "source node not found")

		err = g.AddEdge("a", "dne")
		assert.ErrorContains(t, err, "destination node not found")

		_, err = g.Dependencies("dne")
		assert.ErrorContains(t, err, "node not found")
	})
}

func TestTopologicalSort(t *testing.T) {
	t.Run("empty graph", func(t *testing.T) {
		sorted, unsorted := New[string]().TopologicalSort()
		assert.Empty(t, sorted)
		assert.Empty(t, unsorted)
	})

	t.Run("nodes without edges keep insertion order", func(t *testing.T) {
		g := New[string]()
		g.AddNode("c")
		g.AddNode("a")
		g.AddNode("b")
		sorted, unsorted := g.TopologicalSort()
		assert.Equal(t, []string{"c", "a", "b"}, sorted)
		assert.Empty(t, unsorted)
	})

	t.Run("dependencies come first", func(t *testing.T) {
		g := New[string]()
		for _, id := range []string{"d", "c", "b", "a"} {
			g.AddNode(id)
		}
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "c"))
		require.NoError(t, g.AddEdge("a", "c")) // Transitive edge
		require.NoError(t, g.AddEdge("c", "d"))

		sorted, unsorted := g.TopologicalSort()
		assert.Equal(t, []string{"a", "b", "c", "d"}, sorted)
		assert.Empty(t, unsorted)
	})

	t.Run("cycle leaves nodes unsorted", func(t *testing.T) {
		g := New[string]()
		for _, id := range []string{"free", "x", "y", "after"} {
			g.AddNode(id)
		}
		require.NoError(t, g.AddEdge("x", "y"))
		require.NoError(t, g.AddEdge("y", "x"))
		require.NoError(t, g.AddEdge("y", "after"))

		sorted, unsorted := g.TopologicalSort()
		assert.Equal(t, []string{"free"}, sorted)
		assert.Equal(t, []string{"x", "y", "after"}, unsorted)
	})
}

func TestFindCycle(t *testing.T) {
	t.Run("empty graph has no cycles", func(t *testing.T) {
		assert.Nil(t, New[string]().FindCycle())
	})

	t.Run("valid dag has no cycles", func(t *testing.T) {
		g := New[string]()
		g.AddNode("a")
		g.AddNode("b")
		g.AddNode("c")
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "c"))
		require.NoError(t, g.AddEdge("a", "c"))
		assert.Nil(t, g.FindCycle())
	})

	t.Run("self edge is a cycle of one", func(t *testing.T) {
		g := New[string]()
		g.AddNode("a")
		require.NoError(t, g.AddEdge("a", "a"))
		assert.Equal(t, []string{"a"}, g.FindCycle())
	})

	t.Run("longer cycle is detected", func(t *testing.T) {
		g := New[string]()
		for _, id := range []string{"a", "b", "c", "d"} {
			g.AddNode(id)
		}
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "c"))
		require.NoError(t, g.AddEdge("c", "d"))
		require.NoError(t, g.AddEdge("d", "b")) // Cycle back into the chain
		assert.Equal(t, []string{"b", "c", "d"}, g.FindCycle())
	})

	t.Run("cycle in a disjoint component is detected", func(t *testing.T) {
		g := New[string]()
		g.AddNode("a")
		g.AddNode("b")
		require.NoError(t, g.AddEdge("a", "b"))

		g.AddNode("x")
		g.AddNode("y")
		g.AddNode("z")
		require.NoError(t, g.AddEdge("x", "y"))
		require.NoError(t, g.AddEdge("y", "z"))
		require.NoError(t, g.AddEdge("z", "y")) // Cycle

		assert.Equal(t, []string{"y", "z"}, g.FindCycle())
	})
}

func TestGraph_ConcurrentAddNode(t *testing.T) {
	g := New[int]()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			g.AddNode(i % 10)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 10, g.Len())
}
