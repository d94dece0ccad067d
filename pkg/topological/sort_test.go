package topological_test

import (
	"maps"
	"slices"
	"testing"

	"github.com/rhino1998/unify/pkg/topological"
	"github.com/stretchr/testify/require"
)

type Graph struct {
	nodes map[int]struct{}
	edges map[int]map[int]struct{}
}

func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[int]struct{}),
		edges: make(map[int]map[int]struct{}),
	}
}

func (g *Graph) Nodes() []int {
	nodes := slices.Collect(maps.Keys(g.nodes))
	slices.Sort(nodes)
	return nodes
}

func (g *Graph) NodeDeps(a int) []int {
	deps := slices.Collect(maps.Keys(g.edges[a]))
	slices.Sort(deps)
	return deps
}

// Add records that b depends on a.
func (g *Graph) Add(a, b int) {
	g.nodes[a] = struct{}{}
	g.nodes[b] = struct{}{}
	if _, ok := g.edges[b]; !ok {
		g.edges[b] = make(map[int]struct{})
	}
	g.edges[b][a] = struct{}{}
}

func TestTopologicalSort_Empty(t *testing.T) {
	g := NewGraph()

	r := require.New(t)

	l, err := topological.Sort(g.Nodes(), g.NodeDeps)
	r.NoError(err)
	r.Equal(0, len(l))
}

func TestTopologicalSort_Basic(t *testing.T) {
	g := NewGraph()
	g.Add(1, 2)
	g.Add(2, 3)

	r := require.New(t)

	l, err := topological.Sort(g.Nodes(), g.NodeDeps)
	r.NoError(err)
	r.Equal([]int{1, 2, 3}, l)
}

func TestTopologicalSort_Complex(t *testing.T) {
	g := NewGraph()
	g.Add(1, 2)
	g.Add(2, 3)
	g.Add(2, 4)
	g.Add(2, 5)

	g.Add(3, 6)
	g.Add(4, 6)
	g.Add(5, 6)

	r := require.New(t)

	l, err := topological.Sort(g.Nodes(), g.NodeDeps)
	r.NoError(err)
	r.Equal([]int{1, 2, 3, 4, 5, 6}, l)
}

func TestTopologicalSort_Cycle(t *testing.T) {
	g := NewGraph()
	g.Add(1, 1)

	r := require.New(t)

	_, err := topological.Sort(g.Nodes(), g.NodeDeps)
	r.ErrorIs(err, topological.ErrCycleDetected)
}

func TestTopologicalSort_ComplexCycle(t *testing.T) {
	g := NewGraph()
	g.Add(1, 2)
	g.Add(2, 3)
	g.Add(2, 4)
	g.Add(2, 5)

	g.Add(3, 6)
	g.Add(4, 6)
	g.Add(5, 6)
	g.Add(6, 1)

	r := require.New(t)

	_, err := topological.Sort(g.Nodes(), g.NodeDeps)
	r.ErrorIs(err, topological.ErrCycleDetected)
}

type decl struct {
	name   string
	parent string
}

func TestTopologicalSortFunc_KeepsInputOrder(t *testing.T) {
	decls := []decl{
		{name: "Puppy", parent: "Dog"},
		{name: "Int"},
		{name: "Dog", parent: "Animal"},
		{name: "Str", parent: "any"},
		{name: "Animal"},
	}

	r := require.New(t)

	l, err := topological.SortFunc(decls,
		func(d decl) string { return d.name },
		func(d decl) []string { return []string{d.parent} },
	)
	r.NoError(err)

	var names []string
	for _, d := range l {
		names = append(names, d.name)
	}
	r.Equal([]string{"Int", "Str", "Animal", "Dog", "Puppy"}, names)
}

func TestTopologicalSortFunc_CycleNamesMembers(t *testing.T) {
	decls := []decl{
		{name: "A", parent: "B"},
		{name: "B", parent: "A"},
		{name: "C"},
	}

	r := require.New(t)

	_, err := topological.SortFunc(decls,
		func(d decl) string { return d.name },
		func(d decl) []string { return []string{d.parent} },
	)
	r.ErrorIs(err, topological.ErrCycleDetected)
	r.ErrorContains(err, "[A B]")
}
