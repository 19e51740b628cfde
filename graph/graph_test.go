package graph

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sortedComps(comps [][]int) [][]int {
	out := make([][]int, len(comps))
	for i, c := range comps {
		cp := append([]int(nil), c...)
		sort.Ints(cp)
		out[i] = cp
	}
	return out
}

func TestSCCSingletons(t *testing.T) {
	g := NewGraph(3)
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	comps := sortedComps(g.SCC())
	assert.Equal(t, [][]int{{2}, {1}, {0}}, comps)
}

func TestSCCCycle(t *testing.T) {
	g := NewGraph(3)
	g.AddEdge(0, 1)
	g.AddEdge(1, 0)
	g.AddEdge(0, 2)
	comps := sortedComps(g.SCC())
	assert.Equal(t, [][]int{{2}, {0, 1}}, comps)
}

func TestSCCDependencyFirstOrder(t *testing.T) {
	// A -> B -> C, no cycles: C must come before B, B before A.
	g := NewGraph(3)
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	comps := g.SCC()
	pos := map[int]int{}
	for i, c := range comps {
		for _, v := range c {
			pos[v] = i
		}
	}
	assert.Less(t, pos[2], pos[1])
	assert.Less(t, pos[1], pos[0])
}
