package dijkstra

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antigravity/transitcore/internal/router"
	"github.com/antigravity/transitcore/internal/store"
)

// adjRouter is a fixed directed adjacency list used to exercise the
// traversal against known shortest-path answers without building a full
// graph store.
type adjRouter map[store.Successor][]router.Transition

func (a adjRouter) Successors(_ *store.Store, state router.State, _ map[store.TripID]bool) []router.Transition {
	return a[state.Loc]
}

func n(id int64) store.Successor { return store.NodeSuccessor(store.NodeID(id)) }

func rosetta() adjRouter {
	edge := func(from, to int64, cost float64) router.Transition {
		return router.Transition{Dst: n(to), Cost: cost}
	}
	return adjRouter{
		n(1): {edge(1, 2, 7), edge(1, 3, 9), edge(1, 6, 14)},
		n(2): {edge(2, 3, 10), edge(2, 4, 15)},
		n(3): {edge(3, 4, 11), edge(3, 6, 2)},
		n(4): {edge(4, 5, 6)},
		n(5): {},
		n(6): {},
	}
}

func TestRosettaShortestPathToFive(t *testing.T) {
	r := rosetta()
	path := ShortestPath(nil, r, []Seed{{Loc: n(1), Value: 0}}, nil, n(5))
	require.Len(t, path, 4)

	var locs []store.NodeID
	for _, tr := range path {
		locs = append(locs, tr.Loc.NodeID)
	}
	assert.Equal(t, []store.NodeID{1, 3, 4, 5}, locs)
	assert.Equal(t, 26.0, path[len(path)-1].Value)
}

func TestRosettaShortestPathToSixGoesThroughThree(t *testing.T) {
	r := rosetta()
	path := ShortestPath(nil, r, []Seed{{Loc: n(1), Value: 0}}, nil, n(6))
	require.Len(t, path, 3)

	var locs []store.NodeID
	var costs []float64
	for _, tr := range path {
		locs = append(locs, tr.Loc.NodeID)
		costs = append(costs, tr.Value)
	}
	assert.Equal(t, []store.NodeID{1, 3, 6}, locs)
	assert.Equal(t, []float64{0, 9, 11}, costs)
}

func TestSrcEqualsDstReturnsSingleTraceZeroCost(t *testing.T) {
	r := rosetta()
	path := ShortestPath(nil, r, []Seed{{Loc: n(1), Value: 0}}, nil, n(1))
	require.Len(t, path, 1)
	assert.Equal(t, 0.0, path[0].Value)
}

func TestNoRouteReturnsNil(t *testing.T) {
	r := adjRouter{n(1): {}, n(2): {}}
	path := ShortestPath(nil, r, []Seed{{Loc: n(1), Value: 0}}, nil, n(2))
	assert.Nil(t, path)
}

func TestSettledOnceAndMonotonic(t *testing.T) {
	r := rosetta()
	sr := New(nil, r, []Seed{{Loc: n(1), Value: 0}}, nil)

	seen := make(map[store.Successor]bool)
	var prev float64
	count := 0
	for {
		tr, ok := sr.Next()
		if !ok {
			break
		}
		require.False(t, seen[tr.Loc], "node emitted more than once: %v", tr.Loc)
		seen[tr.Loc] = true
		assert.GreaterOrEqual(t, tr.Value, prev)
		prev = tr.Value
		count++
	}
	assert.Equal(t, 6, count)
}
