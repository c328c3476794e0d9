// Package dijkstra is the lazy min-priority traversal that turns a
// router.Router into settled Traces: a container/heap priority queue of
// partial paths, expanded one settle at a time until the destination is
// reached or the frontier runs dry.
package dijkstra

import (
	"container/heap"

	"github.com/antigravity/transitcore/internal/router"
	"github.com/antigravity/transitcore/internal/store"
)

// Trace is one settled state: the node/stop reached, the absolute cost to
// reach it, and a link back to the trace it was reached from.
type Trace struct {
	Loc         store.Successor
	Value       float64
	Predecessor *Trace
	Payload     interface{} // router.WalkPayload or router.RidePayload of the edge into this trace; nil for seeds
}

// Seed is one starting state for the traversal.
type Seed struct {
	Loc   store.Successor
	Value float64
}

type heapEntry struct {
	trace *Trace
}

type traceHeap []heapEntry

func (h traceHeap) Len() int            { return len(h) }
func (h traceHeap) Less(i, j int) bool  { return h[i].trace.Value < h[j].trace.Value }
func (h traceHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *traceHeap) Push(x interface{}) { *h = append(*h, x.(heapEntry)) }
func (h *traceHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Search is a restartable lazy sequence of settled Traces in non-decreasing
// Value order. Next returns (nil, false) once the heap is exhausted.
type Search struct {
	store       *store.Store
	router      router.Router
	activeTrips map[store.TripID]bool
	heap        *traceHeap
	settled     map[store.Successor]bool
}

// New starts a traversal from the given seeds. activeTrips restricts
// transit boarding to trips running on the query's service date.
func New(s *store.Store, r router.Router, seeds []Seed, activeTrips map[store.TripID]bool) *Search {
	h := &traceHeap{}
	heap.Init(h)
	for _, seed := range seeds {
		heap.Push(h, heapEntry{trace: &Trace{Loc: seed.Loc, Value: seed.Value}})
	}
	return &Search{
		store:       s,
		router:      r,
		activeTrips: activeTrips,
		heap:        h,
		settled:     make(map[store.Successor]bool),
	}
}

// Next pops and settles the next trace in non-decreasing Value order,
// discarding stale entries for already-settled locations. It returns
// (nil, false) once the sequence is exhausted.
func (sr *Search) Next() (*Trace, bool) {
	for sr.heap.Len() > 0 {
		entry := heap.Pop(sr.heap).(heapEntry)
		t := entry.trace
		if sr.settled[t.Loc] {
			continue
		}
		sr.settled[t.Loc] = true

		for _, tr := range sr.router.Successors(sr.store, router.State{Loc: t.Loc, Time: t.Value}, sr.activeTrips) {
			if sr.settled[tr.Dst] {
				continue
			}
			heap.Push(sr.heap, heapEntry{trace: &Trace{
				Loc:         tr.Dst,
				Value:       t.Value + tr.Cost,
				Predecessor: t,
				Payload:     tr.Payload,
			}})
		}
		return t, true
	}
	return nil, false
}

// ShortestPath consumes the sequence until dst is settled (or the sequence
// exhausts), then walks the predecessor chain into forward order. Returns
// nil if dst is unreachable.
func ShortestPath(s *store.Store, r router.Router, seeds []Seed, activeTrips map[store.TripID]bool, dst store.Successor) []*Trace {
	sr := New(s, r, seeds, activeTrips)
	for {
		t, ok := sr.Next()
		if !ok {
			return nil
		}
		if t.Loc == dst {
			return reversePath(t)
		}
	}
}

func reversePath(t *Trace) []*Trace {
	var rev []*Trace
	for cur := t; cur != nil; cur = cur.Predecessor {
		rev = append(rev, cur)
	}
	path := make([]*Trace, len(rev))
	for i, tr := range rev {
		path[len(rev)-1-i] = tr
	}
	return path
}
