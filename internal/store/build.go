package store

import "sort"

// Builder accumulates entities into a Store and, on Finalize, establishes
// the derived invariants before handing the Store to query serving.
// It is the in-process counterpart of internal/preprocess's offline job:
// preprocess reads from Postgres/CSV/whatever external source and calls
// these Add* methods; Builder itself knows nothing about where the data
// came from.
type Builder struct {
	store *Store
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{store: New()}
}

func (b *Builder) AddNode(n Node) { b.store.nodes[n.ID] = n }

func (b *Builder) AddWay(w Way) { b.store.ways[w.ID] = w }

func (b *Builder) AddStop(s Stop) { b.store.stops[s.ID] = s }

func (b *Builder) AddTrip(t Trip) { b.store.trips[t.ID] = t }

func (b *Builder) AddService(s Service) { b.store.services[s.ID] = s }

func (b *Builder) AddRoute(r Route) { b.store.routes[r.ID] = r }

func (b *Builder) AddAgency(a Agency) { b.store.agencies[a.ID] = a }

func (b *Builder) AddStopTime(st StopTime) {
	b.store.stopTimes[st.Trip] = append(b.store.stopTimes[st.Trip], st)
}

// LinkNodeSuccessor records a forward Node -> (Node|Stop) edge. AnchorStop
// is the same call with a Stop successor: it is how a Stop becomes
// walkable-reachable from a Node (a stop's nearest-node link).
func (b *Builder) LinkNodeSuccessor(from NodeID, to Successor) {
	n := b.store.nodes[from]
	n.Successors = append(n.Successors, to)
	b.store.nodes[from] = n
}

// AnchorStop is sugar for LinkNodeSuccessor(node, StopSuccessor(stop)).
func (b *Builder) AnchorStop(node NodeID, stop StopID) {
	b.LinkNodeSuccessor(node, StopSuccessor(stop))
}

// Finalize derives the invariants query serving requires, builds the
// range indexes the fast-query layer needs, and validates that every
// derived invariant actually holds. A non-nil error is always
// store.ErrGraphInvariant (wrapped) and is fatal.
func (b *Builder) Finalize() (*Store, error) {
	s := b.store

	for _, sts := range s.stopTimes {
		sort.Slice(sts, func(i, j int) bool { return sts[i].StopSequence < sts[j].StopSequence })
	}

	if err := deriveStopSuccessors(s); err != nil {
		return nil, err
	}
	buildWayIndex(s)
	buildReverseNodeSuccessors(s)
	buildLocationIndexes(s)

	if err := validateAnchors(s); err != nil {
		return nil, err
	}
	if err := validateStopTimeSequences(s); err != nil {
		return nil, err
	}

	return s, nil
}

// deriveStopSuccessors establishes "for every Stop S, S.successors equals
// the set of stops reachable as the next-sequence stop within any trip
// that visits S. It scans every trip's stop_times in sequence order and
// records each (stop[i] -> stop[i+1]) edge, deduplicated.
func deriveStopSuccessors(s *Store) error {
	seen := make(map[StopID]map[StopID]bool)
	for trip, sts := range s.stopTimes {
		sorted := make([]StopTime, len(sts))
		copy(sorted, sts)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].StopSequence < sorted[j].StopSequence })

		for i := 0; i+1 < len(sorted); i++ {
			from, to := sorted[i].Stop, sorted[i+1].Stop
			if _, ok := s.stops[from]; !ok {
				return invariantf("trip %d references unknown stop %d", trip, from)
			}
			if _, ok := s.stops[to]; !ok {
				return invariantf("trip %d references unknown stop %d", trip, to)
			}
			if seen[from] == nil {
				seen[from] = make(map[StopID]bool)
			}
			seen[from][to] = true
		}
	}

	for id, stop := range s.stops {
		var successors []StopID
		for to := range seen[id] {
			successors = append(successors, to)
		}
		sort.Slice(successors, func(i, j int) bool { return successors[i] < successors[j] })
		stop.Successors = successors
		s.stops[id] = stop
	}
	return nil
}

func buildWayIndex(s *Store) {
	for id, w := range s.ways {
		for i := 0; i+1 < len(w.Nodes); i++ {
			key := newNodePair(w.Nodes[i], w.Nodes[i+1])
			if existing, ok := s.wayByNodePair[key]; !ok || id < existing {
				s.wayByNodePair[key] = id
			}
		}
	}
}

func buildReverseNodeSuccessors(s *Store) {
	for id, n := range s.nodes {
		for _, suc := range n.Successors {
			s.reverseNodeSuccessors[suc] = append(s.reverseNodeSuccessors[suc], id)
		}
	}
}

func buildLocationIndexes(s *Store) {
	nodeIdx := make(locationIndex, 0, len(s.nodes))
	for id, n := range s.nodes {
		nodeIdx = append(nodeIdx, LocationEntry{Loc: n.Location, NodeID: id})
	}
	sort.Sort(nodeIdx)
	s.nodeLocationIdx = nodeIdx

	stopIdx := make(locationIndex, 0, len(s.stops))
	for id, st := range s.stops {
		stopIdx = append(stopIdx, LocationEntry{Loc: st.Location, StopID: id})
	}
	sort.Sort(stopIdx)
	s.stopLocationIdx = stopIdx
}

// validateAnchors checks "for every Stop S, there exists at least one
// Node N such that S is in N.successors.
func validateAnchors(s *Store) error {
	for id := range s.stops {
		if len(s.reverseNodeSuccessors[StopSuccessor(id)]) == 0 {
			return invariantf("stop %d has no anchor node", id)
		}
	}
	return nil
}

// validateStopTimeSequences checks "exactly one StopTime per (trip,
// sequence).
func validateStopTimeSequences(s *Store) error {
	for trip, sts := range s.stopTimes {
		seen := make(map[int]bool, len(sts))
		for _, st := range sts {
			if seen[st.StopSequence] {
				return invariantf("trip %d has duplicate stop_sequence %d", trip, st.StopSequence)
			}
			seen[st.StopSequence] = true
		}
	}
	return nil
}
