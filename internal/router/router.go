// Package router abstracts "what transitions are available from state (x,
// time)" so the Dijkstra engine in internal/dijkstra can stay ignorant of
// walking vs. riding a vehicle: a capability object instead of a type
// switch on edge kind.
package router

import (
	"github.com/antigravity/transitcore/internal/geo"
	"github.com/antigravity/transitcore/internal/queries"
	"github.com/antigravity/transitcore/internal/store"
)

// WalkSpeedMPS is the design-value walking speed transitcore routes at.
const WalkSpeedMPS = 1.4

// State is a point in the search space: a location (node or stop) and the
// absolute time (seconds since midnight of the query date) at which the
// traveler is there.
type State struct {
	Loc  store.Successor
	Time float64
}

// WalkPayload is carried by a pedestrian transition. Way is the shared
// road segment, if one connects the two endpoints.
type WalkPayload struct {
	Way    store.Way
	HasWay bool
}

// RidePayload is carried by a transit-boarding transition.
type RidePayload struct {
	From store.StopTime
	To   store.StopTime
	Wait float64
}

// Transition is one outgoing edge from a State: where it goes, what it
// costs in seconds, and enough context to reconstruct the step later.
type Transition struct {
	Dst     store.Successor
	Cost    float64
	Payload interface{}
}

// Router exposes the outgoing transitions from a state. ActiveTrips
// restricts transit boarding to trips running on the query's service date;
// callers compute it once per query via queries.DayTrips.
type Router interface {
	Successors(s *store.Store, state State, activeTrips map[store.TripID]bool) []Transition
}

// Composite dispatches per node kind: a Stop gets both transit and walking
// transitions, a Node gets only walking ones.
type Composite struct {
	Pedestrian Router
	Transit    Router
}

// New returns the composite router transitcore queries through.
func New() *Composite {
	return &Composite{Pedestrian: Pedestrian{}, Transit: Transit{}}
}

func (c *Composite) Successors(s *store.Store, state State, activeTrips map[store.TripID]bool) []Transition {
	out := c.Pedestrian.Successors(s, state, activeTrips)
	if state.Loc.IsStop {
		out = append(out, c.Transit.Successors(s, state, activeTrips)...)
	}
	return out
}

// Pedestrian walks Node<->Node and Node<->Stop edges at WalkSpeedMPS.
type Pedestrian struct{}

func (Pedestrian) Successors(s *store.Store, state State, _ map[store.TripID]bool) []Transition {
	srcLoc, ok := locationOf(s, state.Loc)
	if !ok {
		return nil
	}

	var candidates []store.Successor
	if state.Loc.IsStop {
		// Stop->Node: the nodes that anchor this stop, walked in reverse.
		for _, n := range s.ReverseNodeSuccessors(store.StopSuccessor(state.Loc.StopID)) {
			candidates = append(candidates, store.NodeSuccessor(n))
		}
	} else {
		candidates = queries.NodeSuccessors(s, state.Loc.NodeID)
	}

	var out []Transition
	for _, suc := range candidates {
		dstLoc, ok := locationOf(s, suc)
		if !ok {
			continue
		}
		cost := geo.HaversineMeters(srcLoc, dstLoc) / WalkSpeedMPS
		out = append(out, Transition{
			Dst:     suc,
			Cost:    cost,
			Payload: wayPayload(s, state.Loc, suc),
		})
	}
	return out
}

func wayPayload(s *store.Store, a, b store.Successor) WalkPayload {
	if a.IsStop || b.IsStop {
		return WalkPayload{}
	}
	way, ok := s.WayConnecting(a.NodeID, b.NodeID)
	return WalkPayload{Way: way, HasWay: ok}
}

func locationOf(s *store.Store, suc store.Successor) (geo.Point, bool) {
	if suc.IsStop {
		st, ok := s.StopByID(suc.StopID)
		if !ok {
			return geo.Point{}, false
		}
		return geo.Point{Lon: st.Location.Lon, Lat: st.Location.Lat}, true
	}
	n, ok := s.NodeByID(suc.NodeID)
	if !ok {
		return geo.Point{}, false
	}
	return geo.Point{Lon: n.Location.Lon, Lat: n.Location.Lat}, true
}

// Transit yields boarding transitions from a Stop: for every neighbor stop
// reachable in the timetable, the earliest active trip that connects them
// after the current time.
type Transit struct{}

func (Transit) Successors(s *store.Store, state State, activeTrips map[store.TripID]bool) []Transition {
	if !state.Loc.IsStop {
		return nil
	}
	stop, ok := s.StopByID(state.Loc.StopID)
	if !ok {
		return nil
	}

	var out []Transition
	for _, next := range stop.Successors {
		from, to, found := queries.FindTrip(s, state.Loc.StopID, next, int(state.Time), activeTrips)
		if !found {
			continue
		}
		out = append(out, Transition{
			Dst:  store.StopSuccessor(next),
			Cost: float64(to.ArrivalSec) - state.Time,
			Payload: RidePayload{
				From: from,
				To:   to,
				Wait: float64(from.DepartureSec) - state.Time,
			},
		})
	}
	return out
}
