// Package queries implements the fast-queries façade: pure functions over
// a *store.Store that the router and the service engine build on.
// Every edge handed to the router is materialized through one of these
// functions, keeping ownership a read-only borrow.
package queries

import (
	"sort"
	"time"

	"github.com/antigravity/transitcore/internal/store"
)

// NodeSuccessors returns the concatenation of a node's forward successors
// and its reverse edges (entities whose Successors list contains this
// node). A Node may point at another Node or at a Stop; the reverse
// direction only ever yields Nodes, since only Node.Successors is indexed
// in reverse.
func NodeSuccessors(s *store.Store, node store.NodeID) []store.Successor {
	n, ok := s.NodeByID(node)
	if !ok {
		return nil
	}
	out := make([]store.Successor, 0, len(n.Successors))
	out = append(out, n.Successors...)
	for _, from := range s.ReverseNodeSuccessors(store.NodeSuccessor(node)) {
		out = append(out, store.NodeSuccessor(from))
	}
	return out
}

// NearestNode returns the node whose sort key (lon, lat) is the first one
// at or after point in the location index, ties broken by index order.
func NearestNode(s *store.Store, point store.LatLon) (store.Node, bool) {
	entries := s.RangeNodeLocationFrom(point)
	if len(entries) == 0 {
		return store.Node{}, false
	}
	return s.NodeByID(firstNodeID(entries))
}

// NearestStop is the Stop analogue of NearestNode.
func NearestStop(s *store.Store, point store.LatLon) (store.Stop, bool) {
	entries := s.RangeStopLocationFrom(point)
	if len(entries) == 0 {
		return store.Stop{}, false
	}
	id := firstStopID(entries)
	return s.StopByID(id)
}

// these two tiny helpers pick the typed ID out of the first entry that
// RangeNodeLocationFrom/RangeStopLocationFrom return, the first-match
// convention used by NearestNode/NearestStop.
func firstNodeID(entries []store.LocationEntry) store.NodeID { return entries[0].NodeID }
func firstStopID(entries []store.LocationEntry) store.StopID { return entries[0].StopID }

// DayTrips returns the set of trip IDs whose service is active on date,
// scan services, filter by calendar predicate, then scan trips filtered
// by that service set.
func DayTrips(s *store.Store, date time.Time) map[store.TripID]bool {
	active := make(map[store.ServiceID]bool)
	for _, svc := range s.AllServices() {
		if svc.ActiveOn(date) {
			active[svc.ID] = true
		}
	}

	out := make(map[store.TripID]bool)
	for _, t := range s.AllTrips() {
		if active[t.Service] {
			out[t.ID] = true
		}
	}
	return out
}

// ContinueTrip returns the StopTime of nextStop on trip, or false if the
// trip never visits that stop.
func ContinueTrip(s *store.Store, nextStop store.StopID, trip store.TripID) (store.StopTime, bool) {
	for _, st := range s.StopTimesForTrip(trip) {
		if st.Stop == nextStop {
			return st, true
		}
	}
	return store.StopTime{}, false
}

// FindTrip returns, among active trips serving srcStop whose continuation
// reaches dstStop, the one with the minimum departure time strictly after
// now, tie-broken by smallest trip ID. The bool is false if no such trip
// exists.
func FindTrip(s *store.Store, srcStop, dstStop store.StopID, now int, activeTrips map[store.TripID]bool) (store.StopTime, store.StopTime, bool) {
	type candidate struct {
		src, dst store.StopTime
	}
	var candidates []candidate

	for _, st := range stopTimesAtStop(s, srcStop) {
		if !activeTrips[st.Trip] {
			continue
		}
		if st.DepartureSec <= now {
			continue
		}
		dst, ok := ContinueTrip(s, dstStop, st.Trip)
		if !ok {
			continue
		}
		candidates = append(candidates, candidate{src: st, dst: dst})
	}

	if len(candidates) == 0 {
		return store.StopTime{}, store.StopTime{}, false
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].src.DepartureSec != candidates[j].src.DepartureSec {
			return candidates[i].src.DepartureSec < candidates[j].src.DepartureSec
		}
		return candidates[i].src.Trip < candidates[j].src.Trip
	})

	best := candidates[0]
	return best.src, best.dst, true
}

// stopTimesAtStop scans every trip's stop_times for ones visiting srcStop.
// The store keeps stop_times grouped by trip, not by stop, so finding them
// by stop needs its own scan; left as a plain scan since a stop's fan-out
// of visiting trips is small.
func stopTimesAtStop(s *store.Store, stop store.StopID) []store.StopTime {
	var out []store.StopTime
	for _, trip := range s.AllTrips() {
		for _, st := range s.StopTimesForTrip(trip.ID) {
			if st.Stop == stop {
				out = append(out, st)
			}
		}
	}
	return out
}
