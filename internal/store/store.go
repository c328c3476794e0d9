package store

import "sort"

// Store is the read-only graph the routing engine queries: every entity
// kind gets its own id-keyed map, and every index the fast-query layer
// needs (nearest point, stop times by trip, successors by node) gets its
// own explicit sorted container rather than a general-purpose query engine.
//
// A Store is built once by internal/preprocess and never mutated again;
// concurrent readers share it without locking.
type Store struct {
	nodes    map[NodeID]Node
	ways     map[WayID]Way
	stops    map[StopID]Stop
	trips    map[TripID]Trip
	services map[ServiceID]Service
	routes   map[RouteID]Route
	agencies map[AgencyID]Agency

	stopTimes map[TripID][]StopTime // indexed by trip, ordered by sequence

	nodeLocationIdx locationIndex // nodes sorted by (lon, lat) for nearest-point range scans
	stopLocationIdx locationIndex // stops sorted by (lon, lat) for nearest-point range scans

	// reverseNodeSuccessors is the reverse edge of Node.Successors: for
	// every (from, to) pair recorded forward, an entry `to -> from` is
	// kept here so node_successors can walk edges in either direction via
	// one index instead of a full table scan.
	reverseNodeSuccessors map[Successor][]NodeID

	// wayByNodePair finds the Way (if any) that contains both of two
	// adjacent nodes, used as the pedestrian router's step payload.
	wayByNodePair map[nodePair]WayID
}

type nodePair struct {
	a, b NodeID
}

func newNodePair(a, b NodeID) nodePair {
	if a > b {
		a, b = b, a
	}
	return nodePair{a, b}
}

// LocationEntry is one row of a location range index: (point, entity id).
type LocationEntry struct {
	Loc    LatLon
	NodeID NodeID
	StopID StopID
}

// locationIndex is an ascending-sorted container keyed lexicographically
// on (lon, lat); ties are broken by index order.
type locationIndex []LocationEntry

func lessLatLon(a, b LatLon) bool {
	if a.Lon != b.Lon {
		return a.Lon < b.Lon
	}
	return a.Lat < b.Lat
}

func (idx locationIndex) Len() int      { return len(idx) }
func (idx locationIndex) Swap(i, j int) { idx[i], idx[j] = idx[j], idx[i] }
func (idx locationIndex) Less(i, j int) bool {
	return lessLatLon(idx[i].Loc, idx[j].Loc)
}

// Range returns the entries with key >= from, in ascending order. This is
// the primitive nearest_node is built on: the nearest node/stop is simply
// the first entry of Range(point).
func (idx locationIndex) Range(from LatLon) []LocationEntry {
	i := sort.Search(len(idx), func(i int) bool {
		return !lessLatLon(idx[i].Loc, from)
	})
	return idx[i:]
}

// New returns an empty Store. Use Builder to populate it so the derived
// invariants are established before any query runs.
func New() *Store {
	return &Store{
		nodes:                 make(map[NodeID]Node),
		ways:                  make(map[WayID]Way),
		stops:                 make(map[StopID]Stop),
		trips:                 make(map[TripID]Trip),
		services:              make(map[ServiceID]Service),
		routes:                make(map[RouteID]Route),
		agencies:              make(map[AgencyID]Agency),
		stopTimes:             make(map[TripID][]StopTime),
		reverseNodeSuccessors: make(map[Successor][]NodeID),
		wayByNodePair:         make(map[nodePair]WayID),
	}
}

// --- lookups by id ---

func (s *Store) NodeByID(id NodeID) (Node, bool)       { n, ok := s.nodes[id]; return n, ok }
func (s *Store) WayByID(id WayID) (Way, bool)          { w, ok := s.ways[id]; return w, ok }
func (s *Store) StopByID(id StopID) (Stop, bool)       { st, ok := s.stops[id]; return st, ok }
func (s *Store) TripByID(id TripID) (Trip, bool)       { t, ok := s.trips[id]; return t, ok }
func (s *Store) ServiceByID(id ServiceID) (Service, bool) { sv, ok := s.services[id]; return sv, ok }
func (s *Store) RouteByID(id RouteID) (Route, bool)    { r, ok := s.routes[id]; return r, ok }
func (s *Store) AgencyByID(id AgencyID) (Agency, bool) { a, ok := s.agencies[id]; return a, ok }

// --- range / lookup primitives backing the fast-query layer ---

// RangeNodeLocationFrom returns (node-location-index) entries ascending
// from the given point, for nearest-node search over road nodes.
func (s *Store) RangeNodeLocationFrom(from LatLon) []LocationEntry {
	return s.nodeLocationIdx.Range(from)
}

// RangeStopLocationFrom is the Stop analogue of RangeNodeLocationFrom.
func (s *Store) RangeStopLocationFrom(from LatLon) []LocationEntry {
	return s.stopLocationIdx.Range(from)
}

// ReverseNodeSuccessors returns the node IDs whose Successors list
// contains target, the reverse edge used by node_successors.
func (s *Store) ReverseNodeSuccessors(target Successor) []NodeID {
	return s.reverseNodeSuccessors[target]
}

// StopTimesForTrip returns a trip's stop_times ordered by sequence, the
// range scan continue_trip needs keyed by trip id.
func (s *Store) StopTimesForTrip(trip TripID) []StopTime {
	return s.stopTimes[trip]
}

// WayConnecting returns the first (lowest-ID) Way that references both
// nodes as adjacent entries in its Nodes list, the pedestrian router's step
// payload.
func (s *Store) WayConnecting(a, b NodeID) (Way, bool) {
	id, ok := s.wayByNodePair[newNodePair(a, b)]
	if !ok {
		return Way{}, false
	}
	return s.WayByID(id)
}

// AllServices returns every Service in the store; day_trips scans this to
// find services active on a date.
func (s *Store) AllServices() []Service {
	out := make([]Service, 0, len(s.services))
	for _, sv := range s.services {
		out = append(out, sv)
	}
	return out
}

// AllTrips returns every Trip; day_trips filters these by active service.
func (s *Store) AllTrips() []Trip {
	out := make([]Trip, 0, len(s.trips))
	for _, t := range s.trips {
		out = append(out, t)
	}
	return out
}

// Nodes, Ways, Stops, Agencies, and Routes return every entity of their
// kind; internal/store/snapshot uses these to serialize a Store in full.
func (s *Store) Nodes() []Node {
	out := make([]Node, 0, len(s.nodes))
	for _, n := range s.nodes {
		out = append(out, n)
	}
	return out
}

func (s *Store) Ways() []Way {
	out := make([]Way, 0, len(s.ways))
	for _, w := range s.ways {
		out = append(out, w)
	}
	return out
}

func (s *Store) Stops() []Stop {
	out := make([]Stop, 0, len(s.stops))
	for _, st := range s.stops {
		out = append(out, st)
	}
	return out
}

func (s *Store) Agencies() []Agency {
	out := make([]Agency, 0, len(s.agencies))
	for _, a := range s.agencies {
		out = append(out, a)
	}
	return out
}

func (s *Store) Routes() []Route {
	out := make([]Route, 0, len(s.routes))
	for _, r := range s.routes {
		out = append(out, r)
	}
	return out
}

// NodeCount, StopCount, TripCount are used by cmd/preprocess's "inspect"
// subcommand and by the progress log lines of internal/preprocess and
// cmd/server.
func (s *Store) NodeCount() int { return len(s.nodes) }
func (s *Store) StopCount() int { return len(s.stops) }
func (s *Store) TripCount() int { return len(s.trips) }
