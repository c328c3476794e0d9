// Package service is the data-flow glue the HTTP layer drives: resolve
// query coordinates to graph entities, run the Dijkstra search, and hand
// the settled path to the directions builder. It holds no state of its own
// beyond the Store and Strategy it was constructed with, the same shape as
// a handler wrapping a repository and a routing engine behind one
// request-scoped call.
package service

import (
	"time"

	"github.com/antigravity/transitcore/internal/dijkstra"
	"github.com/antigravity/transitcore/internal/directions"
	"github.com/antigravity/transitcore/internal/geo"
	"github.com/antigravity/transitcore/internal/queries"
	"github.com/antigravity/transitcore/internal/router"
	"github.com/antigravity/transitcore/internal/store"
)

// Engine answers directions queries against a preprocessed Store.
type Engine struct {
	store    *store.Store
	strategy string
}

// New returns an Engine over s. strategy selects a router.Strategy bias by
// name ("balanced", "direct", "fewer_walks"); an empty string uses the
// strategy's own default of "balanced".
func New(s *store.Store, strategy string) *Engine {
	return &Engine{store: s, strategy: strategy}
}

// Route answers one directions query: src and dst are (lon, lat) pairs,
// departure is the local wall-clock instant the traveler starts. Returns a
// nil Directions (and nil error) if either coordinate can't be snapped to
// the graph or no path exists, matching the NoSnap/NoRoute recovery policy:
// absence is a valid answer here, never an error value.
func (e *Engine) Route(src, dst store.LatLon, departure time.Time) (*directions.Directions, error) {
	srcLoc, ok := nearestSuccessor(e.store, src)
	if !ok {
		return nil, nil
	}
	dstLoc, ok := nearestSuccessor(e.store, dst)
	if !ok {
		return nil, nil
	}

	midnight := time.Date(departure.Year(), departure.Month(), departure.Day(), 0, 0, 0, 0, departure.Location())
	departSec := departure.Sub(midnight).Seconds()

	activeTrips := queries.DayTrips(e.store, departure)
	r := router.ByName(e.strategy, router.New())

	seed := dijkstra.Seed{Loc: srcLoc, Value: departSec}
	path := dijkstra.ShortestPath(e.store, r, []dijkstra.Seed{seed}, activeTrips, dstLoc)
	if path == nil {
		return nil, nil
	}

	return directions.Build(e.store, path, midnight.Unix()), nil
}

// nearestSuccessor snaps a coordinate to the nearer of its closest road
// node or closest transit stop, since a query's endpoint can legitimately
// be either (a transit stop is itself a valid start/end of a journey).
func nearestSuccessor(s *store.Store, p store.LatLon) (store.Successor, bool) {
	node, nodeOK := queries.NearestNode(s, p)
	stop, stopOK := queries.NearestStop(s, p)
	if !nodeOK && !stopOK {
		return store.Successor{}, false
	}
	if !stopOK {
		return store.NodeSuccessor(node.ID), true
	}
	if !nodeOK {
		return store.StopSuccessor(stop.ID), true
	}

	pt := geo.Point{Lon: p.Lon, Lat: p.Lat}
	nodeDist := geo.HaversineMeters(pt, geo.Point{Lon: node.Location.Lon, Lat: node.Location.Lat})
	stopDist := geo.HaversineMeters(pt, geo.Point{Lon: stop.Location.Lon, Lat: stop.Location.Lat})
	if stopDist < nodeDist {
		return store.StopSuccessor(stop.ID), true
	}
	return store.NodeSuccessor(node.ID), true
}
