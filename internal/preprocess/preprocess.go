// Package preprocess is the offline job that turns the raw OSM/GTFS tables
// loaded into Postgres into a preprocessed store.Store: it reads nodes,
// ways, stops, agencies, routes, services, trips, and stop_times, feeds them
// through a store.Builder, and calls Finalize so every derived invariant is
// established and validated before the graph is handed to query serving.
// Sequential pgx queries with log.Println progress milestones and a
// time.Since duration line at the end, one load method per entity kind with
// wrapped errors and an emoji-prefixed "ready" milestone once Finalize
// succeeds.
package preprocess

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/antigravity/transitcore/internal/store"
)

// Loader reads the raw relational tables from Postgres and builds a
// store.Store from them.
type Loader struct {
	db *pgxpool.Pool
}

// NewLoader wraps an already-connected pool.
func NewLoader(db *pgxpool.Pool) *Loader {
	return &Loader{db: db}
}

// Build runs the full offline preprocessing job: load every entity kind,
// then Finalize the builder. A database error while loading is returned
// wrapped with the stage that failed; once the raw rows have been read,
// Finalize is the only failure mode and its error wraps
// store.ErrGraphInvariant.
func (l *Loader) Build(ctx context.Context) (*store.Store, error) {
	log.Println("🔄 Loading graph from database...")
	start := time.Now()

	b := store.NewBuilder()

	if err := l.loadNodes(ctx, b); err != nil {
		return nil, errors.Wrap(err, "loading nodes")
	}
	if err := l.loadWays(ctx, b); err != nil {
		return nil, errors.Wrap(err, "loading ways")
	}
	if err := l.loadStops(ctx, b); err != nil {
		return nil, errors.Wrap(err, "loading stops")
	}
	if err := l.loadAnchors(ctx, b); err != nil {
		return nil, errors.Wrap(err, "loading stop anchors")
	}
	if err := l.loadAgencies(ctx, b); err != nil {
		return nil, errors.Wrap(err, "loading agencies")
	}
	if err := l.loadRoutes(ctx, b); err != nil {
		return nil, errors.Wrap(err, "loading routes")
	}
	if err := l.loadServices(ctx, b); err != nil {
		return nil, errors.Wrap(err, "loading services")
	}
	if err := l.loadTrips(ctx, b); err != nil {
		return nil, errors.Wrap(err, "loading trips")
	}
	if err := l.loadStopTimes(ctx, b); err != nil {
		return nil, errors.Wrap(err, "loading stop_times")
	}

	log.Println("Finalizing graph: deriving stop successors, building indexes, validating invariants...")
	s, err := b.Finalize()
	if err != nil {
		return nil, errors.Wrap(err, "finalizing graph")
	}

	log.Printf("✅ Graph ready: %d nodes, %d stops, %d trips (built in %s)",
		s.NodeCount(), s.StopCount(), s.TripCount(), time.Since(start))
	return s, nil
}

func (l *Loader) loadNodes(ctx context.Context, b *store.Builder) error {
	rows, err := l.db.Query(ctx, `SELECT id, lon, lat FROM nodes`)
	if err != nil {
		return err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id int64
		var lon, lat float64
		if err := rows.Scan(&id, &lon, &lat); err != nil {
			return err
		}
		b.AddNode(store.Node{ID: store.NodeID(id), Location: store.LatLon{Lon: lon, Lat: lat}})
		count++
	}
	log.Printf("Loaded %d nodes", count)

	sucRows, err := l.db.Query(ctx, `SELECT from_node_id, to_node_id FROM node_edges`)
	if err != nil {
		return err
	}
	defer sucRows.Close()

	edges := 0
	for sucRows.Next() {
		var from, to int64
		if err := sucRows.Scan(&from, &to); err != nil {
			return err
		}
		b.LinkNodeSuccessor(store.NodeID(from), store.NodeSuccessor(store.NodeID(to)))
		edges++
	}
	log.Printf("Loaded %d node->node edges", edges)
	return nil
}

func (l *Loader) loadWays(ctx context.Context, b *store.Builder) error {
	wayRows, err := l.db.Query(ctx, `SELECT id, name FROM ways`)
	if err != nil {
		return err
	}
	defer wayRows.Close()

	names := make(map[int64]string)
	var order []int64
	for wayRows.Next() {
		var id int64
		var name string
		if err := wayRows.Scan(&id, &name); err != nil {
			return err
		}
		names[id] = name
		order = append(order, id)
	}

	nodeRows, err := l.db.Query(ctx, `SELECT way_id, node_id FROM way_nodes ORDER BY way_id, seq`)
	if err != nil {
		return err
	}
	defer nodeRows.Close()

	chains := make(map[int64][]store.NodeID)
	for nodeRows.Next() {
		var wayID, nodeID int64
		if err := nodeRows.Scan(&wayID, &nodeID); err != nil {
			return err
		}
		chains[wayID] = append(chains[wayID], store.NodeID(nodeID))
	}

	for _, id := range order {
		b.AddWay(store.Way{ID: store.WayID(id), Name: names[id], Nodes: chains[id]})
	}
	log.Printf("Loaded %d ways", len(order))
	return nil
}

func (l *Loader) loadStops(ctx context.Context, b *store.Builder) error {
	rows, err := l.db.Query(ctx, `SELECT id, lon, lat, name FROM stops`)
	if err != nil {
		return err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id int64
		var lon, lat float64
		var name string
		if err := rows.Scan(&id, &lon, &lat, &name); err != nil {
			return err
		}
		b.AddStop(store.Stop{ID: store.StopID(id), Location: store.LatLon{Lon: lon, Lat: lat}, Name: name})
		count++
	}
	log.Printf("Loaded %d stops", count)
	return nil
}

// loadAnchors links each stop to the nearest road node it was matched to
// during OSM/GTFS conformance, the "anchor" edge the pedestrian router
// needs to step on and off a stop.
func (l *Loader) loadAnchors(ctx context.Context, b *store.Builder) error {
	rows, err := l.db.Query(ctx, `SELECT node_id, stop_id FROM stop_anchors`)
	if err != nil {
		return err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var nodeID, stopID int64
		if err := rows.Scan(&nodeID, &stopID); err != nil {
			return err
		}
		b.AnchorStop(store.NodeID(nodeID), store.StopID(stopID))
		count++
	}
	log.Printf("Loaded %d stop anchors", count)
	return nil
}

func (l *Loader) loadAgencies(ctx context.Context, b *store.Builder) error {
	rows, err := l.db.Query(ctx, `SELECT id, name FROM agencies`)
	if err != nil {
		return err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return err
		}
		b.AddAgency(store.Agency{ID: store.AgencyID(id), Name: name})
		count++
	}
	log.Printf("Loaded %d agencies", count)
	return nil
}

func (l *Loader) loadRoutes(ctx context.Context, b *store.Builder) error {
	rows, err := l.db.Query(ctx, `SELECT id, agency_id, short_name, long_name, route_type FROM routes`)
	if err != nil {
		return err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id, agencyID int64
		var shortName, longName, routeType string
		if err := rows.Scan(&id, &agencyID, &shortName, &longName, &routeType); err != nil {
			return err
		}
		b.AddRoute(store.Route{ID: store.RouteID(id), Agency: store.AgencyID(agencyID), ShortName: shortName, LongName: longName, Type: routeType})
		count++
	}
	log.Printf("Loaded %d routes", count)
	return nil
}

func (l *Loader) loadServices(ctx context.Context, b *store.Builder) error {
	rows, err := l.db.Query(ctx, `
		SELECT id, start_date, end_date,
			monday, tuesday, wednesday, thursday, friday, saturday, sunday
		FROM services`)
	if err != nil {
		return err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id int64
		var start, end time.Time
		var mon, tue, wed, thu, fri, sat, sun bool
		if err := rows.Scan(&id, &start, &end, &mon, &tue, &wed, &thu, &fri, &sat, &sun); err != nil {
			return err
		}
		b.AddService(store.Service{
			ID:        store.ServiceID(id),
			StartDate: start,
			EndDate:   end,
			Days: map[store.DayOfWeek]bool{
				time.Sunday:    sun,
				time.Monday:    mon,
				time.Tuesday:   tue,
				time.Wednesday: wed,
				time.Thursday:  thu,
				time.Friday:    fri,
				time.Saturday:  sat,
			},
		})
		count++
	}
	log.Printf("Loaded %d services", count)
	return nil
}

func (l *Loader) loadTrips(ctx context.Context, b *store.Builder) error {
	rows, err := l.db.Query(ctx, `SELECT id, route_id, service_id FROM trips`)
	if err != nil {
		return err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id, routeID, serviceID int64
		if err := rows.Scan(&id, &routeID, &serviceID); err != nil {
			return err
		}
		b.AddTrip(store.Trip{ID: store.TripID(id), Route: store.RouteID(routeID), Service: store.ServiceID(serviceID)})
		count++
	}
	log.Printf("Loaded %d trips", count)
	return nil
}

func (l *Loader) loadStopTimes(ctx context.Context, b *store.Builder) error {
	rows, err := l.db.Query(ctx, `SELECT trip_id, stop_id, arrival_sec, departure_sec, stop_sequence FROM stop_times`)
	if err != nil {
		return err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var tripID, stopID int64
		var arrival, departure, seq int
		if err := rows.Scan(&tripID, &stopID, &arrival, &departure, &seq); err != nil {
			return err
		}
		b.AddStopTime(store.StopTime{Trip: store.TripID(tripID), Stop: store.StopID(stopID), ArrivalSec: arrival, DepartureSec: departure, StopSequence: seq})
		count++
	}
	log.Printf("Loaded %d stop_times", count)
	return nil
}
