// Package snapshot persists a preprocessed Store to an on-disk SQLite
// file and restores it at service start: a CREATE TABLE IF NOT EXISTS
// schema, plain INSERT statements inside a single transaction for bulk writes,
// and driver-registered database/sql access via mattn/go-sqlite3.
package snapshot

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/antigravity/transitcore/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS node (id INTEGER PRIMARY KEY, lon REAL NOT NULL, lat REAL NOT NULL);
CREATE TABLE IF NOT EXISTS node_successor (node_id INTEGER NOT NULL, dst_node_id INTEGER, dst_stop_id INTEGER, is_stop INTEGER NOT NULL);
CREATE TABLE IF NOT EXISTS way (id INTEGER PRIMARY KEY, name TEXT NOT NULL);
CREATE TABLE IF NOT EXISTS way_node (way_id INTEGER NOT NULL, seq INTEGER NOT NULL, node_id INTEGER NOT NULL);
CREATE TABLE IF NOT EXISTS stop (id INTEGER PRIMARY KEY, lon REAL NOT NULL, lat REAL NOT NULL, name TEXT NOT NULL);
CREATE TABLE IF NOT EXISTS agency (id INTEGER PRIMARY KEY, name TEXT NOT NULL);
CREATE TABLE IF NOT EXISTS route (id INTEGER PRIMARY KEY, agency_id INTEGER, short_name TEXT, long_name TEXT, type TEXT);
CREATE TABLE IF NOT EXISTS service (id INTEGER PRIMARY KEY, start_date TEXT NOT NULL, end_date TEXT NOT NULL, days INTEGER NOT NULL);
CREATE TABLE IF NOT EXISTS trip (id INTEGER PRIMARY KEY, route_id INTEGER, service_id INTEGER NOT NULL);
CREATE TABLE IF NOT EXISTS stop_time (trip_id INTEGER NOT NULL, stop_id INTEGER NOT NULL, arrival_sec INTEGER NOT NULL, departure_sec INTEGER NOT NULL, stop_sequence INTEGER NOT NULL);
CREATE INDEX IF NOT EXISTS stop_time_trip ON stop_time (trip_id);
`

// Write serializes s to a fresh SQLite file at path, overwriting any
// existing file.
func Write(path string, s *store.Store) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing old snapshot: %w", err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("opening snapshot: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating snapshot schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning snapshot write: %w", err)
	}

	if err := writeGraph(tx, s); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

func writeGraph(tx *sql.Tx, s *store.Store) error {
	for _, n := range s.Nodes() {
		if _, err := tx.Exec(`INSERT INTO node (id, lon, lat) VALUES (?, ?, ?)`, n.ID, n.Location.Lon, n.Location.Lat); err != nil {
			return fmt.Errorf("writing node %d: %w", n.ID, err)
		}
		for _, suc := range n.Successors {
			if suc.IsStop {
				if _, err := tx.Exec(`INSERT INTO node_successor (node_id, dst_stop_id, is_stop) VALUES (?, ?, 1)`, n.ID, suc.StopID); err != nil {
					return fmt.Errorf("writing successor of node %d: %w", n.ID, err)
				}
			} else {
				if _, err := tx.Exec(`INSERT INTO node_successor (node_id, dst_node_id, is_stop) VALUES (?, ?, 0)`, n.ID, suc.NodeID); err != nil {
					return fmt.Errorf("writing successor of node %d: %w", n.ID, err)
				}
			}
		}
	}

	for _, w := range s.Ways() {
		if _, err := tx.Exec(`INSERT INTO way (id, name) VALUES (?, ?)`, w.ID, w.Name); err != nil {
			return fmt.Errorf("writing way %d: %w", w.ID, err)
		}
		for i, nodeID := range w.Nodes {
			if _, err := tx.Exec(`INSERT INTO way_node (way_id, seq, node_id) VALUES (?, ?, ?)`, w.ID, i, nodeID); err != nil {
				return fmt.Errorf("writing way_node %d/%d: %w", w.ID, i, err)
			}
		}
	}

	for _, st := range s.Stops() {
		if _, err := tx.Exec(`INSERT INTO stop (id, lon, lat, name) VALUES (?, ?, ?, ?)`, st.ID, st.Location.Lon, st.Location.Lat, st.Name); err != nil {
			return fmt.Errorf("writing stop %d: %w", st.ID, err)
		}
	}

	for _, a := range s.Agencies() {
		if _, err := tx.Exec(`INSERT INTO agency (id, name) VALUES (?, ?)`, a.ID, a.Name); err != nil {
			return fmt.Errorf("writing agency %d: %w", a.ID, err)
		}
	}

	for _, r := range s.Routes() {
		if _, err := tx.Exec(`INSERT INTO route (id, agency_id, short_name, long_name, type) VALUES (?, ?, ?, ?, ?)`,
			r.ID, r.Agency, r.ShortName, r.LongName, r.Type); err != nil {
			return fmt.Errorf("writing route %d: %w", r.ID, err)
		}
	}

	for _, svc := range s.AllServices() {
		if _, err := tx.Exec(`INSERT INTO service (id, start_date, end_date, days) VALUES (?, ?, ?, ?)`,
			svc.ID, svc.StartDate.Format("2006-01-02"), svc.EndDate.Format("2006-01-02"), encodeDays(svc.Days)); err != nil {
			return fmt.Errorf("writing service %d: %w", svc.ID, err)
		}
	}

	for _, t := range s.AllTrips() {
		if _, err := tx.Exec(`INSERT INTO trip (id, route_id, service_id) VALUES (?, ?, ?)`, t.ID, t.Route, t.Service); err != nil {
			return fmt.Errorf("writing trip %d: %w", t.ID, err)
		}
		for _, st := range s.StopTimesForTrip(t.ID) {
			if _, err := tx.Exec(`INSERT INTO stop_time (trip_id, stop_id, arrival_sec, departure_sec, stop_sequence) VALUES (?, ?, ?, ?, ?)`,
				st.Trip, st.Stop, st.ArrivalSec, st.DepartureSec, st.StopSequence); err != nil {
				return fmt.Errorf("writing stop_time of trip %d: %w", t.ID, err)
			}
		}
	}

	return nil
}

// Read rebuilds a Store from a snapshot file written by Write.
func Read(path string) (*store.Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer db.Close()

	b := store.NewBuilder()

	if err := readNodes(db, b); err != nil {
		return nil, err
	}
	if err := readWays(db, b); err != nil {
		return nil, err
	}
	if err := readStops(db, b); err != nil {
		return nil, err
	}
	if err := readAgencies(db, b); err != nil {
		return nil, err
	}
	if err := readRoutes(db, b); err != nil {
		return nil, err
	}
	if err := readServices(db, b); err != nil {
		return nil, err
	}
	if err := readTrips(db, b); err != nil {
		return nil, err
	}
	if err := readStopTimes(db, b); err != nil {
		return nil, err
	}

	s, err := b.Finalize()
	if err != nil {
		return nil, fmt.Errorf("restoring snapshot: %w", err)
	}
	return s, nil
}

func readNodes(db *sql.DB, b *store.Builder) error {
	rows, err := db.Query(`SELECT id, lon, lat FROM node`)
	if err != nil {
		return fmt.Errorf("reading nodes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var lon, lat float64
		if err := rows.Scan(&id, &lon, &lat); err != nil {
			return fmt.Errorf("scanning node: %w", err)
		}
		b.AddNode(store.Node{ID: store.NodeID(id), Location: store.LatLon{Lon: lon, Lat: lat}})
	}

	sucRows, err := db.Query(`SELECT node_id, dst_node_id, dst_stop_id, is_stop FROM node_successor`)
	if err != nil {
		return fmt.Errorf("reading node successors: %w", err)
	}
	defer sucRows.Close()
	for sucRows.Next() {
		var nodeID int64
		var dstNode, dstStop sql.NullInt64
		var isStop bool
		if err := sucRows.Scan(&nodeID, &dstNode, &dstStop, &isStop); err != nil {
			return fmt.Errorf("scanning node successor: %w", err)
		}
		if isStop {
			b.LinkNodeSuccessor(store.NodeID(nodeID), store.StopSuccessor(store.StopID(dstStop.Int64)))
		} else {
			b.LinkNodeSuccessor(store.NodeID(nodeID), store.NodeSuccessor(store.NodeID(dstNode.Int64)))
		}
	}
	return nil
}

func readWays(db *sql.DB, b *store.Builder) error {
	wayRows, err := db.Query(`SELECT id, name FROM way`)
	if err != nil {
		return fmt.Errorf("reading ways: %w", err)
	}
	defer wayRows.Close()

	type wayAccum struct {
		name  string
		nodes map[int]store.NodeID
	}
	accum := make(map[int64]*wayAccum)
	var order []int64
	for wayRows.Next() {
		var id int64
		var name string
		if err := wayRows.Scan(&id, &name); err != nil {
			return fmt.Errorf("scanning way: %w", err)
		}
		accum[id] = &wayAccum{name: name, nodes: make(map[int]store.NodeID)}
		order = append(order, id)
	}

	nodeRows, err := db.Query(`SELECT way_id, seq, node_id FROM way_node ORDER BY way_id, seq`)
	if err != nil {
		return fmt.Errorf("reading way nodes: %w", err)
	}
	defer nodeRows.Close()
	maxSeq := make(map[int64]int)
	for nodeRows.Next() {
		var wayID int64
		var seq int
		var nodeID int64
		if err := nodeRows.Scan(&wayID, &seq, &nodeID); err != nil {
			return fmt.Errorf("scanning way_node: %w", err)
		}
		accum[wayID].nodes[seq] = store.NodeID(nodeID)
		if seq > maxSeq[wayID] {
			maxSeq[wayID] = seq
		}
	}

	for _, id := range order {
		a := accum[id]
		nodes := make([]store.NodeID, maxSeq[id]+1)
		for seq, nodeID := range a.nodes {
			nodes[seq] = nodeID
		}
		b.AddWay(store.Way{ID: store.WayID(id), Name: a.name, Nodes: nodes})
	}
	return nil
}

func readStops(db *sql.DB, b *store.Builder) error {
	rows, err := db.Query(`SELECT id, lon, lat, name FROM stop`)
	if err != nil {
		return fmt.Errorf("reading stops: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var lon, lat float64
		var name string
		if err := rows.Scan(&id, &lon, &lat, &name); err != nil {
			return fmt.Errorf("scanning stop: %w", err)
		}
		b.AddStop(store.Stop{ID: store.StopID(id), Location: store.LatLon{Lon: lon, Lat: lat}, Name: name})
	}
	return nil
}

func readAgencies(db *sql.DB, b *store.Builder) error {
	rows, err := db.Query(`SELECT id, name FROM agency`)
	if err != nil {
		return fmt.Errorf("reading agencies: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return fmt.Errorf("scanning agency: %w", err)
		}
		b.AddAgency(store.Agency{ID: store.AgencyID(id), Name: name})
	}
	return nil
}

func readRoutes(db *sql.DB, b *store.Builder) error {
	rows, err := db.Query(`SELECT id, agency_id, short_name, long_name, type FROM route`)
	if err != nil {
		return fmt.Errorf("reading routes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var agencyID int64
		var shortName, longName, rtype string
		if err := rows.Scan(&id, &agencyID, &shortName, &longName, &rtype); err != nil {
			return fmt.Errorf("scanning route: %w", err)
		}
		b.AddRoute(store.Route{ID: store.RouteID(id), Agency: store.AgencyID(agencyID), ShortName: shortName, LongName: longName, Type: rtype})
	}
	return nil
}

func readServices(db *sql.DB, b *store.Builder) error {
	rows, err := db.Query(`SELECT id, start_date, end_date, days FROM service`)
	if err != nil {
		return fmt.Errorf("reading services: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var startStr, endStr string
		var mask int
		if err := rows.Scan(&id, &startStr, &endStr, &mask); err != nil {
			return fmt.Errorf("scanning service: %w", err)
		}
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return fmt.Errorf("parsing service %d start_date: %w", id, err)
		}
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return fmt.Errorf("parsing service %d end_date: %w", id, err)
		}
		b.AddService(store.Service{ID: store.ServiceID(id), StartDate: start, EndDate: end, Days: decodeDays(mask)})
	}
	return nil
}

func readTrips(db *sql.DB, b *store.Builder) error {
	rows, err := db.Query(`SELECT id, route_id, service_id FROM trip`)
	if err != nil {
		return fmt.Errorf("reading trips: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id, routeID, serviceID int64
		if err := rows.Scan(&id, &routeID, &serviceID); err != nil {
			return fmt.Errorf("scanning trip: %w", err)
		}
		b.AddTrip(store.Trip{ID: store.TripID(id), Route: store.RouteID(routeID), Service: store.ServiceID(serviceID)})
	}
	return nil
}

func readStopTimes(db *sql.DB, b *store.Builder) error {
	rows, err := db.Query(`SELECT trip_id, stop_id, arrival_sec, departure_sec, stop_sequence FROM stop_time`)
	if err != nil {
		return fmt.Errorf("reading stop_times: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tripID, stopID int64
		var arrival, departure, seq int
		if err := rows.Scan(&tripID, &stopID, &arrival, &departure, &seq); err != nil {
			return fmt.Errorf("scanning stop_time: %w", err)
		}
		b.AddStopTime(store.StopTime{Trip: store.TripID(tripID), Stop: store.StopID(stopID), ArrivalSec: arrival, DepartureSec: departure, StopSequence: seq})
	}
	return nil
}

func encodeDays(days map[store.DayOfWeek]bool) int {
	mask := 0
	for d, on := range days {
		if on {
			mask |= 1 << uint(d)
		}
	}
	return mask
}

func decodeDays(mask int) map[store.DayOfWeek]bool {
	days := make(map[store.DayOfWeek]bool)
	for d := 0; d < 7; d++ {
		if mask&(1<<uint(d)) != 0 {
			days[store.DayOfWeek(d)] = true
		}
	}
	return days
}
