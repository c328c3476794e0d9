// Package store holds the typed entity/attribute/value graph that unifies
// OSM road data with GTFS transit data: Nodes and Ways from the road
// network, Stops/Trips/Services/StopTimes/Routes/Agencies from the
// schedule. It is built once by the offline preprocessor (see
// internal/preprocess) and thereafter read only by query serving.
package store

import "time"

// NodeID identifies a road intersection (OSM node).
type NodeID int64

// WayID identifies a contiguous road segment bundle (OSM way).
type WayID int64

// StopID identifies a GTFS boarding location.
type StopID int64

// TripID identifies one scheduled traversal of a sequence of stops.
type TripID int64

// ServiceID identifies a GTFS calendar.
type ServiceID int64

// RouteID identifies a GTFS route (metadata only).
type RouteID int64

// AgencyID identifies a GTFS agency (metadata only).
type AgencyID int64

// Successor is a polymorphic reference: it points at either a Node or a
// Stop. Node.successors can hold both (the stop -> nearest-node link runs
// the other way, see Builder.AnchorStop), so a single ref type keeps the
// index homogeneous.
type Successor struct {
	NodeID NodeID
	StopID StopID
	IsStop bool
}

func NodeSuccessor(id NodeID) Successor { return Successor{NodeID: id} }
func StopSuccessor(id StopID) Successor { return Successor{StopID: id, IsStop: true} }

// LatLon is a (longitude, latitude) pair in decimal degrees. Fields are
// ordered lon-then-lat throughout this package (and in the range index
// keys) to match the GeoJSON/MapBox coordinate order used by the
// directions response.
type LatLon struct {
	Lon float64
	Lat float64
}

// Node is a road intersection: an OSM graph vertex that may also be the
// walking anchor for one or more transit Stops.
type Node struct {
	ID         NodeID
	Location   LatLon
	Successors []Successor
}

// Way is a named road segment bundle: an ordered chain of Nodes sharing a
// street identity. Name is empty for unnamed ways (footpaths, service
// roads); it is still a valid walking edge.
type Way struct {
	ID    WayID
	Name  string
	Nodes []NodeID
}

// Stop is a GTFS boarding location. Successors holds the stops directly
// reachable as the next-sequence stop on any trip serving this stop,
// precomputed once by the preprocessor as a derived invariant.
type Stop struct {
	ID         StopID
	Location   LatLon
	Name       string
	Successors []StopID
}

// Trip is one scheduled traversal of a Route under a Service calendar.
type Trip struct {
	ID      TripID
	Route   RouteID
	Service ServiceID
}

// DayOfWeek mirrors time.Weekday but is named locally so callers don't
// have to import time just to build a Service.
type DayOfWeek = time.Weekday

// Service is a GTFS calendar: the set of calendar dates on which its
// trips run.
type Service struct {
	ID        ServiceID
	StartDate time.Time // date only, UTC midnight
	EndDate   time.Time // date only, UTC midnight, exclusive (see ActiveOn)
	Days      map[DayOfWeek]bool
}

// ActiveOn reports whether the service runs on date d: a trip runs on
// date D iff start_date < D < end_date and D.dayOfWeek is in days. Both
// bounds are exclusive; documented here rather than silently widened to
// an inclusive range.
func (s Service) ActiveOn(d time.Time) bool {
	day := truncateToDate(d)
	if !day.After(truncateToDate(s.StartDate)) {
		return false
	}
	if !day.Before(truncateToDate(s.EndDate)) {
		return false
	}
	return s.Days[day.Weekday()]
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// StopTime is the arrival/departure of one Trip at one Stop in its
// sequence. ArrivalSec/DepartureSec are seconds since midnight of the
// trip's service day; GTFS allows values >= 86400 for trips that run past
// midnight, so these are plain ints rather than time.Duration.
type StopTime struct {
	Trip          TripID
	Stop          StopID
	ArrivalSec    int
	DepartureSec  int
	StopSequence  int
}

// Route is transit route metadata.
type Route struct {
	ID        RouteID
	Agency    AgencyID
	ShortName string
	LongName  string
	Type      string // "bus", "tram", "rail", ...
}

// Agency is transit operator metadata.
type Agency struct {
	ID   AgencyID
	Name string
}
