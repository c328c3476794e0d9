// Package directions turns a settled Dijkstra path into the turn-by-turn
// response the HTTP layer serves: partition the path into legs, then
// synthesize one maneuver per leg transition. The JSON field layout is a
// flat MapBox Directions v5 style response (uuid, waypoints, distance,
// duration, steps with geometry and maneuver).
package directions

import (
	"github.com/google/uuid"

	"github.com/antigravity/transitcore/internal/dijkstra"
	"github.com/antigravity/transitcore/internal/geo"
	"github.com/antigravity/transitcore/internal/router"
	"github.com/antigravity/transitcore/internal/store"
)

// Waypoint is one endpoint of the directions response.
type Waypoint struct {
	Name     string     `json:"name"`
	Location [2]float64 `json:"location"`
}

// Maneuver describes the turn, board, or exit a step performs.
type Maneuver struct {
	Type          string  `json:"type"`
	BearingBefore float64 `json:"bearing_before"`
	BearingAfter  float64 `json:"bearing_after"`
	Modifier      string  `json:"modifier,omitempty"`
}

// Geometry is a GeoJSON LineString of (lon, lat) pairs.
type Geometry struct {
	Type        string       `json:"type"`
	Coordinates [][2]float64 `json:"coordinates"`
}

// TripRef identifies the scheduled trip a transit step rides.
type TripRef struct {
	ID store.TripID `json:"id"`
}

// Step is one leg of the itinerary: either a walk through a Way or a ride
// between two Stops.
type Step struct {
	Mode     string   `json:"mode"`
	Distance float64  `json:"distance"`
	Geometry Geometry `json:"geometry"`
	Maneuver Maneuver `json:"maneuver"`
	Arrive   int64    `json:"arrive"`
	Name     string   `json:"name,omitempty"`
	Wait     *float64 `json:"wait,omitempty"`
	Trip     *TripRef `json:"trip,omitempty"`
}

// Directions is the full query response: a UUID, the two snapped
// endpoints, and the step-by-step route.
type Directions struct {
	UUID      string      `json:"uuid"`
	Waypoints [2]Waypoint `json:"waypoints"`
	Distance  float64     `json:"distance"`
	Duration  float64     `json:"duration"`
	Steps     []Step      `json:"steps"`
}

// turnTable maps the largest key <= angle to a modifier name, per the
// sorted bearing-delta table.
var turnTable = []struct {
	threshold float64
	modifier  string
}{
	{-180, "straight"},
	{-120, "slight left"},
	{-60, "left"},
	{-20, "sharp left"},
	{0, "straight"},
	{20, "slight right"},
	{60, "right"},
	{120, "sharp right"},
	{160, "uturn"},
	{180, "straight"},
}

func modifierFor(angle float64) string {
	best := turnTable[0].modifier
	for _, row := range turnTable {
		if row.threshold <= angle {
			best = row.modifier
		} else {
			break
		}
	}
	return best
}

type context struct {
	namespace string // "way" or "stop"
	wayID     store.WayID
	stopID    store.StopID
	name      string
}

func (c context) equal(o context) bool {
	if c.namespace != o.namespace {
		return false
	}
	if c.namespace == "way" {
		return c.wayID == o.wayID
	}
	return c.stopID == o.stopID
}

type piece struct {
	ctx    context
	traces []*dijkstra.Trace
}

func classify(s *store.Store, prev context, tr *dijkstra.Trace) context {
	switch p := tr.Payload.(type) {
	case router.RidePayload:
		name := ""
		if st, ok := s.StopByID(tr.Loc.StopID); ok {
			name = st.Name
		}
		return context{namespace: "stop", stopID: tr.Loc.StopID, name: name}
	case router.WalkPayload:
		if p.HasWay {
			return context{namespace: "way", wayID: p.Way.ID, name: p.Way.Name}
		}
	}
	if prev.namespace != "" {
		return prev
	}
	if tr.Loc.IsStop {
		name := ""
		if st, ok := s.StopByID(tr.Loc.StopID); ok {
			name = st.Name
		}
		return context{namespace: "stop", stopID: tr.Loc.StopID, name: name}
	}
	return context{namespace: "way"}
}

func partition(s *store.Store, path []*dijkstra.Trace) []piece {
	var pieces []piece
	var prevCtx context
	for _, tr := range path {
		ctx := classify(s, prevCtx, tr)
		if len(pieces) == 0 || !pieces[len(pieces)-1].ctx.equal(ctx) {
			pieces = append(pieces, piece{ctx: ctx})
		}
		pieces[len(pieces)-1].traces = append(pieces[len(pieces)-1].traces, tr)
		prevCtx = ctx
	}
	return pieces
}

func locPoint(s *store.Store, suc store.Successor) geo.Point {
	if suc.IsStop {
		st, _ := s.StopByID(suc.StopID)
		return geo.Point{Lon: st.Location.Lon, Lat: st.Location.Lat}
	}
	n, _ := s.NodeByID(suc.NodeID)
	return geo.Point{Lon: n.Location.Lon, Lat: n.Location.Lat}
}

func pieceName(s *store.Store, p piece) string {
	if p.ctx.name != "" {
		return p.ctx.name
	}
	return ""
}

// Build synthesizes the directions response for a settled path. zoneMidnight
// is the epoch timestamp of local midnight on the query date; step Arrive
// fields are zoneMidnight + trace.Value.
func Build(s *store.Store, path []*dijkstra.Trace, zoneMidnight int64) *Directions {
	if len(path) <= 1 {
		return &Directions{
			UUID:      uuid.NewString(),
			Waypoints: waypointsOf(s, path),
			Distance:  0,
			Duration:  0,
			Steps:     []Step{},
		}
	}

	pieces := partition(s, path)

	first := piece{traces: []*dijkstra.Trace{path[0]}}
	last := piece{traces: []*dijkstra.Trace{path[len(path)-1]}}
	withSentinels := append([]piece{first}, pieces...)
	withSentinels = append(withSentinels, last)

	var steps []Step
	for i := 1; i < len(withSentinels)-1; i++ {
		prev := withSentinels[i-1]
		cur := withSentinels[i]
		next := withSentinels[i+1]
		steps = append(steps, buildStep(s, prev, cur, next, zoneMidnight))
	}

	total := 0.0
	for _, st := range steps {
		total += st.Distance
	}

	return &Directions{
		UUID:      uuid.NewString(),
		Waypoints: waypointsOf(s, path),
		Distance:  total,
		Duration:  path[len(path)-1].Value - path[0].Value,
		Steps:     steps,
	}
}

func waypointsOf(s *store.Store, path []*dijkstra.Trace) [2]Waypoint {
	var wp [2]Waypoint
	if len(path) == 0 {
		return wp
	}
	firstLoc := locPoint(s, path[0].Loc)
	lastLoc := locPoint(s, path[len(path)-1].Loc)
	wp[0] = Waypoint{Name: firstWayName(s, path), Location: [2]float64{firstLoc.Lon, firstLoc.Lat}}
	wp[1] = Waypoint{Name: lastWayName(s, path), Location: [2]float64{lastLoc.Lon, lastLoc.Lat}}
	return wp
}

func firstWayName(s *store.Store, path []*dijkstra.Trace) string {
	for _, tr := range path {
		if p, ok := tr.Payload.(router.WalkPayload); ok && p.HasWay && p.Way.Name != "" {
			return p.Way.Name
		}
	}
	return ""
}

func lastWayName(s *store.Store, path []*dijkstra.Trace) string {
	for i := len(path) - 1; i >= 0; i-- {
		if p, ok := path[i].Payload.(router.WalkPayload); ok && p.HasWay && p.Way.Name != "" {
			return p.Way.Name
		}
	}
	return ""
}

func maneuverType(prev, cur, next piece) string {
	if sameSingleTrace(prev, cur.traces[0]) {
		return "depart"
	}
	if sameSingleTrace(next, cur.traces[len(cur.traces)-1]) {
		return "arrive"
	}
	if prev.ctx.namespace == "way" && cur.ctx.namespace == "stop" {
		return "notification"
	}
	if cur.ctx.namespace == "stop" && next.ctx.namespace == "stop" {
		return "continue"
	}
	if cur.ctx.namespace == "stop" && next.ctx.namespace == "way" {
		return "exit vehicle"
	}
	return "turn"
}

func sameSingleTrace(p piece, tr *dijkstra.Trace) bool {
	return len(p.traces) == 1 && p.traces[0] == tr
}

func buildStep(s *store.Store, prev, cur, next piece, zoneMidnight int64) Step {
	mtype := maneuverType(prev, cur, next)

	preBearing := geo.BearingDegrees(locPoint(s, prev.traces[0].Loc), locPoint(s, cur.traces[0].Loc))
	postBearing := geo.BearingDegrees(locPoint(s, cur.traces[0].Loc), locPoint(s, next.traces[0].Loc))
	angle := geo.NormalizeSignedAngle(postBearing, preBearing)

	maneuver := Maneuver{Type: mtype, BearingBefore: preBearing, BearingAfter: postBearing}
	if mtype == "turn" {
		maneuver.Modifier = modifierFor(angle)
	}

	points := make([]geo.Point, 0, len(cur.traces)+1)
	for _, tr := range cur.traces {
		points = append(points, locPoint(s, tr.Loc))
	}
	points = append(points, locPoint(s, next.traces[0].Loc))

	coords := make([][2]float64, len(points))
	for i, pt := range points {
		coords[i] = [2]float64{pt.Lon, pt.Lat}
	}

	mode := "walking"
	if cur.ctx.namespace == "stop" {
		mode = "transit"
	}

	end := cur.traces[len(cur.traces)-1]

	step := Step{
		Mode:     mode,
		Distance: geo.LineStringLengthMeters(points),
		Geometry: Geometry{Type: "LineString", Coordinates: coords},
		Maneuver: maneuver,
		Arrive:   zoneMidnight + int64(end.Value),
		Name:     pieceName(s, cur),
	}

	if mtype == "notification" {
		if ride, ok := cur.traces[0].Payload.(router.RidePayload); ok {
			wait := ride.Wait
			step.Wait = &wait
		} else if ride, ok := next.traces[0].Payload.(router.RidePayload); ok {
			wait := ride.Wait
			step.Wait = &wait
		}
	}

	if mode == "transit" {
		if trip := tripOf(cur); trip != 0 {
			step.Trip = &TripRef{ID: trip}
		}
	}

	return step
}

func tripOf(p piece) store.TripID {
	for _, tr := range p.traces {
		if ride, ok := tr.Payload.(router.RidePayload); ok {
			return ride.To.Trip
		}
	}
	return 0
}
