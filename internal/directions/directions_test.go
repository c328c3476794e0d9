package directions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antigravity/transitcore/internal/dijkstra"
	"github.com/antigravity/transitcore/internal/router"
	"github.com/antigravity/transitcore/internal/store"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()
	b := store.NewBuilder()
	b.AddNode(store.Node{ID: 1, Location: store.LatLon{Lon: 0, Lat: 0}})
	b.AddNode(store.Node{ID: 2, Location: store.LatLon{Lon: 0, Lat: 0.001}})
	b.AddNode(store.Node{ID: 3, Location: store.LatLon{Lon: 0.001, Lat: 0.001}})
	b.AddNode(store.Node{ID: 4, Location: store.LatLon{Lon: 0.002, Lat: 0.001}})
	b.LinkNodeSuccessor(1, store.NodeSuccessor(2))
	b.AnchorStop(2, 100)
	b.AddStop(store.Stop{ID: 100, Location: store.LatLon{Lon: 0, Lat: 0.001}, Name: "Stop A"})
	b.AddStop(store.Stop{ID: 101, Location: store.LatLon{Lon: 0.0005, Lat: 0.001}, Name: "Stop B"})
	b.AddStop(store.Stop{ID: 102, Location: store.LatLon{Lon: 0.001, Lat: 0.001}, Name: "Stop C"})
	b.AnchorStop(3, 102)
	b.AddTrip(store.Trip{ID: 7, Route: 1, Service: 1})
	b.AddStopTime(store.StopTime{Trip: 7, Stop: 100, ArrivalSec: 600, DepartureSec: 600, StopSequence: 0})
	b.AddStopTime(store.StopTime{Trip: 7, Stop: 101, ArrivalSec: 700, DepartureSec: 710, StopSequence: 1})
	b.AddStopTime(store.StopTime{Trip: 7, Stop: 102, ArrivalSec: 780, DepartureSec: 780, StopSequence: 2})
	s, err := b.Finalize()
	require.NoError(t, err)
	return s
}

func TestDegeneratePathProducesEmptyDirections(t *testing.T) {
	s := testStore(t)
	path := []*dijkstra.Trace{{Loc: store.NodeSuccessor(1), Value: 0}}
	d := Build(s, path, 0)
	assert.Equal(t, 0.0, d.Distance)
	assert.Equal(t, 0.0, d.Duration)
	assert.Empty(t, d.Steps)
	assert.NotEmpty(t, d.UUID)
}

func TestManeuverSequenceForWalkRideWalk(t *testing.T) {
	s := testStore(t)

	n1 := &dijkstra.Trace{Loc: store.NodeSuccessor(1), Value: 0}
	n2 := &dijkstra.Trace{Loc: store.NodeSuccessor(2), Value: 10, Predecessor: n1,
		Payload: router.WalkPayload{HasWay: true, Way: store.Way{ID: 1, Name: "Main St"}}}
	stopA := &dijkstra.Trace{Loc: store.StopSuccessor(100), Value: 15, Predecessor: n2,
		Payload: router.WalkPayload{HasWay: false}}
	stopB := &dijkstra.Trace{Loc: store.StopSuccessor(101), Value: 700, Predecessor: stopA,
		Payload: router.RidePayload{
			From: store.StopTime{Trip: 7, Stop: 100, DepartureSec: 600},
			To:   store.StopTime{Trip: 7, Stop: 101, ArrivalSec: 700},
			Wait: 600 - 15,
		}}
	stopC := &dijkstra.Trace{Loc: store.StopSuccessor(102), Value: 780, Predecessor: stopB,
		Payload: router.RidePayload{
			From: store.StopTime{Trip: 7, Stop: 101, DepartureSec: 710},
			To:   store.StopTime{Trip: 7, Stop: 102, ArrivalSec: 780},
			Wait: 710 - 700,
		}}
	n3 := &dijkstra.Trace{Loc: store.NodeSuccessor(3), Value: 790, Predecessor: stopC,
		Payload: router.WalkPayload{HasWay: true, Way: store.Way{ID: 2, Name: "Elm St"}}}
	n4 := &dijkstra.Trace{Loc: store.NodeSuccessor(4), Value: 800, Predecessor: n3,
		Payload: router.WalkPayload{HasWay: true, Way: store.Way{ID: 2, Name: "Elm St"}}}

	path := []*dijkstra.Trace{n1, n2, stopA, stopB, stopC, n3, n4}
	d := Build(s, path, 1000)

	require.NotEmpty(t, d.Steps)
	assert.Equal(t, "depart", d.Steps[0].Maneuver.Type)
	assert.Equal(t, "arrive", d.Steps[len(d.Steps)-1].Maneuver.Type)

	var types []string
	for _, st := range d.Steps {
		types = append(types, st.Maneuver.Type)
	}
	assert.Contains(t, types, "notification")
	assert.Contains(t, types, "exit vehicle")

	for _, st := range d.Steps {
		if st.Maneuver.Type == "notification" {
			require.NotNil(t, st.Wait)
			assert.Equal(t, 600.0-15, *st.Wait)
		}
		if st.Mode == "transit" {
			require.NotNil(t, st.Trip)
			assert.Equal(t, store.TripID(7), st.Trip.ID)
		}
	}

	assert.Equal(t, int64(1000+800), d.Steps[len(d.Steps)-1].Arrive)
}

func TestModifierTableLargestKeyLessEqual(t *testing.T) {
	assert.Equal(t, "straight", modifierFor(0))
	assert.Equal(t, "slight right", modifierFor(20))
	assert.Equal(t, "slight right", modifierFor(45))
	assert.Equal(t, "right", modifierFor(60))
	assert.Equal(t, "sharp right", modifierFor(150))
	assert.Equal(t, "uturn", modifierFor(165))
	assert.Equal(t, "straight", modifierFor(180))
	assert.Equal(t, "sharp left", modifierFor(-20))
	assert.Equal(t, "left", modifierFor(-50))
	assert.Equal(t, "slight left", modifierFor(-100))
	assert.Equal(t, "straight", modifierFor(-180))
}
