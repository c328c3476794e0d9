package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antigravity/transitcore/internal/store"
)

func buildGraph(t *testing.T) *store.Store {
	t.Helper()
	b := store.NewBuilder()
	b.AddNode(store.Node{ID: 1, Location: store.LatLon{Lon: 0, Lat: 0}})
	b.AddNode(store.Node{ID: 2, Location: store.LatLon{Lon: 0, Lat: 0.01}})
	b.LinkNodeSuccessor(1, store.NodeSuccessor(2))
	b.AnchorStop(2, 100)
	b.AddStop(store.Stop{ID: 100, Location: store.LatLon{Lon: 0, Lat: 0.01}, Name: "A"})
	b.AddStop(store.Stop{ID: 101, Location: store.LatLon{Lon: 0, Lat: 0.02}, Name: "B"})
	b.AnchorStop(2, 101)

	b.AddTrip(store.Trip{ID: 1, Route: 1, Service: 1})
	b.AddStopTime(store.StopTime{Trip: 1, Stop: 100, DepartureSec: 600, ArrivalSec: 600, StopSequence: 0})
	b.AddStopTime(store.StopTime{Trip: 1, Stop: 101, DepartureSec: 780, ArrivalSec: 780, StopSequence: 1})

	s, err := b.Finalize()
	require.NoError(t, err)
	return s
}

func TestPedestrianWalksNodeToNode(t *testing.T) {
	s := buildGraph(t)
	p := Pedestrian{}
	ts := p.Successors(s, State{Loc: store.NodeSuccessor(1)}, nil)
	require.Len(t, ts, 1)
	assert.Equal(t, store.NodeID(2), ts[0].Dst.NodeID)
	assert.Greater(t, ts[0].Cost, 0.0)
}

func TestPedestrianWalksStopBackToAnchorNode(t *testing.T) {
	s := buildGraph(t)
	p := Pedestrian{}
	ts := p.Successors(s, State{Loc: store.StopSuccessor(100)}, nil)
	require.Len(t, ts, 1)
	assert.Equal(t, store.NodeID(2), ts[0].Dst.NodeID)
}

func TestTransitYieldsBoardingTransitionWithWait(t *testing.T) {
	s := buildGraph(t)
	tr := Transit{}
	active := map[store.TripID]bool{1: true}
	ts := tr.Successors(s, State{Loc: store.StopSuccessor(100), Time: 540}, active)
	require.Len(t, ts, 1)
	assert.Equal(t, store.StopID(101), ts[0].Dst.StopID)
	assert.Equal(t, 240.0, ts[0].Cost) // 780 - 540
	ride := ts[0].Payload.(RidePayload)
	assert.Equal(t, 60.0, ride.Wait) // 600 - 540
}

func TestCompositeDispatchesByNodeKind(t *testing.T) {
	s := buildGraph(t)
	c := New()
	active := map[store.TripID]bool{1: true}

	nodeTs := c.Successors(s, State{Loc: store.NodeSuccessor(1)}, active)
	require.Len(t, nodeTs, 1) // walking only

	stopTs := c.Successors(s, State{Loc: store.StopSuccessor(100), Time: 540}, active)
	require.Len(t, stopTs, 2) // walk back to node 2, plus ride to stop 101
}
