package snapshot

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antigravity/transitcore/internal/store"
)

func buildFixture(t *testing.T) *store.Store {
	t.Helper()
	b := store.NewBuilder()

	b.AddNode(store.Node{ID: 1, Location: store.LatLon{Lon: 0, Lat: 0}})
	b.AddNode(store.Node{ID: 2, Location: store.LatLon{Lon: 1, Lat: 0}})
	b.LinkNodeSuccessor(1, store.NodeSuccessor(2))
	b.AnchorStop(1, 100)
	b.AnchorStop(2, 101)

	b.AddWay(store.Way{ID: 1, Name: "Main St", Nodes: []store.NodeID{1, 2}})

	b.AddStop(store.Stop{ID: 100, Location: store.LatLon{Lon: 0.001, Lat: 0}, Name: "Main St & 1st"})
	b.AddStop(store.Stop{ID: 101, Location: store.LatLon{Lon: 1.001, Lat: 0}, Name: "Main St & 2nd"})

	b.AddAgency(store.Agency{ID: 1, Name: "City Transit"})
	b.AddRoute(store.Route{ID: 1, Agency: 1, ShortName: "10", LongName: "Crosstown", Type: "bus"})
	b.AddService(store.Service{
		ID:        1,
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		Days:      map[store.DayOfWeek]bool{time.Monday: true, time.Wednesday: true, time.Friday: true},
	})
	b.AddTrip(store.Trip{ID: 1, Route: 1, Service: 1})
	b.AddStopTime(store.StopTime{Trip: 1, Stop: 100, ArrivalSec: 600, DepartureSec: 600, StopSequence: 0})
	b.AddStopTime(store.StopTime{Trip: 1, Stop: 101, ArrivalSec: 780, DepartureSec: 780, StopSequence: 1})

	s, err := b.Finalize()
	require.NoError(t, err)
	return s
}

func TestWriteReadRoundTrip(t *testing.T) {
	orig := buildFixture(t)
	path := filepath.Join(t.TempDir(), "snapshot.db")

	require.NoError(t, Write(path, orig))

	got, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, orig.NodeCount(), got.NodeCount())
	assert.Equal(t, orig.StopCount(), got.StopCount())
	assert.Equal(t, orig.TripCount(), got.TripCount())

	stop, ok := got.StopByID(100)
	require.True(t, ok)
	assert.Equal(t, "Main St & 1st", stop.Name)
	assert.Equal(t, []store.StopID{101}, stop.Successors)

	way, ok := got.WayConnecting(1, 2)
	require.True(t, ok)
	assert.Equal(t, "Main St", way.Name)

	svc, ok := got.ServiceByID(1)
	require.True(t, ok)
	assert.True(t, svc.ActiveOn(time.Date(2026, 7, 29, 0, 0, 0, 0, time.UTC))) // a Wednesday
	assert.False(t, svc.ActiveOn(time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)))

	sts := got.StopTimesForTrip(1)
	require.Len(t, sts, 2)
	assert.Equal(t, 600, sts[0].ArrivalSec)

	anchors := got.ReverseNodeSuccessors(store.StopSuccessor(100))
	assert.Equal(t, []store.NodeID{1}, anchors)
}

func TestEncodeDecodeDaysRoundTrip(t *testing.T) {
	days := map[store.DayOfWeek]bool{time.Monday: true, time.Saturday: true}
	mask := encodeDays(days)
	got := decodeDays(mask)
	assert.Equal(t, days, got)
}
