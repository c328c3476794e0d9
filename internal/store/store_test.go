package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func buildSimple(t *testing.T) *Store {
	t.Helper()
	b := NewBuilder()
	b.AddNode(Node{ID: 1, Location: LatLon{Lon: 0, Lat: 0}})
	b.AddNode(Node{ID: 2, Location: LatLon{Lon: 1, Lat: 0}})
	b.AnchorStop(1, 100)
	b.AddStop(Stop{ID: 100, Location: LatLon{Lon: 0.001, Lat: 0}, Name: "Main St"})
	b.AddStop(Stop{ID: 101, Location: LatLon{Lon: 2, Lat: 0}, Name: "Elm St"})
	b.AnchorStop(2, 101)

	b.AddTrip(Trip{ID: 1, Route: 1, Service: 1})
	b.AddStopTime(StopTime{Trip: 1, Stop: 100, DepartureSec: 600, ArrivalSec: 600, StopSequence: 0})
	b.AddStopTime(StopTime{Trip: 1, Stop: 101, DepartureSec: 780, ArrivalSec: 780, StopSequence: 1})

	store, err := b.Finalize()
	require.NoError(t, err)
	return store
}

func TestDeriveStopSuccessors(t *testing.T) {
	s := buildSimple(t)
	stop, ok := s.StopByID(100)
	require.True(t, ok)
	require.Equal(t, []StopID{101}, stop.Successors)
}

func TestAnchorInvariantViolation(t *testing.T) {
	b := NewBuilder()
	b.AddStop(Stop{ID: 1, Location: LatLon{}})
	_, err := b.Finalize()
	require.ErrorIs(t, err, ErrGraphInvariant)
}

func TestDuplicateStopSequenceViolation(t *testing.T) {
	b := NewBuilder()
	b.AddNode(Node{ID: 1})
	b.AnchorStop(1, 1)
	b.AddStop(Stop{ID: 1})
	b.AddStopTime(StopTime{Trip: 1, Stop: 1, StopSequence: 0})
	b.AddStopTime(StopTime{Trip: 1, Stop: 1, StopSequence: 0})
	_, err := b.Finalize()
	require.ErrorIs(t, err, ErrGraphInvariant)
}

func TestNodeLocationRangeReturnsNearestFirst(t *testing.T) {
	s := buildSimple(t)
	entries := s.RangeNodeLocationFrom(LatLon{Lon: 0.9, Lat: 0})
	require.NotEmpty(t, entries)
	require.Equal(t, NodeID(2), entries[0].NodeID)
}

func TestServiceActiveOn(t *testing.T) {
	svc := Service{
		StartDate: date(2026, 1, 1),
		EndDate:   date(2026, 12, 31),
		Days:      map[time.Weekday]bool{time.Wednesday: true},
	}
	require.True(t, svc.ActiveOn(date(2026, 7, 29))) // a Wednesday strictly inside the range
	require.False(t, svc.ActiveOn(date(2026, 1, 1)))  // boundary is exclusive
	require.False(t, svc.ActiveOn(date(2026, 7, 30))) // Thursday, wrong weekday
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
