package router

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/antigravity/transitcore/internal/store"
)

type fixedRouter []Transition

func (f fixedRouter) Successors(*store.Store, State, map[store.TripID]bool) []Transition {
	return append([]Transition(nil), f...)
}

func TestBalancedStrategyLeavesCostsUnchanged(t *testing.T) {
	inner := fixedRouter{
		{Dst: store.NodeSuccessor(2), Cost: 10, Payload: WalkPayload{}},
		{Dst: store.StopSuccessor(9), Cost: 20, Payload: RidePayload{Wait: 5}},
	}
	out := Balanced(inner).Successors(nil, State{}, nil)
	assert.Equal(t, 10.0, out[0].Cost)
	assert.Equal(t, 20.0, out[1].Cost)
}

func TestDirectStrategyPenalizesBoarding(t *testing.T) {
	inner := fixedRouter{
		{Dst: store.StopSuccessor(9), Cost: 20, Payload: RidePayload{Wait: 5}},
	}
	out := Direct(inner).Successors(nil, State{}, nil)
	assert.Equal(t, 620.0, out[0].Cost)
}

func TestFewerWalksStrategyScalesWalkCostOnly(t *testing.T) {
	inner := fixedRouter{
		{Dst: store.NodeSuccessor(2), Cost: 10, Payload: WalkPayload{}},
		{Dst: store.StopSuccessor(9), Cost: 20, Payload: RidePayload{Wait: 5}},
	}
	out := FewerWalks(inner).Successors(nil, State{}, nil)
	assert.Equal(t, 30.0, out[0].Cost)
	assert.Equal(t, 20.0, out[1].Cost)
}

func TestByNameDefaultsToBalanced(t *testing.T) {
	s := ByName("unknown", fixedRouter{})
	assert.Equal(t, "balanced", s.Name())
}
