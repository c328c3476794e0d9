package router

import "github.com/antigravity/transitcore/internal/store"

// Strategy decorates a Router, scaling its raw edge costs to bias a search
// toward fewer transfers or less walking: a name plus a per-edge-type cost
// adjustment, expressed as a wrapper rather than a type switch over edge
// kind since the Payload type already carries that distinction.
//
// Scaling only ever multiplies by a positive factor or adds a nonnegative
// constant, so a biased Strategy never turns a shorter path into a longer
// one and the Dijkstra settled-once invariant still holds. It does give up
// the "heap key is literal absolute arrival time" property any non-Balanced
// strategy carries a baked-in bias, so Balanced is what ByName falls back
// to by default; a caller opts into a biased Strategy only when
// ranking itineraries, not when an exact ETA is required.
type Strategy struct {
	StrategyName    string
	WalkWeight      float64
	TransferPenalty float64
	inner           Router
}

// NewStrategy wraps inner with a named cost bias.
func NewStrategy(name string, walkWeight, transferPenalty float64, inner Router) *Strategy {
	return &Strategy{StrategyName: name, WalkWeight: walkWeight, TransferPenalty: transferPenalty, inner: inner}
}

func (st *Strategy) Name() string { return st.StrategyName }

func (st *Strategy) Successors(s *store.Store, state State, activeTrips map[store.TripID]bool) []Transition {
	out := st.inner.Successors(s, state, activeTrips)
	for i := range out {
		switch out[i].Payload.(type) {
		case WalkPayload:
			out[i].Cost *= st.WalkWeight
		case RidePayload:
			out[i].Cost += st.TransferPenalty
		}
	}
	return out
}

// Balanced applies no bias: identical to routing on inner directly. This is
// the strategy ByName returns for an empty or unrecognized name.
func Balanced(inner Router) *Strategy { return NewStrategy("balanced", 1, 0, inner) }

// Direct adds 600 seconds to every ride transition (each stop-to-stop hop,
// whether or not it changes vehicle), favoring itineraries with fewer ride
// hops even at the cost of a slower trip. It does not tell a transfer to a
// second vehicle apart from staying on the same trip.
func Direct(inner Router) *Strategy { return NewStrategy("direct", 1, 600, inner) }

// FewerWalks triples the cost of walking edges, favoring itineraries that
// stay on a vehicle longer over ones that cut a walking segment short.
func FewerWalks(inner Router) *Strategy { return NewStrategy("fewer_walks", 3, 0, inner) }

// ByName returns a named Strategy wrapping inner, defaulting to Balanced
// for an unrecognized name.
func ByName(name string, inner Router) *Strategy {
	switch name {
	case "direct":
		return Direct(inner)
	case "fewer_walks":
		return FewerWalks(inner)
	default:
		return Balanced(inner)
	}
}
