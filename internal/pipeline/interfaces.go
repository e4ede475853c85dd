package pipeline

import (
	"context"

	"github.com/rudazy/warden-yield-agent/internal/state"
)

// OpportunitySource produces candidate yield opportunities for a request.
// Results are folded into the state with the opportunity merge, so a
// source may be invoked more than once without duplicating entries.
type OpportunitySource interface {
	Discover(ctx context.Context, st *state.State) ([]state.YieldOpportunity, error)
}

// GasEstimator produces per-chain fee snapshots for the given chain keys.
type GasEstimator interface {
	Estimate(ctx context.Context, chainKeys []string) ([]state.GasEstimate, error)
}

// RoutePlanner quotes cross-chain transfers from the user's current chain
// to candidate chains.
type RoutePlanner interface {
	Plan(ctx context.Context, st *state.State) ([]state.BridgeRoute, error)
}

// Ranker turns the accumulated opportunities, routes and gas data into
// ranked recommendations.
type Ranker interface {
	Rank(ctx context.Context, st *state.State) ([]state.Recommendation, error)
}
