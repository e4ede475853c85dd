package pipeline

import (
	"context"
	"fmt"
	"sort"

	"github.com/rudazy/warden-yield-agent/internal/render"
	"github.com/rudazy/warden-yield-agent/internal/state"
)

const maxRecommendations = 5

// risk caps per tolerance: opportunities scoring above the cap are not
// recommended to that profile.
var riskCaps = map[state.RiskTolerance]float64{
	state.RiskConservative: 4,
	state.RiskModerate:     7,
	state.RiskAggressive:   10,
}

var riskPenalties = map[state.RiskTolerance]float64{
	state.RiskConservative: 1.0,
	state.RiskModerate:     0.3,
	state.RiskAggressive:   0.1,
}

// DefaultRanker scores opportunities by net APY after entry costs,
// discounted by a tolerance-weighted risk penalty.
type DefaultRanker struct{}

// NewDefaultRanker builds a ranker.
func NewDefaultRanker() *DefaultRanker {
	return &DefaultRanker{}
}

type scored struct {
	rec   state.Recommendation
	score float64
}

// Rank produces up to five ranked recommendations from the accumulated
// opportunities, gas estimates and bridge routes.
func (r *DefaultRanker) Rank(ctx context.Context, st *state.State) ([]state.Recommendation, error) {
	var amount float64
	if st.Amount != nil {
		amount = *st.Amount
	}
	token := st.Token
	if token == "" {
		token = "USDC"
	}

	riskCap, ok := riskCaps[st.RiskTolerance]
	if !ok {
		riskCap = riskCaps[state.RiskModerate]
	}
	penalty := riskPenalties[st.RiskTolerance]

	gasByChain := make(map[string]state.GasEstimate, len(st.GasEstimates))
	for _, g := range st.GasEstimates {
		gasByChain[g.Chain] = g
	}
	routeByChain := make(map[string]state.BridgeRoute, len(st.BridgeRoutes))
	for _, rt := range st.BridgeRoutes {
		routeByChain[rt.ToChain] = rt
	}

	candidates := make([]scored, 0, len(st.YieldOpportunities))
	for _, opp := range st.YieldOpportunities {
		if opp.RiskScore > riskCap {
			continue
		}

		entryCost := 0.0
		if g, ok := gasByChain[opp.Chain]; ok {
			entryCost += g.SwapCostUsd + g.DepositCostUsd
		}

		requiresBridge := st.CurrentChain != "" && opp.Chain != st.CurrentChain
		var route *state.BridgeRoute
		if requiresBridge {
			if rt, ok := routeByChain[opp.Chain]; ok {
				copied := rt
				route = &copied
				entryCost += rt.TotalCostUsd
			}
		}

		costPct := 0.0
		if amount > 0 {
			costPct = entryCost / amount * 100
		}
		netAPY := opp.APY - costPct
		earnings1y := amount * netAPY / 100
		earnings30d := earnings1y * 30 / 365

		rec := state.Recommendation{
			Opportunity:       opp,
			InputAmount:       amount,
			InputToken:        token,
			Earnings30d:       earnings30d,
			Earnings1y:        earnings1y,
			RequiresBridge:    requiresBridge,
			BridgeRoute:       route,
			NetAPY:            netAPY,
			TotalEntryCostUsd: entryCost,
			WhyRecommended:    justification(opp, st.RiskTolerance),
			Warnings:          opportunityWarnings(opp),
			ExecutionSteps:    executionSteps(opp, route, token),
		}
		candidates = append(candidates, scored{
			rec:   rec,
			score: netAPY - opp.RiskScore*penalty,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	n := len(candidates)
	if n > maxRecommendations {
		n = maxRecommendations
	}
	recs := make([]state.Recommendation, 0, n)
	for i := 0; i < n; i++ {
		rec := candidates[i].rec
		rec.Rank = i + 1
		recs = append(recs, rec)
	}
	return recs, nil
}

func justification(opp state.YieldOpportunity, risk state.RiskTolerance) string {
	return fmt.Sprintf("%s offers %s APY on %s with %s TVL at risk %.1f/10, matching your %s profile.",
		opp.Protocol, render.APY(opp.APY), opp.Chain, render.Currency(opp.TVLUsd, 0),
		opp.RiskScore, string(risk))
}

func opportunityWarnings(opp state.YieldOpportunity) []string {
	var warnings []string
	if opp.RiskScore > 6 {
		warnings = append(warnings, fmt.Sprintf("High risk score (%.1f/10) for %s", opp.RiskScore, opp.Protocol))
	}
	if !opp.Audited {
		warnings = append(warnings, fmt.Sprintf("%s has no published audits on record", opp.Protocol))
	}
	if opp.TVLUsd < 1_000_000 {
		warnings = append(warnings, fmt.Sprintf("Low TVL pool (%s)", render.Currency(opp.TVLUsd, 0)))
	}
	switch opp.ILRisk {
	case state.ILMedium, state.ILHigh:
		warnings = append(warnings, fmt.Sprintf("Impermanent loss risk: %s", string(opp.ILRisk)))
	}
	return warnings
}

func executionSteps(opp state.YieldOpportunity, route *state.BridgeRoute, token string) []string {
	var steps []string
	n := 1
	if route != nil {
		steps = append(steps, fmt.Sprintf("%d. Bridge %s from %s to %s via %s (~%s)",
			n, token, route.FromChain, route.ToChain, route.BridgeName,
			render.Duration(route.EstimatedTimeSeconds)))
		n++
	}
	steps = append(steps, fmt.Sprintf("%d. Swap %s into %s on %s", n, token, opp.Symbol, opp.Chain))
	n++
	steps = append(steps, fmt.Sprintf("%d. Deposit into the %s %s pool", n, opp.Protocol, opp.PoolName))
	return steps
}
