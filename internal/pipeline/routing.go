package pipeline

import (
	"context"

	"github.com/rudazy/warden-yield-agent/internal/chains"
	"github.com/rudazy/warden-yield-agent/internal/state"
)

// Bridge cost model: proportional fee plus a flat component, with the gas
// cost dominated by the source chain.
const (
	bridgeFeeRate = 0.0005 // 5 bps
	bridgeFeeFlat = 0.50
)

// bridgeETASeconds estimates completion time by destination. Exits to
// Ethereum mainnet are slowest; rollup-to-rollup transfers are quick.
var bridgeETASeconds = map[string]int{
	"ethereum":  900,
	"arbitrum":  180,
	"optimism":  180,
	"polygon":   300,
	"base":      180,
	"avalanche": 600,
	"bsc":       600,
}

// HeuristicRoutePlanner quotes transfers from the user's current chain to
// every other target chain using the static cost model. With no current
// chain there is nothing to bridge from and it quotes nothing.
type HeuristicRoutePlanner struct{}

// NewHeuristicRoutePlanner builds a planner.
func NewHeuristicRoutePlanner() *HeuristicRoutePlanner {
	return &HeuristicRoutePlanner{}
}

// Plan quotes one route per target chain that differs from the current
// chain.
func (p *HeuristicRoutePlanner) Plan(ctx context.Context, st *state.State) ([]state.BridgeRoute, error) {
	from, ok := chains.ByKey(st.CurrentChain)
	if !ok {
		return nil, nil
	}

	var amount float64
	if st.Amount != nil {
		amount = *st.Amount
	}
	token := st.Token
	if token == "" {
		token = "USDC"
	}

	srcGas := 0.50
	if profile, ok := gasProfiles[from.Key]; ok {
		srcGas = profile.swapUsd
	}

	var routes []state.BridgeRoute
	for _, key := range st.TargetChains {
		if key == from.Key {
			continue
		}
		to, ok := chains.ByKey(key)
		if !ok {
			continue
		}

		fee := amount*bridgeFeeRate + bridgeFeeFlat
		eta, ok := bridgeETASeconds[to.Key]
		if !ok {
			eta = 600
		}
		total := fee + srcGas

		routes = append(routes, state.BridgeRoute{
			FromChain:            from.Key,
			FromChainID:          from.ChainID,
			ToChain:              to.Key,
			ToChainID:            to.ChainID,
			Token:                token,
			Amount:               amount,
			BridgeName:           "LI.FI",
			EstimatedTimeSeconds: eta,
			GasCostUsd:           srcGas,
			BridgeFeeUsd:         fee,
			TotalCostUsd:         total,
			EstimatedOutput:      amount - fee,
			SlippagePercent:      state.DefaultSlippagePercent,
		})
	}
	return routes, nil
}
