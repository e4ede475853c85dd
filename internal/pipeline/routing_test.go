package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rudazy/warden-yield-agent/internal/state"
)

func TestPlanQuotesEveryOtherTargetChain(t *testing.T) {
	amount := 10_000.0
	st := state.New()
	st.Amount = &amount
	st.Token = "USDC"
	st.CurrentChain = "ethereum"
	st.TargetChains = []string{"ethereum", "arbitrum", "base"}

	routes, err := NewHeuristicRoutePlanner().Plan(context.Background(), st)
	require.NoError(t, err)
	require.Len(t, routes, 2)

	r := routes[0]
	assert.Equal(t, "ethereum", r.FromChain)
	assert.Equal(t, int64(1), r.FromChainID)
	assert.Equal(t, "arbitrum", r.ToChain)
	assert.Equal(t, int64(42161), r.ToChainID)
	assert.Equal(t, "LI.FI", r.BridgeName)
	// 5 bps of 10k plus the flat fee
	assert.InDelta(t, 5.5, r.BridgeFeeUsd, 1e-9)
	assert.InDelta(t, 5.5+12.0, r.TotalCostUsd, 1e-9) // + ethereum swap gas
	assert.InDelta(t, amount-5.5, r.EstimatedOutput, 1e-9)
	assert.Equal(t, 180, r.EstimatedTimeSeconds)
	assert.Equal(t, state.DefaultSlippagePercent, r.SlippagePercent)

	assert.Equal(t, "base", routes[1].ToChain)
}

func TestPlanNoCurrentChain(t *testing.T) {
	st := state.New()
	st.TargetChains = []string{"ethereum", "arbitrum"}

	routes, err := NewHeuristicRoutePlanner().Plan(context.Background(), st)
	require.NoError(t, err)
	assert.Empty(t, routes)
}

func TestEstimateSkipsUnknownChains(t *testing.T) {
	est := NewStaticGasEstimator(nil, quietLogger())

	out, err := est.Estimate(context.Background(), []string{"ethereum", "solana", "base"})
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "ethereum", out[0].Chain)
	assert.Equal(t, int64(1), out[0].ChainID)
	assert.Equal(t, 18.0, out[0].GasPriceStandard)
	assert.Equal(t, 12.0, out[0].SwapCostUsd)
	assert.Equal(t, "base", out[1].Chain)
	assert.NotEmpty(t, out[0].LastUpdated)
}
