package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rudazy/warden-yield-agent/internal/chains"
)

func TestNewDefaults(t *testing.T) {
	st := New()

	assert.NotEmpty(t, st.RequestID)
	assert.Equal(t, RiskModerate, st.RiskTolerance)
	assert.Equal(t, float64(DefaultMinTVL), st.MinTVL)
	assert.Equal(t, "initialized", st.ProcessingStep)
	assert.False(t, st.CreatedAt.IsZero())
	assert.False(t, st.Failed())

	// request ids are unique per state
	assert.NotEqual(t, st.RequestID, New().RequestID)
}

func TestSetErrorAndFailed(t *testing.T) {
	st := New()
	st.SetError("upstream unavailable", map[string]any{"status": 503})

	require.True(t, st.Failed())
	assert.Equal(t, "upstream unavailable", st.Error.Message)
	assert.Equal(t, 503, st.Error.Details["status"])
}

func TestResolveTargetChainsPreferred(t *testing.T) {
	st := New()
	st.PreferredChains = []string{"arbitrum", "base"}
	st.ResolveTargetChains()

	assert.Equal(t, []string{"arbitrum", "base"}, st.TargetChains)

	// the resolved set is a copy, not an alias
	st.TargetChains[0] = "mutated"
	assert.Equal(t, "arbitrum", st.PreferredChains[0])
}

func TestResolveTargetChainsDefaultsToAllSupported(t *testing.T) {
	st := New()
	st.ResolveTargetChains()

	assert.Equal(t, chains.Keys(), st.TargetChains)
}

func TestAppendAssistantMessage(t *testing.T) {
	st := New()
	st.Messages = []Message{{Role: "user", Content: "find yield"}}
	st.AppendAssistantMessage("report text")

	require.Len(t, st.Messages, 2)
	assert.Equal(t, "assistant", st.Messages[1].Role)
	assert.Equal(t, "report text", st.Messages[1].Content)
}
