package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rudazy/warden-yield-agent/internal/state"
)

func newTestExtractor() *Extractor {
	return NewExtractor(DefaultVocabulary())
}

func TestExtractFullQuery(t *testing.T) {
	e := newTestExtractor()
	p := e.Extract("I have 5k USDC on ethereum, looking for safe yield")

	require.NotNil(t, p.Amount)
	assert.Equal(t, 5000.0, *p.Amount)
	assert.Equal(t, "USDC", p.Token)
	assert.Equal(t, []string{"ethereum"}, p.PreferredChains)
	assert.Equal(t, state.RiskConservative, p.RiskTolerance)
	assert.True(t, p.RiskMatched)
}

func TestAmountCommaSeparators(t *testing.T) {
	e := newTestExtractor()
	amount, token := e.AmountAndToken("deploy $2,500.50 USDT somewhere")

	require.NotNil(t, amount)
	assert.Equal(t, 2500.50, *amount)
	assert.Equal(t, "USDT", token)
}

func TestAmountKShorthand(t *testing.T) {
	e := newTestExtractor()
	amount, _ := e.AmountAndToken("around 10k into stables")

	require.NotNil(t, amount)
	assert.Equal(t, 10000.0, *amount)
}

func TestAmountWithoutToken(t *testing.T) {
	e := newTestExtractor()
	amount, token := e.AmountAndToken("put $1000 to work")

	require.NotNil(t, amount)
	assert.Equal(t, 1000.0, *amount)
	assert.Equal(t, "", token)
}

func TestTokenFallbackScanOrder(t *testing.T) {
	e := newTestExtractor()

	// no amount in text; first declared token wins
	_, token := e.AmountAndToken("should I pick dai or frax?")
	assert.Equal(t, "DAI", token)

	// unknown trailing word next to the amount falls through to the scan
	amount, token := e.AmountAndToken("100 bananas of wbtc please")
	require.NotNil(t, amount)
	assert.Equal(t, 100.0, *amount)
	assert.Equal(t, "BTC", token) // BTC declared before WBTC, containment scan
}

func TestNoAmountAtAll(t *testing.T) {
	e := newTestExtractor()
	amount, token := e.AmountAndToken("where are the good yields")
	assert.Nil(t, amount)
	assert.Equal(t, "", token)
}

func TestChainsCanonicalAndAliases(t *testing.T) {
	e := newTestExtractor()

	assert.Equal(t, []string{"arbitrum", "ethereum"}, e.Chains("yield on eth and arbitrum"))
	assert.Equal(t, []string{"polygon"}, e.Chains("anything on matic?"))
	assert.Empty(t, e.Chains("best stablecoin yield"))
}

func TestChainsNoDuplicates(t *testing.T) {
	e := newTestExtractor()
	// "arbitrum" matches both the canonical key and the "arb" alias
	assert.Equal(t, []string{"arbitrum"}, e.Chains("move it to arbitrum"))
}

func TestRiskKeywords(t *testing.T) {
	e := newTestExtractor()

	risk, matched := e.Risk("keep it safe please")
	assert.Equal(t, state.RiskConservative, risk)
	assert.True(t, matched)

	risk, matched = e.Risk("full degen mode")
	assert.Equal(t, state.RiskAggressive, risk)
	assert.True(t, matched)

	// conservative wins when both buckets match
	risk, _ = e.Risk("low risk but a bit degen")
	assert.Equal(t, state.RiskConservative, risk)

	risk, matched = e.Risk("just show me yields")
	assert.Equal(t, state.RiskModerate, risk)
	assert.False(t, matched)
}
