package parser

// Vocabulary holds the fixed lookup tables the extractor matches against.
// It is injected rather than referenced as a package global so tests can
// substitute fixtures.
type Vocabulary struct {
	// KnownTokens is scanned in declaration order. The fallback containment
	// scan depends on this order, so it must stay stable.
	KnownTokens []string

	// Risk keyword buckets. Conservative is checked before aggressive.
	ConservativeWords []string
	AggressiveWords   []string
}

// DefaultVocabulary returns the production lookup tables.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		KnownTokens: []string{
			"USDC", "USDT", "DAI", "FRAX", "ETH", "WETH", "BTC", "WBTC",
			"MATIC", "BNB", "AVAX", "ARB", "OP",
		},
		ConservativeWords: []string{"safe", "low risk", "conservative"},
		AggressiveWords:   []string{"aggressive", "high risk", "degen"},
	}
}
