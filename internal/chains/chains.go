package chains

import "strings"

// Chain is the static reference record for one supported network.
type Chain struct {
	Key           string `json:"key"`      // lowercase canonical id, e.g. "ethereum"
	ChainID       int64  `json:"chain_id"` // EVM numeric chain id
	Name          string `json:"name"`     // display name
	Symbol        string `json:"symbol"`   // native token symbol
	Color         string `json:"color"`
	Explorer      string `json:"explorer"`
	DefiLlamaSlug string `json:"defillama_slug"`
	LiFiKey       string `json:"lifi_key"`
}

// Supported is the fixed chain registry, loaded once at process start.
// Declaration order matters: the parameter extractor scans keys in this
// order, so it must stay stable.
var Supported = []Chain{
	{
		Key:           "ethereum",
		ChainID:       1,
		Name:          "Ethereum",
		Symbol:        "ETH",
		Color:         "#627EEA",
		Explorer:      "https://etherscan.io",
		DefiLlamaSlug: "Ethereum",
		LiFiKey:       "ETH",
	},
	{
		Key:           "arbitrum",
		ChainID:       42161,
		Name:          "Arbitrum One",
		Symbol:        "ETH",
		Color:         "#28A0F0",
		Explorer:      "https://arbiscan.io",
		DefiLlamaSlug: "Arbitrum",
		LiFiKey:       "ARB",
	},
	{
		Key:           "optimism",
		ChainID:       10,
		Name:          "Optimism",
		Symbol:        "ETH",
		Color:         "#FF0420",
		Explorer:      "https://optimistic.etherscan.io",
		DefiLlamaSlug: "Optimism",
		LiFiKey:       "OPT",
	},
	{
		Key:           "polygon",
		ChainID:       137,
		Name:          "Polygon",
		Symbol:        "MATIC",
		Color:         "#8247E5",
		Explorer:      "https://polygonscan.com",
		DefiLlamaSlug: "Polygon",
		LiFiKey:       "POL",
	},
	{
		Key:           "base",
		ChainID:       8453,
		Name:          "Base",
		Symbol:        "ETH",
		Color:         "#0052FF",
		Explorer:      "https://basescan.org",
		DefiLlamaSlug: "Base",
		LiFiKey:       "BAS",
	},
	{
		Key:           "avalanche",
		ChainID:       43114,
		Name:          "Avalanche",
		Symbol:        "AVAX",
		Color:         "#E84142",
		Explorer:      "https://snowtrace.io",
		DefiLlamaSlug: "Avalanche",
		LiFiKey:       "AVA",
	},
	{
		Key:           "bsc",
		ChainID:       56,
		Name:          "BNB Chain",
		Symbol:        "BNB",
		Color:         "#F0B90B",
		Explorer:      "https://bscscan.com",
		DefiLlamaSlug: "BSC",
		LiFiKey:       "BSC",
	},
}

// Alias maps a shorthand users type to a canonical chain key.
type Alias struct {
	Short string
	Key   string
}

// Aliases is scanned after the canonical keys, in this order.
var Aliases = []Alias{
	{"eth", "ethereum"},
	{"arb", "arbitrum"},
	{"op", "optimism"},
	{"matic", "polygon"},
	{"bnb", "bsc"},
	{"avax", "avalanche"},
}

// Keys returns the canonical chain keys in registry order.
func Keys() []string {
	out := make([]string, 0, len(Supported))
	for _, c := range Supported {
		out = append(out, c.Key)
	}
	return out
}

// ByKey looks up a chain by its canonical lowercase key.
func ByKey(key string) (Chain, bool) {
	for _, c := range Supported {
		if c.Key == key {
			return c, true
		}
	}
	return Chain{}, false
}

// ByID looks up a chain by its numeric chain id.
func ByID(id int64) (Chain, bool) {
	for _, c := range Supported {
		if c.ChainID == id {
			return c, true
		}
	}
	return Chain{}, false
}

// ByName looks up a chain by canonical key or display name,
// case-insensitively.
func ByName(name string) (Chain, bool) {
	lower := strings.ToLower(name)
	if c, ok := ByKey(lower); ok {
		return c, true
	}
	for _, c := range Supported {
		if strings.ToLower(c.Name) == lower {
			return c, true
		}
	}
	return Chain{}, false
}
