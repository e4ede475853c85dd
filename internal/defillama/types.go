package defillama

// Pool is one entry of the DefiLlama yields feed.
type Pool struct {
	Pool             string   `json:"pool"`
	Chain            string   `json:"chain"`
	Project          string   `json:"project"`
	Symbol           string   `json:"symbol"`
	TVLUsd           float64  `json:"tvlUsd"`
	APY              float64  `json:"apy"`
	APYBase          float64  `json:"apyBase"`
	APYReward        float64  `json:"apyReward"`
	APYMean30d       *float64 `json:"apyMean30d,omitempty"`
	ILRisk           string   `json:"ilRisk"`   // "yes" / "no"
	Exposure         string   `json:"exposure"` // "single" / "multi"
	StableCoin       bool     `json:"stablecoin"`
	Outlier          bool     `json:"outlier"`
	UnderlyingTokens []string `json:"underlyingTokens"`
	RewardTokens     []string `json:"rewardTokens"`
}

type poolsResponse struct {
	Status string `json:"status"`
	Data   []Pool `json:"data"`
}
