package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rudazy/warden-yield-agent/internal/cache"
	"github.com/rudazy/warden-yield-agent/internal/chains"
	"github.com/rudazy/warden-yield-agent/internal/defillama"
	"github.com/rudazy/warden-yield-agent/internal/state"
)

// LlamaSource discovers opportunities from the DefiLlama yields feed,
// with an optional Redis snapshot cache in front of the fetch.
type LlamaSource struct {
	client *defillama.Client
	store  *cache.SnapshotStore // optional
	ttl    time.Duration
	logger *logrus.Logger
}

// NewLlamaSource builds a source. store may be nil.
func NewLlamaSource(client *defillama.Client, store *cache.SnapshotStore, logger *logrus.Logger) *LlamaSource {
	if client == nil {
		client = defillama.NewClient("")
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &LlamaSource{client: client, store: store, ttl: cache.DefaultPoolTTL, logger: logger}
}

// SetTTL overrides the snapshot lifetime; non-positive values keep the
// default.
func (s *LlamaSource) SetTTL(d time.Duration) {
	if d > 0 {
		s.ttl = d
	}
}

// Discover returns the opportunity universe filtered down to the request's
// target chains, TVL floor and protocol exclusions.
func (s *LlamaSource) Discover(ctx context.Context, st *state.State) ([]state.YieldOpportunity, error) {
	universe, err := s.universe(ctx)
	if err != nil {
		return nil, err
	}

	targets := make(map[string]struct{}, len(st.TargetChains))
	for _, c := range st.TargetChains {
		targets[c] = struct{}{}
	}
	excluded := make(map[string]struct{}, len(st.ExcludedProtocols))
	for _, p := range st.ExcludedProtocols {
		excluded[strings.ToLower(p)] = struct{}{}
	}

	out := make([]state.YieldOpportunity, 0, 64)
	for _, opp := range universe {
		if _, ok := targets[opp.Chain]; !ok {
			continue
		}
		if opp.TVLUsd < st.MinTVL {
			continue
		}
		if _, ok := excluded[strings.ToLower(opp.ProtocolSlug)]; ok {
			continue
		}
		if _, ok := excluded[strings.ToLower(opp.Protocol)]; ok {
			continue
		}
		if opp.APY <= 0 {
			continue
		}
		out = append(out, opp)
	}

	s.logger.WithFields(logrus.Fields{
		"universe": len(universe),
		"matched":  len(out),
	}).Debug("discovered opportunities")
	return out, nil
}

// universe loads the mapped pool universe from the snapshot cache, falling
// back to a live fetch. Cache failures are logged, never fatal.
func (s *LlamaSource) universe(ctx context.Context) ([]state.YieldOpportunity, error) {
	if s.store != nil {
		pools, err := s.store.GetPools(ctx)
		if err == nil {
			return pools, nil
		}
		if err != cache.ErrNotFound {
			s.logger.WithError(err).Warn("pool snapshot cache read failed")
		}
	}

	raw, err := s.client.Pools(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	pools := make([]state.YieldOpportunity, 0, len(raw))
	for _, p := range raw {
		chain, ok := chainBySlug(p.Chain)
		if !ok {
			continue
		}
		pools = append(pools, mapPool(p, chain, now))
	}

	if s.store != nil {
		if err := s.store.PutPools(ctx, pools, s.ttl); err != nil {
			s.logger.WithError(err).Warn("pool snapshot cache write failed")
		}
	}
	return pools, nil
}

func chainBySlug(slug string) (chains.Chain, bool) {
	for _, c := range chains.Supported {
		if c.DefiLlamaSlug == slug {
			return c, true
		}
	}
	return chains.Chain{}, false
}

// mapPool converts a raw feed entry into the internal opportunity shape,
// attaching a heuristic 1-10 risk score.
func mapPool(p defillama.Pool, chain chains.Chain, now string) state.YieldOpportunity {
	return state.YieldOpportunity{
		PoolID:           p.Pool,
		Protocol:         protocolName(p.Project),
		ProtocolSlug:     p.Project,
		Chain:            chain.Key,
		PoolName:         p.Symbol,
		Symbol:           p.Symbol,
		UnderlyingTokens: p.UnderlyingTokens,
		RewardTokens:     p.RewardTokens,
		APY:              p.APY,
		APYBase:          p.APYBase,
		APYReward:        p.APYReward,
		APY30dAvg:        p.APYMean30d,
		TVLUsd:           p.TVLUsd,
		RiskScore:        riskScore(p),
		ILRisk:           ilRisk(p),
		PoolURL:          "https://defillama.com/yields/pool/" + p.Pool,
		LastUpdated:      now,
	}
}

func riskScore(p defillama.Pool) float64 {
	score := 5.0
	switch {
	case p.TVLUsd >= 100_000_000:
		score -= 2
	case p.TVLUsd >= 10_000_000:
		score -= 1
	case p.TVLUsd < 1_000_000:
		score += 1
	}
	if p.StableCoin {
		score -= 1
	}
	if p.ILRisk == "yes" {
		score += 1
	}
	if p.APYReward > p.APYBase {
		score += 1
	}
	if p.Outlier {
		score += 2
	}
	if score < 1 {
		score = 1
	}
	if score > 10 {
		score = 10
	}
	return score
}

func ilRisk(p defillama.Pool) state.ILRisk {
	if p.ILRisk != "yes" {
		return state.ILNone
	}
	if p.StableCoin {
		return state.ILLow
	}
	if p.Outlier {
		return state.ILHigh
	}
	return state.ILMedium
}

// protocolName prettifies a project slug: "aave-v3" -> "Aave V3".
func protocolName(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
