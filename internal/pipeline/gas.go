package pipeline

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rudazy/warden-yield-agent/internal/cache"
	"github.com/rudazy/warden-yield-agent/internal/chains"
	"github.com/rudazy/warden-yield-agent/internal/state"
)

// gasProfile is the static fee profile for one chain: gwei tiers plus
// typical swap and deposit costs in USD.
type gasProfile struct {
	slow, standard, fast float64
	swapUsd, depositUsd  float64
}

// gasProfiles carries conservative static estimates per chain key. They
// stand in for a live gas oracle and refresh through the snapshot cache.
var gasProfiles = map[string]gasProfile{
	"ethereum":  {10, 18, 30, 12.00, 8.00},
	"arbitrum":  {0.01, 0.02, 0.05, 0.30, 0.20},
	"optimism":  {0.001, 0.005, 0.01, 0.25, 0.15},
	"polygon":   {30, 45, 80, 0.03, 0.02},
	"base":      {0.005, 0.01, 0.03, 0.20, 0.12},
	"avalanche": {25, 30, 45, 0.35, 0.25},
	"bsc":       {1, 3, 5, 0.25, 0.18},
}

// StaticGasEstimator serves per-chain gas snapshots from a static profile
// table, caching them like a live oracle would be cached.
type StaticGasEstimator struct {
	store  *cache.SnapshotStore // optional
	ttl    time.Duration
	logger *logrus.Logger
}

// NewStaticGasEstimator builds an estimator. store may be nil.
func NewStaticGasEstimator(store *cache.SnapshotStore, logger *logrus.Logger) *StaticGasEstimator {
	if logger == nil {
		logger = logrus.New()
	}
	return &StaticGasEstimator{store: store, ttl: cache.DefaultGasTTL, logger: logger}
}

// SetTTL overrides the snapshot lifetime; non-positive values keep the
// default.
func (e *StaticGasEstimator) SetTTL(d time.Duration) {
	if d > 0 {
		e.ttl = d
	}
}

// Estimate returns one snapshot per known chain key; unknown keys are
// skipped rather than failing the request.
func (e *StaticGasEstimator) Estimate(ctx context.Context, chainKeys []string) ([]state.GasEstimate, error) {
	out := make([]state.GasEstimate, 0, len(chainKeys))
	for _, key := range chainKeys {
		profile, ok := gasProfiles[key]
		if !ok {
			continue
		}
		chain, ok := chains.ByKey(key)
		if !ok {
			continue
		}

		if e.store != nil {
			if cached, err := e.store.GetGas(ctx, key); err == nil {
				out = append(out, cached)
				continue
			} else if err != cache.ErrNotFound {
				e.logger.WithError(err).Warn("gas snapshot cache read failed")
			}
		}

		est := state.GasEstimate{
			Chain:            key,
			ChainID:          chain.ChainID,
			GasPriceSlow:     profile.slow,
			GasPriceStandard: profile.standard,
			GasPriceFast:     profile.fast,
			SwapCostUsd:      profile.swapUsd,
			DepositCostUsd:   profile.depositUsd,
			LastUpdated:      time.Now().UTC().Format(time.RFC3339),
		}
		if e.store != nil {
			if err := e.store.PutGas(ctx, est, e.ttl); err != nil {
				e.logger.WithError(err).Warn("gas snapshot cache write failed")
			}
		}
		out = append(out, est)
	}
	return out, nil
}
