package state

// MergeOpportunities combines two ordered opportunity collections without
// duplicating pool ids. Existing entries keep their positions and the
// first-seen instance per pool id always wins, so the merge is idempotent
// and safe to run for every retried enrichment stage.
func MergeOpportunities(existing, incoming []YieldOpportunity) []YieldOpportunity {
	seen := make(map[string]struct{}, len(existing))
	merged := make([]YieldOpportunity, 0, len(existing)+len(incoming))
	for _, opp := range existing {
		merged = append(merged, opp)
		seen[opp.PoolID] = struct{}{}
	}
	for _, opp := range incoming {
		if _, ok := seen[opp.PoolID]; ok {
			continue
		}
		merged = append(merged, opp)
		seen[opp.PoolID] = struct{}{}
	}
	return merged
}

// MergeWarnings concatenates two warning lists dropping duplicate values,
// keeping each warning at its earliest position.
func MergeWarnings(existing, incoming []string) []string {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	merged := make([]string, 0, len(existing)+len(incoming))
	for _, w := range existing {
		if _, ok := seen[w]; ok {
			continue
		}
		merged = append(merged, w)
		seen[w] = struct{}{}
	}
	for _, w := range incoming {
		if _, ok := seen[w]; ok {
			continue
		}
		merged = append(merged, w)
		seen[w] = struct{}{}
	}
	return merged
}
