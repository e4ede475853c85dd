package render

import (
	"fmt"
	"strings"

	"github.com/rudazy/warden-yield-agent/internal/state"
)

const (
	dividerHeavy = "======================================================================"
	dividerLight = "----------------------------------------------------------------------"

	queryPreviewChars  = 50
	justificationChars = 200

	maxSummaryRows  = 5
	maxDetailBlocks = 3
	maxStepsShown   = 3
)

var riskLabels = map[state.RiskTolerance]string{
	state.RiskConservative: "Conservative (Safety First)",
	state.RiskModerate:     "Moderate (Balanced)",
	state.RiskAggressive:   "Aggressive (Maximum Yield)",
}

// Currency abbreviates a USD value with B/M/K suffixes, otherwise renders
// it with the requested decimal precision.
func Currency(value float64, decimals int) string {
	switch {
	case value >= 1_000_000_000:
		return fmt.Sprintf("$%.2fB", value/1_000_000_000)
	case value >= 1_000_000:
		return fmt.Sprintf("$%.2fM", value/1_000_000)
	case value >= 1_000:
		return fmt.Sprintf("$%.1fK", value/1_000)
	}
	return fmt.Sprintf("$%.*f", decimals, value)
}

// APY renders a percentage with one decimal at or above 10, two below.
func APY(apy float64) string {
	if apy >= 10 {
		return fmt.Sprintf("%.1f%%", apy)
	}
	return fmt.Sprintf("%.2f%%", apy)
}

// RiskBar renders a 10-glyph bar proportional to the 1-10 risk score.
func RiskBar(score float64) string {
	filled := int(score)
	if filled < 0 {
		filled = 0
	}
	if filled > 10 {
		filled = 10
	}
	label := "HIGH"
	if score <= 3 {
		label = "LOW"
	} else if score <= 6 {
		label = "MED"
	}
	return fmt.Sprintf("[%s%s] %.1f/10 %s",
		strings.Repeat("*", filled), strings.Repeat(".", 10-filled), score, label)
}

// Duration renders seconds below one minute, whole minutes above.
func Duration(seconds int) string {
	if seconds >= 60 {
		return fmt.Sprintf("%dm", seconds/60)
	}
	return fmt.Sprintf("%ds", seconds)
}

// truncate cuts s to at most n runes. The ellipsis marker is appended
// unconditionally, even when nothing was cut; downstream consumers rely on
// that exact behavior.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		s = string(runes[:n])
	}
	return s + "..."
}

// title uppercases the first letter of each word, matching how chain keys
// are displayed ("ethereum" -> "Ethereum").
func title(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Response maps a terminal request state to the single report string shown
// to the user. Exactly one of three branches applies, in priority order:
// error panel, no-results line, full report.
func Response(st *state.State) string {
	query := st.UserQuery
	if query == "" {
		query = "Your yield query"
	}

	if st.Failed() {
		return errorPanel(st.Error.Message)
	}

	if len(st.Recommendations) == 0 {
		return fmt.Sprintf("No yield opportunities found for your query: %s", query)
	}

	var amount float64
	if st.Amount != nil {
		amount = *st.Amount
	}
	token := st.Token
	if token == "" {
		token = "USD"
	}

	sections := []string{
		header(query, amount, token, st.RiskTolerance, len(st.Recommendations)),
		summary(st.Recommendations),
	}
	for i, rec := range st.Recommendations {
		if i >= maxDetailBlocks {
			break
		}
		sections = append(sections, recommendation(rec))
	}
	sections = append(sections, "\n  DISCLAIMER: This is not financial advice.\n"+dividerHeavy)

	return strings.Join(sections, "\n")
}

func errorPanel(msg string) string {
	return fmt.Sprintf("\n%s\n  ERROR\n%s\n\n  %s\n\n%s",
		dividerHeavy, dividerHeavy, msg, dividerHeavy)
}

func header(query string, amount float64, token string, risk state.RiskTolerance, numResults int) string {
	label, ok := riskLabels[risk]
	if !ok {
		label = "Moderate"
	}
	return fmt.Sprintf("\n%s\n  YIELD INTELLIGENCE REPORT\n%s\n\n  Query: %s\n  Amount: %s %s\n  Risk Profile: %s\n  Results: %d found\n\n%s",
		dividerHeavy, dividerHeavy,
		truncate(query, queryPreviewChars),
		Currency(amount, 2), token,
		label, numResults,
		dividerHeavy)
}

func summary(recs []state.Recommendation) string {
	lines := []string{
		"\n  QUICK COMPARISON\n" + dividerLight +
			"\n  Rank  Protocol             Chain      APY      Risk\n  " +
			strings.Repeat("-", 60),
	}
	for i, rec := range recs {
		if i >= maxSummaryRows {
			break
		}
		opp := rec.Opportunity
		lines = append(lines, fmt.Sprintf("  %-5d %-20s %-10s %-8s %s",
			rec.Rank, opp.Protocol, title(opp.Chain), APY(opp.APY),
			strings.Repeat("*", int(opp.RiskScore/2))))
	}
	return strings.Join(lines, "\n") + "\n" + dividerLight
}

func recommendation(rec state.Recommendation) string {
	opp := rec.Opportunity
	lines := []string{
		fmt.Sprintf("\n  #%d  %s\n      %s on %s\n\n%s\n",
			rec.Rank, opp.Protocol, opp.Symbol, title(opp.Chain), dividerLight),
		fmt.Sprintf("      APY: %-12s Net APY: %s", APY(opp.APY), APY(rec.NetAPY)),
		fmt.Sprintf("      TVL: %-12s Risk: %s\n", Currency(opp.TVLUsd, 2), RiskBar(opp.RiskScore)),
		fmt.Sprintf("      REASONING:\n      %s\n", truncate(rec.WhyRecommended, justificationChars)),
		"      EXECUTION STEPS:\n",
	}
	for i, step := range rec.ExecutionSteps {
		if i >= maxStepsShown {
			break
		}
		lines = append(lines, "      "+step)
	}
	lines = append(lines, "\n"+dividerLight)
	return strings.Join(lines, "\n")
}
