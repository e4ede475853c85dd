package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rudazy/warden-yield-agent/internal/chains"
	"github.com/rudazy/warden-yield-agent/internal/state"
)

var (
	// 5k -> 5000, applied before numeric matching.
	kShorthandRe = regexp.MustCompile(`(\d+)k\b`)

	// Optional $, a number with optional thousands separators and decimals,
	// optionally followed by a 2-10 letter token symbol.
	amountRe = regexp.MustCompile(`\$?(\d+(?:,\d{3})*(?:\.\d+)?)\s*([A-Za-z]{2,10})?`)
)

// Params is the structured result of extraction. Absent values are valid
// outputs: extraction never fails.
type Params struct {
	Amount          *float64
	Token           string
	PreferredChains []string
	CurrentChain    string
	RiskTolerance   state.RiskTolerance
	// RiskMatched is true when a risk keyword actually matched, as opposed
	// to the moderate default applying.
	RiskMatched bool
}

// Extractor performs rule-based extraction over normalized query text.
// It is a pure function of the text and its vocabulary; no external calls.
type Extractor struct {
	vocab Vocabulary
}

// NewExtractor builds an extractor around the given vocabulary tables.
func NewExtractor(vocab Vocabulary) *Extractor {
	return &Extractor{vocab: vocab}
}

// Extract parses amount, token, chains and risk tolerance from the text.
func (e *Extractor) Extract(text string) Params {
	p := Params{RiskTolerance: state.RiskModerate}
	p.Amount, p.Token = e.AmountAndToken(text)
	p.PreferredChains = e.Chains(text)
	p.RiskTolerance, p.RiskMatched = e.Risk(text)
	return p
}

// AmountAndToken finds the first monetary amount and, when the trailing
// symbol is a known token, the token it refers to. If the amount match
// carries no known token, the first known token contained anywhere in the
// text wins, scanned in vocabulary declaration order.
func (e *Extractor) AmountAndToken(text string) (*float64, string) {
	lower := strings.ToLower(text)
	normalized := kShorthandRe.ReplaceAllStringFunc(lower, func(m string) string {
		n, err := strconv.Atoi(strings.TrimSuffix(m, "k"))
		if err != nil {
			return m
		}
		return strconv.Itoa(n * 1000)
	})

	var amount *float64
	var token string

	if m := amountRe.FindStringSubmatch(normalized); m != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
			amount = &v
		}
		if m[2] != "" {
			candidate := strings.ToUpper(m[2])
			for _, t := range e.vocab.KnownTokens {
				if t == candidate {
					token = t
					break
				}
			}
		}
	}

	if token == "" {
		for _, t := range e.vocab.KnownTokens {
			if strings.Contains(lower, strings.ToLower(t)) {
				token = t
				break
			}
		}
	}

	return amount, token
}

// Chains scans for supported chain keys and their aliases. The result is
// a duplicate-free sequence: canonical keys in registry order first, then
// alias resolutions in alias order.
func (e *Extractor) Chains(text string) []string {
	lower := strings.ToLower(text)
	var preferred []string
	for _, key := range chains.Keys() {
		if strings.Contains(lower, key) {
			preferred = append(preferred, key)
		}
	}
	for _, alias := range chains.Aliases {
		if !strings.Contains(lower, alias.Short) {
			continue
		}
		if !containsString(preferred, alias.Key) {
			preferred = append(preferred, alias.Key)
		}
	}
	return preferred
}

// Risk classifies risk tolerance from keyword buckets. Conservative words
// are checked before aggressive words; no match defaults to moderate.
func (e *Extractor) Risk(text string) (state.RiskTolerance, bool) {
	lower := strings.ToLower(text)
	for _, w := range e.vocab.ConservativeWords {
		if strings.Contains(lower, w) {
			return state.RiskConservative, true
		}
	}
	for _, w := range e.vocab.AggressiveWords {
		if strings.Contains(lower, w) {
			return state.RiskAggressive, true
		}
	}
	return state.RiskModerate, false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
