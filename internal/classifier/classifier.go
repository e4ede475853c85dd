package classifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/rudazy/warden-yield-agent/internal/state"
)

// Keywords holds the rule-tier buckets, checked in struct field order:
// compare first, then route, then risk. First match wins.
type Keywords struct {
	Compare []string
	Route   []string
	Risk    []string
}

// DefaultKeywords returns the production rule buckets.
func DefaultKeywords() Keywords {
	return Keywords{
		Compare: []string{"compare", "vs"},
		Route:   []string{"bridge", "move"},
		Risk:    []string{"risk", "audit"},
	}
}

// Config holds configuration for the intent classifier.
type Config struct {
	// OpenRouter / LLM settings. When the API key is empty the classifier
	// runs rule-only.
	OpenRouterAPIKey string
	// Model name as understood by OpenRouter, e.g. "openai/gpt-4.1-mini".
	Model string

	// Keywords overrides the rule buckets; zero value means defaults.
	Keywords Keywords

	// LLM overrides the model client, mainly for tests.
	LLM llms.Model

	Logger *logrus.Logger
}

// Classifier derives the user's intent from query text. The rule tier
// always runs; the model tier, when configured, may override it but can
// never fail the request.
type Classifier struct {
	llm    llms.Model
	kw     Keywords
	logger *logrus.Logger
}

// New creates a classifier. The model tier is attached only when an
// OpenRouter key (or an injected LLM) is available.
func New(cfg Config) (*Classifier, error) {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	kw := cfg.Keywords
	if len(kw.Compare) == 0 && len(kw.Route) == 0 && len(kw.Risk) == 0 {
		kw = DefaultKeywords()
	}

	llm := cfg.LLM
	if llm == nil && cfg.OpenRouterAPIKey != "" {
		if cfg.Model == "" {
			cfg.Model = "openai/gpt-4.1-mini"
		}
		model, err := openai.New(
			openai.WithToken(cfg.OpenRouterAPIKey),
			openai.WithBaseURL("https://openrouter.ai/api/v1"),
			openai.WithModel(cfg.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenRouter LLM: %w", err)
		}
		llm = model
		cfg.Logger.WithField("model", cfg.Model).Info("intent model tier enabled")
	}

	return &Classifier{llm: llm, kw: kw, logger: cfg.Logger}, nil
}

// ModelVerdict is the explicit result of one model-tier call: either an
// intent or the reason the call failed. The caller inspects it and falls
// back deterministically instead of relying on a catch-all.
type ModelVerdict struct {
	Intent state.Intent
	Raw    string
	Err    error
}

// Classify returns exactly one intent for the text. The model tier is
// best-effort: any failure (network, auth, malformed response, timeout)
// leaves the rule-tier result standing.
func (c *Classifier) Classify(ctx context.Context, query string) state.Intent {
	intent := c.RuleIntent(query)
	if c.llm == nil {
		return intent
	}

	v := c.askModel(ctx, query, intent)
	if v.Err != nil {
		c.logger.WithError(v.Err).Debug("intent model unavailable, keeping rule-tier intent")
		return intent
	}
	return v.Intent
}

// RuleIntent checks the keyword buckets in fixed priority order. No match
// defaults to yield search.
func (c *Classifier) RuleIntent(query string) state.Intent {
	lower := strings.ToLower(query)
	if containsAny(lower, c.kw.Compare) {
		return state.IntentCompareProtocols
	}
	if containsAny(lower, c.kw.Route) {
		return state.IntentRouteOnly
	}
	if containsAny(lower, c.kw.Risk) {
		return state.IntentRiskAnalysis
	}
	return state.IntentYieldSearch
}

// askModel issues the classification request and re-derives the intent by
// substring containment in the answer, using the same priority order as
// the rule tier. No schema is enforced on the response.
func (c *Classifier) askModel(ctx context.Context, query string, fallback state.Intent) ModelVerdict {
	prompt := fmt.Sprintf("Classify intent (yield_search, compare, route_only, risk_analysis): %s", query)
	resp, err := llms.GenerateFromSinglePrompt(ctx, c.llm, prompt, llms.WithMaxTokens(32))
	if err != nil {
		return ModelVerdict{Err: err}
	}

	answer := strings.ToLower(resp)
	intent := fallback
	switch {
	case strings.Contains(answer, "compare"):
		intent = state.IntentCompareProtocols
	case strings.Contains(answer, "route"):
		intent = state.IntentRouteOnly
	case strings.Contains(answer, "risk"):
		intent = state.IntentRiskAnalysis
	}
	return ModelVerdict{Intent: intent, Raw: resp}
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
