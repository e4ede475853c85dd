package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rudazy/warden-yield-agent/internal/chains"
	"github.com/rudazy/warden-yield-agent/internal/classifier"
	"github.com/rudazy/warden-yield-agent/internal/parser"
	"github.com/rudazy/warden-yield-agent/internal/render"
	"github.com/rudazy/warden-yield-agent/internal/state"
)

// Warnings surfaced when an enrichment stage fails. Stage failures never
// abort the request.
const (
	warnDiscoveryUnavailable = "Yield data is temporarily unavailable; results may be incomplete."
	warnGasUnavailable       = "Gas estimates are unavailable; entry costs may be inaccurate."
	warnRoutingUnavailable   = "Bridge quotes are unavailable; cross-chain costs are not included."
)

// Config assembles a pipeline. Every field is optional; zero values select
// the default rule-only, cache-less implementations.
type Config struct {
	Vocabulary parser.Vocabulary
	Classifier *classifier.Classifier
	Source     OpportunitySource
	Gas        GasEstimator
	Routes     RoutePlanner
	Ranker     Ranker
	Logger     *logrus.Logger
}

// Pipeline runs one request through normalize, extract/classify, the
// enrichment stages and the renderer. It is stateless between requests.
type Pipeline struct {
	extractor  *parser.Extractor
	classifier *classifier.Classifier
	source     OpportunitySource
	gas        GasEstimator
	routes     RoutePlanner
	ranker     Ranker
	logger     *logrus.Logger
}

// New builds a pipeline with defaults filled in.
func New(cfg Config) *Pipeline {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	vocab := cfg.Vocabulary
	if len(vocab.KnownTokens) == 0 {
		vocab = parser.DefaultVocabulary()
	}
	cls := cfg.Classifier
	if cls == nil {
		cls, _ = classifier.New(classifier.Config{Logger: cfg.Logger})
	}
	src := cfg.Source
	if src == nil {
		src = NewLlamaSource(nil, nil, cfg.Logger)
	}
	gas := cfg.Gas
	if gas == nil {
		gas = NewStaticGasEstimator(nil, cfg.Logger)
	}
	routes := cfg.Routes
	if routes == nil {
		routes = NewHeuristicRoutePlanner()
	}
	ranker := cfg.Ranker
	if ranker == nil {
		ranker = NewDefaultRanker()
	}

	return &Pipeline{
		extractor:  parser.NewExtractor(vocab),
		classifier: cls,
		source:     src,
		gas:        gas,
		routes:     routes,
		ranker:     ranker,
		logger:     cfg.Logger,
	}
}

// Input carries the inbound payload plus the structured overrides the HTTP
// boundary may supply alongside the free-form query.
type Input struct {
	Query             string
	Messages          []any
	Amount            *float64
	Token             string
	CurrentChain      string
	RiskTolerance     string
	PreferredChains   []string
	ExcludedProtocols []string
	MinTVL            *float64
}

// Run processes one request end to end and always returns a rendered
// state: fatal conditions surface as the error panel, never as a Go error.
func (p *Pipeline) Run(ctx context.Context, in Input) *state.State {
	started := time.Now()
	st := state.New()
	p.applyInput(st, in)

	query, err := parser.Normalize(in.Query, in.Messages)
	if err != nil {
		st.ProcessingStep = "input_empty_error"
		st.SetError("No query provided", nil)
		p.finish(st, started)
		return st
	}
	st.UserQuery = query

	// Extraction and classification are independent; the classifier may
	// block on the model call, so run it alongside the rule extraction.
	intentCh := make(chan state.Intent, 1)
	go func() {
		intentCh <- p.classifier.Classify(ctx, query)
	}()
	params := p.extractor.Extract(query)
	st.Intent = <-intentCh

	p.applyParams(st, params)
	st.ResolveTargetChains()
	st.ProcessingStep = "input_parsed"

	p.discover(ctx, st)
	p.estimateGas(ctx, st)
	p.planRoutes(ctx, st)
	p.rank(ctx, st)

	p.finish(st, started)
	return st
}

// applyInput populates the state from the structured request fields.
func (p *Pipeline) applyInput(st *state.State, in Input) {
	st.Amount = in.Amount
	st.Token = strings.ToUpper(strings.TrimSpace(in.Token))
	if c, ok := chains.ByName(strings.TrimSpace(in.CurrentChain)); ok {
		st.CurrentChain = c.Key
	}
	if rt := state.RiskTolerance(strings.ToLower(strings.TrimSpace(in.RiskTolerance))); rt == state.RiskConservative || rt == state.RiskAggressive {
		st.RiskTolerance = rt
	}
	for _, c := range in.PreferredChains {
		if chain, ok := chains.ByName(strings.TrimSpace(c)); ok {
			st.PreferredChains = append(st.PreferredChains, chain.Key)
		}
	}
	st.ExcludedProtocols = append(st.ExcludedProtocols, in.ExcludedProtocols...)
	if in.MinTVL != nil && *in.MinTVL >= 0 {
		st.MinTVL = *in.MinTVL
	}
}

// applyParams folds extracted values into the state. Text-derived values
// win over caller-provided ones only when the text actually produced them.
func (p *Pipeline) applyParams(st *state.State, params parser.Params) {
	if params.Amount != nil {
		st.Amount = params.Amount
	}
	if params.Token != "" {
		st.Token = params.Token
	}
	if st.Token == "" {
		st.Token = "USDC"
	}
	if len(params.PreferredChains) > 0 {
		st.PreferredChains = params.PreferredChains
	}
	if params.RiskMatched {
		st.RiskTolerance = params.RiskTolerance
	}
	if params.CurrentChain != "" {
		st.CurrentChain = params.CurrentChain
	}
}

func (p *Pipeline) discover(ctx context.Context, st *state.State) {
	found, err := p.source.Discover(ctx, st)
	if err != nil {
		p.logger.WithError(err).Warn("opportunity discovery failed")
		st.Warnings = state.MergeWarnings(st.Warnings, []string{warnDiscoveryUnavailable})
		st.ProcessingStep = "opportunities_failed"
		return
	}
	st.YieldOpportunities = state.MergeOpportunities(st.YieldOpportunities, found)
	st.ProcessingStep = "opportunities_discovered"
}

func (p *Pipeline) estimateGas(ctx context.Context, st *state.State) {
	estimates, err := p.gas.Estimate(ctx, st.TargetChains)
	if err != nil {
		p.logger.WithError(err).Warn("gas estimation failed")
		st.Warnings = state.MergeWarnings(st.Warnings, []string{warnGasUnavailable})
		st.ProcessingStep = "gas_failed"
		return
	}
	st.GasEstimates = estimates
	st.ProcessingStep = "gas_estimated"
}

func (p *Pipeline) planRoutes(ctx context.Context, st *state.State) {
	routes, err := p.routes.Plan(ctx, st)
	if err != nil {
		p.logger.WithError(err).Warn("bridge routing failed")
		st.Warnings = state.MergeWarnings(st.Warnings, []string{warnRoutingUnavailable})
		st.ProcessingStep = "routing_failed"
		return
	}
	st.BridgeRoutes = routes
	st.ProcessingStep = "routes_planned"
}

func (p *Pipeline) rank(ctx context.Context, st *state.State) {
	recs, err := p.ranker.Rank(ctx, st)
	if err != nil {
		p.logger.WithError(err).Warn("ranking failed")
		st.ProcessingStep = "ranking_failed"
		return
	}
	st.Recommendations = recs
	if len(recs) > 0 {
		st.Reasoning = recs[0].WhyRecommended
		st.ExecutionSteps = recs[0].ExecutionSteps
	}
	st.ProcessingStep = "recommendations_ranked"
}

// finish renders the terminal state and wraps it as the outbound chat
// message.
func (p *Pipeline) finish(st *state.State, started time.Time) {
	st.FormattedResponse = render.Response(st)
	st.AppendAssistantMessage(st.FormattedResponse)

	switch {
	case st.Failed():
		st.ProcessingStep = "formatting_complete_error"
	case len(st.Recommendations) == 0:
		st.ProcessingStep = "formatting_complete_no_results"
	default:
		st.ProcessingStep = "formatting_complete"
	}

	p.logger.WithFields(logrus.Fields{
		"request_id":      st.RequestID,
		"intent":          string(st.Intent),
		"recommendations": len(st.Recommendations),
		"took_ms":         time.Since(started).Milliseconds(),
		"step":            st.ProcessingStep,
	}).Info("request processed")
}
