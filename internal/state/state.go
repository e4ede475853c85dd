package state

import (
	"time"

	"github.com/google/uuid"

	"github.com/rudazy/warden-yield-agent/internal/chains"
)

// RiskTolerance is the user's risk appetite for yield strategies.
type RiskTolerance string

const (
	RiskConservative RiskTolerance = "conservative"
	RiskModerate     RiskTolerance = "moderate"
	RiskAggressive   RiskTolerance = "aggressive"
)

// ILRisk is the impermanent loss risk level for liquidity pools.
type ILRisk string

const (
	ILNone   ILRisk = "none"
	ILLow    ILRisk = "low"
	ILMedium ILRisk = "medium"
	ILHigh   ILRisk = "high"
)

// Intent is the classified purpose of a user request. It drives which
// downstream pipeline branch executes.
type Intent string

const (
	IntentYieldSearch      Intent = "yield_search"
	IntentCompareProtocols Intent = "compare"
	IntentRouteOnly        Intent = "route_only"
	IntentRiskAnalysis     Intent = "risk_analysis"
	IntentGeneralQuestion  Intent = "general"
)

// DefaultMinTVL is the TVL floor applied when the caller does not set one.
const DefaultMinTVL = 100_000

// Message is one entry of the surrounding chat interface's history.
// Content may be a plain string, a list of parts, or a mapping — the
// normalizer converges all shapes to text before anything else runs.
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// YieldOpportunity is one candidate pool. PoolID is the dedup key: two
// opportunities with the same PoolID are the same entity.
type YieldOpportunity struct {
	PoolID           string   `json:"pool_id"`
	Protocol         string   `json:"protocol"`
	ProtocolSlug     string   `json:"protocol_slug"`
	Chain            string   `json:"chain"`
	PoolName         string   `json:"pool_name"`
	Symbol           string   `json:"symbol"`
	UnderlyingTokens []string `json:"underlying_tokens"`
	RewardTokens     []string `json:"reward_tokens"`
	APY              float64  `json:"apy"`
	APYBase          float64  `json:"apy_base"`
	APYReward        float64  `json:"apy_reward"`
	APY7dAvg         *float64 `json:"apy_7d_avg,omitempty"`
	APY30dAvg        *float64 `json:"apy_30d_avg,omitempty"`
	TVLUsd           float64  `json:"tvl_usd"`
	RiskScore        float64  `json:"risk_score"` // 1 (safest) .. 10 (riskiest)
	ILRisk           ILRisk   `json:"il_risk"`
	Audited          bool     `json:"audited"`
	AuditLinks       []string `json:"audit_links,omitempty"`
	ProtocolAgeDays  int      `json:"protocol_age_days"`
	PoolURL          string   `json:"pool_url,omitempty"`
	LastUpdated      string   `json:"last_updated,omitempty"`
}

// BridgeRoute is one quoted cross-chain transfer.
type BridgeRoute struct {
	FromChain            string         `json:"from_chain"`
	FromChainID          int64          `json:"from_chain_id"`
	ToChain              string         `json:"to_chain"`
	ToChainID            int64          `json:"to_chain_id"`
	Token                string         `json:"token"`
	TokenAddress         string         `json:"token_address"`
	Amount               float64        `json:"amount"`
	BridgeName           string         `json:"bridge_name"`
	EstimatedTimeSeconds int            `json:"estimated_time_seconds"`
	GasCostUsd           float64        `json:"gas_cost_usd"`
	BridgeFeeUsd         float64        `json:"bridge_fee_usd"`
	TotalCostUsd         float64        `json:"total_cost_usd"`
	EstimatedOutput      float64        `json:"estimated_output"`
	SlippagePercent      float64        `json:"slippage_percent"`
	TxData               map[string]any `json:"tx_data,omitempty"`
}

// DefaultSlippagePercent applies when a route quote does not set one.
const DefaultSlippagePercent = 0.5

// GasEstimate is a per-chain fee snapshot.
type GasEstimate struct {
	Chain            string   `json:"chain"`
	ChainID          int64    `json:"chain_id"`
	GasPriceSlow     float64  `json:"gas_price_slow"`
	GasPriceStandard float64  `json:"gas_price_standard"`
	GasPriceFast     float64  `json:"gas_price_fast"`
	SwapCostUsd      float64  `json:"swap_cost_usd"`
	DepositCostUsd   float64  `json:"deposit_cost_usd"`
	BaseFee          *float64 `json:"base_fee,omitempty"`
	PriorityFee      *float64 `json:"priority_fee,omitempty"`
	LastUpdated      string   `json:"last_updated"`
}

// Recommendation is one ranked output. It references its opportunity; the
// State's opportunity collection stays the source of truth.
type Recommendation struct {
	Rank              int              `json:"rank"`
	Opportunity       YieldOpportunity `json:"opportunity"`
	InputAmount       float64          `json:"input_amount"`
	InputToken        string           `json:"input_token"`
	Earnings30d       float64          `json:"earnings_30d"`
	Earnings1y        float64          `json:"earnings_1y"`
	RequiresBridge    bool             `json:"requires_bridge"`
	BridgeRoute       *BridgeRoute     `json:"bridge_route,omitempty"`
	NetAPY            float64          `json:"net_apy"`
	TotalEntryCostUsd float64          `json:"total_entry_cost_usd"`
	WhyRecommended    string           `json:"why_recommended"`
	Warnings          []string         `json:"warnings,omitempty"`
	ExecutionSteps    []string         `json:"execution_steps,omitempty"`
}

// AgentError carries a fatal pipeline error plus optional diagnostics.
type AgentError struct {
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// State is the single mutable aggregate flowing through the pipeline.
// Lifetime is one user request: created at entry, discarded after the
// response is rendered.
type State struct {
	RequestID string `json:"request_id"`

	// Input fields.
	Messages          []Message     `json:"messages,omitempty"`
	UserQuery         string        `json:"user_query"`
	Amount            *float64      `json:"amount,omitempty"`
	Token             string        `json:"token,omitempty"`
	CurrentChain      string        `json:"current_chain,omitempty"`
	RiskTolerance     RiskTolerance `json:"risk_tolerance"`
	PreferredChains   []string      `json:"preferred_chains,omitempty"`
	ExcludedProtocols []string      `json:"excluded_protocols,omitempty"`
	MinTVL            float64       `json:"min_tvl"`

	// Derived fields.
	Intent         Intent   `json:"intent,omitempty"`
	TargetChains   []string `json:"target_chains,omitempty"`
	ProcessingStep string   `json:"processing_step"` // diagnostics only, never branched on

	// Accumulating collections populated by downstream stages.
	YieldOpportunities []YieldOpportunity `json:"yield_opportunities,omitempty"`
	BridgeRoutes       []BridgeRoute      `json:"bridge_routes,omitempty"`
	GasEstimates       []GasEstimate      `json:"gas_estimates,omitempty"`

	// Output fields.
	Recommendations   []Recommendation `json:"recommendations,omitempty"`
	Reasoning         string           `json:"reasoning,omitempty"`
	ExecutionSteps    []string         `json:"execution_steps,omitempty"`
	Warnings          []string         `json:"warnings,omitempty"`
	FormattedResponse string           `json:"formatted_response,omitempty"`

	Error *AgentError `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// New returns a fresh request state with defaults applied.
func New() *State {
	return &State{
		RequestID:      uuid.NewString(),
		RiskTolerance:  RiskModerate,
		MinTVL:         DefaultMinTVL,
		ProcessingStep: "initialized",
		CreatedAt:      time.Now().UTC(),
	}
}

// SetError marks the request as failed. Error always wins over
// recommendations at render time.
func (s *State) SetError(msg string, details map[string]any) {
	s.Error = &AgentError{Message: msg, Details: details}
}

// Failed reports whether a fatal error has been recorded.
func (s *State) Failed() bool {
	return s.Error != nil
}

// ResolveTargetChains derives the chains downstream stages should scan:
// the preferred chains when given, otherwise every supported chain.
func (s *State) ResolveTargetChains() {
	if len(s.PreferredChains) > 0 {
		s.TargetChains = append([]string(nil), s.PreferredChains...)
		return
	}
	s.TargetChains = chains.Keys()
}

// AppendAssistantMessage wraps rendered text as the outbound chat message.
func (s *State) AppendAssistantMessage(text string) {
	s.Messages = append(s.Messages, Message{Role: "assistant", Content: text})
}
