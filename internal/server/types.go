package server

import "github.com/rudazy/warden-yield-agent/internal/state"

// ErrorResponse is the standardized error response format.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Details any    `json:"details,omitempty"` // dev mode only
}

// HealthResponse reports service identity and status.
type HealthResponse struct {
	Status  string `json:"status"`
	Agent   string `json:"agent"`
	Version string `json:"version"`
}

// AgentRequest invokes the yield agent. Query may be empty when a
// conversation history carries the text instead.
type AgentRequest struct {
	Query             string          `json:"query"`
	Messages          []state.Message `json:"messages,omitempty"`
	Amount            *float64        `json:"amount,omitempty"`
	Token             string          `json:"token,omitempty"`
	CurrentChain      string          `json:"current_chain,omitempty"`
	RiskTolerance     string          `json:"risk_tolerance,omitempty"`
	PreferredChains   []string        `json:"preferred_chains,omitempty"`
	ExcludedProtocols []string        `json:"excluded_protocols,omitempty"`
	MinTVL            *float64        `json:"min_tvl,omitempty"`
}

// AgentResponse carries the rendered report or an error string.
type AgentResponse struct {
	Success   bool   `json:"success"`
	Response  string `json:"response"`
	Error     string `json:"error,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	TookMs    int64  `json:"took_ms"`
}

// ChainsResponse lists the supported chain registry.
type ChainsResponse struct {
	Items any `json:"items"`
}
