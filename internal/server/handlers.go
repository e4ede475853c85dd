package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/rudazy/warden-yield-agent/internal/analytics"
	"github.com/rudazy/warden-yield-agent/internal/chains"
	"github.com/rudazy/warden-yield-agent/internal/pipeline"
	"github.com/rudazy/warden-yield-agent/internal/state"
)

const (
	agentName    = "Cross-Chain Yield Intelligence Agent"
	agentVersion = "1.0.0"
)

// Runner is what the handlers need from the pipeline.
type Runner interface {
	Run(ctx context.Context, in pipeline.Input) *state.State
}

// Handlers contains all dependencies for API endpoint handlers.
type Handlers struct {
	Pipeline       Runner
	Analytics      *analytics.Sink // optional request log
	RequestTimeout time.Duration
	DevMode        bool
	Logger         *logrus.Logger
}

// err returns a standardized JSON error response. In dev mode it includes
// additional details for debugging.
func (h *Handlers) err(c echo.Context, code int, msg string, details any) error {
	resp := ErrorResponse{Error: msg, Code: code}
	if h.DevMode && details != nil {
		resp.Details = details
	}
	return c.JSON(code, resp)
}

// withTimeout creates a context with timeout, defaulting to 45 seconds.
func (h *Handlers) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	d := h.RequestTimeout
	if d <= 0 {
		d = 45 * time.Second
	}
	return context.WithTimeout(ctx, d)
}

// Health reports service status.
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Agent:   agentName,
		Version: agentVersion,
	})
}

// Chains returns the supported chain registry.
func (h *Handlers) Chains(c echo.Context) error {
	return c.JSON(http.StatusOK, ChainsResponse{Items: chains.Supported})
}

// Invoke runs one natural-language request through the pipeline and
// returns the rendered report. A pipeline-level failure still renders (as
// the error panel), so the HTTP status stays 200 with success=false.
func (h *Handlers) Invoke(c echo.Context) error {
	var req AgentRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" && len(req.Messages) == 0 {
		return h.err(c, http.StatusBadRequest, "query is required", map[string]any{"query": "required"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context())
	defer cancel()

	history := make([]any, len(req.Messages))
	for i, m := range req.Messages {
		history[i] = m
	}

	start := time.Now()
	st := h.Pipeline.Run(ctx, pipeline.Input{
		Query:             req.Query,
		Messages:          history,
		Amount:            req.Amount,
		Token:             req.Token,
		CurrentChain:      req.CurrentChain,
		RiskTolerance:     req.RiskTolerance,
		PreferredChains:   req.PreferredChains,
		ExcludedProtocols: req.ExcludedProtocols,
		MinTVL:            req.MinTVL,
	})
	took := time.Since(start)

	h.record(st, took)

	resp := AgentResponse{
		Success:   !st.Failed(),
		Response:  st.FormattedResponse,
		RequestID: st.RequestID,
		TookMs:    took.Milliseconds(),
	}
	if st.Failed() {
		resp.Error = st.Error.Message
	}
	return c.JSON(http.StatusOK, resp)
}

// record writes the request to the analytics sink, best-effort and off the
// request path.
func (h *Handlers) record(st *state.State, took time.Duration) {
	if h.Analytics == nil {
		return
	}

	var amount float64
	if st.Amount != nil {
		amount = *st.Amount
	}
	rec := analytics.RequestRecord{
		RequestID:  st.RequestID,
		Timestamp:  st.CreatedAt,
		Query:      st.UserQuery,
		Intent:     string(st.Intent),
		Amount:     amount,
		Token:      st.Token,
		Chains:     st.TargetChains,
		DurationMs: took.Milliseconds(),
		Success:    !st.Failed(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.Analytics.RecordRequest(ctx, rec); err != nil {
			h.Logger.WithError(err).Warn("failed to record request analytics")
		}
	}()
}
