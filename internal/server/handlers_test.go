package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rudazy/warden-yield-agent/internal/pipeline"
	"github.com/rudazy/warden-yield-agent/internal/state"
)

// fakeRunner records the input it was called with and returns a canned
// state.
type fakeRunner struct {
	st *state.State
	in pipeline.Input
}

func (f *fakeRunner) Run(ctx context.Context, in pipeline.Input) *state.State {
	f.in = in
	return f.st
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestHandlers(st *state.State) (*Handlers, *fakeRunner) {
	runner := &fakeRunner{st: st}
	return &Handlers{
		Pipeline: runner,
		Logger:   quietLogger(),
	}, runner
}

func doJSON(h *Handlers, handler echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/agent/invoke", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = handler(c)
	return rec
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandlers(nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Health(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, agentName, resp.Agent)
	assert.Equal(t, agentVersion, resp.Version)
}

func TestChains(t *testing.T) {
	h, _ := newTestHandlers(nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/chains", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Chains(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ethereum")
	assert.Contains(t, rec.Body.String(), "42161")
}

func TestInvokeSuccess(t *testing.T) {
	st := state.New()
	st.UserQuery = "5k usdc safe yield"
	st.FormattedResponse = "rendered report"
	h, runner := newTestHandlers(st)

	rec := doJSON(h, h.Invoke, `{"query": "5k usdc safe yield", "token": "USDC"}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp AgentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "rendered report", resp.Response)
	assert.Equal(t, st.RequestID, resp.RequestID)
	assert.Empty(t, resp.Error)

	assert.Equal(t, "5k usdc safe yield", runner.in.Query)
	assert.Equal(t, "USDC", runner.in.Token)
}

func TestInvokePipelineFailureStays200(t *testing.T) {
	st := state.New()
	st.SetError("No query provided", nil)
	st.FormattedResponse = "error panel"
	h, _ := newTestHandlers(st)

	rec := doJSON(h, h.Invoke, `{"messages": [{"role": "user", "content": "   "}]}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp AgentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "No query provided", resp.Error)
	assert.Equal(t, "error panel", resp.Response)
}

func TestInvokeRejectsEmptyRequest(t *testing.T) {
	h, _ := newTestHandlers(state.New())

	rec := doJSON(h, h.Invoke, `{"query": "   "}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "query is required", resp.Error)
	// dev mode off, no details leak
	assert.Nil(t, resp.Details)
}

func TestInvokeRejectsMalformedJSON(t *testing.T) {
	h, _ := newTestHandlers(state.New())

	rec := doJSON(h, h.Invoke, `{"query": `)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid json")
}

func TestInvokeMessagesOnlyRequest(t *testing.T) {
	st := state.New()
	st.FormattedResponse = "report"
	h, runner := newTestHandlers(st)

	rec := doJSON(h, h.Invoke, `{"messages": [{"role": "user", "content": "yield on base"}]}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, runner.in.Messages, 1)
	msg, ok := runner.in.Messages[0].(state.Message)
	require.True(t, ok)
	assert.Equal(t, "yield on base", msg.Content)
}

func TestRoutesRequireAPIKeyWhenConfigured(t *testing.T) {
	st := state.New()
	st.FormattedResponse = "report"
	h, _ := newTestHandlers(st)

	e := echo.New()
	RegisterRoutes(e, h, ServerConfig{APIKey: "sekret"})

	// missing key
	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// wrong key
	req = httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	req.Header.Set("X-API-Key", "nope")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// right key
	req = httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	req.Header.Set("X-API-Key", "sekret")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoutesChatAlias(t *testing.T) {
	st := state.New()
	st.FormattedResponse = "report"
	h, _ := newTestHandlers(st)

	e := echo.New()
	RegisterRoutes(e, h, ServerConfig{})

	req := httptest.NewRequest(http.MethodPost, "/v1/agent/chat", strings.NewReader(`{"query": "yield"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "report")
}

func TestRoutesUnknownPathIsJSON404(t *testing.T) {
	h, _ := newTestHandlers(state.New())

	e := echo.New()
	RegisterRoutes(e, h, ServerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not found")
}
