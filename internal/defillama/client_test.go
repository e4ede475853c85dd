package defillama

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("")
	assert.Equal(t, "https://yields.llama.fi", c.BaseURL)

	c = NewClient("http://localhost:8000/")
	assert.Equal(t, "http://localhost:8000", c.BaseURL)
}

func TestPools(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pools", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("accept"))
		w.Write([]byte(`{"status":"success","data":[
			{"pool":"p1","chain":"Ethereum","project":"aave-v3","symbol":"USDC","tvlUsd":1000000,"apy":4.2,"stablecoin":true,"ilRisk":"no"}
		]}`))
	}))
	t.Cleanup(srv.Close)

	pools, err := NewClient(srv.URL).Pools(context.Background())
	require.NoError(t, err)
	require.Len(t, pools, 1)
	assert.Equal(t, "p1", pools[0].Pool)
	assert.Equal(t, "aave-v3", pools[0].Project)
	assert.True(t, pools[0].StableCoin)
}

func TestPoolsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL).Pools(context.Background())
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)
	assert.Contains(t, httpErr.Error(), "429")
}

func TestPoolsMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":`))
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL).Pools(context.Background())
	assert.Error(t, err)
}
