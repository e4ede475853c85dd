package defillama

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the DefiLlama Yields API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient builds a client; an empty baseURL selects the public API.
func NewClient(baseURL string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://yields.llama.fi"
	}
	return &Client{
		BaseURL: baseURL,
		HTTP: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// HTTPError is a non-2xx response from the yields API.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	b := strings.TrimSpace(string(e.Body))
	if b == "" {
		return fmt.Sprintf("defillama http %d", e.StatusCode)
	}
	return fmt.Sprintf("defillama http %d: %s", e.StatusCode, b)
}

// Pools fetches the full yields feed. The feed is large; callers are
// expected to filter and cache.
func (c *Client) Pools(ctx context.Context) ([]Pool, error) {
	u := c.BaseURL + "/pools"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: res.StatusCode, Body: body}
	}

	var out poolsResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode defillama pools response: %w", err)
	}
	return out.Data, nil
}
