package peer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goodnatureofminers/sentinelmesh/internal/api"
	"github.com/goodnatureofminers/sentinelmesh/internal/ledger"
	"github.com/goodnatureofminers/sentinelmesh/pkg/safe"
)

const (
	DefaultTimeout = 3 * time.Second

	maxResponseBytes = 64 << 20
)

// StatusError reports a non-success HTTP status from a peer.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("peer %s responded %d: %s", e.Endpoint, e.Code, e.Body)
}

// Client calls other nodes' HTTP API. Every call is bounded by the client
// timeout in addition to the caller's context.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	metrics    Metrics
}

func NewClient(timeout time.Duration, metrics Metrics) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{},
		timeout:    timeout,
		metrics:    metrics,
	}
}

// FetchChain downloads a peer's chain and the length it reports.
func (c *Client) FetchChain(ctx context.Context, endpoint string) (chain []ledger.Block, length int, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("fetch_chain", err, started)
	}()

	var resp api.ChainResponse
	if _, err = c.do(ctx, http.MethodGet, endpoint, api.PathChain, nil, &resp); err != nil {
		return nil, 0, err
	}
	if _, err = safe.Uint64(resp.Length); err != nil {
		return nil, 0, fmt.Errorf("peer %s reported length: %w", endpoint, err)
	}
	return resp.Chain, resp.Length, nil
}

// Get decodes the JSON body of GET endpoint+path into out. Non-2xx statuses
// are returned as *StatusError.
func (c *Client) Get(ctx context.Context, endpoint, path string, out any) (code int, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("get", err, started)
	}()
	return c.do(ctx, http.MethodGet, endpoint, path, nil, out)
}

// Post sends in as JSON and decodes the response into out.
func (c *Client) Post(ctx context.Context, endpoint, path string, in, out any) (code int, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("post", err, started)
	}()
	return c.do(ctx, http.MethodPost, endpoint, path, in, out)
}

func (c *Client) do(ctx context.Context, method, endpoint, path string, in, out any) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	url := strings.TrimRight(endpoint, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, fmt.Errorf("build request %s %s: %w", method, url, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	limited := io.LimitReader(resp.Body, maxResponseBytes)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(limited, 512))
		return resp.StatusCode, &StatusError{Endpoint: endpoint, Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	if out == nil {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(limited).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode %s %s: %w", method, url, err)
	}
	return resp.StatusCode, nil
}
