// Package httpclient holds the pooled HTTP client used by completion
// backends that talk to a REST endpoint directly.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/oukeidos/maintrans/internal/version"
)

const (
	// DefaultTimeout is an outer bound only. Completion calls carry their own
	// deadline through the request context.
	DefaultTimeout = 5 * time.Minute
	// DefaultMaxBody caps response bodies read into memory.
	DefaultMaxBody = 8 << 20

	maxIdleConnsPerHost = 32
	idleConnTimeout     = 120 * time.Second
	tlsHandshakeTimeout = 30 * time.Second
)

// Options tunes a Client. Zero values select the defaults.
type Options struct {
	Timeout time.Duration
	MaxBody int64
	// Proxy overrides HTTP_PROXY/HTTPS_PROXY from the environment.
	Proxy     string
	UserAgent string
}

// Client sends requests and reads whole, size-capped responses.
type Client struct {
	http    *http.Client
	maxBody int64
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

// New builds a Client. Concurrent workers share its connection pool.
func New(opts Options) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxBody <= 0 {
		opts.MaxBody = DefaultMaxBody
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "maintrans/" + version.Version
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = maxIdleConnsPerHost
	transport.IdleConnTimeout = idleConnTimeout
	transport.TLSHandshakeTimeout = tlsHandshakeTimeout
	if opts.Proxy != "" {
		u, err := url.Parse(opts.Proxy)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("invalid proxy url %q", opts.Proxy)
		}
		transport.Proxy = http.ProxyURL(u)
	} else {
		transport.Proxy = http.ProxyFromEnvironment
	}

	return &Client{
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: &agentTransport{base: transport, agent: opts.UserAgent},
		},
		maxBody: opts.MaxBody,
	}, nil
}

var shared = sync.OnceValue(func() *Client {
	c, _ := New(Options{})
	return c
})

// Shared returns the process-wide default Client.
func Shared() *Client { return shared() }

// Do sends req and reads the whole body. Bodies larger than the
// configured cap are rejected.
func (c *Client) Do(req *http.Request) (*Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	out := &Response{StatusCode: resp.StatusCode, Status: resp.Status, Header: resp.Header}
	if resp.ContentLength > c.maxBody {
		return out, fmt.Errorf("response body too large (limit %d bytes)", c.maxBody)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return out, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > c.maxBody {
		return out, fmt.Errorf("response body too large (limit %d bytes)", c.maxBody)
	}
	out.Body = body
	return out, nil
}

// PostJSON encodes payload and posts it to endpoint with the given headers.
func (c *Client) PostJSON(ctx context.Context, endpoint string, header http.Header, payload any) (*Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.Do(req)
}

type agentTransport struct {
	base  http.RoundTripper
	agent string
}

func (t *agentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.agent)
	return t.base.RoundTrip(r)
}
