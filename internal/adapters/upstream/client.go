// Package upstream implements the client for the remote resume generation service.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.trai.ch/catalyst/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/time/rate"
)

const (
	generatePath = "/generate"
	// maxErrorBodyBytes caps how much of a failed response is kept for diagnostics.
	maxErrorBodyBytes = 512
)

// Client implements ports.Generator over HTTP.
type Client struct {
	baseURL          string
	httpClient       *http.Client
	limiter          *rate.Limiter
	maxResponseBytes int64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a Client for the service at cfg.URL.
func NewClient(cfg domain.UpstreamConfig, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		maxResponseBytes: cfg.MaxResponseBytes,
	}
	if c.maxResponseBytes <= 0 {
		c.maxResponseBytes = domain.DefaultConfig().Upstream.MaxResponseBytes
	}
	if cfg.RateLimit > 0 {
		burst := max(cfg.Burst, 1)
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate posts the request to {baseURL}/generate and returns the response body.
func (c *Client) Generate(ctx context.Context, req domain.GenerateRequest) ([]byte, error) {
	url := c.baseURL + generatePath

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, zerr.With(failure("wait for rate limiter", err), "url", url)
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, failure("encode request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, zerr.With(failure("build request", err), "url", url)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/zip, application/octet-stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, zerr.With(failure("send request", err), "url", url)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		statusErr := zerr.With(zerr.Wrap(domain.ErrUpstreamFailed, "unexpected status"), "status_code", resp.StatusCode)
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		if s := strings.TrimSpace(string(snippet)); s != "" {
			statusErr = zerr.With(statusErr, "body", s)
		}
		return nil, statusErr
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseBytes+1))
	if err != nil {
		return nil, zerr.With(failure("read response", err), "url", url)
	}
	if int64(len(payload)) > c.maxResponseBytes {
		return nil, zerr.With(zerr.Wrap(domain.ErrUpstreamFailed, "response too large"), "limit_bytes", c.maxResponseBytes)
	}
	if len(payload) == 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrUpstreamEmpty, "read response"), "url", url)
	}

	return payload, nil
}

func failure(msg string, err error) error {
	return zerr.With(zerr.Wrap(domain.ErrUpstreamFailed, msg), "reason", err.Error())
}
