package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/md-rashed-zaman/salonbook/libs/httpx"
	otelx "github.com/md-rashed-zaman/salonbook/libs/otel"
	"github.com/md-rashed-zaman/salonbook/libs/runtime"
)

const maxResponseBytes = 1 << 20

// Session is the narrow view of the session manager the gateway needs: the current bearer
// token, and a way to drop the session when the backend rejects the token that was sent.
type Session interface {
	Token() string
	Expire(ctx context.Context, token string)
}

type Config struct {
	BaseURL   string
	Lang      string
	Timeout   time.Duration
	Retries   int
	UserAgent string
	// Transport defaults to http.DefaultTransport. It is always wrapped with request ids,
	// access logging and tracing.
	Transport http.RoundTripper
	// RetryInterval is the first backoff delay for retried GETs.
	RetryInterval time.Duration
}

type Client struct {
	baseURL       string
	lang          string
	retries       int
	retryInterval time.Duration
	http          *http.Client
	logger        *slog.Logger

	mu      sync.RWMutex
	session Session
}

func New(cfg Config, logger *slog.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", cfg.BaseURL)
	}
	if logger == nil {
		logger = runtime.DiscardLogger()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 200 * time.Millisecond
	}
	if cfg.Lang == "" {
		cfg.Lang = "en"
	}

	transport := httpx.Chain(otelx.Transport(cfg.Transport),
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithHeader("User-Agent", cfg.UserAgent),
	)
	return &Client{
		baseURL:       base,
		lang:          cfg.Lang,
		retries:       cfg.Retries,
		retryInterval: cfg.RetryInterval,
		http:          &http.Client{Timeout: cfg.Timeout, Transport: transport},
		logger:        logger,
	}, nil
}

// Attach binds the session whose token is sent and which is expired on any 401.
func (c *Client) Attach(s Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

func (c *Client) Lang() string {
	return c.lang
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) currentSession() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

type call struct {
	method string
	path   string
	query  url.Values
	body   any
	header http.Header
	// anonymous calls never carry a bearer token (login, register).
	anonymous bool
}

func (c *Client) do(ctx context.Context, req call, out any) error {
	var payload []byte
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", req.method, req.path, err)
		}
		payload = data
	}

	if req.method != http.MethodGet || c.retries == 0 {
		_, err := c.attempt(ctx, req, payload, out)
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInterval
	b.MaxInterval = 2 * time.Second
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		retryable, err := c.attempt(ctx, req, payload, out)
		if err != nil && !retryable {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(uint(c.retries+1)))
	return err
}

// attempt performs one round trip; retryable reports transport failures and gateway errors.
func (c *Client) attempt(ctx context.Context, req call, payload []byte, out any) (retryable bool, err error) {
	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return false, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, vals := range req.header {
		for _, v := range vals {
			httpReq.Header.Add(k, v)
		}
	}

	session := c.currentSession()
	var sentToken string
	if session != nil && !req.anonymous {
		sentToken = session.Token()
		if sentToken != "" {
			httpReq.Header.Set("Authorization", "Bearer "+sentToken)
		}
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return true, fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return true, fmt.Errorf("read %s %s: %w", req.method, req.path, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		var p errorPayload
		if json.Unmarshal(data, &p) == nil {
			apiErr.Message = p.Error
			apiErr.Detail = p.Message
		}
		if resp.StatusCode == http.StatusUnauthorized && sentToken != "" {
			c.logger.Warn("session rejected by backend", "path", req.path)
			session.Expire(ctx, sentToken)
		}
		switch resp.StatusCode {
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true, apiErr
		}
		return false, apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode %s %s: %w", req.method, req.path, err)
	}
	return false, nil
}

// Ping reports whether the backend answers at all; any HTTP status counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	err := c.do(ctx, call{method: http.MethodGet, path: "/services", query: url.Values{"active": {"true"}}, anonymous: true}, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
		return nil
	}
	return err
}
