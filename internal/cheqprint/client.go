// Package cheqprint implements a minimal client for the CheqPrint cheque-printing API.
// Every call is a single attempt that never returns a Go error: transport, decoding and
// HTTP-status failures are all folded into a Result so the caller can report them and
// move on.
package cheqprint

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cheqprint/cheqprint-test-api/internal/telemetry"
)

const (
	// RequestIDHeader carries a per-request UUID so calls can be matched with server logs.
	RequestIDHeader = "X-Request-ID"

	defaultUserAgent = "cheqprint-test-api"

	// maxSnippet bounds how much of a non-JSON body ends up in a diagnostic message.
	maxSnippet = 200
)

// Client talks to one CheqPrint deployment with one API key.
type Client struct {
	BaseURL    string
	APIKey     string
	UserAgent  string
	HTTPClient *http.Client
}

// NewClient creates a client. A zero timeout keeps the transport default.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		UserAgent:  defaultUserAgent,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Result is the normalized outcome of one request.
type Result struct {
	// Status is the HTTP status code, or 0 when no response was received.
	Status int
	// Body is the raw JSON response body; nil when the body was empty or not JSON.
	Body json.RawMessage
	// Message is a diagnostic for failures that did not yield a JSON body.
	Message string
	// Err is nil on success and otherwise wraps ErrNetwork, ErrProtocol or ErrApplication.
	Err error
	// Success is true when a JSON (or empty) body came back with a status below 400.
	Success bool
	// RequestID is the X-Request-ID sent with the request.
	RequestID string
}

// Payload renders what the server said, for error reporting: the compact JSON body when
// there is one, otherwise {"error":"<message>"}.
func (r *Result) Payload() string {
	if len(r.Body) > 0 {
		var buf bytes.Buffer
		if err := json.Compact(&buf, r.Body); err == nil {
			return buf.String()
		}
		return string(r.Body)
	}
	if r.Message == "" {
		return "{}"
	}
	b, _ := json.Marshal(map[string]string{"error": r.Message})
	return string(b)
}

// Decode unwraps the {"data": ...} envelope into v. An empty body or a missing/null data
// field leaves v untouched and is not an error.
func (r *Result) Decode(v any) error {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	var env Envelope[json.RawMessage]
	if err := json.Unmarshal(r.Body, &env); err != nil {
		return fmt.Errorf("failed to decode response envelope: %w", err)
	}
	if len(env.Data) == 0 || bytes.Equal(bytes.TrimSpace(env.Data), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

// Get issues an authenticated or anonymous GET.
func (c *Client) Get(ctx context.Context, endpoint string, auth bool) *Result {
	return c.Do(ctx, http.MethodGet, endpoint, nil, auth)
}

// Post issues an authenticated POST with a JSON body.
func (c *Client) Post(ctx context.Context, endpoint string, body any) *Result {
	return c.Do(ctx, http.MethodPost, endpoint, body, true)
}

// Do performs one request against <BaseURL>/<endpoint>. body, when non-nil, is sent as
// JSON. The bearer key is attached only when auth is true and a key is configured.
func (c *Client) Do(ctx context.Context, method, endpoint string, body any, auth bool) *Result {
	start := time.Now()
	res := c.do(ctx, method, endpoint, body, auth)
	elapsed := time.Since(start)

	telemetry.ObserveRequest(method, endpoint, outcome(res.Err), elapsed)
	slog.Debug("cheqprint request",
		"method", method,
		"endpoint", endpoint,
		"status", res.Status,
		"success", res.Success,
		"request_id", res.RequestID,
		"duration", elapsed,
	)
	if res.Err != nil {
		slog.Info("cheqprint request failed", "method", method, "endpoint", endpoint, "error", res.Err)
	}
	return res
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, auth bool) *Result {
	res := &Result{RequestID: uuid.New().String()}
	target := c.BaseURL + "/" + strings.TrimLeft(endpoint, "/")

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return res.fail(0, fmt.Sprintf("failed to encode request body: %v", err), ErrProtocol, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return res.fail(0, err.Error(), ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, res.RequestID)
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if auth && c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return res.fail(0, err.Error(), ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return res.fail(resp.StatusCode, fmt.Sprintf("failed to read response body: %v", err), ErrNetwork, err)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && !json.Valid(trimmed) {
		msg := fmt.Sprintf("invalid JSON response (status %d): %s", resp.StatusCode, snippet(trimmed))
		return res.fail(resp.StatusCode, msg, ErrProtocol, nil)
	}
	if len(trimmed) > 0 {
		res.Body = json.RawMessage(trimmed)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		msg := http.StatusText(resp.StatusCode)
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return res.fail(resp.StatusCode, msg, ErrApplication, nil)
	}

	res.Status = resp.StatusCode
	res.Success = true
	return res
}

// fail fills in a failed result. cause, when non-nil, stays reachable through errors.Is/As.
func (r *Result) fail(status int, message string, class, cause error) *Result {
	r.Status = status
	r.Message = message
	r.Success = false
	var wrapped error
	if cause != nil {
		wrapped = fmt.Errorf("%w: %w", class, cause)
	} else {
		wrapped = fmt.Errorf("%w: %s", class, message)
	}
	r.Err = NewAPIError(status, "cheqprint request failed", wrapped)
	return r
}

func outcome(err error) string {
	switch {
	case err == nil:
		return telemetry.OutcomeSuccess
	case errors.Is(err, ErrApplication):
		return telemetry.OutcomeApplication
	case errors.Is(err, ErrProtocol):
		return telemetry.OutcomeProtocol
	default:
		return telemetry.OutcomeNetwork
	}
}

func snippet(b []byte) string {
	s := string(b)
	if len(s) > maxSnippet {
		s = s[:maxSnippet] + "..."
	}
	return s
}
