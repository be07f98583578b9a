package hrapi

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
	"time"
)

const (
	OpLogin      = "auth.login"
	OpHRMHandoff = "auth.go_to_hrm"

	maxResponseBytes = 4 << 20
)

// Caller is the slice of Client the resource accessors depend on.
type Caller interface {
	Do(ctx context.Context, req Request, out any) (*Response, error)
}

// Observer receives one observation per HR API call.
type Observer interface {
	ObserveUpstream(operation, outcome string, duration time.Duration)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	schemas    *Schemas
	observer   Observer
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("hr api base url is required")
	}
	schemas, err := LoadSchemas()
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		schemas:    schemas,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Request describes one HR API call. Schema names the component the success
// body must match; leave it empty for calls whose body is ignored.
type Request struct {
	Op      string
	Method  string
	Path    string
	Query   url.Values
	Token   string
	Public  bool
	Cookies []*http.Cookie
	Body    any
	Schema  string
}

type Response struct {
	StatusCode int
	Cookies    []*http.Cookie
}

// Do sends req and decodes a schema-checked success body into out. A call
// that needs a token and has none fails with ErrAuth before any I/O.
func (c *Client) Do(ctx context.Context, req Request, out any) (*Response, error) {
	start := time.Now()
	resp, err := c.do(ctx, req, out)
	if c.observer != nil {
		c.observer.ObserveUpstream(req.Op, outcome(err), time.Since(start))
	}
	if err != nil && (errors.Is(err, ErrNetwork) || errors.Is(err, ErrServer)) {
		slog.Warn("hr api call failed", "op", req.Op, "method", req.Method, "path", req.Path, "err", err)
	}
	return resp, err
}

func (c *Client) do(ctx context.Context, req Request, out any) (*Response, error) {
	if !req.Public && strings.TrimSpace(req.Token) == "" {
		return nil, &Error{Kind: ErrAuth, Op: req.Op, Message: "not signed in"}
	}

	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", req.Op, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", req.Op, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}
	for _, cookie := range req.Cookies {
		httpReq.AddCookie(cookie)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &Error{Kind: ErrNetwork, Op: req.Op, Err: err}
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, &Error{Kind: ErrNetwork, Op: req.Op, Status: httpResp.StatusCode, Err: err}
	}

	resp := &Response{StatusCode: httpResp.StatusCode, Cookies: httpResp.Cookies()}
	if httpResp.StatusCode >= 400 {
		return resp, decodeError(req.Op, httpResp.StatusCode, raw)
	}

	if req.Schema == "" || out == nil {
		return resp, nil
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return resp, &Error{Kind: ErrServer, Op: req.Op, Status: httpResp.StatusCode, Message: "empty response body"}
	}
	if err := c.schemas.Validate(req.Schema, raw); err != nil {
		return resp, &Error{Kind: ErrServer, Op: req.Op, Status: httpResp.StatusCode, Message: "unexpected response shape", Err: err}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return resp, &Error{Kind: ErrServer, Op: req.Op, Status: httpResp.StatusCode, Message: "unexpected response shape", Err: err}
	}
	return resp, nil
}

// decodeError accepts {error: "..."}, {message: "..."} and the enveloped
// {error: {code, message}} bodies.
func decodeError(op string, status int, raw []byte) error {
	var code, message string
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err == nil {
		switch v := payload["error"].(type) {
		case string:
			message = v
		case map[string]any:
			code, _ = v["code"].(string)
			message, _ = v["message"].(string)
		}
		if message == "" {
			message, _ = payload["message"].(string)
		}
		if code == "" {
			code, _ = payload["code"].(string)
		}
	} else {
		var text string
		if json.Unmarshal(raw, &text) == nil {
			message = text
		}
	}
	message = strings.TrimSpace(message)
	return &Error{
		Kind:    kindForStatus(op, status, code, message),
		Op:      op,
		Status:  status,
		Code:    code,
		Message: message,
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrAuth):
		return "auth"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrNetwork):
		return "network"
	default:
		return "server"
	}
}
