package backend

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

	"hrmconsole/internal/platform/requestctx"
)

// ErrUnavailable wraps transport failures (connection refused, reset, context done).
var ErrUnavailable = errors.New("backend unavailable")

// Error is a non-2xx answer from the HR backend.
type Error struct {
	Resource string
	Method   string
	Status   int
	Message  string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Resource, e.Status)
	}
	return fmt.Sprintf("%s %s: status %d - %s", e.Method, e.Resource, e.Status, e.Message)
}

// StatusOf returns the backend status carried by err, or 0.
func StatusOf(err error) int {
	var berr *Error
	if errors.As(err, &berr) {
		return berr.Status
	}
	return 0
}

type Observer interface {
	ObserveBackend(resource, method string, status int, duration time.Duration)
}

type Client struct {
	baseURL  string
	http     *http.Client
	observer Observer
}

// New builds a client for baseURL (e.g. http://localhost:9898/api). A zero timeout
// leaves calls unbounded; the caller's context still applies.
func New(baseURL string, timeout time.Duration, observer Observer) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		observer: observer,
	}
}

type Request struct {
	Resource string
	Method   string
	Path     string
	Query    url.Values
	Body     any
	// Token overrides the bearer token taken from the request context.
	Token string
}

func (c *Client) Get(ctx context.Context, resource, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Resource: resource, Method: http.MethodGet, Path: path, Query: query}, out)
}

func (c *Client) Send(ctx context.Context, resource, method, path string, body, out any) error {
	return c.Do(ctx, Request{Resource: resource, Method: method, Path: path, Body: body}, out)
}

func (c *Client) Do(ctx context.Context, req Request, out any) error {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", req.Resource, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	token := req.Token
	if token == "" {
		token = requestctx.BackendToken(ctx)
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	if reqID := requestctx.GetRequestID(ctx); reqID != "" {
		httpReq.Header.Set("X-Request-ID", reqID)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.observe(req, 0, start)
		slog.Warn("backend call failed", "resource", req.Resource, "method", req.Method, "path", req.Path, "err", err)
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, req.Method, req.Resource, err)
	}
	defer resp.Body.Close()
	c.observe(req, resp.StatusCode, start)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s response: %v", ErrUnavailable, req.Resource, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			Resource: req.Resource,
			Method:   req.Method,
			Status:   resp.StatusCode,
			Message:  errorMessage(raw, resp.Status),
		}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.Resource, err)
	}
	return nil
}

func (c *Client) observe(req Request, status int, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveBackend(req.Resource, req.Method, status, time.Since(start))
	}
}

// errorMessage extracts the backend's message. The backend uses either "message"
// or "mensaje" depending on the controller.
func errorMessage(raw []byte, fallback string) string {
	var payload struct {
		Message string `json:"message"`
		Mensaje string `json:"mensaje"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Mensaje != "" {
			return payload.Mensaje
		}
	}
	return fallback
}
