package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"hrmconsole/internal/transport/http/api"
	"hrmconsole/internal/transport/http/shared"
)

// maxSniffBytes caps how much of a JSON body is read to find the identity field.
const maxSniffBytes = 64 << 10

type RateLimitKeyFunc func(r *http.Request) string

type RateLimitOption func(*rateLimiter)

func WithKeyFunc(fn RateLimitKeyFunc) RateLimitOption {
	return func(rl *rateLimiter) {
		if fn != nil {
			rl.keyFn = fn
		}
	}
}

func withClock(now func() time.Time) RateLimitOption {
	return func(rl *rateLimiter) { rl.now = now }
}

// window counts requests for one key until reset.
type window struct {
	hits  int
	reset time.Time
}

// rateLimiter is a fixed-window counter per key. Expired windows are pruned at most
// once per period so idle keys do not accumulate.
type rateLimiter struct {
	limit  int
	period time.Duration
	keyFn  RateLimitKeyFunc
	now    func() time.Time

	mu        sync.Mutex
	windows   map[string]*window
	nextPrune time.Time
}

func newRateLimiter(limit int, period time.Duration, keyFn RateLimitKeyFunc, opts ...RateLimitOption) *rateLimiter {
	rl := &rateLimiter{
		limit:   limit,
		period:  period,
		keyFn:   keyFn,
		now:     time.Now,
		windows: map[string]*window{},
	}
	for _, opt := range opts {
		opt(rl)
	}
	if rl.keyFn == nil {
		rl.keyFn = actorOrIPKey
	}
	return rl
}

// RateLimit throttles every request, keyed by the signed-in user or the client ip.
func RateLimit(limit int, period time.Duration, opts ...RateLimitOption) func(http.Handler) http.Handler {
	rl := newRateLimiter(limit, period, actorOrIPKey, opts...)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rl.allow(w, r) {
				next.ServeHTTP(w, r)
			}
		})
	}
}

// SensitiveMutationRateLimit throttles sign-in and registration per client ip and per
// submitted identity, and destructive console actions per signed-in user. Other
// routes pass untouched.
func SensitiveMutationRateLimit(baseLimit int, period time.Duration, opts ...RateLimitOption) func(http.Handler) http.Handler {
	authLimit := max(baseLimit/4, 1)
	authByIP := newRateLimiter(authLimit, period, clientIPKey, opts...)
	authByIdentity := newRateLimiter(authLimit, period, authIdentityKey, opts...)
	byActor := newRateLimiter(max(baseLimit/2, 1), period, actorOrIPKey, opts...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch sensitiveRateScope(r) {
			case sensitiveScopeAuth:
				if !authByIP.allow(w, r) || !authByIdentity.allow(w, r) {
					return
				}
			case sensitiveScopeActor:
				if !byActor.allow(w, r) {
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// allow counts the request and answers 429 itself once the key is over its limit.
func (rl *rateLimiter) allow(w http.ResponseWriter, r *http.Request) bool {
	if rl.limit <= 0 {
		return true
	}
	key := rl.keyFn(r)
	if key == "" {
		key = clientIPKey(r)
	}

	now := rl.now()
	rl.mu.Lock()
	rl.pruneLocked(now)
	win, ok := rl.windows[key]
	if !ok || !now.Before(win.reset) {
		win = &window{reset: now.Add(rl.period)}
		rl.windows[key] = win
	}
	win.hits++
	hits, reset := win.hits, win.reset
	rl.mu.Unlock()

	retryAfter := int(math.Ceil(reset.Sub(now).Seconds()))
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(rl.limit-hits, 0)))
	w.Header().Set("X-RateLimit-Reset", strconv.Itoa(max(retryAfter, 0)))
	if hits <= rl.limit {
		return true
	}

	w.Header().Set("Retry-After", strconv.Itoa(max(retryAfter, 1)))
	slog.Warn("rate limit exceeded", "key", key, "method", r.Method, "path", r.URL.Path, "limit", rl.limit)
	api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
	return false
}

func (rl *rateLimiter) pruneLocked(now time.Time) {
	if now.Before(rl.nextPrune) {
		return
	}
	for key, win := range rl.windows {
		if !now.Before(win.reset) {
			delete(rl.windows, key)
		}
	}
	rl.nextPrune = now.Add(rl.period)
}

// FieldOrIPKey keys by a JSON body field, falling back to the client ip.
func FieldOrIPKey(field string) RateLimitKeyFunc {
	field = strings.TrimSpace(field)
	return func(r *http.Request) string {
		if value := sniffJSONField(r, field); value != "" {
			return field + ":" + strings.ToLower(value)
		}
		return clientIPKey(r)
	}
}

var (
	loginIdentityKey    = FieldOrIPKey("login")
	registerIdentityKey = FieldOrIPKey("email")
)

func authIdentityKey(r *http.Request) string {
	if apiPath(r.URL.Path) == "/auth/register" {
		return registerIdentityKey(r)
	}
	return loginIdentityKey(r)
}

func actorOrIPKey(r *http.Request) string {
	if sess, ok := GetSession(r.Context()); ok && sess.User.ID != "" {
		return "user:" + sess.User.ID
	}
	return clientIPKey(r)
}

func clientIPKey(r *http.Request) string {
	return shared.ClientIP(r)
}

// sniffJSONField reads one string field from a JSON body and restores the body for
// the handler.
func sniffJSONField(r *http.Request, field string) string {
	if r.Body == nil || !strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
		return ""
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxSniffBytes))
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	value, _ := payload[field].(string)
	return strings.TrimSpace(value)
}

type sensitiveScope string

const (
	sensitiveScopeNone  sensitiveScope = ""
	sensitiveScopeAuth  sensitiveScope = "auth"
	sensitiveScopeActor sensitiveScope = "actor"
)

func sensitiveRateScope(r *http.Request) sensitiveScope {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return sensitiveScopeNone
	}

	path := apiPath(r.URL.Path)
	switch {
	case path == "/auth/login", path == "/auth/register":
		return sensitiveScopeAuth
	case path == "/roles/editor/submit":
		return sensitiveScopeActor
	case r.Method == http.MethodDelete && strings.HasPrefix(path, "/roles/") && !strings.HasPrefix(path, "/roles/editor"):
		return sensitiveScopeActor
	case r.Method == http.MethodPut && strings.HasPrefix(path, "/roles/") && strings.HasSuffix(path, "/permissions"):
		return sensitiveScopeActor
	case strings.HasPrefix(path, "/sessions/") && (strings.HasSuffix(path, "/terminate") || strings.HasSuffix(path, "/terminate-all")):
		return sensitiveScopeActor
	}
	return sensitiveScopeNone
}

// apiPath strips the /api/v1 prefix.
func apiPath(path string) string {
	path = strings.TrimPrefix(strings.TrimSpace(path), "/api/v1")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}
