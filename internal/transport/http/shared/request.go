package shared

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"

	"hrmconsole/internal/platform/requestctx"
	"hrmconsole/internal/transport/http/api"
)

func requestID(r *http.Request) string {
	return requestctx.GetRequestID(r.Context())
}

// DecodeJSON reads a single JSON object, rejecting unknown fields. It writes the
// error response itself and reports whether decoding succeeded.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", requestID(r))
		case errors.Is(err, io.EOF):
			api.Fail(w, http.StatusBadRequest, "invalid_json", "request body is required", requestID(r))
		default:
			api.Fail(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload", requestID(r))
		}
		return false
	}
	return true
}

// ClientIP prefers the first X-Forwarded-For hop.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
