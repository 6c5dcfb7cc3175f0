package shared

import (
	"net/http"
	"strconv"
)

// ParsePage reads ?page=, defaulting to 1. Pages past the end are returned empty by
// the flows, not clamped here.
func ParsePage(r *http.Request, v *Validator) int {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		v.Add("page", "must be a positive integer")
		return 1
	}
	return page
}

// ParsePageSize reads ?pageSize= for listings that allow it; 0 means everything.
func ParsePageSize(r *http.Request, v *Validator, fallback, maxSize int) int {
	raw := r.URL.Query().Get("pageSize")
	if raw == "" {
		return fallback
	}
	size, err := strconv.Atoi(raw)
	if err != nil || size < 0 {
		v.Add("pageSize", "must be zero or a positive integer")
		return fallback
	}
	if maxSize > 0 && size > maxSize {
		size = maxSize
	}
	return size
}
