// Package listing holds the in-memory search, filter and pagination helpers shared by
// the administration flows.
package listing

import (
	"fmt"
	"strings"
)

type StatusFilter string

const (
	StatusAll      StatusFilter = "all"
	StatusActive   StatusFilter = "active"
	StatusInactive StatusFilter = "inactive"
)

// ParseStatusFilter accepts "", all, active or inactive (case-insensitive).
func ParseStatusFilter(raw string) (StatusFilter, error) {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(raw))) {
	case "", StatusAll:
		return StatusAll, nil
	case StatusActive:
		return StatusActive, nil
	case StatusInactive:
		return StatusInactive, nil
	}
	return "", fmt.Errorf("unknown status filter %q", raw)
}

func (f StatusFilter) Matches(isActive bool) bool {
	switch f {
	case StatusActive:
		return isActive
	case StatusInactive:
		return !isActive
	default:
		return true
	}
}

// ContainsFold reports whether needle is a case-insensitive substring of haystack.
// An empty needle matches everything.
func ContainsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// Paginate returns the 1-based page of items. Pages outside the valid range yield an
// empty slice; clamping is the caller's job.
func Paginate[T any](items []T, page, pageSize int) []T {
	if pageSize <= 0 || page < 1 {
		return []T{}
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := min(start+pageSize, len(items))
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}

func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// ClampPage pins page into [1, totalPages]; with no pages it returns 1.
func ClampPage(page, totalPages int) int {
	if page < 1 || totalPages < 1 {
		return 1
	}
	return min(page, totalPages)
}

type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
	From       int `json:"from"`
	To         int `json:"to"`
}

// NewPage slices filtered without clamping page. From/To are the 1-based positions
// shown in "showing X to Y of Z".
func NewPage[T any](filtered []T, page, pageSize int) Page[T] {
	items := Paginate(filtered, page, pageSize)
	out := Page[T]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		Total:      len(filtered),
		TotalPages: TotalPages(len(filtered), pageSize),
	}
	if len(items) > 0 {
		out.From = (page-1)*pageSize + 1
		out.To = out.From + len(items) - 1
	}
	return out
}
