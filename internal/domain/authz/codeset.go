package authz

import "sort"

// CodeSet is a set of permission codes. Membership is all that matters; Sorted gives
// a stable order for payloads and responses.
type CodeSet map[string]struct{}

func NewCodeSet(codes ...string) CodeSet {
	s := make(CodeSet, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

func (s CodeSet) Has(code string) bool {
	_, ok := s[code]
	return ok
}

func (s CodeSet) Len() int {
	return len(s)
}

func (s CodeSet) Clone() CodeSet {
	out := make(CodeSet, len(s))
	for c := range s {
		out[c] = struct{}{}
	}
	return out
}

func (s CodeSet) Equal(other CodeSet) bool {
	if len(s) != len(other) {
		return false
	}
	for c := range s {
		if !other.Has(c) {
			return false
		}
	}
	return true
}

// ContainsAll reports whether every code of sub is in s.
func (s CodeSet) ContainsAll(sub CodeSet) bool {
	for c := range sub {
		if !s.Has(c) {
			return false
		}
	}
	return true
}

// IntersectCount counts the codes present in both sets.
func (s CodeSet) IntersectCount(other CodeSet) int {
	small, large := s, other
	if len(small) > len(large) {
		small, large = large, small
	}
	n := 0
	for c := range small {
		if large.Has(c) {
			n++
		}
	}
	return n
}

func (s CodeSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
