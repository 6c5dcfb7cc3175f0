package roleadmin

import (
	"hrmconsole/internal/domain/roles"
	"hrmconsole/internal/platform/listing"
)

const DefaultPageSize = 8

// Search keeps roles whose name or description contains term, ignoring case.
func Search(list []roles.Role, term string) []roles.Role {
	out := make([]roles.Role, 0, len(list))
	for _, r := range list {
		if listing.ContainsFold(r.Name, term) || listing.ContainsFold(r.Description, term) {
			out = append(out, r)
		}
	}
	return out
}

func FilterByStatus(list []roles.Role, status listing.StatusFilter) []roles.Role {
	out := make([]roles.Role, 0, len(list))
	for _, r := range list {
		if status.Matches(r.IsActive) {
			out = append(out, r)
		}
	}
	return out
}

// Paginate returns the 1-based page without clamping.
func Paginate(list []roles.Role, page, pageSize int) []roles.Role {
	return listing.Paginate(list, page, pageSize)
}

type Query struct {
	Search string
	Status listing.StatusFilter
	Page   int
}

// Apply runs search, status filter and pagination in that order.
func Apply(list []roles.Role, q Query, pageSize int) listing.Page[roles.Role] {
	filtered := FilterByStatus(Search(list, q.Search), q.Status)
	return listing.NewPage(filtered, q.Page, pageSize)
}
