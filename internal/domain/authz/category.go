package authz

import "hrmconsole/internal/domain/permissions"

type SelectionState string

const (
	SelectionNone    SelectionState = "none"
	SelectionPartial SelectionState = "partial"
	SelectionAll     SelectionState = "all"
)

// CategorySelectionState compares the draft against one category's codes. An empty
// category is none.
func CategorySelectionState(d Draft, categoryCodes CodeSet) SelectionState {
	if categoryCodes.Len() == 0 {
		return SelectionNone
	}
	switch d.Permissions.IntersectCount(categoryCodes) {
	case 0:
		return SelectionNone
	case categoryCodes.Len():
		return SelectionAll
	default:
		return SelectionPartial
	}
}

type CategoryGroup struct {
	Category    string                   `json:"category"`
	Permissions []permissions.Permission `json:"permissions"`
}

// Codes returns the group's permission codes.
func (g CategoryGroup) Codes() CodeSet {
	set := make(CodeSet, len(g.Permissions))
	for _, p := range g.Permissions {
		set[p.Code] = struct{}{}
	}
	return set
}

// GroupByCategory groups active permissions by category label. Groups appear in the
// order their category is first seen and keep catalog order inside.
func GroupByCategory(catalog []permissions.Permission) []CategoryGroup {
	index := map[string]int{}
	var groups []CategoryGroup
	for _, p := range catalog {
		if !p.IsActive {
			continue
		}
		label := p.CategoryLabel()
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, CategoryGroup{Category: label})
		}
		groups[i].Permissions = append(groups[i].Permissions, p)
	}
	return groups
}

// CategoryView is a group decorated with the draft's selection over it.
type CategoryView struct {
	CategoryGroup
	State    SelectionState `json:"state"`
	Selected int            `json:"selected"`
	Total    int            `json:"total"`
}

func CategoryViews(d Draft, catalog []permissions.Permission) []CategoryView {
	groups := GroupByCategory(catalog)
	out := make([]CategoryView, 0, len(groups))
	for _, g := range groups {
		codes := g.Codes()
		out = append(out, CategoryView{
			CategoryGroup: g,
			State:         CategorySelectionState(d, codes),
			Selected:      d.Permissions.IntersectCount(codes),
			Total:         codes.Len(),
		})
	}
	return out
}
