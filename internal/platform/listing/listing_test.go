package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	tests := []struct {
		name     string
		page     int
		pageSize int
		want     []int
	}{
		{name: "first page", page: 1, pageSize: 8, want: []int{1, 2, 3, 4, 5, 6, 7, 8}},
		{name: "last partial page", page: 2, pageSize: 8, want: []int{9, 10}},
		{name: "past the end is empty", page: 3, pageSize: 8, want: []int{}},
		{name: "zero page is empty", page: 0, pageSize: 8, want: []int{}},
		{name: "zero size is empty", page: 1, pageSize: 0, want: []int{}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Paginate(items, tc.page, tc.pageSize))
		})
	}
}

func TestTotalPagesAndClamp(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 8))
	assert.Equal(t, 1, TotalPages(8, 8))
	assert.Equal(t, 2, TotalPages(9, 8))

	assert.Equal(t, 1, ClampPage(0, 3))
	assert.Equal(t, 3, ClampPage(7, 3))
	assert.Equal(t, 2, ClampPage(2, 3))
	assert.Equal(t, 1, ClampPage(4, 0))
}

func TestNewPageBounds(t *testing.T) {
	page := NewPage([]string{"a", "b", "c"}, 2, 2)
	assert.Equal(t, []string{"c"}, page.Items)
	assert.Equal(t, 3, page.From)
	assert.Equal(t, 3, page.To)
	assert.Equal(t, 2, page.TotalPages)

	empty := NewPage([]string{"a"}, 5, 2)
	assert.Empty(t, empty.Items)
	assert.Zero(t, empty.From)
}

func TestStatusFilter(t *testing.T) {
	f, err := ParseStatusFilter("Active")
	require.NoError(t, err)
	assert.True(t, f.Matches(true))
	assert.False(t, f.Matches(false))

	f, err = ParseStatusFilter("")
	require.NoError(t, err)
	assert.Equal(t, StatusAll, f)
	assert.True(t, f.Matches(false))

	_, err = ParseStatusFilter("archived")
	assert.Error(t, err)
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Gerente de Ventas", "ventas"))
	assert.True(t, ContainsFold("anything", ""))
	assert.False(t, ContainsFold("Auditor", "admin"))
}
