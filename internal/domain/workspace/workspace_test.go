package workspace

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryReusesWorkspacePerSession(t *testing.T) {
	reg := NewRegistry(Deps{RolesPageSize: 8, UsersPageSize: 8})

	a := reg.For("s1")
	assert.Same(t, a, reg.For("s1"))
	assert.NotSame(t, a, reg.For("s2"))
	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, 8, a.Roles.PageSize())
	assert.Equal(t, 8, a.Users.PageSize())

	reg.Forget("s1")
	assert.Equal(t, 1, reg.Len())
	assert.NotSame(t, a, reg.For("s1"))
}

func TestRegistryConcurrentAccess(t *testing.T) {
	reg := NewRegistry(Deps{})
	var wg sync.WaitGroup
	seen := make([]*Workspace, 32)
	for i := range seen {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			seen[i] = reg.For("shared")
		}(i)
	}
	wg.Wait()
	for _, ws := range seen {
		assert.Same(t, seen[0], ws)
	}
	assert.Equal(t, 1, reg.Len())
}
