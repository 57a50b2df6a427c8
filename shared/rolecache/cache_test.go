package rolecache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusboard/campusboard/shared/domain"
)

type mockRoleSource struct {
	mu    sync.Mutex
	roles []domain.Role
	err   error
	calls int
}

func (m *mockRoleSource) FindAllRoles(ctx context.Context) ([]domain.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return append([]domain.Role{}, m.roles...), nil
}

func (m *mockRoleSource) set(roles ...domain.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles = roles
}

func TestNew(t *testing.T) {
	cache := New(&mockRoleSource{})

	assert.NotNil(t, cache)
	assert.Empty(t, cache.All())
	assert.True(t, cache.LastRefresh().IsZero())
}

func TestCache_Refresh(t *testing.T) {
	t.Run("successful refresh", func(t *testing.T) {
		source := &mockRoleSource{roles: []domain.Role{{Id: 1, Title: "freshman"}, {Id: 2, Title: "admin"}}}
		cache := New(source)

		require.NoError(t, cache.Refresh(context.Background()))

		role, ok := cache.ByTitle("admin")
		assert.True(t, ok)
		assert.Equal(t, domain.RoleId(2), role.Id)

		role, ok = cache.ById(1)
		assert.True(t, ok)
		assert.Equal(t, domain.RoleTitle("freshman"), role.Title)

		_, ok = cache.ByTitle("alumnus")
		assert.False(t, ok)
		assert.False(t, cache.LastRefresh().IsZero())
	})

	t.Run("refresh with error keeps previous roles", func(t *testing.T) {
		source := &mockRoleSource{roles: []domain.Role{{Id: 1, Title: "freshman"}}}
		cache := New(source)
		require.NoError(t, cache.Refresh(context.Background()))

		source.err = assert.AnError
		err := cache.Refresh(context.Background())
		assert.ErrorIs(t, err, assert.AnError)

		_, ok := cache.ByTitle("freshman")
		assert.True(t, ok)
	})

	t.Run("refresh replaces cache", func(t *testing.T) {
		source := &mockRoleSource{roles: []domain.Role{{Id: 1, Title: "freshman"}}}
		cache := New(source)
		require.NoError(t, cache.Refresh(context.Background()))

		source.set(domain.Role{Id: 2, Title: "resident"})
		require.NoError(t, cache.Refresh(context.Background()))

		_, ok := cache.ByTitle("freshman")
		assert.False(t, ok)
		_, ok = cache.ById(2)
		assert.True(t, ok)
	})
}

// A role created after startup must be visible once the writer refreshes.
func TestCache_RefreshOnWrite(t *testing.T) {
	source := &mockRoleSource{roles: []domain.Role{{Id: 1, Title: "freshman"}}}
	cache := New(source)
	require.NoError(t, cache.Refresh(context.Background()))

	source.set(domain.Role{Id: 1, Title: "freshman"}, domain.Role{Id: 2, Title: "alumnus"})
	_, ok := cache.ByTitle("alumnus")
	assert.False(t, ok, "cache must not read through")

	require.NoError(t, cache.Refresh(context.Background()))
	role, ok := cache.ByTitle("alumnus")
	require.True(t, ok)
	assert.Equal(t, domain.RoleId(2), role.Id)
}

// gatedRoleSource holds its first read after taking the snapshot, so a later
// refresh can race it.
type gatedRoleSource struct {
	mockRoleSource
	once     sync.Once
	snapshot chan struct{}
	release  chan struct{}
}

func (g *gatedRoleSource) FindAllRoles(ctx context.Context) ([]domain.Role, error) {
	roles, err := g.mockRoleSource.FindAllRoles(ctx)
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.snapshot)
		<-g.release
	}
	return roles, err
}

func TestCache_RefreshKeepsNewestSnapshot(t *testing.T) {
	source := &gatedRoleSource{
		mockRoleSource: mockRoleSource{roles: []domain.Role{{Id: 1, Title: "freshman"}}},
		snapshot:       make(chan struct{}),
		release:        make(chan struct{}),
	}
	cache := New(source)
	ctx := context.Background()

	tickDone := make(chan error, 1)
	go func() { tickDone <- cache.Refresh(ctx) }()
	<-source.snapshot

	source.set(domain.Role{Id: 1, Title: "freshman"}, domain.Role{Id: 2, Title: "alumnus"})
	writeDone := make(chan error, 1)
	go func() { writeDone <- cache.Refresh(ctx) }()

	// give the second refresh a chance to finish before the stale one
	select {
	case err := <-writeDone:
		writeDone <- err
	case <-time.After(50 * time.Millisecond):
	}
	close(source.release)

	require.NoError(t, <-tickDone)
	require.NoError(t, <-writeDone)

	role, ok := cache.ByTitle("alumnus")
	require.True(t, ok, "stale refresh overwrote a newer one")
	assert.Equal(t, domain.RoleId(2), role.Id)
	assert.Len(t, cache.All(), 2)
}

func TestCache_All(t *testing.T) {
	roles := []domain.Role{{Id: 3, Title: "c"}, {Id: 1, Title: "a"}, {Id: 2, Title: "b"}}
	cache := New(&mockRoleSource{roles: roles})
	require.NoError(t, cache.Refresh(context.Background()))

	all := cache.All()
	assert.Equal(t, roles, all)

	all[0].Title = "mutated"
	role, _ := cache.ById(3)
	assert.Equal(t, domain.RoleTitle("c"), role.Title)
}

func TestCache_Translation(t *testing.T) {
	cache := New(&mockRoleSource{roles: []domain.Role{{Id: 1, Title: "freshman"}, {Id: 4, Title: "admin"}}})
	require.NoError(t, cache.Refresh(context.Background()))

	tests := []struct {
		name    string
		titles  []domain.RoleTitle
		ids     []domain.RoleId
		unknown []domain.RoleTitle
	}{
		{"all known", []domain.RoleTitle{"admin", "freshman"}, []domain.RoleId{4, 1}, nil},
		{"some unknown", []domain.RoleTitle{"admin", "ghost"}, []domain.RoleId{4}, []domain.RoleTitle{"ghost"}},
		{"empty", nil, []domain.RoleId{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, unknown := cache.IdsByTitles(tt.titles)
			assert.Equal(t, tt.ids, ids)
			assert.Equal(t, tt.unknown, unknown)
		})
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	source := &mockRoleSource{roles: []domain.Role{{Id: 1, Title: "freshman"}}}
	cache := New(source)
	require.NoError(t, cache.Refresh(context.Background()))

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				cache.ByTitle("freshman")
				cache.All()
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for range 10 {
			source.set(domain.Role{Id: 1, Title: "freshman"}, domain.Role{Id: 2, Title: "admin"})
			_ = cache.Refresh(context.Background())
		}
	}()

	wg.Wait()
}

func TestCache_BackgroundUpdate(t *testing.T) {
	source := &mockRoleSource{roles: []domain.Role{{Id: 1, Title: "freshman"}}}
	cache := New(source)
	require.NoError(t, cache.Refresh(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cache.StartBackgroundUpdate(ctx, 20*time.Millisecond)

	source.set(domain.Role{Id: 2, Title: "resident"})

	assert.Eventually(t, func() bool {
		_, ok := cache.ByTitle("resident")
		return ok
	}, time.Second, 10*time.Millisecond)
}
