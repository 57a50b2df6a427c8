package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/campusboard/campusboard/backend/internal/storage"
	"github.com/campusboard/campusboard/backend/internal/storage/storagetest"
	"github.com/campusboard/campusboard/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Storage { return New() })
}

func TestInstancesAreIsolated(t *testing.T) {
	ctx := context.Background()
	a, b := New(), New()

	_, err := a.CreateRole(ctx, domain.RoleAdmin)
	require.NoError(t, err)

	roles, err := b.FindAllRoles(ctx)
	require.NoError(t, err)
	assert.Empty(t, roles)

	role, err := b.CreateRole(ctx, domain.RoleAdmin)
	require.NoError(t, err, "same title in another instance is not a duplicate")
	assert.Equal(t, int64(1), role.Id)
}

func TestReturnedValuesDoNotAliasStore(t *testing.T) {
	ctx := context.Background()
	s := New()
	role, err := s.CreateRole(ctx, domain.RoleResident)
	require.NoError(t, err)
	board, err := s.CreateBoard(ctx, domain.BoardCreationData{Title: "seminar", ReadableRoleIds: []domain.RoleId{role.Id}})
	require.NoError(t, err)

	board.ReadableRoleIds[0] = 999
	board.Title = "changed"

	stored, err := s.FindBoardById(ctx, board.Id)
	require.NoError(t, err)
	assert.Equal(t, "seminar", stored.Title)
	assert.Equal(t, []domain.RoleId{role.Id}, stored.ReadableRoleIds)
}

func TestClock(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2024, time.April, 5, 10, 0, 0, 0, time.UTC)
	s := New().WithClock(func() time.Time { return fixed })

	role, err := s.CreateRole(ctx, domain.RoleResident)
	require.NoError(t, err)
	user, err := s.CreateUser(ctx, domain.UserCreationData{StudentId: "1", Name: "A", RoleId: role.Id})
	require.NoError(t, err)
	board, err := s.CreateBoard(ctx, domain.BoardCreationData{Title: "b"})
	require.NoError(t, err)

	post, err := s.CreatePost(ctx, domain.PostCreationData{Title: "t", BoardId: board.Id, AuthorId: user.Id})
	require.NoError(t, err)
	assert.Equal(t, fixed, post.DateCreated)

	reply, err := s.CreateReply(ctx, domain.ReplyCreationData{Content: "c", PostId: post.Id, AuthorId: user.Id})
	require.NoError(t, err)
	assert.Equal(t, fixed, reply.DateCreated)
}

func TestConcurrentCreatesGetDistinctIds(t *testing.T) {
	ctx := context.Background()
	s := New()

	const n = 50
	ids := make([]domain.FileId, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f, err := s.CreateFile(ctx, domain.FileCreationData{
				FileCommonMetadata: domain.FileCommonMetadata{Filename: fmt.Sprintf("%d.txt", i)},
			})
			assert.NoError(t, err)
			ids[i] = f.Id
		}()
	}
	wg.Wait()

	seen := make(map[domain.FileId]bool, n)
	for _, id := range ids {
		assert.False(t, seen[id], "id %d handed out twice", id)
		seen[id] = true
	}
}

func TestConcurrentUpdatesConflict(t *testing.T) {
	ctx := context.Background()
	s := New()
	role, err := s.CreateRole(ctx, domain.RoleResident)
	require.NoError(t, err)
	user, err := s.CreateUser(ctx, domain.UserCreationData{StudentId: "1", Name: "A", RoleId: role.Id})
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			changed := *user
			changed.Name = fmt.Sprintf("writer %d", i)
			if _, err := s.UpdateUser(ctx, changed); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded, "only one writer holding version %d may win", user.Version)
	found, err := s.FindUserById(ctx, user.Id)
	require.NoError(t, err)
	assert.Equal(t, user.Version+1, found.Version)
}
