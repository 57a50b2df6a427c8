package pg

import (
	"context"
	"testing"

	"github.com/campusboard/campusboard/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchUsersEscapesWildcards(t *testing.T) {
	truncate(t)
	ctx := context.Background()

	role, err := testStorage.CreateRole(ctx, domain.RoleResident)
	require.NoError(t, err)
	literal, err := testStorage.CreateUser(ctx, domain.UserCreationData{StudentId: "100%", Name: "Percent", RoleId: role.Id})
	require.NoError(t, err)
	_, err = testStorage.CreateUser(ctx, domain.UserCreationData{StudentId: "1000", Name: "Plain", RoleId: role.Id})
	require.NoError(t, err)

	found, err := testStorage.SearchUsers(ctx, "0%", []domain.RoleId{role.Id})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, literal.Id, found[0].Id)
}
