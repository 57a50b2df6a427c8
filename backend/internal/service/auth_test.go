package service

import (
	"context"
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusboard/campusboard/shared/domain"
	"github.com/campusboard/campusboard/shared/errors"
)

// MockAuthStorage mocks AuthStorage.
type MockAuthStorage struct {
	findUserByIdFunc  func(ctx context.Context, id domain.UserId) (*domain.User, error)
	findUserBySIDFunc func(ctx context.Context, sid domain.StudentId) (*domain.User, error)
}

func (m *MockAuthStorage) FindUserById(ctx context.Context, id domain.UserId) (*domain.User, error) {
	if m.findUserByIdFunc != nil {
		return m.findUserByIdFunc(ctx, id)
	}
	return nil, errors.NotFound("user", id)
}

func (m *MockAuthStorage) FindUserBySID(ctx context.Context, sid domain.StudentId) (*domain.User, error) {
	if m.findUserBySIDFunc != nil {
		return m.findUserBySIDFunc(ctx, sid)
	}
	return nil, errors.NotFound("user", sid)
}

// MockJwt mocks Jwt.
type MockJwt struct {
	newTokenFunc func(user domain.User) (string, error)
}

func (m *MockJwt) NewToken(user domain.User) (string, error) {
	if m.newTokenFunc != nil {
		return m.newTokenFunc(user)
	}
	return "token", nil
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	var e *errors.ErrorWithStatusCode
	require.ErrorAs(t, err, &e)
	assert.Equal(t, status, e.StatusCode)
}

func TestAuthLogin(t *testing.T) {
	ctx := context.Background()

	newStorage := func(t *testing.T) *MockAuthStorage {
		user := storedUser(t, resident.Id, "correct-horse")
		return &MockAuthStorage{
			findUserBySIDFunc: func(ctx context.Context, sid domain.StudentId) (*domain.User, error) {
				if sid == user.StudentId {
					return user, nil
				}
				return nil, errors.NotFound("user", sid)
			},
		}
	}

	t.Run("success", func(t *testing.T) {
		var signed domain.User
		jwt := &MockJwt{newTokenFunc: func(user domain.User) (string, error) {
			signed = user
			return "signed", nil
		}}
		s := NewAuth(newStorage(t), jwt)

		token, user, err := s.Login(ctx, domain.Credentials{StudentId: "201201234", Password: "correct-horse"})
		require.NoError(t, err)
		assert.Equal(t, "signed", token)
		assert.Equal(t, resident.Id, user.Id)
		assert.Equal(t, resident.Id, signed.Id)
	})

	t.Run("wrong password", func(t *testing.T) {
		s := NewAuth(newStorage(t), &MockJwt{})

		_, _, err := s.Login(ctx, domain.Credentials{StudentId: "201201234", Password: "wrong"})
		assertStatus(t, err, http.StatusUnauthorized)
	})

	t.Run("unknown student id looks the same", func(t *testing.T) {
		s := NewAuth(newStorage(t), &MockJwt{})

		_, _, err := s.Login(ctx, domain.Credentials{StudentId: "000", Password: "correct-horse"})
		assertStatus(t, err, http.StatusUnauthorized)
		assert.Equal(t, "Invalid credentials", err.Error())
	})

	t.Run("storage error passes through", func(t *testing.T) {
		storage := &MockAuthStorage{
			findUserBySIDFunc: func(ctx context.Context, sid domain.StudentId) (*domain.User, error) {
				return nil, stderrors.New("db down")
			},
		}
		s := NewAuth(storage, &MockJwt{})

		_, _, err := s.Login(ctx, domain.Credentials{StudentId: "1", Password: "x"})
		assert.EqualError(t, err, "db down")
	})
}

func TestAuthCheck(t *testing.T) {
	ctx := context.Background()
	storage := &MockAuthStorage{
		findUserByIdFunc: func(ctx context.Context, id domain.UserId) (*domain.User, error) {
			if id == resident.Id {
				return &domain.User{Id: id, Name: "John Smith", Role: &residentRole}, nil
			}
			return nil, errors.NotFound("user", id)
		},
	}
	s := NewAuth(storage, &MockJwt{})

	user, err := s.Check(ctx, resident)
	require.NoError(t, err)
	assert.Equal(t, "John Smith", user.Name)

	_, err = s.Check(ctx, freshman)
	assertStatus(t, err, http.StatusUnauthorized)

	_, err = s.Check(ctx, nil)
	assertStatus(t, err, http.StatusUnauthorized)
}
