package service

import (
	"context"
	"net/http"

	"github.com/campusboard/campusboard/shared/domain"
	"github.com/campusboard/campusboard/shared/errors"
	"github.com/campusboard/campusboard/shared/logger"
	"github.com/campusboard/campusboard/shared/utils"
)

type AuthService interface {
	Login(ctx context.Context, creds domain.Credentials) (string, *domain.User, error)
	Check(ctx context.Context, actor *domain.User) (*domain.User, error)
}

type Auth struct {
	storage AuthStorage
	jwt     Jwt
}

type AuthStorage interface {
	FindUserById(ctx context.Context, id domain.UserId) (*domain.User, error)
	FindUserBySID(ctx context.Context, sid domain.StudentId) (*domain.User, error)
}

type Jwt interface {
	NewToken(user domain.User) (string, error)
}

func NewAuth(storage AuthStorage, jwt Jwt) *Auth {
	return &Auth{storage: storage, jwt: jwt}
}

func invalidCredentials() error {
	return &errors.ErrorWithStatusCode{Message: "Invalid credentials", StatusCode: http.StatusUnauthorized}
}

func (a *Auth) Login(ctx context.Context, creds domain.Credentials) (string, *domain.User, error) {
	user, err := a.storage.FindUserBySID(ctx, creds.StudentId)
	if err != nil {
		// to not leak existing users
		if errors.IsNotFound(err) {
			return "", nil, invalidCredentials()
		}
		return "", nil, err
	}

	if !utils.CheckPassword(user.PasswordHash, creds.Password, user.PasswordSalt) {
		logger.Log.Info("password verification failed", "user_id", user.Id)
		return "", nil, invalidCredentials()
	}

	token, err := a.jwt.NewToken(*user)
	if err != nil {
		logger.Log.Error("failed to create jwt token", "user_id", user.Id, "error", err)
		return "", nil, err
	}
	return token, user, nil
}

// Check re-reads the session user so removed accounts and changed roles show up
// before the token expires.
func (a *Auth) Check(ctx context.Context, actor *domain.User) (*domain.User, error) {
	if actor == nil {
		return nil, &errors.ErrorWithStatusCode{Message: "Not authorized", StatusCode: http.StatusUnauthorized}
	}
	user, err := a.storage.FindUserById(ctx, actor.Id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, &errors.ErrorWithStatusCode{Message: "Session user no longer exists", StatusCode: http.StatusUnauthorized}
		}
		return nil, err
	}
	return user, nil
}
