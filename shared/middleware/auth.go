package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/campusboard/campusboard/shared/domain"
	jwt_internal "github.com/campusboard/campusboard/shared/jwt"
	"github.com/campusboard/campusboard/shared/logger"
	"github.com/campusboard/campusboard/shared/utils"
)

// RoleLookup names the role carried in a token. The role cache satisfies it.
type RoleLookup interface {
	ById(id domain.RoleId) (domain.Role, bool)
}

// Revocations reports tokens issued before a user's sessions were revoked.
type Revocations interface {
	IsBlacklisted(userId domain.UserId, issuedAt time.Time) bool
}

// Key to store the user claims in the request context
type key int

const UserClaimsKey key = 0

const AccessTokenCookie = "accessToken"

type Auth struct {
	jwtService    jwt_internal.JwtService
	roles         RoleLookup
	revoked       Revocations
	secureCookies bool
}

func NewAuth(jwtService jwt_internal.JwtService, roles RoleLookup, secureCookies bool) *Auth {
	return &Auth{
		jwtService:    jwtService,
		roles:         roles,
		secureCookies: secureCookies,
	}
}

// WithRevocations makes the middleware reject tokens of revoked sessions.
func (a *Auth) WithRevocations(revoked Revocations) *Auth {
	a.revoked = revoked
	return a
}

// NeedAuth returns middleware that requires authentication
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return a.auth(false)
}

// AdminOnly returns middleware that requires the admin role
func (a *Auth) AdminOnly() func(http.Handler) http.Handler {
	return a.auth(true)
}

// OptionalAuth populates the session user when the token is valid and lets
// anonymous requests through otherwise.
func (a *Auth) OptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, _ := a.extractUser(r)
			if user != nil {
				ctx := context.WithValue(r.Context(), UserClaimsKey, user)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractUser builds the session user from the token. The role is named
// through the cache so a token never outlives its role.
func (a *Auth) extractUser(r *http.Request) (*domain.User, error) {
	var tokenString string
	accessCookie, err := r.Cookie(AccessTokenCookie)
	if err == nil {
		tokenString = accessCookie.Value
	} else if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		tokenString = token
	}

	if tokenString == "" {
		return nil, errNoToken
	}

	token, err := a.jwtService.DecodeToken(tokenString)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errInvalidClaims
	}

	uidFloat, ok := claims["uid"].(float64)
	if !ok {
		return nil, errInvalidClaims
	}
	sid, ok := claims["sid"].(string)
	if !ok {
		return nil, errInvalidClaims
	}
	name, _ := claims["name"].(string)
	roleIdFloat, ok := claims["role_id"].(float64)
	if !ok {
		return nil, errInvalidClaims
	}
	roleTitle, _ := claims["role"].(string)

	if a.revoked != nil {
		issuedMs, _ := claims["iat_ms"].(float64)
		if a.revoked.IsBlacklisted(domain.UserId(uidFloat), time.UnixMilli(int64(issuedMs))) {
			return nil, errRevoked
		}
	}

	role := domain.Role{Id: domain.RoleId(roleIdFloat), Title: roleTitle}
	if a.roles != nil {
		cached, ok := a.roles.ById(role.Id)
		if !ok {
			return nil, errUnknownRole
		}
		role = cached
	}

	return &domain.User{
		Id:        domain.UserId(uidFloat),
		StudentId: sid,
		Name:      name,
		RoleId:    role.Id,
		Role:      &role,
	}, nil
}

var (
	errNoToken       = errorString("no token")
	errInvalidClaims = errorString("invalid claims")
	errUnknownRole   = errorString("unknown role")
	errRevoked       = errorString("session revoked")
)

type errorString string

func (e errorString) Error() string { return string(e) }

// ClearSessionCookie expires the access token cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     AccessTokenCookie,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *Auth) auth(adminOnly bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := a.extractUser(r)
			if err != nil {
				switch err {
				case errNoToken:
					utils.WriteJSON(w, http.StatusUnauthorized, "Please sign-in", nil)
				case errRevoked:
					ClearSessionCookie(w, a.secureCookies)
					utils.WriteJSON(w, http.StatusUnauthorized, "Session revoked, please sign-in again", nil)
				case errUnknownRole:
					ClearSessionCookie(w, a.secureCookies)
					utils.WriteJSON(w, http.StatusUnauthorized, "Session role no longer exists, please sign-in again", nil)
				case errInvalidClaims:
					logger.Log.Error("invalid jwt claims")
					utils.WriteJSON(w, http.StatusUnauthorized, "Invalid token", nil)
				default:
					utils.WriteErrorAndStatusCode(w, err)
				}
				return
			}

			if adminOnly && user.RoleTitle() != domain.RoleAdmin {
				utils.WriteJSON(w, http.StatusForbidden, "Access denied. Only for admin", nil)
				return
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext returns the session user or nil for anonymous requests.
func GetUserFromContext(r *http.Request) *domain.User {
	user, ok := r.Context().Value(UserClaimsKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}

// WithUser is used by handlers' tests and by code that impersonates a user.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, UserClaimsKey, user)
}
