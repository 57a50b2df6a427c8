package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/campusboard/campusboard/shared/domain"
	"github.com/campusboard/campusboard/shared/middleware/ratelimiter"
	"github.com/campusboard/campusboard/shared/utils"
)

func RateLimit(rl *ratelimiter.Limiter, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user := GetUserFromContext(r); user != nil && user.RoleTitle() == domain.RoleAdmin {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := getIdentity(r)
			if err != nil {
				utils.WriteJSON(w, http.StatusBadRequest, err.Error(), nil)
				return
			}
			if !rl.Allow(identity) {
				utils.WriteJSON(w, http.StatusTooManyRequests, "Rate limit exceeded, try again later", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUserIDFromContext works behind one of the auth middlewares.
func GetUserIDFromContext(r *http.Request) (string, error) {
	user := GetUserFromContext(r)
	if user == nil {
		return "", errors.New("Can't get user id")
	}
	return fmt.Sprintf("user_%d", user.Id), nil
}

// GetIP trusts only RemoteAddr. Run chi's RealIP in front when the server
// sits behind a proxy.
func GetIP(r *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}

	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("invalid IP address: %s", ip)
	}

	return ip, nil
}

// GetFieldFromBody reads a string field from a JSON body and puts the body
// back for the handler.
func GetFieldFromBody(field string) func(r *http.Request) (string, error) {
	return func(r *http.Request) (string, error) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return "", errors.New("failed to read request body")
		}
		r.Body = io.NopCloser(bytes.NewBuffer(body))

		var data map[string]any
		if err := json.Unmarshal(body, &data); err != nil {
			return "", errors.New("invalid request body")
		}

		value, _ := data[field].(string)
		if value == "" {
			return "", fmt.Errorf("%s field is required", field)
		}
		return value, nil
	}
}
