package api

// Request DTOs

type LoginRequest struct {
	StudentId string `json:"sid" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

// Response DTOs

// SessionView is returned by login and auth check. AccessToken is only set on
// login, for clients that do not keep cookies.
type SessionView struct {
	User        UserView `json:"user"`
	AccessToken string   `json:"access_token,omitempty"`
}
