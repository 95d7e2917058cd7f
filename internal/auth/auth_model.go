package auth

import "github.com/wari-app/wari/internal/user"

type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"admin"`
	Password string `json:"password" binding:"required" example:"password123"`
}

type RefreshTokenRequest struct {
	Refresh string `json:"refresh" binding:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// TokenPair is returned by the login endpoint.
type TokenPair struct {
	Access  string     `json:"access"`
	Refresh string     `json:"refresh"`
	User    *user.User `json:"user"`
}

// AccessToken is returned by the refresh endpoint.
type AccessToken struct {
	Access string `json:"access"`
}
