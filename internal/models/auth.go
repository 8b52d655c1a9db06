package models

import "github.com/golang-jwt/jwt/v5"

// LoginRequest holds credentials forwarded to POST /auth/login.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// LoginResponse is the remote answer to a successful login.
type LoginResponse struct {
	User    User   `json:"user"`
	Message string `json:"message,omitempty"`
}

// RegisterRequest is forwarded to POST /auth/register.
type RegisterRequest struct {
	Login    string   `json:"login"`
	Password string   `json:"password"`
	Role     UserRole `json:"role" validate:"omitempty,oneof=student teacher"`
	FullName string   `json:"full_name"`
}

// RegisterResponse carries the remote confirmation text.
type RegisterResponse struct {
	Message string `json:"message"`
}

// Identity is the authenticated operator for the lifetime of a request.
type Identity struct {
	SessionID string `json:"session_id"`
	User      User   `json:"user"`
}

// SessionClaims is the signed payload of the session cookie.
type SessionClaims struct {
	User User `json:"user"`
	jwt.RegisteredClaims
}
