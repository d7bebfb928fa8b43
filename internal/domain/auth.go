package domain

import "time"

// ============================================================
// Auth: Request / Response types
// ============================================================

// User is the public identity of an account.
type User struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
}

// UserRecord is a locally stored account, including its password hash.
type UserRecord struct {
	User
	PasswordHash string
	CreatedAt    time.Time
}

// SignUpRequest is the body for POST /api/auth/signup.
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// SignInRequest is the body for POST /api/auth/signin.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by signup and signin.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// MeResponse is returned by GET /api/auth/me.
type MeResponse struct {
	User User `json:"user"`
}
