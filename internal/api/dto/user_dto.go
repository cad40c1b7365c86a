package dto

import (
	"time"

	"github.com/spec-kit/interference-service/internal/auth"
	"github.com/spec-kit/interference-service/internal/domain"
)

// UserResponse is the public view of an operator.
type UserResponse struct {
	ID         string          `json:"id"`
	Username   string          `json:"username"`
	Email      string          `json:"email"`
	Role       domain.UserRole `json:"role"`
	FirstName  string          `json:"first_name"`
	LastName   string          `json:"last_name"`
	Department *string         `json:"department,omitempty"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginResponse pairs the user with its token.
type LoginResponse struct {
	User UserResponse `json:"user"`
	Auth AuthResponse `json:"auth"`
}

// SessionResponse describes the caller.
type SessionResponse struct {
	UserID   string          `json:"user_id"`
	Username string          `json:"username"`
	Role     domain.UserRole `json:"role"`
}

// NewUserResponse maps a user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       u.Role,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Department: u.Department,
	}
}

// NewSessionResponse maps a session.
func NewSessionResponse(s *auth.Session) SessionResponse {
	return SessionResponse{UserID: s.UserID, Username: s.Username, Role: s.Role}
}
