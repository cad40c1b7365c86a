package auth

import "github.com/spec-kit/interference-service/internal/domain"

// Session is the explicit caller context handed to every guarded operation.
type Session struct {
	UserID   string
	Username string
	Role     domain.UserRole
}

// SessionFor builds a session from a loaded user.
func SessionFor(user *domain.User) *Session {
	return &Session{UserID: user.ID, Username: user.Username, Role: user.Role}
}
