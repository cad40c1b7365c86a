package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/interference-service/internal/auth"
	"github.com/spec-kit/interference-service/internal/config"
	"github.com/spec-kit/interference-service/internal/domain"
	"github.com/spec-kit/interference-service/internal/repository"
	apperrors "github.com/spec-kit/interference-service/pkg/util/errorutil"
)

// LoginInput carries credentials.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthService coordinates login and the bootstrap account.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	validator  *Validator
	bcryptCost int
	logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, v *Validator, logger *zap.Logger) *AuthService {
	if v == nil {
		v = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		validator:  v,
		bcryptCost: cfg.BcryptCost,
		logger:     logger,
	}
}

// Login authenticates a user and returns a signed token. Unknown users and
// wrong passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*domain.User, domain.Token, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, domain.Token{}, err
	}

	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.Token{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, domain.Token{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, in.Password); err != nil {
		return nil, domain.Token{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, domain.Token{}, apperrors.NewInternalError(err)
	}
	return user, token, nil
}

// EnsureSeedUser creates the configured bootstrap account when it does not
// exist yet. An empty username disables seeding.
func (s *AuthService) EnsureSeedUser(ctx context.Context, username, password string, role domain.UserRole) error {
	if username == "" {
		return nil
	}
	if !role.Valid() {
		return fmt.Errorf("invalid seed role %q", role)
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        username + "@localhost",
		PasswordHash: hash,
		Role:         role,
		FirstName:    username,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return err
	}
	s.logger.Info("seed user created", zap.String("username", username), zap.String("role", string(role)))
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
