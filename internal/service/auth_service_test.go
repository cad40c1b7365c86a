package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/interference-service/internal/config"
	"github.com/spec-kit/interference-service/internal/domain"
	"github.com/spec-kit/interference-service/internal/repository"
	"github.com/spec-kit/interference-service/internal/service"
	apperrors "github.com/spec-kit/interference-service/pkg/util/errorutil"
)

func newAuthService(t *testing.T) (*service.AuthService, repository.UserRepository) {
	t.Helper()
	users := repository.NewMemoryUserRepository()
	svc := service.NewAuthService(config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 15,
		BcryptCost:            bcrypt.MinCost,
	}, users, nil, nil)
	return svc, users
}

func TestLoginWithSeedUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, users := newAuthService(t)

	require.NoError(t, svc.EnsureSeedUser(ctx, "manager", "s3cret-pass", domain.UserRoleManager))
	require.NoError(t, svc.EnsureSeedUser(ctx, "manager", "other", domain.UserRoleManager))

	stored, err := users.GetByUsername(ctx, "manager")
	require.NoError(t, err)

	user, token, err := svc.Login(ctx, service.LoginInput{Username: "manager", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, stored.ID, user.ID)
	assert.Equal(t, domain.UserRoleManager, token.Role)

	claims, err := svc.TokenManager().ParseToken(token.Value)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "manager", claims.Username)
	assert.Equal(t, domain.UserRoleManager, claims.Role)
}

func TestLoginFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newAuthService(t)
	require.NoError(t, svc.EnsureSeedUser(ctx, "tech", "s3cret-pass", domain.UserRoleTechnician))

	_, _, err := svc.Login(ctx, service.LoginInput{Username: "tech", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.ToDomainError(err).Code)

	_, _, err = svc.Login(ctx, service.LoginInput{Username: "ghost", Password: "whatever"})
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.ToDomainError(err).Code)

	_, _, err = svc.Login(ctx, service.LoginInput{})
	assert.True(t, apperrors.IsValidation(err))
}

func TestEnsureSeedUserRejectsUnknownRole(t *testing.T) {
	t.Parallel()
	svc, _ := newAuthService(t)
	require.Error(t, svc.EnsureSeedUser(context.Background(), "root", "pw", domain.UserRole("ROOT")))
	require.NoError(t, svc.EnsureSeedUser(context.Background(), "", "", domain.UserRoleAdmin))
}
