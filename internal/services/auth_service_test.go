package services_test

import (
	"testing"

	"chatline_backend/internal/auth"
	"chatline_backend/internal/config"
	"chatline_backend/internal/repositories"
	"chatline_backend/internal/services"
	"chatline_backend/internal/services/dto"
	"chatline_backend/pkg/apperrors"
	"chatline_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) services.AuthService {
	t.Helper()
	config.AppConfig = helpers.TestConfig(t)
	db := helpers.NewTestDB(t)
	return services.NewAuthService(repositories.NewUserRepository(db))
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)

	user, err := svc.Register(&dto.RegisterRequest{
		Username: "alice",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	resp, err := svc.Login(&dto.LoginRequest{Username: "alice", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)

	claims, err := auth.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Register(&dto.RegisterRequest{Username: "alice", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Register(&dto.RegisterRequest{Username: "alice", Password: "password456"})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, 400, appErr.HTTPCode)
}

func TestRegisterShortPassword(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Register(&dto.RegisterRequest{Username: "alice", Password: "short"})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, 400, appErr.HTTPCode)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Register(&dto.RegisterRequest{Username: "alice", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Login(&dto.LoginRequest{Username: "alice", Password: "wrong-password"})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, 401, appErr.HTTPCode)
}

func TestLoginUnknownUserSameError(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Login(&dto.LoginRequest{Username: "ghost", Password: "password123"})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, 401, appErr.HTTPCode, "unknown user and bad password must be indistinguishable")
}
