package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram-project/backend/internal/service"
	"github.com/foodgram-project/backend/internal/testhelpers"
)

func newAuthService(t *testing.T) *service.AuthService {
	return service.NewAuthService(testhelpers.SetupTestDB(t), nil, "test-secret")
}

func registerInput(email, username string) service.RegisterInput {
	return service.RegisterInput{
		Email:     email,
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  "password123",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerInput("cook@example.com", "cook"))
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "password123", user.PasswordHash)

	token, err := svc.Login(ctx, "cook@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "cook", claims.Username)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput("cook@example.com", "cook"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerInput("cook@example.com", "othercook"))
	assert.ErrorIs(t, err, service.ErrUserExists)

	_, err = svc.Register(ctx, registerInput("other@example.com", "cook"))
	assert.ErrorIs(t, err, service.ErrUserExists)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput("cook@example.com", "cook"))
	require.NoError(t, err)

	_, err = svc.Login(ctx, "cook@example.com", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestSetPassword(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerInput("cook@example.com", "cook"))
	require.NoError(t, err)

	err = svc.SetPassword(ctx, user.ID, "wrong", "newpassword")
	assert.ErrorIs(t, err, service.ErrWrongPassword)

	err = svc.SetPassword(ctx, user.ID, "password123", "password123")
	assert.ErrorIs(t, err, service.ErrSamePassword)

	err = svc.SetPassword(ctx, user.ID, "password123", "newpassword")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "cook@example.com", "password123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "cook@example.com", "newpassword")
	assert.NoError(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
