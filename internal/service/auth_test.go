package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/tablefork/backend/internal/logger"
	"github.com/pageza/tablefork/backend/internal/service"
	"github.com/pageza/tablefork/backend/internal/testhelpers"
	"github.com/pageza/tablefork/backend/internal/types"
)

const testJWTSecret = "test-secret-key"

func newAuthService(t *testing.T) (*gorm.DB, *service.AuthService) {
	db := testhelpers.NewTestDB(t)
	return db, service.NewAuthService(db, testJWTSecret, logger.NewNop())
}

func registerRequest(username string) types.RegisterRequest {
	return types.RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  "s3cure-password",
	}
}

func TestRegister(t *testing.T) {
	_, auth := newAuthService(t)
	ctx := context.Background()

	view, err := auth.Register(ctx, registerRequest("chef"))
	require.NoError(t, err)
	assert.Equal(t, "chef", view.Username)
	assert.Equal(t, "chef@example.com", view.Email)
	assert.NotEqual(t, uuid.Nil, view.ID)
	assert.False(t, view.IsSubscribed)
}

func TestRegisterReservedUsername(t *testing.T) {
	_, auth := newAuthService(t)

	_, err := auth.Register(context.Background(), registerRequest("me"))
	assert.ErrorIs(t, err, service.ErrInvalidField)
}

func TestRegisterDuplicate(t *testing.T) {
	_, auth := newAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, registerRequest("chef"))
	require.NoError(t, err)

	_, err = auth.Register(ctx, registerRequest("chef"))
	assert.ErrorIs(t, err, service.ErrAlreadyExists)

	// Same email under a different username is still a conflict.
	req := registerRequest("sous")
	req.Email = "chef@example.com"
	_, err = auth.Register(ctx, req)
	assert.ErrorIs(t, err, service.ErrAlreadyExists)
}

func TestLogin(t *testing.T) {
	_, auth := newAuthService(t)
	ctx := context.Background()

	view, err := auth.Register(ctx, registerRequest("chef"))
	require.NoError(t, err)

	token, err := auth.Login(ctx, "chef@example.com", "s3cure-password")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, view.ID, claims.UserID)
	assert.Equal(t, "chef", claims.Username)
}

func TestLoginBadCredentials(t *testing.T) {
	_, auth := newAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, registerRequest("chef"))
	require.NoError(t, err)

	_, err = auth.Login(ctx, "chef@example.com", "wrong-password")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = auth.Login(ctx, "nobody@example.com", "s3cure-password")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestSetPassword(t *testing.T) {
	_, auth := newAuthService(t)
	ctx := context.Background()

	view, err := auth.Register(ctx, registerRequest("chef"))
	require.NoError(t, err)

	err = auth.SetPassword(ctx, view.ID, "bad-guess", "another-password")
	assert.ErrorIs(t, err, service.ErrInvalidField)

	require.NoError(t, auth.SetPassword(ctx, view.ID, "s3cure-password", "another-password"))

	_, err = auth.Login(ctx, "chef@example.com", "s3cure-password")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, err = auth.Login(ctx, "chef@example.com", "another-password")
	assert.NoError(t, err)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	_, auth := newAuthService(t)

	other := service.NewAuthService(testhelpers.NewTestDB(t), "different-secret", logger.NewNop())
	token, err := other.GenerateToken(&types.TokenClaims{UserID: uuid.New(), Username: "chef"})
	require.NoError(t, err)

	_, err = auth.ValidateToken(token)
	assert.Error(t, err)

	_, err = auth.ValidateToken("not-a-token")
	assert.Error(t, err)
}
