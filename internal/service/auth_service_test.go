package service

import (
	"context"
	"testing"
	"time"

	"asset-management-be/internal/dto"
	"asset-management-be/internal/entity"
	"asset-management-be/internal/pkg/logger"
	"asset-management-be/internal/repository/memory"
	"asset-management-be/pkg/apperror"
	"asset-management-be/pkg/events"
	"asset-management-be/pkg/token"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture() (*fakeStore, IAuthService, *token.Manager, *recordingPublisher) {
	store := newFakeStore()
	pub := &recordingPublisher{}
	tokens := token.NewManager("test-secret", time.Minute)
	svc := NewAuthService(
		&fakeFactory{store: store},
		tokens,
		memory.NewLoginAttemptRepository(time.Minute),
		nil,
		pub,
		logger.NewNopLogger(),
		AuthOptions{MaxAttempts: 3, LockoutWindow: time.Minute, RefreshTokenTTL: time.Hour},
	)
	return store, svc, tokens, pub
}

func registerRequest(username, role string) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "correct-horse",
		Password2: "correct-horse",
		Role:      role,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	store, svc, tokens, pub := newAuthFixture()

	user, err := svc.Register(ctx, registerRequest("acme", "vendor"))
	require.NoError(t, err)
	assert.Equal(t, "vendor", user.Role)

	res, err := svc.Login(ctx, &dto.LoginRequest{Username: "acme", Password: "correct-horse"}, "127.0.0.1", "go-test")
	require.NoError(t, err)
	assert.Equal(t, user.Id, res.User.Id)

	userId, claims, err := tokens.ParseAccess(res.Access)
	require.NoError(t, err)
	assert.Equal(t, user.Id, userId)
	assert.Equal(t, "vendor", claims.Role)

	require.Len(t, store.tokens, 1)
	for _, stored := range store.tokens {
		assert.Equal(t, hashToken(res.Refresh), stored.TokenHash)
		assert.NotEqual(t, res.Refresh, stored.TokenHash)
	}
	assert.Equal(t, []string{events.UserRegistered, events.UserLogin}, pub.published())
}

func TestRegisterRejects(t *testing.T) {
	ctx := context.Background()
	_, svc, _, _ := newAuthFixture()
	_, err := svc.Register(ctx, registerRequest("acme", ""))
	require.NoError(t, err)

	t.Run("admin self-registration", func(t *testing.T) {
		_, err := svc.Register(ctx, registerRequest("mallory", "admin"))
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.Register(ctx, registerRequest("acme", "user"))
		assert.True(t, apperror.Is(err, apperror.KindValidation))
		assert.Equal(t, "A user with that username already exists.", err.Error())
	})

	t.Run("password mismatch", func(t *testing.T) {
		req := registerRequest("carol", "user")
		req.Password2 = "something-else"
		_, err := svc.Register(ctx, req)
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})
}

func TestLoginThrottling(t *testing.T) {
	ctx := context.Background()
	_, svc, _, _ := newAuthFixture()
	_, err := svc.Register(ctx, registerRequest("acme", "vendor"))
	require.NoError(t, err)

	bad := &dto.LoginRequest{Username: "acme", Password: "wrong-password"}
	good := &dto.LoginRequest{Username: "ACME ", Password: "correct-horse"}

	_, err = svc.Login(ctx, bad, "", "")
	assert.True(t, apperror.Is(err, apperror.KindAuthentication))
	_, err = svc.Login(ctx, bad, "", "")
	assert.True(t, apperror.Is(err, apperror.KindAuthentication))
	_, err = svc.Login(ctx, bad, "", "")
	assert.True(t, apperror.Is(err, apperror.KindTooManyAttempts))

	// locked out even with the right password; the key ignores case
	_, err = svc.Login(ctx, good, "", "")
	assert.True(t, apperror.Is(err, apperror.KindTooManyAttempts))
}

func TestLoginSuccessResetsCounter(t *testing.T) {
	ctx := context.Background()
	_, svc, _, _ := newAuthFixture()
	_, err := svc.Register(ctx, registerRequest("acme", "vendor"))
	require.NoError(t, err)

	bad := &dto.LoginRequest{Username: "acme", Password: "wrong-password"}
	good := &dto.LoginRequest{Username: "acme", Password: "correct-horse"}

	for i := 0; i < 2; i++ {
		_, err = svc.Login(ctx, bad, "", "")
		require.Error(t, err)
	}
	_, err = svc.Login(ctx, good, "", "")
	require.NoError(t, err)

	_, err = svc.Login(ctx, bad, "", "")
	assert.True(t, apperror.Is(err, apperror.KindAuthentication))
}

func TestLoginUnknownUser(t *testing.T) {
	_, svc, _, _ := newAuthFixture()
	_, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "ghost", Password: "whatever1"}, "", "")
	assert.True(t, apperror.Is(err, apperror.KindAuthentication))
	assert.Equal(t, "Invalid credentials", err.Error())
}

func TestRefreshAndLogout(t *testing.T) {
	ctx := context.Background()
	_, svc, _, _ := newAuthFixture()
	_, err := svc.Register(ctx, registerRequest("acme", "vendor"))
	require.NoError(t, err)
	login, err := svc.Login(ctx, &dto.LoginRequest{Username: "acme", Password: "correct-horse"}, "", "")
	require.NoError(t, err)

	res, err := svc.Refresh(ctx, &dto.RefreshRequest{Refresh: login.Refresh})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Access)

	_, err = svc.Refresh(ctx, &dto.RefreshRequest{Refresh: uuid.NewString()})
	assert.True(t, apperror.Is(err, apperror.KindAuthentication))

	require.NoError(t, svc.Logout(ctx, login.Refresh))
	_, err = svc.Refresh(ctx, &dto.RefreshRequest{Refresh: login.Refresh})
	assert.True(t, apperror.Is(err, apperror.KindAuthentication))
}

func TestRefreshExpired(t *testing.T) {
	ctx := context.Background()
	store, svc, _, _ := newAuthFixture()
	u := store.addUser("acme", entity.UserRoleVendor)
	raw := uuid.NewString()
	id := uuid.New()
	store.tokens[id] = entity.UserRefreshToken{
		Id:        id,
		UserId:    u.Id,
		TokenHash: hashToken(raw),
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	_, err := svc.Refresh(ctx, &dto.RefreshRequest{Refresh: raw})
	assert.True(t, apperror.Is(err, apperror.KindAuthentication))
}
