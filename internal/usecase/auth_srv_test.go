package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"movie-catalog/internal/data/entity"
	"movie-catalog/internal/data/repository/memory"
	"movie-catalog/internal/dto/request"
	"movie-catalog/pkg/token"
	"movie-catalog/pkg/utils"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, users *memory.UserRepo, username, password string, active bool) *entity.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)

	now := time.Now()
	user := &entity.User{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Role:         entity.RoleMember,
		IsActive:     active,
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestAuthService_LoginAndRefresh(t *testing.T) {
	_, users, _ := memory.New()
	manager := token.New("test-secret", time.Minute, time.Hour)
	srv := NewAuthService(users, manager, testLogger)
	ctx := context.Background()

	user := seedUser(t, users, "alice", "secret123", true)

	login, err := srv.Login(ctx, &request.LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Access)
	assert.NotEmpty(t, login.Refresh)
	assert.Equal(t, user.ID.String(), login.User.ID)

	authed, err := srv.Authenticate(ctx, login.Access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)

	refreshed, err := srv.Refresh(ctx, &request.RefreshRequest{Refresh: login.Refresh})
	require.NoError(t, err)
	_, err = srv.Authenticate(ctx, refreshed.Access)
	assert.NoError(t, err)

	_, err = srv.Refresh(ctx, &request.RefreshRequest{Refresh: login.Access})
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = srv.Refresh(ctx, &request.RefreshRequest{Refresh: "garbage"})
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = srv.Authenticate(ctx, login.Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_LoginFailures(t *testing.T) {
	_, users, _ := memory.New()
	srv := NewAuthService(users, token.New("test-secret", time.Minute, time.Hour), testLogger)
	ctx := context.Background()

	seedUser(t, users, "alice", "secret123", true)
	seedUser(t, users, "dormant", "secret123", false)

	tests := []struct {
		name string
		req  request.LoginRequest
		err  error
	}{
		{"MissingUsername", request.LoginRequest{Password: "secret123"}, ErrMissingCredentials},
		{"MissingPassword", request.LoginRequest{Username: "alice"}, ErrMissingCredentials},
		{"WrongPassword", request.LoginRequest{Username: "alice", Password: "nope"}, ErrInvalidCredentials},
		{"UnknownUser", request.LoginRequest{Username: "ghost", Password: "secret123"}, ErrInvalidCredentials},
		{"InactiveUser", request.LoginRequest{Username: "dormant", Password: "secret123"}, ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := srv.Login(ctx, &tt.req)
			assert.ErrorIs(t, err, tt.err)
			assert.Nil(t, resp)
		})
	}
}

func TestAuthService_RefreshRejectsRemovedUser(t *testing.T) {
	_, users, _ := memory.New()
	srv := NewAuthService(users, token.New("test-secret", time.Minute, time.Hour), testLogger)
	ctx := context.Background()

	user := seedUser(t, users, "alice", "secret123", true)
	login, err := srv.Login(ctx, &request.LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, users.Delete(ctx, user.ID))

	_, err = srv.Refresh(ctx, &request.RefreshRequest{Refresh: login.Refresh})
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = srv.Authenticate(ctx, login.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_RefreshRequiresField(t *testing.T) {
	_, users, _ := memory.New()
	srv := NewAuthService(users, token.New("test-secret", time.Minute, time.Hour), testLogger)

	_, err := srv.Refresh(context.Background(), &request.RefreshRequest{})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "refresh")
}

func TestAuthService_IssuerFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, users, _ := memory.New()
	user := seedUser(t, users, "alice", "secret123", true)

	mockTokens := NewMockTokenIssuer(ctrl)
	mockTokens.EXPECT().IssuePair(user.ID, "member").Return(nil, errors.New("signing failed"))

	srv := NewAuthService(users, mockTokens, testLogger)
	_, err := srv.Login(context.Background(), &request.LoginRequest{Username: "alice", Password: "secret123"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_AuthenticateMapsTokenErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, users, _ := memory.New()
	mockTokens := NewMockTokenIssuer(ctrl)
	srv := NewAuthService(users, mockTokens, testLogger)

	mockTokens.EXPECT().ParseAccess("refresh-token").Return(nil, token.ErrWrongType)
	_, err := srv.Authenticate(context.Background(), "refresh-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	ghost := uuid.New()
	mockTokens.EXPECT().ParseAccess("ghost-token").Return(&token.Claims{UserID: ghost.String()}, nil)
	_, err = srv.Authenticate(context.Background(), "ghost-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
