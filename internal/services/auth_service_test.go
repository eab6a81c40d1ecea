package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArowuTest/club-portal-backend/internal/models"
	"github.com/ArowuTest/club-portal-backend/internal/repositories"
	"github.com/ArowuTest/club-portal-backend/internal/repositories/memory"
	"github.com/ArowuTest/club-portal-backend/pkg/jwt"
)

func newAuthFixture(t *testing.T) (AuthService, *memory.StaffUserRepository, *jwt.TokenService) {
	t.Helper()
	tokens, err := jwt.NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)
	users := memory.NewStaffUserRepository()
	return NewAuthService(users, tokens), users, tokens
}

func TestCreateStaffUserAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, users, tokens := newAuthFixture(t)

	user, err := svc.CreateStaffUser(ctx, "Sam", " Sam@Club.test ", "correct-horse", models.RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, "sam@club.test", user.Email)
	assert.Empty(t, user.Password)

	stored, err := users.FindByEmail(ctx, "sam@club.test")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", stored.Password)

	resp, err := svc.Login(ctx, &models.LoginRequest{Email: "SAM@club.test", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, resp.Role)
	assert.True(t, resp.ExpiresAt.After(time.Now()))

	claims, err := tokens.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)
	assert.Equal(t, "sam@club.test", claims.Email)
	assert.Equal(t, models.RoleStaff, claims.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthFixture(t)
	_, err := svc.CreateStaffUser(ctx, "Sam", "sam@club.test", "correct-horse", models.RoleStaff)
	require.NoError(t, err)

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "sam@club.test", Password: "wrong-horse"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "nobody@club.test", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateStaffUserValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthFixture(t)

	_, err := svc.CreateStaffUser(ctx, "Sam", "sam@club.test", "correct-horse", "owner")
	assert.Error(t, err)

	_, err = svc.CreateStaffUser(ctx, "Sam", "sam@club.test", "short", models.RoleStaff)
	assert.Error(t, err)

	_, err = svc.CreateStaffUser(ctx, "Sam", "sam@club.test", "correct-horse", models.RoleStaff)
	require.NoError(t, err)
	_, err = svc.CreateStaffUser(ctx, "Sam again", "SAM@club.test", "correct-horse", models.RoleStaff)
	assert.ErrorIs(t, err, repositories.ErrDuplicate)
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newAuthFixture(t)

	require.NoError(t, svc.EnsureAdmin(ctx, "admin@club.test", "admin-password"))
	require.NoError(t, svc.EnsureAdmin(ctx, "admin@club.test", "another-password"))

	count, err := users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	resp, err := svc.Login(ctx, &models.LoginRequest{Email: "admin@club.test", Password: "admin-password"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, resp.Role)
}
