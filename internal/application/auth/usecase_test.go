package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/alnatural-api/internal/application/auth"
	"github.com/jhoicas/alnatural-api/internal/application/dto"
	"github.com/jhoicas/alnatural-api/internal/domain"
	"github.com/jhoicas/alnatural-api/internal/domain/entity"
	"github.com/jhoicas/alnatural-api/internal/testutil"
	pkgjwt "github.com/jhoicas/alnatural-api/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

func newAuth() (*auth.AuthUseCase, *testutil.Store) {
	store := testutil.NewStore()
	return auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "test"}, ""), store
}

func TestRegisterYLogin(t *testing.T) {
	uc, _ := newAuth()
	ctx := context.Background()

	user, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: " Admin@Example.com ", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", user.Email)
	assert.Equal(t, entity.UserStatusActive, user.Status)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "admin@example.com", Password: "otro12345"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "ADMIN@example.com", Password: "secreto123"})
	require.NoError(t, err)
	claims, err := pkgjwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "admin@example.com", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@example.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestIsAdminYMe(t *testing.T) {
	uc, store := newAuth()
	ctx := context.Background()
	store.AddUser(entity.User{ID: "u-admin", Email: "a@x.com", Status: entity.UserStatusActive}, entity.RoleAdmin)
	store.AddUser(entity.User{ID: "u-normal", Email: "n@x.com", Status: entity.UserStatusActive})

	ok, err := uc.IsAdmin(ctx, "u-admin")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = uc.IsAdmin(ctx, "u-normal")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = uc.IsAdmin(ctx, "")
	require.NoError(t, err)
	assert.False(t, ok)

	me, err := uc.Me(ctx, "u-admin")
	require.NoError(t, err)
	assert.True(t, me.IsAdmin)

	_, err = uc.Me(ctx, "u-fantasma")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogin_CuentaInactiva(t *testing.T) {
	uc, store := newAuth()
	store.AddUser(entity.User{ID: "u1", Email: "y@example.com", PasswordHash: mustHash(t, "secreto123"), Status: entity.UserStatusInactive})

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "y@example.com", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
