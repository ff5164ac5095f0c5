package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stockmaster/internal/application/auth"
	"github.com/jhoicas/stockmaster/internal/application/dto"
	"github.com/jhoicas/stockmaster/internal/domain"
	"github.com/jhoicas/stockmaster/internal/domain/entity"
	"github.com/jhoicas/stockmaster/internal/infrastructure/memory"
)

func newUseCase() *auth.UserUseCase {
	return auth.NewUserUseCase(memory.NewStore().Users(), bcrypt.MinCost)
}

func TestEnsureUser(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()

	user, created, err := uc.EnsureUser(ctx, dto.EnsureUserRequest{Email: " Demo@StockMaster.com ", Password: "Demo1234!"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "demo@stockmaster.com", user.Email)
	assert.Equal(t, entity.RoleWarehouseStaff, user.Role)
	assert.NotEqual(t, "Demo1234!", user.PasswordHash, "nunca se guarda la contraseña plana")

	again, created, err := uc.EnsureUser(ctx, dto.EnsureUserRequest{Email: "demo@stockmaster.com", Password: "otra"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, user.ID, again.ID)

	// la contraseña original sigue valiendo
	_, err = uc.Authenticate(ctx, "demo@stockmaster.com", "Demo1234!")
	assert.NoError(t, err)

	_, _, err = uc.EnsureUser(ctx, dto.EnsureUserRequest{Email: "x@y.z"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAuthenticateAndReset(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()
	_, _, err := uc.EnsureUser(ctx, dto.EnsureUserRequest{Email: "staff@stockmaster.com", Password: "viejo"})
	require.NoError(t, err)

	_, err = uc.Authenticate(ctx, "staff@stockmaster.com", "malo")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Authenticate(ctx, "nadie@stockmaster.com", "viejo")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, uc.ResetPassword(ctx, "staff@stockmaster.com", "nuevo"))
	_, err = uc.Authenticate(ctx, "staff@stockmaster.com", "viejo")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Authenticate(ctx, "STAFF@stockmaster.com", "nuevo")
	assert.NoError(t, err)

	assert.ErrorIs(t, uc.ResetPassword(ctx, "nadie@stockmaster.com", "x"), domain.ErrNotFound)
	assert.ErrorIs(t, uc.ResetPassword(ctx, "staff@stockmaster.com", ""), domain.ErrInvalidInput)
}
