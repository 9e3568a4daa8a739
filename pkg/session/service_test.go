package session

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanlanch/brokerhub/pkg/auth"
	"github.com/jordanlanch/brokerhub/pkg/cache"
	"github.com/jordanlanch/brokerhub/pkg/domain"
	"github.com/jordanlanch/brokerhub/pkg/logger"
	"github.com/jordanlanch/brokerhub/pkg/models"
	"github.com/jordanlanch/brokerhub/pkg/store"
)

func setupService(t *testing.T) *Service {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := cache.NewClientFromRedis(redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	}))

	st := store.New(client, "real_estate", logger.Default())
	require.NoError(t, st.Seed(context.Background(), "password123"))

	return NewService(st, auth.NewTokenManager("test-secret", 24), logger.Default())
}

func TestService_Login(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, models.LoginRequest{
		Email:    "mafer@real_estate.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "Mafer", resp.User.Name)
	assert.Empty(t, resp.User.PasswordHash)
	require.NotNil(t, resp.User.LastLogin)

	current, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", current.ID)
}

func TestService_LoginUnknownUser(t *testing.T) {
	svc := setupService(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "nobody@real_estate.com",
		Password: "password123",
	})
	require.Error(t, err)
	assert.True(t, domain.IsUnauthorized(err))
}

func TestService_LoginDisabledAccount(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	inactive := false
	_, err := svc.store.UpdateUser(ctx, "2", models.UserPatch{IsActive: &inactive})
	require.NoError(t, err)

	// Disabled wins over wrong password: the account check runs first
	_, err = svc.Login(ctx, models.LoginRequest{
		Email:    "mariano@real_estate.com",
		Password: "wrong-password",
	})
	require.Error(t, err)
	assert.True(t, domain.IsAccountDisabled(err))
}

func TestService_LoginWrongPassword(t *testing.T) {
	svc := setupService(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "mafer@real_estate.com",
		Password: "wrong-password",
	})
	require.Error(t, err)
	assert.True(t, domain.IsUnauthorized(err))
}

func TestService_Register(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, models.RegisterRequest{
		Email:    "nuevo@real_estate.com",
		Password: "super-secret-1",
		Name:     "Nuevo Broker",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RoleBroker, resp.User.Role)
	assert.Contains(t, resp.User.Permissions, "leads:write")

	// Registering twice with the same email conflicts
	_, err = svc.Register(ctx, models.RegisterRequest{
		Email:    "nuevo@real_estate.com",
		Password: "super-secret-1",
		Name:     "Nuevo Broker",
	})
	require.Error(t, err)
	assert.True(t, domain.IsConflict(err))
}

func TestService_RegisterAdminGetsWildcard(t *testing.T) {
	svc := setupService(t)

	resp, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:    "jefe@real_estate.com",
		Password: "super-secret-1",
		Name:     "Jefe",
		Role:     models.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"*"}, resp.User.Permissions)
}

func TestService_Logout(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, models.LoginRequest{
		Email:    "mafer@real_estate.com",
		Password: "password123",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx))

	_, err = svc.Current(ctx)
	require.Error(t, err)
	assert.True(t, domain.IsUnauthorized(err))
}
