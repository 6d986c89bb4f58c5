package services

import (
	"context"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"records-system/internal/dto"
	"records-system/internal/entities"
	"records-system/pkg/service"
	"records-system/pkg/types"
	"records-system/pkg/utils"
)

type fakeUserRepo struct{ users map[uint64]entities.User }

func (r *fakeUserRepo) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, apperrorsNotFound()
	}
	return &user, nil
}

func (r *fakeUserRepo) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	for _, user := range r.users {
		if equalFold(user.Email, email) {
			u := user
			return &u, nil
		}
	}
	return nil, apperrorsNotFound()
}

func newAuthEnv(t *testing.T) (AuthServiceInterface, service.JWTService) {
	t.Helper()

	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)

	userRepo := &fakeUserRepo{users: map[uint64]entities.User{
		100: {
			ID:        100,
			Fio:       "Иванов И.И.",
			Email:     "clerk@records.local",
			Password:  hash,
			Role:      types.RoleGeneral,
			SectionID: null.Uint64From(3),
		},
	}}
	jwtService := service.NewJWTService("test-secret", time.Hour, time.Hour*24)
	return NewAuthService(userRepo, jwtService, zap.NewNop()), jwtService
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, jwtService := newAuthEnv(t)

	t.Run("успешный вход", func(t *testing.T) {
		pair, err := svc.Login(ctx, dto.LoginDTO{Email: "clerk@records.local", Password: "secret123"})
		require.NoError(t, err)
		require.NotEmpty(t, pair.AccessToken)
		require.NotEmpty(t, pair.RefreshToken)

		// В access-токене уже разрешённый актор с секцией.
		claims, err := jwtService.ValidateToken(pair.AccessToken)
		require.NoError(t, err)
		assert.False(t, claims.IsRefreshToken)
		actor := claims.Actor()
		assert.Equal(t, uint64(100), actor.ID)
		assert.Equal(t, types.RoleGeneral, actor.Role)
		require.NotNil(t, actor.SectionID)
		assert.Equal(t, uint64(3), *actor.SectionID)
	})

	t.Run("неверный пароль", func(t *testing.T) {
		_, err := svc.Login(ctx, dto.LoginDTO{Email: "clerk@records.local", Password: "wrong"})
		requireHTTPCode(t, err, 401)
	})

	t.Run("несуществующий email даёт тот же ответ", func(t *testing.T) {
		_, err := svc.Login(ctx, dto.LoginDTO{Email: "nobody@records.local", Password: "secret123"})
		requireHTTPCode(t, err, 401)
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthEnv(t)

	pair, err := svc.Login(ctx, dto.LoginDTO{Email: "clerk@records.local", Password: "secret123"})
	require.NoError(t, err)

	t.Run("refresh-токен обновляет пару", func(t *testing.T) {
		newPair, err := svc.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, newPair.AccessToken)
	})

	t.Run("access-токен вместо refresh отклоняется", func(t *testing.T) {
		_, err := svc.Refresh(ctx, pair.AccessToken)
		requireHTTPCode(t, err, 401)
	})
}
