package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"records-system/internal/dto"
	"records-system/internal/repositories"
	apperrors "records-system/pkg/errors"
	"records-system/pkg/service"
	"records-system/pkg/utils"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.TokenPairDTO, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairDTO, error)
}

type authService struct {
	userRepo   repositories.UserRepositoryInterface
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	jwtService service.JWTService,
	logger *zap.Logger,
) AuthServiceInterface {
	return &authService{userRepo: userRepo, jwtService: jwtService, logger: logger}
}

// Login проверяет учётные данные и выдаёт пару токенов с уже разрешённым
// актором внутри. Несуществующий email и неверный пароль дают один и тот же
// ответ, чтобы не раскрывать наличие учётной записи.
func (s *authService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.TokenPairDTO, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewHttpError(401, "Неверные учётные данные", apperrors.ErrInvalidCredentials, nil)
		}
		return nil, err
	}

	if err := utils.ComparePasswords(user.Password, payload.Password); err != nil {
		return nil, apperrors.NewHttpError(401, "Неверные учётные данные", apperrors.ErrInvalidCredentials, nil)
	}

	accessToken, refreshToken, err := s.jwtService.GenerateTokens(user.Actor())
	if err != nil {
		s.logger.Error("сбой генерации токенов", zap.Uint64("userId", user.ID), zap.Error(err))
		return nil, apperrors.NewInternalError("Не удалось выпустить токены")
	}

	return &dto.TokenPairDTO{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh выпускает новую пару по refresh-токену. Пользователь перечитывается
// из БД: смена роли или секции вступает в силу при следующем обновлении токена.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairDTO, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, apperrors.NewHttpError(401, "Недопустимый refresh-токен", err, nil)
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.NewHttpError(401, "Передан access-токен вместо refresh", apperrors.ErrInvalidToken, nil)
	}

	user, err := s.userRepo.FindUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewHttpError(401, "Пользователь не найден", apperrors.ErrInvalidCredentials, nil)
		}
		return nil, err
	}

	accessToken, newRefreshToken, err := s.jwtService.GenerateTokens(user.Actor())
	if err != nil {
		s.logger.Error("сбой генерации токенов", zap.Uint64("userId", user.ID), zap.Error(err))
		return nil, apperrors.NewInternalError("Не удалось выпустить токены")
	}

	return &dto.TokenPairDTO{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}
