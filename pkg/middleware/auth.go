package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"records-system/pkg/api"
	apperrors "records-system/pkg/errors"
	"records-system/pkg/service"
	"records-system/pkg/utils"
)

type AuthMiddleware struct {
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		logger:     logger,
	}
}

// Auth - это основная функция middleware.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// 1. Извлекаем токен из заголовка
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			m.logger.Warn("AuthMiddleware: Пустой заголовок Authorization")
			return api.ErrorResponse(c, apperrors.NewHttpError(401, apperrors.ErrEmptyAuthHeader.Error(), nil, nil))
		}

		// 2. Проверяем формат заголовка "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.logger.Warn("AuthMiddleware: Неверный формат заголовка Authorization")
			return api.ErrorResponse(c, apperrors.NewHttpError(401, apperrors.ErrInvalidAuthHeader.Error(), nil, nil))
		}

		tokenString := parts[1]

		// 3. Валидируем токен
		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			m.logger.Warn("AuthMiddleware: Ошибка валидации токена", zap.Error(err))
			return api.ErrorResponse(c, apperrors.NewHttpError(401, err.Error(), err, nil))
		}

		// 4. Убеждаемся, что это не refresh токен
		if claims.IsRefreshToken {
			m.logger.Warn("AuthMiddleware: Попытка доступа с refresh токеном")
			return api.ErrorResponse(c, apperrors.NewHttpError(401, apperrors.ErrTokenIsNotAccess.Error(), nil, nil))
		}

		// 5. Кладём актора в контекст запроса для дальнейшего использования
		newCtx := utils.ContextWithActor(c.Request().Context(), claims.Actor())
		c.SetRequest(c.Request().WithContext(newCtx))

		return next(c)
	}
}
